package auth

import (
	"time"

	"github.com/mealmate/mealmate-api/internal/domain"
)

// usedCodeTTL is how long an accepted TOTP code stays marked as used.
// Must cover the accept window: (window+1) * 30s periods on each side.
const usedCodeTTL = 90 * time.Second

// codeWindow is the drift tolerance in 30s steps on each side.
const codeWindow = 1

type Service struct {
	users  UserRepo
	hasher PasswordHasher
	tokens TokenIssuer
	totp   TOTPProvider
	replay ReplayGuard
	pub    EventPublisher

	sessionTTL time.Duration
	stagedTTL  time.Duration
	audit      func(action string, fields map[string]string)
}

type Config struct {
	SessionTokenTTL time.Duration
	StagedTokenTTL  time.Duration
}

func NewService(
	users UserRepo,
	hasher PasswordHasher,
	tokens TokenIssuer,
	totp TOTPProvider,
	replay ReplayGuard,
	pub EventPublisher,
	cfg Config,
) *Service {
	sessionTTL := cfg.SessionTokenTTL
	if sessionTTL <= 0 {
		sessionTTL = 2 * time.Hour
	}
	stagedTTL := cfg.StagedTokenTTL
	if stagedTTL <= 0 {
		stagedTTL = 5 * time.Minute
	}
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		totp:   totp,
		replay: replay,
		pub:    pub,
		audit:  func(string, map[string]string) {},

		sessionTTL: sessionTTL,
		stagedTTL:  stagedTTL,
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

type RegisterResult struct {
	User domain.User
}

// LoginResult carries either a session token (MFARequired=false) or a
// short-lived staged token (MFARequired=true), never both.
type LoginResult struct {
	MFARequired bool
	Token       string // session token, empty when MFARequired
	TempToken   string // staged token, empty otherwise
}
