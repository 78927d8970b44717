package auth

import (
	"context"
	"time"

	"github.com/mealmate/mealmate-api/internal/domain"
)

/*
UserRepo
--------
Persistence port for users.
Only describes WHAT the auth service needs, not HOW it's stored.

Create must rely on the store's uniqueness constraint for duplicate
emails and report the violation as ErrEmailAlreadyExists; the service
never pre-checks existence (check-then-act race).
*/
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)

	// SetMFASecret overwrites any previous secret and leaves the
	// enabled flag untouched.
	SetMFASecret(ctx context.Context, userID string, secret string) error
	EnableMFA(ctx context.Context, userID string) error
}

/*
PasswordHasher
--------------
Abstracts bcrypt / argon2.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenIssuer
-----------
Signs and verifies the two token flavors. A session token authorizes
general API access; a staged token only authorizes completing the MFA
challenge. Verification failures all surface as token_invalid.
*/
type SessionClaims struct {
	UserID string
	Email  string
	Exp    time.Time
}

type StagedClaims struct {
	UserID string
	Exp    time.Time
}

type TokenIssuer interface {
	SignSessionToken(userID, email string, ttl time.Duration) (string, error)
	SignStagedToken(userID string, ttl time.Duration) (string, error)
	VerifySessionToken(token string) (SessionClaims, error)
	VerifyStagedToken(token string) (StagedClaims, error)
}

/*
TOTPProvider
------------
Shared-secret issuance and time-based code verification.
*/
type Enrollment struct {
	Base32    string // raw secret for manual entry
	URL       string // otpauth:// provisioning URI
	QRDataURL string // data:image/png;base64,... for direct rendering
}

type TOTPProvider interface {
	GenerateSecret(account string) (Enrollment, error)
	// VerifyCode checks code against secret accepting +/- window time
	// steps of drift. Malformed codes return false, never an error.
	VerifyCode(secret, code string, window uint) bool
}

/*
ReplayGuard
-----------
Marks accepted TOTP codes as used so a captured code (or a replayed
staged token with the same code) cannot be accepted twice within its
validity window. MarkUsed returns false when the code was seen before.
Implementations may fail open; the service logs and continues.
*/
type ReplayGuard interface {
	MarkUsed(ctx context.Context, userID, code string, ttl time.Duration) (bool, error)
}

/*
EventPublisher
--------------
Best-effort notifications about account lifecycle. Failures are logged
and never surfaced to the client.
*/
type UserRegisteredEvent struct {
	UserID string
	Email  string
}

type MFAEnabledEvent struct {
	UserID string
}

type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error
	PublishMFAEnabled(ctx context.Context, evt MFAEnabledEvent) error
}
