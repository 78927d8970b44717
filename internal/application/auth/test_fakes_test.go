package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mealmate/mealmate-api/internal/domain"
)

/*
Shared audit capture
*/

type auditEntry struct {
	action string
	fields map[string]string
}

type auditLog struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *auditLog) record(action string, fields map[string]string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, auditEntry{action: action, fields: fields})
}

func (a *auditLog) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.action)
	}
	return out
}

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu sync.Mutex

	byID    map[string]domain.User
	byEmail map[string]domain.User

	// injected errors (if set, method returns error)
	getByIDErr    error
	getByEmailErr error
	createErr     error
	setSecretErr  error
	enableErr     error

	// record calls
	setSecrets []struct{ id, secret string }
	enabledIDs []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[string]domain.User{},
		byEmail: map[string]domain.User{},
	}
}

func (f *fakeUserRepo) add(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByEmailErr != nil {
		return domain.User{}, f.getByEmailErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByIDErr != nil {
		return domain.User{}, f.getByIDErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	if _, exists := f.byEmail[u.Email]; exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUserRepo) SetMFASecret(ctx context.Context, userID string, secret string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setSecretErr != nil {
		return f.setSecretErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.MFASecret = secret
	f.byID[userID] = u
	f.byEmail[u.Email] = u
	f.setSecrets = append(f.setSecrets, struct{ id, secret string }{userID, secret})
	return nil
}

func (f *fakeUserRepo) EnableMFA(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.enableErr != nil {
		return f.enableErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	if u.MFASecret == "" {
		return domain.ErrMFASetupRequired()
	}
	u.MFAEnabled = true
	f.byID[userID] = u
	f.byEmail[u.Email] = u
	f.enabledIDs = append(f.enabledIDs, userID)
	return nil
}

type fakeHasher struct {
	hashFn    func(pw string) (string, error)
	compareFn func(hash, pw string) error
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashFn != nil {
		return h.hashFn(password)
	}
	return "hash:" + password, nil
}

func (h *fakeHasher) Compare(hash string, password string) error {
	if h.compareFn != nil {
		return h.compareFn(hash, password)
	}
	if hash == "hash:"+password {
		return nil
	}
	return errors.New("mismatch")
}

type fakeSigner struct {
	sessionErr error
	stagedErr  error

	// staged tokens this signer issued, keyed by token string
	staged map[string]StagedClaims
}

func newFakeSigner() *fakeSigner {
	return &fakeSigner{staged: map[string]StagedClaims{}}
}

func (s *fakeSigner) SignSessionToken(userID, email string, ttl time.Duration) (string, error) {
	if s.sessionErr != nil {
		return "", s.sessionErr
	}
	return fmt.Sprintf("jwt(%s,%s)", userID, email), nil
}

func (s *fakeSigner) SignStagedToken(userID string, ttl time.Duration) (string, error) {
	if s.stagedErr != nil {
		return "", s.stagedErr
	}
	tok := "staged:" + userID
	s.staged[tok] = StagedClaims{UserID: userID, Exp: time.Now().Add(ttl)}
	return tok, nil
}

func (s *fakeSigner) VerifySessionToken(token string) (SessionClaims, error) {
	return SessionClaims{}, domain.ErrTokenInvalid()
}

func (s *fakeSigner) VerifyStagedToken(token string) (StagedClaims, error) {
	c, ok := s.staged[token]
	if !ok {
		return StagedClaims{}, domain.ErrTokenInvalid()
	}
	return c, nil
}

type fakeTOTP struct {
	genErr error

	// accept maps secret -> the one code that verifies
	accept map[string]string
}

func newFakeTOTP() *fakeTOTP {
	return &fakeTOTP{accept: map[string]string{}}
}

func (f *fakeTOTP) GenerateSecret(account string) (Enrollment, error) {
	if f.genErr != nil {
		return Enrollment{}, f.genErr
	}
	secret := "SECRET-" + account
	f.accept[secret] = "123456"
	return Enrollment{
		Base32:    secret,
		URL:       "otpauth://totp/MealMate:" + account,
		QRDataURL: "data:image/png;base64,AAAA",
	}, nil
}

func (f *fakeTOTP) VerifyCode(secret, code string, window uint) bool {
	want, ok := f.accept[secret]
	return ok && want == code
}

type fakeReplayGuard struct {
	mu sync.Mutex

	err  error
	seen map[string]bool
}

func newFakeReplayGuard() *fakeReplayGuard {
	return &fakeReplayGuard{seen: map[string]bool{}}
}

func (g *fakeReplayGuard) MarkUsed(ctx context.Context, userID, code string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.err != nil {
		return false, g.err
	}
	key := userID + "|" + code
	if g.seen[key] {
		return false, nil
	}
	g.seen[key] = true
	return true, nil
}

type fakePublisher struct {
	mu sync.Mutex

	publishErr error

	registered []UserRegisteredEvent
	mfaEnabled []MFAEnabledEvent
}

func (p *fakePublisher) PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.publishErr != nil {
		return p.publishErr
	}
	p.registered = append(p.registered, evt)
	return nil
}

func (p *fakePublisher) PublishMFAEnabled(ctx context.Context, evt MFAEnabledEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.publishErr != nil {
		return p.publishErr
	}
	p.mfaEnabled = append(p.mfaEnabled, evt)
	return nil
}

/*
Service wiring for tests
*/

type svcFixture struct {
	svc    *Service
	users  *fakeUserRepo
	hasher *fakeHasher
	signer *fakeSigner
	totp   *fakeTOTP
	replay *fakeReplayGuard
	pub    *fakePublisher
	audit  *auditLog
}

func newSvcForTest(t *testing.T) svcFixture {
	t.Helper()

	fx := svcFixture{
		users:  newFakeUserRepo(),
		hasher: &fakeHasher{},
		signer: newFakeSigner(),
		totp:   newFakeTOTP(),
		replay: newFakeReplayGuard(),
		pub:    &fakePublisher{},
		audit:  &auditLog{},
	}
	fx.svc = NewService(fx.users, fx.hasher, fx.signer, fx.totp, fx.replay, fx.pub, Config{}).
		WithAudit(fx.audit.record)
	return fx
}
