package memory

import (
	"context"
	"sync"

	"github.com/mealmate/mealmate-api/internal/domain"
)

// UserRepo is an in-process store used in dev mode and handler tests.
type UserRepo struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string // email -> userID
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id, ok := r.byEmail[email]; ok {
		return r.byID[id], nil
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == "" {
		return domain.User{}, domain.ErrInternal(nil)
	}
	if _, taken := r.byEmail[u.Email]; taken {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}

	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return u, nil
}

// update applies fn to the stored user under the write lock.
func (r *UserRepo) update(userID string, fn func(*domain.User) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	if err := fn(&u); err != nil {
		return err
	}
	r.byID[userID] = u
	return nil
}

func (r *UserRepo) SetMFASecret(ctx context.Context, userID string, secret string) error {
	return r.update(userID, func(u *domain.User) error {
		u.MFASecret = secret
		return nil
	})
}

func (r *UserRepo) EnableMFA(ctx context.Context, userID string) error {
	return r.update(userID, func(u *domain.User) error {
		if u.MFASecret == "" {
			return domain.ErrMFASetupRequired()
		}
		u.MFAEnabled = true
		return nil
	})
}
