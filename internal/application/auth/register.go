package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/mealmate/mealmate-api/internal/domain"
	"github.com/mealmate/mealmate-api/internal/logger"
)

func (s *Service) Register(ctx context.Context, email, password string) (RegisterResult, error) {
	if email == "" {
		return RegisterResult{}, domain.ErrMissingField("email")
	}
	if password == "" {
		return RegisterResult{}, domain.ErrMissingField("password")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return RegisterResult{}, domain.ErrHashFailed(err)
	}

	u := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		MFAEnabled:   false,
	}

	// Single insert; a concurrent registration with the same email is
	// resolved by the store's uniqueness constraint, not here.
	created, err := s.users.Create(ctx, u)
	if err != nil {
		return RegisterResult{}, err
	}

	s.audit("user_registered", map[string]string{"user_id": created.ID})

	if s.pub != nil {
		if err := s.pub.PublishUserRegistered(ctx, UserRegisteredEvent{
			UserID: created.ID,
			Email:  created.Email,
		}); err != nil {
			logger.WithCtx(ctx).Warn().Err(err).Msg("publish user_registered failed")
		}
	}

	return RegisterResult{User: created}, nil
}
