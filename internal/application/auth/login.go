package auth

import (
	"context"
	"strings"

	"github.com/mealmate/mealmate-api/internal/domain"
)

// Login verifies credentials and issues either a session token or, for
// MFA-enabled users, a staged token that only completes the challenge.
// IMPORTANT: must not leak whether the email exists (avoid user enumeration).
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Hide not-found behind invalid credentials. Infrastructure
		// failures still surface as such.
		if domain.Is(err, "db_unavailable") {
			return LoginResult{}, err
		}
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	if u.MFAEnabled {
		temp, err := s.tokens.SignStagedToken(u.ID, s.stagedTTL)
		if err != nil {
			return LoginResult{}, domain.ErrTokenSignFailed(err)
		}
		s.audit("login_mfa_pending", map[string]string{"user_id": u.ID})
		return LoginResult{MFARequired: true, TempToken: temp}, nil
	}

	tok, err := s.tokens.SignSessionToken(u.ID, u.Email, s.sessionTTL)
	if err != nil {
		return LoginResult{}, domain.ErrTokenSignFailed(err)
	}

	s.audit("user_logged_in", map[string]string{"user_id": u.ID})
	return LoginResult{MFARequired: false, Token: tok}, nil
}
