package auth

import (
	"context"

	"github.com/mealmate/mealmate-api/internal/domain"
	"github.com/mealmate/mealmate-api/internal/logger"
)

// SetupMFA issues a fresh shared secret for an authenticated user and
// stores it. The enabled flag is untouched until EnableMFA proves
// possession; repeating setup discards the previous secret.
func (s *Service) SetupMFA(ctx context.Context, userID string) (Enrollment, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return Enrollment{}, err
	}

	enr, err := s.totp.GenerateSecret(u.Email)
	if err != nil {
		return Enrollment{}, domain.ErrTOTPFailed(err)
	}

	if err := s.users.SetMFASecret(ctx, u.ID, enr.Base32); err != nil {
		return Enrollment{}, err
	}

	s.audit("mfa_setup", map[string]string{"user_id": u.ID})
	return enr, nil
}

// EnableMFA turns MFA on once the user submits a code that verifies
// against the stored secret.
func (s *Service) EnableMFA(ctx context.Context, userID, code string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.MFASecret == "" {
		return domain.ErrMFASetupRequired()
	}

	// The code is not marked used here: a user who enables MFA and logs
	// in right away may legitimately present the same 30s step again.
	// Replay protection applies to the login path only.
	if !s.totp.VerifyCode(u.MFASecret, code, codeWindow) {
		return domain.ErrInvalidMFACode()
	}

	if err := s.users.EnableMFA(ctx, u.ID); err != nil {
		return err
	}

	s.audit("mfa_enabled", map[string]string{"user_id": u.ID})

	if s.pub != nil {
		if err := s.pub.PublishMFAEnabled(ctx, MFAEnabledEvent{UserID: u.ID}); err != nil {
			logger.WithCtx(ctx).Warn().Err(err).Msg("publish mfa_enabled failed")
		}
	}
	return nil
}

// VerifyMFALogin completes a staged login: the temp token proves the
// password step, the code proves possession of the enrolled device.
func (s *Service) VerifyMFALogin(ctx context.Context, tempToken, code string) (string, error) {
	if tempToken == "" {
		return "", domain.ErrMissingField("temp_token")
	}
	if code == "" {
		return "", domain.ErrMissingField("code")
	}

	claims, err := s.tokens.VerifyStagedToken(tempToken)
	if err != nil {
		return "", domain.ErrTokenInvalid()
	}

	// A user deleted after the password step looks the same as one
	// without MFA; the staged token reveals nothing else.
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if domain.Is(err, "user_not_found") {
			return "", domain.ErrMFANotEnabled()
		}
		return "", err
	}
	if !u.MFAEnabled {
		return "", domain.ErrMFANotEnabled()
	}

	if !s.totp.VerifyCode(u.MFASecret, code, codeWindow) {
		return "", domain.ErrInvalidMFACode()
	}
	if !s.markCodeUsed(ctx, u.ID, code) {
		return "", domain.ErrInvalidMFACode()
	}

	tok, err := s.tokens.SignSessionToken(u.ID, u.Email, s.sessionTTL)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}

	s.audit("user_logged_in_mfa", map[string]string{"user_id": u.ID})
	return tok, nil
}

// markCodeUsed records an accepted code so it cannot be replayed within
// its validity window. The guard fails open: if the backing store errors,
// the code is accepted and a warning is logged.
func (s *Service) markCodeUsed(ctx context.Context, userID, code string) bool {
	if s.replay == nil {
		return true
	}
	fresh, err := s.replay.MarkUsed(ctx, userID, code, usedCodeTTL)
	if err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Msg("replay guard unavailable")
		return true
	}
	return fresh
}
