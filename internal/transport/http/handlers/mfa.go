package http_handlers

import (
	"net/http"

	"github.com/mealmate/mealmate-api/internal/application/auth"
	"github.com/mealmate/mealmate-api/internal/domain"
	"github.com/mealmate/mealmate-api/internal/logger"
	"github.com/mealmate/mealmate-api/internal/transport/http/dto"
	"github.com/mealmate/mealmate-api/internal/transport/http/middleware"
	"github.com/mealmate/mealmate-api/internal/transport/http/response"
)

type MFAHandler struct {
	svc *auth.Service
}

func NewMFAHandler(svc *auth.Service) *MFAHandler {
	return &MFAHandler{svc: svc}
}

// Setup generates a fresh TOTP secret for the authenticated user
// (POST /mfa/setup). Repeating it replaces the previous secret.
func (h *MFAHandler) Setup(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	enr, err := h.svc.SetupMFA(r.Context(), userID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.SetupMFAResponse{
		OtpauthURL: enr.URL,
		QRDataURL:  enr.QRDataURL,
		Base32:     enr.Base32,
	})
}

// Enable turns MFA on after the user proves possession of the enrolled
// device (POST /mfa/enable).
func (h *MFAHandler) Enable(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	var req dto.EnableMFARequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.EnableMFA(r.Context(), userID, req.Code); err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", userID).
		Msg("mfa_enabled")

	response.OK(w, dto.EnableMFAResponse{OK: true, MFAEnabled: true})
}
