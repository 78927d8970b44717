package http_handlers

import (
	"net/http"
	"strings"

	"github.com/mealmate/mealmate-api/internal/application/auth"
	"github.com/mealmate/mealmate-api/internal/logger"
	"github.com/mealmate/mealmate-api/internal/transport/http/dto"
	"github.com/mealmate/mealmate-api/internal/transport/http/response"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Msg("user_registered")

	response.OK(w, dto.RegisterResponse{OK: true})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	if res.MFARequired {
		response.OK(w, dto.LoginResponse{MFARequired: true, TempToken: res.TempToken})
		return
	}
	response.OK(w, dto.LoginResponse{MFARequired: false, Token: res.Token})
}

// VerifyMFA completes a staged login (POST /auth/mfa).
func (h *AuthHandler) VerifyMFA(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyMFARequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	token, err := h.svc.VerifyMFALogin(r.Context(), req.TempToken, req.Code)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.VerifyMFAResponse{Token: token})
}
