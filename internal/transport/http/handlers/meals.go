package http_handlers

import (
	"net/http"

	"github.com/mealmate/mealmate-api/internal/application/meals"
	"github.com/mealmate/mealmate-api/internal/domain"
	"github.com/mealmate/mealmate-api/internal/transport/http/dto"
	"github.com/mealmate/mealmate-api/internal/transport/http/middleware"
	"github.com/mealmate/mealmate-api/internal/transport/http/response"
)

type MealsHandler struct {
	svc *meals.Service
}

func NewMealsHandler(svc *meals.Service) *MealsHandler {
	return &MealsHandler{svc: svc}
}

func (h *MealsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	var req dto.CreateMealRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	_, err := h.svc.Create(r.Context(), userID, meals.Input{
		MealText: req.MealText,
		Calories: req.Calories,
		ProteinG: req.ProteinG,
		CarbsG:   req.CarbsG,
		FatG:     req.FatG,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.CreateMealResponse{OK: true})
}

func (h *MealsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	ms, err := h.svc.List(r.Context(), userID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.ToMealViews(ms))
}
