package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type HealthHandler interface {
	Health(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	VerifyMFA(w http.ResponseWriter, r *http.Request)
}

type MFAHandler interface {
	Setup(w http.ResponseWriter, r *http.Request)
	Enable(w http.ResponseWriter, r *http.Request)
}

type MealsHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health HealthHandler
	Auth   AuthHandler
	MFA    MFAHandler
	Meals  MealsHandler

	RequestIDMW func(http.Handler) http.Handler
	AuthMW      func(http.Handler) http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.MFA == nil {
		return nil, fmt.Errorf("nil MFA handler")
	}
	if deps.Meals == nil {
		return nil, fmt.Errorf("nil Meals handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}

	r := chi.NewRouter()
	if deps.RequestIDMW != nil {
		r.Use(deps.RequestIDMW)
	}

	r.Get("/health", deps.Health.Health)

	// --- Auth flow ---
	r.Post("/auth/register", deps.Auth.Register)
	r.Post("/auth/login", deps.Auth.Login)
	r.Post("/auth/mfa", deps.Auth.VerifyMFA) // staged token + code

	// --- MFA management (full session required, staged won't do) ---
	r.Route("/mfa", func(r chi.Router) {
		r.Use(deps.AuthMW)
		r.Post("/setup", deps.MFA.Setup)
		r.Post("/enable", deps.MFA.Enable)
	})

	// --- Meals ---
	r.Route("/meals", func(r chi.Router) {
		r.Use(deps.AuthMW)
		r.Post("/", deps.Meals.Create)
		r.Get("/", deps.Meals.List)
	})

	return r, nil
}
