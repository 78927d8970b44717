package dto

import (
	"time"

	"github.com/mealmate/mealmate-api/internal/domain"
)

// -------- Core auth --------

type RegisterResponse struct {
	OK bool `json:"ok"`
}

// LoginResponse is the two-armed login reply: either a session token
// (mfa_required=false) or a short-lived temp token (mfa_required=true).
type LoginResponse struct {
	MFARequired bool   `json:"mfa_required"`
	Token       string `json:"token,omitempty"`
	TempToken   string `json:"temp_token,omitempty"`
}

type VerifyMFAResponse struct {
	Token string `json:"token"`
}

// -------- MFA management --------

type SetupMFAResponse struct {
	OtpauthURL string `json:"otpauth_url"`
	QRDataURL  string `json:"qr_data_url"`
	Base32     string `json:"base32"`
}

type EnableMFAResponse struct {
	OK         bool `json:"ok"`
	MFAEnabled bool `json:"mfa_enabled"`
}

// -------- Meals --------

type CreateMealResponse struct {
	OK bool `json:"ok"`
}

type MealView struct {
	ID        string    `json:"id"`
	MealText  string    `json:"meal_text"`
	Calories  *int      `json:"calories"`
	ProteinG  *float64  `json:"protein_g"`
	CarbsG    *float64  `json:"carbs_g"`
	FatG      *float64  `json:"fat_g"`
	CreatedAt time.Time `json:"created_at"`
}

func ToMealView(m domain.Meal) MealView {
	return MealView{
		ID:        m.ID,
		MealText:  m.MealText,
		Calories:  m.Calories,
		ProteinG:  m.ProteinG,
		CarbsG:    m.CarbsG,
		FatG:      m.FatG,
		CreatedAt: m.CreatedAt,
	}
}

func ToMealViews(ms []domain.Meal) []MealView {
	out := make([]MealView, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToMealView(m))
	}
	return out
}
