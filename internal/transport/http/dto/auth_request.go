package dto

// -------- Core auth --------

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *RegisterRequest) Validate() error { return check(r) }

// LoginRequest carries no validation rules on purpose: empty fields
// must fail exactly like a wrong password (invalid_credentials, 401),
// never as a 400 that reveals which part was missing.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// -------- MFA --------

// EnableMFARequest: a missing code fails verification like a wrong
// code (401); only the setup precondition is a 400.
type EnableMFARequest struct {
	Code string `json:"code"`
}

type VerifyMFARequest struct {
	TempToken string `json:"temp_token" validate:"required"`
	Code      string `json:"code" validate:"required"`
}

func (r *VerifyMFARequest) Validate() error { return check(r) }

// -------- Meals --------

type CreateMealRequest struct {
	MealText string   `json:"meal_text" validate:"required"`
	Calories *int     `json:"calories"`
	ProteinG *float64 `json:"protein_g"`
	CarbsG   *float64 `json:"carbs_g"`
	FatG     *float64 `json:"fat_g"`
}

func (r *CreateMealRequest) Validate() error { return check(r) }
