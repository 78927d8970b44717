package meals

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/mealmate/mealmate-api/internal/domain"
)

// MealRepo is the persistence port for nutrition entries.
type MealRepo interface {
	Create(ctx context.Context, m domain.Meal) (domain.Meal, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Meal, error)
}

type Service struct {
	meals MealRepo
}

func NewService(meals MealRepo) *Service {
	return &Service{meals: meals}
}

// Input carries a new entry; the macro fields are optional.
type Input struct {
	MealText string
	Calories *int
	ProteinG *float64
	CarbsG   *float64
	FatG     *float64
}

func (s *Service) Create(ctx context.Context, userID string, in Input) (domain.Meal, error) {
	if strings.TrimSpace(in.MealText) == "" {
		return domain.Meal{}, domain.ErrMissingField("meal_text")
	}

	m := domain.Meal{
		ID:       uuid.NewString(),
		UserID:   userID,
		MealText: in.MealText,
		Calories: in.Calories,
		ProteinG: in.ProteinG,
		CarbsG:   in.CarbsG,
		FatG:     in.FatG,
	}
	return s.meals.Create(ctx, m)
}

// List returns the user's entries, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]domain.Meal, error) {
	return s.meals.ListByUser(ctx, userID)
}
