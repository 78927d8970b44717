package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mealmate/mealmate-api/internal/domain"
)

type MealRepo struct {
	mu     sync.RWMutex
	byUser map[string][]domain.Meal
}

func NewMealRepo() *MealRepo {
	return &MealRepo{byUser: make(map[string][]domain.Meal)}
}

func (r *MealRepo) Create(ctx context.Context, m domain.Meal) (domain.Meal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	// newest first, matching the postgres ORDER BY created_at DESC
	r.byUser[m.UserID] = append([]domain.Meal{m}, r.byUser[m.UserID]...)
	return m, nil
}

func (r *MealRepo) ListByUser(ctx context.Context, userID string) ([]domain.Meal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Meal, len(r.byUser[userID]))
	copy(out, r.byUser[userID])
	return out, nil
}
