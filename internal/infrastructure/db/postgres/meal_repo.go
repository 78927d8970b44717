package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mealmate/mealmate-api/internal/domain"
)

type MealRepo struct {
	db *sql.DB
}

func NewMealRepo(db *sql.DB) *MealRepo {
	return &MealRepo{db: db}
}

func (r *MealRepo) Create(ctx context.Context, m domain.Meal) (domain.Meal, error) {
	if m.ID == "" {
		return domain.Meal{}, domain.ErrMissingField("id")
	}
	if m.UserID == "" {
		return domain.Meal{}, domain.ErrMissingField("user_id")
	}
	if strings.TrimSpace(m.MealText) == "" {
		return domain.Meal{}, domain.ErrMissingField("meal_text")
	}

	const q = `
INSERT INTO meals (id, user_id, meal_text, calories, protein_g, carbs_g, fat_g)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING created_at;
`
	err := r.db.QueryRowContext(ctx, q,
		m.ID, m.UserID, m.MealText, m.Calories, m.ProteinG, m.CarbsG, m.FatG,
	).Scan(&m.CreatedAt)
	if err != nil {
		return domain.Meal{}, domain.ErrDBUnavailable(err)
	}
	return m, nil
}

func (r *MealRepo) ListByUser(ctx context.Context, userID string) ([]domain.Meal, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrMissingField("user_id")
	}

	const q = `
SELECT id, user_id, meal_text, calories, protein_g, carbs_g, fat_g, created_at
FROM meals
WHERE user_id = $1
ORDER BY created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := make([]domain.Meal, 0)
	for rows.Next() {
		var m domain.Meal
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.MealText,
			&m.Calories, &m.ProteinG, &m.CarbsG, &m.FatG,
			&m.CreatedAt,
		); err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}
