package domain

import "time"

// Meal is a single nutrition entry. The macro fields are nullable: the
// client may log a meal by text only and fill numbers in later.
type Meal struct {
	ID        string
	UserID    string
	MealText  string
	Calories  *int
	ProteinG  *float64
	CarbsG    *float64
	FatG      *float64
	CreatedAt time.Time
}
