package domain

import (
	"context"
	"time"
)

// DailyGoals are a user's configured daily nutrition targets.
type DailyGoals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// Totals converts the goals into a MacroTotals value.
func (g DailyGoals) Totals() MacroTotals {
	return MacroTotals{Calories: g.Calories, Protein: g.Protein, Carbs: g.Carbs, Fats: g.Fats}
}

// GoalsProvider is the port for user nutrition targets.
type GoalsProvider interface {
	// DailyGoals returns nil, nil when the user has no goals configured.
	DailyGoals(ctx context.Context, userID int64) (*DailyGoals, error)
}

// MealHistory is the port for the user's logged meals.
type MealHistory interface {
	// FrequentFoodIDs returns up to limit food ids logged by the user in the
	// given slot since the given day, most frequent first.
	FrequentFoodIDs(ctx context.Context, userID int64, meal MealSlot, since time.Time, limit int) ([]int64, error)
}

// Serving is one food portion written to a user's daily log.
type Serving struct {
	UserID   int64
	Date     string
	Meal     MealSlot
	FoodID   int64
	Quantity float64
	Unit     string
}

// LogSink is the port that commits accepted recommendations to the daily log.
type LogSink interface {
	AddServing(ctx context.Context, s Serving) error
}
