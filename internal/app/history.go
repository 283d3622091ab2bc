package app

import (
	"context"
	"fmt"
	"time"

	"nutriplan/internal/domain"
)

// HistoryAnalyzer turns a user's meal log into per-slot candidate foods.
type HistoryAnalyzer struct {
	history domain.MealHistory
	foods   domain.FoodCatalog
	now     func() time.Time
}

// NewHistoryAnalyzer creates a HistoryAnalyzer backed by the given ports.
func NewHistoryAnalyzer(history domain.MealHistory, foods domain.FoodCatalog) *HistoryAnalyzer {
	return &HistoryAnalyzer{history: history, foods: foods, now: time.Now}
}

// WithClock overrides the time source used to compute the lookback window.
func (a *HistoryAnalyzer) WithClock(now func() time.Time) *HistoryAnalyzer {
	a.now = now
	return a
}

// FrequentFoods returns, for every meal slot, up to limitPerMeal foods the
// user logged most often in that slot during the last lookbackDays days,
// most frequent first. Slots without history map to an empty list.
func (a *HistoryAnalyzer) FrequentFoods(ctx context.Context, userID int64, lookbackDays, limitPerMeal int) (map[domain.MealSlot][]domain.Food, error) {
	today := a.now().In(time.Local)
	since := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.Local).AddDate(0, 0, -lookbackDays)

	out := make(map[domain.MealSlot][]domain.Food, len(domain.MealSlots))
	for _, meal := range domain.MealSlots {
		ids, err := a.history.FrequentFoodIDs(ctx, userID, meal, since, limitPerMeal)
		if err != nil {
			return nil, fmt.Errorf("finding frequent %s foods: %w", meal, err)
		}
		if len(ids) == 0 {
			out[meal] = []domain.Food{}
			continue
		}
		foods, err := a.foods.FoodsByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("loading frequent %s foods: %w", meal, err)
		}
		out[meal] = foods
	}
	return out, nil
}
