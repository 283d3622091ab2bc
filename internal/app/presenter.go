package app

import (
	"context"
	"fmt"

	"nutriplan/internal/domain"
)

// ItemView is one recommendation with nutrition computed for its quantity.
type ItemView struct {
	ID                string                      `json:"id"`
	FoodID            int64                       `json:"foodId"`
	FoodName          string                      `json:"foodName"`
	SuggestedQuantity float64                     `json:"suggestedQuantity"`
	Unit              string                      `json:"unit"`
	Reason            string                      `json:"reason"`
	Status            domain.RecommendationStatus `json:"status"`
	Nutrition         domain.MacroTotals          `json:"nutrition"`
}

// MealView groups the items of one meal slot.
type MealView struct {
	Meal   domain.MealSlot    `json:"meal"`
	Items  []ItemView         `json:"items"`
	Totals domain.MacroTotals `json:"totals"`
}

// PlanView is the read model of a DietPlan.
type PlanView struct {
	ID         string             `json:"id"`
	Date       string             `json:"date"`
	Version    int                `json:"version"`
	Status     domain.PlanStatus  `json:"status"`
	Meals      []MealView         `json:"meals"`
	PlanTotals domain.MacroTotals `json:"planTotals"`
	DailyGoal  domain.DailyGoals  `json:"dailyGoal"`
}

// Presenter builds plan views. Nutrition is recomputed from the catalog on
// every call, so views follow the current food data rather than the data at
// generation time.
type Presenter struct {
	foods domain.FoodCatalog
}

// NewPresenter creates a Presenter backed by the given catalog.
func NewPresenter(foods domain.FoodCatalog) *Presenter {
	return &Presenter{foods: foods}
}

// ToView returns the view of plan with per-item, per-meal and plan totals.
func (p *Presenter) ToView(ctx context.Context, plan *domain.DietPlan, goal domain.DailyGoals) (*PlanView, error) {
	foods, err := p.foods.FoodsByIDs(ctx, plan.FoodIDs())
	if err != nil {
		return nil, fmt.Errorf("loading plan foods: %w", err)
	}
	byID := make(map[int64]domain.Food, len(foods))
	for _, f := range foods {
		byID[f.ID] = f
	}

	grouped := make(map[domain.MealSlot][]ItemView)
	for _, r := range plan.Recommendations {
		item := ItemView{
			ID:                r.ID,
			FoodID:            r.FoodID,
			SuggestedQuantity: r.SuggestedQuantity,
			Unit:              domain.DefaultServingUnit,
			Reason:            r.Reason,
			Status:            r.Status,
		}
		if f, ok := byID[r.FoodID]; ok {
			item.FoodName = f.Name
			item.Unit = f.Unit()
			item.Nutrition = domain.Contribution(f, r.SuggestedQuantity).Round(2)
		}
		grouped[r.Meal] = append(grouped[r.Meal], item)
	}

	view := &PlanView{
		ID:        plan.ID,
		Date:      plan.Date,
		Version:   plan.Version,
		Status:    plan.Status,
		Meals:     []MealView{},
		DailyGoal: goal,
	}
	for _, meal := range domain.MealSlots {
		items, ok := grouped[meal]
		if !ok {
			continue
		}
		var totals domain.MacroTotals
		for _, it := range items {
			totals = totals.Add(it.Nutrition)
		}
		view.Meals = append(view.Meals, MealView{Meal: meal, Items: items, Totals: totals})
		view.PlanTotals = view.PlanTotals.Add(totals)
	}
	return view, nil
}
