package domain

import (
	"context"
	"strings"
	"time"
)

// MealSlot is one of the four meals of a day.
type MealSlot string

// Meal slots.
const (
	Breakfast MealSlot = "BREAKFAST"
	Lunch     MealSlot = "LUNCH"
	Dinner    MealSlot = "DINNER"
	Snack     MealSlot = "SNACK"
)

// MealSlots lists the slots in the order a day is built.
var MealSlots = []MealSlot{Breakfast, Lunch, Dinner, Snack}

// ParseMealSlot accepts a slot name in any case.
func ParseMealSlot(s string) (MealSlot, error) {
	m := MealSlot(strings.ToUpper(strings.TrimSpace(s)))
	for _, slot := range MealSlots {
		if slot == m {
			return m, nil
		}
	}
	return "", ErrInvalidMeal
}

// PlanStatus is the lifecycle state of a DietPlan.
type PlanStatus string

// Plan statuses.
const (
	PlanGenerated PlanStatus = "GENERATED"
	PlanAccepted  PlanStatus = "ACCEPTED"
	PlanDiscarded PlanStatus = "DISCARDED"
)

// RecommendationStatus is the lifecycle state of a DietRecommendation.
type RecommendationStatus string

// Recommendation statuses.
const (
	RecommendationPending  RecommendationStatus = "PENDING"
	RecommendationAccepted RecommendationStatus = "ACCEPTED"
	RecommendationRejected RecommendationStatus = "REJECTED"
)

// DietRecommendation is one suggested food and quantity for a meal slot.
type DietRecommendation struct {
	ID                string               `json:"id"`
	PlanID            string               `json:"planId"`
	UserID            int64                `json:"userId"`
	Date              string               `json:"date"`
	Meal              MealSlot             `json:"meal"`
	FoodID            int64                `json:"foodId"`
	SuggestedQuantity float64              `json:"suggestedQuantity"`
	Reason            string               `json:"reason"`
	Status            RecommendationStatus `json:"status"`
	CreatedAt         time.Time            `json:"createdAt"`
}

// DietPlan is a generated day of meals for one user. Only Status and the
// status of its recommendations change after creation.
type DietPlan struct {
	ID              string               `json:"id"`
	UserID          int64                `json:"userId"`
	Date            string               `json:"date"`
	Version         int                  `json:"version"`
	Status          PlanStatus           `json:"status"`
	CreatedAt       time.Time            `json:"createdAt"`
	Recommendations []DietRecommendation `json:"recommendations"`
}

// FoodIDs returns the ids of every recommended food, in plan order.
func (p *DietPlan) FoodIDs() []int64 {
	ids := make([]int64, 0, len(p.Recommendations))
	for _, r := range p.Recommendations {
		ids = append(ids, r.FoodID)
	}
	return ids
}

// PlanRepository is the port for plan persistence.
type PlanRepository interface {
	// LatestPlan returns the highest version for (userID, date), or nil.
	LatestPlan(ctx context.Context, userID int64, date string) (*DietPlan, error)
	// ListPlans returns every version for (userID, date), newest first.
	ListPlans(ctx context.Context, userID int64, date string) ([]DietPlan, error)
	// GetPlan returns nil, nil when the plan does not exist.
	GetPlan(ctx context.Context, id string) (*DietPlan, error)
	// SavePlan atomically marks discardID as DISCARDED (when non-empty) and
	// stores plan with all of its recommendations. It returns ErrPlanConflict
	// when another active plan or the same version already exists.
	SavePlan(ctx context.Context, plan *DietPlan, discardID string) error
	SetPlanStatus(ctx context.Context, id string, status PlanStatus) error
	SetRecommendationStatus(ctx context.Context, id string, status RecommendationStatus) error
}
