package app_test

import (
	"context"
	"fmt"
	"time"

	"nutriplan/internal/domain"
)

type mockFoods struct {
	getFn   func(ctx context.Context, id int64) (*domain.Food, error)
	byIDsFn func(ctx context.Context, ids []int64) ([]domain.Food, error)
	listFn  func(ctx context.Context, limit int) ([]domain.Food, error)
}

func (m *mockFoods) GetFood(ctx context.Context, id int64) (*domain.Food, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockFoods) FoodsByIDs(ctx context.Context, ids []int64) ([]domain.Food, error) {
	if m.byIDsFn != nil {
		return m.byIDsFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockFoods) ListFoods(ctx context.Context, limit int) ([]domain.Food, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit)
	}
	return nil, nil
}

type mockHistory struct {
	frequentFn func(ctx context.Context, userID int64, meal domain.MealSlot, since time.Time, limit int) ([]int64, error)
}

func (m *mockHistory) FrequentFoodIDs(ctx context.Context, userID int64, meal domain.MealSlot, since time.Time, limit int) ([]int64, error) {
	if m.frequentFn != nil {
		return m.frequentFn(ctx, userID, meal, since, limit)
	}
	return nil, nil
}

type mockGoals struct {
	goalsFn func(ctx context.Context, userID int64) (*domain.DailyGoals, error)
}

func (m *mockGoals) DailyGoals(ctx context.Context, userID int64) (*domain.DailyGoals, error) {
	if m.goalsFn != nil {
		return m.goalsFn(ctx, userID)
	}
	return nil, nil
}

type mockSink struct {
	addFn func(ctx context.Context, s domain.Serving) error
}

func (m *mockSink) AddServing(ctx context.Context, s domain.Serving) error {
	if m.addFn != nil {
		return m.addFn(ctx, s)
	}
	return nil
}

type mockPlans struct {
	latestFn   func(ctx context.Context, userID int64, date string) (*domain.DietPlan, error)
	listFn     func(ctx context.Context, userID int64, date string) ([]domain.DietPlan, error)
	getFn      func(ctx context.Context, id string) (*domain.DietPlan, error)
	saveFn     func(ctx context.Context, plan *domain.DietPlan, discardID string) error
	planStatFn func(ctx context.Context, id string, status domain.PlanStatus) error
	recStatFn  func(ctx context.Context, id string, status domain.RecommendationStatus) error
}

func (m *mockPlans) LatestPlan(ctx context.Context, userID int64, date string) (*domain.DietPlan, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx, userID, date)
	}
	return nil, nil
}

func (m *mockPlans) ListPlans(ctx context.Context, userID int64, date string) ([]domain.DietPlan, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, date)
	}
	return nil, nil
}

func (m *mockPlans) GetPlan(ctx context.Context, id string) (*domain.DietPlan, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockPlans) SavePlan(ctx context.Context, plan *domain.DietPlan, discardID string) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, plan, discardID)
	}
	return nil
}

func (m *mockPlans) SetPlanStatus(ctx context.Context, id string, status domain.PlanStatus) error {
	if m.planStatFn != nil {
		return m.planStatFn(ctx, id, status)
	}
	return nil
}

func (m *mockPlans) SetRecommendationStatus(ctx context.Context, id string, status domain.RecommendationStatus) error {
	if m.recStatFn != nil {
		return m.recStatFn(ctx, id, status)
	}
	return nil
}

// firstPicker always picks the first open candidate.
type firstPicker struct{}

func (firstPicker) IntN(int) int { return 0 }

// Reference foods, nutrients per 100 g.
var (
	chicken  = domain.Food{ID: 1, Name: "Chicken breast", Nutrients: &domain.Nutrients{Calories: 165, Protein: 31, Fats: 3.6}}
	salmon   = domain.Food{ID: 2, Name: "Salmon", Nutrients: &domain.Nutrients{Calories: 208, Protein: 20, Fats: 13}}
	oats     = domain.Food{ID: 3, Name: "Oats", Nutrients: &domain.Nutrients{Calories: 389, Protein: 13, Carbs: 68, Fats: 7, Sugars: 1}}
	banana   = domain.Food{ID: 4, Name: "Banana", Nutrients: &domain.Nutrients{Calories: 89, Protein: 1.1, Carbs: 23, Fats: 0.3, Sugars: 12}}
	oliveOil = domain.Food{ID: 5, Name: "Olive oil", Nutrients: &domain.Nutrients{Calories: 884, Fats: 100}}
	whey     = domain.Food{ID: 6, Name: "Whey isolate", Nutrients: &domain.Nutrients{Calories: 370, Protein: 90, Carbs: 2, Fats: 1}}
	rice     = domain.Food{ID: 7, Name: "Rice", Nutrients: &domain.Nutrients{Calories: 130, Protein: 2.7, Carbs: 28, Fats: 0.3, Sugars: 0.1}}
	potato   = domain.Food{ID: 8, Name: "Potato", Nutrients: &domain.Nutrients{Calories: 77, Protein: 2, Carbs: 17, Fats: 0.1, Sugars: 0.8}}
	pasta    = domain.Food{ID: 9, Name: "Pasta", Nutrients: &domain.Nutrients{Calories: 158, Protein: 5.8, Carbs: 31, Fats: 0.9, Sugars: 0.6}}
	butter   = domain.Food{ID: 10, Name: "Butter", Nutrients: &domain.Nutrients{Calories: 717, Protein: 0.9, Fats: 81}}
	tuna     = domain.Food{ID: 11, Name: "Tuna", Nutrients: &domain.Nutrients{Calories: 132, Protein: 28, Fats: 1.3}}
)

// variedCatalog returns n foods cycling through every food category.
func variedCatalog(n int) []domain.Food {
	templates := []domain.Nutrients{
		{Calories: 165, Protein: 31, Fats: 3.6},                          // lean protein
		{Calories: 208, Protein: 20, Fats: 13},                           // fatty protein
		{Calories: 130, Protein: 2.7, Carbs: 28, Fats: 0.3, Sugars: 0.1}, // complex carb
		{Calories: 89, Protein: 1.1, Carbs: 23, Fats: 0.3, Sugars: 12},   // simple carb
		{Calories: 884, Fats: 100},                                       // fat
	}
	foods := make([]domain.Food, 0, n)
	for i := 0; i < n; i++ {
		nut := templates[i%len(templates)]
		foods = append(foods, domain.Food{
			ID:        int64(100 + i),
			Name:      fmt.Sprintf("food %d", i),
			Nutrients: &nut,
		})
	}
	return foods
}
