package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"nutriplan/internal/domain"
)

func TestFoodCatalog(t *testing.T) {
	db := New()
	ctx := context.Background()

	oats := db.AddFood(domain.Food{Name: "Oats", Nutrients: &domain.Nutrients{Carbs: 68}})
	rice := db.AddFood(domain.Food{Name: "Rice"})
	fixed := db.AddFood(domain.Food{ID: 40, Name: "Tuna"})
	if oats != 1 || rice != 2 || fixed != 40 {
		t.Fatalf("unexpected ids: %d %d %d", oats, rice, fixed)
	}
	if next := db.AddFood(domain.Food{Name: "Egg"}); next != 41 {
		t.Errorf("expected id after explicit one to be 41, got %d", next)
	}

	f, err := db.GetFood(ctx, oats)
	if err != nil {
		t.Fatalf("GetFood: %v", err)
	}
	if f == nil || f.Name != "Oats" {
		t.Fatalf("unexpected food: %v", f)
	}
	if missing, _ := db.GetFood(ctx, 999); missing != nil {
		t.Error("expected nil for unknown food")
	}

	// Order follows the requested ids and unknown ids are skipped.
	got, err := db.FoodsByIDs(ctx, []int64{fixed, 999, oats})
	if err != nil {
		t.Fatalf("FoodsByIDs: %v", err)
	}
	if len(got) != 2 || got[0].ID != fixed || got[1].ID != oats {
		t.Errorf("unexpected order: %+v", got)
	}

	list, _ := db.ListFoods(ctx, 3)
	if len(list) != 3 || list[0].ID != oats || list[2].ID != fixed {
		t.Errorf("unexpected list: %+v", list)
	}

	db.RemoveFood(rice)
	if f, _ := db.GetFood(ctx, rice); f != nil {
		t.Error("expected food to be removed")
	}
}

func TestGoals(t *testing.T) {
	db := New()
	ctx := context.Background()

	g, err := db.DailyGoals(ctx, 1)
	if err != nil || g != nil {
		t.Fatalf("expected no goals, got %v, %v", g, err)
	}

	db.SetGoals(1, domain.DailyGoals{Calories: 2000, Protein: 150})
	g, _ = db.DailyGoals(ctx, 1)
	if g == nil || g.Protein != 150 {
		t.Errorf("unexpected goals: %v", g)
	}
	if other, _ := db.DailyGoals(ctx, 2); other != nil {
		t.Error("expected no goals for other user")
	}
}

func TestServingsAndFrequentFoods(t *testing.T) {
	db := New()
	ctx := context.Background()
	userID := int64(1)

	oats := db.AddFood(domain.Food{Name: "Oats"})
	egg := db.AddFood(domain.Food{Name: "Egg"})
	rice := db.AddFood(domain.Food{Name: "Rice"})

	log := func(date string, meal domain.MealSlot, food int64) {
		t.Helper()
		err := db.AddServing(ctx, domain.Serving{UserID: userID, Date: date, Meal: meal, FoodID: food, Quantity: 50, Unit: "g"})
		if err != nil {
			t.Fatalf("AddServing: %v", err)
		}
	}
	log("2026-03-01", domain.Breakfast, oats)
	log("2026-03-02", domain.Breakfast, oats)
	log("2026-03-02", domain.Breakfast, egg)
	log("2026-03-03", domain.Breakfast, rice)
	log("2026-03-03", domain.Lunch, rice)
	log("2026-01-01", domain.Breakfast, egg) // outside window

	if err := db.AddServing(ctx, domain.Serving{UserID: userID, FoodID: 999}); err == nil {
		t.Error("expected error for unknown food")
	}

	since := time.Date(2026, 2, 1, 0, 0, 0, 0, time.Local)
	ids, err := db.FrequentFoodIDs(ctx, userID, domain.Breakfast, since, 10)
	if err != nil {
		t.Fatalf("FrequentFoodIDs: %v", err)
	}
	// oats twice; rice and egg once each, rice more recent.
	want := []int64{oats, rice, egg}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("position %d: expected %d, got %d", i, want[i], ids[i])
		}
	}

	ids, _ = db.FrequentFoodIDs(ctx, userID, domain.Breakfast, since, 1)
	if len(ids) != 1 || ids[0] != oats {
		t.Errorf("expected limit to apply, got %v", ids)
	}

	ids, _ = db.FrequentFoodIDs(ctx, 2, domain.Breakfast, since, 10)
	if len(ids) != 0 {
		t.Error("expected no history for other user")
	}

	if got := db.Servings(userID); len(got) != 6 {
		t.Errorf("expected 6 servings, got %d", len(got))
	}
}

func newPlan(id string, version int, status domain.PlanStatus) *domain.DietPlan {
	return &domain.DietPlan{
		ID: id, UserID: 1, Date: "2026-03-10", Version: version, Status: status,
		Recommendations: []domain.DietRecommendation{
			{ID: id + "-r1", PlanID: id, Meal: domain.Breakfast, FoodID: 1, Status: domain.RecommendationPending},
		},
	}
}

func TestPlanRepository(t *testing.T) {
	db := New()
	ctx := context.Background()

	latest, err := db.LatestPlan(ctx, 1, "2026-03-10")
	if err != nil || latest != nil {
		t.Fatalf("expected no plan, got %v, %v", latest, err)
	}

	if err := db.SavePlan(ctx, newPlan("p1", 1, domain.PlanGenerated), ""); err != nil {
		t.Fatalf("SavePlan: %v", err)
	}

	// A second active plan without discarding the first conflicts.
	err = db.SavePlan(ctx, newPlan("p2", 2, domain.PlanGenerated), "")
	if !errors.Is(err, domain.ErrPlanConflict) {
		t.Fatalf("expected ErrPlanConflict, got %v", err)
	}
	// Same version conflicts even when discarding.
	err = db.SavePlan(ctx, newPlan("p2", 1, domain.PlanGenerated), "p1")
	if !errors.Is(err, domain.ErrPlanConflict) {
		t.Fatalf("expected ErrPlanConflict for duplicate version, got %v", err)
	}

	if err := db.SavePlan(ctx, newPlan("p2", 2, domain.PlanGenerated), "p1"); err != nil {
		t.Fatalf("SavePlan with discard: %v", err)
	}

	plans, _ := db.ListPlans(ctx, 1, "2026-03-10")
	if len(plans) != 2 || plans[0].ID != "p2" || plans[1].Status != domain.PlanDiscarded {
		t.Fatalf("unexpected versions: %+v", plans)
	}

	latest, _ = db.LatestPlan(ctx, 1, "2026-03-10")
	if latest == nil || latest.ID != "p2" {
		t.Fatalf("unexpected latest: %v", latest)
	}

	// Returned plans are copies.
	latest.Recommendations[0].Status = domain.RecommendationRejected
	again, _ := db.GetPlan(ctx, "p2")
	if again.Recommendations[0].Status != domain.RecommendationPending {
		t.Error("expected stored plan to be unaffected by caller mutation")
	}

	if err := db.SetRecommendationStatus(ctx, "p2-r1", domain.RecommendationAccepted); err != nil {
		t.Fatalf("SetRecommendationStatus: %v", err)
	}
	if err := db.SetPlanStatus(ctx, "p2", domain.PlanAccepted); err != nil {
		t.Fatalf("SetPlanStatus: %v", err)
	}
	again, _ = db.GetPlan(ctx, "p2")
	if again.Status != domain.PlanAccepted || again.Recommendations[0].Status != domain.RecommendationAccepted {
		t.Errorf("unexpected statuses: %+v", again)
	}

	if err := db.SetPlanStatus(ctx, "missing", domain.PlanAccepted); !errors.Is(err, domain.ErrPlanNotFound) {
		t.Errorf("expected ErrPlanNotFound, got %v", err)
	}
	if err := db.SetRecommendationStatus(ctx, "missing", domain.RecommendationAccepted); err == nil {
		t.Error("expected error for unknown recommendation")
	}
	if p, _ := db.GetPlan(ctx, "missing"); p != nil {
		t.Error("expected nil for unknown plan")
	}
}
