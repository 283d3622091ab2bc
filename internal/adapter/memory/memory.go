// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"nutriplan/internal/domain"
)

type mealEntry struct {
	UserID   int64
	Date     string
	Meal     domain.MealSlot
	FoodID   int64
	Quantity float64
	Unit     string
}

// DB implements an in-memory database storage.
type DB struct {
	mu      sync.Mutex
	foods   map[int64]domain.Food
	goals   map[int64]domain.DailyGoals
	entries []mealEntry
	plans   map[string]*domain.DietPlan

	foodIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		foods: make(map[int64]domain.Food),
		goals: make(map[int64]domain.DailyGoals),
		plans: make(map[string]*domain.DietPlan),
	}
}

// Ensure interfaces are met.
var _ domain.FoodCatalog = (*DB)(nil)
var _ domain.GoalsProvider = (*DB)(nil)
var _ domain.MealHistory = (*DB)(nil)
var _ domain.LogSink = (*DB)(nil)
var _ domain.PlanRepository = (*DB)(nil)

// --- FoodCatalog ---

// AddFood stores a food. A zero ID is assigned the next free id.
func (db *DB) AddFood(f domain.Food) int64 {
	db.mu.Lock()
	defer db.mu.Unlock()

	if f.ID == 0 {
		db.foodIDCounter++
		f.ID = db.foodIDCounter
	} else if f.ID > db.foodIDCounter {
		db.foodIDCounter = f.ID
	}
	db.foods[f.ID] = f
	return f.ID
}

// RemoveFood deletes a food from the catalog.
func (db *DB) RemoveFood(id int64) {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.foods, id)
}

// GetFood retrieves a food by ID.
func (db *DB) GetFood(ctx context.Context, id int64) (*domain.Food, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	f, ok := db.foods[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

// FoodsByIDs returns the existing foods in the order of ids.
func (db *DB) FoodsByIDs(ctx context.Context, ids []int64) ([]domain.Food, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.Food, 0, len(ids))
	for _, id := range ids {
		if f, ok := db.foods[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// ListFoods returns the first limit foods ordered by id.
func (db *DB) ListFoods(ctx context.Context, limit int) ([]domain.Food, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.Food, 0, len(db.foods))
	for _, f := range db.foods {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- GoalsProvider ---

// SetGoals stores the daily goals of a user.
func (db *DB) SetGoals(userID int64, g domain.DailyGoals) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.goals[userID] = g
}

// DailyGoals returns the goals of a user, or nil when none are set.
func (db *DB) DailyGoals(ctx context.Context, userID int64) (*domain.DailyGoals, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	g, ok := db.goals[userID]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

// --- MealHistory / LogSink ---

// AddServing appends a serving to the user's meal log. The food must exist.
func (db *DB) AddServing(ctx context.Context, s domain.Serving) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.foods[s.FoodID]; !ok {
		return fmt.Errorf("food %d not found", s.FoodID)
	}
	db.entries = append(db.entries, mealEntry{
		UserID: s.UserID, Date: s.Date, Meal: s.Meal,
		FoodID: s.FoodID, Quantity: s.Quantity, Unit: s.Unit,
	})
	return nil
}

// Servings returns every logged serving of a user in insertion order.
func (db *DB) Servings(userID int64) []domain.Serving {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.Serving
	for _, e := range db.entries {
		if e.UserID == userID {
			out = append(out, domain.Serving{
				UserID: e.UserID, Date: e.Date, Meal: e.Meal,
				FoodID: e.FoodID, Quantity: e.Quantity, Unit: e.Unit,
			})
		}
	}
	return out
}

// FrequentFoodIDs counts logged servings per food for one meal slot.
func (db *DB) FrequentFoodIDs(ctx context.Context, userID int64, meal domain.MealSlot, since time.Time, limit int) ([]int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	sinceDay := since.Format(domain.DateLayout)
	type stat struct {
		id    int64
		count int
		last  string
	}
	stats := make(map[int64]*stat)
	for _, e := range db.entries {
		if e.UserID != userID || e.Meal != meal || e.Date < sinceDay {
			continue
		}
		st, ok := stats[e.FoodID]
		if !ok {
			st = &stat{id: e.FoodID}
			stats[e.FoodID] = st
		}
		st.count++
		if e.Date > st.last {
			st.last = e.Date
		}
	}

	ranked := make([]*stat, 0, len(stats))
	for _, st := range stats {
		ranked = append(ranked, st)
	}
	// Same ordering as the postgres query: count, then recency, then id.
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.count != b.count {
			return a.count > b.count
		}
		if a.last != b.last {
			return a.last > b.last
		}
		return a.id < b.id
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	ids := make([]int64, 0, len(ranked))
	for _, st := range ranked {
		ids = append(ids, st.id)
	}
	return ids, nil
}

// --- PlanRepository ---

// LatestPlan returns the highest plan version for the day.
func (db *DB) LatestPlan(ctx context.Context, userID int64, date string) (*domain.DietPlan, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var latest *domain.DietPlan
	for _, p := range db.plans {
		if p.UserID == userID && p.Date == date {
			if latest == nil || p.Version > latest.Version {
				latest = p
			}
		}
	}
	if latest == nil {
		return nil, nil
	}
	return clonePlan(latest), nil
}

// ListPlans returns every plan version for the day, newest first.
func (db *DB) ListPlans(ctx context.Context, userID int64, date string) ([]domain.DietPlan, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.DietPlan
	for _, p := range db.plans {
		if p.UserID == userID && p.Date == date {
			out = append(out, *clonePlan(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return out, nil
}

// GetPlan retrieves a plan by ID.
func (db *DB) GetPlan(ctx context.Context, id string) (*domain.DietPlan, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, ok := db.plans[id]
	if !ok {
		return nil, nil
	}
	return clonePlan(p), nil
}

// SavePlan discards discardID and stores plan in one critical section. It
// enforces the same uniqueness rules as the postgres schema.
func (db *DB) SavePlan(ctx context.Context, plan *domain.DietPlan, discardID string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.plans[plan.ID]; ok {
		return errors.New("plan already exists")
	}
	for _, p := range db.plans {
		if p.UserID != plan.UserID || p.Date != plan.Date {
			continue
		}
		if p.Version == plan.Version {
			return domain.ErrPlanConflict
		}
		if p.Status != domain.PlanDiscarded && p.ID != discardID {
			return domain.ErrPlanConflict
		}
	}

	if discardID != "" {
		old, ok := db.plans[discardID]
		if !ok {
			return domain.ErrPlanNotFound
		}
		old.Status = domain.PlanDiscarded
	}
	db.plans[plan.ID] = clonePlan(plan)
	return nil
}

// SetPlanStatus updates the status of a plan.
func (db *DB) SetPlanStatus(ctx context.Context, id string, status domain.PlanStatus) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, ok := db.plans[id]
	if !ok {
		return domain.ErrPlanNotFound
	}
	p.Status = status
	return nil
}

// SetRecommendationStatus updates the status of one recommendation.
func (db *DB) SetRecommendationStatus(ctx context.Context, id string, status domain.RecommendationStatus) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, p := range db.plans {
		for i := range p.Recommendations {
			if p.Recommendations[i].ID == id {
				p.Recommendations[i].Status = status
				return nil
			}
		}
	}
	return fmt.Errorf("recommendation %s not found", id)
}

func clonePlan(p *domain.DietPlan) *domain.DietPlan {
	c := *p
	c.Recommendations = append([]domain.DietRecommendation(nil), p.Recommendations...)
	return &c
}
