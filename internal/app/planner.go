// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"nutriplan/internal/domain"

	"github.com/google/uuid"
)

// mealShares splits the daily targets across meal slots.
var mealShares = map[domain.MealSlot]float64{
	domain.Breakfast: 0.20,
	domain.Lunch:     0.40,
	domain.Dinner:    0.30,
	domain.Snack:     0.10,
}

// minCandidates is the pool size below which a slot is padded with
// catalog foods.
const minCandidates = 12

// Options tunes plan generation. Zero fields take their defaults.
type Options struct {
	LookbackDays       int
	FrequentFoodsLimit int
	FallbackPoolSize   int
	Picker             Picker
}

// DefaultOptions returns the generation defaults.
func DefaultOptions() Options {
	return Options{LookbackDays: 30, FrequentFoodsLimit: 20, FallbackPoolSize: 50}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.LookbackDays <= 0 {
		o.LookbackDays = d.LookbackDays
	}
	if o.FrequentFoodsLimit <= 0 {
		o.FrequentFoodsLimit = d.FrequentFoodsLimit
	}
	if o.FallbackPoolSize <= 0 {
		o.FallbackPoolSize = d.FallbackPoolSize
	}
	return o
}

// PlanService generates, versions and accepts diet plans.
type PlanService struct {
	plans     domain.PlanRepository
	foods     domain.FoodCatalog
	goals     domain.GoalsProvider
	sink      domain.LogSink
	history   *HistoryAnalyzer
	allocator *MealAllocator
	presenter *Presenter
	opts      Options
	now       func() time.Time
}

// NewPlanService creates a PlanService wired to the given ports.
func NewPlanService(plans domain.PlanRepository, foods domain.FoodCatalog, goals domain.GoalsProvider,
	history domain.MealHistory, sink domain.LogSink, opts Options) *PlanService {
	opts = opts.withDefaults()
	return &PlanService{
		plans:     plans,
		foods:     foods,
		goals:     goals,
		sink:      sink,
		history:   NewHistoryAnalyzer(history, foods),
		allocator: NewMealAllocator(opts.Picker),
		presenter: NewPresenter(foods),
		opts:      opts,
		now:       time.Now,
	}
}

// WithClock overrides the time source for plan timestamps and the history
// lookback window.
func (s *PlanService) WithClock(now func() time.Time) *PlanService {
	s.now = now
	s.history.WithClock(now)
	return s
}

// GetLatestPlan returns the newest plan version for the day, or nil when no
// plan was generated yet.
func (s *PlanService) GetLatestPlan(ctx context.Context, userID int64, date string) (*PlanView, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	goals, err := s.dailyGoals(ctx, userID)
	if err != nil {
		return nil, err
	}
	plan, err := s.plans.LatestPlan(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("finding latest plan: %w", err)
	}
	if plan == nil {
		return nil, nil
	}
	return s.presenter.ToView(ctx, plan, *goals)
}

// ListVersions returns every plan version for the day, newest first.
func (s *PlanService) ListVersions(ctx context.Context, userID int64, date string) ([]domain.DietPlan, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	plans, err := s.plans.ListPlans(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	return plans, nil
}

// GenerateOrRegenerate returns the active plan for the day, generating one
// when none exists. With forceNew the active plan is discarded and replaced by
// a freshly generated next version.
func (s *PlanService) GenerateOrRegenerate(ctx context.Context, userID int64, date string, forceNew bool) (*PlanView, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	goals, err := s.dailyGoals(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.plans.LatestPlan(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("finding latest plan: %w", err)
	}
	active := existing != nil && existing.Status != domain.PlanDiscarded
	if active && !forceNew {
		return s.presenter.ToView(ctx, existing, *goals)
	}

	version := 1
	if existing != nil {
		version = existing.Version + 1
	}
	plan, err := s.buildPlan(ctx, userID, date, version, *goals)
	if err != nil {
		return nil, err
	}

	discardID := ""
	if active {
		discardID = existing.ID
	}
	if err := s.plans.SavePlan(ctx, plan, discardID); err != nil {
		if errors.Is(err, domain.ErrPlanConflict) && !forceNew {
			// Another request created the plan first; return theirs.
			winner, rerr := s.plans.LatestPlan(ctx, userID, date)
			if rerr == nil && winner != nil && winner.Status != domain.PlanDiscarded {
				return s.presenter.ToView(ctx, winner, *goals)
			}
		}
		return nil, fmt.Errorf("saving diet plan: %w", err)
	}

	slog.Info("generated diet plan",
		"plan_id", plan.ID, "user_id", userID, "date", date,
		"version", plan.Version, "items", len(plan.Recommendations), "replaced", discardID)
	return s.presenter.ToView(ctx, plan, *goals)
}

// buildPlan runs the allocator over every meal slot in order, threading the
// running daily totals from one slot to the next.
func (s *PlanService) buildPlan(ctx context.Context, userID int64, date string, version int, goals domain.DailyGoals) (*domain.DietPlan, error) {
	plan := &domain.DietPlan{
		ID:        uuid.NewString(),
		UserID:    userID,
		Date:      date,
		Version:   version,
		Status:    domain.PlanGenerated,
		CreatedAt: s.now().UTC(),
	}

	frequent, err := s.history.FrequentFoods(ctx, userID, s.opts.LookbackDays, s.opts.FrequentFoodsLimit)
	if err != nil {
		return nil, err
	}

	var fallback []domain.Food
	fallbackLoaded := false
	used := make(map[int64]bool)
	var running domain.MacroTotals
	daily := goals.Totals()

	for _, meal := range domain.MealSlots {
		target := domain.MacroTargets{
			MacroTotals:  daily.Scale(mealShares[meal]),
			DailyProtein: goals.Protein,
		}

		candidates := append([]domain.Food(nil), frequent[meal]...)
		if len(candidates) < minCandidates {
			if !fallbackLoaded {
				fallback, err = s.foods.ListFoods(ctx, s.opts.FallbackPoolSize)
				if err != nil {
					return nil, fmt.Errorf("loading fallback foods: %w", err)
				}
				fallbackLoaded = true
			}
			candidates = append(candidates, fallback...)
		}

		res := s.allocator.BuildMeal(plan, meal, target, candidates, used, running)
		for _, r := range res.Recommendations {
			used[r.FoodID] = true
		}
		plan.Recommendations = append(plan.Recommendations, res.Recommendations...)
		running = res.Totals
		slog.Debug("allocated meal", "plan_id", plan.ID, "meal", meal,
			"items", len(res.Recommendations), "running_protein", running.Protein)
	}
	return plan, nil
}

// AcceptPlan commits every pending recommendation to the user's log and marks
// the plan ACCEPTED. Accepting an accepted plan does nothing.
func (s *PlanService) AcceptPlan(ctx context.Context, planID string) error {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return err
	}
	if plan.Status == domain.PlanAccepted {
		return nil
	}
	if plan.Status == domain.PlanDiscarded {
		return domain.ErrPlanDiscarded
	}

	committed, err := s.commit(ctx, plan, func(domain.DietRecommendation) bool { return true })
	if err != nil {
		return err
	}
	if err := s.plans.SetPlanStatus(ctx, plan.ID, domain.PlanAccepted); err != nil {
		return fmt.Errorf("updating plan status: %w", err)
	}
	slog.Info("accepted diet plan", "plan_id", plan.ID, "user_id", plan.UserID, "committed", committed)
	return nil
}

// AcceptMeal commits the pending recommendations of one meal slot. The plan's
// own status is left unchanged.
func (s *PlanService) AcceptMeal(ctx context.Context, planID string, meal domain.MealSlot) error {
	if _, err := domain.ParseMealSlot(string(meal)); err != nil {
		return err
	}
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return err
	}
	if plan.Status == domain.PlanDiscarded {
		return domain.ErrPlanDiscarded
	}

	committed, err := s.commit(ctx, plan, func(r domain.DietRecommendation) bool { return r.Meal == meal })
	if err != nil {
		return err
	}
	slog.Info("accepted diet plan meal", "plan_id", plan.ID, "meal", meal, "committed", committed)
	return nil
}

// commit writes each selected pending recommendation to the log sink and marks
// it ACCEPTED. It stops at the first failure; items committed before it stay
// ACCEPTED, so a retry only commits what is still pending.
func (s *PlanService) commit(ctx context.Context, plan *domain.DietPlan, include func(domain.DietRecommendation) bool) (int, error) {
	n := 0
	for i := range plan.Recommendations {
		rec := &plan.Recommendations[i]
		if rec.Status != domain.RecommendationPending || !include(*rec) {
			continue
		}

		unit := domain.DefaultServingUnit
		food, err := s.foods.GetFood(ctx, rec.FoodID)
		if err != nil {
			return n, fmt.Errorf("finding food %d: %w", rec.FoodID, err)
		}
		if food != nil {
			unit = food.Unit()
		}

		serving := domain.Serving{
			UserID:   rec.UserID,
			Date:     rec.Date,
			Meal:     rec.Meal,
			FoodID:   rec.FoodID,
			Quantity: rec.SuggestedQuantity,
			Unit:     unit,
		}
		if err := s.sink.AddServing(ctx, serving); err != nil {
			slog.Warn("committing recommendation", "recommendation_id", rec.ID, "food_id", rec.FoodID, "error", err)
			return n, fmt.Errorf("committing recommendation %s: %w", rec.ID, err)
		}
		if err := s.plans.SetRecommendationStatus(ctx, rec.ID, domain.RecommendationAccepted); err != nil {
			return n, fmt.Errorf("updating recommendation status: %w", err)
		}
		rec.Status = domain.RecommendationAccepted
		n++
	}
	return n, nil
}

func (s *PlanService) loadPlan(ctx context.Context, planID string) (*domain.DietPlan, error) {
	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("finding plan: %w", err)
	}
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}
	return plan, nil
}

func (s *PlanService) dailyGoals(ctx context.Context, userID int64) (*domain.DailyGoals, error) {
	goals, err := s.goals.DailyGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("finding daily goals: %w", err)
	}
	if goals == nil {
		return nil, domain.ErrGoalsNotConfigured
	}
	return goals, nil
}

func validateDate(date string) error {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return domain.ErrInvalidDate
	}
	return nil
}
