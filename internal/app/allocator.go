package app

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"nutriplan/internal/domain"

	"github.com/google/uuid"
)

const (
	proteinCapFactor   = 1.05
	cappedCarbBoost    = 1.2
	minPortion         = 10.0
	defaultPortion     = 100.0
	minFatTarget       = 5.0
	minFatPortion      = 5.0
	reasonLeanProtein  = "lean protein for your goals"
	reasonFattyProtein = "protein base with natural fats"
	reasonComplexCarb  = "complex carbohydrate for sustained energy"
	reasonFallbackCarb = "energy source to round out the meal"
	reasonHealthyFat   = "supporting healthy fat"
)

// Picker chooses an index in [0, n). *rand.Rand satisfies it.
type Picker interface {
	IntN(n int) int
}

// NewSeededPicker returns a Picker backed by a PCG source. A zero seed uses
// the current time. The returned Picker is safe for concurrent use.
func NewSeededPicker(seed uint64) Picker {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &lockedPicker{rnd: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

// lockedPicker serializes access to a *rand.Rand, which is not goroutine-safe.
type lockedPicker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (p *lockedPicker) IntN(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rnd.IntN(n)
}

// MealResult is the output of one BuildMeal call: the items for the slot and
// the day's running totals including them.
type MealResult struct {
	Recommendations []domain.DietRecommendation
	Totals          domain.MacroTotals
}

// MealAllocator fills a single meal slot with up to one protein, one carb and
// one fat source sized to the slot's macro sub-target. It is a greedy
// single-pass solver; it does not optimize across meals.
type MealAllocator struct {
	pick Picker
}

// NewMealAllocator creates a MealAllocator. A nil picker is replaced by a
// time-seeded one.
func NewMealAllocator(pick Picker) *MealAllocator {
	if pick == nil {
		pick = NewSeededPicker(0)
	}
	return &MealAllocator{pick: pick}
}

// BuildMeal selects foods for one meal slot. Foods in used are never picked.
// running holds the day's totals before this meal; the returned Totals add the
// real nutrient contribution of every emitted item.
func (a *MealAllocator) BuildMeal(plan *domain.DietPlan, meal domain.MealSlot, target domain.MacroTargets,
	candidates []domain.Food, used map[int64]bool, running domain.MacroTotals) MealResult {

	res := MealResult{Totals: running}

	pool := make([]domain.Food, 0, len(candidates))
	categories := make(map[int64]domain.FoodCategory, len(candidates))
	buckets := make(map[domain.FoodCategory][]domain.Food)
	for _, f := range candidates {
		if used[f.ID] {
			continue
		}
		if _, dup := categories[f.ID]; dup {
			continue
		}
		c := domain.Classify(f)
		categories[f.ID] = c
		buckets[c] = append(buckets[c], f)
		pool = append(pool, f)
	}
	if len(pool) == 0 {
		return res
	}

	taken := make(map[int64]bool, 3)
	emit := func(f domain.Food, qty float64, reason string) {
		taken[f.ID] = true
		res.Recommendations = append(res.Recommendations, newRecommendation(plan, meal, f, qty, reason))
		res.Totals = res.Totals.Add(domain.Contribution(f, qty))
	}

	proteinCapped := running.Protein >= target.DailyProtein*proteinCapFactor

	var implicit domain.MacroTotals
	fattyProtein := false
	if !proteinCapped {
		protein := a.choose(buckets[domain.LeanProtein], taken)
		if protein == nil {
			protein = a.choose(buckets[domain.FattyProtein], taken)
		}
		if protein != nil {
			cat := categories[protein.ID]
			qty := solveQuantity(*protein, target.Protein, proteinOf, domain.PortionCap(cat))
			implicit = domain.Contribution(*protein, qty)
			fattyProtein = cat == domain.FattyProtein
			reason := reasonLeanProtein
			if fattyProtein {
				reason = reasonFattyProtein
			}
			emit(*protein, qty, reason)
		}
	}

	carb := a.choose(buckets[domain.CarbComplex], taken)
	carbReason := reasonComplexCarb
	if carb == nil {
		carb = firstAvailable(pool, taken, func(f domain.Food) bool {
			return !proteinCapped || !categories[f.ID].IsProtein()
		})
		carbReason = reasonFallbackCarb
	}
	if carb != nil {
		limit := domain.PortionCap(categories[carb.ID])
		remaining := math.Max(target.Carbs-implicit.Carbs, 0)
		qty := solveQuantity(*carb, remaining, carbsOf, limit)
		if proteinCapped {
			qty = math.Min(math.Round(qty*cappedCarbBoost), limit)
		}
		emit(*carb, qty, carbReason)
	}

	if !fattyProtein {
		if fat := a.choose(buckets[domain.Fat], taken); fat != nil {
			remaining := math.Max(target.Fats-implicit.Fats, 0)
			if remaining > minFatTarget {
				qty := solveQuantity(*fat, remaining, fatsOf, domain.PortionCap(domain.Fat))
				if qty > minFatPortion {
					emit(*fat, qty, reasonHealthyFat)
				}
			}
		}
	}

	return res
}

// choose picks one food at random among those not yet taken for this meal.
func (a *MealAllocator) choose(foods []domain.Food, taken map[int64]bool) *domain.Food {
	open := make([]domain.Food, 0, len(foods))
	for _, f := range foods {
		if !taken[f.ID] {
			open = append(open, f)
		}
	}
	if len(open) == 0 {
		return nil
	}
	f := open[a.pick.IntN(len(open))]
	return &f
}

func firstAvailable(pool []domain.Food, taken map[int64]bool, ok func(domain.Food) bool) *domain.Food {
	for _, f := range pool {
		if !taken[f.ID] && ok(f) {
			return &f
		}
	}
	return nil
}

func proteinOf(n domain.Nutrients) float64 { return n.Protein }
func carbsOf(n domain.Nutrients) float64   { return n.Carbs }
func fatsOf(n domain.Nutrients) float64    { return n.Fats }

// solveQuantity sizes a portion so that it provides targetGrams of the macro
// returned by macro, rounded to whole units and clamped to [minPortion, limit].
func solveQuantity(f domain.Food, targetGrams float64, macro func(domain.Nutrients) float64, limit float64) float64 {
	qty := defaultPortion
	if f.Nutrients != nil {
		if per := macro(*f.Nutrients); per > 0 {
			qty = math.Round(targetGrams / per * f.Serving())
		}
	}
	return clamp(qty, minPortion, limit)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Min(math.Max(v, lo), hi)
}

func newRecommendation(plan *domain.DietPlan, meal domain.MealSlot, f domain.Food, qty float64, reason string) domain.DietRecommendation {
	return domain.DietRecommendation{
		ID:                uuid.NewString(),
		PlanID:            plan.ID,
		UserID:            plan.UserID,
		Date:              plan.Date,
		Meal:              meal,
		FoodID:            f.ID,
		SuggestedQuantity: qty,
		Reason:            reason,
		Status:            domain.RecommendationPending,
		CreatedAt:         plan.CreatedAt,
	}
}
