package domain

import "math"

const (
	kcalPerGramProtein = 4.0
	kcalPerGramCarbs   = 4.0
	kcalPerGramFat     = 9.0
)

// DerivedCalories computes energy from the macros alone.
func (n Nutrients) DerivedCalories() float64 {
	return n.Protein*kcalPerGramProtein + n.Carbs*kcalPerGramCarbs + n.Fats*kcalPerGramFat
}

// Energy returns the stored calories, or the macro-derived value when the
// stored one is missing.
func (n Nutrients) Energy() float64 {
	if n.Calories > 0 {
		return n.Calories
	}
	return n.DerivedCalories()
}

// MacroTotals is a calorie/protein/carb/fat quantity.
type MacroTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// Add returns the element-wise sum.
func (t MacroTotals) Add(o MacroTotals) MacroTotals {
	return MacroTotals{
		Calories: t.Calories + o.Calories,
		Protein:  t.Protein + o.Protein,
		Carbs:    t.Carbs + o.Carbs,
		Fats:     t.Fats + o.Fats,
	}
}

// Scale multiplies every field by f.
func (t MacroTotals) Scale(f float64) MacroTotals {
	return MacroTotals{
		Calories: t.Calories * f,
		Protein:  t.Protein * f,
		Carbs:    t.Carbs * f,
		Fats:     t.Fats * f,
	}
}

// Round rounds every field to the given number of decimals.
func (t MacroTotals) Round(decimals int) MacroTotals {
	return MacroTotals{
		Calories: RoundTo(t.Calories, decimals),
		Protein:  RoundTo(t.Protein, decimals),
		Carbs:    RoundTo(t.Carbs, decimals),
		Fats:     RoundTo(t.Fats, decimals),
	}
}

// MacroTargets is the sub-target for one meal slot. DailyProtein carries the
// whole-day protein goal so the allocator can apply the daily protein cap.
type MacroTargets struct {
	MacroTotals
	DailyProtein float64
}

// Contribution returns the macros a food provides at the given quantity,
// expressed in the food's serving unit. Foods without nutrients contribute
// nothing.
func Contribution(f Food, quantity float64) MacroTotals {
	if f.Nutrients == nil || quantity <= 0 {
		return MacroTotals{}
	}
	n := f.Nutrients
	ratio := quantity / f.Serving()
	return MacroTotals{
		Calories: n.Energy() * ratio,
		Protein:  n.Protein * ratio,
		Carbs:    n.Carbs * ratio,
		Fats:     n.Fats * ratio,
	}
}

// RoundTo rounds half away from zero to the given number of decimals.
func RoundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
