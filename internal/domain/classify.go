package domain

// FoodCategory describes the dominant macro role of a food. It is derived
// from the nutrient profile on demand and never stored.
type FoodCategory string

// Food categories.
const (
	LeanProtein  FoodCategory = "LEAN_PROTEIN"
	FattyProtein FoodCategory = "FATTY_PROTEIN"
	CarbComplex  FoodCategory = "CARB_COMPLEX"
	CarbSimple   FoodCategory = "CARB_SIMPLE"
	Fat          FoodCategory = "FAT"
	Unknown      FoodCategory = "UNKNOWN"
)

const (
	proteinShareThreshold = 0.25
	fattyShareThreshold   = 0.25
	fatSourceThreshold    = 0.50
	simpleSugarThreshold  = 0.15
)

var portionCaps = map[FoodCategory]float64{
	LeanProtein:  250,
	FattyProtein: 180,
	CarbComplex:  350,
	CarbSimple:   50,
	Fat:          40,
	Unknown:      100,
}

// IsProtein reports whether the category can fill the protein role.
func (c FoodCategory) IsProtein() bool {
	return c == LeanProtein || c == FattyProtein
}

// PortionCap returns the largest recommended quantity, in grams, for a food
// of the given category.
func PortionCap(c FoodCategory) float64 {
	if v, ok := portionCaps[c]; ok {
		return v
	}
	return portionCaps[Unknown]
}

// Classify buckets a food by where its calories come from. The result only
// depends on the nutrient profile.
func Classify(f Food) FoodCategory {
	n := f.Nutrients
	if n == nil {
		return Unknown
	}
	kcal := n.Energy()
	if kcal <= 0 {
		return Unknown
	}

	proteinShare := RoundTo(n.Protein*kcalPerGramProtein/kcal, 4)
	fatShare := RoundTo(n.Fats*kcalPerGramFat/kcal, 4)

	if proteinShare > proteinShareThreshold {
		if fatShare > fattyShareThreshold {
			return FattyProtein
		}
		return LeanProtein
	}
	if fatShare > fatSourceThreshold {
		return Fat
	}
	if n.Carbs > 0 {
		if RoundTo(n.Sugars/n.Carbs, 4) > simpleSugarThreshold {
			return CarbSimple
		}
		return CarbComplex
	}
	return Unknown
}
