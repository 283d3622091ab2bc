package domain_test

import (
	"testing"

	"nutriplan/internal/domain"
)

func food(kcal, protein, carbs, fats, sugars float64) domain.Food {
	return domain.Food{
		ServingSize: 100,
		Nutrients: &domain.Nutrients{
			Calories: kcal, Protein: protein, Carbs: carbs, Fats: fats, Sugars: sugars,
		},
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		food domain.Food
		want domain.FoodCategory
	}{
		{"chicken breast", food(165, 31, 0, 3.6, 0), domain.LeanProtein},
		{"salmon", food(208, 20, 0, 13, 0), domain.FattyProtein},
		{"olive oil", food(884, 0, 0, 100, 0), domain.Fat},
		{"brown rice", food(111, 2.6, 23, 0.9, 0.4), domain.CarbComplex},
		{"banana", food(89, 1.1, 23, 0.3, 12), domain.CarbSimple},
		{"water", food(0, 0, 0, 0, 0), domain.Unknown},
		{"no nutrients", domain.Food{ServingSize: 100}, domain.Unknown},
		{"derived calories", food(0, 25, 0, 1, 0), domain.LeanProtein},
		{"fat-only with no carbs below fat threshold", food(100, 5, 0, 4, 0), domain.Unknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := domain.Classify(tc.food); got != tc.want {
				t.Errorf("Classify() = %s; want %s", got, tc.want)
			}
		})
	}
}

func TestClassify_LeanWheneverProteinHighAndFatLow(t *testing.T) {
	// Sweep protein and fat shares; every food above 25% protein kcal and at
	// or below 25% fat kcal must be lean.
	for p := 0.0; p <= 60; p += 2.5 {
		for f := 0.0; f <= 20; f += 0.5 {
			fd := food(0, p, 30, f, 1)
			n := fd.Nutrients
			kcal := n.DerivedCalories()
			if kcal == 0 {
				continue
			}
			pShare := domain.RoundTo(p*4/kcal, 4)
			fShare := domain.RoundTo(f*9/kcal, 4)
			if pShare > 0.25 && fShare <= 0.25 {
				if got := domain.Classify(fd); got != domain.LeanProtein {
					t.Fatalf("protein=%v fat=%v: got %s; want LEAN_PROTEIN", p, f, got)
				}
			}
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	f := food(208, 20, 0, 13, 0)
	first := domain.Classify(f)
	for i := 0; i < 10; i++ {
		if got := domain.Classify(f); got != first {
			t.Fatalf("classification changed between calls: %s vs %s", first, got)
		}
	}
}

func TestPortionCap(t *testing.T) {
	tests := []struct {
		cat  domain.FoodCategory
		want float64
	}{
		{domain.LeanProtein, 250},
		{domain.FattyProtein, 180},
		{domain.CarbComplex, 350},
		{domain.CarbSimple, 50},
		{domain.Fat, 40},
		{domain.Unknown, 100},
		{domain.FoodCategory("bogus"), 100},
	}
	for _, tc := range tests {
		if got := domain.PortionCap(tc.cat); got != tc.want {
			t.Errorf("PortionCap(%s) = %v; want %v", tc.cat, got, tc.want)
		}
	}
}
