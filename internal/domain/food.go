// Package domain contains the core business entities and interfaces.
package domain

import "context"

// DefaultServingSize is used whenever a food has no serving size recorded.
const DefaultServingSize = 100.0

// DefaultServingUnit is used whenever a food has no serving unit recorded.
const DefaultServingUnit = "g"

// Nutrients holds the nutrient profile of one serving of a food.
// A zero value means the nutrient is unknown and counts as nothing.
type Nutrients struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Fiber    float64 `json:"fiber"`
	Sugars   float64 `json:"sugars"`
}

// Food is a catalog entry the engine can recommend.
type Food struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	ServingSize float64    `json:"servingSize"`
	ServingUnit string     `json:"servingUnit"`
	Nutrients   *Nutrients `json:"nutrients"`
}

// Serving returns the serving size, falling back to DefaultServingSize.
func (f Food) Serving() float64 {
	if f.ServingSize <= 0 {
		return DefaultServingSize
	}
	return f.ServingSize
}

// Unit returns the serving unit, falling back to DefaultServingUnit.
func (f Food) Unit() string {
	if f.ServingUnit == "" {
		return DefaultServingUnit
	}
	return f.ServingUnit
}

// FoodCatalog is the port for food lookups.
type FoodCatalog interface {
	// GetFood returns nil, nil when the food does not exist.
	GetFood(ctx context.Context, id int64) (*Food, error)
	// FoodsByIDs returns the foods that exist, in the order of ids.
	FoodsByIDs(ctx context.Context, ids []int64) ([]Food, error)
	// ListFoods returns the first limit foods of the catalog ordered by id.
	ListFoods(ctx context.Context, limit int) ([]Food, error)
}
