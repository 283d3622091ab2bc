package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"nutriplan/internal/domain"
)

const foodColumns = "id, name, serving_size, serving_unit, calories, protein, carbs, fats, fiber, sugars"

type scanner interface {
	Scan(dest ...any) error
}

func scanFood(row scanner) (domain.Food, error) {
	var (
		f    domain.Food
		size sql.NullFloat64
		unit sql.NullString
		n    [6]sql.NullFloat64
	)
	if err := row.Scan(&f.ID, &f.Name, &size, &unit, &n[0], &n[1], &n[2], &n[3], &n[4], &n[5]); err != nil {
		return f, err
	}
	f.ServingSize = size.Float64
	f.ServingUnit = unit.String

	known := false
	for _, v := range n {
		known = known || v.Valid
	}
	if known {
		f.Nutrients = &domain.Nutrients{
			Calories: n[0].Float64,
			Protein:  n[1].Float64,
			Carbs:    n[2].Float64,
			Fats:     n[3].Float64,
			Fiber:    n[4].Float64,
			Sugars:   n[5].Float64,
		}
	}
	return f, nil
}

// AddFood inserts a catalog entry and returns its id.
func (d *DB) AddFood(ctx context.Context, f domain.Food) (int64, error) {
	// Foods without a nutrient profile keep NULL columns.
	nutrients := make([]any, 6)
	if n := f.Nutrients; n != nil {
		nutrients = []any{n.Calories, n.Protein, n.Carbs, n.Fats, n.Fiber, n.Sugars}
	}
	args := append([]any{f.Name, f.ServingSize, f.ServingUnit}, nutrients...)

	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO foods(name, serving_size, serving_unit, calories, protein, carbs, fats, fiber, sugars) VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id;",
		args...,
	).Scan(&id)
	return id, err
}

// GetFood retrieves a food by ID.
func (d *DB) GetFood(ctx context.Context, id int64) (*domain.Food, error) {
	row := d.sql.QueryRowContext(ctx, "SELECT "+foodColumns+" FROM foods WHERE id=$1;", id)
	f, err := scanFood(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

// FoodsByIDs returns the existing foods in the order of ids.
func (d *DB) FoodsByIDs(ctx context.Context, ids []int64) ([]domain.Food, error) {
	if len(ids) == 0 {
		return []domain.Food{}, nil
	}
	rows, err := d.sql.QueryContext(ctx, "SELECT "+foodColumns+" FROM foods WHERE id = ANY($1);", pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int64]domain.Food, len(ids))
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		byID[f.ID] = f
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.Food, 0, len(byID))
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// ListFoods returns the first limit foods ordered by id.
func (d *DB) ListFoods(ctx context.Context, limit int) ([]domain.Food, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT "+foodColumns+" FROM foods ORDER BY id LIMIT $1;", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Food, 0, limit)
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
