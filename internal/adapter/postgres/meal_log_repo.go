package postgres

import (
	"context"
	"time"

	"nutriplan/internal/domain"
)

// AddServing appends a serving to the user's meal log.
func (d *DB) AddServing(ctx context.Context, s domain.Serving) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO meal_entries(user_id, date, meal, food_id, quantity, unit) VALUES($1, $2, $3, $4, $5, $6);",
		s.UserID, s.Date, string(s.Meal), s.FoodID, s.Quantity, s.Unit)
	return err
}

// FrequentFoodIDs counts logged servings per food for one meal slot, most
// frequent first. Ties go to the most recently logged food.
func (d *DB) FrequentFoodIDs(ctx context.Context, userID int64, meal domain.MealSlot, since time.Time, limit int) ([]int64, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT food_id FROM meal_entries
		WHERE user_id=$1 AND meal=$2 AND date >= $3
		GROUP BY food_id
		ORDER BY COUNT(*) DESC, MAX(date) DESC, food_id
		LIMIT $4;`,
		userID, string(meal), since.Format(domain.DateLayout), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0, limit)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
