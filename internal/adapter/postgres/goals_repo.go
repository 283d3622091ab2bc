package postgres

import (
	"context"
	"database/sql"
	"errors"

	"nutriplan/internal/domain"
)

// SetGoals creates or replaces the daily goals of a user.
func (d *DB) SetGoals(ctx context.Context, userID int64, g domain.DailyGoals) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO user_goals(user_id, calories, protein, carbs, fats) VALUES($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET calories=EXCLUDED.calories, protein=EXCLUDED.protein,
		carbs=EXCLUDED.carbs, fats=EXCLUDED.fats, updated_at=now();`,
		userID, g.Calories, g.Protein, g.Carbs, g.Fats)
	return err
}

// DailyGoals returns the goals of a user, or nil when none are set.
func (d *DB) DailyGoals(ctx context.Context, userID int64) (*domain.DailyGoals, error) {
	var g domain.DailyGoals
	err := d.sql.QueryRowContext(ctx,
		"SELECT calories, protein, carbs, fats FROM user_goals WHERE user_id=$1;", userID,
	).Scan(&g.Calories, &g.Protein, &g.Carbs, &g.Fats)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}
