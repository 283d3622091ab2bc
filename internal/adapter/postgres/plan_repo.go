package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"nutriplan/internal/domain"
)

const planColumns = "id, user_id, date::text, version, status, created_at"

// LatestPlan returns the highest plan version for the day.
func (d *DB) LatestPlan(ctx context.Context, userID int64, date string) (*domain.DietPlan, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+planColumns+" FROM diet_plans WHERE user_id=$1 AND date=$2 ORDER BY version DESC LIMIT 1;",
		userID, date)
	p, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := d.attachRecommendations(ctx, []*domain.DietPlan{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPlans returns every plan version for the day, newest first.
func (d *DB) ListPlans(ctx context.Context, userID int64, date string) ([]domain.DietPlan, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+planColumns+" FROM diet_plans WHERE user_id=$1 AND date=$2 ORDER BY version DESC;",
		userID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DietPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ptrs := make([]*domain.DietPlan, len(out))
	for i := range out {
		ptrs[i] = &out[i]
	}
	if err := d.attachRecommendations(ctx, ptrs); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPlan retrieves a plan by ID.
func (d *DB) GetPlan(ctx context.Context, id string) (*domain.DietPlan, error) {
	row := d.sql.QueryRowContext(ctx, "SELECT "+planColumns+" FROM diet_plans WHERE id=$1;", id)
	p, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := d.attachRecommendations(ctx, []*domain.DietPlan{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePlan discards discardID and inserts plan with its recommendations in one
// transaction. Unique violations on the version or active-plan indexes are
// reported as domain.ErrPlanConflict.
func (d *DB) SavePlan(ctx context.Context, plan *domain.DietPlan, discardID string) (err error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if discardID != "" {
		res, err := tx.ExecContext(ctx,
			"UPDATE diet_plans SET status=$1 WHERE id=$2;", string(domain.PlanDiscarded), discardID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrPlanNotFound
		}
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO diet_plans(id, user_id, date, version, status, created_at) VALUES($1, $2, $3, $4, $5, $6);",
		plan.ID, plan.UserID, plan.Date, plan.Version, string(plan.Status), plan.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrPlanConflict
		}
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO diet_recommendations(id, plan_id, position, user_id, date, meal, food_id, suggested_quantity, reason, status, created_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range plan.Recommendations {
		if _, err = stmt.ExecContext(ctx, r.ID, plan.ID, i, r.UserID, r.Date, string(r.Meal), r.FoodID,
			r.SuggestedQuantity, r.Reason, string(r.Status), r.CreatedAt.UTC()); err != nil {
			return fmt.Errorf("insert recommendation %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// SetPlanStatus updates the status of a plan.
func (d *DB) SetPlanStatus(ctx context.Context, id string, status domain.PlanStatus) error {
	res, err := d.sql.ExecContext(ctx, "UPDATE diet_plans SET status=$1 WHERE id=$2;", string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrPlanNotFound
	}
	return nil
}

// SetRecommendationStatus updates the status of one recommendation.
func (d *DB) SetRecommendationStatus(ctx context.Context, id string, status domain.RecommendationStatus) error {
	res, err := d.sql.ExecContext(ctx, "UPDATE diet_recommendations SET status=$1 WHERE id=$2;", string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("recommendation %s not found", id)
	}
	return nil
}

func scanPlan(row scanner) (domain.DietPlan, error) {
	var (
		p      domain.DietPlan
		status string
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.Date, &p.Version, &status, &p.CreatedAt); err != nil {
		return p, err
	}
	p.Status = domain.PlanStatus(status)
	return p, nil
}

// attachRecommendations loads the recommendations of every plan in one query,
// keeping their generation order.
func (d *DB) attachRecommendations(ctx context.Context, plans []*domain.DietPlan) error {
	if len(plans) == 0 {
		return nil
	}
	ids := make([]string, len(plans))
	byID := make(map[string]*domain.DietPlan, len(plans))
	for i, p := range plans {
		ids[i] = p.ID
		byID[p.ID] = p
		p.Recommendations = []domain.DietRecommendation{}
	}

	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, plan_id, user_id, date::text, meal, food_id, suggested_quantity, reason, status, created_at
		FROM diet_recommendations WHERE plan_id = ANY($1::uuid[]) ORDER BY plan_id, position;`,
		pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			r            domain.DietRecommendation
			meal, status string
		)
		if err := rows.Scan(&r.ID, &r.PlanID, &r.UserID, &r.Date, &meal, &r.FoodID,
			&r.SuggestedQuantity, &r.Reason, &status, &r.CreatedAt); err != nil {
			return err
		}
		r.Meal = domain.MealSlot(meal)
		r.Status = domain.RecommendationStatus(status)
		if p, ok := byID[r.PlanID]; ok {
			p.Recommendations = append(p.Recommendations, r)
		}
	}
	return rows.Err()
}
