package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akerbs/pocket-accountant-bot/internal/database"
	"github.com/akerbs/pocket-accountant-bot/internal/models"
)

// LimitRepository handles category limit database operations. Limits are
// keyed by (user, category, period, period start), so a new month gets a
// fresh row while the old one stays around as history.
type LimitRepository struct {
	db database.PGXDB
}

// NewLimitRepository creates a new LimitRepository.
func NewLimitRepository(db database.PGXDB) *LimitRepository {
	return &LimitRepository{db: db}
}

// Upsert creates or updates the monthly limit for the given period start.
func (r *LimitRepository) Upsert(
	ctx context.Context,
	userID int64,
	categoryID int,
	amount decimal.Decimal,
	periodStart time.Time,
) (*models.CategoryLimit, error) {
	var limit models.CategoryLimit
	err := r.db.QueryRow(ctx, `
		INSERT INTO category_limits (user_id, category_id, amount, period, period_start)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, category_id, period, period_start) DO UPDATE SET
			amount = EXCLUDED.amount,
			updated_at = NOW()
		RETURNING id, user_id, category_id, amount, period, period_start,
		          threshold, last_notified_at, created_at, updated_at
	`, userID, categoryID, amount, models.LimitPeriodMonth, periodStart).Scan(
		&limit.ID, &limit.UserID, &limit.CategoryID, &limit.Amount, &limit.Period,
		&limit.PeriodStart, &limit.Threshold, &limit.LastNotifiedAt,
		&limit.CreatedAt, &limit.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert limit: %w", err)
	}
	return &limit, nil
}

// GetActive retrieves the limit for one category in the given period.
// Returns (nil, nil) when no limit is set.
func (r *LimitRepository) GetActive(
	ctx context.Context,
	userID int64,
	categoryID int,
	periodStart time.Time,
) (*models.CategoryLimit, error) {
	var limit models.CategoryLimit
	var cat models.Category
	err := r.db.QueryRow(ctx, `
		SELECT l.id, l.user_id, l.category_id, l.amount, l.period, l.period_start,
		       l.threshold, l.last_notified_at, l.created_at, l.updated_at,
		       c.id, c.user_id, c.name, c.emoji, c.created_at
		FROM category_limits l
		JOIN categories c ON l.category_id = c.id
		WHERE l.user_id = $1 AND l.category_id = $2 AND l.period = $3 AND l.period_start = $4
	`, userID, categoryID, models.LimitPeriodMonth, periodStart).Scan(
		&limit.ID, &limit.UserID, &limit.CategoryID, &limit.Amount, &limit.Period,
		&limit.PeriodStart, &limit.Threshold, &limit.LastNotifiedAt,
		&limit.CreatedAt, &limit.UpdatedAt,
		&cat.ID, &cat.UserID, &cat.Name, &cat.Emoji, &cat.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get limit: %w", err)
	}
	limit.Category = &cat
	return &limit, nil
}

// ListActive retrieves all limits of a user in the given period, largest
// amount first.
func (r *LimitRepository) ListActive(
	ctx context.Context,
	userID int64,
	periodStart time.Time,
) ([]models.CategoryLimit, error) {
	rows, err := r.db.Query(ctx, `
		SELECT l.id, l.user_id, l.category_id, l.amount, l.period, l.period_start,
		       l.threshold, l.last_notified_at, l.created_at, l.updated_at,
		       c.id, c.user_id, c.name, c.emoji, c.created_at
		FROM category_limits l
		JOIN categories c ON l.category_id = c.id
		WHERE l.user_id = $1 AND l.period = $2 AND l.period_start = $3
		ORDER BY l.amount DESC
	`, userID, models.LimitPeriodMonth, periodStart)
	if err != nil {
		return nil, fmt.Errorf("failed to query limits: %w", err)
	}
	defer rows.Close()

	var limits []models.CategoryLimit
	for rows.Next() {
		var limit models.CategoryLimit
		var cat models.Category
		if err := rows.Scan(
			&limit.ID, &limit.UserID, &limit.CategoryID, &limit.Amount, &limit.Period,
			&limit.PeriodStart, &limit.Threshold, &limit.LastNotifiedAt,
			&limit.CreatedAt, &limit.UpdatedAt,
			&cat.ID, &cat.UserID, &cat.Name, &cat.Emoji, &cat.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan limit: %w", err)
		}
		limit.Category = &cat
		limits = append(limits, limit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating limits: %w", err)
	}
	return limits, nil
}

// MarkNotified stamps the limit as having fired its warning.
func (r *LimitRepository) MarkNotified(ctx context.Context, limitID int, at time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE category_limits SET last_notified_at = $2, updated_at = NOW() WHERE id = $1
	`, limitID, at)
	if err != nil {
		return fmt.Errorf("failed to mark limit notified: %w", err)
	}
	return nil
}
