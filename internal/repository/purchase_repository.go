package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akerbs/pocket-accountant-bot/internal/database"
	"github.com/akerbs/pocket-accountant-bot/internal/models"
)

// CategoryTotal is one row of a per-category spending breakdown.
type CategoryTotal struct {
	CategoryID   int
	CategoryName string
	Emoji        string
	Total        decimal.Decimal
}

// PurchaseRepository handles purchase database operations.
type PurchaseRepository struct {
	db database.PGXDB
}

// NewPurchaseRepository creates a new PurchaseRepository.
func NewPurchaseRepository(db database.PGXDB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// Create adds a new purchase. SpentAt defaults to now when zero.
func (r *PurchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	if purchase.SpentAt.IsZero() {
		purchase.SpentAt = time.Now()
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO purchases (user_id, category_id, amount, note, spent_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, purchase.UserID, purchase.CategoryID, purchase.Amount, purchase.Note, purchase.SpentAt,
	).Scan(&purchase.ID, &purchase.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create purchase: %w", err)
	}
	return nil
}

// SumByPeriod totals a user's spending within [from, to).
func (r *PurchaseRepository) SumByPeriod(
	ctx context.Context,
	userID int64,
	from, to time.Time,
) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM purchases
		WHERE user_id = $1 AND spent_at >= $2 AND spent_at < $3
	`, userID, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum purchases: %w", err)
	}
	return total, nil
}

// SumByCategoryAndPeriod totals one category's spending within [from, to).
func (r *PurchaseRepository) SumByCategoryAndPeriod(
	ctx context.Context,
	userID int64,
	categoryID int,
	from, to time.Time,
) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM purchases
		WHERE user_id = $1 AND category_id = $2 AND spent_at >= $3 AND spent_at < $4
	`, userID, categoryID, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum purchases by category: %w", err)
	}
	return total, nil
}

// CategoryBreakdown returns per-category totals within [from, to), largest
// first.
func (r *PurchaseRepository) CategoryBreakdown(
	ctx context.Context,
	userID int64,
	from, to time.Time,
) ([]CategoryTotal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.name, c.emoji, SUM(p.amount) AS total
		FROM purchases p
		JOIN categories c ON p.category_id = c.id
		WHERE p.user_id = $1 AND p.spent_at >= $2 AND p.spent_at < $3
		GROUP BY c.id, c.name, c.emoji
		ORDER BY total DESC
	`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query category breakdown: %w", err)
	}
	defer rows.Close()

	var breakdown []CategoryTotal
	for rows.Next() {
		var item CategoryTotal
		if err := rows.Scan(&item.CategoryID, &item.CategoryName, &item.Emoji, &item.Total); err != nil {
			return nil, fmt.Errorf("failed to scan breakdown row: %w", err)
		}
		breakdown = append(breakdown, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating breakdown: %w", err)
	}
	return breakdown, nil
}

// Recent retrieves a user's latest purchases with their categories.
func (r *PurchaseRepository) Recent(ctx context.Context, userID int64, limit int) ([]models.Purchase, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.user_id, p.category_id, p.amount, COALESCE(p.note, ''),
		       p.spent_at, p.created_at,
		       c.id, c.user_id, c.name, c.emoji, c.created_at
		FROM purchases p
		JOIN categories c ON p.category_id = c.id
		WHERE p.user_id = $1
		ORDER BY p.spent_at DESC, p.id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent purchases: %w", err)
	}
	defer rows.Close()

	var purchases []models.Purchase
	for rows.Next() {
		var p models.Purchase
		var cat models.Category
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.CategoryID, &p.Amount, &p.Note, &p.SpentAt, &p.CreatedAt,
			&cat.ID, &cat.UserID, &cat.Name, &cat.Emoji, &cat.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		p.Category = &cat
		purchases = append(purchases, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchases: %w", err)
	}
	return purchases, nil
}

// DeleteAllByUser removes every purchase of a user and reports how many rows
// went away.
func (r *PurchaseRepository) DeleteAllByUser(ctx context.Context, userID int64) (int, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM purchases WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete purchases: %w", err)
	}
	return int(result.RowsAffected()), nil
}
