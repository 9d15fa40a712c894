package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akerbs/pocket-accountant-bot/internal/logger"
	"github.com/akerbs/pocket-accountant-bot/internal/models"
	"github.com/akerbs/pocket-accountant-bot/internal/repository"
)

// LimitStatus describes how a category's month stands against its limit.
// Active is false when no limit is set for the current month.
type LimitStatus struct {
	Active       bool
	LimitID      int
	CategoryName string
	Emoji        string
	Spent        decimal.Decimal
	Amount       decimal.Decimal
	Coverage     float64
	Threshold    float64
	Exceeded     bool
}

// LimitService tracks monthly per-category spending caps.
type LimitService struct {
	limits    *repository.LimitRepository
	purchases *repository.PurchaseRepository
	now       func() time.Time
}

// NewLimitService creates a LimitService over the given repositories.
func NewLimitService(limits *repository.LimitRepository, purchases *repository.PurchaseRepository) *LimitService {
	return &LimitService{limits: limits, purchases: purchases, now: time.Now}
}

// Upsert sets the category's limit for the current month.
func (s *LimitService) Upsert(
	ctx context.Context,
	userID int64,
	categoryID int,
	amount decimal.Decimal,
) (*models.CategoryLimit, error) {
	periodStart, _ := MonthRange(s.now())
	return s.limits.Upsert(ctx, userID, categoryID, amount, periodStart)
}

// ListActive returns the user's limits for the current month.
func (s *LimitService) ListActive(ctx context.Context, userID int64) ([]models.CategoryLimit, error) {
	periodStart, _ := MonthRange(s.now())
	return s.limits.ListActive(ctx, userID, periodStart)
}

// Status resolves the current month's limit status for one category.
func (s *LimitService) Status(ctx context.Context, userID int64, categoryID int) (*LimitStatus, error) {
	periodStart, periodEnd := MonthRange(s.now())

	limit, err := s.limits.GetActive(ctx, userID, categoryID, periodStart)
	if err != nil {
		return nil, err
	}
	if limit == nil {
		return &LimitStatus{}, nil
	}

	spent, err := s.purchases.SumByCategoryAndPeriod(ctx, userID, categoryID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	coverage := 0.0
	if limit.Amount.IsPositive() {
		coverage = spent.Div(limit.Amount).InexactFloat64()
	}

	return &LimitStatus{
		Active:       true,
		LimitID:      limit.ID,
		CategoryName: limit.Category.Name,
		Emoji:        limit.Category.Emoji,
		Spent:        spent,
		Amount:       limit.Amount,
		Coverage:     coverage,
		Threshold:    float64(limit.Threshold) / 100,
		Exceeded:     coverage >= 1,
	}, nil
}

// NotifyIfNeeded fires the warning callback when the category's coverage has
// reached its threshold and no warning went out this month yet. The warning
// is best-effort: a failed callback is logged and the limit is not stamped,
// so the warning can fire again on the next purchase.
func (s *LimitService) NotifyIfNeeded(
	ctx context.Context,
	userID int64,
	categoryID int,
	warn func(message string) error,
) error {
	status, err := s.Status(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	if !status.Active || status.Coverage < status.Threshold {
		return nil
	}

	periodStart, _ := MonthRange(s.now())
	limit, err := s.limits.GetActive(ctx, userID, categoryID, periodStart)
	if err != nil {
		return err
	}
	if limit == nil {
		return nil
	}
	if limit.LastNotifiedAt != nil && limit.LastNotifiedAt.After(periodStart) {
		return nil
	}

	message := fmt.Sprintf(
		"⚠️ *Limit almost used up!*\n%s %s\nSpent %s / %s\nRemaining: %s",
		status.Emoji, status.CategoryName,
		status.Spent.StringFixed(0), status.Amount.StringFixed(0),
		status.Amount.Sub(status.Spent).StringFixed(0),
	)

	if err := warn(message); err != nil {
		logger.Log.Error().Err(err).
			Int64("user_id", userID).
			Int("category_id", categoryID).
			Msg("Failed to deliver limit warning")
		return nil
	}

	return s.limits.MarkNotified(ctx, limit.ID, s.now())
}
