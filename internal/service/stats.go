package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akerbs/pocket-accountant-bot/internal/repository"
)

// Snapshot sizes. The breakdown shows the biggest categories only so the
// stats message stays scannable on a phone.
const (
	snapshotTopCategories = 6
	snapshotRecentCount   = 5
)

// CategoryStat is one category's slice of the current month.
type CategoryStat struct {
	Name  string
	Emoji string
	Total decimal.Decimal
	Share float64
	Limit *LimitStatus
}

// RecentPurchase is one entry of the recent-operations list.
type RecentPurchase struct {
	Amount       decimal.Decimal
	Note         string
	CategoryName string
	Emoji        string
	SpentAt      time.Time
}

// Snapshot aggregates a user's spending for the stats and advice views.
type Snapshot struct {
	Today      decimal.Decimal
	Week       decimal.Decimal
	Month      decimal.Decimal
	Currency   string
	Categories []CategoryStat
	Recent     []RecentPurchase
}

// StatsService builds spending snapshots.
type StatsService struct {
	purchases *repository.PurchaseRepository
	limits    *LimitService
	now       func() time.Time
}

// NewStatsService creates a StatsService.
func NewStatsService(purchases *repository.PurchaseRepository, limits *LimitService) *StatsService {
	return &StatsService{purchases: purchases, limits: limits, now: time.Now}
}

// Snapshot aggregates today/week/month totals, the month's top categories
// with their limit statuses, and the latest purchases.
func (s *StatsService) Snapshot(ctx context.Context, userID int64, currency string) (*Snapshot, error) {
	now := s.now()
	dayFrom, dayTo := DayRange(now)
	weekFrom, weekTo := WeekRange(now)
	monthFrom, monthTo := MonthRange(now)

	today, err := s.purchases.SumByPeriod(ctx, userID, dayFrom, dayTo)
	if err != nil {
		return nil, err
	}
	week, err := s.purchases.SumByPeriod(ctx, userID, weekFrom, weekTo)
	if err != nil {
		return nil, err
	}
	month, err := s.purchases.SumByPeriod(ctx, userID, monthFrom, monthTo)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.purchases.CategoryBreakdown(ctx, userID, monthFrom, monthTo)
	if err != nil {
		return nil, err
	}
	if len(breakdown) > snapshotTopCategories {
		breakdown = breakdown[:snapshotTopCategories]
	}

	monthTotal := month
	if monthTotal.IsZero() {
		monthTotal = decimal.NewFromInt(1)
	}

	categories := make([]CategoryStat, 0, len(breakdown))
	for _, item := range breakdown {
		stat := CategoryStat{
			Name:  item.CategoryName,
			Emoji: item.Emoji,
			Total: item.Total,
			Share: item.Total.Div(monthTotal).InexactFloat64(),
		}

		status, err := s.limits.Status(ctx, userID, item.CategoryID)
		if err != nil {
			return nil, err
		}
		if status.Active {
			stat.Limit = status
		}

		categories = append(categories, stat)
	}

	recentRows, err := s.purchases.Recent(ctx, userID, snapshotRecentCount)
	if err != nil {
		return nil, err
	}

	recent := make([]RecentPurchase, 0, len(recentRows))
	for _, p := range recentRows {
		recent = append(recent, RecentPurchase{
			Amount:       p.Amount,
			Note:         p.Note,
			CategoryName: p.Category.Name,
			Emoji:        p.Category.Emoji,
			SpentAt:      p.SpentAt,
		})
	}

	return &Snapshot{
		Today:      today,
		Week:       week,
		Month:      month,
		Currency:   currency,
		Categories: categories,
		Recent:     recent,
	}, nil
}
