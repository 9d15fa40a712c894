package bot

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/akerbs/pocket-accountant-bot/internal/models"
	"github.com/akerbs/pocket-accountant-bot/internal/repository"
	"github.com/akerbs/pocket-accountant-bot/internal/service"
)

// The controller talks to persistence through these narrow interfaces so
// handler tests can swap in fakes without a database.

// UserDirectory registers users on first contact.
type UserDirectory interface {
	EnsureUser(ctx context.Context, user *models.User) (*models.User, error)
}

// CategoryDirectory manages a user's spending categories.
type CategoryDirectory interface {
	EnsureDefaults(ctx context.Context, userID int64) error
	List(ctx context.Context, userID int64) ([]models.Category, error)
	GetByID(ctx context.Context, userID int64, id int) (*models.Category, error)
	FindOrCreate(ctx context.Context, userID int64, name string) (*models.Category, error)
}

// PurchaseLedger records and erases purchases.
type PurchaseLedger interface {
	Create(ctx context.Context, purchase *models.Purchase) error
	DeleteAllByUser(ctx context.Context, userID int64) (int, error)
}

// LimitKeeper manages monthly category limits and their warnings.
type LimitKeeper interface {
	Upsert(ctx context.Context, userID int64, categoryID int, amount decimal.Decimal) (*models.CategoryLimit, error)
	ListActive(ctx context.Context, userID int64) ([]models.CategoryLimit, error)
	Status(ctx context.Context, userID int64, categoryID int) (*service.LimitStatus, error)
	NotifyIfNeeded(ctx context.Context, userID int64, categoryID int, warn func(message string) error) error
}

// StatsSource builds spending snapshots.
type StatsSource interface {
	Snapshot(ctx context.Context, userID int64, currency string) (*service.Snapshot, error)
}

var (
	_ UserDirectory     = (*repository.UserRepository)(nil)
	_ CategoryDirectory = (*repository.CategoryRepository)(nil)
	_ PurchaseLedger    = (*repository.PurchaseRepository)(nil)
	_ LimitKeeper       = (*service.LimitService)(nil)
	_ StatsSource       = (*service.StatsService)(nil)
)
