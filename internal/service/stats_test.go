package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/akerbs/pocket-accountant-bot/internal/database"
	"github.com/akerbs/pocket-accountant-bot/internal/models"
	"github.com/akerbs/pocket-accountant-bot/internal/repository"
)

func TestSnapshot(t *testing.T) {
	const userID int64 = 600100
	tx := database.TestTx(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC) // Thursday

	_, err := repository.NewUserRepository(tx).EnsureUser(ctx, &models.User{ID: userID, Username: "stats"})
	require.NoError(t, err)

	categoryRepo := repository.NewCategoryRepository(tx)
	groceries, err := categoryRepo.FindOrCreate(ctx, userID, "Groceries")
	require.NoError(t, err)
	coffee, err := categoryRepo.FindOrCreate(ctx, userID, "Coffee")
	require.NoError(t, err)

	purchases := repository.NewPurchaseRepository(tx)
	limits := NewLimitService(repository.NewLimitRepository(tx), purchases)
	limits.now = func() time.Time { return now }
	svc := NewStatsService(purchases, limits)
	svc.now = func() time.Time { return now }

	_, err = limits.Upsert(ctx, userID, groceries.ID, dec(t, "10000"))
	require.NoError(t, err)

	for _, p := range []struct {
		catID   int
		amount  string
		note    string
		spentAt time.Time
	}{
		{groceries.ID, "600", "today's run", now.Add(-2 * time.Hour)},
		{groceries.ID, "2400", "", now.AddDate(0, 0, -2)}, // Tuesday, same week
		{coffee.ID, "1000", "beans", now.AddDate(0, 0, -10)}, // earlier this month
	} {
		require.NoError(t, purchases.Create(ctx, &models.Purchase{
			UserID:     userID,
			CategoryID: p.catID,
			Amount:     dec(t, p.amount),
			Note:       p.note,
			SpentAt:    p.spentAt,
		}))
	}

	stats, err := svc.Snapshot(ctx, userID, "RUB")
	require.NoError(t, err)

	require.True(t, stats.Today.Equal(dec(t, "600")), "today: %s", stats.Today)
	require.True(t, stats.Week.Equal(dec(t, "3000")), "week: %s", stats.Week)
	require.True(t, stats.Month.Equal(dec(t, "4000")), "month: %s", stats.Month)
	require.Equal(t, "RUB", stats.Currency)

	require.Len(t, stats.Categories, 2)
	require.Equal(t, "Groceries", stats.Categories[0].Name, "largest category first")
	require.InDelta(t, 0.75, stats.Categories[0].Share, 0.001)
	require.NotNil(t, stats.Categories[0].Limit)
	require.InDelta(t, 0.3, stats.Categories[0].Limit.Coverage, 0.001)
	require.Nil(t, stats.Categories[1].Limit, "no limit set for coffee")

	require.Len(t, stats.Recent, 3)
	require.Equal(t, "today's run", stats.Recent[0].Note)
	require.Equal(t, "Groceries", stats.Recent[0].CategoryName)
}

func TestSnapshotEmptyUser(t *testing.T) {
	const userID int64 = 600101
	tx := database.TestTx(t)
	ctx := context.Background()

	_, err := repository.NewUserRepository(tx).EnsureUser(ctx, &models.User{ID: userID, Username: "empty"})
	require.NoError(t, err)

	purchases := repository.NewPurchaseRepository(tx)
	svc := NewStatsService(purchases, NewLimitService(repository.NewLimitRepository(tx), purchases))

	stats, err := svc.Snapshot(ctx, userID, "RUB")
	require.NoError(t, err)
	require.True(t, stats.Today.IsZero())
	require.True(t, stats.Month.IsZero())
	require.Empty(t, stats.Categories)
	require.Empty(t, stats.Recent)
}
