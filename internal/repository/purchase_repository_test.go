package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/akerbs/pocket-accountant-bot/internal/database"
	"github.com/akerbs/pocket-accountant-bot/internal/models"
)

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func seedCategory(t *testing.T, db database.PGXDB, userID int64, name string) *models.Category {
	t.Helper()
	cat, err := NewCategoryRepository(db).FindOrCreate(context.Background(), userID, name)
	require.NoError(t, err)
	return cat
}

func TestPurchaseCreate(t *testing.T) {
	tx := database.TestTx(t)
	ctx := context.Background()
	repo := NewPurchaseRepository(tx)
	user := seedUser(t, tx, 300100)
	cat := seedCategory(t, tx, user.ID, "Groceries")

	purchase := &models.Purchase{
		UserID:     user.ID,
		CategoryID: cat.ID,
		Amount:     mustDec(t, "650.50"),
		Note:       "Morning market",
	}
	require.NoError(t, repo.Create(ctx, purchase))
	require.NotZero(t, purchase.ID)
	require.False(t, purchase.SpentAt.IsZero(), "spent_at defaults to now")
	require.False(t, purchase.CreatedAt.IsZero())
}

func TestSumByPeriod(t *testing.T) {
	tx := database.TestTx(t)
	ctx := context.Background()
	repo := NewPurchaseRepository(tx)
	user := seedUser(t, tx, 300101)
	cat := seedCategory(t, tx, user.ID, "Groceries")

	base := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	for _, p := range []struct {
		amount  string
		spentAt time.Time
	}{
		{"100", base},
		{"200.50", base.Add(2 * time.Hour)},
		{"999", base.AddDate(0, -1, 0)}, // outside the window
	} {
		require.NoError(t, repo.Create(ctx, &models.Purchase{
			UserID:     user.ID,
			CategoryID: cat.ID,
			Amount:     mustDec(t, p.amount),
			SpentAt:    p.spentAt,
		}))
	}

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	total, err := repo.SumByPeriod(ctx, user.ID, from, to)
	require.NoError(t, err)
	require.True(t, total.Equal(mustDec(t, "300.50")), "got %s", total)

	catTotal, err := repo.SumByCategoryAndPeriod(ctx, user.ID, cat.ID, from, to)
	require.NoError(t, err)
	require.True(t, catTotal.Equal(mustDec(t, "300.50")))

	empty, err := repo.SumByPeriod(ctx, user.ID, to, to.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.True(t, empty.IsZero(), "empty window sums to zero")
}

func TestCategoryBreakdown(t *testing.T) {
	tx := database.TestTx(t)
	ctx := context.Background()
	repo := NewPurchaseRepository(tx)
	user := seedUser(t, tx, 300102)
	groceries := seedCategory(t, tx, user.ID, "Groceries")
	coffee := seedCategory(t, tx, user.ID, "Coffee")

	spentAt := time.Date(2026, 8, 10, 10, 0, 0, 0, time.UTC)
	for _, p := range []struct {
		catID  int
		amount string
	}{
		{groceries.ID, "500"},
		{groceries.ID, "300"},
		{coffee.ID, "250"},
	} {
		require.NoError(t, repo.Create(ctx, &models.Purchase{
			UserID:     user.ID,
			CategoryID: p.catID,
			Amount:     mustDec(t, p.amount),
			SpentAt:    spentAt,
		}))
	}

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	breakdown, err := repo.CategoryBreakdown(ctx, user.ID, from, from.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.Len(t, breakdown, 2)

	require.Equal(t, "Groceries", breakdown[0].CategoryName)
	require.True(t, breakdown[0].Total.Equal(mustDec(t, "800")), "largest category first")
	require.Equal(t, "Coffee", breakdown[1].CategoryName)
}

func TestRecent(t *testing.T) {
	tx := database.TestTx(t)
	ctx := context.Background()
	repo := NewPurchaseRepository(tx)
	user := seedUser(t, tx, 300103)
	cat := seedCategory(t, tx, user.ID, "Groceries")

	base := time.Date(2026, 8, 10, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Create(ctx, &models.Purchase{
			UserID:     user.ID,
			CategoryID: cat.ID,
			Amount:     mustDec(t, "100"),
			Note:       "entry",
			SpentAt:    base.Add(time.Duration(i) * time.Hour),
		}))
	}

	recent, err := repo.Recent(ctx, user.ID, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	require.True(t, recent[0].SpentAt.After(recent[1].SpentAt), "newest first")
	require.NotNil(t, recent[0].Category)
	require.Equal(t, "Groceries", recent[0].Category.Name)
}

func TestDeleteAllByUser(t *testing.T) {
	tx := database.TestTx(t)
	ctx := context.Background()
	repo := NewPurchaseRepository(tx)
	user := seedUser(t, tx, 300104)
	other := seedUser(t, tx, 300105)
	cat := seedCategory(t, tx, user.ID, "Groceries")
	otherCat := seedCategory(t, tx, other.ID, "Groceries")

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &models.Purchase{
			UserID:     user.ID,
			CategoryID: cat.ID,
			Amount:     mustDec(t, "100"),
		}))
	}
	require.NoError(t, repo.Create(ctx, &models.Purchase{
		UserID:     other.ID,
		CategoryID: otherCat.ID,
		Amount:     mustDec(t, "50"),
	}))

	deleted, err := repo.DeleteAllByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 3, deleted)

	recent, err := repo.Recent(ctx, other.ID, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1, "other users' records survive")
}
