package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akerbs/pocket-accountant-bot/internal/database"
	"github.com/akerbs/pocket-accountant-bot/internal/models"
)

func seedUser(t *testing.T, db database.PGXDB, id int64) *models.User {
	t.Helper()
	user, err := NewUserRepository(db).EnsureUser(context.Background(), &models.User{
		ID:        id,
		Username:  "seed",
		FirstName: "Seed",
	})
	require.NoError(t, err)
	return user
}

func TestEnsureDefaults(t *testing.T) {
	tx := database.TestTx(t)
	ctx := context.Background()
	repo := NewCategoryRepository(tx)
	user := seedUser(t, tx, 200100)

	require.NoError(t, repo.EnsureDefaults(ctx, user.ID))

	categories, err := repo.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, categories, len(models.DefaultCategories))

	// Re-seeding must not duplicate anything.
	require.NoError(t, repo.EnsureDefaults(ctx, user.ID))
	categories, err = repo.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, categories, len(models.DefaultCategories))
}

func TestCategoriesAreUserScoped(t *testing.T) {
	tx := database.TestTx(t)
	ctx := context.Background()
	repo := NewCategoryRepository(tx)
	alice := seedUser(t, tx, 200101)
	bob := seedUser(t, tx, 200102)

	require.NoError(t, repo.EnsureDefaults(ctx, alice.ID))

	categories, err := repo.List(ctx, bob.ID)
	require.NoError(t, err)
	require.Empty(t, categories)

	aliceCategories, err := repo.List(ctx, alice.ID)
	require.NoError(t, err)
	got, err := repo.GetByID(ctx, bob.ID, aliceCategories[0].ID)
	require.NoError(t, err)
	require.Nil(t, got, "foreign categories are invisible")
}

func TestFindOrCreate(t *testing.T) {
	tx := database.TestTx(t)
	ctx := context.Background()
	repo := NewCategoryRepository(tx)
	user := seedUser(t, tx, 200103)

	created, err := repo.FindOrCreate(ctx, user.ID, "books")
	require.NoError(t, err)
	require.Equal(t, "Books", created.Name, "new categories get a title-cased name")
	require.NotEmpty(t, created.Emoji)

	// A case-insensitive match reuses the existing row.
	found, err := repo.FindOrCreate(ctx, user.ID, "BOOKS")
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)
	require.Equal(t, "Books", found.Name)
}

func TestFindOrCreateMatchesSeededCategory(t *testing.T) {
	tx := database.TestTx(t)
	ctx := context.Background()
	repo := NewCategoryRepository(tx)
	user := seedUser(t, tx, 200104)

	require.NoError(t, repo.EnsureDefaults(ctx, user.ID))

	found, err := repo.FindOrCreate(ctx, user.ID, "groceries")
	require.NoError(t, err)
	require.Equal(t, "Groceries", found.Name)

	categories, err := repo.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, categories, len(models.DefaultCategories))
}

func TestCategoryGetByIDMissing(t *testing.T) {
	tx := database.TestTx(t)
	ctx := context.Background()
	repo := NewCategoryRepository(tx)
	user := seedUser(t, tx, 200105)

	got, err := repo.GetByID(ctx, user.ID, 999999)
	require.NoError(t, err)
	require.Nil(t, got)
}
