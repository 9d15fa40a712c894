package repository

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/akerbs/pocket-accountant-bot/internal/database"
	"github.com/akerbs/pocket-accountant-bot/internal/models"
)

// CategoryRepository handles category database operations. Every category
// belongs to a single user; lookups are always user-scoped.
type CategoryRepository struct {
	db database.PGXDB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db database.PGXDB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// EnsureDefaults seeds the default category set for a user. Categories the
// user already has (compared case-insensitively) are left untouched.
func (r *CategoryRepository) EnsureDefaults(ctx context.Context, userID int64) error {
	for _, cat := range models.DefaultCategories {
		_, err := r.db.Exec(ctx, `
			INSERT INTO categories (user_id, name, emoji)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, LOWER(name)) DO NOTHING
		`, userID, cat.Name, cat.Emoji)
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", cat.Name, err)
		}
	}
	return nil
}

// List retrieves all of a user's categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context, userID int64) ([]models.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, emoji, created_at
		FROM categories WHERE user_id = $1 ORDER BY name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Emoji, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

// GetByID retrieves one of the user's categories. Returns (nil, nil) when the
// category does not exist or belongs to someone else.
func (r *CategoryRepository) GetByID(ctx context.Context, userID int64, id int) (*models.Category, error) {
	var cat models.Category
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, name, emoji, created_at
		FROM categories WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Emoji, &cat.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &cat, nil
}

// FindOrCreate returns the user's category matching name case-insensitively,
// creating it with a title-cased name when absent.
func (r *CategoryRepository) FindOrCreate(ctx context.Context, userID int64, name string) (*models.Category, error) {
	normalized := strings.TrimSpace(name)

	var cat models.Category
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, name, emoji, created_at
		FROM categories WHERE user_id = $1 AND LOWER(name) = LOWER($2)
	`, userID, normalized).Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Emoji, &cat.CreatedAt)
	if err == nil {
		return &cat, nil
	}
	if !isNoRows(err) {
		return nil, fmt.Errorf("failed to look up category: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO categories (user_id, name, emoji)
		VALUES ($1, $2, '🧾')
		RETURNING id, user_id, name, emoji, created_at
	`, userID, titleCase(normalized)).Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Emoji, &cat.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &cat, nil
}

// titleCase capitalizes the first rune of every word and lowercases the rest.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
