// Package repository provides database access for domain entities.
package repository

import (
	"context"
	"fmt"

	"github.com/akerbs/pocket-accountant-bot/internal/database"
	"github.com/akerbs/pocket-accountant-bot/internal/models"
)

// UserRepository handles user database operations.
type UserRepository struct {
	db database.PGXDB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db database.PGXDB) *UserRepository {
	return &UserRepository{db: db}
}

// EnsureUser creates or updates a user and returns the stored row. The
// currency is assigned on first contact and never overwritten afterwards.
func (r *UserRepository) EnsureUser(ctx context.Context, user *models.User) (*models.User, error) {
	if user.Currency == "" {
		user.Currency = models.DefaultCurrency
	}

	var stored models.User
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (id, username, first_name, currency)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			updated_at = NOW()
		RETURNING id, username, first_name, currency, created_at, updated_at
	`, user.ID, user.Username, user.FirstName, user.Currency).Scan(
		&stored.ID, &stored.Username, &stored.FirstName, &stored.Currency,
		&stored.CreatedAt, &stored.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user: %w", err)
	}
	return &stored, nil
}

// GetByID retrieves a user by their Telegram ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx, `
		SELECT id, username, first_name, currency, created_at, updated_at
		FROM users WHERE id = $1
	`, id).Scan(&user.ID, &user.Username, &user.FirstName, &user.Currency,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
