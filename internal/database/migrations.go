package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations creates the database schema.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY,
			username TEXT,
			first_name TEXT,
			currency TEXT NOT NULL DEFAULT 'RUB',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS categories (
			id SERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			name TEXT NOT NULL,
			emoji TEXT NOT NULL DEFAULT '🧾',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_user_name
			ON categories(user_id, LOWER(name))`,

		`CREATE TABLE IF NOT EXISTS purchases (
			id SERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			category_id INTEGER NOT NULL REFERENCES categories(id),
			amount DECIMAL(12, 2) NOT NULL,
			note TEXT,
			spent_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_purchases_user_id ON purchases(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_purchases_spent_at ON purchases(spent_at)`,
		`CREATE INDEX IF NOT EXISTS idx_purchases_category_id ON purchases(category_id)`,

		`CREATE TABLE IF NOT EXISTS category_limits (
			id SERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			category_id INTEGER NOT NULL REFERENCES categories(id),
			amount DECIMAL(12, 2) NOT NULL,
			period TEXT NOT NULL DEFAULT 'month',
			period_start TIMESTAMPTZ NOT NULL,
			threshold INTEGER NOT NULL DEFAULT 75,
			last_notified_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, category_id, period, period_start)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_category_limits_user_id ON category_limits(user_id)`,
	}

	for i, migration := range migrations {
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
