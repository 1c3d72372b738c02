package database

import (
	"context"
	"fmt"
	"log/slog"
)

const initialSchemaSQL = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_idx ON users (lower(email));

CREATE TABLE IF NOT EXISTS categories (
    id      TEXT PRIMARY KEY,
    user_id TEXT REFERENCES users(id) ON DELETE CASCADE,
    name    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    id          TEXT PRIMARY KEY,
    user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    category_id TEXT REFERENCES categories(id) ON DELETE SET NULL,
    type        TEXT NOT NULL CHECK (type IN ('income', 'expense')),
    name        TEXT NOT NULL,
    amount      DOUBLE PRECISION NOT NULL,
    date        TIMESTAMPTZ NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS transactions_user_date_idx ON transactions (user_id, date);
`

// Categories with a NULL user_id are the shared defaults every user sees.
var defaultCategories = []string{
	"Groceries",
	"Transport",
	"Housing",
	"Entertainment",
	"Health",
	"Salary",
	"Other",
}

var requiredTables = []string{
	"users",
	"categories",
	"transactions",
}

func (db *DB) EnsureSchema(ctx context.Context) error {
	if db == nil || db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	exists, err := db.hasAllRequiredTables(ctx)
	if err != nil {
		return fmt.Errorf("check existing tables: %w", err)
	}

	if !exists {
		slog.Info("database schema missing tables; applying initial schema")
		if _, err := db.Pool.Exec(ctx, initialSchemaSQL); err != nil {
			return fmt.Errorf("apply initial schema: %w", err)
		}

		exists, err = db.hasAllRequiredTables(ctx)
		if err != nil {
			return fmt.Errorf("re-check tables after schema apply: %w", err)
		}

		if !exists {
			return fmt.Errorf("schema initialization incomplete: required tables are still missing")
		}
	}

	if err := db.seedDefaultCategories(ctx); err != nil {
		return fmt.Errorf("seed default categories: %w", err)
	}

	slog.Info("database schema ensured")
	return nil
}

func (db *DB) seedDefaultCategories(ctx context.Context) error {
	var count int
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM categories WHERE user_id IS NULL`).Scan(&count)
	if err != nil {
		return fmt.Errorf("count default categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	slog.Info("seeding default categories", "count", len(defaultCategories))
	for i, name := range defaultCategories {
		_, err := db.Pool.Exec(ctx,
			`INSERT INTO categories (id, user_id, name) VALUES ($1, NULL, $2)`,
			fmt.Sprintf("default-%02d", i+1), name)
		if err != nil {
			return fmt.Errorf("insert default category %q: %w", name, err)
		}
	}

	return nil
}

func (db *DB) hasAllRequiredTables(ctx context.Context) (bool, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = ANY($1)
	`, requiredTables).Scan(&count)
	if err != nil {
		return false, err
	}

	return count == len(requiredTables), nil
}
