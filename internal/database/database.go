// Package database opens the PostgreSQL pool and applies the schema.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// InitDB connects to dsn, checks the connection and migrates the schema.
func InitDB(ctx context.Context, dsn string, log *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("database connected and migrated")
	return db, nil
}

// Migrate creates any missing tables. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id             UUID PRIMARY KEY,
	email          TEXT NOT NULL UNIQUE,
	password_hash  TEXT NOT NULL,
	first_name     TEXT,
	last_name      TEXT,
	role           TEXT NOT NULL DEFAULT 'customer',
	phone          TEXT,
	city           TEXT,
	address        TEXT,
	points_balance BIGINT NOT NULL DEFAULT 0 CHECK (points_balance >= 0),
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS orders (
	id                    UUID PRIMARY KEY,
	customer_id           UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
	status                TEXT NOT NULL DEFAULT 'draft',
	screenshots           TEXT[] NOT NULL DEFAULT '{}',
	wants_points_discount BOOLEAN NOT NULL DEFAULT FALSE,
	points_spent          BIGINT NOT NULL DEFAULT 0 CHECK (points_spent >= 0),
	discount_amount       NUMERIC(14,0) NOT NULL DEFAULT 0 CHECK (discount_amount >= 0),
	points_to_earn        BIGINT NOT NULL DEFAULT 0 CHECK (points_to_earn >= 0),
	points_credited       BOOLEAN NOT NULL DEFAULT FALSE,
	total_payable         NUMERIC(14,0) NOT NULL DEFAULT 0 CHECK (total_payable >= 0),
	actual_cost_usd       NUMERIC(10,2) CHECK (actual_cost_usd >= 0),
	cancel_reason         TEXT,
	tracking_note         TEXT,
	confirmed_at          TIMESTAMPTZ,
	created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS orders_customer_created_idx ON orders (customer_id, created_at DESC);
CREATE INDEX IF NOT EXISTS orders_status_idx ON orders (status);

CREATE TABLE IF NOT EXISTS order_items (
	id             UUID PRIMARY KEY,
	order_id       UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	position       INT NOT NULL,
	external_ref   TEXT NOT NULL,
	unit_price_usd NUMERIC(10,2) NOT NULL CHECK (unit_price_usd > 0),
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS order_items_order_idx ON order_items (order_id, position);

CREATE TABLE IF NOT EXISTS ledger_entries (
	id            UUID PRIMARY KEY,
	profile_id    UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
	order_id      UUID REFERENCES orders(id) ON DELETE SET NULL,
	kind          TEXT NOT NULL,
	delta         BIGINT NOT NULL,
	balance_after BIGINT NOT NULL CHECK (balance_after >= 0),
	reason        TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS ledger_entries_profile_idx ON ledger_entries (profile_id, created_at DESC);

CREATE TABLE IF NOT EXISTS catalog_products (
	id            UUID PRIMARY KEY,
	title         TEXT NOT NULL,
	image_ref     TEXT,
	price_usd     NUMERIC(10,2) NOT NULL CHECK (price_usd > 0),
	external_link TEXT NOT NULL,
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
