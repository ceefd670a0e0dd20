package database

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// DB wraps the connection pool
type DB struct {
	Pool *pgxpool.Pool
	log  logrus.FieldLogger
}

// Connect creates a new database connection pool
func Connect(databaseURL string, log logrus.FieldLogger) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}

	// Configure pool
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	log.Info("Database connected successfully")
	return &DB{Pool: pool, log: log}, nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	db.Pool.Close()
}

// RunMigrations applies pending migrations in version order
func RunMigrations(ctx context.Context, db *DB) error {
	_, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, version := range migrationVersions() {
		var exists bool
		err := db.Pool.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)",
			version,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check migration %d: %w", version, err)
		}
		if exists {
			continue
		}

		db.log.WithField("version", version).Info("Applying migration")
		if _, err := db.Pool.Exec(ctx, migrations[version]); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", version, err)
		}

		if _, err := db.Pool.Exec(ctx,
			"INSERT INTO schema_migrations (version) VALUES ($1)",
			version,
		); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", version, err)
		}
	}

	return nil
}

func migrationVersions() []int {
	versions := make([]int, 0, len(migrations))
	for v := range migrations {
		versions = append(versions, v)
	}
	sort.Ints(versions)
	return versions
}

// migrations maps migration version to SQL
var migrations = map[int]string{
	1: migration001,
	2: migration002,
	3: migration003,
}

const migration001 = `
-- Recipes. owner_id '' is the shared feed, anything else a personal store.
CREATE TABLE IF NOT EXISTS recipes (
    id TEXT NOT NULL,
    owner_id TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    cover TEXT NOT NULL DEFAULT '',
    categories TEXT[] NOT NULL DEFAULT ARRAY[]::TEXT[],
    favorite BOOLEAN NOT NULL DEFAULT FALSE,
    done BOOLEAN NOT NULL DEFAULT FALSE,
    ingredients TEXT[] NOT NULL DEFAULT ARRAY[]::TEXT[],
    steps TEXT[] NOT NULL DEFAULT ARRAY[]::TEXT[],
    parts JSONB NOT NULL DEFAULT '[]'::JSONB,
    created_at BIGINT NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
    PRIMARY KEY (owner_id, id)
);

CREATE INDEX IF NOT EXISTS idx_recipes_owner_created ON recipes(owner_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_recipes_categories ON recipes USING GIN (categories);
`

const migration002 = `
-- Orders relayed to the admin
CREATE TABLE IF NOT EXISTS orders (
    id SERIAL PRIMARY KEY,
    owner_id TEXT NOT NULL DEFAULT '',
    recipe_ids TEXT[] NOT NULL DEFAULT ARRAY[]::TEXT[],
    items TEXT[] NOT NULL DEFAULT ARRAY[]::TEXT[],
    comment TEXT NOT NULL DEFAULT '',
    contact TEXT NOT NULL DEFAULT '',
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    error TEXT,
    notified_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status, created_at DESC);
`

const migration003 = `
-- App-wide settings
CREATE TABLE IF NOT EXISTS system_settings (
    key VARCHAR(100) PRIMARY KEY,
    value TEXT NOT NULL DEFAULT '',
    value_type VARCHAR(20) NOT NULL DEFAULT 'string',
    category VARCHAR(50) NOT NULL DEFAULT 'general',
    description TEXT NOT NULL DEFAULT '',
    is_sensitive BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);

INSERT INTO system_settings (key, value, value_type, category, description, is_sensitive) VALUES
    ('orders_enabled', 'false', 'bool', 'orders', 'Accept orders and relay them to the admin', FALSE),
    ('telegram_bot_token', '', 'encrypted', 'telegram', 'Bot token used to send order notifications', TRUE),
    ('telegram_chat_id', '', 'string', 'telegram', 'Chat that receives order notifications', FALSE)
ON CONFLICT (key) DO NOTHING;
`
