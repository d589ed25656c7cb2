package database

import (
	"database/sql"

	_ "github.com/lib/pq"
)

// PostgresDialect targets a hosted PostgreSQL given by DATABASE_URL
type PostgresDialect struct{}

// NewPostgresDialect returns the PostgreSQL dialect
func NewPostgresDialect() *PostgresDialect {
	return &PostgresDialect{}
}

func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

// DSN is DATABASE_URL unchanged
func (d *PostgresDialect) DSN(config DialectConfig) string {
	return config.URL
}

func (d *PostgresDialect) RewriteQuery(query string) string {
	return numberPlaceholders(query)
}

// SupportsLastInsertId is false; ExecReturningID appends RETURNING id
func (d *PostgresDialect) SupportsLastInsertId() bool {
	return false
}

// ConfigureConnection only sizes the pool. Foreign keys are always enforced.
func (d *PostgresDialect) ConfigureConnection(db *sql.DB) error {
	configurePool(db)
	return nil
}

func (d *PostgresDialect) MigrationsSubdir() string {
	return "postgres"
}

func (d *PostgresDialect) CreateMigrationsTableQuery() string {
	return `CREATE TABLE IF NOT EXISTS migrations (
		id BIGSERIAL PRIMARY KEY,
		filename TEXT UNIQUE NOT NULL,
		executed_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`
}
