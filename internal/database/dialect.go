package database

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// Dialect hides the differences between the three supported engines.
// Repositories always write `?` placeholders and let the dialect rewrite them.
type Dialect interface {
	// DriverName is the database/sql driver registered by the dialect's import
	DriverName() string

	// DSN builds the connection string, adding the options babywords relies
	// on (foreign keys for SQLite, parseTime for MySQL)
	DSN(config DialectConfig) string

	// RewriteQuery turns `?` placeholders into the engine's own syntax
	RewriteQuery(query string) string

	// SupportsLastInsertId is false when inserts need a RETURNING id clause
	SupportsLastInsertId() bool

	// ConfigureConnection sizes the pool and enforces foreign keys so that
	// deleting a baby cascades to its words
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir names the embedded migrations directory
	MigrationsSubdir() string

	// CreateMigrationsTableQuery creates the applied-migrations ledger
	CreateMigrationsTableQuery() string
}

// DialectConfig locates the database: a file path for SQLite, a URL for the
// server engines
type DialectConfig struct {
	Path string
	URL  string
}

// Pool limits shared by every engine
const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
	connMaxIdleTime = time.Minute
)

func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)
}

// numberPlaceholders rewrites `?` to $1, $2, ... leaving `?` inside single
// quoted literals alone
func numberPlaceholders(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	quoted := false
	for _, r := range query {
		switch {
		case r == '\'':
			quoted = !quoted
			b.WriteRune(r)
		case r == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
