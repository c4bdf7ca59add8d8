package database

import (
	"database/sql"
	"regexp"
	"strconv"
	"time"
)

// Dialect hides the differences between the supported SQL engines
type Dialect interface {
	// Name is the canonical DATABASE_TYPE value
	Name() string

	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(config DialectConfig) string

	// RewriteQuery converts ? placeholders where the driver needs another syntax
	RewriteQuery(query string) string

	// SupportsLastInsertId reports whether sql.Result.LastInsertId works
	SupportsLastInsertId() bool

	// ConfigureConnection applies pool limits and engine settings
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir names the embedded migrations directory for this engine
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the SQL for the migrations tracking table
	CreateMigrationsTableQuery() string
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// For SQLite
	Path string

	// For PostgreSQL/MySQL
	URL string
}

func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)
}

var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	n := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(string) string {
		n++
		return "$" + strconv.Itoa(n)
	})
}
