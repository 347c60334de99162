package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Postgres driver registered as "pgx"
	_ "modernc.org/sqlite"             // Pure Go SQLite driver
)

// Supported values for the driver argument of Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DB wraps the SQL connection used by every repository method.
type DB struct {
	conn   *sql.DB
	driver string
}

// Open opens a connection to the database. For sqlite the dsn is a file path
// (or ":memory:"); for postgres it is a connection URL.
func Open(driver, dsn string) (*DB, error) {
	var (
		conn *sql.DB
		err  error
	)

	switch driver {
	case DriverSQLite:
		conn, err = sql.Open("sqlite", sqliteDSN(dsn))
	case DriverPostgres:
		conn, err = sql.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite works best with a single writer
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
	} else {
		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(5)
	}
	conn.SetConnMaxLifetime(time.Hour)

	// Test the connection
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if driver == DriverSQLite {
		// Cascading deletes depend on this (redundant with DSN but ensures it's set)
		if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return &DB{conn: conn, driver: driver}, nil
}

// New wraps an existing connection. The driver selects the SQL dialect.
func New(conn *sql.DB, driver string) *DB {
	return &DB{conn: conn, driver: driver}
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Init initializes the database schema by creating all tables and indexes.
func (db *DB) Init(ctx context.Context) error {
	statements := sqliteSchema
	if db.driver == DriverPostgres {
		statements = postgresSchema
	}
	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Conn returns the underlying *sql.DB connection for direct use.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Driver reports which dialect the connection speaks.
func (db *DB) Driver() string {
	return db.driver
}

// Health checks if the database connection is healthy.
func (db *DB) Health(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// rebind rewrites ? placeholders to $1..$n for postgres.
func (db *DB) rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (db *DB) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.conn.ExecContext(ctx, db.rebind(query), args...)
}

func (db *DB) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.conn.QueryContext(ctx, db.rebind(query), args...)
}

func (db *DB) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return db.conn.QueryRowContext(ctx, db.rebind(query), args...)
}

// insert runs an INSERT ... RETURNING id statement and returns the new id.
func (db *DB) insert(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	if err := db.queryRow(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// affected runs a statement and returns the number of rows it touched.
func (db *DB) affected(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := db.exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
