package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"                               // Postgres driver
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	_ "modernc.org/sqlite"                               // Local SQLite driver
)

type dialect string

const (
	dialectSQLite   dialect = "sqlite"
	dialectPostgres dialect = "postgres"
)

// DB is the shared handle behind the link and user repositories.
type DB struct {
	db      *sql.DB
	dsn     string
	driver  string
	dialect dialect
}

// Open picks a driver from the URL, verifies the connection and applies
// pending migrations.
func Open(dbURL string) (*DB, error) {
	d, err := Connect(dbURL)
	if err != nil {
		return nil, err
	}
	if err := d.MigrateUp(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

// Connect opens the database without touching the schema.
func Connect(dbURL string) (*DB, error) {
	driverName, dia := driverFor(dbURL)

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, fmt.Errorf("sqldb: open %s: %w", driverName, err)
	}

	if dia == dialectSQLite {
		// SQLite allows one writer; a single pooled connection serializes
		// writers and keeps in-memory databases alive between calls.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqldb: ping: %w", err)
	}

	if driverName == "sqlite" {
		_, _ = db.Exec("PRAGMA busy_timeout = 5000;")
		_, _ = db.Exec("PRAGMA foreign_keys = ON;")
	}

	return &DB{db: db, dsn: dbURL, driver: driverName, dialect: dia}, nil
}

func driverFor(dbURL string) (string, dialect) {
	switch {
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		return "postgres", dialectPostgres
	case strings.Contains(dbURL, "libsql://"), strings.Contains(dbURL, "wss://"):
		return "libsql", dialectSQLite
	default:
		return "sqlite", dialectSQLite
	}
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Driver returns the database/sql driver name in use.
func (d *DB) Driver() string {
	return d.driver
}

// rebind rewrites '?' placeholders to $N for Postgres.
func (d *DB) rebind(query string) string {
	if d.dialect != dialectPostgres {
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

func (d *DB) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.db.ExecContext(ctx, d.rebind(query), args...)
}

func (d *DB) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.db.QueryContext(ctx, d.rebind(query), args...)
}

func (d *DB) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return d.db.QueryRowContext(ctx, d.rebind(query), args...)
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func now() time.Time {
	return time.Now().UTC()
}
