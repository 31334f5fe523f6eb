package sqldb

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	mpostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	msqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// MigrateUp applies every pending migration.
func (d *DB) MigrateUp() error {
	return d.withMigrator(func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	})
}

// MigrateDown rolls back the given number of migrations.
func (d *DB) MigrateDown(steps int) error {
	if steps < 1 {
		return fmt.Errorf("sqldb: steps must be positive, got %d", steps)
	}
	return d.withMigrator(func(m *migrate.Migrate) error {
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	})
}

// MigrationVersion reports the current schema version.
func (d *DB) MigrationVersion() (version uint, dirty bool, err error) {
	err = d.withMigrator(func(m *migrate.Migrate) error {
		version, dirty, err = m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return nil
		}
		return err
	})
	return version, dirty, err
}

func (d *DB) withMigrator(fn func(m *migrate.Migrate) error) error {
	src, err := iofs.New(migrationsFS, "migrations/"+string(d.dialect))
	if err != nil {
		return fmt.Errorf("sqldb: migration source: %w", err)
	}

	switch d.dialect {
	case dialectPostgres:
		// The postgres migrate driver closes its *sql.DB on Close, so it gets
		// a dedicated pool instead of the shared one.
		conn, err := sql.Open(d.driver, d.dsn)
		if err != nil {
			return fmt.Errorf("sqldb: migration connection: %w", err)
		}
		drv, err := mpostgres.WithInstance(conn, &mpostgres.Config{})
		if err != nil {
			_ = conn.Close()
			return fmt.Errorf("sqldb: migration driver: %w", err)
		}
		m, err := migrate.NewWithInstance("iofs", src, "postgres", drv)
		if err != nil {
			_ = drv.Close()
			return fmt.Errorf("sqldb: migrate: %w", err)
		}
		defer m.Close()
		return fn(m)

	default:
		// Shares the single SQLite connection; closing the migrator would close it.
		drv, err := msqlite.WithInstance(d.db, &msqlite.Config{})
		if err != nil {
			return fmt.Errorf("sqldb: migration driver: %w", err)
		}
		m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
		if err != nil {
			return fmt.Errorf("sqldb: migrate: %w", err)
		}
		defer src.Close()
		return fn(m)
	}
}
