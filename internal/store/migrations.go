package store

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/cassandra"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/cassandra/*.cql
var migrationFS embed.FS

// --- Migration runners ---

// MigratePostgres applies the embedded PostgreSQL migrations to dsn.
func MigratePostgres(dsn string) error {
	return runMigrations("migrations/postgres", pgxMigrateURL(dsn))
}

// MigrateCassandra applies the embedded CQL migrations to keyspace on host.
// The keyspace must already exist.
func MigrateCassandra(host, keyspace string) error {
	dbURL := fmt.Sprintf(
		"cassandra://%s/%s?x-migrations-table=schema_migrations&x-multi-statement=true",
		host, keyspace,
	)
	return runMigrations("migrations/cassandra", dbURL)
}

func runMigrations(dir, dbURL string) error {
	src, err := iofs.New(migrationFS, dir)
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations %s: %w", dir, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logg.Info("No new migrations to apply in " + dir)
	} else {
		logg.Info("Migrations applied successfully from " + dir)
	}
	return nil
}

// pgxMigrateURL rewrites a postgres:// DSN to the scheme registered by the
// migrate pgx/v5 driver.
func pgxMigrateURL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}
