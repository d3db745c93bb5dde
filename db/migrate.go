package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded schema files in lexical order. Every
// statement is idempotent (CREATE TABLE IF NOT EXISTS), so reruns are safe.
func Migrate(ctx context.Context, conn *sql.DB) error {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		statement, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return err
		}

		if _, err = conn.ExecContext(ctx, string(statement)); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
		logrus.WithField("migration", name).Info("Applied migration")
	}

	return nil
}
