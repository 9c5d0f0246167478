package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// migration is one versioned schema step, applied inside a transaction.
type migration struct {
	Version     string
	Description string
	Statements  []string
}

var migrations = []migration{
	{
		Version:     "001",
		Description: "create blobs table",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS blobs (
				key TEXT PRIMARY KEY,
				value BLOB NOT NULL,
				updated_at TEXT NOT NULL
			)`,
		},
	},
}

// Migrate applies every pending migration in version order.
func (s *Store) Migrate(ctx context.Context) error {
	createTable := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TEXT NOT NULL
		)`
	if _, err := s.pool.DB().ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("failed to initialize schema_migrations: %w", err)
	}

	for _, m := range migrations {
		applied, err := s.isApplied(ctx, m.Version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		err = s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			for i, stmt := range m.Statements {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("migration %s: statement %d: %w", m.Version, i+1, err)
				}
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)`,
				m.Version, m.Description, s.now().UTC().Format(time.RFC3339),
			)
			if err != nil {
				return fmt.Errorf("migration %s: record version: %w", m.Version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// SchemaVersion returns the latest applied migration version, or "" when
// none has been applied.
func (s *Store) SchemaVersion(ctx context.Context) (string, error) {
	var version sql.NullString
	err := s.pool.DB().QueryRowContext(ctx, `SELECT MAX(version) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return "", s.mapper.MapError(err)
	}
	return version.String, nil
}

func (s *Store) isApplied(ctx context.Context, version string) (bool, error) {
	var exists int
	err := s.pool.DB().QueryRowContext(ctx,
		`SELECT 1 FROM schema_migrations WHERE version = ? LIMIT 1`, version,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check migration %s: %w", version, err)
	}
	return true, nil
}
