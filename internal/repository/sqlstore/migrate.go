package sqlstore

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrationsFS embed.FS

// migrate applies the pending migrations of the active engine. The goose
// Provider is built per call and owned by this handle; no package-level goose
// state is touched, so tests opening many databases do not interfere.
func (db *DB) migrate(ctx context.Context) error {
	fsys, err := fs.Sub(migrationsFS, "migrations/"+db.dialect.Name())
	if err != nil {
		return fmt.Errorf("locating %s migrations: %w", db.dialect.Name(), err)
	}

	provider, err := goose.NewProvider(db.dialect.Goose(), db.conn.DB, fsys)
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("running %s migrations: %w", db.dialect.Name(), err)
	}

	for _, r := range results {
		db.logger.Info("migration applied",
			slog.String("backend", db.backend.String()),
			slog.String("file", r.Source.Path),
			slog.Duration("duration", r.Duration),
		)
	}
	return nil
}
