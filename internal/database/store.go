package database

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store records which webhook update IDs have already been handled, so that
// platform redeliveries don't repeat side effects.
type Store interface {
	// MarkProcessed records the update ID and reports whether it was newly
	// recorded. A false result means the update was already handled.
	MarkProcessed(ctx context.Context, updateID int64) (bool, error)

	// PurgeProcessedBefore deletes dedup rows older than cutoff and returns
	// the number of rows removed.
	PurgeProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// RunMaintenance compacts the database file.
	RunMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) MarkProcessed(ctx context.Context, updateID int64) (bool, error) {
	query := `INSERT OR IGNORE INTO processed_updates (update_id, processed_at) VALUES (?, ?)`

	result, err := s.db.ExecContext(ctx, query, updateID, time.Now().UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error recording processed update", "update_id", updateID, "error", err)
		return false, fmt.Errorf("failed to record processed update %d: %w", updateID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows for update %d: %w", updateID, err)
	}

	fresh := affected == 1
	if !fresh {
		s.logger.InfoContext(ctx, "Duplicate webhook delivery detected", "update_id", updateID)
	}
	return fresh, nil
}

func (s *sqlxStore) PurgeProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM processed_updates WHERE processed_at < ?`

	result, err := s.db.ExecContext(ctx, query, cutoff.UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error purging processed updates", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to purge processed updates: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read purge row count: %w", err)
	}

	s.logger.DebugContext(ctx, "Purged processed updates", "count", count, "cutoff", cutoff)
	return count, nil
}

func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")
	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		s.logger.ErrorContext(ctx, "Database maintenance failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed")
	return nil
}
