package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Repository persists dispatch records to SQLite.
type Repository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRepository creates a new audit repository
func NewRepository(db *sql.DB, logger *zap.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Record persists one dispatch outcome. A zero CreatedAt is stamped with the
// current time.
func (r *Repository) Record(ctx context.Context, rec *Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO dispatch_records (
			kind, discriminant, identifier, status, amount, fee,
			currency, recipient, error_message, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		rec.Kind,
		rec.Discriminant,
		rec.Identifier,
		rec.Status,
		rec.Amount,
		rec.Fee,
		rec.Currency,
		rec.Recipient,
		rec.ErrorMessage,
		rec.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to insert dispatch record", zap.Error(err))
		return fmt.Errorf("failed to insert dispatch record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	rec.ID = id
	return nil
}

// ListRecent returns the newest records, optionally filtered by kind.
func (r *Repository) ListRecent(ctx context.Context, kind string, limit int) ([]*Record, error) {
	query := `
		SELECT id, kind, discriminant, identifier, status, amount, fee,
			currency, recipient, error_message, created_at
		FROM dispatch_records
	`
	args := []interface{}{}
	if kind != "" {
		query += " WHERE kind = ?"
		args = append(args, kind)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list dispatch records", zap.String("kind", kind), zap.Error(err))
		return nil, fmt.Errorf("failed to list dispatch records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec := &Record{}
		if err := rows.Scan(
			&rec.ID,
			&rec.Kind,
			&rec.Discriminant,
			&rec.Identifier,
			&rec.Status,
			&rec.Amount,
			&rec.Fee,
			&rec.Currency,
			&rec.Recipient,
			&rec.ErrorMessage,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan dispatch record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// CountByStatus aggregates record counts per kind and status for reporting.
func (r *Repository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	query := `
		SELECT kind, status, COUNT(*)
		FROM dispatch_records
		GROUP BY kind, status
		ORDER BY kind, status
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to count dispatch records", zap.Error(err))
		return nil, fmt.Errorf("failed to count dispatch records: %w", err)
	}
	defer rows.Close()

	var counts []StatusCount
	for rows.Next() {
		var c StatusCount
		if err := rows.Scan(&c.Kind, &c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}
