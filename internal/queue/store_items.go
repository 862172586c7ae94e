package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"downfileorg/internal/classify"
)

// Enqueue inserts a pending item for an observed file. Enqueueing is
// idempotent per live source path: when a non-terminal item already exists
// for the same path, that item is returned and no duplicate is created.
func (s *Store) Enqueue(ctx context.Context, record classify.FileRecord, scanID string) (*Item, bool, error) {
	existing, err := s.findActiveBySource(ctx, record.Path)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO queue_items (
            scan_id, source_path, name, extension, size_bytes, modified_at,
            status, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullableString(scanID),
		record.Path,
		record.Name,
		nullableString(record.Extension),
		record.SizeBytes,
		record.ModifiedAt.UTC().Format(time.RFC3339Nano),
		StatusPending,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, false, fmt.Errorf("last insert id: %w", err)
	}

	item, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return item, true, nil
}

func (s *Store) findActiveBySource(ctx context.Context, sourcePath string) (*Item, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+itemColumns+` FROM queue_items
         WHERE source_path = ? AND status NOT IN (?, ?)
         ORDER BY id LIMIT 1`,
		sourcePath, StatusCompleted, StatusFailed,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active by source: %w", err)
	}
	return item, nil
}

// GetByID fetches a queue item by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM queue_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// Update persists changes to an existing queue item.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	item.UpdatedAt = time.Now().UTC()

	_, err := s.execWithRetry(
		ctx,
		`UPDATE queue_items SET
            scan_id = ?, source_path = ?, name = ?, extension = ?,
            size_bytes = ?, modified_at = ?, status = ?, category = ?,
            confidence = ?, probabilities_json = ?, needs_review = ?,
            review_reason = ?, outcome = ?, final_path = ?, attempts = ?,
            error_message = ?, updated_at = ?
         WHERE id = ?`,
		nullableString(item.ScanID),
		item.SourcePath,
		item.Name,
		nullableString(item.Extension),
		item.SizeBytes,
		item.ModifiedAt.UTC().Format(time.RFC3339Nano),
		item.Status,
		nullableString(item.Category),
		item.Confidence,
		nullableString(item.ProbabilitiesJSON),
		boolToInt(item.NeedsReview),
		nullableString(item.ReviewReason),
		nullableString(string(item.Outcome)),
		nullableString(item.FinalPath),
		item.Attempts,
		nullableString(item.ErrorMessage),
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item %d: %w", item.ID, err)
	}
	return nil
}

// NextForStatuses returns the oldest item whose status matches any of the
// provided statuses, or nil when none are ready.
func (s *Store) NextForStatuses(ctx context.Context, statuses ...Status) (*Item, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	args := make([]any, len(statuses))
	for i, status := range statuses {
		args[i] = status
	}
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+itemColumns+` FROM queue_items
         WHERE status IN (`+makePlaceholders(len(statuses))+`)
         ORDER BY id LIMIT 1`,
		args...,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("next for statuses: %w", err)
	}
	return item, nil
}

// List returns queue items, optionally filtered by status.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Item, error) {
	query := `SELECT ` + itemColumns + ` FROM queue_items`
	var args []any
	if len(statuses) > 0 {
		query += ` WHERE status IN (` + makePlaceholders(len(statuses)) + `)`
		for _, status := range statuses {
			args = append(args, status)
		}
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListByScan returns all items recorded under one organize pass.
func (s *Store) ListByScan(ctx context.Context, scanID string) ([]*Item, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+itemColumns+` FROM queue_items WHERE scan_id = ? ORDER BY id`,
		scanID,
	)
	if err != nil {
		return nil, fmt.Errorf("list by scan: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
