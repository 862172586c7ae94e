package queue

import (
	"database/sql"
	"errors"
	"time"
)

const itemColumns = "id, scan_id, source_path, name, extension, size_bytes, modified_at, status, category, confidence, probabilities_json, needs_review, review_reason, outcome, final_path, attempts, error_message, created_at, updated_at"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id            int64
		scanID        sql.NullString
		sourcePath    string
		name          sql.NullString
		extension     sql.NullString
		sizeBytes     sql.NullInt64
		modifiedRaw   sql.NullString
		statusStr     string
		category      sql.NullString
		confidence    sql.NullFloat64
		probabilities sql.NullString
		needsReview   sql.NullInt64
		reviewReason  sql.NullString
		outcome       sql.NullString
		finalPath     sql.NullString
		attempts      sql.NullInt64
		errorMessage  sql.NullString
		createdRaw    sql.NullString
		updatedRaw    sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&scanID,
		&sourcePath,
		&name,
		&extension,
		&sizeBytes,
		&modifiedRaw,
		&statusStr,
		&category,
		&confidence,
		&probabilities,
		&needsReview,
		&reviewReason,
		&outcome,
		&finalPath,
		&attempts,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:                id,
		ScanID:            scanID.String,
		SourcePath:        sourcePath,
		Name:              name.String,
		Extension:         extension.String,
		SizeBytes:         sizeBytes.Int64,
		Status:            Status(statusStr),
		Category:          category.String,
		Confidence:        confidence.Float64,
		ProbabilitiesJSON: probabilities.String,
		ReviewReason:      reviewReason.String,
		Outcome:           Outcome(outcome.String),
		FinalPath:         finalPath.String,
		Attempts:          int(attempts.Int64),
		ErrorMessage:      errorMessage.String,
	}
	if needsReview.Valid {
		item.NeedsReview = needsReview.Int64 != 0
	}

	if modified, err := parseTimeString(modifiedRaw.String); err == nil {
		item.ModifiedAt = modified
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	return item, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
