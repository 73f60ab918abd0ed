package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/focalhq/focal/internal/types"
	"github.com/oklog/ulid/v2"
)

const entryColumns = `id, owner_id, task_id, title, started_at, ended_at, duration_min,
	status, focus_score, interruptions, notes, tags, created_at, updated_at`

// entrySortColumns whitelists the sortable fields for entry listings.
var entrySortColumns = map[string]string{
	"startTimestamp":    "started_at",
	"endTimestamp":      "ended_at",
	"durationInMinutes": "duration_min",
	"focusScore":        "focus_score",
	"createdAt":         "created_at",
}

// CreateEntry persists a new time entry, assigning its ID and audit fields.
// Returns ErrActiveEntryExists if the owner already has an active entry.
func (s *SQLiteStore) CreateEntry(ctx context.Context, e *types.TimeEntry) error {
	now := time.Now().UTC()
	e.ID = ulid.Make().String()
	e.CreatedAt = now
	e.UpdatedAt = now

	interruptionsJSON, tagsJSON, err := marshalEntryBlobs(e)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO time_entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.ID, e.OwnerID, e.TaskID, e.Title,
		formatTime(e.StartedAt), formatTimePtr(e.EndedAt), e.DurationMin,
		string(e.Status), nullableInt(e.FocusScore), interruptionsJSON, e.Notes, tagsJSON,
		formatTime(e.CreatedAt), formatTime(e.UpdatedAt),
	)
	if isUniqueActiveViolation(err) {
		return ErrActiveEntryExists
	}
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	return nil
}

// GetEntry retrieves an entry by id, scoped to its owner. An entry owned by
// another caller is indistinguishable from a missing one.
func (s *SQLiteStore) GetEntry(ctx context.Context, ownerID, id string) (*types.TimeEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM time_entries
		WHERE id = ? AND owner_id = ?
	`, id, ownerID)

	entry, err := scanEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan entry: %w", err)
	}

	return entry, nil
}

// UpdateEntry persists the mutable fields of an existing entry.
func (s *SQLiteStore) UpdateEntry(ctx context.Context, e *types.TimeEntry) error {
	e.UpdatedAt = time.Now().UTC()

	interruptionsJSON, tagsJSON, err := marshalEntryBlobs(e)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE time_entries
		SET title = ?, started_at = ?, ended_at = ?, duration_min = ?, status = ?,
		    focus_score = ?, interruptions = ?, notes = ?, tags = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?
	`,
		e.Title, formatTime(e.StartedAt), formatTimePtr(e.EndedAt), e.DurationMin, string(e.Status),
		nullableInt(e.FocusScore), interruptionsJSON, e.Notes, tagsJSON, formatTime(e.UpdatedAt),
		e.ID, e.OwnerID,
	)
	if isUniqueActiveViolation(err) {
		return ErrActiveEntryExists
	}
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteEntry hard-deletes an entry. Task aggregates are not retroactively
// recomputed.
func (s *SQLiteStore) DeleteEntry(ctx context.Context, ownerID, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM time_entries WHERE id = ? AND owner_id = ?
	`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ListEntries returns a filtered, sorted page of the owner's entries plus the
// total match count for pagination metadata.
func (s *SQLiteStore) ListEntries(ctx context.Context, ownerID string, q types.EntryQuery) ([]types.TimeEntry, int, error) {
	where := "owner_id = ?"
	args := []any{ownerID}

	if q.StartDate != nil {
		where += " AND started_at >= ?"
		args = append(args, formatTime(*q.StartDate))
	}
	if q.EndDate != nil {
		where += " AND started_at < ?"
		args = append(args, formatTime(*q.EndDate))
	}
	if q.TaskID != "" {
		where += " AND task_id = ?"
		args = append(args, q.TaskID)
	}
	if q.MinFocusScore != nil {
		where += " AND focus_score >= ?"
		args = append(args, *q.MinFocusScore)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM time_entries WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	// Sort column comes from a whitelist, never from the raw query string.
	sortCol, ok := entrySortColumns[q.SortBy]
	if !ok {
		sortCol = "started_at"
	}
	sortDir := "DESC"
	if q.SortOrder == "asc" {
		sortDir = "ASC"
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(`
		SELECT %s FROM time_entries
		WHERE %s
		ORDER BY %s %s
		LIMIT ? OFFSET ?
	`, entryColumns, where, sortCol, sortDir)
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries, err := collectEntries(rows)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// ListEntriesBetween returns all of an owner's entries whose start timestamp
// falls in [start, end). Used by the dashboard aggregation pipeline.
func (s *SQLiteStore) ListEntriesBetween(ctx context.Context, ownerID string, start, end time.Time) ([]types.TimeEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM time_entries
		WHERE owner_id = ? AND started_at >= ? AND started_at < ?
		ORDER BY started_at ASC
	`, ownerID, formatTime(start), formatTime(end))
	if err != nil {
		return nil, fmt.Errorf("query entries between: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

func collectEntries(rows *sql.Rows) ([]types.TimeEntry, error) {
	var entries []types.TimeEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// scanEntry scans a row into a TimeEntry, handling JSON blobs and timestamps.
func scanEntry(scanner interface{ Scan(...any) error }) (*types.TimeEntry, error) {
	var e types.TimeEntry
	var startedAt, createdAt, updatedAt string
	var endedAt sql.NullString
	var focusScore sql.NullInt64
	var interruptionsJSON, tagsJSON string
	var status string

	err := scanner.Scan(
		&e.ID, &e.OwnerID, &e.TaskID, &e.Title,
		&startedAt, &endedAt, &e.DurationMin,
		&status, &focusScore, &interruptionsJSON, &e.Notes, &tagsJSON,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Status = types.EntryStatus(status)

	var tp timeParser
	e.StartedAt = tp.parse(startedAt)
	e.EndedAt = tp.parsePtr(endedAt)
	e.CreatedAt = tp.parse(createdAt)
	e.UpdatedAt = tp.parse(updatedAt)
	if tp.err != nil {
		return nil, tp.err
	}

	if focusScore.Valid {
		score := int(focusScore.Int64)
		e.FocusScore = &score
	}

	if interruptionsJSON != "" {
		if err := json.Unmarshal([]byte(interruptionsJSON), &e.Interruptions); err != nil {
			return nil, fmt.Errorf("parse interruptions JSON: %w", err)
		}
	}
	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &e.Tags); err != nil {
			return nil, fmt.Errorf("parse tags JSON: %w", err)
		}
	}

	return &e, nil
}

func marshalEntryBlobs(e *types.TimeEntry) (interruptions, tags string, err error) {
	ins := e.Interruptions
	if ins == nil {
		ins = []types.Interruption{}
	}
	insBytes, err := json.Marshal(ins)
	if err != nil {
		return "", "", fmt.Errorf("marshal interruptions: %w", err)
	}

	tg := e.Tags
	if tg == nil {
		tg = []string{}
	}
	tagBytes, err := json.Marshal(tg)
	if err != nil {
		return "", "", fmt.Errorf("marshal tags: %w", err)
	}

	return string(insBytes), string(tagBytes), nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
