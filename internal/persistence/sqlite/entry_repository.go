package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/hr-timesheet/internal/persistence"
)

// EntryRepository implements persistence.EntryRepository over SQLite.
type EntryRepository struct {
	pool *Pool
}

// NewEntryRepository creates a SQLite-backed time entry repository.
func NewEntryRepository(pool *Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

const entryColumns = `id, employee_id, entry_date, start_time, end_time, break_minutes, total_hours, task, project, status, created_at, updated_at`

// CreateEntry inserts a new time entry. The UNIQUE(employee_id, entry_date)
// constraint makes the insert atomic: a concurrent create for the same day
// fails here with persistence.ErrDuplicate instead of racing a pre-check.
func (r *EntryRepository) CreateEntry(ctx context.Context, entry persistence.TimeEntry) error {
	if entry.ID == "" || entry.EmployeeID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO time_entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.EmployeeID,
		entry.EntryDate.UTC().Format("2006-01-02"),
		entry.StartTime,
		entry.EndTime,
		entry.BreakMinutes,
		entry.TotalHours,
		entry.Task,
		entry.Project,
		entry.Status,
		entry.CreatedAt.UTC().Format(time.RFC3339),
		entry.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// UpdateEntry rewrites the mutable fields of an entry. The owning employee
// and creation timestamp never change.
func (r *EntryRepository) UpdateEntry(ctx context.Context, entry persistence.TimeEntry) error {
	if entry.ID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE time_entries
		SET entry_date = ?, start_time = ?, end_time = ?, break_minutes = ?,
		    total_hours = ?, task = ?, project = ?, status = ?, updated_at = ?
		WHERE id = ?
	`,
		entry.EntryDate.UTC().Format("2006-01-02"),
		entry.StartTime,
		entry.EndTime,
		entry.BreakMinutes,
		entry.TotalHours,
		entry.Task,
		entry.Project,
		entry.Status,
		entry.UpdatedAt.UTC().Format(time.RFC3339),
		entry.ID,
	)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// GetEntry retrieves a single entry by ID.
func (r *EntryRepository) GetEntry(ctx context.Context, id string) (persistence.TimeEntry, error) {
	if id == "" {
		return persistence.TimeEntry{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM time_entries WHERE id = ?`, id)
	return scanEntry(row)
}

// ListEntries returns entries matching the filter ordered by date.
func (r *EntryRepository) ListEntries(ctx context.Context, filter persistence.EntryFilter) ([]persistence.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE 1=1`
	args := make([]any, 0, 3)

	if filter.EmployeeID != "" {
		query += ` AND employee_id = ?`
		args = append(args, filter.EmployeeID)
	}
	if filter.From != nil {
		query += ` AND entry_date >= ?`
		args = append(args, filter.From.UTC().Format("2006-01-02"))
	}
	if filter.To != nil {
		query += ` AND entry_date <= ?`
		args = append(args, filter.To.UTC().Format("2006-01-02"))
	}
	query += ` ORDER BY entry_date ASC, id ASC`

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var entries []persistence.TimeEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// DeleteEntry removes an entry by ID.
func (r *EntryRepository) DeleteEntry(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM time_entries WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func scanEntry(row rowScanner) (persistence.TimeEntry, error) {
	var (
		entry      persistence.TimeEntry
		entryDate  string
		endTime    sql.NullString
		totalHours sql.NullFloat64
		createdAt  string
		updatedAt  string
	)

	err := row.Scan(
		&entry.ID,
		&entry.EmployeeID,
		&entryDate,
		&entry.StartTime,
		&endTime,
		&entry.BreakMinutes,
		&totalHours,
		&entry.Task,
		&entry.Project,
		&entry.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.TimeEntry{}, mapError(err)
	}

	if entry.EntryDate, err = time.Parse("2006-01-02", entryDate); err != nil {
		return persistence.TimeEntry{}, fmt.Errorf("failed to parse entry_date: %w", err)
	}
	if endTime.Valid {
		end := endTime.String
		entry.EndTime = &end
	}
	if totalHours.Valid {
		hours := totalHours.Float64
		entry.TotalHours = &hours
	}
	if entry.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.TimeEntry{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if entry.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.TimeEntry{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return entry, nil
}
