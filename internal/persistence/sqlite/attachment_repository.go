package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/hr-timesheet/internal/persistence"
)

// AttachmentRepository implements persistence.AttachmentRepository over
// SQLite. It stores only metadata; bytes live in the blob store.
type AttachmentRepository struct {
	pool *Pool
}

// NewAttachmentRepository creates a SQLite-backed attachment repository.
func NewAttachmentRepository(pool *Pool) *AttachmentRepository {
	return &AttachmentRepository{pool: pool}
}

const attachmentColumns = `id, employee_id, kind, filename, content_type, size_bytes, created_at`

// CreateAttachment records metadata for an uploaded file.
func (r *AttachmentRepository) CreateAttachment(ctx context.Context, attachment persistence.Attachment) error {
	if attachment.ID == "" || attachment.EmployeeID == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO attachments (`+attachmentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		attachment.ID,
		attachment.EmployeeID,
		attachment.Kind,
		attachment.Filename,
		attachment.ContentType,
		attachment.SizeBytes,
		attachment.CreatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// GetAttachment retrieves attachment metadata by blob key.
func (r *AttachmentRepository) GetAttachment(ctx context.Context, id string) (persistence.Attachment, error) {
	if id == "" {
		return persistence.Attachment{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx, `SELECT `+attachmentColumns+` FROM attachments WHERE id = ?`, id)
	return scanAttachment(row)
}

// ListAttachmentsForEmployee returns an employee's attachments, newest first.
func (r *AttachmentRepository) ListAttachmentsForEmployee(ctx context.Context, employeeID string) ([]persistence.Attachment, error) {
	rows, err := r.pool.db.QueryContext(ctx, `
		SELECT `+attachmentColumns+` FROM attachments
		WHERE employee_id = ?
		ORDER BY created_at DESC, id ASC
	`, employeeID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var attachments []persistence.Attachment
	for rows.Next() {
		attachment, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, attachment)
	}
	return attachments, rows.Err()
}

// DeleteAttachment removes attachment metadata by blob key.
func (r *AttachmentRepository) DeleteAttachment(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM attachments WHERE id = ?`, id)
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

func scanAttachment(row rowScanner) (persistence.Attachment, error) {
	var (
		attachment persistence.Attachment
		createdAt  string
	)

	err := row.Scan(
		&attachment.ID,
		&attachment.EmployeeID,
		&attachment.Kind,
		&attachment.Filename,
		&attachment.ContentType,
		&attachment.SizeBytes,
		&createdAt,
	)
	if err != nil {
		return persistence.Attachment{}, mapError(err)
	}

	if attachment.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Attachment{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return attachment, nil
}
