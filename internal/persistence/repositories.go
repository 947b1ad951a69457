package persistence

import (
	"context"
	"time"
)

// EmployeeRepository exposes CRUD operations for employee records.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee Employee) error
	UpdateEmployee(ctx context.Context, employee Employee) error
	GetEmployee(ctx context.Context, id string) (Employee, error)
	GetEmployeeByEmail(ctx context.Context, email string) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

// EntryFilter narrows time entry queries to one employee's records within
// an inclusive date range.
type EntryFilter struct {
	EmployeeID string
	From       *time.Time
	To         *time.Time
}

// EntryRepository stores per-day timesheet entries. CreateEntry must fail
// atomically with ErrDuplicate when an entry already exists for the same
// employee and date; callers rely on the constraint rather than a
// check-then-insert.
type EntryRepository interface {
	CreateEntry(ctx context.Context, entry TimeEntry) error
	UpdateEntry(ctx context.Context, entry TimeEntry) error
	GetEntry(ctx context.Context, id string) (TimeEntry, error)
	ListEntries(ctx context.Context, filter EntryFilter) ([]TimeEntry, error)
	DeleteEntry(ctx context.Context, id string) error
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// AttachmentRepository stores metadata for uploaded files.
type AttachmentRepository interface {
	CreateAttachment(ctx context.Context, attachment Attachment) error
	GetAttachment(ctx context.Context, id string) (Attachment, error)
	ListAttachmentsForEmployee(ctx context.Context, employeeID string) ([]Attachment, error)
	DeleteAttachment(ctx context.Context, id string) error
}
