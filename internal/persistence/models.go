package persistence

import "time"

// Employee represents an employee record together with its credentials.
// The password hash never leaves the persistence and application layers.
type Employee struct {
	ID           string
	EmpID        string
	Name         string
	Email        string
	Department   string
	Salary       float64
	JoinDate     *time.Time
	Role         string
	ManagerID    *string
	PasswordHash string
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TimeEntry represents a single day's timesheet record. EntryDate carries
// only the calendar date; StartTime and EndTime are wire-format clock
// times ("HH:MM"). TotalHours stays nil until the end time is recorded.
type TimeEntry struct {
	ID           string
	EmployeeID   string
	EntryDate    time.Time
	StartTime    string
	EndTime      *string
	BreakMinutes int
	TotalHours   *float64
	Task         string
	Project      string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session represents an authentication session persisted for an employee.
type Session struct {
	ID         string
	EmployeeID string
	Token      string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	RevokedAt  *time.Time
}

// Attachment records metadata for a file held in the blob store. The blob
// key doubles as the attachment identifier; file contents are opaque.
type Attachment struct {
	ID          string
	EmployeeID  string
	Kind        string
	Filename    string
	ContentType string
	SizeBytes   int64
	CreatedAt   time.Time
}
