package application

import (
	"time"

	"github.com/example/hr-timesheet/internal/timesheet"
)

// Role identifies the authorization level of an employee account.
type Role string

const (
	// RoleAdmin may manage employee records and act on any timesheet.
	RoleAdmin Role = "admin"
	// RoleManager may approve or deny entries of employees assigned to them.
	RoleManager Role = "manager"
	// RoleEmployee may manage only their own timesheet.
	RoleEmployee Role = "employee"
)

// Valid reports whether the role is one of the known levels.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// Principal represents the authenticated employee invoking a service method.
type Principal struct {
	EmployeeID string
	Role       Role
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Employee represents an employee record exposed by the application services.
// Credentials never appear here.
type Employee struct {
	ID         string
	EmpID      string
	Name       string
	Email      string
	Department string
	Salary     float64
	JoinDate   *time.Time
	Role       Role
	ManagerID  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EmployeeInput captures caller provided employee attributes. Password is
// consumed on create and ignored on update when empty.
type EmployeeInput struct {
	EmpID      string
	Name       string
	Email      string
	Department string
	Salary     float64
	JoinDate   *time.Time
	Role       Role
	ManagerID  *string
	Password   string
}

// CreateEmployeeParams wraps the data required to create an employee.
type CreateEmployeeParams struct {
	Principal Principal
	Input     EmployeeInput
}

// UpdateEmployeeParams wraps the data required to update an employee.
type UpdateEmployeeParams struct {
	Principal  Principal
	EmployeeID string
	Input      EmployeeInput
}

// EntryStatus tracks the approval lifecycle of a timesheet entry.
type EntryStatus string

const (
	// StatusPendingApproval marks a freshly created or edited entry.
	StatusPendingApproval EntryStatus = "pending_approval"
	// StatusApproved marks an entry accepted by a manager.
	StatusApproved EntryStatus = "approved"
	// StatusDenied marks an entry rejected by a manager.
	StatusDenied EntryStatus = "denied"
)

// Locked reports whether the entry may no longer be changed by its owner.
func (s EntryStatus) Locked() bool {
	return s == StatusApproved || s == StatusDenied
}

// TimeEntry represents a single day's timesheet record. Start and End are
// clock times in "HH:MM" form; TotalHours stays nil until End is recorded.
type TimeEntry struct {
	ID           string
	EmployeeID   string
	Date         time.Time
	Start        string
	End          *string
	BreakMinutes int
	TotalHours   *float64
	Task         string
	Project      string
	Status       EntryStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EntryInput captures caller provided timesheet entry fields.
type EntryInput struct {
	Date         time.Time
	Start        string
	End          *string
	BreakMinutes int
	Task         string
	Project      string
}

// CreateEntryParams wraps the data required to create a timesheet entry.
type CreateEntryParams struct {
	Principal Principal
	Input     EntryInput
}

// UpdateEntryParams wraps the data required to update a timesheet entry.
type UpdateEntryParams struct {
	Principal Principal
	EntryID   string
	Input     EntryInput
}

// PeriodTimesheetParams identifies the period view requested by a principal.
type PeriodTimesheetParams struct {
	Principal Principal
	Period    timesheet.Period
}

// PeriodTimesheet bundles the resolved range, the day-by-day calendar, and
// the raw entries for one employee over one period.
type PeriodTimesheet struct {
	Period   timesheet.Period
	Label    string
	Range    timesheet.DateRange
	Calendar timesheet.Calendar
	Entries  []TimeEntry
}

// Session represents an authenticated session issued to an employee.
type Session struct {
	ID         string
	EmployeeID string
	Token      string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	RevokedAt  *time.Time
}

// EmployeeCredentials models the authentication attributes persisted for an employee.
type EmployeeCredentials struct {
	Employee     Employee
	PasswordHash string
	Disabled     bool
}

// AuthenticateParams captures the data required to authenticate an employee.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication attempt.
type AuthenticateResult struct {
	Employee Employee
	Session  Session
}

// AttachmentKind classifies an uploaded file.
type AttachmentKind string

const (
	// KindProfileImage is an employee portrait.
	KindProfileImage AttachmentKind = "profile_image"
	// KindCV is an employee curriculum vitae.
	KindCV AttachmentKind = "cv"
	// KindDocument is any other supporting file.
	KindDocument AttachmentKind = "document"
)

// Valid reports whether the kind is one of the known classes.
func (k AttachmentKind) Valid() bool {
	switch k {
	case KindProfileImage, KindCV, KindDocument:
		return true
	}
	return false
}

// Attachment records metadata for a stored file. The ID doubles as the
// blob store key.
type Attachment struct {
	ID          string
	EmployeeID  string
	Kind        AttachmentKind
	Filename    string
	ContentType string
	SizeBytes   int64
	CreatedAt   time.Time
}
