// Package testfixtures provides deterministic builders for the records the
// service operates on, plus controllable clocks and id generators.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/hr-timesheet/internal/application"
	"github.com/example/hr-timesheet/internal/persistence"
)

var (
	employeeCounter uint64
	entryCounter    uint64
	sessionCounter  uint64
)

var referenceTime = time.Date(2024, time.March, 13, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
// It is a Wednesday, so week ranges around it are unambiguous.
func ReferenceTime() time.Time {
	return referenceTime
}

// --------------------------- Employee fixtures ---------------------------

// EmployeeFixture represents a deterministic employee record that can be
// materialised for application or persistence tests.
type EmployeeFixture struct {
	ID           string
	EmpID        string
	Name         string
	Email        string
	Department   string
	Salary       float64
	JoinDate     *time.Time
	Role         application.Role
	ManagerID    *string
	PasswordHash string
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EmployeeOption configures the generated employee fixture.
type EmployeeOption func(*EmployeeFixture)

// NewEmployeeFixture returns a deterministic employee fixture with optional overrides.
func NewEmployeeFixture(opts ...EmployeeOption) EmployeeFixture {
	n := atomic.AddUint64(&employeeCounter, 1)
	fixture := EmployeeFixture{
		ID:           fmt.Sprintf("employee-%d", n),
		EmpID:        fmt.Sprintf("E-%03d", n),
		Name:         fmt.Sprintf("Employee %d", n),
		Email:        fmt.Sprintf("employee%d@example.com", n),
		Department:   "Engineering",
		Salary:       50000,
		Role:         application.RoleEmployee,
		PasswordHash: "hash:password",
		CreatedAt:    referenceTime,
		UpdatedAt:    referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEmployeeID overrides the record identifier.
func WithEmployeeID(id string) EmployeeOption {
	return func(f *EmployeeFixture) { f.ID = id }
}

// WithEmpID overrides the business identifier.
func WithEmpID(empID string) EmployeeOption {
	return func(f *EmployeeFixture) { f.EmpID = empID }
}

// WithEmployeeEmail overrides the email address.
func WithEmployeeEmail(email string) EmployeeOption {
	return func(f *EmployeeFixture) { f.Email = email }
}

// WithEmployeeRole overrides the role.
func WithEmployeeRole(role application.Role) EmployeeOption {
	return func(f *EmployeeFixture) { f.Role = role }
}

// WithManager assigns the managing employee's id.
func WithManager(managerID string) EmployeeOption {
	return func(f *EmployeeFixture) { f.ManagerID = &managerID }
}

// WithEmployeeDisabled marks the account disabled.
func WithEmployeeDisabled() EmployeeOption {
	return func(f *EmployeeFixture) { f.Disabled = true }
}

// WithJoinDate sets the join date.
func WithJoinDate(t time.Time) EmployeeOption {
	return func(f *EmployeeFixture) { f.JoinDate = &t }
}

// WithEmployeeTimestamps overrides both record timestamps.
func WithEmployeeTimestamps(created, updated time.Time) EmployeeOption {
	return func(f *EmployeeFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Application materialises the fixture as an application model.
func (f EmployeeFixture) Application() application.Employee {
	return application.Employee{
		ID:         f.ID,
		EmpID:      f.EmpID,
		Name:       f.Name,
		Email:      f.Email,
		Department: f.Department,
		Salary:     f.Salary,
		JoinDate:   f.JoinDate,
		Role:       f.Role,
		ManagerID:  f.ManagerID,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
}

// Credentials materialises the fixture's authentication attributes.
func (f EmployeeFixture) Credentials() application.EmployeeCredentials {
	return application.EmployeeCredentials{
		Employee:     f.Application(),
		PasswordHash: f.PasswordHash,
		Disabled:     f.Disabled,
	}
}

// Principal materialises the fixture as an acting principal.
func (f EmployeeFixture) Principal() application.Principal {
	return application.Principal{EmployeeID: f.ID, Role: f.Role}
}

// Persistence materialises the fixture as a persistence record.
func (f EmployeeFixture) Persistence() persistence.Employee {
	return persistence.Employee{
		ID:           f.ID,
		EmpID:        f.EmpID,
		Name:         f.Name,
		Email:        f.Email,
		Department:   f.Department,
		Salary:       f.Salary,
		JoinDate:     f.JoinDate,
		Role:         string(f.Role),
		ManagerID:    f.ManagerID,
		PasswordHash: f.PasswordHash,
		Disabled:     f.Disabled,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// ---------------------------- Entry fixtures -----------------------------

// EntryFixture represents a deterministic timesheet entry.
type EntryFixture struct {
	ID           string
	EmployeeID   string
	Date         time.Time
	Start        string
	End          *string
	BreakMinutes int
	TotalHours   *float64
	Task         string
	Project      string
	Status       application.EntryStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EntryOption configures the generated entry fixture.
type EntryOption func(*EntryFixture)

// NewEntryFixture returns a deterministic entry fixture with optional
// overrides. By default it is a completed pending workday of eight hours.
func NewEntryFixture(opts ...EntryOption) EntryFixture {
	n := atomic.AddUint64(&entryCounter, 1)
	end := "17:30"
	hours := 8.0
	fixture := EntryFixture{
		ID:           fmt.Sprintf("entry-%d", n),
		EmployeeID:   "employee-1",
		Date:         time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC),
		Start:        "09:00",
		End:          &end,
		BreakMinutes: 30,
		TotalHours:   &hours,
		Task:         "Development",
		Project:      "Internal",
		Status:       application.StatusPendingApproval,
		CreatedAt:    referenceTime,
		UpdatedAt:    referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEntryID overrides the entry identifier.
func WithEntryID(id string) EntryOption {
	return func(f *EntryFixture) { f.ID = id }
}

// WithEntryOwner sets the owning employee.
func WithEntryOwner(employeeID string) EntryOption {
	return func(f *EntryFixture) { f.EmployeeID = employeeID }
}

// WithEntryDate sets the calendar date.
func WithEntryDate(date time.Time) EntryOption {
	return func(f *EntryFixture) { f.Date = date }
}

// WithEntryTimes sets start, end, and break together.
func WithEntryTimes(start, end string, breakMinutes int) EntryOption {
	return func(f *EntryFixture) {
		f.Start = start
		f.End = &end
		f.BreakMinutes = breakMinutes
	}
}

// WithOpenEnd clears the end time and total hours.
func WithOpenEnd() EntryOption {
	return func(f *EntryFixture) {
		f.End = nil
		f.TotalHours = nil
	}
}

// WithTotalHours overrides the stored total.
func WithTotalHours(hours float64) EntryOption {
	return func(f *EntryFixture) { f.TotalHours = &hours }
}

// WithEntryStatus sets the lifecycle status.
func WithEntryStatus(status application.EntryStatus) EntryOption {
	return func(f *EntryFixture) { f.Status = status }
}

// Application materialises the fixture as an application model.
func (f EntryFixture) Application() application.TimeEntry {
	return application.TimeEntry{
		ID:           f.ID,
		EmployeeID:   f.EmployeeID,
		Date:         f.Date,
		Start:        f.Start,
		End:          f.End,
		BreakMinutes: f.BreakMinutes,
		TotalHours:   f.TotalHours,
		Task:         f.Task,
		Project:      f.Project,
		Status:       f.Status,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// Persistence materialises the fixture as a persistence record.
func (f EntryFixture) Persistence() persistence.TimeEntry {
	return persistence.TimeEntry{
		ID:           f.ID,
		EmployeeID:   f.EmployeeID,
		EntryDate:    f.Date,
		StartTime:    f.Start,
		EndTime:      f.End,
		BreakMinutes: f.BreakMinutes,
		TotalHours:   f.TotalHours,
		Task:         f.Task,
		Project:      f.Project,
		Status:       string(f.Status),
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// Input materialises the fixture as caller input.
func (f EntryFixture) Input() application.EntryInput {
	return application.EntryInput{
		Date:         f.Date,
		Start:        f.Start,
		End:          f.End,
		BreakMinutes: f.BreakMinutes,
		Task:         f.Task,
		Project:      f.Project,
	}
}

// --------------------------- Session fixtures ----------------------------

// SessionFixture represents a deterministic authentication session.
type SessionFixture struct {
	ID         string
	EmployeeID string
	Token      string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	RevokedAt  *time.Time
}

// SessionOption configures the generated session fixture.
type SessionOption func(*SessionFixture)

// NewSessionFixture returns a deterministic session fixture valid for eight
// hours from the reference time.
func NewSessionFixture(opts ...SessionOption) SessionFixture {
	n := atomic.AddUint64(&sessionCounter, 1)
	fixture := SessionFixture{
		ID:         fmt.Sprintf("session-%d", n),
		EmployeeID: "employee-1",
		Token:      fmt.Sprintf("token-%d", n),
		ExpiresAt:  referenceTime.Add(8 * time.Hour),
		CreatedAt:  referenceTime,
		UpdatedAt:  referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSessionOwner sets the employee the session belongs to.
func WithSessionOwner(employeeID string) SessionOption {
	return func(f *SessionFixture) { f.EmployeeID = employeeID }
}

// WithSessionToken overrides the token.
func WithSessionToken(token string) SessionOption {
	return func(f *SessionFixture) { f.Token = token }
}

// WithSessionExpiry sets the expiry instant.
func WithSessionExpiry(t time.Time) SessionOption {
	return func(f *SessionFixture) { f.ExpiresAt = t }
}

// Revoked marks the session revoked at the given instant.
func Revoked(at time.Time) SessionOption {
	return func(f *SessionFixture) { f.RevokedAt = &at }
}

// Application materialises the fixture as an application model.
func (f SessionFixture) Application() application.Session {
	return application.Session{
		ID:         f.ID,
		EmployeeID: f.EmployeeID,
		Token:      f.Token,
		ExpiresAt:  f.ExpiresAt,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
		RevokedAt:  f.RevokedAt,
	}
}

// Persistence materialises the fixture as a persistence record.
func (f SessionFixture) Persistence() persistence.Session {
	return persistence.Session{
		ID:         f.ID,
		EmployeeID: f.EmployeeID,
		Token:      f.Token,
		ExpiresAt:  f.ExpiresAt,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
		RevokedAt:  f.RevokedAt,
	}
}
