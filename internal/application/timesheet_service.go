package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/hr-timesheet/internal/timesheet"
)

// EntryRepository captures the persistence operations needed by the timesheet service.
type EntryRepository interface {
	CreateEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error)
	UpdateEntry(ctx context.Context, entry TimeEntry) (TimeEntry, error)
	GetEntry(ctx context.Context, id string) (TimeEntry, error)
	ListEntries(ctx context.Context, employeeID string, from, to time.Time) ([]TimeEntry, error)
	DeleteEntry(ctx context.Context, id string) error
}

// EmployeeDirectory resolves employee records for authorization decisions.
type EmployeeDirectory interface {
	GetEmployee(ctx context.Context, id string) (Employee, error)
}

// TimesheetService orchestrates the per-day entry lifecycle and the
// period views built on top of it.
type TimesheetService struct {
	entries     EntryRepository
	employees   EmployeeDirectory
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewTimesheetService wires dependencies for the timesheet service.
func NewTimesheetService(entries EntryRepository, employees EmployeeDirectory, idGenerator func() string, now func() time.Time, logger *slog.Logger) *TimesheetService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &TimesheetService{
		entries:     entries,
		employees:   employees,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *TimesheetService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "TimesheetService", operation, attrs...)
}

// CreateEntry records a new entry for the principal's own timesheet. A
// second entry for the same date surfaces as ErrAlreadyExists; the
// conflict is settled by the store, not by a lookup here.
func (s *TimesheetService) CreateEntry(ctx context.Context, params CreateEntryParams) (TimeEntry, error) {
	if s == nil {
		return TimeEntry{}, fmt.Errorf("TimesheetService is nil")
	}
	if params.Principal.EmployeeID == "" {
		return TimeEntry{}, ErrUnauthorized
	}
	if s.entries == nil {
		return TimeEntry{}, fmt.Errorf("entry repository not configured")
	}

	logger := s.loggerWith(ctx, "CreateEntry", "employee_id", params.Principal.EmployeeID)

	normalized := normalizeEntryInput(params.Input)
	total, vErr := validateEntryInput(normalized)
	if vErr.HasErrors() {
		return TimeEntry{}, vErr
	}

	entry := TimeEntry{
		ID:           s.idGenerator(),
		EmployeeID:   params.Principal.EmployeeID,
		Date:         timesheet.DateOf(normalized.Date),
		Start:        normalized.Start,
		End:          normalized.End,
		BreakMinutes: normalized.BreakMinutes,
		TotalHours:   total,
		Task:         normalized.Task,
		Project:      normalized.Project,
		Status:       StatusPendingApproval,
		CreatedAt:    s.now(),
	}
	entry.UpdatedAt = entry.CreatedAt

	persisted, err := s.entries.CreateEntry(ctx, entry)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to create entry", "error", err, "error_kind", ErrorKind(err))
		return TimeEntry{}, err
	}

	logger.With("entry_id", persisted.ID).InfoContext(ctx, "entry created")
	return persisted, nil
}

// UpdateEntry rewrites an entry owned by the principal. Approved and
// denied entries are locked against any further owner mutation.
func (s *TimesheetService) UpdateEntry(ctx context.Context, params UpdateEntryParams) (TimeEntry, error) {
	if s == nil {
		return TimeEntry{}, fmt.Errorf("TimesheetService is nil")
	}
	if s.entries == nil {
		return TimeEntry{}, fmt.Errorf("entry repository not configured")
	}

	logger := s.loggerWith(ctx, "UpdateEntry", "entry_id", params.EntryID)

	existing, err := s.entries.GetEntry(ctx, params.EntryID)
	if err != nil {
		return TimeEntry{}, mapRepoError(err)
	}
	if existing.EmployeeID != params.Principal.EmployeeID {
		return TimeEntry{}, ErrUnauthorized
	}
	if existing.Status.Locked() {
		return TimeEntry{}, ErrLocked
	}

	normalized := normalizeEntryInput(params.Input)
	total, vErr := validateEntryInput(normalized)
	if vErr.HasErrors() {
		return TimeEntry{}, vErr
	}

	updated := existing
	updated.Date = timesheet.DateOf(normalized.Date)
	updated.Start = normalized.Start
	updated.End = normalized.End
	updated.BreakMinutes = normalized.BreakMinutes
	updated.TotalHours = total
	updated.Task = normalized.Task
	updated.Project = normalized.Project
	updated.UpdatedAt = s.now()

	persisted, err := s.entries.UpdateEntry(ctx, updated)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to update entry", "error", err, "error_kind", ErrorKind(err))
		return TimeEntry{}, err
	}

	logger.InfoContext(ctx, "entry updated")
	return persisted, nil
}

// DeleteEntry removes an entry owned by the principal, subject to the
// same lock as updates.
func (s *TimesheetService) DeleteEntry(ctx context.Context, principal Principal, entryID string) error {
	if s == nil {
		return fmt.Errorf("TimesheetService is nil")
	}
	if s.entries == nil {
		return fmt.Errorf("entry repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteEntry", "entry_id", entryID)

	existing, err := s.entries.GetEntry(ctx, entryID)
	if err != nil {
		return mapRepoError(err)
	}
	if existing.EmployeeID != principal.EmployeeID {
		return ErrUnauthorized
	}
	if existing.Status.Locked() {
		return ErrLocked
	}

	if err := s.entries.DeleteEntry(ctx, entryID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete entry", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "entry deleted")
	return nil
}

// GetEntry returns one entry, visible to its owner, the owner's assigned
// manager, and admins.
func (s *TimesheetService) GetEntry(ctx context.Context, principal Principal, entryID string) (TimeEntry, error) {
	if s == nil {
		return TimeEntry{}, fmt.Errorf("TimesheetService is nil")
	}
	if s.entries == nil {
		return TimeEntry{}, fmt.Errorf("entry repository not configured")
	}

	entry, err := s.entries.GetEntry(ctx, entryID)
	if err != nil {
		return TimeEntry{}, mapRepoError(err)
	}
	if entry.EmployeeID == principal.EmployeeID || principal.IsAdmin() {
		return entry, nil
	}
	if err := s.authorizeReviewer(ctx, principal, entry.EmployeeID); err != nil {
		return TimeEntry{}, err
	}
	return entry, nil
}

// ApproveEntry marks an entry approved on behalf of the owner's assigned
// manager or an admin.
func (s *TimesheetService) ApproveEntry(ctx context.Context, principal Principal, entryID string) (TimeEntry, error) {
	return s.reviewEntry(ctx, principal, entryID, StatusApproved)
}

// DenyEntry marks an entry denied on behalf of the owner's assigned
// manager or an admin.
func (s *TimesheetService) DenyEntry(ctx context.Context, principal Principal, entryID string) (TimeEntry, error) {
	return s.reviewEntry(ctx, principal, entryID, StatusDenied)
}

func (s *TimesheetService) reviewEntry(ctx context.Context, principal Principal, entryID string, status EntryStatus) (TimeEntry, error) {
	if s == nil {
		return TimeEntry{}, fmt.Errorf("TimesheetService is nil")
	}
	if s.entries == nil {
		return TimeEntry{}, fmt.Errorf("entry repository not configured")
	}

	logger := s.loggerWith(ctx, "ReviewEntry", "entry_id", entryID, "status", string(status))

	entry, err := s.entries.GetEntry(ctx, entryID)
	if err != nil {
		return TimeEntry{}, mapRepoError(err)
	}

	if !principal.IsAdmin() {
		if err := s.authorizeReviewer(ctx, principal, entry.EmployeeID); err != nil {
			logger.ErrorContext(ctx, "review rejected", "error", err, "error_kind", ErrorKind(err))
			return TimeEntry{}, err
		}
	}

	entry.Status = status
	entry.UpdatedAt = s.now()

	persisted, err := s.entries.UpdateEntry(ctx, entry)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to review entry", "error", err, "error_kind", ErrorKind(err))
		return TimeEntry{}, err
	}

	logger.InfoContext(ctx, "entry reviewed")
	return persisted, nil
}

// authorizeReviewer checks that the principal is the assigned manager of
// the entry's owner.
func (s *TimesheetService) authorizeReviewer(ctx context.Context, principal Principal, ownerID string) error {
	if principal.Role != RoleManager {
		return ErrUnauthorized
	}
	if s.employees == nil {
		return fmt.Errorf("employee directory not configured")
	}

	owner, err := s.employees.GetEmployee(ctx, ownerID)
	if err != nil {
		return mapRepoError(err)
	}
	if owner.ManagerID == nil || *owner.ManagerID != principal.EmployeeID {
		return ErrUnauthorized
	}
	return nil
}

// PeriodTimesheet assembles the calendar view of the principal's entries
// for the requested period. Unknown selectors fall back to the current
// week rather than failing.
func (s *TimesheetService) PeriodTimesheet(ctx context.Context, params PeriodTimesheetParams) (PeriodTimesheet, error) {
	if s == nil {
		return PeriodTimesheet{}, fmt.Errorf("TimesheetService is nil")
	}
	if params.Principal.EmployeeID == "" {
		return PeriodTimesheet{}, ErrUnauthorized
	}
	if s.entries == nil {
		return PeriodTimesheet{}, fmt.Errorf("entry repository not configured")
	}

	dateRange, label := timesheet.Resolve(params.Period, s.now())

	entries, err := s.entries.ListEntries(ctx, params.Principal.EmployeeID, dateRange.Start, dateRange.End)
	if err != nil {
		return PeriodTimesheet{}, mapRepoError(err)
	}

	calendarEntries := make([]timesheet.Entry, len(entries))
	for i, entry := range entries {
		calendarEntries[i] = timesheet.Entry{
			ID:         entry.ID,
			Date:       entry.Date,
			TotalHours: entry.TotalHours,
		}
	}

	return PeriodTimesheet{
		Period:   params.Period,
		Label:    label,
		Range:    dateRange,
		Calendar: timesheet.BuildCalendar(dateRange, calendarEntries),
		Entries:  entries,
	}, nil
}

func normalizeEntryInput(input EntryInput) EntryInput {
	input.Start = strings.TrimSpace(input.Start)
	input.Task = strings.TrimSpace(input.Task)
	input.Project = strings.TrimSpace(input.Project)
	if input.End != nil {
		trimmed := strings.TrimSpace(*input.End)
		if trimmed == "" {
			input.End = nil
		} else {
			input.End = &trimmed
		}
	}
	return input
}

// validateEntryInput checks the entry fields and returns the recomputed
// total hours. Totals are derived here on every write, never on read.
func validateEntryInput(input EntryInput) (*float64, *ValidationError) {
	vErr := &ValidationError{}

	if input.Date.IsZero() {
		vErr.add("date", "date is required")
	}
	if input.BreakMinutes < 0 {
		vErr.add("break_minutes", "break must not be negative")
	}

	start, err := timesheet.ParseTimeOfDay(input.Start)
	if err != nil {
		vErr.add("start", "start must be a valid HH:MM time")
	}

	var end *timesheet.TimeOfDay
	if input.End != nil {
		parsed, err := timesheet.ParseTimeOfDay(*input.End)
		if err != nil {
			vErr.add("end", "end must be a valid HH:MM time")
		} else {
			end = &parsed
		}
	}

	if vErr.HasErrors() {
		return nil, vErr
	}

	total, err := timesheet.ComputeTotalHours(start, end, input.BreakMinutes)
	if err != nil {
		if errors.Is(err, timesheet.ErrEndNotAfterStart) {
			vErr.add("end", "end must be after start")
			return nil, vErr
		}
		vErr.add("end", err.Error())
		return nil, vErr
	}

	return total, vErr
}
