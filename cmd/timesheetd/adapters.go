package main

import (
	"context"
	"time"

	"github.com/example/hr-timesheet/internal/application"
	"github.com/example/hr-timesheet/internal/persistence"
	"github.com/example/hr-timesheet/internal/persistence/sqlite"
)

// The adapters below translate between application models and persistence
// records. Persistence sentinel errors pass through untouched; the services
// map them to their own sentinels.

type employeeRepositoryAdapter struct {
	repo *sqlite.EmployeeRepository
}

func newEmployeeRepositoryAdapter(repo *sqlite.EmployeeRepository) *employeeRepositoryAdapter {
	return &employeeRepositoryAdapter{repo: repo}
}

func (a *employeeRepositoryAdapter) CreateEmployee(ctx context.Context, employee application.Employee, passwordHash string) (application.Employee, error) {
	record := toPersistenceEmployee(employee)
	record.PasswordHash = passwordHash
	if err := a.repo.CreateEmployee(ctx, record); err != nil {
		return application.Employee{}, err
	}
	stored, err := a.repo.GetEmployee(ctx, employee.ID)
	if err != nil {
		return application.Employee{}, err
	}
	return toApplicationEmployee(stored), nil
}

// UpdateEmployee preserves the stored credentials; password changes never
// travel through this path.
func (a *employeeRepositoryAdapter) UpdateEmployee(ctx context.Context, employee application.Employee) (application.Employee, error) {
	current, err := a.repo.GetEmployee(ctx, employee.ID)
	if err != nil {
		return application.Employee{}, err
	}
	record := toPersistenceEmployee(employee)
	record.PasswordHash = current.PasswordHash
	record.Disabled = current.Disabled
	record.CreatedAt = current.CreatedAt
	if err := a.repo.UpdateEmployee(ctx, record); err != nil {
		return application.Employee{}, err
	}
	stored, err := a.repo.GetEmployee(ctx, employee.ID)
	if err != nil {
		return application.Employee{}, err
	}
	return toApplicationEmployee(stored), nil
}

func (a *employeeRepositoryAdapter) GetEmployee(ctx context.Context, id string) (application.Employee, error) {
	stored, err := a.repo.GetEmployee(ctx, id)
	if err != nil {
		return application.Employee{}, err
	}
	return toApplicationEmployee(stored), nil
}

func (a *employeeRepositoryAdapter) ListEmployees(ctx context.Context) ([]application.Employee, error) {
	models, err := a.repo.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	employees := make([]application.Employee, 0, len(models))
	for _, model := range models {
		employees = append(employees, toApplicationEmployee(model))
	}
	return employees, nil
}

func (a *employeeRepositoryAdapter) DeleteEmployee(ctx context.Context, id string) error {
	return a.repo.DeleteEmployee(ctx, id)
}

func (a *employeeRepositoryAdapter) GetEmployeeCredentials(ctx context.Context, id string) (application.EmployeeCredentials, error) {
	stored, err := a.repo.GetEmployee(ctx, id)
	if err != nil {
		return application.EmployeeCredentials{}, err
	}
	return toCredentials(stored), nil
}

func (a *employeeRepositoryAdapter) GetEmployeeCredentialsByEmail(ctx context.Context, email string) (application.EmployeeCredentials, error) {
	stored, err := a.repo.GetEmployeeByEmail(ctx, email)
	if err != nil {
		return application.EmployeeCredentials{}, err
	}
	return toCredentials(stored), nil
}

type entryRepositoryAdapter struct {
	repo *sqlite.EntryRepository
}

func newEntryRepositoryAdapter(repo *sqlite.EntryRepository) *entryRepositoryAdapter {
	return &entryRepositoryAdapter{repo: repo}
}

func (a *entryRepositoryAdapter) CreateEntry(ctx context.Context, entry application.TimeEntry) (application.TimeEntry, error) {
	if err := a.repo.CreateEntry(ctx, toPersistenceEntry(entry)); err != nil {
		return application.TimeEntry{}, err
	}
	stored, err := a.repo.GetEntry(ctx, entry.ID)
	if err != nil {
		return application.TimeEntry{}, err
	}
	return toApplicationEntry(stored), nil
}

func (a *entryRepositoryAdapter) UpdateEntry(ctx context.Context, entry application.TimeEntry) (application.TimeEntry, error) {
	if err := a.repo.UpdateEntry(ctx, toPersistenceEntry(entry)); err != nil {
		return application.TimeEntry{}, err
	}
	stored, err := a.repo.GetEntry(ctx, entry.ID)
	if err != nil {
		return application.TimeEntry{}, err
	}
	return toApplicationEntry(stored), nil
}

func (a *entryRepositoryAdapter) GetEntry(ctx context.Context, id string) (application.TimeEntry, error) {
	stored, err := a.repo.GetEntry(ctx, id)
	if err != nil {
		return application.TimeEntry{}, err
	}
	return toApplicationEntry(stored), nil
}

func (a *entryRepositoryAdapter) ListEntries(ctx context.Context, employeeID string, from, to time.Time) ([]application.TimeEntry, error) {
	models, err := a.repo.ListEntries(ctx, persistence.EntryFilter{
		EmployeeID: employeeID,
		From:       &from,
		To:         &to,
	})
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	entries := make([]application.TimeEntry, 0, len(models))
	for _, model := range models {
		entries = append(entries, toApplicationEntry(model))
	}
	return entries, nil
}

func (a *entryRepositoryAdapter) DeleteEntry(ctx context.Context, id string) error {
	return a.repo.DeleteEntry(ctx, id)
}

type sessionRepositoryAdapter struct {
	repo *sqlite.SessionRepository
}

func newSessionRepositoryAdapter(repo *sqlite.SessionRepository) *sessionRepositoryAdapter {
	return &sessionRepositoryAdapter{repo: repo}
}

func (a *sessionRepositoryAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.CreateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) GetSession(ctx context.Context, token string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, token)
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	stored, err := a.repo.RevokeSession(ctx, token, revokedAt)
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return a.repo.DeleteExpiredSessions(ctx, reference)
}

type attachmentRepositoryAdapter struct {
	repo *sqlite.AttachmentRepository
}

func newAttachmentRepositoryAdapter(repo *sqlite.AttachmentRepository) *attachmentRepositoryAdapter {
	return &attachmentRepositoryAdapter{repo: repo}
}

func (a *attachmentRepositoryAdapter) CreateAttachment(ctx context.Context, attachment application.Attachment) (application.Attachment, error) {
	if err := a.repo.CreateAttachment(ctx, toPersistenceAttachment(attachment)); err != nil {
		return application.Attachment{}, err
	}
	stored, err := a.repo.GetAttachment(ctx, attachment.ID)
	if err != nil {
		return application.Attachment{}, err
	}
	return toApplicationAttachment(stored), nil
}

func (a *attachmentRepositoryAdapter) GetAttachment(ctx context.Context, id string) (application.Attachment, error) {
	stored, err := a.repo.GetAttachment(ctx, id)
	if err != nil {
		return application.Attachment{}, err
	}
	return toApplicationAttachment(stored), nil
}

func (a *attachmentRepositoryAdapter) ListAttachmentsForEmployee(ctx context.Context, employeeID string) ([]application.Attachment, error) {
	models, err := a.repo.ListAttachmentsForEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	attachments := make([]application.Attachment, 0, len(models))
	for _, model := range models {
		attachments = append(attachments, toApplicationAttachment(model))
	}
	return attachments, nil
}

func (a *attachmentRepositoryAdapter) DeleteAttachment(ctx context.Context, id string) error {
	return a.repo.DeleteAttachment(ctx, id)
}

func toPersistenceEmployee(employee application.Employee) persistence.Employee {
	return persistence.Employee{
		ID:         employee.ID,
		EmpID:      employee.EmpID,
		Name:       employee.Name,
		Email:      employee.Email,
		Department: employee.Department,
		Salary:     employee.Salary,
		JoinDate:   employee.JoinDate,
		Role:       string(employee.Role),
		ManagerID:  employee.ManagerID,
		CreatedAt:  employee.CreatedAt,
		UpdatedAt:  employee.UpdatedAt,
	}
}

func toApplicationEmployee(record persistence.Employee) application.Employee {
	return application.Employee{
		ID:         record.ID,
		EmpID:      record.EmpID,
		Name:       record.Name,
		Email:      record.Email,
		Department: record.Department,
		Salary:     record.Salary,
		JoinDate:   record.JoinDate,
		Role:       application.Role(record.Role),
		ManagerID:  record.ManagerID,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}

func toCredentials(record persistence.Employee) application.EmployeeCredentials {
	return application.EmployeeCredentials{
		Employee:     toApplicationEmployee(record),
		PasswordHash: record.PasswordHash,
		Disabled:     record.Disabled,
	}
}

func toPersistenceEntry(entry application.TimeEntry) persistence.TimeEntry {
	return persistence.TimeEntry{
		ID:           entry.ID,
		EmployeeID:   entry.EmployeeID,
		EntryDate:    entry.Date,
		StartTime:    entry.Start,
		EndTime:      entry.End,
		BreakMinutes: entry.BreakMinutes,
		TotalHours:   entry.TotalHours,
		Task:         entry.Task,
		Project:      entry.Project,
		Status:       string(entry.Status),
		CreatedAt:    entry.CreatedAt,
		UpdatedAt:    entry.UpdatedAt,
	}
}

func toApplicationEntry(record persistence.TimeEntry) application.TimeEntry {
	return application.TimeEntry{
		ID:           record.ID,
		EmployeeID:   record.EmployeeID,
		Date:         record.EntryDate,
		Start:        record.StartTime,
		End:          record.EndTime,
		BreakMinutes: record.BreakMinutes,
		TotalHours:   record.TotalHours,
		Task:         record.Task,
		Project:      record.Project,
		Status:       application.EntryStatus(record.Status),
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}

func toPersistenceSession(session application.Session) persistence.Session {
	return persistence.Session{
		ID:         session.ID,
		EmployeeID: session.EmployeeID,
		Token:      session.Token,
		ExpiresAt:  session.ExpiresAt,
		CreatedAt:  session.CreatedAt,
		UpdatedAt:  session.UpdatedAt,
		RevokedAt:  session.RevokedAt,
	}
}

func toApplicationSession(record persistence.Session) application.Session {
	return application.Session{
		ID:         record.ID,
		EmployeeID: record.EmployeeID,
		Token:      record.Token,
		ExpiresAt:  record.ExpiresAt,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
		RevokedAt:  record.RevokedAt,
	}
}

func toPersistenceAttachment(attachment application.Attachment) persistence.Attachment {
	return persistence.Attachment{
		ID:          attachment.ID,
		EmployeeID:  attachment.EmployeeID,
		Kind:        string(attachment.Kind),
		Filename:    attachment.Filename,
		ContentType: attachment.ContentType,
		SizeBytes:   attachment.SizeBytes,
		CreatedAt:   attachment.CreatedAt,
	}
}

func toApplicationAttachment(record persistence.Attachment) application.Attachment {
	return application.Attachment{
		ID:          record.ID,
		EmployeeID:  record.EmployeeID,
		Kind:        application.AttachmentKind(record.Kind),
		Filename:    record.Filename,
		ContentType: record.ContentType,
		SizeBytes:   record.SizeBytes,
		CreatedAt:   record.CreatedAt,
	}
}
