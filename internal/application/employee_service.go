package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"sort"
	"strings"
	"time"
)

// EmployeeRepository captures the persistence operations needed by the employee service.
type EmployeeRepository interface {
	CreateEmployee(ctx context.Context, employee Employee, passwordHash string) (Employee, error)
	UpdateEmployee(ctx context.Context, employee Employee) (Employee, error)
	GetEmployee(ctx context.Context, id string) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

// PasswordHasher derives a storable hash from a plaintext password.
type PasswordHasher func(password string) (string, error)

// EmployeeService orchestrates validation, authorization, and persistence
// for employee records.
type EmployeeService struct {
	employees    EmployeeRepository
	hashPassword PasswordHasher
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewEmployeeService wires dependencies for the employee service.
func NewEmployeeService(employees EmployeeRepository, hashPassword PasswordHasher, idGenerator func() string, now func() time.Time, logger *slog.Logger) *EmployeeService {
	if hashPassword == nil {
		hashPassword = HashPassword
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &EmployeeService{
		employees:    employees,
		hashPassword: hashPassword,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *EmployeeService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EmployeeService", operation, attrs...)
}

// CreateEmployee validates input and persists a new employee for administrators.
func (s *EmployeeService) CreateEmployee(ctx context.Context, params CreateEmployeeParams) (Employee, error) {
	if s == nil {
		return Employee{}, fmt.Errorf("EmployeeService is nil")
	}
	if !params.Principal.IsAdmin() {
		return Employee{}, ErrUnauthorized
	}
	if s.employees == nil {
		return Employee{}, fmt.Errorf("employee repository not configured")
	}

	logger := s.loggerWith(ctx, "CreateEmployee", "emp_id", params.Input.EmpID)

	normalized := normalizeEmployeeInput(params.Input)
	vErr := validateEmployeeInput(normalized, true)
	if err := s.checkManagerReference(ctx, normalized.ManagerID, "", vErr); err != nil {
		return Employee{}, err
	}
	if vErr.HasErrors() {
		return Employee{}, vErr
	}

	hash, err := s.hashPassword(normalized.Password)
	if err != nil {
		return Employee{}, fmt.Errorf("failed to hash password: %w", err)
	}

	employee := Employee{
		ID:         s.idGenerator(),
		EmpID:      normalized.EmpID,
		Name:       normalized.Name,
		Email:      normalized.Email,
		Department: normalized.Department,
		Salary:     normalized.Salary,
		JoinDate:   normalized.JoinDate,
		Role:       normalized.Role,
		ManagerID:  normalized.ManagerID,
		CreatedAt:  s.now(),
	}
	employee.UpdatedAt = employee.CreatedAt

	persisted, err := s.employees.CreateEmployee(ctx, employee, hash)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to create employee", "error", err, "error_kind", ErrorKind(err))
		return Employee{}, err
	}

	logger.With("employee_id", persisted.ID).InfoContext(ctx, "employee created")
	return persisted, nil
}

// UpdateEmployee validates input and updates an existing employee for administrators.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, params UpdateEmployeeParams) (Employee, error) {
	if s == nil {
		return Employee{}, fmt.Errorf("EmployeeService is nil")
	}
	if !params.Principal.IsAdmin() {
		return Employee{}, ErrUnauthorized
	}
	if s.employees == nil {
		return Employee{}, fmt.Errorf("employee repository not configured")
	}

	logger := s.loggerWith(ctx, "UpdateEmployee", "employee_id", params.EmployeeID)

	existing, err := s.employees.GetEmployee(ctx, params.EmployeeID)
	if err != nil {
		return Employee{}, mapRepoError(err)
	}

	normalized := normalizeEmployeeInput(params.Input)
	vErr := validateEmployeeInput(normalized, false)
	if err := s.checkManagerReference(ctx, normalized.ManagerID, existing.ID, vErr); err != nil {
		return Employee{}, err
	}
	if vErr.HasErrors() {
		return Employee{}, vErr
	}

	updated := existing
	updated.EmpID = normalized.EmpID
	updated.Name = normalized.Name
	updated.Email = normalized.Email
	updated.Department = normalized.Department
	updated.Salary = normalized.Salary
	updated.JoinDate = normalized.JoinDate
	updated.Role = normalized.Role
	updated.ManagerID = normalized.ManagerID
	updated.UpdatedAt = s.now()

	persisted, err := s.employees.UpdateEmployee(ctx, updated)
	if err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to update employee", "error", err, "error_kind", ErrorKind(err))
		return Employee{}, err
	}

	logger.InfoContext(ctx, "employee updated")
	return persisted, nil
}

// GetEmployee returns one employee record. Admins may read anyone;
// everyone else only their own record or that of a direct report.
func (s *EmployeeService) GetEmployee(ctx context.Context, principal Principal, employeeID string) (Employee, error) {
	if s == nil {
		return Employee{}, fmt.Errorf("EmployeeService is nil")
	}
	if s.employees == nil {
		return Employee{}, fmt.Errorf("employee repository not configured")
	}

	employee, err := s.employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return Employee{}, mapRepoError(err)
	}

	switch {
	case principal.IsAdmin():
	case principal.EmployeeID == employee.ID:
	case principal.Role == RoleManager && employee.ManagerID != nil && *employee.ManagerID == principal.EmployeeID:
	default:
		return Employee{}, ErrUnauthorized
	}

	return employee, nil
}

// ListEmployees returns the directory visible to any authenticated principal,
// ordered by business id.
func (s *EmployeeService) ListEmployees(ctx context.Context, principal Principal) ([]Employee, error) {
	if s == nil {
		return nil, fmt.Errorf("EmployeeService is nil")
	}
	if principal.EmployeeID == "" {
		return nil, ErrUnauthorized
	}
	if s.employees == nil {
		return nil, nil
	}

	employees, err := s.employees.ListEmployees(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}

	out := make([]Employee, len(employees))
	copy(out, employees)

	sort.Slice(out, func(i, j int) bool {
		if out[i].EmpID == out[j].EmpID {
			return out[i].ID < out[j].ID
		}
		return out[i].EmpID < out[j].EmpID
	})

	return out, nil
}

// DeleteEmployee removes an employee when requested by an administrator.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, principal Principal, employeeID string) error {
	if s == nil {
		return fmt.Errorf("EmployeeService is nil")
	}
	if !principal.IsAdmin() {
		return ErrUnauthorized
	}
	if s.employees == nil {
		return fmt.Errorf("employee repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteEmployee", "employee_id", employeeID)

	if err := s.employees.DeleteEmployee(ctx, employeeID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete employee", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "employee deleted")
	return nil
}

// checkManagerReference verifies that a supplied manager id points at an
// existing manager or admin and is not a self-reference.
func (s *EmployeeService) checkManagerReference(ctx context.Context, managerID *string, selfID string, vErr *ValidationError) error {
	if managerID == nil {
		return nil
	}
	if selfID != "" && *managerID == selfID {
		vErr.add("manager_id", "employee cannot manage themselves")
		return nil
	}

	manager, err := s.employees.GetEmployee(ctx, *managerID)
	if err != nil {
		if mapRepoError(err) == ErrNotFound {
			vErr.add("manager_id", "manager not found")
			return nil
		}
		return err
	}
	if manager.Role != RoleManager && manager.Role != RoleAdmin {
		vErr.add("manager_id", "must reference a manager")
	}
	return nil
}

func normalizeEmployeeInput(input EmployeeInput) EmployeeInput {
	input.EmpID = strings.TrimSpace(input.EmpID)
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Department = strings.TrimSpace(input.Department)
	if input.Role == "" {
		input.Role = RoleEmployee
	}
	if input.ManagerID != nil {
		trimmed := strings.TrimSpace(*input.ManagerID)
		if trimmed == "" {
			input.ManagerID = nil
		} else {
			input.ManagerID = &trimmed
		}
	}
	return input
}

func validateEmployeeInput(input EmployeeInput, requirePassword bool) *ValidationError {
	vErr := &ValidationError{}

	if input.EmpID == "" {
		vErr.add("emp_id", "employee id is required")
	}
	if input.Name == "" {
		vErr.add("name", "name is required")
	}
	if input.Email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		vErr.add("email", "email is invalid")
	}
	if input.Salary < 0 {
		vErr.add("salary", "salary must not be negative")
	}
	if !input.Role.Valid() {
		vErr.add("role", "role must be admin, manager, or employee")
	}
	if requirePassword {
		if len(input.Password) < 8 {
			vErr.add("password", "password must be at least 8 characters")
		}
	} else if input.Password != "" {
		vErr.add("password", "password cannot be changed here")
	}

	return vErr
}
