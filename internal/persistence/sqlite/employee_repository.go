package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/hr-timesheet/internal/persistence"
)

// EmployeeRepository implements persistence.EmployeeRepository over SQLite.
type EmployeeRepository struct {
	pool *Pool
}

// NewEmployeeRepository creates a SQLite-backed employee repository.
func NewEmployeeRepository(pool *Pool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

const employeeColumns = `id, emp_id, name, email, department, salary, join_date, role, manager_id, password_hash, disabled, created_at, updated_at`

// CreateEmployee inserts a new employee. Duplicate emp_id or email surfaces
// as persistence.ErrDuplicate via the unique constraints.
func (r *EmployeeRepository) CreateEmployee(ctx context.Context, employee persistence.Employee) error {
	if employee.ID == "" || employee.PasswordHash == "" {
		return persistence.ErrConstraintViolation
	}

	_, err := r.pool.db.ExecContext(ctx, `
		INSERT INTO employees (`+employeeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		employee.ID,
		employee.EmpID,
		employee.Name,
		normalizeEmail(employee.Email),
		employee.Department,
		employee.Salary,
		nullableDate(employee.JoinDate),
		employee.Role,
		employee.ManagerID,
		employee.PasswordHash,
		employee.Disabled,
		employee.CreatedAt.UTC().Format(time.RFC3339),
		employee.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// UpdateEmployee updates an existing employee record.
func (r *EmployeeRepository) UpdateEmployee(ctx context.Context, employee persistence.Employee) error {
	if employee.ID == "" || employee.PasswordHash == "" {
		return persistence.ErrConstraintViolation
	}

	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE employees
		SET emp_id = ?, name = ?, email = ?, department = ?, salary = ?,
		    join_date = ?, role = ?, manager_id = ?, password_hash = ?,
		    disabled = ?, updated_at = ?
		WHERE id = ?
	`,
		employee.EmpID,
		employee.Name,
		normalizeEmail(employee.Email),
		employee.Department,
		employee.Salary,
		nullableDate(employee.JoinDate),
		employee.Role,
		employee.ManagerID,
		employee.PasswordHash,
		employee.Disabled,
		employee.UpdatedAt.UTC().Format(time.RFC3339),
		employee.ID,
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

// GetEmployee retrieves an employee by ID.
func (r *EmployeeRepository) GetEmployee(ctx context.Context, id string) (persistence.Employee, error) {
	if id == "" {
		return persistence.Employee{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)
	return scanEmployee(row)
}

// GetEmployeeByEmail retrieves an employee by normalised email address.
func (r *EmployeeRepository) GetEmployeeByEmail(ctx context.Context, email string) (persistence.Employee, error) {
	if email == "" {
		return persistence.Employee{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE email = ?`, normalizeEmail(email))
	return scanEmployee(row)
}

// ListEmployees returns all employees ordered by creation time then ID.
func (r *EmployeeRepository) ListEmployees(ctx context.Context) ([]persistence.Employee, error) {
	rows, err := r.pool.db.QueryContext(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var employees []persistence.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

// DeleteEmployee removes an employee; dependent entries, sessions, and
// attachment metadata go with it via cascading foreign keys.
func (r *EmployeeRepository) DeleteEmployee(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (persistence.Employee, error) {
	var (
		employee  persistence.Employee
		joinDate  sql.NullString
		managerID sql.NullString
		createdAt string
		updatedAt string
	)

	err := row.Scan(
		&employee.ID,
		&employee.EmpID,
		&employee.Name,
		&employee.Email,
		&employee.Department,
		&employee.Salary,
		&joinDate,
		&employee.Role,
		&managerID,
		&employee.PasswordHash,
		&employee.Disabled,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Employee{}, mapError(err)
	}

	if joinDate.Valid {
		parsed, err := time.Parse("2006-01-02", joinDate.String)
		if err != nil {
			return persistence.Employee{}, fmt.Errorf("failed to parse join_date: %w", err)
		}
		employee.JoinDate = &parsed
	}
	if managerID.Valid {
		manager := managerID.String
		employee.ManagerID = &manager
	}
	if employee.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.Employee{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if employee.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.Employee{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return employee, nil
}

func nullableDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format("2006-01-02")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
