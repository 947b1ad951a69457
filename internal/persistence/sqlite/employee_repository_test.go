package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/hr-timesheet/internal/persistence"
)

func TestEmployeeRepository_CreateEmployee(t *testing.T) {
	pool, cleanup := setupPool(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewEmployeeRepository(pool)

	joined := time.Date(2023, 6, 12, 0, 0, 0, 0, time.UTC)
	employee := testEmployee("emp1")
	employee.JoinDate = &joined

	if err := repo.CreateEmployee(ctx, employee); err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}

	retrieved, err := repo.GetEmployee(ctx, "emp1")
	if err != nil {
		t.Fatalf("GetEmployee failed: %v", err)
	}
	if retrieved.EmpID != "EMP-emp1" {
		t.Errorf("Expected emp_id 'EMP-emp1', got '%s'", retrieved.EmpID)
	}
	if retrieved.Department != "Engineering" {
		t.Errorf("Expected department 'Engineering', got '%s'", retrieved.Department)
	}
	if retrieved.JoinDate == nil || !retrieved.JoinDate.Equal(joined) {
		t.Errorf("Expected join date %v, got %v", joined, retrieved.JoinDate)
	}
	if retrieved.ManagerID != nil {
		t.Errorf("Expected nil manager, got %v", *retrieved.ManagerID)
	}
}

func TestEmployeeRepository_CreateEmployee_DuplicateEmpID(t *testing.T) {
	pool, cleanup := setupPool(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewEmployeeRepository(pool)

	if err := repo.CreateEmployee(ctx, testEmployee("emp1")); err != nil {
		t.Fatalf("First CreateEmployee failed: %v", err)
	}

	dup := testEmployee("emp2")
	dup.EmpID = "EMP-emp1"
	err := repo.CreateEmployee(ctx, dup)
	if !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("Expected ErrDuplicate, got %v", err)
	}
}

func TestEmployeeRepository_CreateEmployee_DuplicateEmail(t *testing.T) {
	pool, cleanup := setupPool(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewEmployeeRepository(pool)

	if err := repo.CreateEmployee(ctx, testEmployee("emp1")); err != nil {
		t.Fatalf("First CreateEmployee failed: %v", err)
	}

	// Email uniqueness is checked after normalisation.
	dup := testEmployee("emp2")
	dup.Email = "EMP1@Example.com"
	err := repo.CreateEmployee(ctx, dup)
	if !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("Expected ErrDuplicate, got %v", err)
	}
}

func TestEmployeeRepository_GetEmployeeByEmail_CaseInsensitive(t *testing.T) {
	pool, cleanup := setupPool(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewEmployeeRepository(pool)

	if err := repo.CreateEmployee(ctx, testEmployee("emp1")); err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}

	retrieved, err := repo.GetEmployeeByEmail(ctx, "  EMP1@EXAMPLE.COM ")
	if err != nil {
		t.Fatalf("GetEmployeeByEmail failed: %v", err)
	}
	if retrieved.ID != "emp1" {
		t.Errorf("Expected ID 'emp1', got '%s'", retrieved.ID)
	}
}

func TestEmployeeRepository_UpdateEmployee(t *testing.T) {
	pool, cleanup := setupPool(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewEmployeeRepository(pool)

	manager := testEmployee("mgr1")
	manager.Role = "manager"
	if err := repo.CreateEmployee(ctx, manager); err != nil {
		t.Fatalf("CreateEmployee manager failed: %v", err)
	}

	employee := testEmployee("emp1")
	if err := repo.CreateEmployee(ctx, employee); err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}

	managerID := "mgr1"
	employee.Name = "Renamed Employee"
	employee.Salary = 61000
	employee.ManagerID = &managerID
	employee.UpdatedAt = employee.UpdatedAt.Add(time.Hour)

	if err := repo.UpdateEmployee(ctx, employee); err != nil {
		t.Fatalf("UpdateEmployee failed: %v", err)
	}

	retrieved, err := repo.GetEmployee(ctx, "emp1")
	if err != nil {
		t.Fatalf("GetEmployee failed: %v", err)
	}
	if retrieved.Name != "Renamed Employee" {
		t.Errorf("Expected name 'Renamed Employee', got '%s'", retrieved.Name)
	}
	if retrieved.Salary != 61000 {
		t.Errorf("Expected salary 61000, got %v", retrieved.Salary)
	}
	if retrieved.ManagerID == nil || *retrieved.ManagerID != "mgr1" {
		t.Errorf("Expected manager 'mgr1', got %v", retrieved.ManagerID)
	}
}

func TestEmployeeRepository_UpdateEmployee_NotFound(t *testing.T) {
	pool, cleanup := setupPool(t)
	defer cleanup()

	err := NewEmployeeRepository(pool).UpdateEmployee(context.Background(), testEmployee("missing"))
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestEmployeeRepository_ListEmployees_Ordering(t *testing.T) {
	pool, cleanup := setupPool(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewEmployeeRepository(pool)

	first := testEmployee("emp1")
	second := testEmployee("emp2")
	second.CreatedAt = second.CreatedAt.Add(time.Hour)
	second.UpdatedAt = second.CreatedAt

	// Insert out of order; listing must come back by creation time.
	if err := repo.CreateEmployee(ctx, second); err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}
	if err := repo.CreateEmployee(ctx, first); err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}

	employees, err := repo.ListEmployees(ctx)
	if err != nil {
		t.Fatalf("ListEmployees failed: %v", err)
	}
	if len(employees) != 2 {
		t.Fatalf("Expected 2 employees, got %d", len(employees))
	}
	if employees[0].ID != "emp1" || employees[1].ID != "emp2" {
		t.Errorf("Expected order [emp1 emp2], got [%s %s]", employees[0].ID, employees[1].ID)
	}
}

func TestEmployeeRepository_DeleteEmployee_Cascades(t *testing.T) {
	pool, cleanup := setupPool(t)
	defer cleanup()

	ctx := context.Background()
	employees := NewEmployeeRepository(pool)
	entries := NewEntryRepository(pool)

	if err := employees.CreateEmployee(ctx, testEmployee("emp1")); err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}
	if err := entries.CreateEntry(ctx, testEntry("entry1", "emp1", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	if err := employees.DeleteEmployee(ctx, "emp1"); err != nil {
		t.Fatalf("DeleteEmployee failed: %v", err)
	}

	if _, err := employees.GetEmployee(ctx, "emp1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for employee, got %v", err)
	}
	if _, err := entries.GetEntry(ctx, "entry1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for cascaded entry, got %v", err)
	}
}

func TestEmployeeRepository_DeleteEmployee_ClearsReports(t *testing.T) {
	pool, cleanup := setupPool(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewEmployeeRepository(pool)

	manager := testEmployee("mgr1")
	manager.Role = "manager"
	if err := repo.CreateEmployee(ctx, manager); err != nil {
		t.Fatalf("CreateEmployee manager failed: %v", err)
	}

	managerID := "mgr1"
	report := testEmployee("emp1")
	report.ManagerID = &managerID
	if err := repo.CreateEmployee(ctx, report); err != nil {
		t.Fatalf("CreateEmployee report failed: %v", err)
	}

	if err := repo.DeleteEmployee(ctx, "mgr1"); err != nil {
		t.Fatalf("DeleteEmployee failed: %v", err)
	}

	// The report survives with its manager reference cleared.
	retrieved, err := repo.GetEmployee(ctx, "emp1")
	if err != nil {
		t.Fatalf("GetEmployee failed: %v", err)
	}
	if retrieved.ManagerID != nil {
		t.Errorf("Expected nil manager after delete, got %v", *retrieved.ManagerID)
	}
}

func TestEmployeeRepository_InvalidRole(t *testing.T) {
	pool, cleanup := setupPool(t)
	defer cleanup()

	employee := testEmployee("emp1")
	employee.Role = "superuser"

	err := NewEmployeeRepository(pool).CreateEmployee(context.Background(), employee)
	if !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("Expected ErrConstraintViolation, got %v", err)
	}
}
