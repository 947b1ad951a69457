package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/hr-timesheet/internal/application"
	"github.com/example/hr-timesheet/internal/persistence/sqlite"
)

func TestSignedToken(t *testing.T) {
	const secret = "test-secret"

	first := signedToken(secret)
	second := signedToken(secret)
	if first == second {
		t.Fatalf("expected distinct tokens, got %q twice", first)
	}

	parts := strings.Split(first, ".")
	if len(parts) != 2 {
		t.Fatalf("expected two dot-separated parts, got %q", first)
	}

	random, err := hex.DecodeString(parts[0])
	if err != nil {
		t.Fatalf("random part is not hex: %v", err)
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(random)
	if expected := hex.EncodeToString(mac.Sum(nil)[:8]); parts[1] != expected {
		t.Fatalf("expected signature %q, got %q", expected, parts[1])
	}
}

func setupAdapterTest(t *testing.T) *sqlite.Pool {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	pool, err := sqlite.Open(sqlite.DefaultConfig(dbPath))
	if err != nil {
		t.Fatalf("Failed to open pool: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	if err := pool.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return pool
}

func TestEmployeeRepositoryAdapter_PreservesCredentialsOnUpdate(t *testing.T) {
	pool := setupAdapterTest(t)
	adapter := newEmployeeRepositoryAdapter(sqlite.NewEmployeeRepository(pool))
	ctx := context.Background()

	now := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	employee := application.Employee{
		ID:         "employee-1",
		EmpID:      "E-100",
		Name:       "Avery Chen",
		Email:      "avery@example.com",
		Department: "Engineering",
		Salary:     50000,
		Role:       application.RoleEmployee,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := adapter.CreateEmployee(ctx, employee, "hash:original")
	if err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}
	if created.Name != "Avery Chen" {
		t.Fatalf("Expected created name to round-trip, got %q", created.Name)
	}

	created.Name = "Avery M. Chen"
	created.UpdatedAt = now.Add(time.Hour)
	updated, err := adapter.UpdateEmployee(ctx, created)
	if err != nil {
		t.Fatalf("UpdateEmployee failed: %v", err)
	}
	if updated.Name != "Avery M. Chen" {
		t.Fatalf("Expected updated name, got %q", updated.Name)
	}

	credentials, err := adapter.GetEmployeeCredentials(ctx, "employee-1")
	if err != nil {
		t.Fatalf("GetEmployeeCredentials failed: %v", err)
	}
	if credentials.PasswordHash != "hash:original" {
		t.Fatalf("Expected password hash to survive the update, got %q", credentials.PasswordHash)
	}

	byEmail, err := adapter.GetEmployeeCredentialsByEmail(ctx, "avery@example.com")
	if err != nil {
		t.Fatalf("GetEmployeeCredentialsByEmail failed: %v", err)
	}
	if byEmail.Employee.ID != "employee-1" {
		t.Fatalf("Expected lookup by email to find employee-1, got %q", byEmail.Employee.ID)
	}
}

func TestEntryRepositoryAdapter_ListsByRange(t *testing.T) {
	pool := setupAdapterTest(t)
	employees := newEmployeeRepositoryAdapter(sqlite.NewEmployeeRepository(pool))
	entries := newEntryRepositoryAdapter(sqlite.NewEntryRepository(pool))
	ctx := context.Background()

	now := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	if _, err := employees.CreateEmployee(ctx, application.Employee{
		ID:        "employee-1",
		EmpID:     "E-100",
		Name:      "Avery Chen",
		Email:     "avery@example.com",
		Role:      application.RoleEmployee,
		CreatedAt: now,
		UpdatedAt: now,
	}, "hash:original"); err != nil {
		t.Fatalf("CreateEmployee failed: %v", err)
	}

	end := "17:30"
	hours := 8.0
	for i, date := range []time.Time{
		time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 25, 0, 0, 0, 0, time.UTC),
	} {
		entry := application.TimeEntry{
			ID:           "entry-" + string(rune('a'+i)),
			EmployeeID:   "employee-1",
			Date:         date,
			Start:        "09:00",
			End:          &end,
			BreakMinutes: 30,
			TotalHours:   &hours,
			Status:       application.StatusPendingApproval,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if _, err := entries.CreateEntry(ctx, entry); err != nil {
			t.Fatalf("CreateEntry failed for %s: %v", date, err)
		}
	}

	listed, err := entries.ListEntries(ctx, "employee-1",
		time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 17, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("Expected 2 entries in range, got %d", len(listed))
	}
	if listed[0].Start != "09:00" || listed[0].End == nil || *listed[0].End != "17:30" {
		t.Fatalf("Expected wire times to round-trip, got %+v", listed[0])
	}
}
