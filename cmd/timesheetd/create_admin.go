package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/hr-timesheet/internal/application"
	"github.com/example/hr-timesheet/internal/config"
	"github.com/example/hr-timesheet/internal/persistence"
	"github.com/example/hr-timesheet/internal/persistence/sqlite"
)

var (
	adminEmpID      string
	adminName       string
	adminEmail      string
	adminPassword   string
	adminDepartment string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Bootstrap an administrator account",
	RunE:  runCreateAdmin,
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmpID, "emp-id", "ADMIN-1", "Business identifier for the administrator")
	createAdminCmd.Flags().StringVar(&adminName, "name", "Administrator", "Display name")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Login email address (required)")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Login password, at least 8 characters (required)")
	createAdminCmd.Flags().StringVar(&adminDepartment, "department", "Operations", "Department")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	email := strings.TrimSpace(strings.ToLower(adminEmail))
	if email == "" {
		return fmt.Errorf("email must not be empty")
	}
	if len(adminPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	pool, err := sqlite.Open(sqlite.DefaultConfig(cfg.SQLiteDSN))
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer pool.Close()

	if err := pool.Migrate(cmd.Context()); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	hash, err := application.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	admin := persistence.Employee{
		ID:           uuid.NewString(),
		EmpID:        strings.TrimSpace(adminEmpID),
		Name:         strings.TrimSpace(adminName),
		Email:        email,
		Department:   strings.TrimSpace(adminDepartment),
		Role:         string(application.RoleAdmin),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	repo := sqlite.NewEmployeeRepository(pool)
	if err := repo.CreateEmployee(cmd.Context(), admin); err != nil {
		return fmt.Errorf("create administrator: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "administrator %s created with id %s\n", admin.Email, admin.ID)
	return nil
}
