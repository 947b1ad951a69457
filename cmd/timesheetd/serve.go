package main

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/hr-timesheet/internal/application"
	"github.com/example/hr-timesheet/internal/blobstore"
	"github.com/example/hr-timesheet/internal/config"
	httptransport "github.com/example/hr-timesheet/internal/http"
	"github.com/example/hr-timesheet/internal/logging"
	"github.com/example/hr-timesheet/internal/persistence/sqlite"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the timesheet API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := logging.NewLogger(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	pool, err := sqlite.Open(sqlite.DefaultConfig(cfg.SQLiteDSN))
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	blobs, err := blobstore.New(cfg.BlobDir)
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return signedToken(cfg.SessionSecret) }
	now := time.Now

	employeeRepo := newEmployeeRepositoryAdapter(sqlite.NewEmployeeRepository(pool))
	entryRepo := newEntryRepositoryAdapter(sqlite.NewEntryRepository(pool))
	sessionRepo := newSessionRepositoryAdapter(sqlite.NewSessionRepository(pool))
	attachmentRepo := newAttachmentRepositoryAdapter(sqlite.NewAttachmentRepository(pool))

	employeeService := application.NewEmployeeService(employeeRepo, nil, idGenerator, now, logger)
	timesheetService := application.NewTimesheetService(entryRepo, employeeRepo, idGenerator, now, logger)
	authService := application.NewAuthService(employeeRepo, sessionRepo, nil, tokenGenerator, now, cfg.SessionTTL, logger)
	fileService := application.NewFileService(attachmentRepo, blobs, employeeRepo, idGenerator, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:      httptransport.NewAuthHandler(authService, logger),
		Employees: httptransport.NewEmployeeHandler(employeeService, logger),
		Timesheet: httptransport.NewTimesheetHandler(timesheetService, logger),
		Files:     httptransport.NewFileHandler(fileService, logger),
	})

	protected := httptransport.RequireSession(authService, logger)(router)
	handler := httptransport.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/sessions" && r.Method == http.MethodPost {
			router.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	}))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("timesheet API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// signedToken derives a session token from fresh randomness plus an HMAC
// keyed by the configured session secret.
func signedToken(secret string) string {
	buf := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		buf = []byte(fmt.Sprintf("fallback-%d", time.Now().UnixNano()))
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(buf)
	return hex.EncodeToString(buf) + "." + hex.EncodeToString(mac.Sum(nil)[:8])
}
