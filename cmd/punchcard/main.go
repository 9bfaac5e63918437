package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/punchcardhq/punchcard/internal/adapter/driven/jsonfile"
	sheetsadapter "github.com/punchcardhq/punchcard/internal/adapter/driven/sheets"
	sqliteadapter "github.com/punchcardhq/punchcard/internal/adapter/driven/sqlite"
	httphandler "github.com/punchcardhq/punchcard/internal/adapter/driving/http"
	"github.com/punchcardhq/punchcard/internal/application"
	"github.com/punchcardhq/punchcard/internal/config"
	"github.com/punchcardhq/punchcard/internal/domain/port/driven"
	"github.com/punchcardhq/punchcard/internal/totp"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"employee_file", cfg.EmployeeFile,
		"entries_file", cfg.EntriesFile,
		"db_path", cfg.DBPath,
		"mirror_configured", cfg.HasMirror(),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the sync journal database and run migrations.
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("journal database ready", "path", cfg.DBPath)

	// 4. Wire the file-backed stores.
	employeeStore := jsonfile.NewEmployeeRepo(cfg.EmployeeFile, cfg.LockTimeout)
	entryLog := jsonfile.NewEntryRepo(cfg.EntriesFile, cfg.LockTimeout)
	journal := sqliteadapter.NewJournalRepo(db)

	// 5. Create the mirror client when a spreadsheet is configured. Without
	// one, entries are still recorded locally and every sync degrades.
	var mirror driven.Mirror
	if cfg.HasMirror() {
		client, err := sheetsadapter.NewClient(ctx, cfg.CredsFile, cfg.SpreadsheetID, cfg.SheetRange, cfg.MirrorTimeout)
		if err != nil {
			return err
		}
		mirror = client
		slog.Info("mirror client created", "spreadsheet_id", cfg.SpreadsheetID, "range", cfg.SheetRange)
	} else {
		slog.Warn("no spreadsheet configured, mirror sync disabled")
	}

	// 6. Wire the services.
	engine := totp.New(cfg.Issuer)
	syncSvc := application.NewSyncService(entryLog, employeeStore, mirror, journal)
	attendanceSvc := application.NewAttendanceService(employeeStore, entryLog, engine, syncSvc)
	directorySvc := application.NewDirectoryService(employeeStore, engine)
	gate := application.NewAdminGate(cfg.AdminSecret)

	// 7. Create the HTTP handler and server.
	handler := httphandler.NewHandler(attendanceSvc, directorySvc, syncSvc, entryLog, slog.Default())
	mux := httphandler.NewServeMux(handler, gate, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("punchcard started", "listen_addr", cfg.ListenAddr, "issuer", cfg.Issuer)

	// 8. Wait for shutdown signal, then drain.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
