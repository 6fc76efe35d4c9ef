package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"

	"resumelink/internal/shared/telemetry"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// goose keeps its dialect, filesystem and logger in package state.
var gooseMu sync.Mutex

// RunMigrations applies the embedded migrations for resumes and their
// analytics events. A nil database is a no-op.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationFiles)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, database, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, database)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	telemetry.Info("db.migrated", map[string]any{"version": version})
	return nil
}

// gooseLogger routes goose output to structured logs.
type gooseLogger struct{}

func (gooseLogger) Fatal(v ...interface{}) { gooseLogger{}.Print(v...) }

func (gooseLogger) Fatalf(format string, v ...interface{}) { gooseLogger{}.Printf(format, v...) }

func (gooseLogger) Print(v ...interface{}) {
	telemetry.Info("db.migration", map[string]any{"detail": strings.TrimSpace(fmt.Sprint(v...))})
}

func (gooseLogger) Println(v ...interface{}) { gooseLogger{}.Print(v...) }

func (gooseLogger) Printf(format string, v ...interface{}) {
	telemetry.Info("db.migration", map[string]any{"detail": strings.TrimSpace(fmt.Sprintf(format, v...))})
}
