package db

import (
	"bytes"
	"context"
	"io/fs"
	"strings"
	"testing"

	"resumelink/internal/shared/telemetry"
)

func TestRunMigrationsNilDatabaseIsNoop(t *testing.T) {
	if err := RunMigrations(context.Background(), nil); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestEmbeddedMigrationsAreOrderedAndAnnotated(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("expected at least 2 migrations, got %d", len(entries))
	}
	for i, e := range entries {
		raw, err := fs.ReadFile(migrationFiles, "migrations/"+e.Name())
		if err != nil {
			t.Fatalf("read %s: %v", e.Name(), err)
		}
		body := string(raw)
		if !strings.Contains(body, "-- +goose Up") || !strings.Contains(body, "-- +goose Down") {
			t.Fatalf("%s missing goose annotations", e.Name())
		}
		if i > 0 && entries[i-1].Name() >= e.Name() {
			t.Fatalf("migrations out of order: %s then %s", entries[i-1].Name(), e.Name())
		}
	}
	raw, _ := fs.ReadFile(migrationFiles, "migrations/"+entries[1].Name())
	if !strings.Contains(string(raw), "ON DELETE CASCADE") {
		t.Fatalf("expected analytics events to cascade on resume delete")
	}
}

func TestGooseLoggerWritesStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	restore := telemetry.SetOutput(&buf)
	defer restore()

	gooseLogger{}.Printf("OK   %s (%s)\n", "00001_create_resumes.sql", "4ms")

	out := buf.String()
	if !strings.Contains(out, `"msg":"db.migration"`) || !strings.Contains(out, "00001_create_resumes.sql") {
		t.Fatalf("unexpected log output %q", out)
	}
}
