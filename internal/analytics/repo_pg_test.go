package analytics

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// passthroughConverter lets array arguments reach the mock unchanged, as
// the pgx driver accepts them natively.
type passthroughConverter struct{}

func (passthroughConverter) ConvertValue(v any) (driver.Value, error) {
	if ids, ok := v.([]string); ok {
		return ids, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(v)
}

func TestPGRepoAppendWritesNullIP(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO resume_analytics").
		WithArgs("evt-1", "res-1", "view", nil, "Mozilla/5.0", at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Append(context.Background(), Event{
		ID:        "evt-1",
		ResumeID:  "res-1",
		Kind:      KindView,
		UserAgent: "Mozilla/5.0",
		CreatedAt: at,
	}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByResumes(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(passthroughConverter{}))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	since := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	at := since.Add(48 * time.Hour)
	mock.ExpectQuery("FROM resume_analytics\\s+WHERE resume_id = ANY\\(\\$1\\) AND created_at >= \\$2").
		WithArgs([]string{"a", "b"}, since).
		WillReturnRows(sqlmock.NewRows([]string{"id", "resume_id", "event_type", "ip_address", "user_agent", "created_at"}).
			AddRow("e1", "a", "view", nil, "ua", at).
			AddRow("e2", "b", "download", "10.0.0.1", "ua", at))

	got, err := repo.ListByResumes(context.Background(), []string{"a", "b"}, since)
	if err != nil {
		t.Fatalf("ListByResumes: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Kind != KindView || got[0].IPAddress != nil {
		t.Fatalf("unexpected first event %+v", got[0])
	}
	if got[1].Kind != KindDownload || got[1].IPAddress == nil || *got[1].IPAddress != "10.0.0.1" {
		t.Fatalf("unexpected second event %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByResumesEmptySkipsQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	got, err := (&PGRepo{DB: db}).ListByResumes(context.Background(), nil, time.Now())
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty result, got %v %v", got, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
