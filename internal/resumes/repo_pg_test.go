package resumes

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func resumeColumns() []string {
	return []string{"id", "user_id", "title", "file_url", "file_name", "short_id", "views", "downloads", "page_count", "created_at"}
}

func TestPGRepoCreateMapsShortIDConflict(t *testing.T) {
	repo, mock := newMockRepo(t)
	res := Resume{
		ID:        "7d7e1a5c-6c0a-4d7c-9a53-3f1c2b1d9e10",
		UserID:    "u1",
		Title:     "cv",
		FileURL:   "http://files/u1/abcd1234-cv.pdf",
		FileName:  "cv.pdf",
		ShortID:   "abcd1234",
		PageCount: 1,
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO resumes").
		WithArgs(res.ID, res.UserID, res.Title, res.FileURL, res.FileName, res.ShortID, int64(0), int64(0), 1, res.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "resumes_short_id_key"})

	if err := repo.Create(context.Background(), res); !errors.Is(err, ErrDuplicateShortID) {
		t.Fatalf("expected ErrDuplicateShortID, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreatePassesOtherErrors(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("INSERT INTO resumes").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "resumes_pkey"})

	err := repo.Create(context.Background(), Resume{ID: "x", ShortID: "abcd"})
	if err == nil || errors.Is(err, ErrDuplicateShortID) {
		t.Fatalf("expected raw error, got %v", err)
	}
}

func TestPGRepoGetByShortID(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT .* FROM resumes WHERE short_id = \\$1").
		WithArgs("abcd1234").
		WillReturnRows(sqlmock.NewRows(resumeColumns()).
			AddRow("id-1", "u1", "cv", "http://f", "cv.pdf", "abcd1234", int64(4), int64(1), 2, created))

	res, err := repo.GetByShortID(context.Background(), "abcd1234")
	if err != nil {
		t.Fatalf("GetByShortID: %v", err)
	}
	if res.ID != "id-1" || res.Views != 4 || res.Downloads != 1 || res.PageCount != 2 {
		t.Fatalf("unexpected resume %+v", res)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByShortIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT .* FROM resumes WHERE short_id = \\$1").
		WithArgs("zzzz1").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByShortID(context.Background(), "zzzz1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoIncrementCounter(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("UPDATE resumes SET views = views \\+ 1 WHERE id = \\$1 RETURNING views").
		WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows([]string{"views"}).AddRow(int64(8)))
	mock.ExpectQuery("UPDATE resumes SET downloads = downloads \\+ 1 WHERE id = \\$1 RETURNING downloads").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.IncrementCounter(context.Background(), "id-1", CounterViews)
	if err != nil {
		t.Fatalf("IncrementCounter: %v", err)
	}
	if got != 8 {
		t.Fatalf("expected 8, got %d", got)
	}
	if _, err := repo.IncrementCounter(context.Background(), "missing", CounterDownloads); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.IncrementCounter(context.Background(), "id-1", Counter("likes")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSetCounter(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("UPDATE resumes SET downloads = \\$2 WHERE id = \\$1").
		WithArgs("id-1", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE resumes SET views = \\$2 WHERE id = \\$1").
		WithArgs("gone", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SetCounter(context.Background(), "id-1", CounterDownloads, 3); err != nil {
		t.Fatalf("SetCounter: %v", err)
	}
	if err := repo.SetCounter(context.Background(), "gone", CounterViews, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDeleteScopesToOwner(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("DELETE FROM resumes WHERE id = \\$1 AND user_id = \\$2").
		WithArgs("id-1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "intruder", "id-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByUser(t *testing.T) {
	repo, mock := newMockRepo(t)
	newer := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-24 * time.Hour)
	mock.ExpectQuery("SELECT .* FROM resumes\\s+WHERE user_id = \\$1\\s+ORDER BY created_at DESC").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(resumeColumns()).
			AddRow("b", "u1", "B", "u", "b.pdf", "bbbb", int64(0), int64(0), 1, newer).
			AddRow("a", "u1", "A", "u", "a.pdf", "aaaa", int64(2), int64(1), 1, older))

	items, err := repo.ListByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(items) != 2 || items[0].ID != "b" || items[1].ID != "a" {
		t.Fatalf("unexpected items %+v", items)
	}
}
