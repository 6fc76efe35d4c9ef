package resumes

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation   = "23505"
	shortIDConstraint   = "resumes_short_id_key"
	resumeSelectColumns = `id, user_id, title, file_url, file_name, short_id, views, downloads, page_count, created_at`
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new resume.
func (r *PGRepo) Create(ctx context.Context, res Resume) error {
	const query = `
INSERT INTO resumes (
    id,
    user_id,
    title,
    file_url,
    file_name,
    short_id,
    views,
    downloads,
    page_count,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		res.ID,
		res.UserID,
		res.Title,
		res.FileURL,
		res.FileName,
		res.ShortID,
		res.Views,
		res.Downloads,
		res.PageCount,
		res.CreatedAt,
	)
	if isShortIDConflict(err) {
		return ErrDuplicateShortID
	}
	return err
}

// GetByID returns a resume by id.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	const query = `SELECT ` + resumeSelectColumns + ` FROM resumes WHERE id = $1`
	return scanResume(r.DB.QueryRowContext(ctx, query, id))
}

// GetByShortID returns the resume a short link points to.
func (r *PGRepo) GetByShortID(ctx context.Context, shortID string) (Resume, error) {
	const query = `SELECT ` + resumeSelectColumns + ` FROM resumes WHERE short_id = $1`
	return scanResume(r.DB.QueryRowContext(ctx, query, shortID))
}

// ListByUser returns a user's resumes newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	const query = `SELECT ` + resumeSelectColumns + `
FROM resumes
WHERE user_id = $1
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Resume, 0)
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a resume owned by userID. Analytics rows cascade.
func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM resumes WHERE id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// IncrementCounter adds one to a counter in a single UPDATE.
func (r *PGRepo) IncrementCounter(ctx context.Context, id string, c Counter) (int64, error) {
	const (
		incViews     = `UPDATE resumes SET views = views + 1 WHERE id = $1 RETURNING views`
		incDownloads = `UPDATE resumes SET downloads = downloads + 1 WHERE id = $1 RETURNING downloads`
	)
	var query string
	switch c {
	case CounterViews:
		query = incViews
	case CounterDownloads:
		query = incDownloads
	default:
		return 0, ErrInvalidInput
	}

	var value int64
	if err := r.DB.QueryRowContext(ctx, query, id).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return value, nil
}

// SetCounter overwrites a counter with value.
func (r *PGRepo) SetCounter(ctx context.Context, id string, c Counter, value int64) error {
	const (
		setViews     = `UPDATE resumes SET views = $2 WHERE id = $1`
		setDownloads = `UPDATE resumes SET downloads = $2 WHERE id = $1`
	)
	var query string
	switch c {
	case CounterViews:
		query = setViews
	case CounterDownloads:
		query = setDownloads
	default:
		return ErrInvalidInput
	}

	result, err := r.DB.ExecContext(ctx, query, id, value)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var res Resume
	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.Title,
		&res.FileURL,
		&res.FileName,
		&res.ShortID,
		&res.Views,
		&res.Downloads,
		&res.PageCount,
		&res.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return res, nil
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isShortIDConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == shortIDConstraint
}

var _ Repo = (*PGRepo)(nil)
