package analytics

import (
	"context"
	"database/sql"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Append inserts an event row.
func (r *PGRepo) Append(ctx context.Context, e Event) error {
	if !e.Kind.Valid() || e.ResumeID == "" {
		return ErrInvalidEvent
	}
	const query = `
INSERT INTO resume_analytics (
    id,
    resume_id,
    event_type,
    ip_address,
    user_agent,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6)`

	var ip sql.NullString
	if e.IPAddress != nil {
		ip = sql.NullString{String: *e.IPAddress, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, query, e.ID, e.ResumeID, string(e.Kind), ip, e.UserAgent, e.CreatedAt)
	return err
}

// ListByResumes returns events for resumeIDs created at or after since, oldest first.
func (r *PGRepo) ListByResumes(ctx context.Context, resumeIDs []string, since time.Time) ([]Event, error) {
	if len(resumeIDs) == 0 {
		return []Event{}, nil
	}
	const query = `
SELECT id, resume_id, event_type, ip_address, user_agent, created_at
FROM resume_analytics
WHERE resume_id = ANY($1) AND created_at >= $2
ORDER BY created_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, resumeIDs, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Event, 0)
	for rows.Next() {
		var (
			e    Event
			kind string
			ip   sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.ResumeID, &kind, &ip, &e.UserAgent, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Kind = Kind(kind)
		if ip.Valid {
			addr := ip.String
			e.IPAddress = &addr
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByResume removes a resume's events. The foreign key cascade makes
// this redundant after a resume delete, so zero affected rows is not an error.
func (r *PGRepo) DeleteByResume(ctx context.Context, resumeID string) error {
	const query = `DELETE FROM resume_analytics WHERE resume_id = $1`
	_, err := r.DB.ExecContext(ctx, query, resumeID)
	return err
}

var _ Repo = (*PGRepo)(nil)
