package analytics

import (
	"context"
	"time"
)

// Repo is the append-only analytics event log.
type Repo interface {
	Append(ctx context.Context, e Event) error
	// ListByResumes returns events for the given resumes created at or after since.
	ListByResumes(ctx context.Context, resumeIDs []string, since time.Time) ([]Event, error)
	DeleteByResume(ctx context.Context, resumeID string) error
}
