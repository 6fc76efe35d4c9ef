package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"resumelink/internal/analytics"
	"resumelink/internal/resumes"
)

// Counter update strategies.
const (
	// ModeAtomic adds one at the store in a single operation.
	ModeAtomic = "atomic"
	// ModeLastRead writes observed+1. Concurrent jobs for the same resume can
	// lose increments.
	ModeLastRead = "last_read"
)

// Applier performs or forwards a tracking job.
type Applier interface {
	Apply(ctx context.Context, job Job) error
}

// EventAppender writes analytics events.
type EventAppender interface {
	Append(ctx context.Context, e analytics.Event) error
}

// CounterStore updates resume counters.
type CounterStore interface {
	IncrementCounter(ctx context.Context, id string, c resumes.Counter) (int64, error)
	SetCounter(ctx context.Context, id string, c resumes.Counter, value int64) error
}

// Sink applies jobs against the event log and the resume store.
type Sink struct {
	Events   EventAppender
	Counters CounterStore
	Mode     string
	Now      func() time.Time
}

// Apply appends the event and then updates the counter. Both steps run even
// when the first fails; the returned error joins whatever went wrong.
func (s *Sink) Apply(ctx context.Context, job Job) error {
	if err := job.validate(); err != nil {
		return err
	}

	at := job.OccurredAt
	if at.IsZero() {
		at = s.now()
	}
	eventErr := s.Events.Append(ctx, analytics.Event{
		ID:        uuid.NewString(),
		ResumeID:  job.ResumeID,
		Kind:      job.Kind,
		UserAgent: job.UserAgent,
		CreatedAt: at.UTC(),
	})
	if eventErr != nil {
		eventErr = fmt.Errorf("append %s event: %w", job.Kind, eventErr)
	}

	var counterErr error
	if s.Mode == ModeLastRead {
		counterErr = s.Counters.SetCounter(ctx, job.ResumeID, job.Counter(), job.Observed+1)
	} else {
		_, counterErr = s.Counters.IncrementCounter(ctx, job.ResumeID, job.Counter())
	}
	if counterErr != nil {
		counterErr = fmt.Errorf("update %s counter: %w", job.Counter(), counterErr)
	}

	return errors.Join(eventErr, counterErr)
}

func (s *Sink) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

var _ Applier = (*Sink)(nil)
