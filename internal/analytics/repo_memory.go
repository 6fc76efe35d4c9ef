package analytics

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Append records an event.
func (r *MemoryRepo) Append(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !e.Kind.Valid() || e.ResumeID == "" {
		return ErrInvalidEvent
	}
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
	return nil
}

// ListByResumes returns matching events in insertion order.
func (r *MemoryRepo) ListByResumes(ctx context.Context, resumeIDs []string, since time.Time) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	wanted := make(map[string]struct{}, len(resumeIDs))
	for _, id := range resumeIDs {
		wanted[id] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Event, 0)
	for _, e := range r.events {
		if _, ok := wanted[e.ResumeID]; !ok {
			continue
		}
		if e.CreatedAt.Before(since) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// DeleteByResume drops every event for a resume.
func (r *MemoryRepo) DeleteByResume(ctx context.Context, resumeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.events[:0]
	for _, e := range r.events {
		if e.ResumeID != resumeID {
			kept = append(kept, e)
		}
	}
	r.events = kept
	return nil
}

// Count returns the number of stored events of kind for a resume.
func (r *MemoryRepo) Count(resumeID string, kind Kind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, e := range r.events {
		if e.ResumeID == resumeID && e.Kind == kind {
			n++
		}
	}
	return n
}

var _ Repo = (*MemoryRepo)(nil)
