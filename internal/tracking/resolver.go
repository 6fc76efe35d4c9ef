package tracking

import (
	"context"
	"errors"
	"time"

	"resumelink/internal/analytics"
	"resumelink/internal/resumes"
	"resumelink/internal/shared/metrics"
	"resumelink/internal/shortid"
)

// ResumeFinder looks a resume up by its short id.
type ResumeFinder interface {
	GetByShortID(ctx context.Context, shortID string) (resumes.Resume, error)
}

// Resolver turns a short id into its resume and records a view.
type Resolver struct {
	Resumes    ResumeFinder
	Dispatcher Dispatcher
	Now        func() time.Time
}

// Resolve returns the resume behind shortID. A miss returns
// resumes.ErrNotFound and nothing is written. On a hit one view job is
// dispatched; its outcome never affects the result.
func (r *Resolver) Resolve(ctx context.Context, shortID string, who Requester) (resumes.Resume, error) {
	res, err := lookup(ctx, r.Resumes, shortID)
	if err != nil {
		return resumes.Resume{}, err
	}
	r.Dispatcher.Dispatch(newJob(analytics.KindView, res, who, nowOr(r.Now)))
	metrics.IncResolve("found")
	return res, nil
}

// Lookup reads the resume behind shortID without recording anything.
func (r *Resolver) Lookup(ctx context.Context, shortID string) (resumes.Resume, error) {
	return lookup(ctx, r.Resumes, shortID)
}

// DownloadTracker records explicit downloads of an already loaded resume.
type DownloadTracker struct {
	Dispatcher Dispatcher
	Now        func() time.Time
}

// Track dispatches one download job for res and returns immediately.
func (t *DownloadTracker) Track(_ context.Context, res resumes.Resume, who Requester) {
	t.Dispatcher.Dispatch(newJob(analytics.KindDownload, res, who, nowOr(t.Now)))
}

func lookup(ctx context.Context, finder ResumeFinder, shortID string) (resumes.Resume, error) {
	if !shortid.Valid(shortID) {
		metrics.IncResolve("not_found")
		return resumes.Resume{}, resumes.ErrNotFound
	}
	res, err := finder.GetByShortID(ctx, shortID)
	if err != nil {
		if errors.Is(err, resumes.ErrNotFound) {
			metrics.IncResolve("not_found")
			return resumes.Resume{}, resumes.ErrNotFound
		}
		metrics.IncResolve("error")
		return resumes.Resume{}, &resumes.StoreError{Op: "get_by_short_id", Err: err}
	}
	return res, nil
}

func nowOr(now func() time.Time) time.Time {
	if now != nil {
		return now().UTC()
	}
	return time.Now().UTC()
}
