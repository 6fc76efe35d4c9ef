package tracking

import (
	"errors"
	"time"

	"resumelink/internal/analytics"
	"resumelink/internal/resumes"
)

var ErrInvalidJob = errors.New("invalid tracking job")

// Requester is what is known about whoever followed a link.
type Requester struct {
	UserAgent string
	RequestID string
}

// Job is one best-effort side effect of a resolve or download: an event
// append followed by a counter update.
type Job struct {
	Kind     analytics.Kind
	ResumeID string
	// Observed is the counter value read before the job was created.
	Observed   int64
	UserAgent  string
	RequestID  string
	OccurredAt time.Time
}

// Counter returns the resume counter the job updates.
func (j Job) Counter() resumes.Counter {
	if j.Kind == analytics.KindDownload {
		return resumes.CounterDownloads
	}
	return resumes.CounterViews
}

func (j Job) validate() error {
	if !j.Kind.Valid() || j.ResumeID == "" || j.Observed < 0 {
		return ErrInvalidJob
	}
	return nil
}

func newJob(kind analytics.Kind, res resumes.Resume, who Requester, at time.Time) Job {
	return Job{
		Kind:       kind,
		ResumeID:   res.ID,
		Observed:   res.Value(counterFor(kind)),
		UserAgent:  who.UserAgent,
		RequestID:  who.RequestID,
		OccurredAt: at,
	}
}

func counterFor(kind analytics.Kind) resumes.Counter {
	return Job{Kind: kind}.Counter()
}
