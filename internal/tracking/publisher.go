package tracking

import (
	"context"
	"time"

	"resumelink/internal/analytics"
	"resumelink/internal/queue"
)

// Publisher forwards jobs to a queue for an out-of-process worker. Run it
// behind a Pool so a slow queue never holds up a request.
type Publisher struct {
	Client queue.Client
}

// Apply sends job as a queue message.
func (p *Publisher) Apply(ctx context.Context, job Job) error {
	if err := job.validate(); err != nil {
		return err
	}
	return p.Client.Send(ctx, ToMessage(job))
}

// ToMessage converts a job to its wire form.
func ToMessage(job Job) queue.Message {
	msg := queue.Message{
		Kind:      string(job.Kind),
		ResumeID:  job.ResumeID,
		Observed:  job.Observed,
		UserAgent: job.UserAgent,
		RequestID: job.RequestID,
		Version:   queue.MessageVersion,
	}
	if !job.OccurredAt.IsZero() {
		msg.OccurredAt = job.OccurredAt.UTC().Format(time.RFC3339Nano)
	}
	return msg
}

// FromMessage converts a queue message back into a job.
func FromMessage(msg queue.Message) (Job, error) {
	job := Job{
		Kind:      analytics.Kind(msg.Kind),
		ResumeID:  msg.ResumeID,
		Observed:  msg.Observed,
		UserAgent: msg.UserAgent,
		RequestID: msg.RequestID,
	}
	if msg.OccurredAt != "" {
		at, err := time.Parse(time.RFC3339Nano, msg.OccurredAt)
		if err != nil {
			return Job{}, ErrInvalidJob
		}
		job.OccurredAt = at
	}
	if err := job.validate(); err != nil {
		return Job{}, err
	}
	return job, nil
}

var _ Applier = (*Publisher)(nil)
