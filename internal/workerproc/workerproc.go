package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"resumelink/internal/queue"
	"resumelink/internal/tracking"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

func (e ErrDecode) Unwrap() error { return e.Err }

// ErrInvalidJob indicates a decoded message that does not describe a valid
// tracking job. Redelivery cannot fix it.
type ErrInvalidJob struct {
	Meta      MessageMeta
	RequestID string
	ResumeID  string
}

func (e ErrInvalidJob) Error() string { return "invalid tracking job" }

func (e ErrInvalidJob) Unwrap() error { return tracking.ErrInvalidJob }

// ErrProcess indicates applying a job failed after successful parsing.
type ErrProcess struct {
	ResumeID  string
	RequestID string
	Err       error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "apply tracking job"
	}
	return "apply tracking job: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// ParseMessage decodes and validates a queue payload into a tracking job.
func ParseMessage(body string) (tracking.Job, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return tracking.Job{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return tracking.Job{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	job, err := tracking.FromMessage(msg)
	if err != nil {
		return tracking.Job{}, meta, ErrInvalidJob{Meta: meta, RequestID: msg.RequestID, ResumeID: msg.ResumeID}
	}
	return job, meta, nil
}

// Unrecoverable reports whether err means the message should be removed
// from the queue instead of retried.
func Unrecoverable(err error) bool {
	var empty ErrEmptyBody
	var decode ErrDecode
	var invalid ErrInvalidJob
	return errors.As(err, &empty) || errors.As(err, &decode) || errors.As(err, &invalid)
}

// HandleJob applies an already parsed job.
func HandleJob(ctx context.Context, applier tracking.Applier, job tracking.Job) error {
	if applier == nil {
		return errors.New("tracking sink not configured")
	}
	if err := applier.Apply(ctx, job); err != nil {
		return ErrProcess{ResumeID: job.ResumeID, RequestID: job.RequestID, Err: err}
	}
	return nil
}

// HandleMessage parses a payload and applies the job it carries.
func HandleMessage(ctx context.Context, applier tracking.Applier, body string) error {
	job, _, err := ParseMessage(body)
	if err != nil {
		return err
	}
	return HandleJob(ctx, applier, job)
}
