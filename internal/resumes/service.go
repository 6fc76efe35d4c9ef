package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"resumelink/internal/shared/metrics"
	"resumelink/internal/shared/storage/object"
	"resumelink/internal/shared/telemetry"
	"resumelink/internal/shortid"
)

const (
	DefaultMaxUploadBytes = 10 << 20
	maxShortIDAttempts    = 3
)

// EventPurger removes analytics rows for a deleted resume. Stores with a
// cascading foreign key may treat it as a no-op.
type EventPurger interface {
	DeleteByResume(ctx context.Context, resumeID string) error
}

// Service contains business logic for resumes.
type Service struct {
	Repo           Repo
	Store          object.ObjectStore
	IDs            *shortid.Generator
	Events         EventPurger
	MaxUploadBytes int64
	Now            func() time.Time
}

// UploadInput is one PDF submitted by its owner.
type UploadInput struct {
	UserID      string `validate:"required"`
	Title       string `validate:"required,max=200"`
	FileName    string `validate:"required,max=255"`
	ContentType string
	// Size is the declared size, or -1 when unknown.
	Size int64
	Body io.Reader `validate:"-"`
}

var validate = validator.New()

// Upload validates the file, stores it under a fresh short id, and records the resume.
// Validation happens before any write.
func (s *Service) Upload(ctx context.Context, in UploadInput) (Resume, error) {
	in.FileName = strings.TrimSpace(in.FileName)
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		in.Title = DefaultTitle(in.FileName)
	}
	if err := validateInput(in); err != nil {
		metrics.IncUpload("rejected")
		return Resume{}, err
	}

	data, err := s.readBody(in)
	if err != nil {
		metrics.IncUpload("rejected")
		return Resume{}, err
	}

	res := Resume{
		UserID:    in.UserID,
		Title:     in.Title,
		FileName:  in.FileName,
		PageCount: countPages(data),
	}

	for attempt := 1; attempt <= maxShortIDAttempts; attempt++ {
		res.ID = uuid.NewString()
		res.ShortID = s.IDs.Generate()
		res.CreatedAt = s.now()

		created, err := s.store(ctx, res, data)
		if err == nil {
			metrics.IncUpload("created")
			telemetry.Info("resume.uploaded", map[string]any{
				"resume_id":  created.ID,
				"short_id":   created.ShortID,
				"user_id":    created.UserID,
				"size_bytes": len(data),
				"page_count": created.PageCount,
				"attempt":    attempt,
			})
			return created, nil
		}
		if !errors.Is(err, ErrDuplicateShortID) {
			metrics.IncUpload("failed")
			return Resume{}, err
		}
		metrics.IncShortIDCollision()
		telemetry.Warn("resume.short_id_collision", map[string]any{
			"short_id": res.ShortID,
			"attempt":  attempt,
		})
	}

	metrics.IncUpload("failed")
	return Resume{}, &StoreError{Op: "allocate_short_id", Err: ErrDuplicateShortID}
}

// store writes the blob and then the row. A collision at either step is
// reported as ErrDuplicateShortID so the caller can retry with a new id.
func (s *Service) store(ctx context.Context, res Resume, data []byte) (Resume, error) {
	key, err := object.ResumeKey(res.UserID, res.ShortID, res.FileName)
	if err != nil {
		return Resume{}, &ValidationError{Field: "file", Reason: ReasonInvalidName}
	}

	if _, err := s.Store.Put(ctx, key, mimePDF, bytes.NewReader(data)); err != nil {
		if errors.Is(err, object.ErrObjectExists) {
			return Resume{}, ErrDuplicateShortID
		}
		return Resume{}, &StoreError{Op: "put_object", Err: err}
	}
	res.FileURL = s.Store.PublicURL(key)

	if err := s.Repo.Create(ctx, res); err != nil {
		s.removeObject(ctx, key, res.ID)
		if errors.Is(err, ErrDuplicateShortID) {
			return Resume{}, ErrDuplicateShortID
		}
		return Resume{}, &StoreError{Op: "create", Err: err}
	}
	return res, nil
}

func (s *Service) readBody(in UploadInput) ([]byte, error) {
	limit := s.maxUploadBytes()
	if in.Size > limit {
		return nil, &ValidationError{Field: "file", Reason: ReasonFileTooLarge}
	}
	if ct := strings.TrimSpace(in.ContentType); ct != "" && ct != "application/octet-stream" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != mimePDF {
			return nil, &ValidationError{Field: "file", Reason: ReasonUnsupportedType}
		}
	}

	data, err := io.ReadAll(io.LimitReader(in.Body, limit+1))
	if err != nil {
		return nil, &StoreError{Op: "read_upload", Err: err}
	}
	if int64(len(data)) > limit {
		return nil, &ValidationError{Field: "file", Reason: ReasonFileTooLarge}
	}
	if len(data) == 0 {
		return nil, &ValidationError{Field: "file", Reason: ReasonEmpty}
	}
	if !sniffPDF(data) {
		return nil, &ValidationError{Field: "file", Reason: ReasonUnsupportedType}
	}
	return data, nil
}

// List returns the owner's resumes newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Resume, error) {
	if userID == "" {
		return nil, &ValidationError{Field: "userId", Reason: ReasonRequired}
	}
	out, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeErr("list", err)
	}
	return out, nil
}

// Get returns one resume owned by userID. Other users' resumes are reported
// as not found; the error also matches ErrForbidden.
func (s *Service) Get(ctx context.Context, userID, id string) (Resume, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Resume{}, ErrNotFound
	}
	res, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Resume{}, storeErr("get", err)
	}
	if res.UserID != userID {
		return Resume{}, fmt.Errorf("%w: %w", ErrNotFound, ErrForbidden)
	}
	return res, nil
}

// Delete removes the resume, its analytics events, and its stored file.
// Event and file cleanup failures are logged, not returned.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	res, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return storeErr("delete", err)
	}

	if s.Events != nil {
		if err := s.Events.DeleteByResume(ctx, id); err != nil {
			telemetry.Error("resume.events_purge_failed", map[string]any{
				"resume_id": id,
				"error":     err.Error(),
			})
		}
	}
	if key, err := object.ResumeKey(res.UserID, res.ShortID, res.FileName); err == nil {
		s.removeObject(ctx, key, id)
	}

	telemetry.Info("resume.deleted", map[string]any{"resume_id": id, "user_id": userID})
	return nil
}

func (s *Service) removeObject(ctx context.Context, key, resumeID string) {
	if err := s.Store.Delete(ctx, key); err != nil && !errors.Is(err, object.ErrObjectNotFound) {
		telemetry.Error("resume.object_delete_failed", map[string]any{
			"resume_id": resumeID,
			"key":       key,
			"error":     err.Error(),
		})
	}
}

func (s *Service) maxUploadBytes() int64 {
	if s.MaxUploadBytes <= 0 {
		return DefaultMaxUploadBytes
	}
	return s.MaxUploadBytes
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// DefaultTitle derives a title from an uploaded file name.
func DefaultTitle(fileName string) string {
	name := strings.TrimSpace(fileName)
	if len(name) >= 4 && strings.EqualFold(name[len(name)-4:], ".pdf") {
		name = name[:len(name)-4]
	}
	return strings.TrimSpace(name)
}

func validateInput(in UploadInput) error {
	if in.Body == nil {
		return &ValidationError{Field: "file", Reason: ReasonRequired}
	}
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Field: "input", Reason: ReasonRequired}
	}
	fe := fieldErrs[0]
	reason := ReasonRequired
	if fe.Tag() == "max" {
		reason = ReasonTooLong
	}
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	if field == "fileName" {
		field = "file"
	}
	return &ValidationError{Field: field, Reason: reason}
}
