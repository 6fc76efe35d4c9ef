package resumes

import "context"

// Repo defines persistence operations for resumes.
type Repo interface {
	// Create fails with ErrDuplicateShortID when the short id is taken.
	Create(ctx context.Context, r Resume) error
	GetByID(ctx context.Context, id string) (Resume, error)
	GetByShortID(ctx context.Context, shortID string) (Resume, error)
	// ListByUser returns the user's resumes newest first.
	ListByUser(ctx context.Context, userID string) ([]Resume, error)
	Delete(ctx context.Context, userID, id string) error
	// IncrementCounter adds one to counter c in a single store operation
	// and returns the new value.
	IncrementCounter(ctx context.Context, id string, c Counter) (int64, error)
	// SetCounter overwrites counter c. Concurrent writers race; the last one wins.
	SetCounter(ctx context.Context, id string, c Counter, value int64) error
}
