package resumes

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]Resume
	byShort map[string]string // short id -> id
	order   []string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:    make(map[string]Resume),
		byShort: make(map[string]string),
	}
}

// Create stores a new resume.
func (r *MemoryRepo) Create(ctx context.Context, res Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byShort[res.ShortID]; taken {
		return ErrDuplicateShortID
	}
	r.byID[res.ID] = res
	r.byShort[res.ShortID] = res.ID
	r.order = append(r.order, res.ID)
	return nil
}

// GetByID returns a resume by id.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.byID[id]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return res, nil
}

// GetByShortID returns the resume a short link points to.
func (r *MemoryRepo) GetByShortID(ctx context.Context, shortID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byShort[shortID]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return r.byID[id], nil
}

// ListByUser returns a user's resumes newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Resume, 0)
	for _, id := range r.order {
		if res := r.byID[id]; res.UserID == userID {
			out = append(out, res)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a resume owned by userID.
func (r *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.byID[id]
	if !ok || res.UserID != userID {
		return ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byShort, res.ShortID)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// IncrementCounter adds one to a counter under the write lock.
func (r *MemoryRepo) IncrementCounter(ctx context.Context, id string, c Counter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.byID[id]
	if !ok {
		return 0, ErrNotFound
	}
	switch c {
	case CounterViews:
		res.Views++
	case CounterDownloads:
		res.Downloads++
	default:
		return 0, ErrInvalidInput
	}
	r.byID[id] = res
	return res.Value(c), nil
}

// SetCounter overwrites a counter.
func (r *MemoryRepo) SetCounter(ctx context.Context, id string, c Counter, value int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if value < 0 {
		return ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	switch c {
	case CounterViews:
		res.Views = value
	case CounterDownloads:
		res.Downloads = value
	default:
		return ErrInvalidInput
	}
	r.byID[id] = res
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
