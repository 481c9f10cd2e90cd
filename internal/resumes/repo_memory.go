package resumes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Resume // userID -> records
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Resume),
	}
}

// Create stores a new record. A new default clears any previous one.
func (r *MemoryRepo) Create(ctx context.Context, resume Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	resume.CreatedAt = now
	resume.UpdatedAt = now
	if resume.IsDefault {
		r.clearDefaultLocked(resume.UserID)
	}
	r.data[resume.UserID] = append(r.data[resume.UserID], resume)
	return nil
}

// GetByID returns a record by ID for a user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, resumeID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, resume := range r.data[userID] {
		if resume.ID == resumeID {
			return resume, nil
		}
	}
	return Resume{}, ErrNotFound
}

// GetDefault returns the user's default record.
func (r *MemoryRepo) GetDefault(ctx context.Context, userID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, resume := range r.data[userID] {
		if resume.IsDefault {
			return resume, nil
		}
	}
	return Resume{}, ErrNotFound
}

// ListByUser lists records, default first, then newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]Resume(nil), r.data[userID]...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Rename updates the display name.
func (r *MemoryRepo) Rename(ctx context.Context, userID, resumeID, name string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	records := r.data[userID]
	for i := range records {
		if records[i].ID == resumeID {
			records[i].Name = name
			records[i].UpdatedAt = time.Now().UTC()
			return records[i], nil
		}
	}
	return Resume{}, ErrNotFound
}

// SetDefault makes the record the user's only default.
func (r *MemoryRepo) SetDefault(ctx context.Context, userID, resumeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	records := r.data[userID]
	found := false
	for i := range records {
		if records[i].ID == resumeID {
			found = true
			break
		}
	}
	if !found {
		return ErrNotFound
	}
	now := time.Now().UTC()
	for i := range records {
		wasDefault := records[i].IsDefault
		records[i].IsDefault = records[i].ID == resumeID
		if records[i].IsDefault != wasDefault {
			records[i].UpdatedAt = now
		}
	}
	return nil
}

// Delete removes a record and promotes the newest remaining one when
// the default was removed.
func (r *MemoryRepo) Delete(ctx context.Context, userID, resumeID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	records := r.data[userID]
	idx := -1
	for i := range records {
		if records[i].ID == resumeID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return Resume{}, ErrNotFound
	}

	deleted := records[idx]
	records = append(records[:idx], records[idx+1:]...)
	r.data[userID] = records

	if deleted.IsDefault && len(records) > 0 {
		newest := 0
		for i := range records {
			if records[i].CreatedAt.After(records[newest].CreatedAt) {
				newest = i
			}
		}
		records[newest].IsDefault = true
		records[newest].UpdatedAt = time.Now().UTC()
	}
	return deleted, nil
}

// CountByUser counts records for a user.
func (r *MemoryRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data[userID]), nil
}

func (r *MemoryRepo) clearDefaultLocked(userID string) {
	records := r.data[userID]
	for i := range records {
		records[i].IsDefault = false
	}
}

var _ Repo = (*MemoryRepo)(nil)
