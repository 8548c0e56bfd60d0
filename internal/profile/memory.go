package profile

import (
	"context"
	"sync"
)

// MemoryRepo is an in-process Repo. Profiles are copied on the way in and
// out, so callers never share state with the stored value.
type MemoryRepo struct {
	mu       sync.Mutex
	profiles map[string]*Profile
}

// NewMemoryRepo returns an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{profiles: make(map[string]*Profile)}
}

func (r *MemoryRepo) Create(_ context.Context, p *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.UserID]; ok {
		return ErrProfileExists
	}
	p.Version = 1
	r.profiles[p.UserID] = p.Clone()
	return nil
}

func (r *MemoryRepo) Load(_ context.Context, userID string) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p.Clone(), nil
}

func (r *MemoryRepo) Save(_ context.Context, p *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.profiles[p.UserID]
	if !ok {
		return ErrProfileNotFound
	}
	if cur.Version != p.Version {
		return ErrVersionConflict
	}
	p.Version++
	r.profiles[p.UserID] = p.Clone()
	return nil
}
