package profile

import (
	"context"
	"errors"
	"fmt"
)

// DefaultUpdateAttempts bounds the optimistic retries of Update.
const DefaultUpdateAttempts = 5

// Repo persists profiles. Save must only succeed when the stored version
// equals p.Version; on success it increments p.Version.
type Repo interface {
	Create(ctx context.Context, p *Profile) error
	Load(ctx context.Context, userID string) (*Profile, error)
	Save(ctx context.Context, p *Profile) error
}

// Update loads the profile, applies fn and saves the result, retrying from a
// fresh load whenever Save reports ErrVersionConflict. fn may run more than
// once and must derive everything it records from the profile it is given.
// Returning ErrNoChanges from fn skips the write.
func Update(ctx context.Context, repo Repo, userID string, fn func(p *Profile) error) (*Profile, error) {
	for attempt := 0; attempt < DefaultUpdateAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, err := repo.Load(ctx, userID)
		if err != nil {
			return nil, Persistence("load profile", err)
		}

		if err := fn(p); err != nil {
			if errors.Is(err, ErrNoChanges) {
				return p, nil
			}
			return nil, err
		}

		err = repo.Save(ctx, p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return nil, Persistence("save profile", err)
		}
	}
	return nil, fmt.Errorf("update profile %s: %w", userID, ErrConflictRetriesExhausted)
}
