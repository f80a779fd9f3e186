// Package renewals stores renewal token records. A record is visible to
// lookups only while its expiry lies strictly after the current time; an
// expired record and a missing one are indistinguishable to callers.
package renewals

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/tokenprovider/internal/server/models"
)

// ErrDuplicateToken is wrapped together with common.ErrStore when a token
// collides with an existing record.
var ErrDuplicateToken = errors.New("renewal token already exists")

// Repository is the durable renewal store.
type Repository interface {
	// Find returns the live record for token. found is false, with a nil
	// error, when the token is unknown or expired.
	Find(ctx context.Context, token string) (rec models.RenewalRecord, found bool, err error)
	// Insert stores rec atomically; failures wrap common.ErrStore.
	Insert(ctx context.Context, rec models.RenewalRecord) error
	// Delete removes the record for token, if any.
	Delete(ctx context.Context, token string) error
	// DeleteExpired removes records whose expiry is at or before before.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Rotator is implemented by stores that can replace a record atomically:
// rec is inserted and the record for old deleted in one unit of work.
type Rotator interface {
	Rotate(ctx context.Context, old string, rec models.RenewalRecord) error
}

// Rotate replaces old with rec using repo's atomic rotation when available,
// falling back to an insert followed by a delete.
func Rotate(ctx context.Context, repo Repository, old string, rec models.RenewalRecord) error {
	if r, ok := repo.(Rotator); ok {
		return r.Rotate(ctx, old, rec)
	}
	if err := repo.Insert(ctx, rec); err != nil {
		return err
	}
	return repo.Delete(ctx, old)
}
