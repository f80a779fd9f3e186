package renewals

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/tokenprovider/internal/common"
	"github.com/dmitrijs2005/tokenprovider/internal/server/models"
	"github.com/dmitrijs2005/tokenprovider/internal/timex"
)

// MemoryRepository is an in-process Repository for tests and local runs.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]models.RenewalRecord
	clock   timex.Clock
}

func NewMemoryRepository(clock timex.Clock) *MemoryRepository {
	return &MemoryRepository{
		records: make(map[string]models.RenewalRecord),
		clock:   clock,
	}
}

func (r *MemoryRepository) Find(ctx context.Context, token string) (models.RenewalRecord, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.RenewalRecord{}, false, fmt.Errorf("%w: %w", common.ErrStore, err)
	}

	r.mu.RLock()
	rec, ok := r.records[token]
	r.mu.RUnlock()

	if !ok || !rec.LiveAt(r.clock.Now()) {
		return models.RenewalRecord{}, false, nil
	}
	return rec, true, nil
}

func (r *MemoryRepository) Insert(ctx context.Context, rec models.RenewalRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStore, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.insertLocked(rec)
}

func (r *MemoryRepository) insertLocked(rec models.RenewalRecord) error {
	if _, exists := r.records[rec.Token]; exists {
		return fmt.Errorf("%w: %w", common.ErrStore, ErrDuplicateToken)
	}
	r.records[rec.Token] = rec
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	delete(r.records, token)
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for token, rec := range r.records {
		if !rec.ExpiresAt.After(before) {
			delete(r.records, token)
			n++
		}
	}
	return n, nil
}

// Rotate inserts rec and deletes old under a single lock.
func (r *MemoryRepository) Rotate(ctx context.Context, old string, rec models.RenewalRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStore, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.insertLocked(rec); err != nil {
		return err
	}
	delete(r.records, old)
	return nil
}

// Len returns the number of stored records, live or expired.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
