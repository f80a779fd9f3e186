package renewals

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/dmitrijs2005/tokenprovider/internal/logging"
	"github.com/dmitrijs2005/tokenprovider/internal/server/models"
	"github.com/dmitrijs2005/tokenprovider/internal/timex"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "rtk"

type cachedRecord struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"uid"`
	ExpiresAt time.Time `json:"exp"`
	CreatedAt time.Time `json:"iat"`
}

// CachedRepository is a read-through Redis cache in front of another
// Repository. Only positive lookups are cached, and never beyond the
// record's own expiry. Redis failures are logged and the call falls through
// to the backing store.
type CachedRepository struct {
	next   Repository
	redis  *redis.Client
	ttl    time.Duration
	clock  timex.Clock
	logger logging.Logger
}

func NewCachedRepository(next Repository, client *redis.Client, ttl time.Duration, clock timex.Clock, logger logging.Logger) *CachedRepository {
	return &CachedRepository{
		next:   next,
		redis:  client,
		ttl:    ttl,
		clock:  clock,
		logger: logger.With("module", "renewals.cache"),
	}
}

// key hashes the token so raw renewal tokens never appear in Redis.
func (c *CachedRepository) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return cacheKeyPrefix + ":" + hex.EncodeToString(sum[:])
}

func (c *CachedRepository) Find(ctx context.Context, token string) (models.RenewalRecord, bool, error) {
	now := c.clock.Now()

	data, err := c.redis.Get(ctx, c.key(token)).Bytes()
	switch {
	case err == nil:
		var cr cachedRecord
		if err := json.Unmarshal(data, &cr); err == nil {
			rec := models.RenewalRecord{ID: cr.ID, Token: token, UserID: cr.UserID, ExpiresAt: cr.ExpiresAt, CreatedAt: cr.CreatedAt}
			if rec.LiveAt(now) {
				return rec, true, nil
			}
		}
		_ = c.redis.Del(ctx, c.key(token)).Err()
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn(ctx, "renewal cache read failed", "error", err)
	}

	rec, found, err := c.next.Find(ctx, token)
	if err != nil || !found {
		return rec, found, err
	}

	c.store(ctx, rec, now)
	return rec, true, nil
}

func (c *CachedRepository) store(ctx context.Context, rec models.RenewalRecord, now time.Time) {
	ttl := c.ttl
	if remaining := rec.Remaining(now); remaining < ttl {
		ttl = remaining
	}
	if ttl <= 0 {
		return
	}

	data, err := json.Marshal(cachedRecord{ID: rec.ID, UserID: rec.UserID, ExpiresAt: rec.ExpiresAt, CreatedAt: rec.CreatedAt})
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, c.key(rec.Token), data, ttl).Err(); err != nil {
		c.logger.Warn(ctx, "renewal cache write failed", "error", err)
	}
}

func (c *CachedRepository) Insert(ctx context.Context, rec models.RenewalRecord) error {
	return c.next.Insert(ctx, rec)
}

func (c *CachedRepository) Delete(ctx context.Context, token string) error {
	if err := c.next.Delete(ctx, token); err != nil {
		return err
	}
	c.evict(ctx, token)
	return nil
}

func (c *CachedRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return c.next.DeleteExpired(ctx, before)
}

// Rotate delegates to the backing store and evicts the old token.
func (c *CachedRepository) Rotate(ctx context.Context, old string, rec models.RenewalRecord) error {
	if err := Rotate(ctx, c.next, old, rec); err != nil {
		return err
	}
	c.evict(ctx, old)
	return nil
}

func (c *CachedRepository) evict(ctx context.Context, token string) {
	if err := c.redis.Del(ctx, c.key(token)).Err(); err != nil {
		c.logger.Warn(ctx, "renewal cache evict failed", "error", err)
	}
}
