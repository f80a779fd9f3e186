package models

import (
	"time"

	"github.com/google/uuid"
)

// RenewalRecord is a persisted renewal token. Records are immutable once
// stored; rotation creates a new record instead of updating an old one.
type RenewalRecord struct {
	ID        uuid.UUID
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewRenewalRecord builds a record with a fresh ID, created at now.
func NewRenewalRecord(token, userID string, now time.Time, lifetime time.Duration) RenewalRecord {
	return RenewalRecord{
		ID:        uuid.New(),
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(lifetime),
		CreatedAt: now,
	}
}

// LiveAt reports whether the record is still usable at now. A record whose
// expiry equals now is already expired.
func (r RenewalRecord) LiveAt(now time.Time) bool {
	return r.ExpiresAt.After(now)
}

// Remaining is the lifetime left at now; negative once expired.
func (r RenewalRecord) Remaining(now time.Time) time.Duration {
	return r.ExpiresAt.Sub(now)
}
