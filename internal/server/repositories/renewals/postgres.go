package renewals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tokenprovider/internal/common"
	"github.com/dmitrijs2005/tokenprovider/internal/dbx"
	"github.com/dmitrijs2005/tokenprovider/internal/server/metrics"
	"github.com/dmitrijs2005/tokenprovider/internal/server/models"
	"github.com/dmitrijs2005/tokenprovider/internal/timex"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx). Expiry is compared against the injected clock, not
// the database server time.
type PostgresRepository struct {
	db    dbx.DBTX
	clock timex.Clock
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX, clock timex.Clock) *PostgresRepository {
	return &PostgresRepository{db: db, clock: clock}
}

// Find returns the live record for token.
func (r *PostgresRepository) Find(ctx context.Context, token string) (models.RenewalRecord, bool, error) {
	defer metrics.ObserveStore("find", time.Now())

	query := `
		SELECT id, user_id, expires_at, created_at
		FROM renewal_tokens
		WHERE token = $1 AND expires_at > $2
	`
	rec := models.RenewalRecord{Token: token}
	err := r.db.QueryRowContext(ctx, query, token, r.clock.Now()).
		Scan(&rec.ID, &rec.UserID, &rec.ExpiresAt, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RenewalRecord{}, false, nil
		}
		return models.RenewalRecord{}, false, fmt.Errorf("%w: db error: %w", common.ErrStore, err)
	}
	return rec, true, nil
}

// Insert stores rec. A token collision is reported as ErrDuplicateToken.
func (r *PostgresRepository) Insert(ctx context.Context, rec models.RenewalRecord) error {
	defer metrics.ObserveStore("insert", time.Now())

	query := `
		INSERT INTO renewal_tokens (id, token, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query, rec.ID, rec.Token, rec.UserID, rec.ExpiresAt, rec.CreatedAt); err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %w", common.ErrStore, ErrDuplicateToken)
		}
		return fmt.Errorf("%w: error performing sql request: %w", common.ErrStore, err)
	}
	return nil
}

// Delete removes a record by its token.
func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	defer metrics.ObserveStore("delete", time.Now())

	query := `
		DELETE FROM renewal_tokens
		WHERE token = $1
	`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("%w: db error: %w", common.ErrStore, err)
	}
	return nil
}

// DeleteExpired removes every record that expired at or before before.
func (r *PostgresRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	defer metrics.ObserveStore("delete_expired", time.Now())

	query := `
		DELETE FROM renewal_tokens
		WHERE expires_at <= $1
	`
	res, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("%w: db error: %w", common.ErrStore, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: db error: %w", common.ErrStore, err)
	}
	return n, nil
}

// Rotate inserts rec and deletes old in one transaction. When the repository
// is already bound to a transaction the statements simply join it.
func (r *PostgresRepository) Rotate(ctx context.Context, old string, rec models.RenewalRecord) error {
	db, ok := r.db.(*sql.DB)
	if !ok {
		if err := r.Insert(ctx, rec); err != nil {
			return err
		}
		return r.Delete(ctx, old)
	}

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewPostgresRepository(tx, r.clock)
		if err := repo.Insert(ctx, rec); err != nil {
			return err
		}
		return repo.Delete(ctx, old)
	})
	if err != nil && !errors.Is(err, common.ErrStore) {
		return fmt.Errorf("%w: transaction: %w", common.ErrStore, err)
	}
	return err
}
