// Package renewal decides, per request, whether a presented renewal token
// can be reused or a new one must be minted and stored.
package renewal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tokenprovider/internal/common"
	"github.com/dmitrijs2005/tokenprovider/internal/cryptox"
	"github.com/dmitrijs2005/tokenprovider/internal/logging"
	"github.com/dmitrijs2005/tokenprovider/internal/server/metrics"
	"github.com/dmitrijs2005/tokenprovider/internal/server/models"
	"github.com/dmitrijs2005/tokenprovider/internal/server/repositories/renewals"
	"github.com/dmitrijs2005/tokenprovider/internal/timex"
)

const (
	DefaultLifetime        = 7 * 24 * time.Hour
	DefaultRotationHorizon = 24 * time.Hour
	DefaultWriteTimeout    = 5 * time.Second
	DefaultTokenBytes      = 32
)

// Outcome tells how a renewal token was obtained.
type Outcome int

const (
	// Reused: the presented token was live with more than the horizon left.
	Reused Outcome = iota
	// Rotated: the presented token was live but inside the horizon.
	Rotated
	// Minted: nothing usable was presented.
	Minted
)

func (o Outcome) String() string {
	switch o {
	case Reused:
		return "reused"
	case Rotated:
		return "rotated"
	case Minted:
		return "minted"
	default:
		return "unknown"
	}
}

// Result is the renewal token to hand back to the caller.
type Result struct {
	Token     string
	ExpiresAt time.Time
	Outcome   Outcome
}

// Options tune the coordinator. Zero values select the defaults above;
// a zero RotationHorizon is kept as is and means "rotate only when expired".
type Options struct {
	Lifetime        time.Duration
	RotationHorizon time.Duration
	WriteTimeout    time.Duration
	TokenBytes      int
	// RevokeOnRotate deletes the rotated-away record together with the
	// insert of its replacement. Off by default: both stay valid until expiry.
	RevokeOnRotate bool
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Lifetime:        DefaultLifetime,
		RotationHorizon: DefaultRotationHorizon,
		WriteTimeout:    DefaultWriteTimeout,
		TokenBytes:      DefaultTokenBytes,
	}
}

type Coordinator struct {
	repo   renewals.Repository
	clock  timex.Clock
	random cryptox.RandomSource
	opts   Options
	logger logging.Logger
}

func NewCoordinator(repo renewals.Repository, clock timex.Clock, random cryptox.RandomSource, opts Options, logger logging.Logger) *Coordinator {
	if opts.Lifetime <= 0 {
		opts.Lifetime = DefaultLifetime
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	if opts.TokenBytes <= 0 {
		opts.TokenBytes = DefaultTokenBytes
	}
	return &Coordinator{
		repo:   repo,
		clock:  clock,
		random: random,
		opts:   opts,
		logger: logger.With("module", "renewal"),
	}
}

// Resolve returns a renewal token for userID. presented may be empty. An
// unknown, expired or foreign presented token is ignored and a new one is
// minted. Store failures wrap common.ErrStore; a caller that gave up before
// the write started gets common.ErrCancelled.
func (c *Coordinator) Resolve(ctx context.Context, userID, presented string) (Result, error) {
	return c.resolve(ctx, userID, presented, false)
}

// ResolveExisting is Resolve for the refresh flow: the presented token must
// be live and belong to userID, otherwise common.ErrNotFound is returned.
func (c *Coordinator) ResolveExisting(ctx context.Context, userID, presented string) (Result, error) {
	if presented == "" {
		return Result{}, common.ErrNotFound
	}
	return c.resolve(ctx, userID, presented, true)
}

func (c *Coordinator) resolve(ctx context.Context, userID, presented string, strict bool) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, cancelled(err)
	}

	outcome := Minted
	if presented != "" {
		rec, found, err := c.repo.Find(ctx, presented)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Result{}, cancelled(ctxErr)
			}
			return Result{}, storeError(err)
		}

		owned := found && rec.UserID == userID
		if found && !owned {
			c.logger.Warn(ctx, "renewal token presented by another user", "user_id", userID)
		}
		if strict && !owned {
			return Result{}, common.ErrNotFound
		}
		if owned {
			if rec.Remaining(c.clock.Now()) > c.opts.RotationHorizon {
				metrics.RenewalResolutions.WithLabelValues(Reused.String()).Inc()
				return Result{Token: rec.Token, ExpiresAt: rec.ExpiresAt, Outcome: Reused}, nil
			}
			outcome = Rotated
		}
	}

	if err := ctx.Err(); err != nil {
		return Result{}, cancelled(err)
	}

	token, err := cryptox.NewOpaqueToken(c.random, c.opts.TokenBytes)
	if err != nil {
		return Result{}, fmt.Errorf("minting renewal token: %w", err)
	}
	rec := models.NewRenewalRecord(token, userID, c.clock.Now(), c.opts.Lifetime)

	// Once started, the write ignores caller cancellation; WriteTimeout bounds it.
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.WriteTimeout)
	defer cancel()

	if outcome == Rotated && c.opts.RevokeOnRotate {
		err = renewals.Rotate(wctx, c.repo, presented, rec)
	} else {
		err = c.repo.Insert(wctx, rec)
	}
	if err != nil {
		return Result{}, storeError(err)
	}

	metrics.RenewalResolutions.WithLabelValues(outcome.String()).Inc()
	c.logger.Debug(ctx, "renewal token issued", "user_id", userID, "outcome", outcome.String())

	return Result{Token: rec.Token, ExpiresAt: rec.ExpiresAt, Outcome: outcome}, nil
}

func cancelled(err error) error {
	return fmt.Errorf("%w: %w", common.ErrCancelled, err)
}

func storeError(err error) error {
	if errors.Is(err, common.ErrStore) {
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrStore, err)
}
