package renewal

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/tokenprovider/internal/common"
	"github.com/dmitrijs2005/tokenprovider/internal/cryptox"
	"github.com/dmitrijs2005/tokenprovider/internal/logging"
	"github.com/dmitrijs2005/tokenprovider/internal/server/models"
	"github.com/dmitrijs2005/tokenprovider/internal/server/repositories/renewals"
	"github.com/dmitrijs2005/tokenprovider/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	now   time.Time
	repo  *renewals.MemoryRepository
	coord *Coordinator
}

func newFixture(t *testing.T, mutate func(*Options)) *fixture {
	t.Helper()
	f := &fixture{now: t0}
	clock := timex.ClockFunc(func() time.Time { return f.now })
	f.repo = renewals.NewMemoryRepository(clock)
	opts := DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	f.coord = NewCoordinator(f.repo, clock, cryptox.SystemRandom(), opts, logging.Nop())
	return f
}

func (f *fixture) seed(t *testing.T, token, userID string, remaining time.Duration) {
	t.Helper()
	rec := models.NewRenewalRecord(token, userID, f.now.Add(remaining-DefaultLifetime), DefaultLifetime)
	require.NoError(t, f.repo.Insert(context.Background(), rec))
}

func (f *fixture) found(token string) bool {
	_, ok, _ := f.repo.Find(context.Background(), token)
	return ok
}

func TestResolve_MintsWhenNothingPresented(t *testing.T) {
	f := newFixture(t, nil)

	res, err := f.coord.Resolve(context.Background(), "u1", "")
	require.NoError(t, err)

	assert.Equal(t, Minted, res.Outcome)
	assert.Len(t, res.Token, 43, "32 random bytes as unpadded base64url")
	assert.False(t, strings.ContainsAny(res.Token, "+/="))
	assert.Equal(t, t0.Add(7*24*time.Hour), res.ExpiresAt)
	assert.True(t, f.found(res.Token))
}

func TestResolve_ReusesFreshToken(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, "fresh", "u1", 6*24*time.Hour)

	res, err := f.coord.Resolve(context.Background(), "u1", "fresh")
	require.NoError(t, err)

	assert.Equal(t, Reused, res.Outcome)
	assert.Equal(t, "fresh", res.Token)
	assert.Equal(t, t0.Add(6*24*time.Hour), res.ExpiresAt)
	assert.Equal(t, 1, f.repo.Len())
}

func TestResolve_RotatesInsideHorizon(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, "old", "u1", 12*time.Hour)

	res, err := f.coord.Resolve(context.Background(), "u1", "old")
	require.NoError(t, err)

	assert.Equal(t, Rotated, res.Outcome)
	assert.NotEqual(t, "old", res.Token)
	assert.Equal(t, t0.Add(DefaultLifetime), res.ExpiresAt)
	assert.True(t, f.found("old"), "old record stays valid until its own expiry")
	assert.True(t, f.found(res.Token))
}

func TestResolve_HorizonBoundaryRotates(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, "edge", "u1", DefaultRotationHorizon)

	res, err := f.coord.Resolve(context.Background(), "u1", "edge")
	require.NoError(t, err)
	assert.Equal(t, Rotated, res.Outcome)

	f.seed(t, "just-over", "u1", DefaultRotationHorizon+time.Second)
	res, err = f.coord.Resolve(context.Background(), "u1", "just-over")
	require.NoError(t, err)
	assert.Equal(t, Reused, res.Outcome)
}

func TestResolve_RevokeOnRotate(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.RevokeOnRotate = true })
	f.seed(t, "old", "u1", time.Hour)

	res, err := f.coord.Resolve(context.Background(), "u1", "old")
	require.NoError(t, err)

	assert.Equal(t, Rotated, res.Outcome)
	assert.False(t, f.found("old"))
	assert.True(t, f.found(res.Token))
}

func TestResolve_ExpiredOrUnknownMints(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, "expired", "u1", -time.Minute)

	for _, presented := range []string{"expired", "never-issued"} {
		res, err := f.coord.Resolve(context.Background(), "u1", presented)
		require.NoError(t, err)
		assert.Equal(t, Minted, res.Outcome, presented)
		assert.NotEqual(t, presented, res.Token)
	}
}

func TestResolve_ForeignTokenIsIgnored(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, "theirs", "u2", 6*24*time.Hour)

	res, err := f.coord.Resolve(context.Background(), "u1", "theirs")
	require.NoError(t, err)
	assert.Equal(t, Minted, res.Outcome)
	assert.NotEqual(t, "theirs", res.Token)

	_, err = f.coord.ResolveExisting(context.Background(), "u1", "theirs")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestResolveExisting(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, "fresh", "u1", 3*24*time.Hour)
	f.seed(t, "aging", "u1", time.Hour)

	_, err := f.coord.ResolveExisting(context.Background(), "u1", "")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = f.coord.ResolveExisting(context.Background(), "u1", "unknown")
	assert.ErrorIs(t, err, common.ErrNotFound)

	res, err := f.coord.ResolveExisting(context.Background(), "u1", "fresh")
	require.NoError(t, err)
	assert.Equal(t, Reused, res.Outcome)

	res, err = f.coord.ResolveExisting(context.Background(), "u1", "aging")
	require.NoError(t, err)
	assert.Equal(t, Rotated, res.Outcome)
}

func TestResolve_CancelledBeforeStart(t *testing.T) {
	f := newFixture(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.coord.Resolve(ctx, "u1", "")
	assert.ErrorIs(t, err, common.ErrCancelled)
	assert.Equal(t, 0, f.repo.Len())
}

// stubRepo lets tests script store behaviour.
type stubRepo struct {
	renewals.Repository
	findErr   error
	insertErr error
	onFind    func()
	onInsert  func(ctx context.Context)
	inserted  []models.RenewalRecord
}

func (s *stubRepo) Find(ctx context.Context, token string) (models.RenewalRecord, bool, error) {
	if s.onFind != nil {
		s.onFind()
	}
	return models.RenewalRecord{}, false, s.findErr
}

func (s *stubRepo) Insert(ctx context.Context, rec models.RenewalRecord) error {
	if s.onInsert != nil {
		s.onInsert(ctx)
	}
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, rec)
	return nil
}

func newStubCoordinator(repo renewals.Repository, src cryptox.RandomSource) *Coordinator {
	return NewCoordinator(repo, timex.FixedClock(t0), src, DefaultOptions(), logging.Nop())
}

func TestResolve_StoreFailures(t *testing.T) {
	_, err := newStubCoordinator(&stubRepo{findErr: errors.New("conn reset")}, cryptox.SystemRandom()).
		Resolve(context.Background(), "u1", "presented")
	assert.ErrorIs(t, err, common.ErrStore)

	repo := &stubRepo{insertErr: errors.New("disk full")}
	_, err = newStubCoordinator(repo, cryptox.SystemRandom()).Resolve(context.Background(), "u1", "")
	assert.ErrorIs(t, err, common.ErrStore)
	assert.Empty(t, repo.inserted)
}

func TestResolve_FindFailsBecauseCallerLeft(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	repo := &stubRepo{findErr: errors.New("query cancelled"), onFind: cancel}

	_, err := newStubCoordinator(repo, cryptox.SystemRandom()).Resolve(ctx, "u1", "presented")

	assert.ErrorIs(t, err, common.ErrCancelled)
	assert.NotErrorIs(t, err, common.ErrStore)
	assert.Empty(t, repo.inserted)
}

func TestResolve_InsertSurvivesCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var insertCtxErr error
	var hasDeadline bool
	repo := &stubRepo{onInsert: func(insertCtx context.Context) {
		cancel()
		insertCtxErr = insertCtx.Err()
		_, hasDeadline = insertCtx.Deadline()
	}}

	res, err := newStubCoordinator(repo, cryptox.SystemRandom()).Resolve(ctx, "u1", "")
	require.NoError(t, err)
	assert.NoError(t, insertCtxErr)
	assert.True(t, hasDeadline, "write is bounded by the write timeout")
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, res.Token, repo.inserted[0].Token)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestResolve_RandomSourceFailure(t *testing.T) {
	repo := &stubRepo{}
	_, err := newStubCoordinator(repo, failingReader{}).Resolve(context.Background(), "u1", "")

	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrStore)
	assert.Empty(t, repo.inserted)
}

func TestResolve_ConcurrentMintsAreDistinct(t *testing.T) {
	f := newFixture(t, nil)

	const n = 200
	tokens := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.coord.Resolve(context.Background(), "u1", "")
			if assert.NoError(t, err) {
				tokens[i] = res.Token
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, n)
	for _, tok := range tokens {
		seen[tok] = struct{}{}
	}
	assert.Len(t, seen, n)
	assert.Equal(t, n, f.repo.Len())
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "reused", Reused.String())
	assert.Equal(t, "rotated", Rotated.String())
	assert.Equal(t, "minted", Minted.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
