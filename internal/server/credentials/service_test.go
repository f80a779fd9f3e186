package credentials

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/tokenprovider/internal/common"
	"github.com/dmitrijs2005/tokenprovider/internal/cryptox"
	"github.com/dmitrijs2005/tokenprovider/internal/logging"
	"github.com/dmitrijs2005/tokenprovider/internal/server/auth"
	"github.com/dmitrijs2005/tokenprovider/internal/server/models"
	"github.com/dmitrijs2005/tokenprovider/internal/server/renewal"
	"github.com/dmitrijs2005/tokenprovider/internal/server/repositories/renewals"
	"github.com/dmitrijs2005/tokenprovider/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)

type env struct {
	now  time.Time
	repo *renewals.MemoryRepository
	svc  *Service
}

func newEnv(t *testing.T, key string, repo func(timex.Clock) renewals.Repository) *env {
	t.Helper()
	e := &env{now: t0}
	clock := timex.ClockFunc(func() time.Time { return e.now })
	e.repo = renewals.NewMemoryRepository(clock)

	var store renewals.Repository = e.repo
	if repo != nil {
		store = repo(clock)
	}

	signer := auth.NewSigner([]byte(key), "tokenprovider", "clients", clock)
	coord := renewal.NewCoordinator(store, clock, cryptox.SystemRandom(), renewal.DefaultOptions(), logging.Nop())
	e.svc = NewService(signer, coord, clock, Options{}, logging.Nop())
	return e
}

func TestIssueCredentialPair_NewUser(t *testing.T) {
	e := newEnv(t, "secret", nil)
	ctx := context.Background()

	pair, err := e.svc.IssueCredentialPair(ctx, IssueRequest{UserID: "u1", Email: "u1@example.com"})
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.Len(t, pair.RenewalToken, 43)
	assert.Equal(t, t0.Add(7*24*time.Hour), pair.RenewalExpiresAt)
	assert.Equal(t, t0.Add(5*time.Minute), pair.AccessExpiresAt)

	claims, err := e.svc.ValidateAccessToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "u1@example.com", claims.Email)
	assert.Equal(t, pair.RenewalToken, claims.RenewalToken)
}

func TestIssueCredentialPair_ReusesThenRotates(t *testing.T) {
	e := newEnv(t, "secret", nil)
	ctx := context.Background()
	req := IssueRequest{UserID: "u1", Email: "u1@example.com"}

	first, err := e.svc.IssueCredentialPair(ctx, req)
	require.NoError(t, err)

	req.PresentedRenewalToken = first.RenewalToken
	e.now = t0.Add(2 * 24 * time.Hour)
	second, err := e.svc.IssueCredentialPair(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.RenewalToken, second.RenewalToken)
	assert.Equal(t, first.RenewalExpiresAt, second.RenewalExpiresAt)

	e.now = t0.Add(6*24*time.Hour + 12*time.Hour)
	third, err := e.svc.IssueCredentialPair(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, first.RenewalToken, third.RenewalToken)
	assert.Equal(t, e.now.Add(7*24*time.Hour), third.RenewalExpiresAt)
}

func TestIssueCredentialPair_BadRequest(t *testing.T) {
	e := newEnv(t, "secret", nil)

	for _, req := range []IssueRequest{
		{Email: "u1@example.com"},
		{UserID: "u1"},
		{UserID: "  ", Email: "u1@example.com"},
	} {
		_, err := e.svc.IssueCredentialPair(context.Background(), req)
		assert.ErrorIs(t, err, common.ErrBadRequest)
	}
	assert.Equal(t, 0, e.repo.Len())
}

func TestRefreshCredentialPair(t *testing.T) {
	e := newEnv(t, "secret", nil)
	ctx := context.Background()

	_, err := e.svc.RefreshCredentialPair(ctx, IssueRequest{UserID: "u1", Email: "u1@example.com"})
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = e.svc.RefreshCredentialPair(ctx, IssueRequest{UserID: "u1", Email: "u1@example.com", PresentedRenewalToken: "bogus"})
	assert.ErrorIs(t, err, common.ErrNotFound)

	first, err := e.svc.IssueCredentialPair(ctx, IssueRequest{UserID: "u1", Email: "u1@example.com"})
	require.NoError(t, err)

	pair, err := e.svc.RefreshCredentialPair(ctx, IssueRequest{UserID: "u1", Email: "u1@example.com", PresentedRenewalToken: first.RenewalToken})
	require.NoError(t, err)
	assert.Equal(t, first.RenewalToken, pair.RenewalToken)
}

type brokenInsertRepo struct {
	*renewals.MemoryRepository
}

func (brokenInsertRepo) Insert(context.Context, models.RenewalRecord) error {
	return fmt.Errorf("%w: connection refused", common.ErrStore)
}

func TestIssueCredentialPair_StoreFailure(t *testing.T) {
	e := newEnv(t, "secret", func(c timex.Clock) renewals.Repository {
		return brokenInsertRepo{renewals.NewMemoryRepository(c)}
	})

	pair, err := e.svc.IssueCredentialPair(context.Background(), IssueRequest{UserID: "u1", Email: "u1@example.com"})

	assert.ErrorIs(t, err, common.ErrIssuanceFailed)
	assert.ErrorIs(t, err, common.ErrStore)
	assert.Empty(t, pair.AccessToken, "no access token without a stored renewal token")

	ie, ok := AsIssuanceError(err)
	require.True(t, ok)
	assert.Equal(t, "issue", ie.Op)
}

func TestIssueCredentialPair_SigningFailure(t *testing.T) {
	e := newEnv(t, "", nil)

	_, err := e.svc.IssueCredentialPair(context.Background(), IssueRequest{UserID: "u1", Email: "u1@example.com"})

	assert.ErrorIs(t, err, common.ErrIssuanceFailed)
	assert.ErrorIs(t, err, common.ErrSigning)
}

func TestIssueCredentialPair_Cancelled(t *testing.T) {
	e := newEnv(t, "secret", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.svc.IssueCredentialPair(ctx, IssueRequest{UserID: "u1", Email: "u1@example.com"})

	assert.ErrorIs(t, err, common.ErrCancelled)
	assert.NotErrorIs(t, err, common.ErrIssuanceFailed)
}

func TestValidateAccessToken(t *testing.T) {
	e := newEnv(t, "secret", nil)
	ctx := context.Background()

	pair, err := e.svc.IssueCredentialPair(ctx, IssueRequest{UserID: "u1", Email: "u1@example.com"})
	require.NoError(t, err)

	_, err = e.svc.ValidateAccessToken(ctx, "Bearer "+pair.AccessToken)
	assert.NoError(t, err)

	_, err = e.svc.ValidateAccessToken(ctx, pair.AccessToken+"x")
	assert.ErrorIs(t, err, common.ErrInvalidSignature)

	e.now = t0.Add(5 * time.Minute)
	_, err = e.svc.ValidateAccessToken(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, common.ErrExpired)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = e.svc.ValidateAccessToken(cctx, pair.AccessToken)
	assert.ErrorIs(t, err, common.ErrCancelled)
}

func TestIssueCredentialPair_ConcurrentDistinct(t *testing.T) {
	e := newEnv(t, "secret", nil)

	const n = 1000
	tokens := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pair, err := e.svc.IssueCredentialPair(context.Background(), IssueRequest{UserID: "u1", Email: "u1@example.com"})
			if err == nil {
				tokens[i] = pair.RenewalToken
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, n)
	for _, tok := range tokens {
		require.NotEmpty(t, tok)
		seen[tok] = struct{}{}
	}
	assert.Len(t, seen, n)
	assert.Equal(t, n, e.repo.Len())
}

func TestStripBearer(t *testing.T) {
	tests := map[string]string{
		"abc":            "abc",
		"Bearer abc":     "abc",
		"bearer   abc  ": "abc",
		"BEARER abc":     "abc",
		"  abc ":         "abc",
		"Bearer":         "",
		"Bearerabc":      "Bearerabc",
		"":               "",
	}
	for in, want := range tests {
		assert.Equal(t, want, StripBearer(in), "input %q", in)
	}
}

func TestIssuanceError(t *testing.T) {
	cause := errors.New("boom")
	err := error(&IssuanceError{Op: "issue", Cause: cause})

	assert.ErrorIs(t, err, common.ErrIssuanceFailed)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "issuance failed")
	assert.Equal(t, "refresh: issuance failed", (&IssuanceError{Op: "refresh"}).Error())
}
