// Package credentials is the entry point for issuing, refreshing and
// validating credential pairs. Transports call it; it owns no transport
// concerns.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/tokenprovider/internal/common"
	"github.com/dmitrijs2005/tokenprovider/internal/logging"
	"github.com/dmitrijs2005/tokenprovider/internal/server/auth"
	"github.com/dmitrijs2005/tokenprovider/internal/server/metrics"
	"github.com/dmitrijs2005/tokenprovider/internal/server/renewal"
	"github.com/dmitrijs2005/tokenprovider/internal/timex"
)

const (
	DefaultAccessTokenTTL = 5 * time.Minute
	DefaultRequestTimeout = 3 * time.Second

	opIssue   = "issue"
	opRefresh = "refresh"
)

// CredentialPair is built per request and never retained.
type CredentialPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RenewalToken     string
	RenewalExpiresAt time.Time
}

// IssueRequest identifies the already-authenticated user. PresentedRenewalToken
// is whatever renewal token the client sent, possibly empty.
type IssueRequest struct {
	UserID                string
	Email                 string
	PresentedRenewalToken string
}

// TokenSigner mints and verifies access tokens.
type TokenSigner interface {
	Mint(claims auth.Claims, expiresAt time.Time) (string, error)
	Verify(token string) (auth.Claims, error)
}

// RenewalResolver yields the renewal token for a request.
type RenewalResolver interface {
	Resolve(ctx context.Context, userID, presented string) (renewal.Result, error)
	ResolveExisting(ctx context.Context, userID, presented string) (renewal.Result, error)
}

type Options struct {
	AccessTokenTTL time.Duration
	// RequestTimeout is the single deadline applied to every operation.
	RequestTimeout time.Duration
}

type Service struct {
	signer   TokenSigner
	renewals RenewalResolver
	clock    timex.Clock
	opts     Options
	logger   logging.Logger
}

func NewService(signer TokenSigner, renewals RenewalResolver, clock timex.Clock, opts Options, logger logging.Logger) *Service {
	if opts.AccessTokenTTL <= 0 {
		opts.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	return &Service{
		signer:   signer,
		renewals: renewals,
		clock:    clock,
		opts:     opts,
		logger:   logger.With("module", "credentials"),
	}
}

// IssueCredentialPair returns an access token and a renewal token for the
// user. A presented renewal token is reused while it has more than the
// rotation horizon left, otherwise a new one is issued.
//
// Errors: common.ErrBadRequest for a missing user id or email,
// common.ErrCancelled when the caller gave up, and an *IssuanceError
// (common.ErrIssuanceFailed) for anything internal.
func (s *Service) IssueCredentialPair(ctx context.Context, req IssueRequest) (CredentialPair, error) {
	pair, err := s.issue(ctx, opIssue, req, s.renewals.Resolve)
	metrics.CountIssuance(opIssue, err)
	return pair, err
}

// RefreshCredentialPair is IssueCredentialPair for clients that must hold a
// valid renewal token: an absent, unknown, expired or foreign token yields
// common.ErrNotFound.
func (s *Service) RefreshCredentialPair(ctx context.Context, req IssueRequest) (CredentialPair, error) {
	pair, err := s.issue(ctx, opRefresh, req, s.renewals.ResolveExisting)
	metrics.CountIssuance(opRefresh, err)
	return pair, err
}

type resolveFunc func(ctx context.Context, userID, presented string) (renewal.Result, error)

func (s *Service) issue(ctx context.Context, op string, req IssueRequest, resolve resolveFunc) (CredentialPair, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.Email = strings.TrimSpace(req.Email)
	if req.UserID == "" || req.Email == "" {
		return CredentialPair{}, fmt.Errorf("%w: user id and email are required", common.ErrBadRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
	defer cancel()

	res, err := resolve(ctx, req.UserID, req.PresentedRenewalToken)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrCancelled), errors.Is(err, common.ErrNotFound):
			return CredentialPair{}, err
		default:
			return CredentialPair{}, s.fail(ctx, op, req.UserID, err)
		}
	}

	now := s.clock.Now()
	accessExpiresAt := now.Add(s.opts.AccessTokenTTL).Truncate(time.Second)
	access, err := s.signer.Mint(auth.Claims{
		UserID:       req.UserID,
		Email:        req.Email,
		RenewalToken: res.Token,
		IssuedAt:     now,
	}, accessExpiresAt)
	if err != nil {
		return CredentialPair{}, s.fail(ctx, op, req.UserID, err)
	}

	s.logger.Info(ctx, "credentials issued", "op", op, "user_id", req.UserID, "renewal", res.Outcome.String())

	return CredentialPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExpiresAt,
		RenewalToken:     res.Token,
		RenewalExpiresAt: res.ExpiresAt,
	}, nil
}

func (s *Service) fail(ctx context.Context, op, userID string, cause error) error {
	s.logger.Error(ctx, "credential issuance failed", "op", op, "user_id", userID, "error", cause)
	return &IssuanceError{Op: op, Cause: cause}
}

// ValidateAccessToken verifies an access token given either bare or as an
// "Authorization: Bearer" value and returns its claims. Failures are one of
// common.ErrExpired, common.ErrInvalidSignature, common.ErrIssuerMismatch or
// common.ErrAudienceMismatch.
func (s *Service) ValidateAccessToken(ctx context.Context, bearer string) (auth.Claims, error) {
	if err := ctx.Err(); err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %w", common.ErrCancelled, err)
	}

	claims, err := s.signer.Verify(StripBearer(bearer))
	metrics.ValidationTotal.WithLabelValues(validationResult(err)).Inc()
	if err != nil {
		s.logger.Debug(ctx, "access token rejected", "reason", err)
		return auth.Claims{}, err
	}
	return claims, nil
}

// StripBearer removes a case-insensitive "Bearer " prefix and surrounding
// whitespace.
func StripBearer(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "bearer") {
		return ""
	}
	if len(v) >= 7 && strings.EqualFold(v[:7], "bearer ") {
		v = strings.TrimSpace(v[7:])
	}
	return v
}

func validationResult(err error) string {
	switch {
	case err == nil:
		return "valid"
	case errors.Is(err, common.ErrExpired):
		return "expired"
	case errors.Is(err, common.ErrIssuerMismatch):
		return "issuer_mismatch"
	case errors.Is(err, common.ErrAudienceMismatch):
		return "audience_mismatch"
	default:
		return "invalid_signature"
	}
}
