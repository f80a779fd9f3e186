// Package auth mints and verifies HS256 access tokens. A Signer is
// stateless apart from its key material and safe for concurrent use.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tokenprovider/internal/common"
	"github.com/dmitrijs2005/tokenprovider/internal/timex"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the content of an access token.
type Claims struct {
	ID           string
	UserID       string
	Email        string
	RenewalToken string
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

// tokenClaims is the wire form: registered claims plus uid, email and rtk.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID       string `json:"uid"`
	Email        string `json:"email,omitempty"`
	RenewalToken string `json:"rtk,omitempty"`
}

type Signer struct {
	key      []byte
	issuer   string
	audience string
	clock    timex.Clock
	parser   *jwt.Parser
}

// NewSigner returns a Signer for the given HMAC key. Tokens it mints carry
// issuer and audience, and Verify insists on both.
func NewSigner(key []byte, issuer, audience string, clock timex.Clock) *Signer {
	return &Signer{
		key:      key,
		issuer:   issuer,
		audience: audience,
		clock:    clock,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithAudience(audience),
			jwt.WithTimeFunc(clock.Now),
			jwt.WithIssuedAt(),
			jwt.WithExpirationRequired(),
		),
	}
}

// Mint signs claims into a compact JWT expiring at expiresAt. A zero
// IssuedAt is taken from the clock and truncated to whole seconds.
// expiresAt must fall on a whole second: exp is carried in seconds and a
// truncated expiry would end the token before expiresAt.
func (s *Signer) Mint(claims Claims, expiresAt time.Time) (string, error) {
	if len(s.key) == 0 {
		return "", fmt.Errorf("%w: empty signing key", common.ErrSigning)
	}
	if !expiresAt.Equal(expiresAt.Truncate(time.Second)) {
		return "", fmt.Errorf("%w: expiry %s is not on a whole second", common.ErrSigning, expiresAt.Format(time.RFC3339Nano))
	}

	issuedAt := claims.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = s.clock.Now()
	}
	id := claims.ID
	if id == "" {
		id = uuid.NewString()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   claims.UserID,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:       claims.UserID,
		Email:        claims.Email,
		RenewalToken: claims.RenewalToken,
	})

	tokenString, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrSigning, err)
	}
	return tokenString, nil
}

// Verify checks the token's signature, issuer, audience and that the clock
// lies in [iat, exp). It returns exactly one of common.ErrInvalidSignature,
// common.ErrIssuerMismatch, common.ErrAudienceMismatch or common.ErrExpired
// on failure; malformed input and foreign algorithms count as bad signatures.
func (s *Signer) Verify(tokenString string) (Claims, error) {
	tc := &tokenClaims{}

	token, err := s.parser.ParseWithClaims(tokenString, tc, func(*jwt.Token) (any, error) {
		if len(s.key) == 0 {
			return nil, errors.New("empty verification key")
		}
		return s.key, nil
	})
	if err != nil {
		return Claims{}, classify(err)
	}
	if !token.Valid {
		return Claims{}, common.ErrInvalidSignature
	}

	claims := Claims{
		ID:           tc.ID,
		UserID:       tc.UserID,
		Email:        tc.Email,
		RenewalToken: tc.RenewalToken,
	}
	if tc.IssuedAt != nil {
		claims.IssuedAt = tc.IssuedAt.Time
	}
	if tc.ExpiresAt != nil {
		claims.ExpiresAt = tc.ExpiresAt.Time
	}
	return claims, nil
}

// classify maps jwt parse errors onto the validation sentinels. Claim
// failures are reported in the order issuer, audience, time window.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return common.ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return common.ErrIssuerMismatch
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return common.ErrAudienceMismatch
	case errors.Is(err, jwt.ErrTokenExpired),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued),
		errors.Is(err, jwt.ErrTokenNotValidYet):
		return common.ErrExpired
	default:
		return common.ErrInvalidSignature
	}
}
