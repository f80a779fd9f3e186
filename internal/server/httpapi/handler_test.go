package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/tokenprovider/internal/common"
	"github.com/dmitrijs2005/tokenprovider/internal/cryptox"
	"github.com/dmitrijs2005/tokenprovider/internal/logging"
	"github.com/dmitrijs2005/tokenprovider/internal/server/auth"
	"github.com/dmitrijs2005/tokenprovider/internal/server/credentials"
	"github.com/dmitrijs2005/tokenprovider/internal/server/renewal"
	"github.com/dmitrijs2005/tokenprovider/internal/server/repositories/renewals"
	"github.com/dmitrijs2005/tokenprovider/internal/timex"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)

var testCookie = CookieOptions{Name: common.RenewalCookieName, Secure: true}

func init() {
	gin.SetMode(gin.TestMode)
}

func newRealRouter(t *testing.T) (*gin.Engine, *renewals.MemoryRepository) {
	t.Helper()
	clock := timex.FixedClock(t0)
	repo := renewals.NewMemoryRepository(clock)
	signer := auth.NewSigner([]byte("secret"), "tokenprovider", "clients", clock)
	coord := renewal.NewCoordinator(repo, clock, cryptox.SystemRandom(), renewal.DefaultOptions(), logging.Nop())
	svc := credentials.NewService(signer, coord, clock, credentials.Options{}, logging.Nop())
	return NewRouter(svc, RouterOptions{Cookie: testCookie}, logging.Nop()), repo
}

func doJSON(r http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func renewalCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == common.RenewalCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", common.RenewalCookieName)
	return nil
}

func TestGenerate_SetsCookieAndReturnsPair(t *testing.T) {
	r, repo := newRealRouter(t)

	w := doJSON(r, http.MethodPost, "/token/generate", `{"userId":"u1","email":"u1@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.Len(t, resp.RefreshToken, 43)
	assert.True(t, resp.RefreshExpiresAt.Equal(t0.Add(7*24*time.Hour)))
	assert.Equal(t, 1, repo.Len())

	c := renewalCookie(t, w)
	assert.Equal(t, resp.RefreshToken, c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.Expires.Equal(t0.Add(7*24*time.Hour)))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestGenerate_ReusesCookieToken(t *testing.T) {
	r, repo := newRealRouter(t)

	first := doJSON(r, http.MethodPost, "/token/generate", `{"userId":"u1","email":"u1@example.com"}`)
	require.Equal(t, http.StatusOK, first.Code)
	cookie := renewalCookie(t, first)

	second := doJSON(r, http.MethodPost, "/token/generate", `{"userId":"u1","email":"u1@example.com"}`, cookie)
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, cookie.Value, renewalCookie(t, second).Value)
	assert.Equal(t, 1, repo.Len())
}

func TestGenerate_BadRequests(t *testing.T) {
	r, _ := newRealRouter(t)

	tests := []struct {
		name    string
		body    string
		details string
	}{
		{name: "empty body", body: ""},
		{name: "malformed json", body: `{"userId":`},
		{name: "missing email", body: `{"userId":"u1"}`, details: "email is required"},
		{name: "missing user", body: `{"email":"u1@example.com"}`, details: "userId is required"},
		{name: "invalid email", body: `{"userId":"u1","email":"nope"}`, details: "email is invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/token/generate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			if tt.details != "" {
				assert.Contains(t, w.Body.String(), tt.details)
			}
		})
	}
}

func TestRefresh(t *testing.T) {
	r, _ := newRealRouter(t)

	w := doJSON(r, http.MethodPost, "/token/refresh", `{"userId":"u1","email":"u1@example.com"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	gen := doJSON(r, http.MethodPost, "/token/generate", `{"userId":"u1","email":"u1@example.com"}`)
	require.Equal(t, http.StatusOK, gen.Code)

	w = doJSON(r, http.MethodPost, "/token/refresh", `{"userId":"u1","email":"u1@example.com"}`, renewalCookie(t, gen))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := fmt.Sprintf(`{"userId":"u1","email":"u1@example.com","refreshToken":%q}`, renewalCookie(t, gen).Value)
	w = doJSON(r, http.MethodPost, "/token/refresh", body)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidate(t *testing.T) {
	r, _ := newRealRouter(t)

	gen := doJSON(r, http.MethodPost, "/token/generate", `{"userId":"u1","email":"u1@example.com"}`)
	require.Equal(t, http.StatusOK, gen.Code)
	var pair TokenResponse
	require.NoError(t, json.Unmarshal(gen.Body.Bytes(), &pair))

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		req := httptest.NewRequest(method, "/token/validate", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, method)
		var resp ValidateResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Valid)
		assert.Equal(t, "u1", resp.UserID)
	}

	req := httptest.NewRequest(http.MethodGet, "/token/validate", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/token/validate", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrInvalidSignature.Error())
}

type stubService struct {
	err error
}

func (s stubService) IssueCredentialPair(context.Context, credentials.IssueRequest) (credentials.CredentialPair, error) {
	return credentials.CredentialPair{}, s.err
}

func (s stubService) RefreshCredentialPair(context.Context, credentials.IssueRequest) (credentials.CredentialPair, error) {
	return credentials.CredentialPair{}, s.err
}

func (s stubService) ValidateAccessToken(context.Context, string) (auth.Claims, error) {
	return auth.Claims{}, s.err
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{err: common.ErrBadRequest, code: http.StatusBadRequest},
		{err: common.ErrNotFound, code: http.StatusUnauthorized},
		{err: fmt.Errorf("%w: ctx", common.ErrCancelled), code: http.StatusGatewayTimeout},
		{err: &credentials.IssuanceError{Op: "issue", Cause: errors.New("pq: password=hunter2")}, code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		r := NewRouter(stubService{err: tt.err}, RouterOptions{Cookie: testCookie}, logging.Nop())
		w := doJSON(r, http.MethodPost, "/token/generate", `{"userId":"u1","email":"u1@example.com"}`)

		assert.Equal(t, tt.code, w.Code, tt.err.Error())
		assert.NotContains(t, w.Body.String(), "hunter2")
	}

	validation := []error{common.ErrExpired, common.ErrIssuerMismatch, common.ErrAudienceMismatch, common.ErrInvalidSignature}
	for _, verr := range validation {
		r := NewRouter(stubService{err: verr}, RouterOptions{Cookie: testCookie}, logging.Nop())
		req := httptest.NewRequest(http.MethodGet, "/token/validate", nil)
		req.Header.Set("Authorization", "Bearer x")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), verr.Error())
	}
}

func TestHealthAndMetrics(t *testing.T) {
	healthy := NewRouter(stubService{}, RouterOptions{Cookie: testCookie, MetricsEnabled: true}, logging.Nop())

	w := httptest.NewRecorder()
	healthy.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	healthy.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	down := NewRouter(stubService{}, RouterOptions{
		Cookie: testCookie,
		Health: func(context.Context) error { return errors.New("db down") },
	}, logging.Nop())

	w = httptest.NewRecorder()
	down.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	down.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestID_PropagatesCallerValue(t *testing.T) {
	r := NewRouter(stubService{}, RouterOptions{Cookie: testCookie}, logging.Nop())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
