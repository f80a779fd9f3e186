package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/tokenprovider/internal/server/auth"
	"github.com/dmitrijs2005/tokenprovider/internal/server/credentials"
	"github.com/gin-gonic/gin"
)

// CredentialService is the part of credentials.Service the handlers use.
type CredentialService interface {
	IssueCredentialPair(ctx context.Context, req credentials.IssueRequest) (credentials.CredentialPair, error)
	RefreshCredentialPair(ctx context.Context, req credentials.IssueRequest) (credentials.CredentialPair, error)
	ValidateAccessToken(ctx context.Context, bearer string) (auth.Claims, error)
}

// CookieOptions configures the renewal token cookie.
type CookieOptions struct {
	Name   string
	Domain string
	Secure bool
}

type TokenRequest struct {
	UserID string `json:"userId" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	// RefreshToken lets non-browser clients present a renewal token in the
	// body; the cookie wins when both are sent.
	RefreshToken string `json:"refreshToken"`
}

type TokenResponse struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

type ValidateResponse struct {
	Valid     bool      `json:"valid"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Handler struct {
	service CredentialService
	cookie  CookieOptions
}

func NewHandler(s CredentialService, cookie CookieOptions) *Handler {
	return &Handler{service: s, cookie: cookie}
}

// Generate handles POST /token/generate.
func (h *Handler) Generate(c *gin.Context) {
	h.issue(c, h.service.IssueCredentialPair)
}

// Refresh handles POST /token/refresh. A valid renewal token is required.
func (h *Handler) Refresh(c *gin.Context) {
	h.issue(c, h.service.RefreshCredentialPair)
}

type issueFunc func(ctx context.Context, req credentials.IssueRequest) (credentials.CredentialPair, error)

func (h *Handler) issue(c *gin.Context, fn issueFunc) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "request body is required"})
			return
		}
		respondValidationError(c, err)
		return
	}

	presented := req.RefreshToken
	if v, err := c.Cookie(h.cookie.Name); err == nil && v != "" {
		presented = v
	}

	pair, err := fn(c.Request.Context(), credentials.IssueRequest{
		UserID:                req.UserID,
		Email:                 req.Email,
		PresentedRenewalToken: presented,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRenewalCookie(c, pair.RenewalToken, pair.RenewalExpiresAt)
	c.JSON(http.StatusOK, TokenResponse{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RenewalToken,
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RenewalExpiresAt,
	})
}

func (h *Handler) setRenewalCookie(c *gin.Context, token string, expiresAt time.Time) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Domain:   h.cookie.Domain,
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Validate handles GET and POST /token/validate with the token in the
// Authorization header.
func (h *Handler) Validate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no authorization header present"})
		return
	}
	if credentials.StripBearer(header) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bearer token not found"})
		return
	}

	claims, err := h.service.ValidateAccessToken(c.Request.Context(), header)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ValidateResponse{
		Valid:     true,
		UserID:    claims.UserID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt,
	})
}
