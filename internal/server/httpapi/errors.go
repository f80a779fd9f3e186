package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/tokenprovider/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError maps service errors to status codes. Internal causes are
// never written to the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrBadRequest):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "please provide a valid userId and email"})
	case errors.Is(err, common.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "refresh token not found or expired"})
	case common.IsValidationFailure(err):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": validationReason(err)})
	case errors.Is(err, common.ErrCancelled):
		c.AbortWithStatusJSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unexpected error while creating tokens"})
	}
}

func validationReason(err error) string {
	switch {
	case errors.Is(err, common.ErrExpired):
		return common.ErrExpired.Error()
	case errors.Is(err, common.ErrIssuerMismatch):
		return common.ErrIssuerMismatch.Error()
	case errors.Is(err, common.ErrAudienceMismatch):
		return common.ErrAudienceMismatch.Error()
	default:
		return common.ErrInvalidSignature.Error()
	}
}

func respondValidationError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": details,
		})
		return
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
