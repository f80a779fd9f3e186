package httpapi

import (
	"context"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/tokenprovider/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

type RouterOptions struct {
	Cookie         CookieOptions
	MetricsEnabled bool
	Health         HealthCheck
}

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors name fields by their json tag.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// NewRouter builds the gin engine with all routes.
func NewRouter(s CredentialService, opts RouterOptions, logger logging.Logger) *gin.Engine {
	useJSONFieldNames()

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(logger.With("module", "http")))

	h := NewHandler(s, opts.Cookie)

	token := r.Group("/token")
	{
		token.POST("/generate", h.Generate)
		token.POST("/refresh", h.Refresh)
		token.GET("/validate", h.Validate)
		token.POST("/validate", h.Validate)
	}

	r.GET("/health", healthHandler(opts.Health))

	if opts.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	return r
}

func healthHandler(check HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
