package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// CORSConfig represents CORS configuration
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           int
}

var baseAllowHeaders = []string{"Accept", "Content-Type", "X-Request-ID"}

// DefaultCORSConfig allows any origin to call the read and process endpoints.
func DefaultCORSConfig() CORSConfig {
	return NewCORSConfig(nil, nil)
}

// NewCORSConfig builds the policy for the browser frontend. An empty origin list means "*".
// extraHeaders are allowed on top of the headers the API itself reads.
func NewCORSConfig(origins, extraHeaders []string) CORSConfig {
	origins = lo.Uniq(lo.Compact(lo.Map(origins, func(o string, _ int) string {
		return strings.TrimRight(strings.TrimSpace(o), "/")
	})))
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	headers := append(append([]string{}, baseAllowHeaders...), lo.Map(extraHeaders, func(h string, _ int) string {
		return http.CanonicalHeaderKey(strings.TrimSpace(h))
	})...)

	return CORSConfig{
		AllowOrigins:  origins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  lo.Uniq(lo.Compact(headers)),
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        3600,
	}
}

// allowedOrigin returns the Access-Control-Allow-Origin value for origin, or "".
func (cfg CORSConfig) allowedOrigin(origin string) string {
	if lo.Contains(cfg.AllowOrigins, "*") {
		return "*"
	}
	if origin != "" && lo.Contains(cfg.AllowOrigins, origin) {
		return origin
	}
	return ""
}

// CORS returns a CORS middleware with the given configuration.
// Preflight requests from origins outside the list are refused with 403.
func CORS(config CORSConfig) gin.HandlerFunc {
	methods := strings.Join(config.AllowMethods, ", ")
	headers := strings.Join(config.AllowHeaders, ", ")
	expose := strings.Join(config.ExposeHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		allowed := config.allowedOrigin(origin)

		if allowed != "" {
			c.Header("Access-Control-Allow-Origin", allowed)
			if allowed != "*" {
				c.Header("Vary", "Origin")
			}
			if methods != "" {
				c.Header("Access-Control-Allow-Methods", methods)
			}
			if headers != "" {
				c.Header("Access-Control-Allow-Headers", headers)
			}
			if expose != "" {
				c.Header("Access-Control-Expose-Headers", expose)
			}
			if config.AllowCredentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
			if config.MaxAge > 0 {
				c.Header("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
			}
		}

		if c.Request.Method == http.MethodOptions {
			if allowed == "" && origin != "" {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
