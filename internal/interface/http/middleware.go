package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/lawmbass/sleepysquid-drones/internal/infrastructure/oauth"
	"github.com/lawmbass/sleepysquid-drones/internal/infrastructure/ratelimit"
	"github.com/lawmbass/sleepysquid-drones/internal/usecase"
	"github.com/lawmbass/sleepysquid-drones/pkg/logger"
	"github.com/lawmbass/sleepysquid-drones/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxKeyEmail     = "userEmail"
	ctxKeyRequestID = "requestId"
)

// RequestID tags every request with a unique identifier for log correlation
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxKeyRequestID, id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

// RequestLogger logs each request after completion with latency and status
func RequestLogger(log logger.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		m.RequestDuration.WithLabelValues(c.Request.Method, c.FullPath()).Observe(elapsed.Seconds())
		if c.Writer.Status() >= http.StatusInternalServerError {
			m.ErrorsCount.WithLabelValues(c.FullPath()).Inc()
		}
		log.Debug("Request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"durationMs", elapsed.Milliseconds(),
			"requestId", c.GetString(ctxKeyRequestID),
		)
	}
}

// AuthMiddleware verifies the bearer token against Google and stores the
// caller's email in the request context.
type AuthMiddleware struct {
	oauth  *oauth.GoogleOAuth
	access *usecase.AccessService
	logger logger.Logger
}

func NewAuthMiddleware(oauth *oauth.GoogleOAuth, access *usecase.AccessService, logger logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{oauth: oauth, access: access, logger: logger}
}

// Required rejects requests without a valid bearer token
func (m *AuthMiddleware) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token"})
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		profile, err := m.oauth.VerifyAccessToken(c.Request.Context(), token)
		if err != nil {
			m.logger.Warn("Token verification failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid or expired token"})
			return
		}

		c.Set(ctxKeyEmail, profile.Email)
		c.Next()
	}
}

// Permission gates the route on a resolved permission. Must run after Required.
func (m *AuthMiddleware) Permission(perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(ctxKeyEmail)
		if !m.access.HasPermission(c.Request.Context(), email, perm) {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// RateLimit throttles by client IP using the configured counter store. The
// limiter failing open keeps a Redis outage from taking the public forms down.
func RateLimit(limiter *ratelimit.Limiter, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + ":" + c.FullPath()
		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("Rate limit check failed, allowing request", "error", err)
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many requests, try again later"})
			return
		}
		c.Next()
	}
}
