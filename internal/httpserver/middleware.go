package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	authsvc "vendormarket/internal/service/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type contextKey string

const identityCtxKey contextKey = "identity"

const loggerKey = "logger"

func loggerFrom(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if logger, ok := v.(*zap.Logger); ok {
			return logger
		}
	}
	return nil
}

// tokenResolver is the slice of the auth service the middleware needs.
type tokenResolver interface {
	Resolve(ctx context.Context, token string) (authsvc.Identity, error)
}

// authRequired resolves the bearer token into an identity and stores it on
// the request context. The core trusts the resolved identity and role.
func authRequired(resolver tokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "missing bearer token"})
			return
		}
		identity, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "invalid or expired token"})
			return
		}
		ctx := context.WithValue(c.Request.Context(), identityCtxKey, identity)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// roleRequired guards a route group to the listed roles.
func roleRequired(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := identityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "missing identity"})
			return
		}
		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "insufficient role"})
	}
}

func identityFrom(c *gin.Context) (authsvc.Identity, bool) {
	identity, ok := c.Request.Context().Value(identityCtxKey).(authsvc.Identity)
	return identity, ok
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// requestLogger logs each request with method, path, status and latency.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		c.Set(loggerKey, logger)
		start := time.Now()
		c.Next()
		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
