package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-inventory/internal/auth"
	"github.com/iyhunko/product-inventory/internal/config"
	"github.com/iyhunko/product-inventory/internal/metrics"
	"github.com/iyhunko/product-inventory/internal/model"
	"github.com/iyhunko/product-inventory/internal/repository"
)

const userContextKey = "authenticated_user"

type Middleware struct {
	config *config.Config
	tokens *auth.TokenManager
	users  repository.UserRepository
}

// New initializes the middleware with the given configuration.
// We don't need ctx here because it always has Gin context.
func New(config *config.Config, users repository.UserRepository) *Middleware {
	return &Middleware{
		config: config,
		tokens: auth.NewTokenManager(config.Auth.JWTSecret),
		users:  users,
	}
}

// Recovery is a middleware that recovers from panics and returns a 500 Internal Server Error
// instead of crashing the server.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("Panic recovered",
					slog.Any("error", err),
					slog.String("path", c.Request.URL.Path),
					slog.String("method", c.Request.Method),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"message": "Internal Server Error",
				})
			}
		}()
		c.Next()
	}
}

// CORS allows browser clients on any origin to call the API.
// Preflight requests are answered directly with 204.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Writer.Header()
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		header.Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Logger logs every handled request and counts it in the HTTP request metric.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
		}
		if status >= http.StatusInternalServerError {
			slog.Error("Request failed", attrs...)
			return
		}
		slog.Info("Request handled", attrs...)
	}
}

// Authenticate requires a valid bearer token naming an existing user.
// The user is stored on the context and can be read with CurrentUser.
func (m *Middleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthenticated(c)
			return
		}

		userID, err := m.tokens.Validate(token)
		if err != nil {
			slog.Debug("Rejected bearer token", slog.Any("err", err))
			unauthenticated(c)
			return
		}

		user, err := m.users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				slog.Error("Failed to load authenticated user", slog.Any("err", err), slog.Int64("user_id", userID))
			}
			unauthenticated(c)
			return
		}

		SetCurrentUser(c, user)
		c.Next()
	}
}

// SetCurrentUser stores the authenticated user on the request context.
func SetCurrentUser(c *gin.Context, user *model.User) {
	c.Set(userContextKey, user)
}

// CurrentUser returns the user stored by Authenticate.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	value, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
}
