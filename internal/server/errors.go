package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/ecoquest/internal/account"
	"github.com/abhisek/ecoquest/internal/auth"
	"github.com/abhisek/ecoquest/internal/llm"
	"github.com/abhisek/ecoquest/internal/profile"
)

// statusFor maps a domain error to an HTTP status.
func statusFor(err error) int {
	var pe *profile.PersistenceError
	var unavailable *llm.ErrProviderUnavailable
	var rateLimited *llm.ErrRateLimit
	switch {
	case errors.Is(err, profile.ErrNotAuthenticated),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, profile.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, profile.ErrUnknownTopic),
		errors.Is(err, profile.ErrInvalidLevel),
		errors.Is(err, account.ErrInvalidEmail),
		errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, profile.ErrLevelLocked):
		return http.StatusForbidden
	case errors.Is(err, account.ErrEmailTaken),
		errors.Is(err, profile.ErrConflictRetriesExhausted),
		errors.Is(err, profile.ErrProfileExists):
		return http.StatusConflict
	case errors.As(err, &pe),
		errors.As(err, &unavailable),
		errors.As(err, &rateLimited):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// fail writes err as a JSON error body. Server-side failures are logged and
// reported without internal detail.
func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed",
			"method", c.Request.Method, "path", c.FullPath(), "status", status, "error", err)
		msg = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
