package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sweetshop/internal/logger"
	"sweetshop/internal/session"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags every request with an id, reusing the caller's when present.
func RequestID(logg *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		ctx := logg.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequestLogger writes one line per request.
func RequestLogger(logg *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := logg.WithFields(c.Request.Context(), map[string]any{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			logg.Error(ctx, "http.request", c.Errors.Last())
			return
		}
		logg.Info(ctx, "http.request")
	}
}

// SessionMiddleware loads the visitor's session, starting a new one when the
// cookie is missing or stale. The cookie itself is written by saveSession.
func (h *Handler) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var sess *session.Session

		if id, err := c.Cookie(h.cookie.Name); err == nil && id != "" {
			loaded, err := h.sessions.Get(ctx, id)
			switch {
			case err == nil:
				sess = loaded
			case !errors.Is(err, session.ErrNotFound):
				h.logg.Error(ctx, "session load failed", err)
			}
		}

		if sess == nil {
			sess = session.New()
		}

		c.Set(sessionContextKey, sess)
		c.Request = c.Request.WithContext(h.logg.WithSessionID(ctx, sess.ID))
		c.Next()
	}
}

func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}

// AuthMiddleware sends visitors without an admin session to the login form.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentSession(c).Admin {
			c.Redirect(http.StatusFound, "/admin")
			c.Abort()
			return
		}
		noCache(c)
		c.Next()
	}
}
