package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sweetshop/internal/database"
	"sweetshop/internal/logger"
	"sweetshop/internal/services"
	"sweetshop/internal/session"
)

// CookieOptions controls the session cookie.
type CookieOptions struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Deps is everything the handlers need. All fields are required except
// Security, which defaults to a logger-backed one.
type Deps struct {
	DB        database.DocumentStore
	Cart      *services.CartService
	Orders    *services.OrderService
	Admin     *services.AdminService
	Reports   *services.ReportService
	Messages  *services.MessageService
	Auth      *services.AdminAuthenticator
	Security  *services.SecurityLogger
	Sessions  session.Store
	Logger    *logger.Logger
	UploadDir string
	Cookie    CookieOptions
}

// Handler serves the storefront and the admin console.
type Handler struct {
	db        database.DocumentStore
	cart      *services.CartService
	orders    *services.OrderService
	admin     *services.AdminService
	reports   *services.ReportService
	messages  *services.MessageService
	auth      *services.AdminAuthenticator
	security  *services.SecurityLogger
	sessions  session.Store
	logg      *logger.Logger
	uploadDir string
	cookie    CookieOptions
	now       func() time.Time
}

func NewHandler(d Deps) *Handler {
	h := &Handler{
		db:        d.DB,
		cart:      d.Cart,
		orders:    d.Orders,
		admin:     d.Admin,
		reports:   d.Reports,
		messages:  d.Messages,
		auth:      d.Auth,
		security:  d.Security,
		sessions:  d.Sessions,
		logg:      d.Logger,
		uploadDir: d.UploadDir,
		cookie:    d.Cookie,
		now:       time.Now,
	}
	if h.logg == nil {
		h.logg = logger.Nop()
	}
	if h.security == nil {
		h.security = services.NewSecurityLogger(h.logg)
	}
	if h.cookie.Name == "" {
		h.cookie.Name = "sweetshop_session"
	}
	return h
}

const (
	sessionContextKey = "sweetshop.session"
	cookieWrittenKey  = "sweetshop.session_cookie"
)

// currentSession returns the session loaded by SessionMiddleware. Outside the
// middleware (tests, misconfigured routes) a throwaway session is returned.
func currentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	s := session.New()
	c.Set(sessionContextKey, s)
	return s
}

// saveSession persists the session and re-issues its cookie, so the cookie
// expires together with the stored session. Failures are logged; the visitor
// only loses the change.
func (h *Handler) saveSession(c *gin.Context, s *session.Session) {
	if err := h.sessions.Save(c.Request.Context(), s); err != nil {
		h.logg.Error(c.Request.Context(), "session save failed", err)
		return
	}
	if c.GetString(cookieWrittenKey) == s.ID {
		return
	}
	h.setSessionCookie(c, s.ID, int(h.cookie.TTL.Seconds()))
	c.Set(cookieWrittenKey, s.ID)
}

// render adds the values every layout needs and writes the page.
func (h *Handler) render(c *gin.Context, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	s := currentSession(c)
	if _, ok := data["cartCount"]; !ok {
		data["cartCount"] = s.Cart.TotalCount()
	}
	data["isAdmin"] = s.Admin
	data["currentPath"] = c.Request.URL.Path
	c.HTML(code, name, data)
}

func (h *Handler) serverError(c *gin.Context, msg string, err error) {
	h.logg.Error(c.Request.Context(), msg, err)
	c.String(http.StatusInternalServerError, "Something went wrong. Please try again.")
}

// notFoundOr500 answers ErrNotFound with a plain 404 and anything else with a 500.
func (h *Handler) notFoundOr500(c *gin.Context, notFound string, err error) {
	if errors.Is(err, services.ErrNotFound) {
		c.String(http.StatusNotFound, notFound)
		return
	}
	h.serverError(c, "request failed", err)
}

func noCache(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
}

// Healthz reports whether the document can be read.
func (h *Handler) Healthz(c *gin.Context) {
	if _, err := h.db.Read(); err != nil {
		h.logg.Error(c.Request.Context(), "health check failed", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
