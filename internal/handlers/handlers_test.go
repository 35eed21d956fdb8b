package handlers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweetshop/internal/logger"
	"sweetshop/internal/session"
	"sweetshop/web"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestHandler(t *testing.T) (*Handler, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore(time.Hour)
	h := NewHandler(Deps{
		Sessions:  store,
		Logger:    logger.Nop(),
		UploadDir: t.TempDir(),
		Cookie:    CookieOptions{Name: "sid", TTL: time.Hour},
	})
	return h, store
}

func TestRequestIDIsEchoedOrGenerated(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(logger.Nop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rec.Header().Get("X-Request-Id"), 36)
}

func TestSaveSessionRefreshesCookie(t *testing.T) {
	h, _ := newTestHandler(t)
	r := gin.New()
	r.Use(h.SessionMiddleware())
	r.GET("/", func(c *gin.Context) {
		h.saveSession(c, currentSession(c))
		h.saveSession(c, currentSession(c))
		c.String(http.StatusOK, currentSession(c).ID)
	})
	r.GET("/peek", func(c *gin.Context) { c.String(http.StatusOK, currentSession(c).ID) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.Equal(t, rec.Body.String(), cookies[0].Value)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	refreshed := rec.Result().Cookies()
	require.Len(t, refreshed, 1)
	assert.Equal(t, cookies[0].Value, refreshed[0].Value)
	assert.Equal(t, 3600, refreshed[0].MaxAge)
	assert.Equal(t, cookies[0].Value, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/peek", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, cookies[0].Value, rec.Body.String())
}

func TestSessionMiddlewareReplacesUnknownCookie(t *testing.T) {
	h, _ := newTestHandler(t)
	r := gin.New()
	r.Use(h.SessionMiddleware())
	r.GET("/", func(c *gin.Context) {
		h.saveSession(c, currentSession(c))
		c.String(http.StatusOK, currentSession(c).ID)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "stale"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.NotEqual(t, "stale", rec.Body.String())
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, rec.Body.String(), cookies[0].Value)
}

func TestAuthMiddleware(t *testing.T) {
	h, store := newTestHandler(t)
	r := gin.New()
	r.Use(h.SessionMiddleware())
	admin := r.Group("/admin", h.AuthMiddleware())
	admin.GET("/dashboard", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))

	sess := session.New()
	sess.Admin = true
	require.NoError(t, store.Save(context.Background(), sess))

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: sess.ID})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")
}

func TestRendererParsesEveryPage(t *testing.T) {
	renderer, err := NewHTMLRenderer(web.Templates())
	require.NoError(t, err)
	for name := range pageLayouts {
		assert.Contains(t, renderer.Templates, name)
	}

	rec := httptest.NewRecorder()
	err = renderer.Instance("about.html", gin.H{"title": "About"}).Render(rec)
	require.NoError(t, err)
	assert.Contains(t, rec.Body.String(), "<title>")

	err = renderer.Instance("nope.html", nil).Render(httptest.NewRecorder())
	assert.ErrorContains(t, err, `"nope.html"`)
}

func TestSaveUploadRejectsUnknownExtensions(t *testing.T) {
	h, _ := newTestHandler(t)

	upload := func(filename string) (string, error) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		fw, err := mw.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, _ = fw.Write([]byte("data"))
		require.NoError(t, mw.Close())

		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/", &body)
		c.Request.Header.Set("Content-Type", mw.FormDataContentType())
		return h.saveUpload(c, "image")
	}

	_, err := upload("shell.php")
	assert.Error(t, err)

	url, err := upload("Photo.JPG")
	require.NoError(t, err)
	assert.Regexp(t, `^/media/[0-9a-f-]{36}\.jpg$`, url)
}

func TestDiscardUploadRemovesSavedFile(t *testing.T) {
	h, _ := newTestHandler(t)
	name := "3f2b6c1e-0000-4000-8000-000000000000.png"
	path := filepath.Join(h.uploadDir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	h.discardUpload(c, UploadURLPrefix+name)
	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	h.discardUpload(c, "https://cdn.example.com/x.png")
	h.discardUpload(c, "")
}

func TestSaveUploadWithoutFile(t *testing.T) {
	h, _ := newTestHandler(t)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	url, err := h.saveUpload(c, "image")
	require.NoError(t, err)
	assert.Empty(t, url)
}
