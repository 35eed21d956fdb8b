package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweetshop/internal/config"
)

func setShopEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SWEETSHOP_ADMIN_PASSWORD", "admin123")
	t.Setenv("SWEETSHOP_DATA_FILE", filepath.Join(dir, "db.json"))
	t.Setenv("SWEETSHOP_MESSAGES_FILE", filepath.Join(dir, "messages.json"))
	t.Setenv("SWEETSHOP_UPLOAD_DIR", filepath.Join(dir, "uploads"))
	t.Setenv("SWEETSHOP_STATIC_DIR", filepath.Join(dir, "public"))
	t.Setenv("SWEETSHOP_LOG_LEVEL", "error")
	return dir
}

func TestRunReturnsConfigErrors(t *testing.T) {
	setShopEnv(t)
	t.Setenv("SWEETSHOP_SESSION_STORE", "carrier-pigeon")

	err := run(context.Background())
	assert.ErrorContains(t, err, "config")
}

func TestRunReturnsAfterAppIsBuilt(t *testing.T) {
	dir := setShopEnv(t)
	t.Setenv("SWEETSHOP_TLS_ENABLED", "true")
	t.Setenv("SWEETSHOP_TLS_CERT_FILE", filepath.Join(dir, "missing.crt"))
	t.Setenv("SWEETSHOP_TLS_KEY_FILE", filepath.Join(dir, "missing.key"))

	err := run(context.Background())
	assert.ErrorContains(t, err, "tls certificate")
}

func TestBuildServers(t *testing.T) {
	cfg := &config.Config{
		App: config.AppConfig{Port: "3000"},
		TLS: config.TLSConfig{Enabled: true, Port: "8443", Hosts: "localhost", RedirectHTTP: true},
	}
	servers, err := buildServers(cfg, http.NotFoundHandler())
	require.NoError(t, err)
	require.Len(t, servers, 2)
	assert.Equal(t, ":3000", servers[0].Addr)
	assert.NotNil(t, servers[1].TLSConfig)

	req := httptest.NewRequest(http.MethodGet, "http://shop.test:3000/cart?x=1", nil)
	rec := httptest.NewRecorder()
	servers[0].Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "https://shop.test:8443/cart?x=1", rec.Header().Get("Location"))
}
