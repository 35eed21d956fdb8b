// Package handler is the serverless entrypoint. Data files must live on a
// writable path (for example SWEETSHOP_DATA_FILE=/tmp/db.json).
package handler

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"sweetshop/internal/app"
	"sweetshop/internal/config"
	"sweetshop/internal/logger"
)

var (
	once    sync.Once
	engine  http.Handler
	initErr error
)

func setup() {
	cfg, err := config.Load()
	if err != nil {
		initErr = err
		return
	}
	gin.SetMode(gin.ReleaseMode)
	logg := logger.New(logger.Options{
		ServiceName: "sweetshop-serverless",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})
	shop, err := app.New(context.Background(), cfg, logg, app.Options{})
	if err != nil {
		logg.Error(context.Background(), "serverless init failed", err)
		initErr = err
		return
	}
	engine = shop.Engine
}

func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(setup)
	if initErr != nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	engine.ServeHTTP(w, r)
}
