package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"sweetshop/internal/app"
	"sweetshop/internal/config"
	"sweetshop/internal/logger"
	"sweetshop/internal/tlsutil"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(context.Background()); err != nil {
		os.Exit(1)
	}
}

// run serves until a signal arrives or a server fails. Deferred cleanup always
// runs before main decides the exit code.
func run(ctx context.Context) error {
	logg := logger.New(logger.Options{ServiceName: "sweetshop"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return resourceFailed(ctx, logg, "config", err)
	}

	logg = logger.New(logger.Options{
		ServiceName: "sweetshop",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	if cfg.App.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	shop, err := app.New(ctx, cfg, logg, app.Options{})
	if err != nil {
		return resourceFailed(ctx, logg, "app", err)
	}
	defer func() {
		if err := shop.Close(); err != nil {
			logg.Error(ctx, "failed to close app resources", err)
		}
	}()

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{"env": cfg.App.Env})

	servers, err := buildServers(cfg, shop.Engine)
	if err != nil {
		return resourceFailed(ctx, logg, "tls certificate", err)
	}

	g, gctx := errgroup.WithContext(runCtx)
	for _, srv := range servers {
		g.Go(func() error {
			logg.Info(logg.WithField(runCtx, "addr", srv.Addr), "http server listening")
			var err error
			if srv.TLSConfig != nil {
				err = srv.ListenAndServeTLS("", "")
			} else {
				err = srv.ListenAndServe()
			}
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		var errs []error
		for _, srv := range servers {
			errs = append(errs, srv.Shutdown(shutdownCtx))
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		logg.Error(runCtx, "server stopped with error", err)
		return err
	}
	logg.Info(runCtx, "server stopped")
	return nil
}

// buildServers returns the plain HTTP server and, when TLS is enabled, an
// HTTPS server. With redirect on, plain HTTP only forwards to HTTPS.
func buildServers(cfg *config.Config, handler http.Handler) ([]*http.Server, error) {
	httpSrv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if !cfg.TLS.Enabled {
		return []*http.Server{httpSrv}, nil
	}

	cert, err := tlsutil.Certificate(cfg.TLS)
	if err != nil {
		return nil, err
	}
	httpsSrv := &http.Server{
		Addr:              ":" + cfg.TLS.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		TLSConfig: &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		},
	}
	if cfg.TLS.RedirectHTTP {
		httpSrv.Handler = redirectToHTTPS(cfg.TLS.Port)
	}
	return []*http.Server{httpSrv, httpsSrv}, nil
}

func redirectToHTTPS(httpsPort string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.Host
		if h, _, err := net.SplitHostPort(r.Host); err == nil {
			host = h
		}
		target := fmt.Sprintf("https://%s:%s%s", host, httpsPort, r.URL.RequestURI())
		http.Redirect(w, r, target, http.StatusMovedPermanently)
	})
}

func resourceFailed(ctx context.Context, logg *logger.Logger, resource string, err error) error {
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	return fmt.Errorf("%s: %w", resource, err)
}
