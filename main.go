package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sitedash/sitedash/internal/config"
	"github.com/sitedash/sitedash/internal/server"
	"github.com/sitedash/sitedash/pkg/logger"
)

func main() {
	// LOG_LEVEL applies until the full config is loaded
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if err := logger.Configure(cfg.Log); err != nil {
		logger.Fatalf("failed to configure logging: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v media=%v rate_limit=%v",
		cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Media.MinIO.Enabled(), cfg.RateLimit.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.Open(ctx, cfg)
	if err != nil {
		logger.Fatalf("startup failed: %v", err)
	}

	go func() {
		logger.Infof("Dashboard API listening on %s", srv.HTTP.Addr)
		if err := srv.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.HTTP.Shutdown(sctx); err != nil {
		logger.Errorf("graceful shutdown: %v", err)
	}
	srv.Close(sctx)
}
