package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jpbranski/clickfluencer-idle-sub002/internal/catalog"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/config"
	"github.com/jpbranski/clickfluencer-idle-sub002/internal/serverapp"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		panic(err)
	}

	logger, err := buildLogger(env.DevLogging)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(env.ConfigPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	cfg = env.Apply(cfg)
	if cfg.Auth.TokenSecret == "" {
		logger.Warn("CLICKER_TOKEN_SECRET not set; cloud sync tokens will not survive a restart")
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logger.Fatal("load catalog", zap.Error(err))
	}

	app, err := serverapp.New(serverapp.Options{
		Config:  cfg,
		Catalog: cat,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("build server", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           app.Handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	logger.Info("stopped")
}

func buildLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
