package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"screener/auth"
	"screener/internal/config"
	"screener/registry"
	"screener/sdn"
	"screener/server"
	"screener/swift"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("failed to create data directory", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}

	sdnCache := sdn.NewCache(cfg.DataDir, cfg.SDNListURL, cfg.SDNTimeout, cfg.SDNFetchDelay, logger)
	matcher := sdn.NewMatcher(sdnCache, logger)

	client := registry.NewClient(cfg.RegistryBaseURL, cfg.RegistryTimeout, cfg.RegistryFetchDelay)
	resolver := registry.NewResolver(client, cfg.MaxOwnershipDepth, logger)
	orgClient := registry.NewOrgInfoClient(cfg.OrgInfoBaseURL, cfg.RegistryTimeout, cfg.RegistryFetchDelay)

	swiftStore, err := swift.NewStore(cfg.SwiftDBPath)
	if err != nil {
		logger.Error("failed to open swift store", "path", cfg.SwiftDBPath, "error", err)
		os.Exit(1)
	}
	defer swiftStore.Close()

	authSvc, err := auth.NewService(cfg.UsersDBPath, cfg.JWTSecret)
	if err != nil {
		logger.Error("failed to open auth service", "path", cfg.UsersDBPath, "error", err)
		os.Exit(1)
	}
	defer authSvc.Close()

	srv := server.New(cfg, logger, sdnCache, matcher, resolver, orgClient, swiftStore, authSvc)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
