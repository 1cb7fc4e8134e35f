package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"paisawise/internal/cache"
	"paisawise/internal/database"
	"paisawise/internal/server"
	"paisawise/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		log.WithError(err).Error("migration failed")
		return err
	}
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var membershipCache cache.MembershipCache = cache.NewMemoryCache(cfg.Cache.MembershipTTL.Duration)
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, using in-process membership cache")
		} else {
			defer client.Close()
			membershipCache = cache.NewRedisCache(client, cfg.Cache.MembershipTTL.Duration, log)
			log.WithField("addr", cfg.Redis.Addr).Info("membership cache backed by redis")
		}
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(log)
	go wsHub.Run(ctx)

	svc := server.NewServices(server.Deps{
		DB:          db,
		Departments: cfg.Departments.Names,
		Secret:      cfg.Secret(),
		Cache:       membershipCache,
		Notifier:    wsHub,
		Log:         log,
	})
	router := server.NewRouter(cfg, svc, wsHub)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Server.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Error("server failed")
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
