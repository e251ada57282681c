package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medicareplus/careportal/internal/config"
	"github.com/medicareplus/careportal/internal/db"
	careportalhttp "github.com/medicareplus/careportal/internal/http"
	"github.com/medicareplus/careportal/internal/observability"
	"github.com/medicareplus/careportal/internal/queue"
	"github.com/medicareplus/careportal/internal/queue/redisclient"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	ctx := context.Background()

	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(ctx, "careportal-api", cfg.OTLPEndpoint)
		if err != nil {
			log.Warn("tracing disabled", "err", err)
		} else {
			defer func() {
				cctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = shutdownTracer(cctx)
			}()
		}
	}

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("could not connect to database", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	bootCtx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	if err := db.EnsureSchema(bootCtx, pool); err != nil {
		log.Error("could not ensure schema", "err", err)
		os.Exit(1)
	}

	if err := db.EnsureAdminUser(bootCtx, pool, cfg); err != nil {
		log.Error("could not seed admin user", "err", err)
		os.Exit(1)
	}

	// Redis feeds the booking-confirmation pipeline. The API stays up
	// without it; confirmations are simply skipped.
	var confirmations *queue.ConfirmationQueue

	rdb := redisclient.New(redisclient.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := rdb.Ping(bootCtx); err != nil {
		log.Warn("redis unavailable, booking confirmations disabled", "err", err)
	} else {
		confirmations = queue.NewConfirmationQueue(rdb.Raw())
		defer func() { _ = rdb.Close() }()
	}

	router := careportalhttp.NewRouter(careportalhttp.RouterDeps{
		Log:           log,
		Pool:          pool,
		Cfg:           cfg,
		Confirmations: confirmations,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("api listening", "port", cfg.Port, "env", cfg.Env)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	<-shutdownCh

	log.Info("shutting down")

	shutdownCtx, cancelShutdown := config.WithTimeout(10 * time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
	}
}
