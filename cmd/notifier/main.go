package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/medicareplus/careportal/internal/config"
	"github.com/medicareplus/careportal/internal/notifications"
	"github.com/medicareplus/careportal/internal/observability"
	"github.com/medicareplus/careportal/internal/queue"
	"github.com/medicareplus/careportal/internal/queue/redisclient"
	"github.com/medicareplus/careportal/internal/queue/worker"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := redisclient.New(redisclient.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx); err != nil {
		log.Error("could not connect to redis", "err", err)
		os.Exit(1)
	}

	defer func() { _ = rdb.Close() }()

	prom := observability.NewProm(prometheus.NewRegistry())

	w := worker.New(
		worker.Config{PollTimeout: 2 * time.Second},
		queue.NewConfirmationQueue(rdb.Raw()),
		notifications.NewLogNotifier(),
		prom,
		log,
	)

	log.Info("notifier started", "redis", cfg.RedisAddr)

	if err := w.Run(ctx); err != nil {
		log.Error("notifier stopped with error", "err", err)
		os.Exit(1)
	}
}
