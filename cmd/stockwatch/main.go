package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ariefcatur/go-fooddist-admin.git/internal/config"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/events"
	kafkax "github.com/ariefcatur/go-fooddist-admin.git/internal/kafka"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/ordersvc"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/redisx"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/stock"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Upstream client + aggregator (writes straight into the redis cache)
	upstream := ordersvc.NewClient(cfg.ServiceBaseURL, cfg.ServiceTimeout)
	ref := &stock.Refresher{
		Catalog: upstream,
		Agg:     &stock.Aggregator{Fetcher: upstream, Cache: &stock.Cache{R: rdb}},
		Dedup:   &stock.RedisDedup{R: rdb, Service: cfg.ServiceName + "-stockwatch"},
	}

	// Consumer
	group := getenv("STOCKWATCH_GROUP", "stockwatch")
	workers := mustAtoi(os.Getenv("STOCKWATCH_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, events.TopicCacheInvalidated, workers)

	go func() {
		logrus.Infof("stockwatch consumer started: group=%s topic=%s workers=%d", group, events.TopicCacheInvalidated, workers)
		if err := cons.Start(ctx, ref.HandleInvalidated); err != nil {
			logrus.Errorf("consumer exit: %v", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logrus.Info("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
