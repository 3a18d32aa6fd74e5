package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-fooddist-admin.git/internal/config"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/draft"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/events"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-fooddist-admin.git/internal/kafka"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/ordersvc"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/redisx"
	"github.com/ariefcatur/go-fooddist-admin.git/internal/stock"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

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

	// Kafka producer (invalidation signals)
	prod := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicCacheInvalidated, 1024)
	prod.Start(ctx)
	signals := &events.Publisher{Producer: prod, Service: cfg.ServiceName}

	// Upstream client, drafts, stock
	upstream := ordersvc.NewClient(cfg.ServiceBaseURL, cfg.ServiceTimeout)
	drafts := &draft.Service{Store: draft.NewStore(), Upstream: upstream, Signals: signals}
	agg := &stock.Aggregator{Fetcher: upstream, Cache: &stock.Cache{R: rdb}}

	router := httpx.NewRouter()
	dh := &httpx.DraftHandler{Drafts: drafts}
	dh.Register(router)
	ih := &httpx.InventoryHandler{Upstream: upstream, Stock: agg, Signals: signals}
	ih.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		logrus.Infof("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logrus.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // tutup inbox -> flush & close writer
	cancel()          // stop producer loop
	prod.WaitClosed() // drain
}
