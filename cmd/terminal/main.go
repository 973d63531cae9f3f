package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"warungpos/terminal/internal/cache"
	"warungpos/terminal/internal/checkout"
	"warungpos/terminal/internal/config"
	"warungpos/terminal/internal/connectivity"
	"warungpos/terminal/internal/localstore"
	"warungpos/terminal/internal/notify"
	"warungpos/terminal/internal/ordernum"
	"warungpos/terminal/internal/queue"
	"warungpos/terminal/internal/service"
	"warungpos/terminal/internal/store"
	"warungpos/terminal/internal/store/memory"
	pgstore "warungpos/terminal/internal/store/postgres"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo store.Repository
	closers := make([]func() error, 0, 2)
	online := false

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("system of record unreachable (%v), starting offline", err)
			repo = memory.New()
		} else {
			repo = pg
			online = true
			closers = append(closers, pg.Close)
			log.Println("repository: postgres")
		}
	} else {
		repo = memory.NewSeeded()
		online = true
		log.Println("repository: in-memory (seeded)")
	}

	seqCache := cache.SequenceCache(cache.NoopSequenceCache{})
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisSequenceCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Printf("redis unavailable (%v), using noop sequence cache", err)
		} else {
			seqCache = redisCache
			closers = append(closers, redisCache.Close)
			log.Println("sequence cache: redis")
		}
	} else {
		log.Println("sequence cache: noop")
	}

	local, err := localstore.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("local storage unavailable: %v", err)
	}

	dispatcher := notify.Dispatcher(notify.NoopDispatcher{})
	if cfg.NotifyURL != "" {
		dispatcher = notify.NewWebhookDispatcher(cfg.NotifyURL, time.Duration(cfg.NotifyTimeoutSeconds)*time.Second)
		log.Println("notifier: webhook")
	} else {
		log.Println("notifier: noop")
	}

	monitor := connectivity.NewMonitor(online)
	offlineQueue := queue.New(local)
	allocator := ordernum.NewAllocator(repo, seqCache, time.Duration(cfg.OrderSeqTTLSeconds)*time.Second, cfg.StoreID)
	svc := service.New(repo, offlineQueue, monitor, allocator, dispatcher, cfg.StoreID)

	monitor.OnOnline(
		func() int { return svc.PendingCount(context.Background()) },
		func(pending int) {
			log.Printf("back online, %d offline sales pending sync", pending)
		},
	)

	if online {
		if err := allocator.RefreshSnapshot(ctx); err != nil {
			log.Printf("WARN: order number snapshot unavailable: %v", err)
		}
	}

	flow := checkout.Restore(ctx, local, cfg.StoreID)
	if len(flow.Draft().Items) > 0 {
		log.Printf("restored draft at step %d with %d line items", flow.Step(), len(flow.Draft().Items))
	}
	if pending := svc.PendingCount(ctx); pending > 0 {
		log.Printf("%d offline sales awaiting sync", pending)
	}

	log.Printf("terminal %s ready (store %s, online=%t)", cfg.TerminalID, cfg.StoreID, monitor.Online())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close error: %v", err)
		}
	}

	log.Println("terminal stopped")
}
