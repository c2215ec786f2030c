// chessarbiter hosts chess games over HTTP and keeps them in BadgerDB.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/chessarbiter/internal/httpx"
	"github.com/hailam/chessarbiter/internal/storage"
)

func main() {
	// Flags (env fallbacks).
	addr := flag.String("addr", getenv("CHESSARBITER_ADDR", ":8080"), "listen address")
	dataDir := flag.String("data", getenv("CHESSARBITER_DATA", ""), "data directory (default: platform data dir)")
	blockDelay := flag.Duration("block-delay", getenvDuration("CHESSARBITER_BLOCK_DELAY", 0), "default per-move deadline for new games, 0 for none")
	flag.Parse()

	dbDir, err := storage.DatabaseDir(*dataDir)
	if err != nil {
		log.Fatalf("data dir: %v", err)
	}
	store, err := storage.Open(dbDir)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	log.Printf("games stored in %s", dbDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, store, *addr, httpx.Config{BlockDelay: *blockDelay}); err != nil {
		store.Close()
		log.Fatal(err)
	}
	if err := store.Close(); err != nil {
		log.Printf("close storage: %v", err)
	}
}

// run serves until ctx is cancelled or the server fails.
func run(ctx context.Context, store *storage.Store, addr string, cfg httpx.Config) error {
	log.Println("chessarbiter started")
	defer log.Println("chessarbiter finished")

	srv := httpx.NewServer(store, cfg)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Listen(addr)
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Close(shutdownCtx)
	})

	return g.Wait()
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("ignoring %s=%q: %v", key, v, err)
			return def
		}
		return d
	}
	return def
}
