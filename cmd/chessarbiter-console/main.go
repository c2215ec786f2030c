package main

import (
	"flag"
	"log"
	"os"

	"github.com/hailam/chessarbiter/internal/console"
	"github.com/hailam/chessarbiter/internal/storage"
)

var (
	gameID     = flag.String("game", "console", "game id")
	blockDelay = flag.Duration("block-delay", 0, "per-move deadline, 0 for none")
	persist    = flag.Bool("persist", false, "save the game in the data directory and resume it on start")
	dataDir    = flag.String("data", os.Getenv("CHESSARBITER_DATA"), "data directory used with -persist")
)

func main() {
	flag.Parse()

	cfg := console.Config{GameID: *gameID, BlockDelay: *blockDelay}
	if *persist {
		dbDir, err := storage.DatabaseDir(*dataDir)
		if err != nil {
			log.Fatalf("data dir: %v", err)
		}
		store, err := storage.Open(dbDir)
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
		defer store.Close()
		cfg.Store = store
	}

	c, err := console.New(cfg, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	if err := c.Run(os.Stdin); err != nil {
		log.Printf("read: %v", err)
	}
}
