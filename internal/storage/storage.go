package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/chessarbiter/internal/board"
	"github.com/hailam/chessarbiter/internal/game"
)

// Storage keys
const (
	gamePrefix = "game/"
	keyStats   = "stats"
)

// ErrNotFound is returned when no game is stored under an id.
var ErrNotFound = errors.New("game not found")

// Stats counts finished games.
type Stats struct {
	GamesFinished int            `json:"games_finished"`
	WhiteWins     int            `json:"white_wins"`
	BlackWins     int            `json:"black_wins"`
	Stalemates    int            `json:"stalemates"`
	WinsByPlayer  map[string]int `json:"wins_by_player"`
}

// NewStats returns empty statistics.
func NewStats() *Stats {
	return &Stats{WinsByPlayer: make(map[string]int)}
}

// Store wraps BadgerDB. Each game is one JSON snapshot under "game/<id>".
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the database in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging
	return open(opts)
}

// OpenInMemory opens a database that lives only as long as the Store.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(id string) []byte {
	return []byte(gamePrefix + id)
}

// SaveGame writes the game snapshot. When this save is the one that ends
// the game, the result is counted in the statistics in the same transaction.
func (s *Store) SaveGame(g *game.Game) error {
	snap := g.Snapshot()
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		prev, err := getSnapshot(txn, snap.ID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if finished(snap) && (prev == nil || !finished(*prev)) {
			if err := recordResult(txn, snap); err != nil {
				return err
			}
		}
		return txn.Set(gameKey(snap.ID), data)
	})
}

// LoadGame reads the game stored under id.
func (s *Store) LoadGame(id string) (*game.Game, error) {
	var snap *game.Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		snap, err = getSnapshot(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return game.Restore(*snap)
}

// DeleteGame removes a game. Deleting an unknown id is not an error.
func (s *Store) DeleteGame(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(gameKey(id))
	})
}

// ListGames returns the ids of all stored games in key order.
func (s *Store) ListGames() ([]string, error) {
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(gamePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, strings.TrimPrefix(string(it.Item().Key()), gamePrefix))
		}
		return nil
	})
	return ids, err
}

// LoadStats loads the statistics, returns empty stats if none were recorded.
func (s *Store) LoadStats() (*Stats, error) {
	var stats *Stats
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		stats, err = getStats(txn)
		return err
	})
	return stats, err
}

func getSnapshot(txn *badger.Txn, id string) (*game.Snapshot, error) {
	item, err := txn.Get(gameKey(id))
	if err == badger.ErrKeyNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	var snap game.Snapshot
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &snap)
	})
	if err != nil {
		return nil, fmt.Errorf("decode game %s: %w", id, err)
	}
	return &snap, nil
}

func getStats(txn *badger.Txn) (*Stats, error) {
	stats := NewStats()
	item, err := txn.Get([]byte(keyStats))
	if err == badger.ErrKeyNotFound {
		return stats, nil // Use empty stats
	}
	if err != nil {
		return nil, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
	if stats.WinsByPlayer == nil {
		stats.WinsByPlayer = make(map[string]int)
	}
	return stats, err
}

func finished(s game.Snapshot) bool {
	return s.Board != nil && s.Board.State.Terminal()
}

// recordResult counts a finished game. After checkmate the side to move is
// the loser.
func recordResult(txn *badger.Txn, snap game.Snapshot) error {
	stats, err := getStats(txn)
	if err != nil {
		return err
	}

	stats.GamesFinished++
	switch snap.Board.State {
	case board.Stalemate:
		stats.Stalemates++
	case board.Checkmate:
		winner := snap.Board.Active.Other()
		if winner == board.White {
			stats.WhiteWins++
		} else {
			stats.BlackWins++
		}
		for p, c := range snap.Owners {
			if c == winner {
				stats.WinsByPlayer[string(p)]++
			}
		}
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return txn.Set([]byte(keyStats), data)
}
