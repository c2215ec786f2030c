package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hailam/chessarbiter/internal/board"
	"github.com/hailam/chessarbiter/internal/game"
)

var t0 = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newGame(t *testing.T, id string) *game.Game {
	t.Helper()
	g, err := game.New(id, game.Config{BlockDelay: time.Minute, Players: []game.Player{"alice", "bob"}}, t0)
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}
	return g
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTest(t)
	g := newGame(t, "g1")
	if err := g.Execute("alice", game.Move{From: "e2", To: "e4", Piece: "wP"}, t0.Add(3*time.Second)); err != nil {
		t.Fatal(err)
	}

	if err := s.SaveGame(g); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	got, err := s.LoadGame("g1")
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}

	if got.Board.FEN() != g.Board.FEN() {
		t.Errorf("FEN = %q, want %q", got.Board.FEN(), g.Board.FEN())
	}
	if len(got.Board.History) != 1 || got.Board.History[0] != "e2-e4" {
		t.Errorf("history = %v", got.Board.History)
	}
	if !got.NextDeadline().Equal(g.NextDeadline()) {
		t.Errorf("deadline = %v, want %v", got.NextDeadline(), g.NextDeadline())
	}
	if got.Clock.Used != g.Clock.Used || got.Clock.Moves != g.Clock.Moves {
		t.Errorf("clock = %+v, want %+v", got.Clock, g.Clock)
	}
	if c, ok := got.ColorOf("bob"); !ok || c != board.Black {
		t.Errorf("bob seat = %v, %v", c, ok)
	}

	// The loaded game keeps playing.
	if err := got.Execute("bob", game.Move{From: "e7", To: "e5", Piece: "bP"}, t0.Add(10*time.Second)); err != nil {
		t.Errorf("move after reload: %v", err)
	}
}

func TestWaitingGame(t *testing.T) {
	s := openTest(t)
	g, err := game.New("lobby", game.Config{Players: []game.Player{"alice"}}, t0)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveGame(g); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	got, err := s.LoadGame("lobby")
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if got.Started() {
		t.Error("waiting game came back started")
	}
	if err := got.Execute("bob", game.NewGame{Player: "bob"}, t0); err != nil {
		t.Errorf("join after reload: %v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	s := openTest(t)
	if _, err := s.LoadGame("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestListAndDelete(t *testing.T) {
	s := openTest(t)
	for _, id := range []string{"b", "a", "c"} {
		if err := s.SaveGame(newGame(t, id)); err != nil {
			t.Fatal(err)
		}
	}

	ids, err := s.ListGames()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Errorf("ListGames = %v", ids)
	}

	if err := s.DeleteGame("b"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadGame("b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted game still loads: %v", err)
	}
	ids, _ = s.ListGames()
	if len(ids) != 2 {
		t.Errorf("ListGames after delete = %v", ids)
	}
}

func TestStatsCountFinishedGamesOnce(t *testing.T) {
	s := openTest(t)
	g := newGame(t, "fools")
	moves := []struct {
		p   game.Player
		cmd game.Move
	}{
		{"alice", game.Move{From: "f2", To: "f3", Piece: "wP"}},
		{"bob", game.Move{From: "e7", To: "e5", Piece: "bP"}},
		{"alice", game.Move{From: "g2", To: "g4", Piece: "wP"}},
		{"bob", game.Move{From: "d8", To: "h4", Piece: "bQ"}},
	}
	for _, m := range moves {
		if err := g.Execute(m.p, m.cmd, t0); err != nil {
			t.Fatalf("%s: %v", m.cmd, err)
		}
		if err := s.SaveGame(g); err != nil {
			t.Fatal(err)
		}
	}
	// Saving the finished game again must not count it twice.
	if err := s.SaveGame(g); err != nil {
		t.Fatal(err)
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesFinished != 1 || stats.BlackWins != 1 || stats.WhiteWins != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.WinsByPlayer["bob"] != 1 {
		t.Errorf("bob wins = %d", stats.WinsByPlayer["bob"])
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir, err := DatabaseDir(t.TempDir())
	if err != nil {
		t.Fatalf("DatabaseDir: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("database dir not created: %v", err)
	}
	if filepath.Base(dir) != "db" {
		t.Errorf("DatabaseDir = %s", dir)
	}

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.SaveGame(newGame(t, "persist")); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.LoadGame("persist"); err != nil {
		t.Errorf("game lost across reopen: %v", err)
	}
}
