package game

import (
	"fmt"
	"time"

	"github.com/hailam/chessarbiter/internal/board"
	"github.com/hailam/chessarbiter/internal/clock"
)

// Snapshot is the stored form of a Game.
type Snapshot struct {
	ID      string                 `json:"id"`
	Created time.Time              `json:"created"`
	Board   *board.Board           `json:"board,omitempty"`
	Clock   clock.Clock            `json:"clock"`
	Owners  map[Player]board.Color `json:"owners"`
}

// Snapshot returns a copy of g that shares no memory with it.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		ID:      g.ID,
		Created: g.Created,
		Clock:   *g.Clock,
		Owners:  make(map[Player]board.Color, len(g.Owners)),
	}
	if g.Board != nil {
		s.Board = g.Board.Copy()
	}
	for p, c := range g.Owners {
		s.Owners[p] = c
	}
	return s
}

// Restore rebuilds a Game from a snapshot, checking that it is consistent.
func Restore(s Snapshot) (*Game, error) {
	if s.ID == "" {
		return nil, fmt.Errorf("%w: snapshot without id", ErrInvalidRequest)
	}
	if len(s.Owners) > 2 {
		return nil, fmt.Errorf("%w: %d owners in game %s", ErrInvalidRequest, len(s.Owners), s.ID)
	}
	seen := map[board.Color]bool{}
	for p, c := range s.Owners {
		if (c != board.White && c != board.Black) || seen[c] {
			return nil, fmt.Errorf("%w: bad seat for %q in game %s", ErrInvalidRequest, p, s.ID)
		}
		seen[c] = true
	}
	if (s.Board != nil) != (len(s.Owners) == 2) {
		return nil, fmt.Errorf("%w: game %s board does not match its seats", ErrInvalidRequest, s.ID)
	}
	if s.Board != nil {
		if err := s.Board.Check(); err != nil {
			return nil, fmt.Errorf("game %s: %w", s.ID, err)
		}
	}

	g := &Game{
		ID:      s.ID,
		Created: s.Created,
		Owners:  make(map[Player]board.Color, 2),
	}
	c := s.Clock
	g.Clock = &c
	for p, col := range s.Owners {
		g.Owners[p] = col
	}
	if s.Board != nil {
		g.Board = s.Board.Copy()
	}
	return g, nil
}
