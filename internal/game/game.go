// Package game is the dispatcher between callers and the rules engine. Every
// command goes through Execute, which resolves the caller's seat and keeps
// the clock in step with the board.
package game

import (
	"fmt"
	"log"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/hailam/chessarbiter/internal/board"
	"github.com/hailam/chessarbiter/internal/clock"
)

// Config holds the parameters of a new game.
type Config struct {
	BlockDelay time.Duration // per-move deadline, 0 disables it
	Players    []Player      // pre-seated players, White first
}

// Game is one match: the board, its clock and who plays which color.
// Board is nil until both seats are taken.
type Game struct {
	ID      string
	Created time.Time
	Board   *board.Board
	Clock   *clock.Clock
	Owners  map[Player]board.Color
}

// New creates a game and seats cfg.Players in order.
func New(id string, cfg Config, now time.Time) (*Game, error) {
	if len(cfg.Players) > 2 {
		return nil, fmt.Errorf("%w: %d players", ErrInvalidRequest, len(cfg.Players))
	}
	g := &Game{
		ID:      id,
		Created: now,
		Clock:   clock.New(now, cfg.BlockDelay),
		Owners:  make(map[Player]board.Color, 2),
	}
	for _, p := range cfg.Players {
		if err := g.seat(p, now); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Started reports whether both players are seated.
func (g *Game) Started() bool {
	return g.Board != nil
}

// Players returns the seated players in sorted order.
func (g *Game) Players() []Player {
	players := maps.Keys(g.Owners)
	slices.Sort(players)
	return players
}

// ColorOf returns the color p plays.
func (g *Game) ColorOf(p Player) (board.Color, bool) {
	c, ok := g.Owners[p]
	return c, ok
}

// PlayerOf returns who plays color c, or "" if the seat is empty.
func (g *Game) PlayerOf(c board.Color) Player {
	for p, pc := range g.Owners {
		if pc == c {
			return p
		}
	}
	return ""
}

// NextDeadline is the latest time the side to move may move. Zero when the
// game has no deadline or has not started.
func (g *Game) NextDeadline() time.Time {
	if !g.Started() {
		return time.Time{}
	}
	return g.Clock.NextDeadline()
}

// Execute runs cmd on behalf of caller at time now. On error nothing about
// the game has changed.
func (g *Game) Execute(caller Player, cmd Command, now time.Time) error {
	var err error
	if c, ok := cmd.(NewGame); ok {
		p := c.Player
		if p == "" {
			p = caller
		}
		err = g.seat(p, now)
	} else {
		err = g.play(caller, cmd, now)
	}

	if err != nil {
		log.Printf("game %s: %s by %q rejected: %s (%v)", g.ID, cmd, caller, Code(err), err)
	}
	return err
}

func (g *Game) seat(p Player, now time.Time) error {
	if p == "" {
		return fmt.Errorf("%w: empty player", ErrInvalidRequest)
	}
	switch len(g.Owners) {
	case 0:
		g.Owners[p] = board.White
		log.Printf("game %s: %q joins as white", g.ID, p)
	case 1:
		if _, ok := g.Owners[p]; ok {
			return fmt.Errorf("%w: %q is already seated", ErrInvalidRequest, p)
		}
		g.Owners[p] = board.Black
		g.Board = board.NewBoard()
		g.Clock.Start(now)
		log.Printf("game %s: %q joins as black, game started", g.ID, p)
	default:
		return fmt.Errorf("%w: game %s is full", ErrInvalidRequest, g.ID)
	}
	return nil
}

func (g *Game) play(caller Player, cmd Command, now time.Time) error {
	if !g.Started() {
		return fmt.Errorf("%w: game %s is waiting for players", ErrInvalidRequest, g.ID)
	}
	if g.Board.State.Terminal() {
		return fmt.Errorf("%w: %s", board.ErrGameOver, g.Board.State)
	}
	color, ok := g.Owners[caller]
	if !ok {
		return fmt.Errorf("%w: %q is not seated in game %s", ErrInvalidRequest, caller, g.ID)
	}
	if color != g.Board.Active {
		return fmt.Errorf("%w: %q plays %s, %s to move", board.ErrWrongColor, caller, color, g.Board.Active)
	}
	if g.Clock.Expired(now) {
		return fmt.Errorf("%w: deadline was %s", ErrDeadlineExceeded, g.Clock.NextDeadline().Format(time.RFC3339))
	}

	m, err := toMove(g.Board, cmd)
	if err != nil {
		return err
	}
	if err := g.Board.MakeMove(m); err != nil {
		return err
	}
	g.Board.SwitchTurn()
	if err := g.Clock.MakeMove(now, color); err != nil {
		log.Printf("game %s: %v", g.ID, err)
	}

	if state := g.Board.RecomputeState(); state.Terminal() {
		log.Printf("game %s: %s after %s", g.ID, state, g.Board.History[len(g.Board.History)-1])
	}
	return nil
}
