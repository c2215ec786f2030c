// Package clock keeps the per-move deadline for a game. Each color gets one
// window of BlockDelay to answer, measured from the end of the previous move.
// The clock only reports; rejecting a late move is up to the caller.
package clock

import (
	"errors"
	"time"

	"github.com/hailam/chessarbiter/internal/board"
)

// ErrNonMonotonic is returned by MakeMove when the reported time is earlier
// than the start of the current turn.
var ErrNonMonotonic = errors.New("clock went backwards")

// Clock is plain data so that it can be stored alongside the board.
type Clock struct {
	BlockDelay time.Duration    `json:"block_delay"` // 0 means no deadline
	Started    time.Time        `json:"started"`
	TurnStart  time.Time        `json:"turn_start"` // when the side to move got the move
	LastMove   [2]time.Time     `json:"last_move"`  // [Color]
	Used       [2]time.Duration `json:"used"`       // total thinking time per color
	Moves      [2]int           `json:"moves"`
}

// New creates a clock whose first turn starts at now.
func New(now time.Time, blockDelay time.Duration) *Clock {
	c := &Clock{BlockDelay: blockDelay}
	c.Start(now)
	return c
}

// Start re-anchors the clock at now, e.g. when the second player is seated
// and the game actually begins. Recorded moves are kept.
func (c *Clock) Start(now time.Time) {
	c.Started = now
	c.TurnStart = now
}

// MakeMove records that color completed a move at now and opens the
// opponent's window. A timestamp before the current turn start is counted
// as zero elapsed time and reported with ErrNonMonotonic.
func (c *Clock) MakeMove(now time.Time, color board.Color) error {
	var err error
	elapsed := now.Sub(c.TurnStart)
	if elapsed < 0 {
		elapsed = 0
		now = c.TurnStart
		err = ErrNonMonotonic
	}

	c.Used[color] += elapsed
	c.Moves[color]++
	c.LastMove[color] = now
	c.TurnStart = now
	return err
}

// NextDeadline returns the latest time the side to move may submit its move.
// The zero time means there is no deadline.
func (c *Clock) NextDeadline() time.Time {
	if c.BlockDelay <= 0 {
		return time.Time{}
	}
	return c.TurnStart.Add(c.BlockDelay)
}

// Expired reports whether now is past the current deadline.
func (c *Clock) Expired(now time.Time) bool {
	deadline := c.NextDeadline()
	return !deadline.IsZero() && now.After(deadline)
}

// Remaining returns the time left in the current window. ok is false when
// the clock has no deadline.
func (c *Clock) Remaining(now time.Time) (left time.Duration, ok bool) {
	deadline := c.NextDeadline()
	if deadline.IsZero() {
		return 0, false
	}
	left = deadline.Sub(now)
	if left < 0 {
		left = 0
	}
	return left, true
}

// Elapsed returns how long the side to move has been thinking.
func (c *Clock) Elapsed(now time.Time) time.Duration {
	if d := now.Sub(c.TurnStart); d > 0 {
		return d
	}
	return 0
}
