package clock

import (
	"errors"
	"testing"
	"time"

	"github.com/hailam/chessarbiter/internal/board"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestDeadlineFollowsLastMove(t *testing.T) {
	c := New(t0, 30*time.Second)
	if got := c.NextDeadline(); !got.Equal(t0.Add(30 * time.Second)) {
		t.Fatalf("first deadline = %v", got)
	}

	if err := c.MakeMove(t0.Add(10*time.Second), board.White); err != nil {
		t.Fatalf("MakeMove: %v", err)
	}
	if got := c.NextDeadline(); !got.Equal(t0.Add(40 * time.Second)) {
		t.Errorf("deadline after white = %v, want t0+40s", got)
	}

	if err := c.MakeMove(t0.Add(25*time.Second), board.Black); err != nil {
		t.Fatalf("MakeMove: %v", err)
	}
	if c.Used[board.White] != 10*time.Second || c.Used[board.Black] != 15*time.Second {
		t.Errorf("used = %v", c.Used)
	}
	if c.Moves[board.White] != 1 || c.Moves[board.Black] != 1 {
		t.Errorf("moves = %v", c.Moves)
	}
	if !c.LastMove[board.Black].Equal(t0.Add(25 * time.Second)) {
		t.Errorf("last black move = %v", c.LastMove[board.Black])
	}
}

func TestExpired(t *testing.T) {
	c := New(t0, time.Minute)
	if c.Expired(t0.Add(time.Minute)) {
		t.Error("exactly at the deadline is still in time")
	}
	if !c.Expired(t0.Add(time.Minute + time.Nanosecond)) {
		t.Error("past the deadline should be expired")
	}

	left, ok := c.Remaining(t0.Add(20 * time.Second))
	if !ok || left != 40*time.Second {
		t.Errorf("Remaining = %v, %v; want 40s, true", left, ok)
	}
	left, ok = c.Remaining(t0.Add(2 * time.Minute))
	if !ok || left != 0 {
		t.Errorf("Remaining after deadline = %v, %v; want 0, true", left, ok)
	}
}

func TestNoDeadline(t *testing.T) {
	c := New(t0, 0)
	if !c.NextDeadline().IsZero() {
		t.Errorf("NextDeadline = %v, want zero", c.NextDeadline())
	}
	if c.Expired(t0.Add(24 * time.Hour)) {
		t.Error("a clock without deadline never expires")
	}
	if _, ok := c.Remaining(t0); ok {
		t.Error("Remaining should report no deadline")
	}
}

func TestNonMonotonic(t *testing.T) {
	c := New(t0, time.Minute)
	err := c.MakeMove(t0.Add(-5*time.Second), board.White)
	if !errors.Is(err, ErrNonMonotonic) {
		t.Fatalf("got %v, want ErrNonMonotonic", err)
	}
	if c.Used[board.White] != 0 || c.Moves[board.White] != 1 {
		t.Errorf("used=%v moves=%v", c.Used, c.Moves)
	}
	if !c.TurnStart.Equal(t0) {
		t.Errorf("turn start moved backwards to %v", c.TurnStart)
	}
}

func TestStartReanchors(t *testing.T) {
	c := New(t0, time.Minute)
	later := t0.Add(time.Hour)
	c.Start(later)
	if c.Expired(later.Add(30 * time.Second)) {
		t.Error("deadline should count from Start")
	}
	if got := c.Elapsed(later.Add(5 * time.Second)); got != 5*time.Second {
		t.Errorf("Elapsed = %v", got)
	}
}
