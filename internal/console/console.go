// Package console is a line-oriented front end for a single game. Every
// command is answered with "ok", "error <Code> <message>" or the requested
// output.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chessarbiter/internal/board"
	"github.com/hailam/chessarbiter/internal/game"
	"github.com/hailam/chessarbiter/internal/storage"
)

// Config configures a console session.
type Config struct {
	GameID     string
	BlockDelay time.Duration
	Store      *storage.Store // optional; accepted commands are saved to it
}

// Console runs one game over a text stream.
type Console struct {
	cfg  Config
	game *game.Game
	out  io.Writer
	now  func() time.Time
}

// New creates a console. When cfg.Store already holds cfg.GameID that game
// is resumed, otherwise a fresh one is created.
func New(cfg Config, out io.Writer) (*Console, error) {
	if cfg.GameID == "" {
		cfg.GameID = "console"
	}
	c := &Console{cfg: cfg, out: out, now: time.Now}

	if cfg.Store != nil {
		g, err := cfg.Store.LoadGame(cfg.GameID)
		if err == nil {
			log.Printf("resuming game %s", cfg.GameID)
			c.game = g
			return c, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
	}

	g, err := game.New(cfg.GameID, game.Config{BlockDelay: cfg.BlockDelay}, c.now())
	if err != nil {
		return nil, err
	}
	c.game = g
	return c, nil
}

// Run reads commands from in until EOF or "quit".
func (c *Console) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "new":
			c.handleNew(args)
		case "move", "capture", "promote":
			c.handleMove(cmd, args)
		case "d":
			c.withBoard(func(b *board.Board) { fmt.Fprint(c.out, b.String()) })
		case "fen":
			c.withBoard(func(b *board.Board) { fmt.Fprintln(c.out, b.FEN()) })
		case "moves":
			c.withBoard(c.printMoves)
		case "history":
			c.withBoard(func(b *board.Board) { fmt.Fprintln(c.out, strings.Join(b.History, " ")) })
		case "deadline":
			c.handleDeadline()
		case "position":
			c.handlePosition(args)
		case "perft":
			c.handlePerft(args)
		case "quit":
			return nil
		default:
			c.reply(fmt.Errorf("%w: unknown command %q", game.ErrInvalidRequest, cmd))
		}
	}
	return scanner.Err()
}

// Game returns the game being played.
func (c *Console) Game() *game.Game {
	return c.game
}

func (c *Console) reply(err error) {
	if err != nil {
		fmt.Fprintf(c.out, "error %s %v\n", game.Code(err), err)
		return
	}
	fmt.Fprintln(c.out, "ok")
}

func (c *Console) execute(caller game.Player, cmd game.Command) {
	err := c.game.Execute(caller, cmd, c.now())
	if err == nil {
		c.save()
	}
	c.reply(err)

	if err == nil && c.game.Started() && c.game.Board.State.Terminal() {
		fmt.Fprintf(c.out, "result %s\n", c.game.Board.State)
	}
}

// save writes the game to the store, if there is one.
func (c *Console) save() {
	if c.cfg.Store == nil {
		return
	}
	if err := c.cfg.Store.SaveGame(c.game); err != nil {
		log.Printf("save game %s: %v", c.game.ID, err)
	}
}

// handleNew seats a player: new <player>
func (c *Console) handleNew(args []string) {
	if len(args) != 1 {
		c.reply(fmt.Errorf("%w: usage: new <player>", game.ErrInvalidRequest))
		return
	}
	p := game.Player(args[0])
	c.execute(p, game.NewGame{Player: p})
}

// handleMove covers the three move verbs:
//
//	move <player> <from> <to> <piece>
//	capture <player> <from> <to> <piece> <captured>
//	promote <player> <from> <to> <piece> <promoted>
func (c *Console) handleMove(verb string, args []string) {
	want := 5
	if verb == "move" {
		want = 4
	}
	if len(args) != want {
		c.reply(fmt.Errorf("%w: %s expects %d arguments, got %d", game.ErrInvalidRequest, verb, want, len(args)))
		return
	}
	p := game.Player(args[0])
	from, to, piece := args[1], args[2], args[3]

	var cmd game.Command
	switch verb {
	case "move":
		cmd = game.Move{From: from, To: to, Piece: piece}
	case "capture":
		cmd = game.CaptureMove{From: from, To: to, Piece: piece, Captured: args[4]}
	case "promote":
		cmd = game.Promotion{From: from, To: to, Piece: piece, Promoted: args[4]}
	}
	c.execute(p, cmd)
}

func (c *Console) withBoard(f func(*board.Board)) {
	if !c.game.Started() {
		c.reply(fmt.Errorf("%w: waiting for players (%d seated)", game.ErrInvalidRequest, len(c.game.Players())))
		return
	}
	f(c.game.Board)
}

func (c *Console) printMoves(b *board.Board) {
	moves := b.LegalMoves()
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.Notation(m.Captured))
	}
	fmt.Fprintln(c.out, strings.Join(out, " "))
}

func (c *Console) handleDeadline() {
	d := c.game.NextDeadline()
	if d.IsZero() {
		fmt.Fprintln(c.out, "none")
		return
	}
	left, _ := c.game.Clock.Remaining(c.now())
	fmt.Fprintf(c.out, "%s (%s left)\n", d.Format(time.RFC3339), left.Round(time.Millisecond))
}

// handlePosition replaces the board of a started game.
//   - position startpos
//   - position fen <fen>
func (c *Console) handlePosition(args []string) {
	if !c.game.Started() {
		c.reply(fmt.Errorf("%w: position needs a started game", game.ErrInvalidRequest))
		return
	}
	if len(args) == 0 {
		c.reply(fmt.Errorf("%w: usage: position startpos | position fen <fen>", game.ErrInvalidRequest))
		return
	}

	var b *board.Board
	switch args[0] {
	case "startpos":
		b = board.NewBoard()
	case "fen":
		fen := strings.Join(args[1:], " ")
		var err error
		if b, err = board.ParseFEN(fen); err != nil {
			c.reply(fmt.Errorf("%w (%v)", &board.ParseError{Kind: "fen", Input: fen}, err))
			return
		}
	default:
		c.reply(fmt.Errorf("%w: unknown position %q", game.ErrInvalidRequest, args[0]))
		return
	}
	b.RecomputeState()
	c.game.Board = b
	c.game.Clock.Start(c.now())
	c.save()
	c.reply(nil)
}

// handlePerft counts leaf nodes: perft <depth>
func (c *Console) handlePerft(args []string) {
	depth := 1
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			c.reply(fmt.Errorf("%w: bad depth %q", game.ErrInvalidRequest, args[0]))
			return
		}
		depth = d
	}
	c.withBoard(func(b *board.Board) {
		start := time.Now()
		nodes := b.Perft(depth)
		fmt.Fprintf(c.out, "perft %d: %d nodes (%s)\n", depth, nodes, time.Since(start).Round(time.Millisecond))
	})
}
