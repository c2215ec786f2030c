package game

import (
	"fmt"

	"github.com/hailam/chessarbiter/internal/board"
)

// Player is an authenticated caller identity. The dispatcher never looks
// inside it.
type Player string

// Command is one of NewGame, Move, CaptureMove or Promotion.
type Command interface {
	command()
}

// NewGame seats Player. The second seated player starts the game.
type NewGame struct {
	Player Player
}

// Move relocates Piece from From to To. Castling and en passant are
// recognized from the squares.
type Move struct {
	From, To string
	Piece    string
}

// CaptureMove takes Captured on To.
type CaptureMove struct {
	From, To string
	Piece    string
	Captured string
}

// Promotion moves a pawn to its last rank and replaces it with Promoted.
type Promotion struct {
	From, To string
	Piece    string
	Promoted string
}

func (NewGame) command()     {}
func (Move) command()        {}
func (CaptureMove) command() {}
func (Promotion) command()   {}

func (c NewGame) String() string { return "new " + string(c.Player) }
func (c Move) String() string    { return fmt.Sprintf("move %s %s %s", c.Piece, c.From, c.To) }
func (c CaptureMove) String() string {
	return fmt.Sprintf("capture %s %s %s %s", c.Piece, c.From, c.To, c.Captured)
}
func (c Promotion) String() string {
	return fmt.Sprintf("promote %s %s %s %s", c.Piece, c.From, c.To, c.Promoted)
}

// squares parses the From/To/Piece triple shared by every move command.
func squares(from, to, piece string) (board.Square, board.Square, board.Piece, error) {
	f, err := board.ParseSquare(from)
	if err != nil {
		return board.NoSquare, board.NoSquare, board.NoPiece, err
	}
	t, err := board.ParseSquare(to)
	if err != nil {
		return board.NoSquare, board.NoSquare, board.NoPiece, err
	}
	p, err := board.ParsePiece(piece)
	if err != nil {
		return board.NoSquare, board.NoSquare, board.NoPiece, err
	}
	return f, t, p, nil
}

// toMove turns a move command into an engine move, inferring the special
// kinds the caller cannot name: en passant and castling.
func toMove(b *board.Board, cmd Command) (board.Move, error) {
	switch c := cmd.(type) {
	case Move:
		from, to, piece, err := squares(c.From, c.To, c.Piece)
		if err != nil {
			return board.Move{}, err
		}
		if piece.Type() == board.Pawn && b.EnPassant.IsSet(to) {
			return board.NewEnPassant(from, to, piece), nil
		}
		if piece.Type() == board.King {
			if side, ok := board.CastleSideFor(piece.Color(), from, to); ok {
				return board.NewCastle(from, to, piece, side), nil
			}
		}
		return board.NewMove(from, to, piece), nil

	case CaptureMove:
		from, to, piece, err := squares(c.From, c.To, c.Piece)
		if err != nil {
			return board.Move{}, err
		}
		captured, err := board.ParsePiece(c.Captured)
		if err != nil {
			return board.Move{}, err
		}
		// A pawn capture declared onto the en passant target takes the
		// pawn that just double-pushed.
		if piece.Type() == board.Pawn && b.EnPassant.IsSet(to) &&
			captured == board.NewPiece(board.Pawn, piece.Color().Other()) {
			return board.NewEnPassant(from, to, piece), nil
		}
		return board.NewCapture(from, to, piece, captured), nil

	case Promotion:
		from, to, piece, err := squares(c.From, c.To, c.Piece)
		if err != nil {
			return board.Move{}, err
		}
		promoted, err := board.ParsePiece(c.Promoted)
		if err != nil {
			return board.Move{}, err
		}
		return board.NewPromotion(from, to, piece, promoted), nil
	}
	return board.Move{}, fmt.Errorf("%w: unsupported command %T", ErrInvalidRequest, cmd)
}
