package board

import (
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given color still holds the right for side.
func (cr CastlingRights) CanCastle(c Color, side CastleSide) bool {
	return cr&castleRight(c, side) != 0
}

// GameState is the outcome status of a board.
type GameState uint8

const (
	InPlay GameState = iota
	Checkmate
	Stalemate
)

func (s GameState) String() string {
	switch s {
	case InPlay:
		return "InPlay"
	case Checkmate:
		return "Checkmate"
	case Stalemate:
		return "Stalemate"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further move may be applied.
func (s GameState) Terminal() bool {
	return s == Checkmate || s == Stalemate
}

// Board is the complete game state of one chess game. It is plain data and
// can be snapshotted with encoding/json.
type Board struct {
	Pieces    Placement      `json:"pieces"`
	Active    Color          `json:"active"`
	Castling  CastlingRights `json:"castling"`
	EnPassant Bitboard       `json:"en_passant"` // at most one bit set
	State     GameState      `json:"state"`
	History   []string       `json:"history"`

	HalfMoveClock  int `json:"half_move_clock"`
	FullMoveNumber int `json:"full_move_number"`
}

// NewBoard creates the standard starting position.
func NewBoard() *Board {
	b, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return b
}

// Copy creates a deep copy of the board.
func (b *Board) Copy() *Board {
	nb := *b
	nb.History = append([]string(nil), b.History...)
	return &nb
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (b *Board) PieceAt(sq Square) Piece {
	return b.Pieces.PieceAt(sq)
}

// OccupancyOf returns the occupancy mask of one piece kind.
func (b *Board) OccupancyOf(p Piece) Bitboard {
	if !p.IsValid() {
		return Empty
	}
	return b.Pieces[p.Color()][p.Type()]
}

// Occupied returns all squares holding a piece of color c.
func (b *Board) Occupied(c Color) Bitboard {
	return b.Pieces.Occupied(c)
}

// AllOccupied returns every occupied square.
func (b *Board) AllOccupied() Bitboard {
	return b.Pieces.All()
}

// ColorToMove returns the side whose turn it is.
func (b *Board) ColorToMove() Color {
	return b.Active
}

// KingSquare returns the square of c's king.
func (b *Board) KingSquare(c Color) Square {
	return b.Pieces.KingSquare(c)
}

// EnPassantSquare returns the en passant target, or NoSquare.
func (b *Board) EnPassantSquare() Square {
	return b.EnPassant.LSB()
}

// InCheck returns true if the side to move is in check.
func (b *Board) InCheck() bool {
	ksq := b.KingSquare(b.Active)
	if ksq == NoSquare {
		return false
	}
	return b.Pieces.IsAttacked(ksq, b.Active.Other())
}

// SwitchTurn hands the move to the other color. Apply leaves the turn alone;
// terminal detection runs after the switch, against the new side.
func (b *Board) SwitchTurn() {
	b.Active = b.Active.Other()
}

// Check verifies that no two occupancy masks overlap and that each side has
// exactly one king. It also rejects malformed en passant masks and pawns on
// the back ranks.
func (b *Board) Check() error {
	var seen Bitboard
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := b.Pieces[c][pt]
			if seen&bb != 0 {
				return fmt.Errorf("overlapping occupancy for %v", NewPiece(pt, c).Code())
			}
			seen |= bb
		}
		if n := b.Pieces[c][King].PopCount(); n != 1 {
			return fmt.Errorf("%v must have exactly one king, has %d", c, n)
		}
	}
	if b.EnPassant.PopCount() > 1 {
		return fmt.Errorf("en passant mask has %d bits", b.EnPassant.PopCount())
	}
	if (b.Pieces[White][Pawn]|b.Pieces[Black][Pawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("pawns cannot be on rank 1 or 8")
	}
	return nil
}

// String returns a visual representation of the board.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := b.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", b.Active)
	fmt.Fprintf(&sb, "Castling: %s\n", b.Castling)
	fmt.Fprintf(&sb, "En passant: %s\n", b.EnPassantSquare())
	fmt.Fprintf(&sb, "State: %s\n", b.State)
	return sb.String()
}
