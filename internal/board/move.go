package board

import "strings"

// MoveKind tags how a move is to be interpreted.
type MoveKind uint8

const (
	Quiet     MoveKind = iota // plain relocation onto an empty square
	Capture                   // takes the declared piece on the destination
	Castle                    // king and rook move together
	EnPassant                 // pawn takes the pawn that just double-pushed past it
	Promotion                 // pawn reaches the last rank and becomes Promoted
)

func (k MoveKind) String() string {
	switch k {
	case Quiet:
		return "Move"
	case Capture:
		return "Capture"
	case Castle:
		return "Castle"
	case EnPassant:
		return "EnPassant"
	case Promotion:
		return "Promotion"
	default:
		return "Unknown"
	}
}

// CastleSide selects king-side (O-O) or queen-side (O-O-O) castling.
type CastleSide uint8

const (
	KingSide CastleSide = iota
	QueenSide
)

func (s CastleSide) String() string {
	if s == KingSide {
		return "KingSide"
	}
	return "QueenSide"
}

// Move is a candidate move as submitted by a caller. Captured and Promoted
// are caller declarations that the validator reconciles against the board.
type Move struct {
	From     Square
	To       Square
	Piece    Piece
	Kind     MoveKind
	Captured Piece      // Capture; optional for Promotion
	Promoted Piece      // Promotion
	Side     CastleSide // Castle
}

// NewMove creates a plain relocation.
func NewMove(from, to Square, piece Piece) Move {
	return Move{From: from, To: to, Piece: piece, Kind: Quiet, Captured: NoPiece, Promoted: NoPiece}
}

// NewCapture creates a capture of the declared piece on to.
func NewCapture(from, to Square, piece, captured Piece) Move {
	return Move{From: from, To: to, Piece: piece, Kind: Capture, Captured: captured, Promoted: NoPiece}
}

// NewCastle creates a castling move, described by the king's movement.
func NewCastle(from, to Square, piece Piece, side CastleSide) Move {
	return Move{From: from, To: to, Piece: piece, Kind: Castle, Side: side, Captured: NoPiece, Promoted: NoPiece}
}

// NewEnPassant creates an en passant capture.
func NewEnPassant(from, to Square, piece Piece) Move {
	return Move{From: from, To: to, Piece: piece, Kind: EnPassant, Captured: NoPiece, Promoted: NoPiece}
}

// NewPromotion creates a promotion to the given piece.
func NewPromotion(from, to Square, piece, promoted Piece) Move {
	return Move{From: from, To: to, Piece: piece, Kind: Promotion, Captured: NoPiece, Promoted: promoted}
}

// Notation renders the move in long algebraic form for the history:
// "e2-e4", "Ng1-f3", "e4xd5", "e5xd6ep", "O-O", "O-O-O", "e7-e8=Q".
// captured is the piece actually removed from the board, if any; en passant
// always renders as a capture.
func (m Move) Notation(captured Piece) string {
	if m.Kind == Castle {
		if m.Side == KingSide {
			return "O-O"
		}
		return "O-O-O"
	}

	var sb strings.Builder
	if pt := m.Piece.Type(); pt != Pawn {
		sb.WriteByte(pt.Letter())
	}
	sb.WriteString(m.From.String())
	if captured != NoPiece || m.Kind == EnPassant {
		sb.WriteByte('x')
	} else {
		sb.WriteByte('-')
	}
	sb.WriteString(m.To.String())

	switch m.Kind {
	case EnPassant:
		sb.WriteString("ep")
	case Promotion:
		sb.WriteByte('=')
		sb.WriteByte(m.Promoted.Type().Letter())
	}
	return sb.String()
}

// String returns the move in coordinate form with its kind, for logs.
func (m Move) String() string {
	s := m.Piece.Code() + " " + m.From.String() + m.To.String() + " " + m.Kind.String()
	switch m.Kind {
	case Capture:
		s += "(" + m.Captured.Code() + ")"
	case Promotion:
		s += "(" + m.Promoted.Code() + ")"
	case Castle:
		s += "(" + m.Side.String() + ")"
	}
	return s
}

// castleRight returns the single right bit for color c and side.
func castleRight(c Color, side CastleSide) CastlingRights {
	switch {
	case c == White && side == KingSide:
		return WhiteKingSideCastle
	case c == White:
		return WhiteQueenSideCastle
	case side == KingSide:
		return BlackKingSideCastle
	default:
		return BlackQueenSideCastle
	}
}

// castleKingSquares returns the king's home and destination squares.
func castleKingSquares(c Color, side CastleSide) (from, to Square) {
	rank := 0
	if c == Black {
		rank = 7
	}
	if side == KingSide {
		return NewSquare(4, rank), NewSquare(6, rank)
	}
	return NewSquare(4, rank), NewSquare(2, rank)
}

// castleRookSquares returns the rook's original corner and destination.
func castleRookSquares(c Color, side CastleSide) (from, to Square) {
	rank := 0
	if c == Black {
		rank = 7
	}
	if side == KingSide {
		return NewSquare(7, rank), NewSquare(5, rank)
	}
	return NewSquare(0, rank), NewSquare(3, rank)
}

// CastleSideFor reports whether a king move from -> to is a castling move
// for color c, and on which side.
func CastleSideFor(c Color, from, to Square) (CastleSide, bool) {
	for _, side := range []CastleSide{KingSide, QueenSide} {
		kf, kt := castleKingSquares(c, side)
		if from == kf && to == kt {
			return side, true
		}
	}
	return KingSide, false
}
