package board

// MakeMove validates m and applies it. On error the board is unchanged.
// The turn is not switched; call SwitchTurn once the move is accepted.
func (b *Board) MakeMove(m Move) error {
	if err := b.Validate(m); err != nil {
		return err
	}
	b.Apply(m)
	return nil
}

// Apply mutates the board according to m. m must already have passed
// Validate; Apply does not re-check legality.
func (b *Board) Apply(m Move) {
	us := m.Piece.Color()
	pt := m.Piece.Type()

	captured := b.Pieces.play(m)
	b.History = append(b.History, m.Notation(captured))

	if pt == King {
		b.Castling &^= castleRight(us, KingSide) | castleRight(us, QueenSide)
	}

	// A rook leaving its corner or being captured there loses that right.
	for _, c := range []Color{White, Black} {
		for _, side := range []CastleSide{KingSide, QueenSide} {
			corner, _ := castleRookSquares(c, side)
			if m.From == corner || m.To == corner {
				b.Castling &^= castleRight(c, side)
			}
		}
	}

	b.EnPassant = Empty
	if pt == Pawn && abs(int(m.To)-int(m.From)) == 16 {
		b.EnPassant = SquareBB(Square((int(m.From) + int(m.To)) / 2))
	}

	if pt == Pawn || captured != NoPiece {
		b.HalfMoveClock = 0
	} else {
		b.HalfMoveClock++
	}
	if us == Black {
		b.FullMoveNumber++
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
