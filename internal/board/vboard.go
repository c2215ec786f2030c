package board

// Placement is the piece layout alone: one occupancy mask per color and
// piece type. It carries no rights or turn, which makes it cheap to copy
// when a move has to be simulated for check safety.
type Placement [2][6]Bitboard

// Occupied returns all squares holding a piece of color c.
func (pl *Placement) Occupied(c Color) Bitboard {
	var bb Bitboard
	for pt := Pawn; pt <= King; pt++ {
		bb |= pl[c][pt]
	}
	return bb
}

// All returns every occupied square.
func (pl *Placement) All() Bitboard {
	return pl.Occupied(White) | pl.Occupied(Black)
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (pl *Placement) PieceAt(sq Square) Piece {
	bb := SquareBB(sq)
	if bb == 0 {
		return NoPiece
	}
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			if pl[c][pt]&bb != 0 {
				return NewPiece(pt, c)
			}
		}
	}
	return NoPiece
}

// KingSquare returns the square of c's king, or NoSquare if it is missing.
func (pl *Placement) KingSquare(c Color) Square {
	return pl[c][King].LSB()
}

// put places a piece on an empty square.
func (pl *Placement) put(p Piece, sq Square) {
	pl[p.Color()][p.Type()] |= SquareBB(sq)
}

// remove clears sq and returns what stood there.
func (pl *Placement) remove(sq Square) Piece {
	p := pl.PieceAt(sq)
	if p != NoPiece {
		pl[p.Color()][p.Type()] &^= SquareBB(sq)
	}
	return p
}

// play performs the piece movement of m, including the castling rook and
// the en passant victim. Rights and turn are left to the caller.
// It returns the captured piece, if any.
func (pl *Placement) play(m Move) Piece {
	us := m.Piece.Color()
	captured := NoPiece

	if m.Kind == EnPassant {
		captured = pl.remove(enPassantVictim(m.To, us))
	} else {
		captured = pl.remove(m.To)
	}

	pl.remove(m.From)
	if m.Kind == Promotion {
		pl.put(m.Promoted, m.To)
	} else {
		pl.put(m.Piece, m.To)
	}

	if m.Kind == Castle {
		rookFrom, rookTo := castleRookSquares(us, m.Side)
		pl.remove(rookFrom)
		pl.put(NewPiece(Rook, us), rookTo)
	}

	return captured
}

// enPassantVictim is the square of the pawn removed by an en passant
// capture landing on to: one rank behind to from the mover's side.
func enPassantVictim(to Square, us Color) Square {
	if us == White {
		return to - 8
	}
	return to + 8
}
