package board

// LegalMoves returns every legal move for the side to move. Candidates are
// enumerated per piece and each is run through the full validator, so the
// detector and the validator can never disagree about legality.
func (b *Board) LegalMoves() []Move {
	var legal []Move
	for _, m := range b.candidates() {
		if b.validate(m) == nil {
			legal = append(legal, m)
		}
	}
	return legal
}

// HasLegalMoves returns true if the side to move has any legal move.
func (b *Board) HasLegalMoves() bool {
	for _, m := range b.candidates() {
		if b.validate(m) == nil {
			return true
		}
	}
	return false
}

// RecomputeState classifies the position for the side to move and stores
// the result in b.State.
func (b *Board) RecomputeState() GameState {
	switch {
	case b.HasLegalMoves():
		b.State = InPlay
	case b.InCheck():
		b.State = Checkmate
	default:
		b.State = Stalemate
	}
	return b.State
}

// IsCheckmate returns true if the side to move is checkmated.
func (b *Board) IsCheckmate() bool {
	return b.InCheck() && !b.HasLegalMoves()
}

// IsStalemate returns true if the side to move has no legal move but is not in check.
func (b *Board) IsStalemate() bool {
	return !b.InCheck() && !b.HasLegalMoves()
}

// candidates enumerates pseudo-legal moves: movement patterns only, with
// the kind and captured piece filled in from the board.
func (b *Board) candidates() []Move {
	us := b.Active
	own := b.Occupied(us)
	occupied := b.AllOccupied()
	moves := make([]Move, 0, 64)

	for pt := Knight; pt <= King; pt++ {
		piece := NewPiece(pt, us)
		pieces := b.Pieces[us][pt]
		for pieces != 0 {
			from := pieces.PopLSB()
			var targets Bitboard
			switch pt {
			case Knight:
				targets = KnightAttacks(from)
			case Bishop:
				targets = BishopAttacks(from, occupied)
			case Rook:
				targets = RookAttacks(from, occupied)
			case Queen:
				targets = QueenAttacks(from, occupied)
			case King:
				targets = KingAttacks(from)
			}
			targets &^= own
			for targets != 0 {
				to := targets.PopLSB()
				if captured := b.PieceAt(to); captured != NoPiece {
					moves = append(moves, NewCapture(from, to, piece, captured))
				} else {
					moves = append(moves, NewMove(from, to, piece))
				}
			}
		}
	}

	moves = b.pawnCandidates(moves, us)

	king := NewPiece(King, us)
	for _, side := range []CastleSide{KingSide, QueenSide} {
		if b.Castling.CanCastle(us, side) {
			from, to := castleKingSquares(us, side)
			moves = append(moves, NewCastle(from, to, king, side))
		}
	}
	return moves
}

func (b *Board) pawnCandidates(moves []Move, us Color) []Move {
	pawn := NewPiece(Pawn, us)
	enemies := b.Occupied(us.Other())
	empty := ^b.AllOccupied()

	push, home := Bitboard.North, Rank2
	if us == Black {
		push, home = Bitboard.South, Rank7
	}

	pawns := b.Pieces[us][Pawn]
	for pawns != 0 {
		from := pawns.PopLSB()
		fromBB := SquareBB(from)

		targets := push(fromBB) & empty
		if targets != 0 && fromBB&home != 0 {
			targets |= push(targets) & empty
		}
		targets |= pawnAttacks[us][from] & enemies

		for targets != 0 {
			to := targets.PopLSB()
			captured := b.PieceAt(to)
			switch {
			case to.RelativeRank(us) == 7:
				for _, pt := range []PieceType{Queen, Rook, Bishop, Knight} {
					m := NewPromotion(from, to, pawn, NewPiece(pt, us))
					m.Captured = captured
					moves = append(moves, m)
				}
			case captured != NoPiece:
				moves = append(moves, NewCapture(from, to, pawn, captured))
			default:
				moves = append(moves, NewMove(from, to, pawn))
			}
		}

		if pawnAttacks[us][from]&b.EnPassant != 0 {
			moves = append(moves, NewEnPassant(from, b.EnPassant.LSB(), pawn))
		}
	}
	return moves
}

// Perft counts the leaf nodes of the legal move tree to the given depth.
func (b *Board) Perft(depth int) int64 {
	if depth <= 0 {
		return 1
	}

	moves := b.LegalMoves()
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for _, m := range moves {
		next := b.Copy()
		next.History = nil
		next.Apply(m)
		next.SwitchTurn()
		nodes += next.Perft(depth - 1)
	}
	return nodes
}
