package board

import "fmt"

// Validate decides whether m is legal on b without modifying it.
// Checks run in a fixed order and each failure has its own error, so a
// caller can tell a wrong color apart from a blocked path or a pin.
func (b *Board) Validate(m Move) error {
	if b.State.Terminal() {
		return fmt.Errorf("%w: %s", ErrGameOver, b.State)
	}
	return b.validate(m)
}

// validate is Validate without the terminal-state precondition; the
// terminal-state detector uses it to search for legal replies.
func (b *Board) validate(m Move) error {
	if !m.Piece.IsValid() || !m.From.IsValid() || b.PieceAt(m.From) != m.Piece {
		return fmt.Errorf("%w: %s on %s", ErrNoSuchPiece, m.Piece.Code(), m.From)
	}
	if m.Piece.Color() != b.Active {
		return fmt.Errorf("%w: %s to move, got %s", ErrWrongColor, b.Active, m.Piece.Code())
	}
	if !m.To.IsValid() {
		return fmt.Errorf("%w: destination off the board", ErrIllegalPath)
	}

	var err error
	switch m.Kind {
	case Castle:
		err = b.validateCastle(m)
	case EnPassant:
		err = b.validateEnPassant(m)
	case Quiet, Capture, Promotion:
		err = b.validateRegular(m)
	default:
		err = fmt.Errorf("%w: unknown move kind %d", ErrIllegalPath, m.Kind)
	}
	if err != nil {
		return err
	}

	if b.leavesKingInCheck(m) {
		return fmt.Errorf("%w: %s%s", ErrLeavesKingInCheck, m.From, m.To)
	}
	return nil
}

// validateRegular covers plain moves, declared captures and promotions.
func (b *Board) validateRegular(m Move) error {
	us := b.Active
	pt := m.Piece.Type()
	target := b.PieceAt(m.To)

	if m.From == m.To || !b.reaches(m.Piece, m.From, m.To, target) {
		return fmt.Errorf("%w: %s cannot reach %s from %s", ErrIllegalPath, m.Piece.Code(), m.To, m.From)
	}

	if target != NoPiece && target.Color() == us {
		return fmt.Errorf("%w: %s occupies %s", ErrFriendlyFire, target.Code(), m.To)
	}
	if target.Type() == King {
		return fmt.Errorf("%w: the king on %s cannot be captured", ErrIllegalPath, m.To)
	}

	switch m.Kind {
	case Quiet:
		if target != NoPiece {
			return fmt.Errorf("%w: %s holds %s but no capture was declared", ErrCaptureMismatch, m.To, target.Code())
		}
	case Capture:
		if !m.Captured.IsValid() || m.Captured.Color() == us || target != m.Captured {
			return fmt.Errorf("%w: declared %s, board has %s on %s",
				ErrCaptureMismatch, m.Captured.Code(), target.Code(), m.To)
		}
	case Promotion:
		if m.Captured != NoPiece && m.Captured != target {
			return fmt.Errorf("%w: declared %s, board has %s on %s",
				ErrCaptureMismatch, m.Captured.Code(), target.Code(), m.To)
		}
	}

	if m.Kind == Promotion {
		if pt != Pawn {
			return fmt.Errorf("%w: only pawns promote, got %s", ErrIllegalPromotion, m.Piece.Code())
		}
		if !canPromoteTo(m.Promoted, us) {
			return fmt.Errorf("%w: cannot promote to %s", ErrIllegalPromotion, m.Promoted.Code())
		}
		if m.To.RelativeRank(us) != 7 {
			return fmt.Errorf("%w: %s is not the last rank", ErrIllegalPromotion, m.To)
		}
	}

	if pt == Pawn && m.Kind != Promotion && m.To.RelativeRank(us) == 7 {
		return fmt.Errorf("%w: pawn reaching %s must promote", ErrIllegalPromotion, m.To)
	}
	return nil
}

// reaches reports whether piece can travel from -> to by its movement
// pattern. What stands on the destination is judged by the caller, except
// for pawns whose pattern depends on it.
func (b *Board) reaches(piece Piece, from, to Square, target Piece) bool {
	toBB := SquareBB(to)
	occupied := b.AllOccupied()

	switch piece.Type() {
	case Knight:
		return knightAttacks[from]&toBB != 0
	case King:
		return kingAttacks[from]&toBB != 0
	case Bishop:
		return BishopAttacks(from, occupied)&toBB != 0
	case Rook:
		return RookAttacks(from, occupied)&toBB != 0
	case Queen:
		return QueenAttacks(from, occupied)&toBB != 0
	case Pawn:
		return b.pawnReaches(piece.Color(), from, to, target)
	}
	return false
}

// pawnReaches handles pushes and diagonal captures. An enemy-occupied
// square blocks a push; a diagonal needs an occupied square.
func (b *Board) pawnReaches(us Color, from, to Square, target Piece) bool {
	if pawnAttacks[us][from]&SquareBB(to) != 0 {
		return target != NoPiece
	}

	forward := 8
	if us == Black {
		forward = -8
	}
	blockedByEnemy := target != NoPiece && target.Color() != us

	switch int(to) - int(from) {
	case forward:
		return !blockedByEnemy
	case 2 * forward:
		skipped := Square(int(from) + forward)
		return from.RelativeRank(us) == 1 && b.PieceAt(skipped) == NoPiece && !blockedByEnemy
	}
	return false
}

func (b *Board) validateCastle(m Move) error {
	us := b.Active
	them := us.Other()

	kingFrom, kingTo := castleKingSquares(us, m.Side)
	if m.Piece.Type() != King || m.From != kingFrom || m.To != kingTo {
		return fmt.Errorf("%w: %s castling moves the king %s to %s", ErrIllegalCastle, m.Side, kingFrom, kingTo)
	}
	if !b.Castling.CanCastle(us, m.Side) {
		return fmt.Errorf("%w: %s %s right already lost", ErrIllegalCastle, us, m.Side)
	}

	rookFrom, _ := castleRookSquares(us, m.Side)
	if b.PieceAt(rookFrom) != NewPiece(Rook, us) {
		return fmt.Errorf("%w: no rook on %s", ErrIllegalCastle, rookFrom)
	}
	if between(kingFrom, rookFrom)&b.AllOccupied() != 0 {
		return fmt.Errorf("%w: squares between %s and %s are occupied", ErrIllegalCastle, kingFrom, rookFrom)
	}

	// Start, pass-through and landing squares must all be safe.
	transit := between(kingFrom, kingTo) | SquareBB(kingFrom) | SquareBB(kingTo)
	for transit != 0 {
		sq := transit.PopLSB()
		if b.Pieces.IsAttacked(sq, them) {
			return fmt.Errorf("%w: %s is attacked", ErrIllegalCastle, sq)
		}
	}
	return nil
}

func (b *Board) validateEnPassant(m Move) error {
	us := b.Active

	if m.Piece.Type() != Pawn {
		return fmt.Errorf("%w: only pawns capture en passant", ErrIllegalEnPassant)
	}
	if b.EnPassant == Empty || SquareBB(m.To) != b.EnPassant {
		return fmt.Errorf("%w: %s is not the en passant target (%s)", ErrIllegalEnPassant, m.To, b.EnPassantSquare())
	}
	if pawnAttacks[us][m.From]&SquareBB(m.To) == 0 {
		return fmt.Errorf("%w: pawn on %s is not adjacent to the captured pawn", ErrIllegalEnPassant, m.From)
	}
	if b.PieceAt(m.To) != NoPiece {
		return fmt.Errorf("%w: %s is occupied", ErrIllegalEnPassant, m.To)
	}
	if victim := enPassantVictim(m.To, us); b.PieceAt(victim) != NewPiece(Pawn, us.Other()) {
		return fmt.Errorf("%w: no enemy pawn on %s", ErrIllegalEnPassant, victim)
	}
	return nil
}

// leavesKingInCheck plays m on a copy of the placement and tests the
// mover's king square.
func (b *Board) leavesKingInCheck(m Move) bool {
	us := m.Piece.Color()
	sim := b.Pieces
	sim.play(m)

	ksq := sim.KingSquare(us)
	if ksq == NoSquare {
		return true
	}
	return sim.IsAttacked(ksq, us.Other())
}

// canPromoteTo reports whether p is a legal promotion piece for color c.
func canPromoteTo(p Piece, c Color) bool {
	if p.Color() != c {
		return false
	}
	switch p.Type() {
	case Knight, Bishop, Rook, Queen:
		return true
	}
	return false
}

// between returns the squares strictly between two squares on one rank.
func between(a, b Square) Bitboard {
	if a > b {
		a, b = b, a
	}
	var bb Bitboard
	for sq := a + 1; sq < b; sq++ {
		bb |= SquareBB(sq)
	}
	return bb
}
