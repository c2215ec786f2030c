package board

import (
	"errors"
	"testing"
)

func TestParseSquare(t *testing.T) {
	good := map[string]Square{"a1": A1, "h1": H1, "e4": E4, "a8": A8, "h8": H8}
	for in, want := range good {
		got, err := ParseSquare(in)
		if err != nil || got != want {
			t.Errorf("ParseSquare(%q) = %v, %v; want %v", in, got, err, want)
		}
		if got.String() != in {
			t.Errorf("%v.String() = %q", got, got.String())
		}
	}

	for _, in := range []string{"", "e", "e44", "i1", "a0", "a9", "E4", "44"} {
		_, err := ParseSquare(in)
		var pe *ParseError
		if !errors.As(err, &pe) || pe.Kind != "square" {
			t.Errorf("ParseSquare(%q) error = %v, want square ParseError", in, err)
		}
	}
}

func TestParsePiece(t *testing.T) {
	for p := WhitePawn; p < NoPiece; p++ {
		got, err := ParsePiece(p.Code())
		if err != nil || got != p {
			t.Errorf("ParsePiece(%q) = %v, %v; want %v", p.Code(), got, err, p)
		}
	}

	for _, in := range []string{"", "w", "wPP", "xP", "wX", "WP", "bp", "P"} {
		_, err := ParsePiece(in)
		var pe *ParseError
		if !errors.As(err, &pe) || pe.Kind != "piece" {
			t.Errorf("ParsePiece(%q) error = %v, want piece ParseError", in, err)
		}
	}
}

func TestSquareGeometry(t *testing.T) {
	if E4.File() != 4 || E4.Rank() != 3 {
		t.Errorf("e4 = file %d rank %d", E4.File(), E4.Rank())
	}
	if A7.RelativeRank(White) != 6 || A7.RelativeRank(Black) != 1 {
		t.Error("RelativeRank wrong for a7")
	}
	if NoSquare.IsValid() {
		t.Error("NoSquare reported valid")
	}
	if SquareBB(NoSquare) != Empty {
		t.Error("SquareBB(NoSquare) should be empty")
	}
}

func TestSliderAttacks(t *testing.T) {
	occ := SquareBB(E6) | SquareBB(C4)
	got := RookAttacks(E4, occ)
	want := SquareBB(E5) | SquareBB(E6) | // north stops at blocker
		SquareBB(E3) | SquareBB(E2) | SquareBB(E1) |
		SquareBB(D4) | SquareBB(C4) | // west stops at blocker
		SquareBB(F4) | SquareBB(G4) | SquareBB(H4)
	if got != want {
		t.Errorf("RookAttacks(e4) = %#016x, want %#016x", uint64(got), uint64(want))
	}

	if got := BishopAttacks(A1, SquareBB(C3)); got != SquareBB(B2)|SquareBB(C3) {
		t.Errorf("BishopAttacks(a1) = %#016x", uint64(got))
	}
	if got := KnightAttacks(A1); got != SquareBB(B3)|SquareBB(C2) {
		t.Errorf("KnightAttacks(a1) = %#016x", uint64(got))
	}
	if got := PawnAttacks(A2, White); got != SquareBB(B3) {
		t.Errorf("PawnAttacks(a2, White) = %#016x", uint64(got))
	}
	if got := PawnAttacks(H7, Black); got != SquareBB(G6) {
		t.Errorf("PawnAttacks(h7, Black) = %#016x", uint64(got))
	}
	if got := PawnAttacks(D4, Black); got != SquareBB(C3)|SquareBB(E3) {
		t.Errorf("PawnAttacks(d4, Black) = %#016x", uint64(got))
	}
	if got := PawnAttacks(E8, White); got != Empty {
		t.Errorf("PawnAttacks(e8, White) = %#016x", uint64(got))
	}
}

func TestCastleSideFor(t *testing.T) {
	tests := []struct {
		c        Color
		from, to Square
		side     CastleSide
		ok       bool
	}{
		{White, E1, G1, KingSide, true},
		{White, E1, C1, QueenSide, true},
		{Black, E8, G8, KingSide, true},
		{Black, E8, C8, QueenSide, true},
		{White, E1, F1, KingSide, false},
		{White, E8, G8, KingSide, false},
	}
	for _, tc := range tests {
		side, ok := CastleSideFor(tc.c, tc.from, tc.to)
		if ok != tc.ok || (ok && side != tc.side) {
			t.Errorf("CastleSideFor(%v, %v, %v) = %v, %v", tc.c, tc.from, tc.to, side, ok)
		}
	}
}

func TestNotation(t *testing.T) {
	tests := []struct {
		m        Move
		captured Piece
		want     string
	}{
		{NewMove(E2, E4, WhitePawn), NoPiece, "e2-e4"},
		{NewMove(G1, F3, WhiteKnight), NoPiece, "Ng1-f3"},
		{NewCapture(E4, D5, WhitePawn, BlackPawn), BlackPawn, "e4xd5"},
		{NewEnPassant(E5, D6, WhitePawn), BlackPawn, "e5xd6ep"},
		{NewEnPassant(E5, D6, WhitePawn), NoPiece, "e5xd6ep"},
		{NewCastle(E1, G1, WhiteKing, KingSide), NoPiece, "O-O"},
		{NewCastle(E8, C8, BlackKing, QueenSide), NoPiece, "O-O-O"},
		{NewPromotion(E7, E8, WhitePawn, WhiteQueen), NoPiece, "e7-e8=Q"},
	}
	for _, tc := range tests {
		if got := tc.m.Notation(tc.captured); got != tc.want {
			t.Errorf("%v.Notation(%v) = %q, want %q", tc.m, tc.captured, got, tc.want)
		}
	}
}
