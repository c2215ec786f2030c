package board

// Ray directions, ordered so the first four increase the square index.
const (
	dirNorth = iota
	dirNorthEast
	dirEast
	dirNorthWest
	dirSouth
	dirSouthWest
	dirWest
	dirSouthEast
	numDirections
)

// Pre-computed attack tables.
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [Color][Square]

	// rays[sq][dir] holds every square from sq to the edge, excluding sq.
	rays [64][numDirections]Bitboard
)

var (
	dirFile = [numDirections]int{0, 1, 1, -1, 0, -1, -1, 1}
	dirRank = [numDirections]int{1, 1, 0, 1, -1, -1, 0, -1}
)

func init() {
	for sq := A1; sq <= H8; sq++ {
		knightAttacks[sq] = offsets(sq, [][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}})
		kingAttacks[sq] = offsets(sq, [][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}})
		bb := SquareBB(sq)
		pawnAttacks[White][sq] = bb.North().East() | bb.North().West()
		pawnAttacks[Black][sq] = bb.South().East() | bb.South().West()

		for dir := 0; dir < numDirections; dir++ {
			var ray Bitboard
			f, r := sq.File()+dirFile[dir], sq.Rank()+dirRank[dir]
			for onBoard(f, r) {
				ray |= SquareBB(NewSquare(f, r))
				f += dirFile[dir]
				r += dirRank[dir]
			}
			rays[sq][dir] = ray
		}
	}
}

// offsets collects the on-board squares reached from sq by (file, rank) deltas.
func offsets(sq Square, deltas [][2]int) Bitboard {
	var bb Bitboard
	for _, d := range deltas {
		f, r := sq.File()+d[0], sq.Rank()+d[1]
		if onBoard(f, r) {
			bb |= SquareBB(NewSquare(f, r))
		}
	}
	return bb
}

func onBoard(file, rank int) bool {
	return file >= 0 && file <= 7 && rank >= 0 && rank <= 7
}

// rayAttacks returns the squares seen along one direction, stopping at
// (and including) the first occupied square.
func rayAttacks(sq Square, dir int, occupied Bitboard) Bitboard {
	ray := rays[sq][dir]
	blockers := ray & occupied
	if blockers == 0 {
		return ray
	}
	var first Square
	if dir < dirSouth {
		first = blockers.LSB()
	} else {
		first = blockers.MSB()
	}
	return ray &^ rays[first][dir]
}

// KnightAttacks returns the knight attack bitboard for a square.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack bitboard for a square.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the squares a pawn of color c on sq captures onto.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c][sq]
}

// BishopAttacks returns the bishop attack bitboard for a square with given occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(sq, dirNorthEast, occupied) |
		rayAttacks(sq, dirNorthWest, occupied) |
		rayAttacks(sq, dirSouthEast, occupied) |
		rayAttacks(sq, dirSouthWest, occupied)
}

// RookAttacks returns the rook attack bitboard for a square with given occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(sq, dirNorth, occupied) |
		rayAttacks(sq, dirEast, occupied) |
		rayAttacks(sq, dirSouth, occupied) |
		rayAttacks(sq, dirWest, occupied)
}

// QueenAttacks returns the queen attack bitboard for a square with given occupancy.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}

// AttackersOf returns the pieces of color by that attack sq.
func (pl *Placement) AttackersOf(sq Square, by Color) Bitboard {
	occupied := pl.All()
	return (pawnAttacks[by.Other()][sq] & pl[by][Pawn]) |
		(knightAttacks[sq] & pl[by][Knight]) |
		(kingAttacks[sq] & pl[by][King]) |
		(BishopAttacks(sq, occupied) & (pl[by][Bishop] | pl[by][Queen])) |
		(RookAttacks(sq, occupied) & (pl[by][Rook] | pl[by][Queen]))
}

// IsAttacked returns true if sq is attacked by any piece of color by.
func (pl *Placement) IsAttacked(sq Square, by Color) bool {
	return pl.AttackersOf(sq, by) != 0
}
