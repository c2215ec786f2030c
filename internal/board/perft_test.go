package board

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

// oraclePerft runs the same count on dragontoothmg, an independent generator.
func oraclePerft(b *dragontoothmg.Board, depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for _, m := range moves {
		undo := b.Apply(m)
		nodes += oraclePerft(b, depth-1)
		undo()
	}
	return nodes
}

var perftPositions = []struct {
	name     string
	fen      string
	expected []int64 // depth 1, 2, 3
}{
	{"startpos", StartFEN, []int64{20, 400, 8902}},
	{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", []int64{48, 2039, 97862}},
	{"endgame", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", []int64{14, 191, 2812}},
	{"promotions", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []int64{6, 264, 9467}},
	{"talkchess", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", []int64{44, 1486, 62379}},
}

func TestPerft(t *testing.T) {
	for _, tc := range perftPositions {
		t.Run(tc.name, func(t *testing.T) {
			b, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("Failed to parse FEN: %v", err)
			}
			for i, want := range tc.expected {
				depth := i + 1
				if testing.Short() && depth > 2 {
					break
				}
				if got := b.Perft(depth); got != want {
					t.Errorf("perft(%d) = %d, want %d", depth, got, want)
				}
			}
		})
	}
}

func TestPerftMatchesOracle(t *testing.T) {
	for _, tc := range perftPositions {
		t.Run(tc.name, func(t *testing.T) {
			b, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("Failed to parse FEN: %v", err)
			}
			oracle := dragontoothmg.ParseFen(tc.fen)

			for depth := 1; depth <= 2; depth++ {
				got := b.Perft(depth)
				want := oraclePerft(&oracle, depth)
				if got != want {
					t.Errorf("depth %d: engine %d nodes, dragontoothmg %d", depth, got, want)
				}
			}
		})
	}
}

func TestPerftPreservesBoard(t *testing.T) {
	b, err := ParseFEN(perftPositions[1].fen)
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}
	before := b.FEN()
	b.Perft(2)
	if after := b.FEN(); after != before {
		t.Errorf("perft mutated the board: %s -> %s", before, after)
	}
}
