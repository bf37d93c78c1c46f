package board

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func destinations(moves []Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.To.String())
	}
	sort.Strings(out)
	return out
}

func mustPlacement(t *testing.T, placement string) *Board {
	t.Helper()
	b, err := ParsePlacement(placement)
	require.NoError(t, err)
	return b
}

func TestStartingMovesPerKind(t *testing.T) {
	b := NewBoard()

	expected := map[Kind]int{
		Pawn:   2,
		Knight: 2,
		Bishop: 0,
		Rook:   0,
		Queen:  0,
		King:   0,
	}

	for _, c := range []Color{White, Black} {
		total := 0
		for _, p := range b.PiecesOf(c) {
			moves := b.GenerateMoves(p)
			assert.Len(t, moves, expected[p.Kind()], "%s", p)
			total += len(moves)
		}
		assert.Equal(t, 20, total, "%s total", c)
		assert.Equal(t, 20, b.Mobility(c))
	}
}

func TestStartingPawnMoves(t *testing.T) {
	b := NewBoard()

	e2 := b.PieceAt(mustPos(t, "e2"))
	require.NotNil(t, e2)
	assert.Equal(t, []string{"e3", "e4"}, destinations(b.GenerateMoves(e2)))

	e7 := b.PieceAt(mustPos(t, "e7"))
	require.NotNil(t, e7)
	assert.Equal(t, []string{"e5", "e6"}, destinations(b.GenerateMoves(e7)))
}

func TestPawnRules(t *testing.T) {
	tests := []struct {
		name      string
		placement string
		pawn      string
		want      []string
	}{
		{"blocked double step", "4k3/8/8/8/8/4n3/4P3/3K4", "e2", []string{}},
		{"blocked second square", "4k3/8/8/8/4n3/8/4P3/3K4", "e2", []string{"e3"}},
		{"no double step off start rank", "4k3/8/8/8/8/4P3/8/3K4", "e3", []string{"e4"}},
		{"diagonal captures enemies only", "4k3/8/8/8/8/3n1N2/4P3/3K4", "e2", []string{"d3", "e3", "e4"}},
		{"no straight capture", "4k3/8/8/8/8/8/4p3/4P2K", "e1", []string{}},
		{"black moves down", "4k3/3p4/8/8/8/8/8/3K4", "d7", []string{"d5", "d6"}},
		{"black captures down", "4k3/8/8/3p4/2P1P3/8/8/3K4", "d5", []string{"c4", "d4", "e4"}},
		{"edge file", "4k3/8/8/8/8/1n6/P7/3K4", "a2", []string{"a3", "a4", "b3"}},
		{"last rank has nowhere to go", "P3k3/8/8/8/8/8/8/3K4", "a8", []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := mustPlacement(t, tc.placement)
			p := b.PieceAt(mustPos(t, tc.pawn))
			require.NotNil(t, p)
			require.Equal(t, Pawn, p.Kind())
			assert.Equal(t, tc.want, destinations(b.GenerateMoves(p)))
		})
	}
}

func TestLeaperMoves(t *testing.T) {
	tests := []struct {
		name      string
		placement string
		piece     string
		want      []string
	}{
		{"knight in corner", "4k3/8/8/8/8/8/8/N2K4", "a1", []string{"b3", "c2"}},
		{"knight in center", "4k3/8/8/8/3N4/8/8/3K4", "d4", []string{"b3", "b5", "c2", "c6", "e2", "e6", "f3", "f5"}},
		{"knight skips friendly", "4k3/8/8/8/8/1P6/2P5/N2K4", "a1", []string{}},
		{"king in corner", "4k3/8/8/8/8/8/8/K7", "a1", []string{"a2", "b1", "b2"}},
		{"king captures enemy not friendly", "4k3/8/8/8/8/8/pP6/K7", "a1", []string{"a2", "b1"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := mustPlacement(t, tc.placement)
			p := b.PieceAt(mustPos(t, tc.piece))
			require.NotNil(t, p)
			assert.Equal(t, tc.want, destinations(b.GenerateMoves(p)))
		})
	}
}

func TestRayTermination(t *testing.T) {
	// White rook a4, black knight e4, nothing else on the fourth rank
	b := mustPlacement(t, "4k3/8/8/8/R3n3/8/8/3K4")
	rook := b.PieceAt(mustPos(t, "a4"))
	require.NotNil(t, rook)

	var east []Move
	for _, m := range b.GenerateMoves(rook) {
		if m.To.Row == rook.Pos.Row && m.To.Col > rook.Pos.Col {
			east = append(east, m)
		}
	}

	require.Equal(t, []string{"b4", "c4", "d4", "e4"}, destinations(east))
	for _, m := range east {
		assert.Equal(t, m.To.String() == "e4", m.Capture, "%s", m)
	}
}

func TestSlidersStopAtFriendly(t *testing.T) {
	b := mustPlacement(t, "4k3/8/8/8/8/2P5/1P6/B2K4")
	bishop := b.PieceAt(mustPos(t, "a1"))
	assert.Empty(t, b.GenerateMoves(bishop))

	b = mustPlacement(t, "4k3/8/8/8/8/8/8/Q2K4")
	queen := b.PieceAt(mustPos(t, "a1"))
	// a-file 7, rank b1..c1 2, diagonal 7
	assert.Len(t, b.GenerateMoves(queen), 16)
}

func TestGeneratedMovesStayOnBoard(t *testing.T) {
	placements := []string{
		StartPlacement,
		"r3k2r/p1pp1pb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R2K3R",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8",
		"q6k/8/8/8/8/8/8/K6Q",
		"n6n/8/8/8/8/8/8/N6N",
	}

	for _, placement := range placements {
		b := mustPlacement(t, placement)
		for _, p := range b.Pieces() {
			seen := make(map[Pos]bool)
			for _, m := range b.GenerateMoves(p) {
				require.True(t, m.To.InBounds(), "%s -> %s", p, m.To)
				require.Equal(t, p.Pos, m.From)
				require.Same(t, p, m.Piece)

				target := b.PieceAt(m.To)
				if target != nil {
					require.NotEqual(t, p.Color(), target.Color(), "%s lands on friendly %s", p, target)
					require.True(t, m.Capture)
					require.Same(t, target, m.Captured)
				} else {
					require.False(t, m.Capture)
				}

				require.False(t, seen[m.To], "%s generated %s twice", p, m.To)
				seen[m.To] = true
			}
		}
	}
}

func TestGenerationIsIdempotent(t *testing.T) {
	b := mustPlacement(t, "r3k2r/p1pp1pb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R2K3R")
	for _, p := range b.Pieces() {
		first := destinations(b.GenerateMoves(p))
		second := destinations(b.GenerateMoves(p))
		assert.ElementsMatch(t, first, second, "%s", p)
	}
}

func TestMoveScoresOrdering(t *testing.T) {
	// White queen d1 can take the black king, a rook and a pawn, or move quietly.
	b := mustPlacement(t, "3k4/8/8/8/8/8/2p1r3/3QK3")

	queen := b.PieceAt(mustPos(t, "d1"))
	scores := map[string]int{}
	minCapture, maxQuiet := 1<<30, -1
	for _, m := range b.GenerateMoves(queen) {
		scores[m.To.String()] = m.Score
		if m.Capture && m.Score < minCapture {
			minCapture = m.Score
		}
		if !m.Capture && m.Score > maxQuiet {
			maxQuiet = m.Score
		}
	}

	assert.Greater(t, minCapture, maxQuiet, "captures first")
	assert.Greater(t, scores["d8"], scores["e2"], "king is the most valuable victim")
	assert.Greater(t, scores["e2"], scores["c2"])
	assert.Greater(t, scores["c2"], scores["d2"])

	// Quiet ordering by kind
	b = NewBoard()
	var pawnScore, knightScore int
	for _, m := range b.AllMoves(White) {
		switch m.Kind() {
		case Pawn:
			pawnScore = m.Score
		case Knight:
			knightScore = m.Score
		}
	}
	assert.Greater(t, knightScore, pawnScore)
	assert.GreaterOrEqual(t, quietScore[Queen], quietScore[Rook])
	assert.GreaterOrEqual(t, quietScore[Rook], quietScore[Bishop])
	assert.GreaterOrEqual(t, quietScore[Bishop], quietScore[Pawn])
}

func TestNoMovesIsEmptyNotNil(t *testing.T) {
	b := NewBoard()
	rook := b.PieceAt(mustPos(t, "a1"))
	moves := b.GenerateMoves(rook)
	assert.NotNil(t, moves)
	assert.Empty(t, moves)

	// A lone blocked pawn
	b = mustPlacement(t, "4k3/8/8/8/8/p7/P7/8")
	assert.False(t, b.HasMoves(White))
	assert.True(t, b.HasMoves(Black))
	assert.Empty(t, b.AllMoves(White))
}
