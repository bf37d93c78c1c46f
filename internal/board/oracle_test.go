package board

import (
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/require"
)

// oracleMoves lists the (from, to) pairs a reference move generator finds for
// side on b. Only positions without castling rights, en passant, promotions,
// checks or pins are comparable, since the reference filters illegal moves.
func oracleMoves(t *testing.T, b *Board, side Color) []string {
	t.Helper()

	turn := "w"
	if side == Black {
		turn = "b"
	}
	fen, err := chess.FEN(b.Placement() + " " + turn + " - - 0 1")
	require.NoError(t, err)

	game := chess.NewGame(fen)
	seen := make(map[string]bool)
	var out []string
	for _, m := range game.ValidMoves() {
		s := m.S1().String() + m.S2().String()
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func ourMoves(b *Board, side Color) []string {
	var out []string
	for _, m := range b.AllMoves(side) {
		out = append(out, m.From.String()+m.To.String())
	}
	return out
}

func TestMovesMatchReference(t *testing.T) {
	opening := NewBoard()
	for _, mv := range [][2]string{{"e2", "e4"}, {"e7", "e5"}, {"g1", "f3"}, {"b8", "c6"}} {
		from, err := ParsePos(mv[0])
		require.NoError(t, err)
		to, err := ParsePos(mv[1])
		require.NoError(t, err)
		opening.Apply(Move{From: from, To: to})
	}

	tests := []struct {
		name  string
		board *Board
	}{
		{"start", NewBoard()},
		{"opening", opening},
		{"knights", mustPlacement(t, "4k3/8/8/3n4/8/2N5/8/3K4")},
		{"open files", mustPlacement(t, "4k3/p6p/8/1r6/5B2/8/P6P/3K4")},
	}

	for _, tc := range tests {
		for _, side := range []Color{White, Black} {
			t.Run(tc.name+"/"+side.String(), func(t *testing.T) {
				require.ElementsMatch(t, oracleMoves(t, tc.board, side), ourMoves(tc.board, side))
			})
		}
	}
}
