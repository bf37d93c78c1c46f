package board

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard(t *testing.T) {
	b := NewBoard()

	require.Equal(t, 32, b.Len())
	require.Equal(t, 32, b.EmptyCount())
	require.False(t, b.GameOver())
	require.Empty(t, b.Captured())
	require.NoError(t, b.Validate())

	tests := []struct {
		square string
		kind   Kind
		color  Color
	}{
		{"d1", King, White},
		{"e1", Queen, White},
		{"a1", Rook, White},
		{"b1", Knight, White},
		{"c1", Bishop, White},
		{"d8", Queen, Black},
		{"e8", King, Black},
		{"h8", Rook, Black},
		{"g8", Knight, Black},
		{"f8", Bishop, Black},
	}
	for _, tc := range tests {
		p := b.PieceAt(mustPos(t, tc.square))
		require.NotNil(t, p, tc.square)
		assert.Equal(t, tc.kind, p.Kind(), tc.square)
		assert.Equal(t, tc.color, p.Color(), tc.square)
	}

	for col := 0; col < Size; col++ {
		assert.Equal(t, Pawn, b.PieceAt(NewPos(1, col)).Kind())
		assert.Equal(t, White, b.PieceAt(NewPos(1, col)).Color())
		assert.Equal(t, Pawn, b.PieceAt(NewPos(6, col)).Kind())
		assert.Equal(t, Black, b.PieceAt(NewPos(6, col)).Color())
		for row := 2; row < 6; row++ {
			assert.True(t, b.IsEmpty(NewPos(row, col)))
		}
	}

	assert.Equal(t, mustPos(t, "d1"), b.King(White).Pos)
	assert.Equal(t, mustPos(t, "e8"), b.King(Black).Pos)
}

func TestPieceConstruction(t *testing.T) {
	p, err := NewNamedPiece("Queen", "white", mustPos(t, "e1"))
	require.NoError(t, err)
	assert.Equal(t, Queen, p.Kind())
	assert.Equal(t, White, p.Color())
	assert.Equal(t, '♕', p.Symbol())
	assert.Equal(t, byte('Q'), p.Char())
	assert.Equal(t, "White queen@e1", p.String())

	p, err = NewNamedPiece("knight", "b", mustPos(t, "g8"))
	require.NoError(t, err)
	assert.Equal(t, '♞', p.Symbol())
	assert.Equal(t, byte('n'), p.Char())

	_, err = NewNamedPiece("wizard", "white", NewPos(0, 0))
	assert.Error(t, err)

	_, err = NewNamedPiece("pawn", "green", NewPos(0, 0))
	assert.Error(t, err)

	_, err = NewPiece(NoKind, White, NewPos(0, 0))
	assert.Error(t, err)

	_, err = NewPiece(Pawn, NoColor, NewPos(0, 0))
	assert.Error(t, err)
}

func TestPlaceErrors(t *testing.T) {
	b := NewEmptyBoard()

	_, err := b.Put(Rook, White, NewPos(0, 0))
	require.NoError(t, err)

	_, err = b.Put(Knight, Black, NewPos(0, 0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSquareOccupied))

	_, err = b.Put(Knight, Black, NewPos(8, 0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	_, err = b.Put(Knight, Black, NewPos(0, -1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	assert.Equal(t, 1, b.Len())
}

func TestParsePlacementErrors(t *testing.T) {
	tests := []struct {
		name      string
		placement string
	}{
		{"too few ranks", "8/8/8/8/8/8/8"},
		{"too many ranks", "8/8/8/8/8/8/8/8/8"},
		{"short rank", "7/8/8/8/8/8/8/8"},
		{"long rank", "8/8/8/8/8/8/8/K8"},
		{"bad character", "8/8/8/8/8/8/8/X7"},
		{"overflowing digit", "8/8/8/8/8/8/8/44K"},
		{"non-ascii", "4k3/8/8/8/8/8/8/Ő3K3"},
		{"non-ascii lookalike", "4k3/8/8/8/8/8/8/Ｋ7"},
		{"zero digit", "8/8/8/8/8/8/8/08"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePlacement(tc.placement)
			assert.Error(t, err)
		})
	}
}

func TestPlacementRoundTrip(t *testing.T) {
	placements := []string{
		StartPlacement,
		"r3k2r/p1pp1pb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R2K3R",
		"8/8/8/3k4/8/8/8/K7",
		"8/8/8/8/8/8/8/8",
	}
	for _, placement := range placements {
		b, err := ParsePlacement(placement)
		require.NoError(t, err)
		assert.Equal(t, placement, b.Placement())
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	b := mustPlacement(t, "8/8/8/8/8/8/8/R7")

	err := b.Validate()
	require.Error(t, err)

	merr, ok := err.(*multierror.Error)
	require.True(t, ok, "expected a multierror, got %T", err)
	assert.Len(t, merr.Errors, 2, "one missing king per side")

	b = mustPlacement(t, "kk6/8/8/8/8/8/8/K7")
	merr, ok = b.Validate().(*multierror.Error)
	require.True(t, ok)
	assert.Len(t, merr.Errors, 1)
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewBoard()
	c := b.Clone()

	require.Equal(t, b.Placement(), c.Placement())
	require.Equal(t, b.Hash(), c.Hash())

	for i, p := range b.Pieces() {
		q := c.Pieces()[i]
		require.NotSame(t, p, q)
		require.Equal(t, p.Pos, q.Pos)
		require.Equal(t, p.Kind(), q.Kind())
	}

	m, ok := c.Resolve(Move{From: mustPos(t, "e2"), To: mustPos(t, "e4")})
	require.True(t, ok)
	c.Apply(m)

	assert.Equal(t, StartPlacement, b.Placement())
	assert.NotNil(t, b.PieceAt(mustPos(t, "e2")))
	assert.Nil(t, c.PieceAt(mustPos(t, "e2")))
	assert.Equal(t, mustPos(t, "e2"), b.PieceAt(mustPos(t, "e2")).Pos)
}

func TestApplyCaptureBookkeeping(t *testing.T) {
	b := mustPlacement(t, "3k4/8/8/3q4/8/8/3R4/4K3")
	before := b.Len()

	rook := b.PieceAt(mustPos(t, "d2"))
	queen := b.PieceAt(mustPos(t, "d5"))

	b.Apply(Move{From: rook.Pos, To: queen.Pos})

	assert.Equal(t, before-1, b.Len())
	assert.Equal(t, []*Piece{queen}, b.Captured())
	assert.Same(t, rook, b.PieceAt(mustPos(t, "d5")))
	assert.Equal(t, mustPos(t, "d5"), rook.Pos)
	assert.True(t, b.IsEmpty(mustPos(t, "d2")))
	assert.False(t, b.GameOver(), "only a king capture ends the game")
	require.NoError(t, b.Validate())

	b.Apply(Move{From: rook.Pos, To: mustPos(t, "d8")})
	assert.True(t, b.GameOver())
	assert.Len(t, b.Captured(), 2)
	assert.Nil(t, b.King(Black))
	require.NoError(t, b.Validate())
}

func TestApplyQuietMove(t *testing.T) {
	b := NewBoard()
	b.Apply(Move{From: mustPos(t, "g1"), To: mustPos(t, "f3")})

	assert.Equal(t, 32, b.Len())
	assert.Empty(t, b.Captured())
	assert.Equal(t, "rnbqkbnr/pppppppp/8/8/8/5N2/PPPPPPPP/RNBKQB1R", b.Placement())
}

func TestApplyPanics(t *testing.T) {
	tests := []struct {
		name string
		move Move
	}{
		{"off board", Move{From: NewPos(1, 0), To: NewPos(8, 0)}},
		{"empty start", Move{From: NewPos(3, 3), To: NewPos(4, 3)}},
		{"friendly capture", Move{From: NewPos(0, 0), To: NewPos(1, 0)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBoard()
			assert.Panics(t, func() { b.Apply(tc.move) })
		})
	}
}

func TestHashDistinguishesPositions(t *testing.T) {
	a := NewBoard()
	b := NewBoard()
	require.Equal(t, a.Hash(), b.Hash())

	b.Apply(Move{From: mustPos(t, "e2"), To: mustPos(t, "e4")})
	assert.NotEqual(t, a.Hash(), b.Hash())

	// Same layout through a different move order hashes equally
	a.Apply(Move{From: mustPos(t, "e2"), To: mustPos(t, "e3")})
	a.Apply(Move{From: mustPos(t, "e3"), To: mustPos(t, "e4")})
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestPosParsing(t *testing.T) {
	p, err := ParsePos("e4")
	require.NoError(t, err)
	assert.Equal(t, NewPos(3, 4), p)
	assert.Equal(t, "e4", p.String())

	for _, bad := range []string{"", "e", "i1", "a9", "a0", "e44"} {
		_, err := ParsePos(bad)
		assert.Error(t, err, bad)
	}

	assert.False(t, NewPos(-1, 0).InBounds())
	assert.False(t, NewPos(0, 8).InBounds())
	assert.True(t, NewPos(7, 7).InBounds())
}
