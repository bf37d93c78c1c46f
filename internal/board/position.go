package board

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

var (
	// ErrSquareOccupied is returned when placing a piece on an occupied square.
	ErrSquareOccupied = errors.New("square already occupied")
	// ErrOutOfRange is returned for coordinates outside the board.
	ErrOutOfRange = errors.New("coordinate out of range")
)

// Board owns every active piece, the pieces captured so far and the game-over
// flag. At most one piece occupies a square at any time.
type Board struct {
	// Active pieces in placement order; the order drives search iteration.
	pieces []*Piece

	// Occupancy grid indexed [row][col].
	grid [Size][Size]*Piece

	captured []*Piece
	gameOver bool
}

// NewBoard creates the starting position.
func NewBoard() *Board {
	b, err := ParsePlacement(StartPlacement)
	if err != nil {
		panic(err)
	}
	return b
}

// NewEmptyBoard creates a board with no pieces.
func NewEmptyBoard() *Board {
	return &Board{}
}

// Place adds a piece at its own Pos.
func (b *Board) Place(p *Piece) error {
	if !p.Pos.InBounds() {
		return errors.Wrapf(ErrOutOfRange, "place %s", p)
	}
	if occupant := b.grid[p.Pos.Row][p.Pos.Col]; occupant != nil {
		return errors.Wrapf(ErrSquareOccupied, "place %s over %s", p, occupant)
	}
	b.grid[p.Pos.Row][p.Pos.Col] = p
	b.pieces = append(b.pieces, p)
	return nil
}

// Put is a shorthand for NewPiece followed by Place.
func (b *Board) Put(k Kind, c Color, pos Pos) (*Piece, error) {
	p, err := NewPiece(k, c, pos)
	if err != nil {
		return nil, err
	}
	if err := b.Place(p); err != nil {
		return nil, err
	}
	return p, nil
}

// PieceAt returns the piece at the given coordinate, or nil if the square is
// empty or off the board.
func (b *Board) PieceAt(pos Pos) *Piece {
	if !pos.InBounds() {
		return nil
	}
	return b.grid[pos.Row][pos.Col]
}

// IsEmpty returns true if the square is on the board and unoccupied.
func (b *Board) IsEmpty(pos Pos) bool {
	return pos.InBounds() && b.grid[pos.Row][pos.Col] == nil
}

// Pieces returns the active pieces in placement order.
func (b *Board) Pieces() []*Piece {
	out := make([]*Piece, len(b.pieces))
	copy(out, b.pieces)
	return out
}

// PiecesOf returns the active pieces of one color in placement order.
func (b *Board) PiecesOf(c Color) []*Piece {
	out := make([]*Piece, 0, len(b.pieces))
	for _, p := range b.pieces {
		if p.color == c {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of active pieces.
func (b *Board) Len() int {
	return len(b.pieces)
}

// Captured returns the captured pieces in capture order.
func (b *Board) Captured() []*Piece {
	out := make([]*Piece, len(b.captured))
	copy(out, b.captured)
	return out
}

// GameOver returns true once a king has been captured.
func (b *Board) GameOver() bool {
	return b.gameOver
}

// King returns the king of the given color, or nil if it was captured.
func (b *Board) King(c Color) *Piece {
	for _, p := range b.pieces {
		if p.kind == King && p.color == c {
			return p
		}
	}
	return nil
}

// EmptyCount returns the number of unoccupied squares.
func (b *Board) EmptyCount() int {
	return Size*Size - len(b.pieces)
}

// Clone creates a deep copy of the board. Every piece is duplicated, so the
// copy shares nothing with the original.
func (b *Board) Clone() *Board {
	nb := &Board{
		pieces:   make([]*Piece, len(b.pieces)),
		captured: make([]*Piece, len(b.captured)),
		gameOver: b.gameOver,
	}
	for i, p := range b.pieces {
		cp := p.clone()
		nb.pieces[i] = cp
		nb.grid[cp.Pos.Row][cp.Pos.Col] = cp
	}
	for i, p := range b.captured {
		nb.captured[i] = p.clone()
	}
	return nb
}

// removePiece drops p from the active set and returns its slot index.
func (b *Board) removePiece(p *Piece) int {
	for i, q := range b.pieces {
		if q == p {
			b.pieces = append(b.pieces[:i], b.pieces[i+1:]...)
			return i
		}
	}
	panic(fmt.Sprintf("board: %s is not on this board", p))
}

// insertPiece restores p into the active set at slot i.
func (b *Board) insertPiece(p *Piece, i int) {
	b.pieces = append(b.pieces, nil)
	copy(b.pieces[i+1:], b.pieces[i:])
	b.pieces[i] = p
	b.grid[p.Pos.Row][p.Pos.Col] = p
}

// Validate checks the board invariants and reports every violation found.
func (b *Board) Validate() error {
	var result error

	kings := [2]int{}
	var seen [Size][Size]bool
	for _, p := range b.pieces {
		if !p.Pos.InBounds() {
			result = multierror.Append(result, errors.Wrapf(ErrOutOfRange, "%s", p))
			continue
		}
		if seen[p.Pos.Row][p.Pos.Col] {
			result = multierror.Append(result, errors.Wrapf(ErrSquareOccupied, "%s", p))
		}
		seen[p.Pos.Row][p.Pos.Col] = true
		if b.grid[p.Pos.Row][p.Pos.Col] != p {
			result = multierror.Append(result, errors.Errorf("grid out of sync at %s", p.Pos))
		}
		if p.kind == King {
			kings[p.color]++
		}
	}

	if !b.gameOver {
		for c := White; c <= Black; c++ {
			if kings[c] != 1 {
				result = multierror.Append(result, errors.Errorf("%s must have exactly one king, has %d", c, kings[c]))
			}
		}
	}

	return result
}

// String returns a visual representation of the board.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for row := Size - 1; row >= 0; row-- {
		fmt.Fprintf(&sb, "%d  ", row+1)
		for col := 0; col < Size; col++ {
			if p := b.grid[row][col]; p != nil {
				sb.WriteByte(p.Char())
			} else {
				sb.WriteByte('.')
			}
			sb.WriteByte(' ')
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Pieces: %d  Captured: %d  Game over: %v\n", len(b.pieces), len(b.captured), b.gameOver)
	return sb.String()
}
