// Package board implements the chess board model: pieces addressed by
// (row, column) coordinates, move generation and move application.
package board

import (
	"fmt"

	"github.com/pkg/errors"
)

// Size is the number of rows and columns on the board.
const Size = 8

// Pos is a (row, column) coordinate. Row 0 is white's back rank, column 0 is
// the a-file. Values outside [0,7] are representable; InBounds reports validity.
type Pos struct {
	Row int
	Col int
}

// NewPos creates a position from row and column.
func NewPos(row, col int) Pos {
	return Pos{Row: row, Col: col}
}

// InBounds returns true if the coordinate lies on the board.
func (p Pos) InBounds() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

// Add returns the coordinate offset by d.
func (p Pos) Add(d Pos) Pos {
	return Pos{Row: p.Row + d.Row, Col: p.Col + d.Col}
}

// String returns the algebraic notation for the coordinate (e.g., "e4").
func (p Pos) String() string {
	if !p.InBounds() {
		return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
	}
	return fmt.Sprintf("%c%c", 'a'+p.Col, '1'+p.Row)
}

// ParsePos parses algebraic notation (e.g., "e4") into a Pos.
func ParsePos(s string) (Pos, error) {
	if len(s) != 2 {
		return Pos{}, errors.Errorf("invalid square: %s", s)
	}

	col := int(s[0] - 'a')
	row := int(s[1] - '1')

	p := Pos{Row: row, Col: col}
	if !p.InBounds() {
		return Pos{}, errors.Errorf("invalid square: %s", s)
	}
	return p, nil
}

// index returns the 0-63 square index (row*8 + col).
func (p Pos) index() int {
	return p.Row*Size + p.Col
}
