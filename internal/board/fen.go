package board

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// StartPlacement is the starting layout written rank 8 first, as in the piece
// placement field of a FEN string. White's king starts on d1 and its queen on
// e1; black's queen starts on d8 and its king on e8.
const StartPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBKQBNR"

// ParsePlacement builds a board from a placement string. Pieces are placed
// rank by rank from row 7 down to row 0, each rank from the a-file.
func ParsePlacement(placement string) (*Board, error) {
	ranks := strings.Split(strings.TrimSpace(placement), "/")
	if len(ranks) != Size {
		return nil, errors.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	b := NewEmptyBoard()
	for i, rankStr := range ranks {
		row := Size - 1 - i
		col := 0

		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if col > 7 {
				return nil, errors.Errorf("too many squares in rank %d", row+1)
			}

			if c >= '1' && c <= '8' {
				col += int(c - '0')
				continue
			}

			kind, color, ok := pieceFromChar(c)
			if !ok {
				return nil, errors.Errorf("invalid piece character %q in rank %d", c, row+1)
			}
			if _, err := b.Put(kind, color, NewPos(row, col)); err != nil {
				return nil, errors.Wrap(err, "invalid piece placement")
			}
			col++
		}

		if col != Size {
			return nil, errors.Errorf("invalid number of squares in rank %d: got %d", row+1, col)
		}
	}

	return b, nil
}

// Placement returns the placement string of the board.
func (b *Board) Placement() string {
	var sb strings.Builder

	for row := Size - 1; row >= 0; row-- {
		empty := 0
		for col := 0; col < Size; col++ {
			p := b.grid[row][col]
			if p == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(p.Char())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row > 0 {
			sb.WriteByte('/')
		}
	}

	return sb.String()
}
