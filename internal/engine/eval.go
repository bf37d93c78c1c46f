// Package engine implements position evaluation and the minimax search with
// alpha-beta pruning.
package engine

import (
	"github.com/hailam/chessai/internal/board"
)

// openingEmpty is the number of empty squares in the starting position.
const openingEmpty = 32

// Evaluate returns the static score of b from perspective's point of view:
// material difference, plus mobility difference, plus the number of empty
// squares beyond the opening's 32. Higher is better for perspective.
func Evaluate(b *board.Board, perspective board.Color) float64 {
	opp := perspective.Other()

	material := Material(b, perspective) - Material(b, opp)
	mobility := b.Mobility(perspective) - b.Mobility(opp)
	openness := b.EmptyCount() - openingEmpty

	return float64(material + mobility + openness)
}

// Material sums the piece values of color c.
func Material(b *board.Board, c board.Color) int {
	total := 0
	for _, p := range b.Pieces() {
		if p.Color() == c {
			total += p.Kind().Value()
		}
	}
	return total
}
