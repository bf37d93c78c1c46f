// Package render draws boards as Unicode text, SVG and PNG. Renderers only
// read the board.
package render

import (
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/hailam/chessai/internal/board"
)

// Text returns the board with rank 8 on top, one glyph per square and '.'
// for empty squares, followed by the captured pieces if there are any.
func Text(b *board.Board) string {
	var sb strings.Builder

	for row := board.Size - 1; row >= 0; row-- {
		sb.WriteByte(byte('1' + row))
		for col := 0; col < board.Size; col++ {
			sb.WriteByte(' ')
			if p := b.PieceAt(board.NewPos(row, col)); p != nil {
				sb.WriteRune(p.Symbol())
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")

	if captured := b.Captured(); len(captured) > 0 {
		sb.WriteString("Captured:")
		for _, p := range captured {
			sb.WriteByte(' ')
			sb.WriteRune(p.Symbol())
		}
		sb.WriteByte('\n')
	}
	if b.GameOver() {
		sb.WriteString("Game over\n")
	}

	return sb.String()
}

// TextRenderer writes Text to W after every move.
type TextRenderer struct {
	W io.Writer
}

// Render implements game.Renderer.
func (r TextRenderer) Render(b *board.Board) error {
	_, err := io.WriteString(r.W, Text(b)+"\n")
	return errors.Wrap(err, "render text")
}

// Multi fans a frame out to several renderers and reports every failure.
type Multi []interface {
	Render(b *board.Board) error
}

// Render implements game.Renderer.
func (m Multi) Render(b *board.Board) error {
	var result error
	for _, r := range m {
		if err := r.Render(b); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result
}
