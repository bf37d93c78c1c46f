package render

import (
	"fmt"
	"strings"

	"github.com/hailam/chessai/internal/board"
)

// Square colors
const (
	LightSquare = "#f0d9b5"
	DarkSquare  = "#b58863"
)

var pieceFill = [2]string{"#ffffff", "#1e1e1e"}
var pieceStroke = [2]string{"#1e1e1e", "#d0d0d0"}

// Piece outlines in unit-cell coordinates, y pointing down. Every outline
// covers the point (0.5, 0.55).
var pieceShapes = [6][][2]float64{
	board.Pawn: {
		{0.5, 0.25}, {0.62, 0.35}, {0.62, 0.5}, {0.72, 0.8}, {0.28, 0.8}, {0.38, 0.5}, {0.38, 0.35},
	},
	board.Knight: {
		{0.3, 0.8}, {0.35, 0.5}, {0.3, 0.35}, {0.5, 0.2}, {0.72, 0.35}, {0.72, 0.45}, {0.58, 0.45}, {0.68, 0.8},
	},
	board.Bishop: {
		{0.5, 0.15}, {0.68, 0.45}, {0.6, 0.65}, {0.72, 0.82}, {0.28, 0.82}, {0.4, 0.65}, {0.32, 0.45},
	},
	board.Rook: {
		{0.28, 0.2}, {0.36, 0.2}, {0.36, 0.3}, {0.46, 0.3}, {0.46, 0.2}, {0.54, 0.2}, {0.54, 0.3},
		{0.64, 0.3}, {0.64, 0.2}, {0.72, 0.2}, {0.72, 0.4}, {0.64, 0.45}, {0.66, 0.7}, {0.74, 0.82},
		{0.26, 0.82}, {0.34, 0.7}, {0.36, 0.45}, {0.28, 0.4},
	},
	board.Queen: {
		{0.22, 0.3}, {0.36, 0.5}, {0.42, 0.22}, {0.5, 0.45}, {0.58, 0.22}, {0.64, 0.5}, {0.78, 0.3},
		{0.7, 0.82}, {0.3, 0.82},
	},
	board.King: {
		{0.46, 0.12}, {0.54, 0.12}, {0.54, 0.2}, {0.62, 0.2}, {0.62, 0.28}, {0.54, 0.28}, {0.54, 0.36},
		{0.7, 0.42}, {0.66, 0.82}, {0.34, 0.82}, {0.3, 0.42}, {0.46, 0.36}, {0.46, 0.28}, {0.38, 0.28},
		{0.38, 0.2}, {0.46, 0.2},
	},
}

// cellOrigin returns the top-left pixel of pos's square; rank 8 is on top.
func cellOrigin(pos board.Pos, cell float64) (x, y float64) {
	return float64(pos.Col) * cell, float64(board.Size-1-pos.Row) * cell
}

// SquareColor returns the fill of pos's square. a1 is dark.
func SquareColor(pos board.Pos) string {
	if (pos.Row+pos.Col)%2 == 0 {
		return DarkSquare
	}
	return LightSquare
}

// SVG returns a size×size SVG document of the board: one rect per square and
// one polygon per piece.
func SVG(b *board.Board, size int) string {
	cell := float64(size) / board.Size

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		size, size, size, size)

	for row := 0; row < board.Size; row++ {
		for col := 0; col < board.Size; col++ {
			pos := board.NewPos(row, col)
			x, y := cellOrigin(pos, cell)
			fmt.Fprintf(&sb, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
				x, y, cell, cell, SquareColor(pos))
		}
	}

	for _, p := range b.Pieces() {
		writePiece(&sb, p, cell)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func writePiece(sb *strings.Builder, p *board.Piece, cell float64) {
	x0, y0 := cellOrigin(p.Pos, cell)

	points := make([]string, 0, len(pieceShapes[p.Kind()]))
	for _, pt := range pieceShapes[p.Kind()] {
		points = append(points, fmt.Sprintf("%.2f,%.2f", x0+pt[0]*cell, y0+pt[1]*cell))
	}

	fmt.Fprintf(sb, `<polygon points="%s" fill="%s" stroke="%s" stroke-width="%.2f"/>`+"\n",
		strings.Join(points, " "), pieceFill[p.Color()], pieceStroke[p.Color()], cell*0.03)
}
