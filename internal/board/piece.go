package board

import (
	"strings"

	"github.com/pkg/errors"
)

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// Forward returns the row delta a pawn of this color advances by.
func (c Color) Forward() int {
	if c == White {
		return 1
	}
	return -1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// ParseColor accepts "w", "white", "b" or "black" in any case.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "w", "white":
		return White, nil
	case "b", "black":
		return Black, nil
	}
	return NoColor, errors.Errorf("invalid piece color %q", s)
}

// Kind represents the kind of a chess piece.
type Kind uint8

const (
	Pawn Kind = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoKind Kind = 6
)

var kindNames = [...]string{"pawn", "knight", "bishop", "rook", "queen", "king"}

// String returns the kind name.
func (k Kind) String() string {
	if k >= NoKind {
		return "none"
	}
	return kindNames[k]
}

// Char returns the placement character for the kind (lowercase).
func (k Kind) Char() byte {
	chars := []byte{'p', 'n', 'b', 'r', 'q', 'k', ' '}
	if k > NoKind {
		return ' '
	}
	return chars[k]
}

// ParseKind parses a kind name such as "queen".
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return NoKind, errors.Errorf("invalid piece name %q", s)
}

// Material values used by the evaluation.
var Material = [7]int{1, 3, 3, 5, 9, 1000, 0}

// Value returns the material value of the kind.
func (k Kind) Value() int {
	if k > NoKind {
		return 0
	}
	return Material[k]
}

var glyphs = [2][6]rune{
	{'♙', '♘', '♗', '♖', '♕', '♔'},
	{'♟', '♞', '♝', '♜', '♛', '♚'},
}

// Piece is a single piece on a board. Kind and color never change once the
// piece is constructed; Pos follows the piece as it moves.
type Piece struct {
	kind  Kind
	color Color
	Pos   Pos
}

// NewPiece creates a piece, rejecting unknown kinds or colors.
func NewPiece(k Kind, c Color, pos Pos) (*Piece, error) {
	if k >= NoKind {
		return nil, errors.Errorf("invalid piece kind %d", k)
	}
	if c >= NoColor {
		return nil, errors.Errorf("invalid piece color %d", c)
	}
	return &Piece{kind: k, color: c, Pos: pos}, nil
}

// NewNamedPiece creates a piece from its kind and color names.
func NewNamedPiece(kind, color string, pos Pos) (*Piece, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}
	c, err := ParseColor(color)
	if err != nil {
		return nil, err
	}
	return NewPiece(k, c, pos)
}

// Kind returns the piece kind.
func (p *Piece) Kind() Kind {
	return p.kind
}

// Color returns the piece color.
func (p *Piece) Color() Color {
	return p.color
}

// Symbol returns the Unicode chess glyph for the piece.
func (p *Piece) Symbol() rune {
	return glyphs[p.color][p.kind]
}

// Char returns the placement character: uppercase for white, lowercase for black.
func (p *Piece) Char() byte {
	c := p.kind.Char()
	if p.color == White {
		return c - 'a' + 'A'
	}
	return c
}

// String returns e.g. "White queen@e1".
func (p *Piece) String() string {
	return p.color.String() + " " + p.kind.String() + "@" + p.Pos.String()
}

func (p *Piece) clone() *Piece {
	cp := *p
	return &cp
}

// pieceFromChar converts a placement character to a kind and color.
func pieceFromChar(c byte) (Kind, Color, bool) {
	color := White
	if c >= 'a' && c <= 'z' {
		color = Black
		c = c - 'a' + 'A'
	}
	switch c {
	case 'P':
		return Pawn, color, true
	case 'N':
		return Knight, color, true
	case 'B':
		return Bishop, color, true
	case 'R':
		return Rook, color, true
	case 'Q':
		return Queen, color, true
	case 'K':
		return King, color, true
	}
	return NoKind, NoColor, false
}
