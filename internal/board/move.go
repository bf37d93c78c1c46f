package board

import (
	"fmt"
)

// Move is a single generated move. Piece and Captured point into the board the
// move was generated from; use Resolve before applying it to any other board.
type Move struct {
	Piece    *Piece
	From     Pos
	To       Pos
	Score    int  // ordering hint, higher is searched first
	Capture  bool
	Captured *Piece
}

// String returns the coordinate form of the move (e.g., "e2e4", "d1xd7").
func (m Move) String() string {
	if m.Capture {
		return m.From.String() + "x" + m.To.String()
	}
	return m.From.String() + m.To.String()
}

// Kind returns the kind of the moving piece, or NoKind for a detached move.
func (m Move) Kind() Kind {
	if m.Piece == nil {
		return NoKind
	}
	return m.Piece.kind
}

// Resolve rebinds a move generated against another board (typically the
// parent of a clone) to the pieces of b, looking them up by coordinate.
// It returns false if no piece stands on the move's start square.
func (b *Board) Resolve(m Move) (Move, bool) {
	p := b.PieceAt(m.From)
	if p == nil {
		return Move{}, false
	}
	m.Piece = p
	m.Captured = nil
	if target := b.PieceAt(m.To); target != nil {
		m.Captured = target
		m.Capture = true
	}
	return m, true
}

// Undo stores the information needed to reverse MakeMove exactly.
type Undo struct {
	From, To     Pos
	Mover        *Piece
	Captured     *Piece
	CapturedSlot int // index in the active set the captured piece came from
	GameOver     bool
}

// Apply plays m on the board. The mover is whatever piece stands on m.From.
// Moves that leave the board, start from an empty square or land on a friendly
// piece are programming errors and panic.
func (b *Board) Apply(m Move) {
	b.MakeMove(m)
}

// MakeMove plays m and returns the record UnmakeMove needs to take it back.
func (b *Board) MakeMove(m Move) Undo {
	if !m.From.InBounds() || !m.To.InBounds() {
		panic(fmt.Sprintf("board: move %s out of range", m))
	}

	mover := b.grid[m.From.Row][m.From.Col]
	if mover == nil {
		panic(fmt.Sprintf("board: no piece on %s for move %s", m.From, m))
	}

	undo := Undo{
		From:         m.From,
		To:           m.To,
		Mover:        mover,
		CapturedSlot: -1,
		GameOver:     b.gameOver,
	}

	b.grid[m.From.Row][m.From.Col] = nil

	if target := b.grid[m.To.Row][m.To.Col]; target != nil {
		if target.color == mover.color {
			panic(fmt.Sprintf("board: %s cannot capture friendly %s", mover, target))
		}
		undo.Captured = target
		undo.CapturedSlot = b.removePiece(target)
		b.captured = append(b.captured, target)
		if target.kind == King {
			b.gameOver = true
		}
	}

	mover.Pos = m.To
	b.grid[m.To.Row][m.To.Col] = mover

	return undo
}

// UnmakeMove reverses the move recorded in u. Moves must be unmade in the
// reverse order they were made.
func (b *Board) UnmakeMove(u Undo) {
	b.grid[u.To.Row][u.To.Col] = nil
	u.Mover.Pos = u.From
	b.grid[u.From.Row][u.From.Col] = u.Mover

	if u.Captured != nil {
		b.captured = b.captured[:len(b.captured)-1]
		b.insertPiece(u.Captured, u.CapturedSlot)
	}

	b.gameOver = u.GameOver
}
