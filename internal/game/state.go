// Package game drives engine self-play: it owns the real board and the side
// to move, asks the engine for a move each ply and decides when the game ends.
package game

import (
	"time"

	"github.com/pkg/errors"

	"github.com/hailam/chessai/internal/board"
)

// PlyRecord describes one applied move.
type PlyRecord struct {
	Ply     int
	Side    board.Color
	Move    board.Move
	Score   float64
	Depth   int
	Nodes   uint64
	Elapsed time.Duration
}

// GameState is the state threaded through the driving loop: the real board,
// whose turn it is and what has been played.
type GameState struct {
	Board      *board.Board
	SideToMove board.Color
	Ply        int
	History    []PlyRecord
}

// NewGameState creates the starting position with start to move.
func NewGameState(start board.Color) *GameState {
	return NewGameStateFrom(board.NewBoard(), start)
}

// NewGameStateFrom wraps an existing board with side to move.
func NewGameStateFrom(b *board.Board, side board.Color) *GameState {
	return &GameState{Board: b, SideToMove: side}
}

// Apply plays m on the real board for the side to move, records it and
// passes the turn. m may come from a clone; it is resolved by coordinate.
func (s *GameState) Apply(m board.Move, rec PlyRecord) error {
	rm, ok := s.Board.Resolve(m)
	if !ok {
		return errors.Errorf("no piece on %s", m.From)
	}
	if rm.Piece.Color() != s.SideToMove {
		return errors.Errorf("%s moved out of turn, %s to move", rm.Piece, s.SideToMove)
	}
	if target := s.Board.PieceAt(rm.To); target != nil && target.Color() == s.SideToMove {
		return errors.Errorf("%s cannot capture friendly %s", rm.Piece, target)
	}

	s.Board.Apply(rm)

	s.Ply++
	rec.Ply = s.Ply
	rec.Side = s.SideToMove
	rec.Move = rm
	s.History = append(s.History, rec)
	s.SideToMove = s.SideToMove.Other()
	return nil
}

// Moves returns the played moves in coordinate notation.
func (s *GameState) Moves() []string {
	out := make([]string, len(s.History))
	for i, rec := range s.History {
		out[i] = rec.Move.String()
	}
	return out
}
