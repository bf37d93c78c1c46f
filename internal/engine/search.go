package engine

import (
	"math"
	"sort"
	"sync/atomic"
	"time"

	"github.com/hailam/chessai/internal/board"
)

// Infinity bounds every score. A side with no move scores -Infinity when
// maximizing and +Infinity when minimizing.
var Infinity = math.Inf(1)

// Result is the outcome of a search: the score from the maximizer's point of
// view and the chosen piece and move. Piece and Move are nil at a terminal
// node or when the side to move has no move at all.
type Result struct {
	Score float64
	Piece *board.Piece
	Move  *board.Move
}

// HasMove returns true if the search chose a move.
func (r Result) HasMove() bool {
	return r.Move != nil
}

// Searcher performs minimax searches with alpha-beta pruning. Every node
// works on its own clone of the board, so the board passed in is never
// modified.
type Searcher struct {
	// Maximizer is the color whose score is maximized. Scores are always
	// reported from its point of view.
	Maximizer board.Color

	cache    *EvalCache
	tracer   *Tracer
	nodes    atomic.Uint64
	stopFlag *atomic.Bool
	aborted  atomic.Bool
	deadline time.Time
}

// NewSearcher creates a searcher maximizing for White.
func NewSearcher() *Searcher {
	return &Searcher{
		Maximizer: board.White,
		stopFlag:  &atomic.Bool{},
	}
}

// SetCache makes the searcher evaluate through ec. A nil cache evaluates
// directly.
func (s *Searcher) SetCache(ec *EvalCache) {
	s.cache = ec
}

// SetTracer records the next searches into t. A nil tracer disables tracing.
func (s *Searcher) SetTracer(t *Tracer) {
	s.tracer = t
}

// SetDeadline aborts searches still running at d. The zero time disables it.
func (s *Searcher) SetDeadline(d time.Time) {
	s.deadline = d
}

// Stop signals running searches to unwind.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// Reset clears the stop flag, the abort state and the node counter.
func (s *Searcher) Reset() {
	s.stopFlag.Store(false)
	s.aborted.Store(false)
	s.nodes.Store(0)
}

// Nodes returns the number of nodes visited since the last Reset.
func (s *Searcher) Nodes() uint64 {
	return s.nodes.Load()
}

// Aborted returns true if a search since the last Reset was cut short by
// Stop or the deadline. Its result is the best found so far, not exact.
func (s *Searcher) Aborted() bool {
	return s.aborted.Load()
}

// shouldStop is checked before descending into each node.
func (s *Searcher) shouldStop() bool {
	if s.aborted.Load() {
		return true
	}
	if s.stopFlag.Load() || (!s.deadline.IsZero() && time.Now().After(s.deadline)) {
		s.aborted.Store(true)
		return true
	}
	return false
}

func (s *Searcher) evaluate(b *board.Board) float64 {
	if s.cache != nil {
		return s.cache.Evaluate(b, s.Maximizer)
	}
	return Evaluate(b, s.Maximizer)
}

// orderedMoves returns the moves of side, piece by piece in board order,
// each piece's moves sorted by descending heuristic score.
func orderedMoves(b *board.Board, side board.Color) []board.Move {
	var moves []board.Move
	for _, p := range b.PiecesOf(side) {
		pm := b.GenerateMoves(p)
		sort.SliceStable(pm, func(i, j int) bool {
			return pm[i].Score > pm[j].Score
		})
		moves = append(moves, pm...)
	}
	return moves
}

// child clones b and plays m on the clone.
func child(b *board.Board, m board.Move) *board.Board {
	c := b.Clone()
	rm, ok := c.Resolve(m)
	if !ok {
		panic("engine: move " + m.String() + " does not resolve on clone")
	}
	c.Apply(rm)
	return c
}

// improves reports whether score replaces best at a node: strictly better,
// or the first move seen.
func improves(maximizing bool, score, best float64, current *board.Move) bool {
	if current == nil {
		return true
	}
	if maximizing {
		return score > best
	}
	return score < best
}

func chosen(m board.Move) (*board.Piece, *board.Move) {
	mv := m
	return m.Piece, &mv
}

// AlphaBeta searches depth plies ahead for side and returns the best move.
// The root is a max node when side is the maximizer, a min node otherwise.
func (s *Searcher) AlphaBeta(b *board.Board, depth int, side board.Color) Result {
	return s.alphaBeta(b, depth, side, -Infinity, Infinity, noTrace, "root")
}

func (s *Searcher) alphaBeta(b *board.Board, depth int, side board.Color, alpha, beta float64, parent int, label string) Result {
	maximizing := side == s.Maximizer
	id := s.tracer.enter(parent, label, maximizing)
	s.nodes.Add(1)

	if depth <= 0 || b.GameOver() {
		score := s.evaluate(b)
		s.tracer.leave(id, score, false)
		return Result{Score: score}
	}

	best := Result{Score: Infinity}
	if maximizing {
		best.Score = -Infinity
	}

	cutoff := false
	for _, m := range orderedMoves(b, side) {
		if s.shouldStop() {
			break
		}

		r := s.alphaBeta(child(b, m), depth-1, side.Other(), alpha, beta, id, m.String())
		if improves(maximizing, r.Score, best.Score, best.Move) {
			best.Score = r.Score
			best.Piece, best.Move = chosen(m)
		}

		if maximizing {
			alpha = math.Max(alpha, best.Score)
			if best.Score >= beta {
				cutoff = true
				break
			}
		} else {
			beta = math.Min(beta, best.Score)
			if best.Score <= alpha {
				cutoff = true
				break
			}
		}
	}

	s.tracer.leave(id, best.Score, cutoff)
	return best
}

// Minimax is AlphaBeta without pruning. It visits every node and returns the
// same score and move; it exists to check the pruning.
func (s *Searcher) Minimax(b *board.Board, depth int, side board.Color) Result {
	maximizing := side == s.Maximizer
	s.nodes.Add(1)

	if depth <= 0 || b.GameOver() {
		return Result{Score: s.evaluate(b)}
	}

	best := Result{Score: Infinity}
	if maximizing {
		best.Score = -Infinity
	}

	for _, m := range orderedMoves(b, side) {
		r := s.Minimax(child(b, m), depth-1, side.Other())
		if improves(maximizing, r.Score, best.Score, best.Move) {
			best.Score = r.Score
			best.Piece, best.Move = chosen(m)
		}
	}
	return best
}
