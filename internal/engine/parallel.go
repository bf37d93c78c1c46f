package engine

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chessai/internal/board"
)

// ParallelAlphaBeta splits the root moves across up to workers goroutines.
// Each root child is searched on its own clone with a full window and the
// results are reduced in move order, so the score and move equal those of
// AlphaBeta. Fewer than two workers falls back to the sequential search.
func (s *Searcher) ParallelAlphaBeta(ctx context.Context, b *board.Board, depth int, side board.Color, workers int) (Result, error) {
	if workers < 2 || depth <= 0 || b.GameOver() {
		return s.AlphaBeta(b, depth, side), nil
	}

	maximizing := side == s.Maximizer
	root := s.tracer.enter(noTrace, "root", maximizing)
	s.nodes.Add(1)

	moves := orderedMoves(b, side)
	results := make([]Result, len(moves))
	searched := make([]bool, len(moves))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, m := range moves {
		i, m := i, m
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if s.shouldStop() {
				return nil
			}
			results[i] = s.alphaBeta(child(b, m), depth-1, side.Other(), -Infinity, Infinity, root, m.String())
			searched[i] = true
			return nil
		})
	}
	err := g.Wait()

	best := Result{Score: Infinity}
	if maximizing {
		best.Score = -Infinity
	}
	for i, m := range moves {
		if !searched[i] {
			continue
		}
		if improves(maximizing, results[i].Score, best.Score, best.Move) {
			best.Score = results[i].Score
			best.Piece, best.Move = chosen(m)
		}
	}
	s.tracer.leave(root, best.Score, false)

	if err != nil {
		s.aborted.Store(true)
		return best, errors.Wrap(err, "parallel search")
	}
	return best, nil
}
