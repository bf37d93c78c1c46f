package engine

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/hailam/chessai/internal/board"
)

// MaxDepth caps iterative deepening when only a time limit is given.
const MaxDepth = 32

// SearchInfo contains information about a completed search iteration.
type SearchInfo struct {
	Depth   int
	Score   float64
	Nodes   uint64
	Time    time.Duration
	Move    *board.Move
	Aborted bool
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth    int           // Maximum depth (0 = difficulty default, or MaxDepth with a MoveTime)
	MoveTime time.Duration // Time for this move (0 = no limit)
	Parallel int           // Root workers (0 or 1 = sequential)
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 1 ply
	Medium                   // 2 ply
	Hard                     // 3 ply
)

// DifficultySettings maps difficulty to search limits.
var DifficultySettings = map[Difficulty]SearchLimits{
	Easy:   {Depth: 1},
	Medium: {Depth: 2},
	Hard:   {Depth: 3},
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return "unknown"
}

// ParseDifficulty parses "easy", "medium" or "hard".
func ParseDifficulty(s string) (Difficulty, error) {
	for d := Easy; d <= Hard; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return Medium, errors.Errorf("unknown difficulty %q", s)
}

// Engine is the chess AI engine: iterative deepening over the alpha-beta
// searcher, with an optional evaluation cache and search trace.
type Engine struct {
	searcher   *Searcher
	cache      *EvalCache
	tm         *TimeManager
	difficulty Difficulty
	logger     zerolog.Logger
	last       SearchInfo

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine whose evaluation cache holds cacheEntries
// positions. Zero disables the cache.
func NewEngine(cacheEntries int64) (*Engine, error) {
	e := &Engine{
		searcher:   NewSearcher(),
		tm:         NewTimeManager(),
		difficulty: Medium,
		logger:     zerolog.Nop(),
	}
	if cacheEntries > 0 {
		cache, err := NewEvalCache(cacheEntries)
		if err != nil {
			return nil, err
		}
		e.cache = cache
		e.searcher.SetCache(cache)
	}
	return e, nil
}

// SetDifficulty sets the engine difficulty.
func (e *Engine) SetDifficulty(d Difficulty) {
	e.difficulty = d
}

// SetLogger sets the logger search iterations are reported to.
func (e *Engine) SetLogger(l zerolog.Logger) {
	e.logger = l
}

// SetTracer records the last iteration of each search into t.
func (e *Engine) SetTracer(t *Tracer) {
	e.searcher.SetTracer(t)
}

// Cache returns the evaluation cache, or nil if disabled.
func (e *Engine) Cache() *EvalCache {
	return e.cache
}

// Search finds the best move for side using the difficulty's limits.
func (e *Engine) Search(ctx context.Context, b *board.Board, side board.Color) Result {
	return e.SearchWithLimits(ctx, b, side, DifficultySettings[e.difficulty])
}

// SearchWithLimits finds the best move for side with specific search limits.
// The result of the deepest completed iteration is returned; if the first
// iteration is interrupted, its best move so far is returned instead.
// b is not modified.
func (e *Engine) SearchWithLimits(ctx context.Context, b *board.Board, side board.Color, limits SearchLimits) Result {
	e.searcher.Reset()
	e.tm.Init(limits.MoveTime)
	e.searcher.SetDeadline(e.tm.Deadline())

	stop := context.AfterFunc(ctx, e.searcher.Stop)
	defer stop()

	maxDepth := limits.Depth
	if maxDepth <= 0 {
		maxDepth = DifficultySettings[e.difficulty].Depth
		if limits.MoveTime > 0 {
			maxDepth = MaxDepth
		}
	}

	var best Result
	completed := 0

	for depth := 1; depth <= maxDepth; depth++ {
		if depth > 1 && !e.tm.ShouldStartIteration() {
			break
		}
		if e.searcher.tracer != nil {
			e.searcher.tracer.Reset()
		}

		var r Result
		var err error
		if limits.Parallel > 1 {
			r, err = e.searcher.ParallelAlphaBeta(ctx, b, depth, side, limits.Parallel)
		} else {
			r = e.searcher.AlphaBeta(b, depth, side)
		}

		if err != nil || e.searcher.Aborted() {
			e.logger.Debug().Int("depth", depth).Err(err).Msg("iteration aborted")
			if completed == 0 {
				best = e.fallback(b, side, r)
			}
			break
		}

		best = r
		completed = depth

		info := SearchInfo{
			Depth: depth,
			Score: r.Score,
			Nodes: e.searcher.Nodes(),
			Time:  e.tm.Elapsed(),
			Move:  r.Move,
		}
		e.last = info
		e.logger.Debug().
			Int("depth", depth).
			Float64("score", r.Score).
			Uint64("nodes", info.Nodes).
			Dur("elapsed", info.Time).
			Str("move", moveString(r.Move)).
			Msg("iteration")
		if e.OnInfo != nil {
			e.OnInfo(info)
		}

		// Nothing deeper can change a position without moves
		if !r.HasMove() {
			break
		}
	}

	if completed == 0 {
		e.last = SearchInfo{
			Score:   best.Score,
			Nodes:   e.searcher.Nodes(),
			Time:    e.tm.Elapsed(),
			Move:    best.Move,
			Aborted: true,
		}
	}
	return best
}

// fallback completes an interrupted first iteration: when it had not scored
// a single move yet, the first ordered move is returned so a side with moves
// is never reported as having none.
func (e *Engine) fallback(b *board.Board, side board.Color, r Result) Result {
	if r.HasMove() || b.GameOver() {
		return r
	}
	moves := orderedMoves(b, side)
	if len(moves) == 0 {
		return r
	}
	r.Score = e.searcher.evaluate(child(b, moves[0]))
	r.Piece, r.Move = chosen(moves[0])
	return r
}

// LastInfo returns the statistics of the last search.
func (e *Engine) LastInfo() SearchInfo {
	return e.last
}

// Stop stops the current search.
func (e *Engine) Stop() {
	e.searcher.Stop()
}

// Clear clears the evaluation cache.
func (e *Engine) Clear() {
	if e.cache != nil {
		e.cache.Clear()
	}
}

// Close releases the evaluation cache.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

// Perft counts the leaf nodes of the move tree depth plies deep, side to move
// first. b is restored before returning.
func (e *Engine) Perft(b *board.Board, side board.Color, depth int) uint64 {
	if depth == 0 || b.GameOver() {
		return 1
	}

	moves := b.AllMoves(side)
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		undo := b.MakeMove(m)
		nodes += e.Perft(b, side.Other(), depth-1)
		b.UnmakeMove(undo)
	}

	return nodes
}

// Evaluate returns the static evaluation of b from perspective's side.
func (e *Engine) Evaluate(b *board.Board, perspective board.Color) float64 {
	return Evaluate(b, perspective)
}

// Searcher exposes the underlying searcher.
func (e *Engine) Searcher() *Searcher {
	return e.searcher
}

func moveString(m *board.Move) string {
	if m == nil {
		return "none"
	}
	return m.String()
}
