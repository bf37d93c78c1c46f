package game

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/hailam/chessai/internal/board"
	"github.com/hailam/chessai/internal/engine"
)

// Reason says why a game ended.
type Reason string

const (
	ReasonKingCaptured Reason = "king captured"
	ReasonNoLegalMove  Reason = "no legal move"
	ReasonPlyLimit     Reason = "ply limit"
)

// Outcome is the result of a finished game. Winner is NoColor for a draw.
type Outcome struct {
	Winner   board.Color
	Reason   Reason
	Plies    int
	Duration time.Duration
}

// Draw returns true if neither side won.
func (o Outcome) Draw() bool {
	return o.Winner == board.NoColor
}

func (o Outcome) String() string {
	if o.Draw() {
		return fmt.Sprintf("draw (%s) after %d plies", o.Reason, o.Plies)
	}
	return fmt.Sprintf("%s wins (%s) after %d plies", o.Winner, o.Reason, o.Plies)
}

// Renderer shows the board after each applied move. It must not modify it.
type Renderer interface {
	Render(b *board.Board) error
}

// Engine picks moves.
type Engine interface {
	SearchWithLimits(ctx context.Context, b *board.Board, side board.Color, limits engine.SearchLimits) engine.Result
	LastInfo() engine.SearchInfo
}

// Config holds the game settings.
type Config struct {
	Depth        int
	StartingSide board.Color
	MaxPlies     int           // 0 = unlimited
	MoveTime     time.Duration // 0 = no limit
	Parallel     int
	Logger       zerolog.Logger
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var result error
	if c.Depth < 1 {
		result = multierror.Append(result, errors.Errorf("depth %d must be positive", c.Depth))
	}
	if c.StartingSide != board.White && c.StartingSide != board.Black {
		result = multierror.Append(result, errors.Errorf("invalid starting side %s", c.StartingSide))
	}
	if c.MaxPlies < 0 {
		result = multierror.Append(result, errors.Errorf("max plies %d is negative", c.MaxPlies))
	}
	return result
}

// Game alternates engine moves on one board until a side wins or the ply
// limit is reached.
type Game struct {
	cfg      Config
	state    *GameState
	engines  [2]Engine
	renderer Renderer
	logger   zerolog.Logger
	started  time.Time
	outcome  *Outcome
}

// New creates a game from the starting position. eng plays both sides until
// SetEngine assigns one side another engine. r may be nil.
func New(cfg Config, eng Engine, r Renderer) (*Game, error) {
	return NewFrom(cfg, board.NewBoard(), eng, r)
}

// NewFrom creates a game from the position on b, which the game takes over.
// b must be a valid position with both kings on the board.
func NewFrom(cfg Config, b *board.Board, eng Engine, r Renderer) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid game config")
	}
	if b == nil {
		return nil, errors.New("game needs a board")
	}
	if b.GameOver() {
		return nil, errors.New("game over before the first move")
	}
	if err := b.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid starting position")
	}
	if eng == nil {
		return nil, errors.New("game needs an engine")
	}
	return &Game{
		cfg:      cfg,
		state:    NewGameStateFrom(b, cfg.StartingSide),
		engines:  [2]Engine{eng, eng},
		renderer: r,
		logger:   cfg.Logger,
	}, nil
}

// SetEngine makes eng play side c.
func (g *Game) SetEngine(c board.Color, eng Engine) {
	g.engines[c] = eng
}

// State returns the live game state.
func (g *Game) State() *GameState {
	return g.state
}

// Outcome returns the outcome once the game is over.
func (g *Game) Outcome() (Outcome, bool) {
	if g.outcome == nil {
		return Outcome{}, false
	}
	return *g.outcome, true
}

func (g *Game) finish(winner board.Color, reason Reason) {
	g.outcome = &Outcome{
		Winner:   winner,
		Reason:   reason,
		Plies:    g.state.Ply,
		Duration: time.Since(g.started),
	}
	g.logger.Info().
		Str("winner", winnerName(winner)).
		Str("reason", string(reason)).
		Int("plies", g.state.Ply).
		Dur("duration", g.outcome.Duration).
		Msg("game over")
}

// Step plays one ply. It returns true once the game is over.
func (g *Game) Step(ctx context.Context) (bool, error) {
	if g.outcome != nil {
		return true, nil
	}
	if g.started.IsZero() {
		g.started = time.Now()
	}
	if err := ctx.Err(); err != nil {
		return false, errors.Wrap(err, "game interrupted")
	}

	if g.cfg.MaxPlies > 0 && g.state.Ply >= g.cfg.MaxPlies {
		g.finish(board.NoColor, ReasonPlyLimit)
		return true, nil
	}

	side := g.state.SideToMove
	limits := engine.SearchLimits{
		Depth:    g.cfg.Depth,
		MoveTime: g.cfg.MoveTime,
		Parallel: g.cfg.Parallel,
	}

	start := time.Now()
	r := g.engines[side].SearchWithLimits(ctx, g.state.Board, side, limits)
	if err := ctx.Err(); err != nil {
		return false, errors.Wrap(err, "game interrupted")
	}

	if !r.HasMove() {
		g.finish(side.Other(), ReasonNoLegalMove)
		return true, nil
	}

	info := g.engines[side].LastInfo()
	rec := PlyRecord{
		Score:   r.Score,
		Depth:   info.Depth,
		Nodes:   info.Nodes,
		Elapsed: time.Since(start),
	}
	if err := g.state.Apply(*r.Move, rec); err != nil {
		return false, errors.Wrapf(err, "ply %d", g.state.Ply+1)
	}

	last := g.state.History[len(g.state.History)-1]
	g.logger.Info().
		Int("ply", last.Ply).
		Str("side", side.String()).
		Str("move", last.Move.String()).
		Float64("score", r.Score).
		Uint64("nodes", info.Nodes).
		Dur("elapsed", last.Elapsed).
		Msg("move")

	if g.renderer != nil {
		if err := g.renderer.Render(g.state.Board); err != nil {
			return false, errors.Wrap(err, "render")
		}
	}

	if g.state.Board.GameOver() {
		g.finish(side, ReasonKingCaptured)
		return true, nil
	}
	return false, nil
}

// Play runs the game to the end.
func (g *Game) Play(ctx context.Context) (Outcome, error) {
	for {
		done, err := g.Step(ctx)
		if err != nil {
			return Outcome{}, err
		}
		if done {
			return *g.outcome, nil
		}
	}
}

func winnerName(c board.Color) string {
	if c == board.NoColor {
		return "none"
	}
	return c.String()
}
