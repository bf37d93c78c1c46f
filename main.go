// ChessAI - engine self-play from the command line
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/hailam/chessai/internal/board"
	"github.com/hailam/chessai/internal/engine"
	"github.com/hailam/chessai/internal/game"
	"github.com/hailam/chessai/internal/render"
	"github.com/hailam/chessai/internal/storage"
)

const (
	cacheEntries   = 1 << 16
	traceNodeLimit = 5000
)

var (
	depth    = flag.Int("depth", 0, "search depth in plies")
	level    = flag.String("difficulty", "", "depth preset: easy, medium or hard (-depth wins)")
	start    = flag.String("start", "", "side to move first (white or black)")
	maxPlies = flag.Int("max-plies", 0, "end the game as a draw after this many plies (0 = unlimited)")
	parallel = flag.Int("parallel", 0, "root search workers (0 or 1 = sequential)")
	moveTime = flag.Duration("movetime", 0, "time limit per move (0 = none)")
	pngPath  = flag.String("png", "", "write the board after every move to this PNG file")
	dataDir  = flag.String("data-dir", "", "directory for preferences and results")
	noStore  = flag.Bool("no-store", false, "do not load or save preferences and results")
	logLevel = flag.String("log-level", "info", "log level (debug, info, warn, error)")
	quiet    = flag.Bool("quiet", false, "do not print the board after every move")
	tracePth = flag.String("trace", "", "write the first search tree to this DOT file")
)

func main() {
	flag.Parse()

	logger, err := newLogger(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, logger, setFlags()); err != nil {
		logger.Error().Err(err).Msg("self-play failed")
		os.Exit(1)
	}
}

func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), errors.Wrapf(err, "invalid log level %q", level)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().Timestamp().
		Logger(), nil
}

// setFlags returns the names of the flags given on the command line.
func setFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// applyFlags overrides stored preferences with explicitly set flags.
func applyFlags(prefs *storage.Preferences, set map[string]bool) error {
	switch {
	case set["depth"]:
		prefs.Depth = *depth
	case set["difficulty"]:
		d, err := engine.ParseDifficulty(*level)
		if err != nil {
			return err
		}
		prefs.Depth = engine.DifficultySettings[d].Depth
	}
	if set["start"] {
		prefs.StartingSide = strings.ToLower(*start)
	}
	if set["max-plies"] {
		prefs.MaxPlies = *maxPlies
	}
	if set["parallel"] {
		prefs.Parallel = *parallel
	}
	if set["movetime"] {
		prefs.MoveTime = *moveTime
	}
	return nil
}

func openStore(logger zerolog.Logger) *storage.Storage {
	if *noStore {
		return nil
	}
	dir, err := storage.GetDatabaseDir(*dataDir)
	if err != nil {
		logger.Warn().Err(err).Msg("storage disabled")
		return nil
	}
	store, err := storage.Open(dir)
	if err != nil {
		logger.Warn().Err(err).Msg("storage disabled")
		return nil
	}
	return store
}

func loadPreferences(store *storage.Storage, logger zerolog.Logger) *storage.Preferences {
	if store == nil {
		return storage.DefaultPreferences()
	}
	prefs, err := store.LoadPreferences()
	if err != nil {
		logger.Warn().Err(err).Msg("using default preferences")
		return storage.DefaultPreferences()
	}
	return prefs
}

func newEngine(logger zerolog.Logger, side board.Color) (*engine.Engine, error) {
	eng, err := engine.NewEngine(cacheEntries)
	if err != nil {
		return nil, err
	}
	eng.SetLogger(logger.With().Str("engine", side.String()).Logger())
	return eng, nil
}

// run plays one game. set names the flags given on the command line.
func run(ctx context.Context, logger zerolog.Logger, set map[string]bool) (err error) {
	store := openStore(logger)
	if store != nil {
		defer func() {
			if cerr := store.Close(); cerr != nil {
				err = multierror.Append(err, errors.Wrap(cerr, "close storage"))
			}
		}()
	}

	prefs := loadPreferences(store, logger)
	if err := applyFlags(prefs, set); err != nil {
		return err
	}
	if err := prefs.Validate(); err != nil {
		return err
	}

	white, err := newEngine(logger, board.White)
	if err != nil {
		return err
	}
	defer white.Close()
	black, err := newEngine(logger, board.Black)
	if err != nil {
		return err
	}
	defer black.Close()

	var renderers render.Multi
	if !*quiet {
		renderers = append(renderers, render.TextRenderer{W: os.Stdout})
	}
	if *pngPath != "" {
		renderers = append(renderers, render.PNGRenderer{Path: *pngPath})
	}

	cfg := game.Config{
		Depth:        prefs.Depth,
		StartingSide: prefs.Side(),
		MaxPlies:     prefs.MaxPlies,
		MoveTime:     prefs.MoveTime,
		Parallel:     prefs.Parallel,
		Logger:       logger,
	}
	g, err := game.New(cfg, white, renderers)
	if err != nil {
		return err
	}
	g.SetEngine(board.Black, black)

	if !*quiet {
		fmt.Print(render.Text(g.State().Board), "\n")
	}

	out, err := play(ctx, g, white, black, cfg.StartingSide)
	if err != nil {
		return err
	}

	printSummary(out, g)

	if store != nil {
		prefs.LastPlayed = time.Now()
		if err := store.SavePreferences(prefs); err != nil {
			logger.Warn().Err(err).Msg("failed to save preferences")
		}
		id, err := store.RecordGame(newResult(out, g, prefs))
		if err != nil {
			logger.Warn().Err(err).Msg("failed to record game")
		} else {
			logger.Info().Str("id", id).Msg("game recorded")
			printStats(store, logger)
		}
	}
	return nil
}

// play runs the game, tracing the first search when -trace is set.
func play(ctx context.Context, g *game.Game, white, black *engine.Engine, first board.Color) (game.Outcome, error) {
	if *tracePth == "" {
		return g.Play(ctx)
	}

	eng := white
	if first == board.Black {
		eng = black
	}
	tracer := engine.NewTracer(traceNodeLimit)
	eng.SetTracer(tracer)

	done, err := g.Step(ctx)
	eng.SetTracer(nil)
	if err != nil {
		return game.Outcome{}, err
	}
	if err := tracer.WriteFile(*tracePth); err != nil {
		return game.Outcome{}, err
	}
	if done {
		out, _ := g.Outcome()
		return out, nil
	}
	return g.Play(ctx)
}

func winnerName(c board.Color) string {
	if c == board.NoColor {
		return ""
	}
	return strings.ToLower(c.String())
}

func newResult(out game.Outcome, g *game.Game, prefs *storage.Preferences) storage.GameResult {
	return storage.GameResult{
		Winner:         winnerName(out.Winner),
		Reason:         string(out.Reason),
		Plies:          out.Plies,
		Duration:       out.Duration,
		Depth:          prefs.Depth,
		StartingSide:   prefs.StartingSide,
		Moves:          g.State().Moves(),
		FinalPlacement: g.State().Board.Placement(),
	}
}

func printSummary(out game.Outcome, g *game.Game) {
	s := g.Summary()
	fmt.Println(out)
	fmt.Printf("Captures: white %d, black %d\n", s.Captures[board.White], s.Captures[board.Black])
	fmt.Printf("Nodes per ply: mean %.0f, stddev %.0f, max %d\n", s.MeanNodes, s.StdNodes, s.MaxNodes)
	fmt.Printf("Time per ply: mean %s, stddev %s\n", s.MeanTime.Round(time.Microsecond), s.StdTime.Round(time.Microsecond))
	fmt.Println("Moves:", strings.Join(g.State().Moves(), " "))
}

func printStats(store *storage.Storage, logger zerolog.Logger) {
	stats, err := store.LoadStats()
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load stats")
		return
	}
	fmt.Printf("Games: %d (white %.1f%%, black %.1f%%, draws %d), average %.1f plies\n",
		stats.GamesPlayed, stats.WinRate(board.White), stats.WinRate(board.Black),
		stats.Draws, stats.AveragePlies())
}
