// chessai-perft counts move-tree leaves and compares alpha-beta against
// plain minimax on a position.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chessai/internal/board"
	"github.com/hailam/chessai/internal/engine"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	placement  = flag.String("placement", "", "piece placement to start from (default: starting position)")
	sideFlag   = flag.String("side", "white", "side to move")
	perftDepth = flag.Int("perft", 4, "perft depth")
	searchTo   = flag.Int("search", 3, "deepest alpha-beta/minimax comparison")
	level      = flag.String("difficulty", "medium", "engine preset for the final best-move search")
)

func main() {
	flag.Parse()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
		logger.Info().Str("path", profilePath).Msg("CPU profiling enabled")
	}

	b := board.NewBoard()
	if *placement != "" {
		var err error
		if b, err = board.ParsePlacement(*placement); err != nil {
			logger.Fatal().Err(err).Msg("bad placement")
		}
	}
	side, err := board.ParseColor(*sideFlag)
	if err != nil {
		logger.Fatal().Err(err).Msg("bad side")
	}

	difficulty, err := engine.ParseDifficulty(*level)
	if err != nil {
		logger.Fatal().Err(err).Msg("bad difficulty")
	}

	eng, err := engine.NewEngine(0)
	if err != nil {
		logger.Fatal().Err(err).Msg("create engine")
	}
	defer eng.Close()
	eng.SetDifficulty(difficulty)

	fmt.Print(b)

	for d := 1; d <= *perftDepth; d++ {
		start := time.Now()
		n := eng.Perft(b, side, d)
		fmt.Printf("perft(%d) = %d  (%s)\n", d, n, time.Since(start).Round(time.Microsecond))
	}

	fmt.Println()
	fmt.Printf("%-5s %12s %12s %8s  %s\n", "depth", "minimax", "alphabeta", "ratio", "best")
	s := engine.NewSearcher()
	for d := 1; d <= *searchTo; d++ {
		s.Reset()
		mm := s.Minimax(b, d, side)
		mmNodes := s.Nodes()

		s.Reset()
		ab := s.AlphaBeta(b, d, side)
		abNodes := s.Nodes()

		if mm.Score != ab.Score {
			logger.Error().Int("depth", d).Float64("minimax", mm.Score).Float64("alphabeta", ab.Score).
				Msg("scores differ")
		}

		fmt.Printf("%-5d %12d %12d %7.1f%%  %s\n", d, mmNodes, abNodes,
			float64(abNodes)/float64(mmNodes)*100, moveString(ab))
	}

	r := eng.Search(context.Background(), b, side)
	info := eng.LastInfo()
	fmt.Printf("\n%s engine (depth %d, %d nodes): %s\n", difficulty, info.Depth, info.Nodes, moveString(r))
}

func moveString(r engine.Result) string {
	if !r.HasMove() {
		return "no move"
	}
	return fmt.Sprintf("%s (%.0f)", r.Move, r.Score)
}
