package game

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/hailam/chessai/internal/board"
)

// Summary aggregates the search statistics of a game.
type Summary struct {
	Plies     int
	Captures  [2]int // by capturing color
	MeanNodes float64
	StdNodes  float64
	MeanTime  time.Duration
	StdTime   time.Duration
	MaxNodes  uint64
}

// Summary computes statistics over the plies played so far.
func (g *Game) Summary() Summary {
	return Summarize(g.state.History)
}

// Summarize computes statistics over history.
func Summarize(history []PlyRecord) Summary {
	s := Summary{Plies: len(history)}
	if len(history) == 0 {
		return s
	}

	nodes := make([]float64, len(history))
	times := make([]float64, len(history))
	for i, rec := range history {
		nodes[i] = float64(rec.Nodes)
		times[i] = float64(rec.Elapsed)
		if rec.Nodes > s.MaxNodes {
			s.MaxNodes = rec.Nodes
		}
		if rec.Move.Capture && rec.Side != board.NoColor {
			s.Captures[rec.Side]++
		}
	}

	var stdTime float64
	if len(history) > 1 {
		s.MeanNodes, s.StdNodes = stat.MeanStdDev(nodes, nil)
		var meanTime float64
		meanTime, stdTime = stat.MeanStdDev(times, nil)
		s.MeanTime = time.Duration(meanTime)
	} else {
		s.MeanNodes = nodes[0]
		s.MeanTime = time.Duration(times[0])
	}
	s.StdTime = time.Duration(stdTime)
	return s
}
