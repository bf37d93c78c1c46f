package engine

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"
)

// noTrace marks a node that is not recorded.
const noTrace = -1

type traceNode struct {
	parent     int
	label      string
	score      float64
	maximizing bool
	cutoff     bool
	done       bool
}

// Tracer records the nodes visited by a search so the tree can be exported
// as a Graphviz DOT graph. Recording stops after maxNodes nodes.
type Tracer struct {
	mu       sync.Mutex
	nodes    []traceNode
	maxNodes int
	dropped  int
}

// NewTracer creates a tracer that keeps at most maxNodes nodes.
func NewTracer(maxNodes int) *Tracer {
	return &Tracer{maxNodes: maxNodes}
}

// enter records a node below parent and returns its id, or noTrace once the
// limit is reached. Children of an unrecorded node are not recorded either.
func (t *Tracer) enter(parent int, label string, maximizing bool) int {
	if t == nil {
		return noTrace
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if (parent == noTrace && len(t.nodes) > 0) || len(t.nodes) >= t.maxNodes {
		t.dropped++
		return noTrace
	}
	t.nodes = append(t.nodes, traceNode{parent: parent, label: label, maximizing: maximizing})
	return len(t.nodes) - 1
}

func (t *Tracer) leave(id int, score float64, cutoff bool) {
	if t == nil || id == noTrace {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	n := &t.nodes[id]
	n.score = score
	n.cutoff = cutoff
	n.done = true
}

// Len returns the number of recorded nodes.
func (t *Tracer) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.nodes)
}

// Dropped returns the number of nodes visited but not recorded.
func (t *Tracer) Dropped() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dropped
}

// Reset forgets every recorded node.
func (t *Tracer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nodes = t.nodes[:0]
	t.dropped = 0
}

// Graph builds the recorded tree. Max nodes are boxes, min nodes ellipses,
// nodes that caused a cutoff are drawn in red.
func (t *Tracer) Graph() (*gographviz.Graph, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	g := gographviz.NewGraph()
	if err := g.SetName("search"); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := g.SetDir(true); err != nil {
		return nil, errors.WithStack(err)
	}

	for id, n := range t.nodes {
		label := n.label
		if n.done {
			label += "\n" + formatScore(n.score)
		}
		attrs := map[string]string{
			"label": strconv.Quote(label),
			"shape": "ellipse",
		}
		if n.maximizing {
			attrs["shape"] = "box"
		}
		if n.cutoff {
			attrs["color"] = "red"
		}
		if err := g.AddNode("search", nodeName(id), attrs); err != nil {
			return nil, errors.Wrapf(err, "add node %d", id)
		}
		if n.parent != noTrace {
			if err := g.AddEdge(nodeName(n.parent), nodeName(id), true, nil); err != nil {
				return nil, errors.Wrapf(err, "add edge %d -> %d", n.parent, id)
			}
		}
	}
	return g, nil
}

// DOT returns the recorded tree in Graphviz DOT format.
func (t *Tracer) DOT() (string, error) {
	g, err := t.Graph()
	if err != nil {
		return "", err
	}
	return g.String(), nil
}

// WriteFile writes the DOT output to path.
func (t *Tracer) WriteFile(path string) error {
	dot, err := t.DOT()
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(path, []byte(dot), 0o644), "write trace")
}

func nodeName(id int) string {
	return "n" + strconv.Itoa(id)
}

func formatScore(score float64) string {
	return fmt.Sprintf("%g", score)
}
