package board

// Direction tables. Rows grow towards black's side of the board.
var (
	rookDirs   = []Pos{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = []Pos{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs  = append(append([]Pos{}, rookDirs...), bishopDirs...)
	kingDirs   = queenDirs
	knightDirs = []Pos{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
)

// Move ordering scores. Every capture outranks every quiet move.
const captureBase = 1000

// MVV-LVA (Most Valuable Victim - Least Valuable Attacker) scores
// Score = victim rank * 10 - attacker rank, king is the most valuable victim.
var mvvLva = [6][6]int{
	//       P    N    B    R    Q    K  (attacker)
	/* P */ {15, 14, 14, 13, 12, 11},
	/* N */ {25, 24, 24, 23, 22, 21},
	/* B */ {35, 34, 34, 33, 32, 31},
	/* R */ {45, 44, 44, 43, 42, 41},
	/* Q */ {55, 54, 54, 53, 52, 51},
	/* K */ {95, 94, 94, 93, 92, 91},
}

// Quiet move scores by mover kind: queen ≥ rook ≥ bishop/knight ≥ pawn ≥ king.
var quietScore = [6]int{1, 3, 3, 5, 9, 0}

// pawnStartRow is the row a pawn may double-step from.
var pawnStartRow = [2]int{1, 6}

// moveGen accumulates moves for one piece, collapsing duplicate
// (destination, capture) pairs.
type moveGen struct {
	b     *Board
	p     *Piece
	moves []Move
	seen  [Size * Size][2]bool
}

func (g *moveGen) add(to Pos) {
	target := g.b.grid[to.Row][to.Col]
	capture := target != nil

	flag := 0
	if capture {
		flag = 1
	}
	if g.seen[to.index()][flag] {
		return
	}
	g.seen[to.index()][flag] = true

	m := Move{Piece: g.p, From: g.p.Pos, To: to}
	if capture {
		m.Capture = true
		m.Captured = target
		m.Score = captureBase + mvvLva[target.kind][g.p.kind]
	} else {
		m.Score = quietScore[g.p.kind]
	}
	g.moves = append(g.moves, m)
}

// GenerateMoves returns every destination reachable by p on this board.
// Destinations off the board or held by a friendly piece are never produced.
// A piece with nowhere to go yields an empty slice.
func (b *Board) GenerateMoves(p *Piece) []Move {
	g := &moveGen{b: b, p: p, moves: make([]Move, 0, 16)}

	switch p.kind {
	case King:
		g.step(kingDirs)
	case Queen:
		g.slide(queenDirs)
	case Rook:
		g.slide(rookDirs)
	case Bishop:
		g.slide(bishopDirs)
	case Knight:
		g.step(knightDirs)
	case Pawn:
		g.pawn()
	}

	return g.moves
}

// step handles leapers: every offset is a candidate on its own.
func (g *moveGen) step(dirs []Pos) {
	for _, d := range dirs {
		to := g.p.Pos.Add(d)
		if !to.InBounds() {
			continue
		}
		if target := g.b.grid[to.Row][to.Col]; target != nil && target.color == g.p.color {
			continue
		}
		g.add(to)
	}
}

// slide ray-casts along each direction, stopping at the first occupied square.
// That square is included only when it holds an enemy.
func (g *moveGen) slide(dirs []Pos) {
	for _, d := range dirs {
		for to := g.p.Pos.Add(d); to.InBounds(); to = to.Add(d) {
			target := g.b.grid[to.Row][to.Col]
			if target == nil {
				g.add(to)
				continue
			}
			if target.color != g.p.color {
				g.add(to)
			}
			break
		}
	}
}

func (g *moveGen) pawn() {
	fwd := g.p.color.Forward()
	from := g.p.Pos

	// Pushes never capture
	one := from.Add(Pos{fwd, 0})
	if g.b.IsEmpty(one) {
		g.add(one)

		two := one.Add(Pos{fwd, 0})
		if from.Row == pawnStartRow[g.p.color] && g.b.IsEmpty(two) {
			g.add(two)
		}
	}

	// Diagonal captures only onto enemies
	for _, dc := range []int{-1, 1} {
		to := from.Add(Pos{fwd, dc})
		if target := g.b.PieceAt(to); target != nil && target.color != g.p.color {
			g.add(to)
		}
	}
}

// AllMoves returns the moves of every piece of color c, pieces in board order.
func (b *Board) AllMoves(c Color) []Move {
	var moves []Move
	for _, p := range b.pieces {
		if p.color == c {
			moves = append(moves, b.GenerateMoves(p)...)
		}
	}
	return moves
}

// Mobility returns the number of moves available to color c.
func (b *Board) Mobility(c Color) int {
	n := 0
	for _, p := range b.pieces {
		if p.color == c {
			n += len(b.GenerateMoves(p))
		}
	}
	return n
}

// HasMoves returns true if color c has at least one move.
func (b *Board) HasMoves(c Color) bool {
	for _, p := range b.pieces {
		if p.color == c && len(b.GenerateMoves(p)) > 0 {
			return true
		}
	}
	return false
}
