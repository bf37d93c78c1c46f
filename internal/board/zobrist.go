package board

// Zobrist keys for board hashing, generated from a fixed seed so hashes are
// stable across runs.
var (
	zobristPiece    [2][6][Size * Size]uint64 // [Color][Kind][square]
	zobristGameOver uint64
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for c := White; c <= Black; c++ {
		for k := Pawn; k <= King; k++ {
			for sq := 0; sq < Size*Size; sq++ {
				zobristPiece[c][k][sq] = rng.next()
			}
		}
	}

	zobristGameOver = rng.next()
}

// Hash computes the Zobrist hash of the piece layout from scratch. Boards with
// the same pieces on the same squares hash equally regardless of history.
func (b *Board) Hash() uint64 {
	var hash uint64
	for _, p := range b.pieces {
		hash ^= zobristPiece[p.color][p.kind][p.Pos.index()]
	}
	if b.gameOver {
		hash ^= zobristGameOver
	}
	return hash
}
