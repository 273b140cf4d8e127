package board

// Zobrist hash keys for position hashing.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristPiece      [2][6][maxSide * maxSide]uint64 // [Color][PieceKind][row*maxSide+col]
	zobristEnPassant  [maxSide]uint64                 // One per column
	zobristCastling   [16]uint64                      // All 16 castling combinations
	zobristSideToMove uint64                          // XOR when black to move
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
	rng := newPRNG(0x98F107A2BEEF1234) // Fixed seed

	for c := White; c <= Black; c++ {
		for k := Pawn; k <= King; k++ {
			for i := range zobristPiece[c][k] {
				zobristPiece[c][k][i] = rng.next()
			}
		}
	}
	for i := range zobristEnPassant {
		zobristEnPassant[i] = rng.next()
	}
	for i := range zobristCastling {
		zobristCastling[i] = rng.next()
	}
	zobristSideToMove = rng.next()
}

// Hash returns the Zobrist key of the position: placement, side to move,
// castling rights and, when a pawn of the side to move can take there, the
// en passant column. Equal positions hash equally, which the game layer
// relies on for repetition counting.
func (b *Board) Hash() uint64 {
	var hash uint64
	for sq, p := range b.placement {
		if p.IsEmpty() {
			continue
		}
		hash ^= zobristPiece[p.Color][p.Kind][int(sq.Row)*maxSide+int(sq.Col)]
	}
	if b.sideToMove == Black {
		hash ^= zobristSideToMove
	}
	hash ^= zobristCastling[b.castling]
	if b.enPassantCapturable() {
		hash ^= zobristEnPassant[b.enPassant.Col]
	}
	return hash
}

// enPassantCapturable reports whether a pawn of the side to move stands
// beside the en passant victim.
func (b *Board) enPassantCapturable() bool {
	if !b.geo.Contains(b.enPassant) {
		return false
	}
	row := int(b.enPassant.Row) - b.sideToMove.forward()
	for _, dc := range [2]int{-1, 1} {
		sq := NewCoordinates(int(b.enPassant.Col)+dc, row)
		if !b.geo.Contains(sq) {
			continue
		}
		p := b.placement[sq]
		if p.Kind == Pawn && p.Color == b.sideToMove && b.isEnPassantCapture(p, b.enPassant) {
			return true
		}
	}
	return false
}
