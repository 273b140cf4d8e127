package board

import "fmt"

// Move is one ply: a piece travels from From to To. Promotion names the
// piece a pawn becomes on the farthest rank. NoPieceKind and the zero
// value (Pawn) both mean no promotion, so a Move{From, To} literal is a
// plain move.
type Move struct {
	From      Coordinates
	To        Coordinates
	Promotion PieceKind
}

// NoMove represents an invalid or null move.
var NoMove = Move{From: NoSquare, To: NoSquare, Promotion: NoPieceKind}

// NewMove creates a move without promotion.
func NewMove(from, to Coordinates) Move {
	return Move{From: from, To: to, Promotion: NoPieceKind}
}

// NewPromotion creates a pawn move that promotes to promo.
func NewPromotion(from, to Coordinates, promo PieceKind) Move {
	return Move{From: from, To: to, Promotion: promo}
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Promotion.IsPromotion()
}

// String returns the coordinate form of the move on the standard geometry.
func (m Move) String() string {
	return Standard.FormatMove(m)
}

// FormatMove returns the coordinate form of m (e.g., "e2e4", "e7e8q").
func (g Geometry) FormatMove(m Move) string {
	if m == NoMove {
		return "0000"
	}
	s := g.Format(m.From) + g.Format(m.To)
	if m.IsPromotion() {
		s += string(m.Promotion.Char())
	}
	return s
}

// ParseMove parses a coordinate move such as "e2e4" or "e7e8q".
func (g Geometry) ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("%w: invalid move string %q", ErrIllegalMove, s)
	}

	from, err := g.Parse(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := g.Parse(s[2:4])
	if err != nil {
		return NoMove, err
	}

	m := NewMove(from, to)
	if len(s) == 5 {
		promo, err := ParsePromotion(s[4])
		if err != nil {
			return NoMove, err
		}
		m.Promotion = promo
	}
	return m, nil
}

// ParsePromotion converts n, b, r or q (either case) into a piece kind.
func ParsePromotion(c byte) (PieceKind, error) {
	kind := KindFromChar(c)
	if !kind.IsPromotion() {
		return NoPieceKind, fmt.Errorf("%w: invalid promotion piece %q", ErrIllegalMove, c)
	}
	return kind, nil
}
