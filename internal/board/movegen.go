package board

import "slices"

// PieceMoves pairs a piece with its legal destinations.
type PieceMoves struct {
	Piece        Piece
	Destinations []Coordinates
}

// MoveTable maps every occupied square to its piece and destinations.
type MoveTable map[Coordinates]PieceMoves

// GeneratePossibleMoves recomputes the cached destinations of every piece
// of color c. With validateKingSafety set, a destination survives only if
// playing it leaves c's king unattacked; the opponent's attack sets are
// computed unfiltered, so the two never recurse into each other.
func (b *Board) GeneratePossibleMoves(c Color, validateKingSafety bool) {
	for _, sq := range b.geo.Squares() {
		p := b.placement[sq]
		if p.IsEmpty() || p.Color != c {
			continue
		}
		dests := p.destinations(b, false)
		if validateKingSafety {
			dests = b.filterKingSafe(p, dests)
		}
		p.moves = dests
		b.placement[sq] = p
	}
}

// filterKingSafe drops destinations that leave p's own king attacked. Each
// candidate is played on a private copy through the unchecked path.
func (b *Board) filterKingSafe(p Piece, dests []Coordinates) []Coordinates {
	safe := make([]Coordinates, 0, len(dests))
	for _, to := range dests {
		sim := b.probe()
		sim.applyUnchecked(NewMove(p.Square, to))
		if !sim.IsSquareAttacked(sim.kingSquare[p.Color], p.Color.Other()) {
			safe = append(safe, to)
		}
	}
	return safe
}

// castleDestinations returns the king landing squares of color c's legal
// castles: the king is not in check, the right is held, the home rook is in
// place, every square between king and rook is empty, and neither the
// square the king crosses nor the one it lands on is attacked.
func (b *Board) castleDestinations(c Color) []Coordinates {
	if !b.castling.Any(c) {
		return nil
	}
	king := b.kingSquare[c]
	if !b.geo.Contains(king) || int(king.Row) != b.geo.homeRow(c) {
		return nil
	}
	them := c.Other()
	if b.IsSquareAttacked(king, them) {
		return nil
	}

	var dests []Coordinates
	for _, kingSide := range []bool{true, false} {
		if !b.castling.CanCastle(c, kingSide) {
			continue
		}
		rookSq := b.geo.rookHome(c, kingSide)
		if rook := b.placement[rookSq]; rook.Kind != Rook || rook.Color != c {
			continue
		}
		dir := 1
		if !kingSide {
			dir = -1
		}
		if (int(rookSq.Col)-int(king.Col))*dir < 3 {
			continue
		}

		blocked := false
		for sq := king.Offset(dir, 0); sq != rookSq; sq = sq.Offset(dir, 0) {
			if !b.IsSquareFree(sq) {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}

		transit := king.Offset(dir, 0)
		landing := king.Offset(2*dir, 0)
		if b.IsSquareAttacked(transit, them) || b.IsSquareAttacked(landing, them) {
			continue
		}
		dests = append(dests, landing)
	}
	return dests
}

// LegalMoves returns the cached destinations of every piece.
//
// Only the side to move's destinations are safety filtered; the opponent's
// are the unfiltered sets computed after the last move.
func (b *Board) LegalMoves() MoveTable {
	table := make(MoveTable)
	for sq, p := range b.placement {
		if p.IsEmpty() {
			continue
		}
		table[sq] = PieceMoves{Piece: p.withoutMoves(), Destinations: p.Moves()}
	}
	return table
}

// ActiveLegalMoves returns the side to move's legal destinations. Opponent
// pieces are present with an empty destination list.
func (b *Board) ActiveLegalMoves() MoveTable {
	table := make(MoveTable)
	for sq, p := range b.placement {
		if p.IsEmpty() {
			continue
		}
		dests := []Coordinates{}
		if p.Color == b.sideToMove {
			dests = p.Moves()
		}
		table[sq] = PieceMoves{Piece: p.withoutMoves(), Destinations: dests}
	}
	return table
}

// withoutMoves strips the cached destinations from a piece copy.
func (p Piece) withoutMoves() Piece {
	p.moves = nil
	return p
}

// LegalMoveList expands the side to move's destinations into moves, one per
// promotion choice where a pawn reaches the farthest rank. Moves are listed
// in square order.
func (b *Board) LegalMoveList() []Move {
	var moves []Move
	for _, sq := range b.geo.Squares() {
		p := b.placement[sq]
		if p.IsEmpty() || p.Color != b.sideToMove {
			continue
		}
		for _, to := range p.moves {
			if b.needsPromotion(p, to) {
				for _, promo := range []PieceKind{Queen, Rook, Bishop, Knight} {
					moves = append(moves, NewPromotion(sq, to, promo))
				}
				continue
			}
			moves = append(moves, NewMove(sq, to))
		}
	}
	return moves
}

// HasLegalMoves returns true if the side to move has any legal move.
func (b *Board) HasLegalMoves() bool {
	for _, p := range b.placement {
		if !p.IsEmpty() && p.Color == b.sideToMove && len(p.moves) > 0 {
			return true
		}
	}
	return false
}

// Perft counts the leaf nodes of the legal move tree at the given depth.
func (b *Board) Perft(depth int) int64 {
	if depth <= 0 {
		return 1
	}

	moves := b.LegalMoveList()
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for _, m := range moves {
		child := b.Clone()
		if err := child.MakeMove(m); err != nil {
			continue
		}
		nodes += child.Perft(depth - 1)
	}
	return nodes
}

// SortSquares orders squares row by row, as Geometry.Squares does.
func SortSquares(squares []Coordinates) {
	slices.SortFunc(squares, func(a, b Coordinates) int {
		if a.Row != b.Row {
			return int(a.Row) - int(b.Row)
		}
		return int(a.Col) - int(b.Col)
	})
}
