package board

// Direction sets, as (column, row) steps.
var (
	knightOffsets = [][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingOffsets   = [][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}
	diagonals     = [][2]int{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}
	orthogonals   = [][2]int{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}
	allDirections = append(append([][2]int{}, orthogonals...), diagonals...)
)

// destinations returns the pseudo-legal destinations of p on b.
//
// With attacksOnly set the result is p's attack set: a pawn yields both
// forward diagonals whatever stands on them and never its pushes, and a
// king yields no castling squares. Attack sets never recurse into attack
// detection, which keeps IsSquareAttacked and castling generation finite.
func (p Piece) destinations(b *Board, attacksOnly bool) []Coordinates {
	switch p.Kind {
	case Pawn:
		return p.pawnDestinations(b, attacksOnly)
	case Knight:
		return p.stepDestinations(b, knightOffsets)
	case Bishop:
		return p.rayDestinations(b, diagonals)
	case Rook:
		return p.rayDestinations(b, orthogonals)
	case Queen:
		return p.rayDestinations(b, allDirections)
	case King:
		dests := p.stepDestinations(b, kingOffsets)
		if !attacksOnly {
			dests = append(dests, b.castleDestinations(p.Color)...)
		}
		return dests
	}
	return nil
}

// pawnDestinations handles pushes, the double step from the pawn row,
// diagonal captures and en passant.
func (p Piece) pawnDestinations(b *Board, attacksOnly bool) []Coordinates {
	dir := p.Color.forward()
	var dests []Coordinates

	for _, dc := range [2]int{-1, 1} {
		sq := p.Square.Offset(dc, dir)
		if !b.geo.Contains(sq) {
			continue
		}
		if attacksOnly || b.HoldsOpposingPiece(sq, p.Color) || b.isEnPassantCapture(p, sq) {
			dests = append(dests, sq)
		}
	}
	if attacksOnly {
		return dests
	}

	one := p.Square.Offset(0, dir)
	if b.IsSquareFree(one) {
		dests = append(dests, one)
		two := one.Offset(0, dir)
		if int(p.Square.Row) == b.geo.pawnRow(p.Color) && b.IsSquareFree(two) {
			dests = append(dests, two)
		}
	}
	return dests
}

// isEnPassantCapture reports whether pawn p may capture en passant onto sq:
// sq is the current target and the pawn beside p on sq's column is an
// opposing pawn.
func (b *Board) isEnPassantCapture(p Piece, sq Coordinates) bool {
	if sq != b.enPassant || !b.IsSquareFree(sq) {
		return false
	}
	victim := b.PieceAt(Coordinates{Col: sq.Col, Row: p.Square.Row})
	return victim.Kind == Pawn && victim.Color != p.Color
}

// stepDestinations handles single-step movers: every offset is checked on
// its own and nothing in between can block.
func (p Piece) stepDestinations(b *Board, offsets [][2]int) []Coordinates {
	var dests []Coordinates
	for _, o := range offsets {
		sq := p.Square.Offset(o[0], o[1])
		if b.geo.Contains(sq) && !b.holdsColor(sq, p.Color) {
			dests = append(dests, sq)
		}
	}
	return dests
}

// rayDestinations casts a ray per direction. A ray ends at the edge, before
// a friendly piece, or on an opposing piece.
func (p Piece) rayDestinations(b *Board, dirs [][2]int) []Coordinates {
	var dests []Coordinates
	for _, d := range dirs {
		for sq := p.Square.Offset(d[0], d[1]); b.geo.Contains(sq); sq = sq.Offset(d[0], d[1]) {
			occupant := b.placement[sq]
			if occupant.IsEmpty() {
				dests = append(dests, sq)
				continue
			}
			if occupant.Color != p.Color {
				dests = append(dests, sq)
			}
			break
		}
	}
	return dests
}

// IsSquareAttacked returns true if any piece of color by attacks sq.
func (b *Board) IsSquareAttacked(sq Coordinates, by Color) bool {
	if !b.geo.Contains(sq) {
		return false
	}
	for _, p := range b.placement {
		if p.IsEmpty() || p.Color != by {
			continue
		}
		for _, d := range p.destinations(b, true) {
			if d == sq {
				return true
			}
		}
	}
	return false
}

// AttackedSquares returns every square attacked by color by, in square order.
func (b *Board) AttackedSquares(by Color) []Coordinates {
	var squares []Coordinates
	for _, sq := range b.geo.Squares() {
		if b.IsSquareAttacked(sq, by) {
			squares = append(squares, sq)
		}
	}
	return squares
}

// UpdateCheckStatus recomputes the cached check flag of color c.
func (b *Board) UpdateCheckStatus(c Color) {
	king := b.kingSquare[c]
	if !b.geo.Contains(king) {
		b.inCheck[c] = false
		return
	}
	b.inCheck[c] = b.IsSquareAttacked(king, c.Other())
}
