package board

import "fmt"

// ApplyMove plays a move given as square names. It returns false, leaving
// the board unchanged, when either square does not parse or the move is not
// legal for the side to move.
func (b *Board) ApplyMove(from, to string, promotion PieceKind) bool {
	fromSq, err := b.geo.Parse(from)
	if err != nil {
		return false
	}
	toSq, err := b.geo.Parse(to)
	if err != nil {
		return false
	}
	return b.MakeMove(Move{From: fromSq, To: toSq, Promotion: promotion}) == nil
}

// MakeMove plays m for the side to move. The move must start on a piece of
// the active color and end on one of its cached destinations; a pawn
// reaching the farthest rank must name a promotion piece and any other move
// must not. On error the board is unchanged.
func (b *Board) MakeMove(m Move) error {
	if !b.geo.Contains(m.From) || !b.geo.Contains(m.To) {
		return fmt.Errorf("%w: %s is off the board", ErrIllegalMove, m)
	}
	us := b.sideToMove
	p := b.placement[m.From]
	if p.IsEmpty() || p.Color != us {
		return fmt.Errorf("%w: no %s piece on %s", ErrIllegalMove, us, b.geo.Format(m.From))
	}
	if !p.CanMoveTo(m.To) {
		return fmt.Errorf("%w: %s on %s cannot reach %s", ErrIllegalMove, p.Kind, b.geo.Format(m.From), b.geo.Format(m.To))
	}
	if b.needsPromotion(p, m.To) {
		if !m.Promotion.IsPromotion() {
			return fmt.Errorf("%w: %s needs a promotion piece", ErrIllegalMove, b.geo.FormatMove(m))
		}
	} else if m.Promotion != NoPieceKind && m.Promotion != Pawn {
		return fmt.Errorf("%w: %s cannot promote to %s", ErrIllegalMove, b.geo.FormatMove(m), m.Promotion)
	}

	captured := b.applyUnchecked(m)

	// Update half-move clock
	if p.Kind == Pawn || !captured.IsEmpty() {
		b.halfMoveClock = 0
	} else {
		b.halfMoveClock++
	}

	// Update full-move number
	if us == Black {
		b.fullMoveNumber++
	}

	b.sideToMove = us.Other()
	b.refresh()
	return nil
}

// needsPromotion reports whether p moving to sq reaches the farthest rank.
func (b *Board) needsPromotion(p Piece, sq Coordinates) bool {
	return p.Kind == Pawn && int(sq.Row) == b.geo.promotionRow(p.Color)
}

// applyUnchecked relocates pieces for m without validation and without
// switching sides or regenerating moves. It keeps the placement, king
// cache, castling rights and en passant target consistent, and returns the
// captured piece (NoPiece if none).
func (b *Board) applyUnchecked(m Move) Piece {
	p := b.placement[m.From]
	moved := p.Kind
	captured := b.placement[m.To]
	dc := int(m.To.Col) - int(m.From.Col)
	dr := int(m.To.Row) - int(m.From.Row)

	// En passant: the victim stands beside the mover, not on the target.
	if moved == Pawn && dc != 0 && captured.IsEmpty() && m.To == b.enPassant {
		victimSq := Coordinates{Col: m.To.Col, Row: m.From.Row}
		captured = b.placement[victimSq]
		b.placement[victimSq] = NoPiece
	}

	b.placement[m.From] = NoPiece
	p.Square = m.To
	p.moves = nil
	if moved == Pawn && m.Promotion.IsPromotion() {
		p.Kind = m.Promotion
	}
	b.placement[m.To] = p

	if moved == King {
		b.kingSquare[p.Color] = m.To
		b.castling = b.castling.Without(p.Color)

		// Castling: the rook hops over to the square the king crossed.
		if dc == 2 || dc == -2 {
			rookFrom := b.geo.rookHome(p.Color, dc > 0)
			rookTo := m.From.Offset(dc/2, 0)
			rook := b.placement[rookFrom]
			b.placement[rookFrom] = NoPiece
			rook.Square = rookTo
			rook.moves = nil
			b.placement[rookTo] = rook
		}
	}

	// Rook moves or captures affect castling
	b.castling = b.castling.clearRookCorner(b.geo, m.From)
	b.castling = b.castling.clearRookCorner(b.geo, m.To)

	// Set en passant square for double pawn push
	b.enPassant = NoSquare
	if moved == Pawn && (dr == 2 || dr == -2) {
		b.enPassant = Coordinates{Col: m.From.Col, Row: m.From.Row + int8(dr/2)}
	}

	return captured
}

// refresh rebuilds the derived state after the placement or side to move
// changed: the side to move's legal destinations (safety filtered), the
// opponent's destinations (unfiltered), both check flags and the FEN cache.
func (b *Board) refresh() {
	b.GeneratePossibleMoves(b.sideToMove, true)
	b.GeneratePossibleMoves(b.sideToMove.Other(), false)
	b.UpdateCheckStatus(White)
	b.UpdateCheckStatus(Black)
	b.fen = b.encodeFEN()
}
