package board

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Board is the aggregate root of a position: the full placement, the side
// to move, castling rights, en passant target, move counters, and the
// derived state kept consistent across every mutation (king squares, check
// flags, cached destinations and the FEN string).
//
// A Board is not safe for concurrent use; callers serialize mutations.
type Board struct {
	geo Geometry

	// Every square of geo is a key; empty squares hold NoPiece.
	placement map[Coordinates]Piece

	sideToMove     Color
	castling       CastlingRights
	enPassant      Coordinates // NoSquare if none
	halfMoveClock  int
	fullMoveNumber int

	kingSquare [2]Coordinates
	inCheck    [2]bool

	fen string
}

// newBoard creates an empty board of the given geometry.
func newBoard(geo Geometry) *Board {
	b := &Board{
		geo:            geo,
		placement:      make(map[Coordinates]Piece, geo.Width()*geo.Height()),
		enPassant:      NoSquare,
		fullMoveNumber: 1,
		kingSquare:     [2]Coordinates{NoSquare, NoSquare},
	}
	for _, sq := range geo.Squares() {
		b.placement[sq] = NoPiece
	}
	return b
}

// NewBoard creates the standard starting position.
func NewBoard() *Board {
	b, err := ParseFEN(Standard, StartFEN)
	if err != nil {
		panic(err)
	}
	return b
}

// Geometry returns the board's alphabets.
func (b *Board) Geometry() Geometry { return b.geo }

// SideToMove returns the active color.
func (b *Board) SideToMove() Color { return b.sideToMove }

// CastlingRights returns the remaining castling rights.
func (b *Board) CastlingRights() CastlingRights { return b.castling }

// EnPassant returns the en passant target, or NoSquare.
func (b *Board) EnPassant() Coordinates { return b.enPassant }

// HalfMoveClock returns the plies since the last pawn move or capture.
func (b *Board) HalfMoveClock() int { return b.halfMoveClock }

// FullMoveNumber returns the full move counter, starting at 1.
func (b *Board) FullMoveNumber() int { return b.fullMoveNumber }

// KingSquare returns the cached location of color c's king.
func (b *Board) KingSquare(c Color) Coordinates { return b.kingSquare[c] }

// InCheck reports the cached check flag of color c.
func (b *Board) InCheck(c Color) bool { return b.inCheck[c] }

// FEN returns the cached FEN of the position.
func (b *Board) FEN() string { return b.fen }

// PieceAt returns the piece at sq, or NoPiece if empty or off the board.
func (b *Board) PieceAt(sq Coordinates) Piece {
	p, ok := b.placement[sq]
	if !ok {
		return NoPiece
	}
	return p
}

// IsSquareValid reports whether sq lies on the board.
func (b *Board) IsSquareValid(sq Coordinates) bool {
	return b.geo.Contains(sq)
}

// IsSquareFree reports whether sq lies on the board and is empty.
func (b *Board) IsSquareFree(sq Coordinates) bool {
	p, ok := b.placement[sq]
	return ok && p.IsEmpty()
}

// HoldsOpposingPiece reports whether sq holds a piece of the color opposing c.
func (b *Board) HoldsOpposingPiece(sq Coordinates, c Color) bool {
	p, ok := b.placement[sq]
	return ok && !p.IsEmpty() && p.Color != c
}

// holdsColor reports whether sq holds a piece of color c.
func (b *Board) holdsColor(sq Coordinates, c Color) bool {
	p, ok := b.placement[sq]
	return ok && !p.IsEmpty() && p.Color == c
}

// Pieces returns the pieces of color c in square order.
func (b *Board) Pieces(c Color) []Piece {
	var pieces []Piece
	for _, sq := range b.geo.Squares() {
		if p := b.placement[sq]; !p.IsEmpty() && p.Color == c {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

// Clone returns an independent deep copy of the board.
func (b *Board) Clone() *Board {
	c := *b
	c.placement = make(map[Coordinates]Piece, len(b.placement))
	for sq, p := range b.placement {
		p.moves = slices.Clone(p.moves)
		c.placement[sq] = p
	}
	return &c
}

// probe returns a copy for move simulation. Cached destinations are not
// carried over.
func (b *Board) probe() *Board {
	c := *b
	c.placement = maps.Clone(b.placement)
	return &c
}

// findKings locates and caches the king positions.
func (b *Board) findKings() {
	b.kingSquare = [2]Coordinates{NoSquare, NoSquare}
	for sq, p := range b.placement {
		if p.Kind == King {
			b.kingSquare[p.Color] = sq
		}
	}
}

// Validate checks the board invariants: one king per color, matching king
// caches, no pawn on a back rank, and the side not to move not in check.
func (b *Board) Validate() error {
	var kings [2]int
	for sq, p := range b.placement {
		if p.IsEmpty() {
			continue
		}
		if p.Square != sq {
			return fmt.Errorf("%w: piece %s on %s believes it stands on %s",
				ErrInvariantViolation, p, b.geo.Format(sq), b.geo.Format(p.Square))
		}
		switch p.Kind {
		case King:
			kings[p.Color]++
		case Pawn:
			if row := int(sq.Row); row == 0 || row == b.geo.Height()-1 {
				return fmt.Errorf("%w: pawn on back rank %s", ErrInvariantViolation, b.geo.Format(sq))
			}
		}
	}

	for _, c := range []Color{White, Black} {
		if kings[c] != 1 {
			return fmt.Errorf("%w: %s has %d kings", ErrInvariantViolation, c, kings[c])
		}
		if k := b.PieceAt(b.kingSquare[c]); k.Kind != King || k.Color != c {
			return fmt.Errorf("%w: %s king cached on %s", ErrInvariantViolation, c, b.geo.Format(b.kingSquare[c]))
		}
	}

	them := b.sideToMove.Other()
	if b.IsSquareAttacked(b.kingSquare[them], b.sideToMove) {
		return fmt.Errorf("%w: %s king is in check with %s to move", ErrInvariantViolation, them, b.sideToMove)
	}
	return nil
}

// IsInsufficientMaterial returns true if neither side can checkmate:
// bare kings, or a single knight or bishop against a bare king.
func (b *Board) IsInsufficientMaterial() bool {
	minors := 0
	for _, c := range []Color{White, Black} {
		for _, p := range b.Pieces(c) {
			switch p.Kind {
			case Pawn, Rook, Queen:
				return false
			case Knight, Bishop:
				minors++
			}
		}
	}
	return minors <= 1
}

// String returns a visual representation of the board.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for row := b.geo.Height() - 1; row >= 0; row-- {
		fmt.Fprintf(&sb, "%c  ", b.geo.Rows[row])
		for col := 0; col < b.geo.Width(); col++ {
			p := b.placement[NewCoordinates(col, row)]
			if p.IsEmpty() {
				sb.WriteString(". ")
			} else {
				sb.WriteString(p.String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   ")
	for col := 0; col < b.geo.Width(); col++ {
		sb.WriteByte(b.geo.Columns[col])
		sb.WriteByte(' ')
	}
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", b.sideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", b.castling)
	fmt.Fprintf(&sb, "En passant: %s\n", b.geo.Format(b.enPassant))
	fmt.Fprintf(&sb, "Half-move clock: %d\n", b.halfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", b.fullMoveNumber)
	fmt.Fprintf(&sb, "Check: white=%t black=%t\n", b.inCheck[White], b.inCheck[Black])
	return sb.String()
}
