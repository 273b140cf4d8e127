package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN builds a Board of the given geometry from a FEN string. The
// string must hold exactly six fields separated by single spaces, with no
// leading or trailing blanks. Errors
// wrap ErrMalformedFEN, or ErrInvariantViolation for a well-formed FEN
// describing an impossible position; no board is returned on error.
func ParseFEN(geo Geometry, fen string) (*Board, error) {
	fields := strings.Split(fen, " ")
	if len(fields) != 6 {
		return nil, fmt.Errorf("%w: need 6 fields, got %d", ErrMalformedFEN, len(fields))
	}

	b := newBoard(geo)

	// Parse piece placement (field 0)
	if err := b.parsePlacement(fields[0]); err != nil {
		return nil, err
	}

	// Parse side to move (field 1)
	switch fields[1] {
	case "w":
		b.sideToMove = White
	case "b":
		b.sideToMove = Black
	default:
		return nil, fmt.Errorf("%w: invalid side to move %q", ErrMalformedFEN, fields[1])
	}

	// Parse castling rights (field 2)
	cr, ok := parseCastlingRights(fields[2])
	if !ok {
		return nil, fmt.Errorf("%w: invalid castling rights %q", ErrMalformedFEN, fields[2])
	}
	b.castling = cr

	// Parse en passant square (field 3)
	if fields[3] != "-" {
		sq, err := geo.Parse(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid en passant square %q", ErrMalformedFEN, fields[3])
		}
		b.enPassant = sq
	}

	// Parse half-move clock and full-move number (fields 4, 5)
	hmc, err := strconv.Atoi(fields[4])
	if err != nil || hmc < 0 {
		return nil, fmt.Errorf("%w: invalid half-move clock %q", ErrMalformedFEN, fields[4])
	}
	b.halfMoveClock = hmc

	fmn, err := strconv.Atoi(fields[5])
	if err != nil || fmn < 1 {
		return nil, fmt.Errorf("%w: invalid full-move number %q", ErrMalformedFEN, fields[5])
	}
	b.fullMoveNumber = fmn

	b.findKings()
	if err := b.Validate(); err != nil {
		return nil, err
	}

	b.refresh()
	return b, nil
}

// parsePlacement parses the piece placement field. FEN lists the top row
// first; rows are stored bottom-up.
func (b *Board) parsePlacement(placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != b.geo.Height() {
		return fmt.Errorf("%w: need %d ranks, got %d", ErrMalformedFEN, b.geo.Height(), len(ranks))
	}

	for i, rankStr := range ranks {
		row := b.geo.Height() - 1 - i
		col := 0

		for j := 0; j < len(rankStr); j++ {
			c := rankStr[j]
			if c >= '1' && c <= '9' {
				col += int(c - '0')
			} else {
				piece := PieceFromSymbol(c, NewCoordinates(col, row))
				if piece.IsEmpty() {
					return fmt.Errorf("%w: invalid piece character %q", ErrMalformedFEN, c)
				}
				if col < b.geo.Width() {
					b.placement[piece.Square] = piece
				}
				col++
			}
			if col > b.geo.Width() {
				return fmt.Errorf("%w: too many squares in rank %c", ErrMalformedFEN, b.geo.Rows[row])
			}
		}

		if col != b.geo.Width() {
			return fmt.Errorf("%w: rank %c has %d squares, want %d", ErrMalformedFEN, b.geo.Rows[row], col, b.geo.Width())
		}
	}

	return nil
}

// encodeFEN serializes the position.
func (b *Board) encodeFEN() string {
	var sb strings.Builder

	// Piece placement
	for row := b.geo.Height() - 1; row >= 0; row-- {
		empty := 0
		for col := 0; col < b.geo.Width(); col++ {
			piece := b.placement[NewCoordinates(col, row)]
			if piece.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(piece.Symbol())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row > 0 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(' ')
	sb.WriteByte(b.sideToMove.Char())

	// Castling rights
	sb.WriteByte(' ')
	sb.WriteString(b.castling.String())

	// En passant
	sb.WriteByte(' ')
	sb.WriteString(b.geo.Format(b.enPassant))

	// Half-move clock and full-move number
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.halfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.fullMoveNumber))

	return sb.String()
}

// Placement returns the placement field of the FEN.
func (b *Board) Placement() string {
	placement, _, _ := strings.Cut(b.fen, " ")
	return placement
}
