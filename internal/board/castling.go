package board

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// castlingFlag returns the single flag for a color and side.
func castlingFlag(c Color, kingSide bool) CastlingRights {
	switch {
	case c == White && kingSide:
		return WhiteKingSideCastle
	case c == White:
		return WhiteQueenSideCastle
	case kingSide:
		return BlackKingSideCastle
	default:
		return BlackQueenSideCastle
	}
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castlingFlag(c, kingSide) != 0
}

// Any reports whether color c keeps at least one castling right.
func (cr CastlingRights) Any(c Color) bool {
	return cr.CanCastle(c, true) || cr.CanCastle(c, false)
}

// Without returns the rights with both flags of color c removed.
func (cr CastlingRights) Without(c Color) CastlingRights {
	return cr &^ (castlingFlag(c, true) | castlingFlag(c, false))
}

// parseCastlingRights parses the castling field of a FEN string.
func parseCastlingRights(field string) (CastlingRights, bool) {
	if field == "-" {
		return NoCastling, true
	}
	if field == "" {
		return NoCastling, false
	}
	cr := NoCastling
	for i := 0; i < len(field); i++ {
		var flag CastlingRights
		switch field[i] {
		case 'K':
			flag = WhiteKingSideCastle
		case 'Q':
			flag = WhiteQueenSideCastle
		case 'k':
			flag = BlackKingSideCastle
		case 'q':
			flag = BlackQueenSideCastle
		default:
			return NoCastling, false
		}
		if cr&flag != 0 {
			return NoCastling, false
		}
		cr |= flag
	}
	return cr, true
}

// rookHome returns the corner a castling rook starts from.
func (g Geometry) rookHome(c Color, kingSide bool) Coordinates {
	col := 0
	if kingSide {
		col = g.Width() - 1
	}
	return NewCoordinates(col, g.homeRow(c))
}

// clearRookCorner drops the right tied to a rook corner when a piece leaves
// or lands on it.
func (cr CastlingRights) clearRookCorner(g Geometry, sq Coordinates) CastlingRights {
	for _, c := range []Color{White, Black} {
		for _, kingSide := range []bool{true, false} {
			if g.rookHome(c, kingSide) == sq {
				cr &^= castlingFlag(c, kingSide)
			}
		}
	}
	return cr
}
