package board

import "slices"

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// Char returns the FEN active-color character.
func (c Color) Char() byte {
	if c == Black {
		return 'b'
	}
	return 'w'
}

// forward returns the row direction pawns of this color advance in.
func (c Color) forward() int {
	if c == White {
		return 1
	}
	return -1
}

// PieceKind represents the type of a chess piece.
type PieceKind uint8

const (
	Pawn PieceKind = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceKind PieceKind = 6
)

// String returns the piece kind name.
func (k PieceKind) String() string {
	switch k {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the FEN character for the piece kind (lowercase).
func (k PieceKind) Char() byte {
	chars := []byte{'p', 'n', 'b', 'r', 'q', 'k', ' '}
	if k > NoPieceKind {
		return ' '
	}
	return chars[k]
}

// IsPromotion reports whether a pawn may promote to k.
func (k PieceKind) IsPromotion() bool {
	return k == Knight || k == Bishop || k == Rook || k == Queen
}

// KindFromChar converts a lowercase or uppercase letter into a piece kind.
func KindFromChar(c byte) PieceKind {
	switch c | 0x20 {
	case 'p':
		return Pawn
	case 'n':
		return Knight
	case 'b':
		return Bishop
	case 'r':
		return Rook
	case 'q':
		return Queen
	case 'k':
		return King
	default:
		return NoPieceKind
	}
}

// Piece is one man on the board: its kind, color, location and the
// destinations cached by the last move generation.
type Piece struct {
	Kind   PieceKind
	Color  Color
	Square Coordinates
	moves  []Coordinates
}

// NoPiece occupies every empty square.
var NoPiece = Piece{Kind: NoPieceKind, Color: NoColor, Square: NoSquare}

// NewPiece creates a piece with no cached destinations.
func NewPiece(kind PieceKind, c Color, sq Coordinates) Piece {
	if kind >= NoPieceKind || c >= NoColor {
		return NoPiece
	}
	return Piece{Kind: kind, Color: c, Square: sq}
}

// PieceFromSymbol converts a FEN character into a piece placed on sq.
func PieceFromSymbol(symbol byte, sq Coordinates) Piece {
	kind := KindFromChar(symbol)
	if kind == NoPieceKind {
		return NoPiece
	}
	c := Black
	if symbol >= 'A' && symbol <= 'Z' {
		c = White
	}
	return NewPiece(kind, c, sq)
}

// IsEmpty reports whether p stands for an empty square.
func (p Piece) IsEmpty() bool {
	return p.Kind >= NoPieceKind
}

// Symbol returns the FEN character: uppercase for White, lowercase for Black.
func (p Piece) Symbol() byte {
	if p.IsEmpty() {
		return ' '
	}
	ch := p.Kind.Char()
	if p.Color == White {
		ch -= 'a' - 'A'
	}
	return ch
}

// String returns the FEN character for the piece.
func (p Piece) String() string {
	return string(p.Symbol())
}

// Moves returns a copy of the cached destinations.
func (p Piece) Moves() []Coordinates {
	return slices.Clone(p.moves)
}

// CanMoveTo reports whether sq is among the cached destinations.
func (p Piece) CanMoveTo(sq Coordinates) bool {
	return slices.Contains(p.moves, sq)
}
