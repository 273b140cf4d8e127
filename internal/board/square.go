// Package board implements an orthodox chess rules engine: placement,
// per-piece move generation, attack detection and move legality.
package board

import (
	"fmt"
	"strings"
)

// Coordinates identifies a square by zero-based column and row.
// Row 0 is White's home rank.
type Coordinates struct {
	Col int8
	Row int8
}

// NoSquare marks the absence of a square (e.g. no en passant target).
var NoSquare = Coordinates{Col: -1, Row: -1}

// NewCoordinates creates coordinates from a column and row index.
func NewCoordinates(col, row int) Coordinates {
	return Coordinates{Col: int8(col), Row: int8(row)}
}

// Offset returns the coordinates shifted by dc columns and dr rows.
// The result may lie off the board.
func (c Coordinates) Offset(dc, dr int) Coordinates {
	return Coordinates{Col: c.Col + int8(dc), Row: c.Row + int8(dr)}
}

// Ints returns the column and row as ints.
func (c Coordinates) Ints() (int, int) {
	return int(c.Col), int(c.Row)
}

// String formats the coordinates on the standard 8x8 alphabets.
func (c Coordinates) String() string {
	return Standard.Format(c)
}

// Geometry holds the column and row alphabets of a board. The number of
// characters in each alphabet is the board's width and height.
type Geometry struct {
	Columns string
	Rows    string
}

// Standard is the 8x8 orthodox geometry.
var Standard = Geometry{Columns: "abcdefgh", Rows: "12345678"}

const (
	minSide = 4
	maxSide = 9 // FEN empty-square runs are single digits
)

// NewGeometry validates a pair of alphabets.
func NewGeometry(columns, rows string) (Geometry, error) {
	g := Geometry{Columns: columns, Rows: rows}
	for _, alpha := range []string{columns, rows} {
		if len(alpha) < minSide || len(alpha) > maxSide {
			return Geometry{}, fmt.Errorf("alphabet %q: need %d to %d characters", alpha, minSide, maxSide)
		}
		for i := 0; i < len(alpha); i++ {
			ch := alpha[i]
			if ch <= ' ' || ch > '~' || ch == '/' || ch == '-' {
				return Geometry{}, fmt.Errorf("alphabet %q: invalid character %q", alpha, ch)
			}
			if strings.IndexByte(alpha[i+1:], ch) >= 0 {
				return Geometry{}, fmt.Errorf("alphabet %q: duplicate character %q", alpha, ch)
			}
		}
	}
	return g, nil
}

// Width returns the number of columns.
func (g Geometry) Width() int { return len(g.Columns) }

// Height returns the number of rows.
func (g Geometry) Height() int { return len(g.Rows) }

// Contains reports whether c lies on the board.
func (g Geometry) Contains(c Coordinates) bool {
	return c.Col >= 0 && int(c.Col) < g.Width() && c.Row >= 0 && int(c.Row) < g.Height()
}

// FromChars converts a column and row character into coordinates.
func (g Geometry) FromChars(col, row byte) (Coordinates, error) {
	ci := strings.IndexByte(g.Columns, col)
	ri := strings.IndexByte(g.Rows, row)
	if ci < 0 || ri < 0 {
		return NoSquare, fmt.Errorf("%w: %c%c", ErrInvalidSquare, col, row)
	}
	return NewCoordinates(ci, ri), nil
}

// Parse parses a two-character square name such as "e4".
func (g Geometry) Parse(s string) (Coordinates, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return g.FromChars(s[0], s[1])
}

// Chars returns the column and row characters of c.
func (g Geometry) Chars(c Coordinates) (byte, byte, bool) {
	if !g.Contains(c) {
		return 0, 0, false
	}
	return g.Columns[c.Col], g.Rows[c.Row], true
}

// Format returns the square name of c, or "-" when c is off the board.
func (g Geometry) Format(c Coordinates) string {
	col, row, ok := g.Chars(c)
	if !ok {
		return "-"
	}
	return string([]byte{col, row})
}

// Squares lists every square, row by row starting at row 0.
func (g Geometry) Squares() []Coordinates {
	squares := make([]Coordinates, 0, g.Width()*g.Height())
	for row := 0; row < g.Height(); row++ {
		for col := 0; col < g.Width(); col++ {
			squares = append(squares, NewCoordinates(col, row))
		}
	}
	return squares
}

// homeRow returns the back rank of color c.
func (g Geometry) homeRow(c Color) int {
	if c == White {
		return 0
	}
	return g.Height() - 1
}

// pawnRow returns the row pawns of color c start on.
func (g Geometry) pawnRow(c Color) int {
	if c == White {
		return 1
	}
	return g.Height() - 2
}

// promotionRow returns the farthest row for pawns of color c.
func (g Geometry) promotionRow(c Color) int {
	return g.homeRow(c.Other())
}
