package board

import (
	"errors"
	"strings"
	"testing"
)

func TestIsInsufficientMaterial(t *testing.T) {
	tests := []struct {
		fen  string
		want bool
	}{
		{"4k3/8/8/8/8/8/8/4K3 w - - 0 1", true},
		{"4k3/8/8/8/8/8/8/2B1K3 w - - 0 1", true},
		{"4k3/8/8/8/8/8/8/1N2K3 b - - 0 1", true},
		{"4k3/8/8/8/8/8/8/1NB1K3 w - - 0 1", false},
		{"4kb2/8/8/8/8/8/8/2B1K3 w - - 0 1", false},
		{"4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", false},
		{"4k3/8/8/8/8/8/8/R3K3 w - - 0 1", false},
		{StartFEN, false},
	}

	for _, tc := range tests {
		t.Run(tc.fen, func(t *testing.T) {
			b := mustParseFEN(t, tc.fen)
			if got := b.IsInsufficientMaterial(); got != tc.want {
				t.Errorf("IsInsufficientMaterial() = %t, want %t", got, tc.want)
			}
		})
	}
}

func TestPieces(t *testing.T) {
	b := NewBoard()
	white := b.Pieces(White)
	if len(white) != 16 {
		t.Fatalf("white has %d pieces, want 16", len(white))
	}
	if white[0].Symbol() != 'R' || white[4].Symbol() != 'K' || white[8].Symbol() != 'P' {
		t.Errorf("unexpected order: %s %s %s", white[0], white[4], white[8])
	}
	for _, p := range b.Pieces(Black) {
		if p.Color != Black {
			t.Errorf("black list holds %s", p)
		}
	}
}

func TestValidateCatchesCorruption(t *testing.T) {
	b := NewBoard()
	if err := b.Validate(); err != nil {
		t.Fatalf("start position invalid: %v", err)
	}

	// A king cache pointing at an empty square.
	c := b.Clone()
	c.kingSquare[White] = NewCoordinates(4, 3)
	if err := c.Validate(); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("stale king cache error = %v, want ErrInvariantViolation", err)
	}

	// A piece whose square disagrees with its key.
	c = b.Clone()
	p := c.placement[NewCoordinates(0, 1)]
	p.Square = NewCoordinates(0, 2)
	c.placement[NewCoordinates(0, 1)] = p
	if err := c.Validate(); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("misplaced piece error = %v, want ErrInvariantViolation", err)
	}
}

func TestBoardString(t *testing.T) {
	s := NewBoard().String()
	for _, want := range []string{
		"8  r n b q k b n r",
		"1  R N B Q K B N R",
		"   a b c d e f g h",
		"Side to move: White",
		"Castling: KQkq",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}
}
