package board

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// destinationNames returns the sorted destination names of the piece on sq.
func destinationNames(t *testing.T, b *Board, sq string) []string {
	t.Helper()
	from, err := b.Geometry().Parse(sq)
	if err != nil {
		t.Fatalf("Parse(%q): %v", sq, err)
	}
	dests := b.PieceAt(from).Moves()
	SortSquares(dests)
	names := make([]string, 0, len(dests))
	for _, d := range dests {
		names = append(names, b.Geometry().Format(d))
	}
	return names
}

func TestStartPositionMoves(t *testing.T) {
	b := NewBoard()

	moves := b.LegalMoveList()
	if len(moves) != 20 {
		t.Fatalf("start position has %d legal moves, want 20", len(moves))
	}

	var pawnMoves, knightMoves int
	for _, m := range moves {
		switch b.PieceAt(m.From).Kind {
		case Pawn:
			pawnMoves++
		case Knight:
			knightMoves++
		default:
			t.Errorf("unexpected mover for %s", m)
		}
	}
	if pawnMoves != 16 || knightMoves != 4 {
		t.Errorf("pawn moves = %d, knight moves = %d, want 16 and 4", pawnMoves, knightMoves)
	}
}

func TestLonePawnAndKing(t *testing.T) {
	b := mustParseFEN(t, "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")

	if diff := cmp.Diff([]string{"e3", "e4"}, destinationNames(t, b, "e2")); diff != "" {
		t.Errorf("pawn destinations mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"d1", "f1", "d2", "f2"}, destinationNames(t, b, "e1")); diff != "" {
		t.Errorf("king destinations mismatch (-want +got):\n%s", diff)
	}
}

func TestKingNeverApproachesKing(t *testing.T) {
	b := mustParseFEN(t, "8/8/8/3k4/8/3K4/8/8 w - - 0 1")

	// c4, d4, e4 touch the black king on d5.
	want := []string{"c2", "d2", "e2", "c3", "e3"}
	if diff := cmp.Diff(want, destinationNames(t, b, "d3")); diff != "" {
		t.Errorf("king destinations mismatch (-want +got):\n%s", diff)
	}
}

func TestKnightJumpsOverPieces(t *testing.T) {
	b := mustParseFEN(t, "4k3/8/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1")

	if diff := cmp.Diff([]string{"a3", "c3"}, destinationNames(t, b, "b1")); diff != "" {
		t.Errorf("knight destinations mismatch (-want +got):\n%s", diff)
	}
}

func TestSlidingRays(t *testing.T) {
	// Rook on d4: own pawn on d6 stops the ray before it, black knight on
	// g4 stops it after the capture.
	b := mustParseFEN(t, "4k3/8/3P4/8/3R2n1/8/8/4K3 w - - 0 1")

	want := []string{"d1", "d2", "d3", "a4", "b4", "c4", "e4", "f4", "g4", "d5"}
	if diff := cmp.Diff(want, destinationNames(t, b, "d4")); diff != "" {
		t.Errorf("rook destinations mismatch (-want +got):\n%s", diff)
	}
}

func TestPinnedPieceCannotMove(t *testing.T) {
	b := mustParseFEN(t, "4r1k1/8/8/8/8/8/4B3/4K3 w - - 0 1")

	if got := destinationNames(t, b, "e2"); len(got) != 0 {
		t.Errorf("pinned bishop has destinations %v", got)
	}
}

func TestCheckMustBeAnswered(t *testing.T) {
	b := mustParseFEN(t, "4k3/8/8/8/8/8/3P1P2/r3K3 w - - 0 1")

	if !b.InCheck(White) {
		t.Fatalf("white should be in check")
	}
	if b.InCheck(Black) {
		t.Errorf("black should not be in check")
	}

	var got []string
	for _, m := range b.LegalMoveList() {
		got = append(got, m.String())
	}
	if diff := cmp.Diff([]string{"e1e2"}, got); diff != "" {
		t.Errorf("legal moves mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckmatePosition(t *testing.T) {
	// Back rank mate: black is in check and has no legal move.
	b := mustParseFEN(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if !b.InCheck(Black) {
		t.Errorf("black should be in check")
	}
	if b.HasLegalMoves() {
		t.Errorf("black should have no legal moves, got %v", b.LegalMoveList())
	}

	// The king can capture the undefended rook or step off its rank.
	b = mustParseFEN(t, "6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	if !b.InCheck(Black) {
		t.Errorf("black should be in check")
	}
	if diff := cmp.Diff([]string{"h7", "g8"}, destinationNames(t, b, "h8")); diff != "" {
		t.Errorf("king destinations mismatch (-want +got):\n%s", diff)
	}
}

func TestStalematePosition(t *testing.T) {
	b := mustParseFEN(t, "7k/5Q2/8/8/8/8/8/K7 b - - 0 1")
	if b.InCheck(Black) {
		t.Errorf("black should not be in check")
	}
	if b.HasLegalMoves() {
		t.Errorf("black should have no legal moves, got %v", b.LegalMoveList())
	}
}

func TestNoLegalKingMoveIsSelfCheck(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"8/8/8/3k4/8/3K4/8/8 w - - 0 1",
		"4k3/8/8/8/8/8/3PPP2/r3K3 w - - 0 1",
	}

	for _, fen := range fens {
		b := mustParseFEN(t, fen)
		us := b.SideToMove()
		for _, m := range b.LegalMoveList() {
			child := b.Clone()
			if err := child.MakeMove(m); err != nil {
				t.Fatalf("%s: legal move %s rejected: %v", fen, m, err)
			}
			if child.IsSquareAttacked(child.KingSquare(us), us.Other()) {
				t.Errorf("%s: move %s leaves the king attacked", fen, m)
			}
			if child.InCheck(us) {
				t.Errorf("%s: move %s leaves the check flag set", fen, m)
			}
		}
	}
}

func TestCastling(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want []string
	}{
		{"both sides", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", []string{"c1", "d1", "f1", "g1", "d2", "e2", "f2"}},
		{"in check", "r3k2r/8/8/8/8/8/4r3/R3K2R w KQkq - 0 1", []string{"d1", "f1", "e2"}},
		{"transit attacked", "r3k2r/8/8/8/8/8/5r2/R3K2R w KQkq - 0 1", []string{"c1", "d1", "f2"}},
		{"landing attacked", "r3k2r/8/8/8/8/8/2r5/R3K2R w KQkq - 0 1", []string{"d1", "f1", "g1"}},
		{"intervening piece", "r3k2r/8/8/8/8/8/8/RN2K1NR w KQkq - 0 1", []string{"d1", "f1", "d2", "e2", "f2"}},
		{"no rights", "r3k2r/8/8/8/8/8/8/R3K2R w kq - 0 1", []string{"d1", "f1", "d2", "e2", "f2"}},
		{"rook attacked only", "r3k2r/8/8/8/7r/8/8/R3K2R w KQkq - 0 1", []string{"c1", "d1", "f1", "g1", "d2", "e2", "f2"}},
		{"b-file attacked only", "r3k2r/8/8/8/1r6/8/8/R3K2R w KQkq - 0 1", []string{"c1", "d1", "f1", "g1", "d2", "e2", "f2"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := mustParseFEN(t, tc.fen)
			if diff := cmp.Diff(tc.want, destinationNames(t, b, "e1")); diff != "" {
				t.Errorf("king destinations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestActiveLegalMoves(t *testing.T) {
	b := NewBoard()

	active := b.ActiveLegalMoves()
	all := b.LegalMoves()
	if len(active) != 32 || len(all) != 32 {
		t.Fatalf("tables hold %d and %d pieces, want 32", len(active), len(all))
	}

	for sq, entry := range active {
		if entry.Piece.Color == Black {
			if entry.Destinations == nil || len(entry.Destinations) != 0 {
				t.Errorf("%s: black entry should be present and empty, got %v", sq, entry.Destinations)
			}
			continue
		}
		if diff := cmp.Diff(all[sq].Destinations, entry.Destinations); diff != "" {
			t.Errorf("%s: white destinations mismatch (-all +active):\n%s", sq, diff)
		}
	}

	g1 := active[NewCoordinates(6, 0)]
	if g1.Piece.Symbol() != 'N' || len(g1.Destinations) != 2 {
		t.Errorf("g1 entry = %c with %d destinations, want N with 2", g1.Piece.Symbol(), len(g1.Destinations))
	}
}

func TestAttackedSquares(t *testing.T) {
	b := mustParseFEN(t, "4k3/8/8/7p/8/8/8/K7 w - - 0 1")

	// A pawn attacks its forward diagonal, never the square it pushes to.
	for _, sq := range []string{"d8", "f7", "e7", "g4"} {
		c, _ := Standard.Parse(sq)
		if !b.IsSquareAttacked(c, Black) {
			t.Errorf("%s should be attacked by Black", sq)
		}
	}
	for _, sq := range []string{"e6", "h4"} {
		c, _ := Standard.Parse(sq)
		if b.IsSquareAttacked(c, Black) {
			t.Errorf("%s should not be attacked by Black", sq)
		}
	}
	if got := len(b.AttackedSquares(Black)); got != 6 {
		t.Errorf("Black attacks %d squares, want 6", got)
	}
}
