package game

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/storage"
)

func newGame(t *testing.T, fen string) *Game {
	t.Helper()
	b, err := board.ParseFEN(board.Standard, fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	g := New("alice", board.White, b)
	if err := g.Join("bob"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	return g
}

// playMoves alternates alice (White) and bob (Black) starting with the
// side to move.
func playMoves(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, s := range moves {
		m, err := g.Geometry().ParseMove(s)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", s, err)
		}
		user := "alice"
		if g.Snapshot().SideToMove == board.Black {
			user = "bob"
		}
		if err := g.Move(user, m); err != nil {
			t.Fatalf("Move(%s, %s): %v", user, s, err)
		}
	}
}

func TestJoin(t *testing.T) {
	g := New("alice", board.Black, board.NewBoard())

	if st, _ := g.Status(); st != AwaitingOpponent {
		t.Fatalf("status = %s, want AwaitingOpponent", st)
	}
	if err := g.Join("alice"); !errors.Is(err, ErrGameFull) {
		t.Errorf("creator join error = %v, want ErrGameFull", err)
	}
	if err := g.Join("bob"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := g.Join("carol"); !errors.Is(err, ErrGameFull) {
		t.Errorf("third join error = %v, want ErrGameFull", err)
	}

	white, black := g.Players()
	if white != "bob" || black != "alice" {
		t.Errorf("players = %s, %s, want bob, alice", white, black)
	}
	if st, _ := g.Status(); st != Ongoing {
		t.Errorf("status = %s, want Ongoing", st)
	}
}

func TestMoveRules(t *testing.T) {
	g := New("alice", board.White, board.NewBoard())
	e2e4 := board.NewMove(board.NewCoordinates(4, 1), board.NewCoordinates(4, 3))

	if err := g.Move("alice", e2e4); !errors.Is(err, ErrGameNotActive) {
		t.Errorf("move before join error = %v, want ErrGameNotActive", err)
	}
	if err := g.Join("bob"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := g.Move("bob", e2e4); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("out of turn error = %v, want ErrNotYourTurn", err)
	}
	if err := g.Move("mallory", e2e4); !errors.Is(err, ErrNotAPlayer) {
		t.Errorf("stranger error = %v, want ErrNotAPlayer", err)
	}
	if err := g.Move("", e2e4); !errors.Is(err, ErrNotAPlayer) {
		t.Errorf("empty user error = %v, want ErrNotAPlayer", err)
	}
	illegal := board.NewMove(board.NewCoordinates(4, 1), board.NewCoordinates(4, 4))
	if err := g.Move("alice", illegal); !errors.Is(err, board.ErrIllegalMove) {
		t.Errorf("illegal move error = %v, want ErrIllegalMove", err)
	}
	if err := g.Move("alice", e2e4); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if err := g.Move("alice", e2e4); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("second white move error = %v, want ErrNotYourTurn", err)
	}

	if got := g.LastMove(); got != e2e4 {
		t.Errorf("LastMove = %s, want e2e4", got)
	}
}

func TestGameEnd(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		moves []string
		want  EndCondition
	}{
		{"fool's mate", board.StartFEN, []string{"f2f3", "e7e5", "g2g4", "d8h4"}, BlackCheckmatedWhite},
		{"scholar's mate", board.StartFEN, []string{"e2e4", "e7e5", "d1h5", "b8c6", "f1c4", "g8f6", "h5f7"}, WhiteCheckmatedBlack},
		{"stalemate", "7k/8/4Q3/8/8/8/8/K7 w - - 0 1", []string{"e6f7"}, Stalemate},
		{"fifty moves", "4k3/8/8/8/8/8/8/R3K3 w - - 99 80", []string{"a1a2"}, Draw},
		{"insufficient material", "4k3/8/8/8/8/8/3r4/4K3 w - - 0 1", []string{"e1d2"}, Draw},
		{"threefold repetition", board.StartFEN, []string{
			"g1f3", "g8f6", "f3g1", "f6g8",
			"g1f3", "g8f6", "f3g1", "f6g8",
		}, Draw},
		{"repetition after a double push", board.StartFEN, []string{
			"e2e4", "g8f6", "g1f3", "f6g8", "f3g1",
			"g8f6", "g1f3", "f6g8", "f3g1",
		}, Draw},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newGame(t, tc.fen)
			playMoves(t, g, tc.moves...)

			status, end := g.Status()
			if status != Finished || end != tc.want {
				t.Errorf("status = %s/%s, want Finished/%s", status, end, tc.want)
			}
			if snap := g.Snapshot(); len(snap.LegalMoves) != 0 {
				t.Errorf("finished game lists legal moves %v", snap.LegalMoves)
			}

			m := board.NewMove(board.NewCoordinates(0, 0), board.NewCoordinates(0, 1))
			if err := g.Move("alice", m); !errors.Is(err, ErrGameNotActive) {
				t.Errorf("move after end error = %v, want ErrGameNotActive", err)
			}
		})
	}
}

func TestNoEarlyEnd(t *testing.T) {
	g := newGame(t, board.StartFEN)
	playMoves(t, g, "g1f3", "g8f6", "f3g1", "f6g8", "g1f3")

	if status, end := g.Status(); status != Ongoing || end != NoEnd {
		t.Errorf("status = %s/%s after two repetitions, want Ongoing/None", status, end)
	}
}

func TestParseMoveUsesGameGeometry(t *testing.T) {
	geo, err := board.NewGeometry("ABCDEFGH", "12345678")
	if err != nil {
		t.Fatalf("NewGeometry: %v", err)
	}
	b, err := board.ParseFEN(geo, board.StartFEN)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	g := New("alice", board.White, b)

	m, err := g.ParseMove("G1F3")
	if err != nil {
		t.Fatalf("ParseMove(G1F3): %v", err)
	}
	if m.String() != "g1f3" {
		t.Errorf("ParseMove(G1F3) = %s, want g1f3", m)
	}

	tests := []struct {
		in   string
		want error
	}{
		{"g1f3", board.ErrInvalidSquare},
		{"Nf3", board.ErrIllegalMove},
		{"E7E8K", board.ErrIllegalMove},
	}
	for _, tc := range tests {
		if _, err := g.ParseMove(tc.in); !errors.Is(err, tc.want) {
			t.Errorf("ParseMove(%q) error = %v, want %v", tc.in, err, tc.want)
		}
	}
}

func TestResign(t *testing.T) {
	g := newGame(t, board.StartFEN)

	if err := g.Resign("mallory"); !errors.Is(err, ErrNotAPlayer) {
		t.Errorf("stranger resign error = %v, want ErrNotAPlayer", err)
	}
	if err := g.Resign("alice"); err != nil {
		t.Fatalf("Resign: %v", err)
	}
	status, end := g.Status()
	if status != Finished || end != WhiteResigned {
		t.Errorf("status = %s/%s, want Finished/WhiteResigned", status, end)
	}
	if end.Winner() != board.Black {
		t.Errorf("winner = %s, want Black", end.Winner())
	}
	if err := g.Resign("bob"); !errors.Is(err, ErrGameNotActive) {
		t.Errorf("second resign error = %v, want ErrGameNotActive", err)
	}
}

func TestAbort(t *testing.T) {
	g := New("alice", board.White, board.NewBoard())
	if err := g.Abort("bob"); !errors.Is(err, ErrNotAPlayer) {
		t.Errorf("stranger abort error = %v, want ErrNotAPlayer", err)
	}
	if err := g.Abort("alice"); err != nil {
		t.Fatalf("Abort: %v", err)
	}
	if err := g.Join("bob"); !errors.Is(err, ErrGameNotActive) {
		t.Errorf("join after abort error = %v, want ErrGameNotActive", err)
	}

	g = newGame(t, board.StartFEN)
	playMoves(t, g, "e2e4")
	if err := g.Abort("bob"); !errors.Is(err, ErrGameNotActive) {
		t.Errorf("abort after first move error = %v, want ErrGameNotActive", err)
	}
}

func TestSnapshot(t *testing.T) {
	g := newGame(t, board.StartFEN)
	playMoves(t, g, "e2e4", "e7e5")

	snap := g.Snapshot()
	if snap.Creator != "alice" || snap.Opponent != "bob" || snap.White != "alice" || snap.Black != "bob" {
		t.Errorf("players = %+v", snap)
	}
	if diff := cmp.Diff([]string{"e2e4", "e7e5"}, snap.Moves); diff != "" {
		t.Errorf("moves mismatch (-want +got):\n%s", diff)
	}
	if snap.FEN != "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2" {
		t.Errorf("FEN = %s", snap.FEN)
	}
	if len(snap.LegalMoves) != 29 {
		t.Errorf("got %d legal moves, want 29", len(snap.LegalMoves))
	}

	// The board copy is detached from the game.
	b := g.Board()
	if !b.ApplyMove("g1", "f3", board.NoPieceKind) {
		t.Fatalf("g1f3 rejected on copy")
	}
	if g.Snapshot().FEN != snap.FEN {
		t.Errorf("mutating the copy changed the game")
	}
}

func TestRecordRoundTrip(t *testing.T) {
	g := newGame(t, board.StartFEN)
	playMoves(t, g, "g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1")

	rec := g.Record()
	if rec.Status != "Ongoing" || rec.EndCondition != "None" || len(rec.Moves) != 7 {
		t.Fatalf("record = %+v", rec)
	}

	restored, err := FromRecord(rec)
	if err != nil {
		t.Fatalf("FromRecord: %v", err)
	}
	if diff := cmp.Diff(g.Snapshot(), restored.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}

	// Repetition history survives the round trip.
	playMoves(t, restored, "f6g8")
	if _, end := restored.Status(); end != Draw {
		t.Errorf("end = %s after third repetition, want Draw", end)
	}
}

func TestFromRecordCorrupt(t *testing.T) {
	g := newGame(t, board.StartFEN)
	playMoves(t, g, "e2e4")

	tests := []struct {
		name   string
		modify func(r *storage.GameRecord)
	}{
		{"bad id", func(r *storage.GameRecord) { r.ID = "not-a-uuid" }},
		{"bad geometry", func(r *storage.GameRecord) { r.Columns = "ab" }},
		{"bad start", func(r *storage.GameRecord) { r.StartFEN = "8/8/8 w - - 0 1" }},
		{"illegal move", func(r *storage.GameRecord) { r.Moves = []string{"e2e5"} }},
		{"fen mismatch", func(r *storage.GameRecord) { r.FEN = board.StartFEN }},
		{"bad status", func(r *storage.GameRecord) { r.Status = "Paused" }},
		{"bad end", func(r *storage.GameRecord) { r.EndCondition = "Timeout" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := g.Record()
			tc.modify(rec)
			if _, err := FromRecord(rec); !errors.Is(err, ErrCorruptRecord) {
				t.Errorf("FromRecord error = %v, want ErrCorruptRecord", err)
			}
		})
	}
}

func TestParseNames(t *testing.T) {
	for s := AwaitingOpponent; s <= Aborted; s++ {
		got, err := ParseStatus(s.String())
		if err != nil || got != s {
			t.Errorf("ParseStatus(%q) = %v, %v", s.String(), got, err)
		}
	}
	for e := NoEnd; e <= Stalemate; e++ {
		got, err := ParseEndCondition(e.String())
		if err != nil || got != e {
			t.Errorf("ParseEndCondition(%q) = %v, %v", e.String(), got, err)
		}
	}

	tests := []struct {
		in      string
		want    board.Color
		wantErr bool
	}{
		{"", board.White, false},
		{"white", board.White, false},
		{"black", board.Black, false},
		{"b", board.Black, false},
		{"red", board.NoColor, true},
	}
	for _, tc := range tests {
		got, err := ParseSide(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParseSide(%q) = %v, %v", tc.in, got, err)
		}
	}
}
