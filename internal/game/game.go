// Package game runs two-player games on top of the rules engine: seating,
// turn order, game end detection and persistence.
package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/storage"
)

// Draw thresholds
const (
	fiftyMoveLimit  = 100 // half-moves without pawn move or capture
	repetitionLimit = 3
)

// Game is one game between two users. All methods are safe for concurrent
// use: mutations take the write lock, queries the read lock.
type Game struct {
	mu sync.RWMutex

	// persistMu serialises mutate-then-save sequences in the Manager so a
	// stale record never overwrites a newer one.
	persistMu sync.Mutex

	id        uuid.UUID
	creator   string
	opponent  string
	white     string
	black     string
	status    Status
	end       EndCondition
	board     *board.Board
	startFEN  string
	moves     []board.Move
	seen      map[uint64]int
	createdAt time.Time
}

// Snapshot is a consistent copy of a game's public state.
type Snapshot struct {
	ID           uuid.UUID
	Creator      string
	Opponent     string
	White        string
	Black        string
	Status       Status
	EndCondition EndCondition
	FEN          string
	SideToMove   board.Color
	InCheck      bool
	Moves        []string
	LegalMoves   []string
	CreatedAt    time.Time
}

// New creates a game on b, awaiting an opponent, with creator seated on
// color. The game takes ownership of b.
func New(creator string, color board.Color, b *board.Board) *Game {
	g := &Game{
		id:        uuid.New(),
		creator:   creator,
		status:    AwaitingOpponent,
		board:     b,
		startFEN:  b.FEN(),
		seen:      map[uint64]int{b.Hash(): 1},
		createdAt: time.Now(),
	}
	if color == board.Black {
		g.black = creator
	} else {
		g.white = creator
	}
	return g
}

// ID returns the game's identifier.
func (g *Game) ID() uuid.UUID {
	return g.id
}

// Join seats user on the free color and starts the game.
func (g *Game) Join(user string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != AwaitingOpponent {
		if g.status == Ongoing {
			return ErrGameFull
		}
		return fmt.Errorf("%w: %s", ErrGameNotActive, g.status)
	}
	if user == g.creator {
		return fmt.Errorf("%w: %s created this game", ErrGameFull, user)
	}

	g.opponent = user
	if g.white == "" {
		g.white = user
	} else {
		g.black = user
	}
	g.status = Ongoing
	return nil
}

// colorOf returns the color user plays. Must hold g.mu.
func (g *Game) colorOf(user string) (board.Color, error) {
	switch user {
	case "":
	case g.white:
		return board.White, nil
	case g.black:
		return board.Black, nil
	}
	return board.NoColor, fmt.Errorf("%w: %q", ErrNotAPlayer, user)
}

// Move plays m for user. The game must be in progress and it must be
// user's turn. After the move the position is classified and the game
// finishes on checkmate, stalemate or a draw.
func (g *Game) Move(user string, m board.Move) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != Ongoing {
		return fmt.Errorf("%w: %s", ErrGameNotActive, g.status)
	}
	color, err := g.colorOf(user)
	if err != nil {
		return err
	}
	if color != g.board.SideToMove() {
		return fmt.Errorf("%w: %s to move", ErrNotYourTurn, g.board.SideToMove())
	}
	if err := g.board.MakeMove(m); err != nil {
		return err
	}

	g.moves = append(g.moves, m)
	g.seen[g.board.Hash()]++
	g.classify()
	return nil
}

// classify finishes the game if the side to move is mated, stalemated, or
// the position is drawn. Must hold g.mu.
func (g *Game) classify() {
	us := g.board.SideToMove()

	switch {
	case !g.board.HasLegalMoves():
		switch {
		case !g.board.InCheck(us):
			g.end = Stalemate
		case us == board.White:
			g.end = BlackCheckmatedWhite
		default:
			g.end = WhiteCheckmatedBlack
		}
	case g.board.HalfMoveClock() >= fiftyMoveLimit,
		g.board.IsInsufficientMaterial(),
		g.seen[g.board.Hash()] >= repetitionLimit:
		g.end = Draw
	default:
		return
	}
	g.status = Finished
}

// Resign ends an ongoing game in favour of user's opponent.
func (g *Game) Resign(user string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != Ongoing {
		return fmt.Errorf("%w: %s", ErrGameNotActive, g.status)
	}
	color, err := g.colorOf(user)
	if err != nil {
		return err
	}
	if color == board.White {
		g.end = WhiteResigned
	} else {
		g.end = BlackResigned
	}
	g.status = Finished
	return nil
}

// Abort cancels a game before any move was played.
func (g *Game) Abort(user string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if (g.status != AwaitingOpponent && g.status != Ongoing) || len(g.moves) > 0 {
		return fmt.Errorf("%w: cannot abort once play started", ErrGameNotActive)
	}
	if _, err := g.colorOf(user); err != nil {
		return err
	}
	g.status = Aborted
	return nil
}

// Status returns the lifecycle stage and end condition.
func (g *Game) Status() (Status, EndCondition) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.status, g.end
}

// Board returns a copy of the current position.
func (g *Game) Board() *board.Board {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.board.Clone()
}

// LastMove returns the most recent move, or NoMove before the first.
func (g *Game) LastMove() board.Move {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if len(g.moves) == 0 {
		return board.NoMove
	}
	return g.moves[len(g.moves)-1]
}

// ParseMove reads a move in coordinate form ("e2e4", "e7e8q") on the
// game's board geometry.
func (g *Game) ParseMove(s string) (board.Move, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.board.Geometry().ParseMove(s)
}

// Geometry returns the board geometry the game is played on.
func (g *Game) Geometry() board.Geometry {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.board.Geometry()
}

// Players returns the users seated on White and Black. An empty name
// marks a free seat.
func (g *Game) Players() (white, black string) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.white, g.black
}

// Snapshot returns a consistent copy of the game's state.
func (g *Game) Snapshot() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	geo := g.board.Geometry()
	s := Snapshot{
		ID:           g.id,
		Creator:      g.creator,
		Opponent:     g.opponent,
		White:        g.white,
		Black:        g.black,
		Status:       g.status,
		EndCondition: g.end,
		FEN:          g.board.FEN(),
		SideToMove:   g.board.SideToMove(),
		InCheck:      g.board.InCheck(g.board.SideToMove()),
		Moves:        make([]string, 0, len(g.moves)),
		CreatedAt:    g.createdAt,
	}
	for _, m := range g.moves {
		s.Moves = append(s.Moves, geo.FormatMove(m))
	}
	if g.status == Ongoing || g.status == AwaitingOpponent {
		for _, m := range g.board.LegalMoveList() {
			s.LegalMoves = append(s.LegalMoves, geo.FormatMove(m))
		}
	}
	return s
}

// Record returns the persisted form of the game.
func (g *Game) Record() *storage.GameRecord {
	g.mu.RLock()
	defer g.mu.RUnlock()

	geo := g.board.Geometry()
	rec := &storage.GameRecord{
		ID:           g.id.String(),
		Columns:      geo.Columns,
		Rows:         geo.Rows,
		StartFEN:     g.startFEN,
		FEN:          g.board.FEN(),
		Moves:        make([]string, 0, len(g.moves)),
		Creator:      g.creator,
		Opponent:     g.opponent,
		WhiteID:      g.white,
		BlackID:      g.black,
		Status:       g.status.String(),
		EndCondition: g.end.String(),
		CreatedAt:    g.createdAt,
	}
	for _, m := range g.moves {
		rec.Moves = append(rec.Moves, geo.FormatMove(m))
	}
	return rec
}

// FromRecord rebuilds a game by replaying rec's moves from its start
// position.
func FromRecord(rec *storage.GameRecord) (*Game, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: id: %v", ErrCorruptRecord, err)
	}
	geo, err := board.NewGeometry(rec.Columns, rec.Rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	b, err := board.ParseFEN(geo, rec.StartFEN)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	status, err := ParseStatus(rec.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	end, err := ParseEndCondition(rec.EndCondition)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}

	g := &Game{
		id:        id,
		creator:   rec.Creator,
		opponent:  rec.Opponent,
		white:     rec.WhiteID,
		black:     rec.BlackID,
		board:     b,
		startFEN:  rec.StartFEN,
		seen:      map[uint64]int{b.Hash(): 1},
		createdAt: rec.CreatedAt,
	}
	for i, s := range rec.Moves {
		m, err := geo.ParseMove(s)
		if err != nil {
			return nil, fmt.Errorf("%w: move %d: %v", ErrCorruptRecord, i+1, err)
		}
		if err := b.MakeMove(m); err != nil {
			return nil, fmt.Errorf("%w: move %d: %v", ErrCorruptRecord, i+1, err)
		}
		g.moves = append(g.moves, m)
		g.seen[b.Hash()]++
	}
	if b.FEN() != rec.FEN {
		return nil, fmt.Errorf("%w: replay reached %q, record says %q", ErrCorruptRecord, b.FEN(), rec.FEN)
	}

	g.status = status
	g.end = end
	return g, nil
}
