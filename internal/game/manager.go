package game

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/storage"
)

// Store persists games and player results. *storage.Storage implements it.
type Store interface {
	SaveGame(rec *storage.GameRecord) error
	ListGames() ([]*storage.GameRecord, error)
	RecordResult(user string, outcome storage.Outcome) error
}

// Manager is the registry of live games. A nil Store keeps games in memory
// only.
type Manager struct {
	mu    sync.RWMutex
	games map[uuid.UUID]*Game

	store    Store
	geo      board.Geometry
	startFEN string
	log      zerolog.Logger
}

// NewManager creates a manager whose new games use geo and start from
// startFEN unless told otherwise.
func NewManager(store Store, geo board.Geometry, startFEN string, log zerolog.Logger) *Manager {
	return &Manager{
		games:    make(map[uuid.UUID]*Game),
		store:    store,
		geo:      geo,
		startFEN: startFEN,
		log:      log,
	}
}

// Restore loads every stored game into the registry. Records that no
// longer replay are skipped and logged. It returns the number of games
// loaded.
func (m *Manager) Restore() (int, error) {
	if m.store == nil {
		return 0, nil
	}
	records, err := m.store.ListGames()
	if err != nil {
		return 0, fmt.Errorf("list games: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var loaded int
	for _, rec := range records {
		g, err := FromRecord(rec)
		if err != nil {
			m.log.Warn().Err(err).Str("game", rec.ID).Msg("skipping stored game")
			continue
		}
		m.games[g.id] = g
		loaded++
	}
	m.log.Info().Int("games", loaded).Msg("games restored")
	return loaded, nil
}

// Create starts a game for creator on color. An empty fen uses the
// manager's start position.
func (m *Manager) Create(creator string, color board.Color, fen string) (*Game, error) {
	if creator == "" {
		return nil, fmt.Errorf("%w: empty user name", ErrNotAPlayer)
	}
	if fen == "" {
		fen = m.startFEN
	}
	b, err := board.ParseFEN(m.geo, fen)
	if err != nil {
		return nil, err
	}
	if !b.HasLegalMoves() {
		return nil, fmt.Errorf("%w: side to move has no legal moves", board.ErrInvariantViolation)
	}

	g := New(creator, color, b)
	g.persistMu.Lock()
	defer g.persistMu.Unlock()

	m.mu.Lock()
	m.games[g.id] = g
	m.mu.Unlock()

	m.log.Info().Str("game", g.id.String()).Str("creator", creator).Str("color", color.String()).Str("fen", fen).Msg("game created")
	return g, m.persist(g)
}

// Get returns the game with the given id.
func (m *Manager) Get(id uuid.UUID) (*Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return g, nil
}

// Lookup resolves a full id or a unique id prefix.
func (m *Manager) Lookup(ref string) (*Game, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return m.Get(id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var found *Game
	for id, g := range m.games {
		if ref != "" && strings.HasPrefix(id.String(), ref) {
			if found != nil {
				return nil, fmt.Errorf("%w: %q is ambiguous", ErrGameNotFound, ref)
			}
			found = g
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, ref)
	}
	return found, nil
}

// Join seats user in game id.
func (m *Manager) Join(id uuid.UUID, user string) error {
	g, err := m.Get(id)
	if err != nil {
		return err
	}

	g.persistMu.Lock()
	defer g.persistMu.Unlock()

	if err := g.Join(user); err != nil {
		m.log.Debug().Err(err).Str("game", id.String()).Str("user", user).Msg("join rejected")
		return err
	}
	m.log.Info().Str("game", id.String()).Str("user", user).Msg("opponent joined")
	return m.persist(g)
}

// Move plays a move for user, written in coordinates ("e2e4", "e7e8q").
func (m *Manager) Move(id uuid.UUID, user, move string) (Snapshot, error) {
	g, err := m.Get(id)
	if err != nil {
		return Snapshot{}, err
	}

	g.persistMu.Lock()
	defer g.persistMu.Unlock()

	mv, err := g.ParseMove(move)
	if err != nil {
		return Snapshot{}, err
	}

	if err := g.Move(user, mv); err != nil {
		m.log.Debug().Err(err).Str("game", id.String()).Str("user", user).Str("move", move).Msg("move rejected")
		return Snapshot{}, err
	}
	snap := g.Snapshot()
	m.log.Debug().Str("game", id.String()).Str("user", user).Str("move", move).Str("fen", snap.FEN).Msg("move played")

	if snap.Status == Finished {
		m.finished(g, snap)
	}
	return snap, m.persist(g)
}

// Resign ends game id with user resigning.
func (m *Manager) Resign(id uuid.UUID, user string) (Snapshot, error) {
	g, err := m.Get(id)
	if err != nil {
		return Snapshot{}, err
	}

	g.persistMu.Lock()
	defer g.persistMu.Unlock()

	if err := g.Resign(user); err != nil {
		return Snapshot{}, err
	}
	snap := g.Snapshot()
	m.finished(g, snap)
	return snap, m.persist(g)
}

// Abort cancels game id before the first move.
func (m *Manager) Abort(id uuid.UUID, user string) error {
	g, err := m.Get(id)
	if err != nil {
		return err
	}

	g.persistMu.Lock()
	defer g.persistMu.Unlock()

	if err := g.Abort(user); err != nil {
		return err
	}
	m.log.Info().Str("game", id.String()).Str("user", user).Msg("game aborted")
	return m.persist(g)
}

// List returns snapshots of the games in the given statuses (all games
// when none are given), oldest first.
func (m *Manager) List(statuses ...Status) []Snapshot {
	m.mu.RLock()
	games := make([]*Game, 0, len(m.games))
	for _, g := range m.games {
		games = append(games, g)
	}
	m.mu.RUnlock()

	var out []Snapshot
	for _, g := range games {
		s := g.Snapshot()
		if len(statuses) > 0 && !containsStatus(statuses, s.Status) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func containsStatus(list []Status, s Status) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// finished logs the end of a game and records both players' results.
func (m *Manager) finished(g *Game, snap Snapshot) {
	m.log.Info().Str("game", snap.ID.String()).Str("end", snap.EndCondition.String()).Int("moves", len(snap.Moves)).Msg("game finished")
	if m.store == nil {
		return
	}

	winner := snap.EndCondition.Winner()
	for color, user := range map[board.Color]string{board.White: snap.White, board.Black: snap.Black} {
		if user == "" {
			continue
		}
		outcome := storage.OutcomeDraw
		switch winner {
		case color:
			outcome = storage.OutcomeWin
		case color.Other():
			outcome = storage.OutcomeLoss
		}
		if err := m.store.RecordResult(user, outcome); err != nil {
			m.log.Error().Err(err).Str("user", user).Msg("record result")
		}
	}
}

// persist saves g. Callers hold g.persistMu.
func (m *Manager) persist(g *Game) error {
	if m.store == nil {
		return nil
	}
	if err := m.store.SaveGame(g.Record()); err != nil {
		m.log.Error().Err(err).Str("game", g.id.String()).Msg("save game")
		return fmt.Errorf("save game %s: %w", g.id, err)
	}
	return nil
}

// IsRuleError reports whether err is a rejection by the game rules rather
// than an infrastructure failure.
func IsRuleError(err error) bool {
	for _, target := range []error{
		ErrGameNotFound, ErrNotYourTurn, ErrGameNotActive, ErrGameFull, ErrNotAPlayer,
		board.ErrIllegalMove, board.ErrInvalidSquare, board.ErrMalformedFEN, board.ErrInvariantViolation,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
