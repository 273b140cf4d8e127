package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Storage key prefixes
const (
	gamePrefix  = "game/"
	statsPrefix = "stats/"
)

// ErrNotFound is returned when no record exists under the requested key.
var ErrNotFound = errors.New("storage: record not found")

// GameRecord is the persisted form of a game. The board is kept as the
// starting FEN plus the moves played, so a loaded game can rebuild its
// position history; FEN is the position after the last move.
type GameRecord struct {
	ID           string    `json:"id"`
	Columns      string    `json:"columns"`
	Rows         string    `json:"rows"`
	StartFEN     string    `json:"start_fen"`
	FEN          string    `json:"fen"`
	Moves        []string  `json:"moves"`
	Creator      string    `json:"creator"`
	Opponent     string    `json:"opponent,omitempty"`
	WhiteID      string    `json:"white_id,omitempty"`
	BlackID      string    `json:"black_id,omitempty"`
	Status       string    `json:"status"`
	EndCondition string    `json:"end_condition"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PlayerStats stores per-user results of finished games
type PlayerStats struct {
	User          string `json:"user"`
	GamesPlayed   int    `json:"games_played"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Draws         int    `json:"draws"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_win_streak"`
}

// Outcome is the result of a finished game from one player's side.
type Outcome int

const (
	OutcomeLoss Outcome = iota
	OutcomeDraw
	OutcomeWin
)

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// Open opens (creating if needed) the database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dir, err)
	}

	return &Storage{db: db}, nil
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory database: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(id string) []byte {
	return []byte(gamePrefix + id)
}

func statsKey(user string) []byte {
	return []byte(statsPrefix + user)
}

// SaveGame writes rec, replacing any previous version.
func (s *Storage) SaveGame(rec *GameRecord) error {
	if rec.ID == "" {
		return errors.New("storage: game record without id")
	}
	rec.UpdatedAt = time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = rec.UpdatedAt
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gameKey(rec.ID), data)
	})
}

// LoadGame reads the game stored under id.
func (s *Storage) LoadGame(id string) (*GameRecord, error) {
	var rec GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("game %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// ListGames returns every stored game, oldest first.
func (s *Storage) ListGames() ([]*GameRecord, error) {
	var records []*GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(gamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			rec := new(GameRecord)
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, rec)
			})
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

// DeleteGame removes the game stored under id.
func (s *Storage) DeleteGame(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(gameKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("game %s: %w", id, ErrNotFound)
			}
			return err
		}
		return txn.Delete(gameKey(id))
	})
}

// LoadStats loads the statistics of user, returning empty stats if none
// were recorded yet.
func (s *Storage) LoadStats(user string) (*PlayerStats, error) {
	stats := &PlayerStats{User: user}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(statsKey(user))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Use empty stats
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, stats)
		})
	})

	return stats, err
}

// RecordResult adds one finished game to the statistics of user.
func (s *Storage) RecordResult(user string, outcome Outcome) error {
	return s.db.Update(func(txn *badger.Txn) error {
		stats := &PlayerStats{User: user}

		item, err := txn.Get(statsKey(user))
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
		case err != nil:
			return err
		default:
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, stats)
			}); err != nil {
				return err
			}
		}

		stats.GamesPlayed++
		switch outcome {
		case OutcomeWin:
			stats.Wins++
			stats.CurrentStreak++
			if stats.CurrentStreak > stats.LongestStreak {
				stats.LongestStreak = stats.CurrentStreak
			}
		case OutcomeDraw:
			stats.Draws++
			stats.CurrentStreak = 0
		default:
			stats.Losses++
			stats.CurrentStreak = 0
		}

		data, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return txn.Set(statsKey(user), data)
	})
}

// WinRate returns the win rate as a percentage (0-100)
func (s *PlayerStats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}
