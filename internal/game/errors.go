package game

import "errors"

// Sentinel errors returned by the game layer. Use errors.Is to inspect them.
var (
	// ErrGameNotFound indicates an unknown or ambiguous game id.
	ErrGameNotFound = errors.New("game not found")

	// ErrNotYourTurn indicates a move by the player not on move.
	ErrNotYourTurn = errors.New("not your turn")

	// ErrGameNotActive indicates an action the game's status does not allow.
	ErrGameNotActive = errors.New("game is not in progress")

	// ErrGameFull indicates a join to a game whose seats are taken.
	ErrGameFull = errors.New("game already has two players")

	// ErrNotAPlayer indicates a user who is not seated in the game.
	ErrNotAPlayer = errors.New("user does not play in this game")

	// ErrCorruptRecord indicates a stored game that no longer replays.
	ErrCorruptRecord = errors.New("stored game does not replay")
)
