package board

import "errors"

// Sentinel errors returned by the engine. Use errors.Is to inspect them.
var (
	// ErrMalformedFEN indicates a FEN string that cannot describe a board.
	ErrMalformedFEN = errors.New("malformed FEN")

	// ErrIllegalMove indicates a move the side to move may not play.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidSquare indicates a square name outside the board's alphabets.
	ErrInvalidSquare = errors.New("invalid square")

	// ErrInvariantViolation indicates a corrupted or impossible board state.
	ErrInvariantViolation = errors.New("board invariant violated")
)
