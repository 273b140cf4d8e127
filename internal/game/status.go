package game

import (
	"fmt"

	"github.com/hailam/chessrules/internal/board"
)

// Status is the lifecycle stage of a game.
type Status int

const (
	AwaitingOpponent Status = iota
	Ongoing
	Finished
	Aborted
)

var statusNames = [...]string{"AwaitingOpponent", "Ongoing", "Finished", "Aborted"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, error) {
	for i, name := range statusNames {
		if name == s {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unknown game status %q", s)
}

// EndCondition records how a finished game ended.
type EndCondition int

const (
	NoEnd EndCondition = iota
	WhiteCheckmatedBlack
	BlackCheckmatedWhite
	WhiteResigned
	BlackResigned
	Draw
	Stalemate
)

var endNames = [...]string{
	"None",
	"WhiteCheckmatedBlack",
	"BlackCheckmatedWhite",
	"WhiteResigned",
	"BlackResigned",
	"Draw",
	"Stalemate",
}

func (e EndCondition) String() string {
	if e < 0 || int(e) >= len(endNames) {
		return fmt.Sprintf("EndCondition(%d)", int(e))
	}
	return endNames[e]
}

// ParseEndCondition is the inverse of EndCondition.String.
func ParseEndCondition(s string) (EndCondition, error) {
	for i, name := range endNames {
		if name == s {
			return EndCondition(i), nil
		}
	}
	return 0, fmt.Errorf("unknown end condition %q", s)
}

// Winner returns the winning color, or NoColor for draws and unfinished
// games.
func (e EndCondition) Winner() board.Color {
	switch e {
	case WhiteCheckmatedBlack, BlackResigned:
		return board.White
	case BlackCheckmatedWhite, WhiteResigned:
		return board.Black
	default:
		return board.NoColor
	}
}

// ParseSide maps "white" or "black" to a color. An empty string picks
// White.
func ParseSide(s string) (board.Color, error) {
	switch s {
	case "", "white", "w":
		return board.White, nil
	case "black", "b":
		return board.Black, nil
	default:
		return board.NoColor, fmt.Errorf("unknown side %q: want white or black", s)
	}
}
