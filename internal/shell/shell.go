// Package shell implements the line-oriented command interface of the
// chessrules tool.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/diagram"
	"github.com/hailam/chessrules/internal/game"
	"github.com/hailam/chessrules/internal/storage"
)

const maxPerftDepth = 6

// StatsLoader reads per-user results. *storage.Storage implements it.
type StatsLoader interface {
	LoadStats(user string) (*storage.PlayerStats, error)
}

// Shell reads commands, one per line, and writes one response per command.
type Shell struct {
	games   *game.Manager
	stats   StatsLoader
	diagram diagram.Options
	log     zerolog.Logger

	out     io.Writer
	current *game.Game
}

// New creates a shell over the given manager. stats may be nil.
func New(games *game.Manager, stats StatsLoader, opts diagram.Options, log zerolog.Logger) *Shell {
	return &Shell{
		games:   games,
		stats:   stats,
		diagram: opts,
		log:     log,
		out:     os.Stdout,
	}
}

// Run executes commands from in until "quit" or end of input.
func (s *Shell) Run(in io.Reader, out io.Writer) error {
	s.out = out
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if s.Execute(line) {
			return nil
		}
	}
	return scanner.Err()
}

// Execute runs one command line and reports whether the shell should exit.
func (s *Shell) Execute(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := parts[0]
	args := parts[1:]

	var err error
	switch cmd {
	case "new":
		err = s.handleNew(args)
	case "join":
		err = s.handleJoin(args)
	case "use":
		err = s.handleUse(args)
	case "move":
		err = s.handleMove(args)
	case "resign":
		err = s.handleResign(args)
	case "abort":
		err = s.handleAbort(args)
	case "fen":
		err = s.withGame(func(g *game.Game) { s.println(g.Snapshot().FEN) })
	case "moves":
		err = s.handleMoves()
	case "check":
		err = s.handleCheck()
	case "show", "d":
		err = s.withGame(func(g *game.Game) { fmt.Fprint(s.out, g.Board().String()) })
	case "status":
		err = s.withGame(func(g *game.Game) { s.printStatus(g.Snapshot()) })
	case "games":
		s.handleGames(args)
	case "stats":
		err = s.handleStats(args)
	case "diagram":
		err = s.handleDiagram(args)
	case "perft":
		err = s.handlePerft(args)
	case "help":
		s.println("commands: new <user> [white|black] [fen], join <game> <user>, use <game>, move <user> <move>,")
		s.println("          resign <user>, abort <user>, fen, moves, check, show, status, games [status],")
		s.println("          stats <user>, diagram <file>, perft <depth>, quit")
	case "quit", "exit":
		return true
	default:
		err = fmt.Errorf("unknown command %q (try help)", cmd)
	}

	if err != nil {
		s.println("error:", err)
		if !game.IsRuleError(err) {
			s.log.Warn().Err(err).Str("command", cmd).Msg("command failed")
		}
	}
	return false
}

func (s *Shell) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

var errNoGame = errors.New("no game selected (use new, join or use)")

func (s *Shell) withGame(fn func(g *game.Game)) error {
	if s.current == nil {
		return errNoGame
	}
	fn(s.current)
	return nil
}

// handleNew creates a game.
// Formats:
//   - new alice
//   - new alice black
//   - new alice white <fen>
func (s *Shell) handleNew(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: new <user> [white|black] [fen]")
	}
	user := args[0]
	var side string
	if len(args) > 1 {
		side = args[1]
	}
	color, err := game.ParseSide(side)
	if err != nil {
		return err
	}
	var fen string
	if len(args) > 2 {
		fen = strings.Join(args[2:], " ")
	}

	g, err := s.games.Create(user, color, fen)
	if g != nil {
		s.current = g
		s.println("game", g.ID(), "created,", user, "plays", color)
	}
	return err
}

func (s *Shell) handleJoin(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: join <game> <user>")
	}
	g, err := s.games.Lookup(args[0])
	if err != nil {
		return err
	}
	if err := s.games.Join(g.ID(), args[1]); err != nil {
		return err
	}
	s.current = g
	white, black := g.Players()
	s.println("game", g.ID(), "started:", white, "(white) vs", black, "(black)")
	return nil
}

func (s *Shell) handleUse(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: use <game>")
	}
	g, err := s.games.Lookup(args[0])
	if err != nil {
		return err
	}
	s.current = g
	s.println("using game", g.ID())
	return nil
}

func (s *Shell) handleMove(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: move <user> <move>")
	}
	if s.current == nil {
		return errNoGame
	}
	snap, err := s.games.Move(s.current.ID(), args[0], args[1])
	if err != nil && snap.FEN == "" {
		return err
	}
	s.printStatus(snap)
	return err
}

func (s *Shell) handleResign(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: resign <user>")
	}
	if s.current == nil {
		return errNoGame
	}
	snap, err := s.games.Resign(s.current.ID(), args[0])
	if err != nil && snap.FEN == "" {
		return err
	}
	s.printStatus(snap)
	return err
}

func (s *Shell) handleAbort(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: abort <user>")
	}
	if s.current == nil {
		return errNoGame
	}
	if err := s.games.Abort(s.current.ID(), args[0]); err != nil {
		return err
	}
	s.println("game", s.current.ID(), "aborted")
	return nil
}

func (s *Shell) handleMoves() error {
	return s.withGame(func(g *game.Game) {
		moves := g.Snapshot().LegalMoves
		if len(moves) == 0 {
			s.println("(none)")
			return
		}
		s.println(strings.Join(moves, " "))
	})
}

func (s *Shell) handleCheck() error {
	return s.withGame(func(g *game.Game) {
		b := g.Board()
		s.println("white:", checkWord(b.InCheck(board.White)), "black:", checkWord(b.InCheck(board.Black)))
	})
}

func checkWord(inCheck bool) string {
	if inCheck {
		return "check"
	}
	return "safe"
}

func (s *Shell) printStatus(snap game.Snapshot) {
	line := fmt.Sprintf("%s %s", snap.Status, snap.FEN)
	switch {
	case snap.Status == game.Finished:
		line += " " + snap.EndCondition.String()
	case snap.InCheck:
		line += " " + snap.SideToMove.String() + " in check"
	}
	s.println(line)
}

// handleGames lists games, optionally filtered by status names.
func (s *Shell) handleGames(args []string) {
	var statuses []game.Status
	for _, a := range args {
		st, err := game.ParseStatus(a)
		if err != nil {
			s.println("error:", err)
			return
		}
		statuses = append(statuses, st)
	}

	list := s.games.List(statuses...)
	if len(list) == 0 {
		s.println("(no games)")
		return
	}
	for _, snap := range list {
		s.println(snap.ID, snap.Status, "white="+orDash(snap.White), "black="+orDash(snap.Black), len(snap.Moves), "moves")
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (s *Shell) handleStats(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: stats <user>")
	}
	if s.stats == nil {
		return errors.New("statistics need a database")
	}
	st, err := s.stats.LoadStats(args[0])
	if err != nil {
		return err
	}
	s.println(fmt.Sprintf("%s: %d games, %d wins, %d losses, %d draws (%.0f%%), best streak %d",
		st.User, st.GamesPlayed, st.Wins, st.Losses, st.Draws, st.WinRate(), st.LongestStreak))
	return nil
}

func (s *Shell) handleDiagram(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: diagram <file.png|file.bmp|file.tiff>")
	}
	if s.current == nil {
		return errNoGame
	}

	opts := s.diagram
	if last := s.current.LastMove(); last != board.NoMove {
		opts.Highlighted = []board.Coordinates{last.From, last.To}
	}
	img, err := diagram.Render(s.current.Board(), opts)
	if err != nil {
		return err
	}

	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if err := diagram.Encode(f, img, diagram.FormatFromPath(args[0])); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	s.println("wrote", args[0])
	return nil
}

func (s *Shell) handlePerft(args []string) error {
	depth := 3
	if len(args) > 0 {
		var err error
		if depth, err = strconv.Atoi(args[0]); err != nil || depth < 0 || depth > maxPerftDepth {
			return fmt.Errorf("perft depth must be 0..%d", maxPerftDepth)
		}
	}
	if s.current == nil {
		return errNoGame
	}

	start := time.Now()
	nodes := s.current.Board().Perft(depth)
	elapsed := time.Since(start)

	s.println(fmt.Sprintf("Nodes: %d", nodes))
	s.log.Debug().Int("depth", depth).Int64("nodes", nodes).Dur("elapsed", elapsed).Msg("perft")
	return nil
}
