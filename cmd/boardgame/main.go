// Command boardgame plays chess, checkers or chutes and ladders on the
// terminal. Moves are read one per line from standard input.
//
// Flags fall back to BOARDGAME_* environment variables, which may also be
// set in a .env file in the working directory.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gridgames/boardgame"
	"github.com/gridgames/boardgame/checkers"
	"github.com/gridgames/boardgame/chess"
	"github.com/gridgames/boardgame/chutes"
	"github.com/gridgames/boardgame/image"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type config struct {
	game      string
	variant   string
	height    int
	width     int
	svg       string
	logLevel  string
	logFormat string
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("reading .env")
	}

	cfg := config{}
	flag.StringVar(&cfg.game, "game", getenv("BOARDGAME_GAME", "chess"), "game to play: chess, checkers or chutes")
	flag.StringVar(&cfg.variant, "variant", getenv("BOARDGAME_VARIANT", checkers.American.Name), "checkers variant")
	flag.IntVar(&cfg.height, "height", getenvInt("BOARDGAME_HEIGHT", 0), "chutes and ladders board height")
	flag.IntVar(&cfg.width, "width", getenvInt("BOARDGAME_WIDTH", 0), "chutes and ladders board width")
	flag.StringVar(&cfg.svg, "svg", getenv("BOARDGAME_SVG", ""), "write the final board to this SVG file")
	flag.StringVar(&cfg.logLevel, "log-level", getenv("BOARDGAME_LOG_LEVEL", "info"), "log level")
	flag.StringVar(&cfg.logFormat, "log-format", getenv("BOARDGAME_LOG_FORMAT", "text"), "log format: text or json")
	flag.Parse()

	log, err := newLogger(cfg, os.Stderr)
	if err != nil {
		logrus.Fatal(err)
	}
	if err := run(cfg, os.Stdin, os.Stdout, log); err != nil {
		log.Fatal(err)
	}
}

func newLogger(cfg config, w io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(w)
	level, err := logrus.ParseLevel(cfg.logLevel)
	if err != nil {
		return nil, err
	}
	log.SetLevel(level)
	switch cfg.logFormat {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	default:
		return nil, errors.Errorf("unknown log format %q", cfg.logFormat)
	}
	return log, nil
}

// session is one game being played on the terminal.
type session struct {
	game     *boardgame.Game
	notation boardgame.Notation
	dice     *chutes.Rules
	out      io.Writer
}

func newSession(cfg config, out io.Writer, log logrus.FieldLogger) (*session, error) {
	s := &session{out: out, notation: boardgame.CoordinateNotation{}}
	var options map[string]string
	switch cfg.game {
	case "chess":
		s.game = boardgame.NewGame(chess.New())
		s.notation = boardgame.AlgebraicNotation{}
	case "checkers":
		s.game = boardgame.NewGame(checkers.New())
		options = map[string]string{checkers.OptionRules: cfg.variant}
	case "chutes":
		s.dice = chutes.New()
		s.game = boardgame.NewGame(s.dice)
		options = map[string]string{}
		if cfg.height > 0 {
			options[chutes.OptionHeight] = strconv.Itoa(cfg.height)
		}
		if cfg.width > 0 {
			options[chutes.OptionWidth] = strconv.Itoa(cfg.width)
		}
	default:
		return nil, errors.Errorf("unknown game %q", cfg.game)
	}
	if err := s.game.ApplyOptions(options); err != nil {
		return nil, err
	}
	s.game.AddObserver(boardgame.LogObserver(log))
	if err := s.game.Start(); err != nil {
		return nil, err
	}
	return s, nil
}

func run(cfg config, in io.Reader, out io.Writer, log logrus.FieldLogger) error {
	s, err := newSession(cfg, out, log)
	if err != nil {
		return err
	}
	s.printBoard()
	s.prompt()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" {
			break
		}
		if err := s.command(line); err != nil {
			fmt.Fprintln(out, "error:", err)
		} else if line != "" {
			s.printBoard()
		}
		if s.game.Outcome() != boardgame.NoOutcome {
			break
		}
		s.prompt()
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	s.printResult()

	if cfg.svg != "" {
		return writeSVG(cfg.svg, s.game)
	}
	return nil
}

func (s *session) command(line string) error {
	g := s.game
	switch line {
	case "":
		return nil
	case "undo":
		if !g.CanUndo() {
			return errors.New("nothing to undo")
		}
		g.Undo(false)
		return nil
	case "moves":
		for _, m := range g.CurrentPlayer().LegalMoves() {
			fmt.Fprintf(s.out, "  %s  %s\n", s.notation.Encode(g, m), m)
		}
		return nil
	case "roll":
		if s.dice == nil {
			return errors.New("this game has no dice")
		}
		// An undone move leaves its roll pending.
		if !s.dice.Rolled() {
			if err := s.dice.Roll(g); err != nil {
				return err
			}
		}
		fmt.Fprintf(s.out, "%s rolled %v\n", g.CurrentPlayer(), s.dice.Faces())
		moves := g.CurrentPlayer().LegalMoves()
		if len(moves) == 0 {
			return errors.New("no legal move")
		}
		return g.Move(moves[0])
	}
	return g.PushNotationMove(line, s.notation)
}

func (s *session) prompt() {
	verb := "move"
	if s.dice != nil {
		verb = "roll"
	}
	fmt.Fprintf(s.out, "%s to %s> ", s.game.CurrentPlayer(), verb)
}

func (s *session) printBoard() {
	fmt.Fprintln(s.out)
	fmt.Fprint(s.out, render(s.game))
}

func (s *session) printResult() {
	g := s.game
	switch g.Outcome() {
	case boardgame.Won:
		fmt.Fprintf(s.out, "%s won by %s\n", g.Winner(), g.Method())
	case boardgame.Drawn:
		fmt.Fprintf(s.out, "drawn by %s\n", g.Method())
	}
}

// render draws the board as text, one row per line. Upper case letters are
// the first player's pieces.
func render(g *boardgame.Game) string {
	var sb strings.Builder
	h, w := g.Dimensions()
	for row := 0; row < h; row++ {
		fmt.Fprintf(&sb, "%2d ", row)
		for col := 0; col < w; col++ {
			sb.WriteString(cell(g, boardgame.Sq(row, col)))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   ")
	for col := 0; col < w; col++ {
		fmt.Fprintf(&sb, "%2d", col%100)
	}
	sb.WriteByte('\n')
	return sb.String()
}

func cell(g *boardgame.Game, sq boardgame.Square) string {
	pieces := g.PiecesAt(sq)
	switch {
	case len(pieces) > 1:
		return " " + strconv.Itoa(len(pieces)%10)
	case len(pieces) == 0:
		if _, ok := g.Board().Shade(sq).Link(); ok {
			return " +"
		}
		return " ."
	}
	p := pieces[0]
	letter := pieceLetter(p.Kind())
	if g.Seat(p.Owner()) == 0 {
		letter = strings.ToUpper(letter)
	}
	return " " + letter
}

func pieceLetter(k boardgame.Kind) string {
	switch k {
	case boardgame.Pawn:
		return "p"
	case boardgame.Knight:
		return "n"
	case boardgame.Bishop:
		return "b"
	case boardgame.Rook:
		return "r"
	case boardgame.Queen:
		return "q"
	case boardgame.King, boardgame.CrownedKing:
		return "k"
	case boardgame.Man:
		return "m"
	default:
		return "o"
	}
}

func writeSVG(path string, g *boardgame.Game) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := image.SVG(f, g); err != nil {
		f.Close()
		return errors.Wrap(err, path)
	}
	return f.Close()
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}
