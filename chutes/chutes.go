// Package chutes implements chutes and ladders for boardgame.
//
// Every player has one token starting in the bottom left corner. Tokens
// follow a boustrophedon path: east along the bottom row, west along the
// next one and so on up to the final square on the top row. A player who
// rolls the maximum rolls again; the third maximum in a row sends the token
// back to the start instead.
package chutes

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/gridgames/boardgame"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Game options.
const (
	OptionHeight = "board height"
	OptionWidth  = "board width"
)

const (
	defaultSize = 8
	maxStreak   = 3
)

var (
	// ErrNotRolled is returned for a move attempted before rolling.
	ErrNotRolled = errors.New("chutes: dice not rolled")
	// ErrAlreadyRolled is returned for a second roll before moving.
	ErrAlreadyRolled = errors.New("chutes: dice already rolled")
)

// A Link is a chute or a ladder. A token landing on From continues to To
// within the same move.
type Link struct {
	From boardgame.Square
	To   boardgame.Square
}

// String implements the fmt.Stringer interface.
func (l Link) String() string {
	if l.To.Row > l.From.Row {
		return "chute"
	}
	return "ladder"
}

// turnState is the part of the turn kept outside the board.
type turnState struct {
	rolled bool
	faces  []int
	score  int
	streak int
}

// Rules are the rules of chutes and ladders. A Rules value keeps the dice
// state of one game and must not be shared.
type Rules struct {
	dice   Dice
	rng    *rand.Rand
	links  []Link
	fixed  bool
	dest   map[boardgame.Square]boardgame.Square
	height int
	width  int
	turnState
	saved []turnState
}

// New returns chutes and ladders rules rolling a single six-sided die.
// Optional functions can replace the dice and the links.
func New(options ...func(*Rules)) *Rules {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	r := &Rules{
		rng:    rng,
		dice:   NewDice(1, 6, rng),
		height: defaultSize,
		width:  defaultSize,
	}
	for _, f := range options {
		f(r)
	}
	return r
}

// WithDice returns a Rules option replacing the dice.
func WithDice(d Dice) func(*Rules) {
	return func(r *Rules) {
		r.dice = d
	}
}

// WithRand returns a Rules option replacing the source used to place
// random links.
func WithRand(rng *rand.Rand) func(*Rules) {
	return func(r *Rules) {
		r.rng = rng
	}
}

// WithLinks returns a Rules option fixing the chutes and ladders instead of
// placing them at random when the game starts.
func WithLinks(links ...Link) func(*Rules) {
	return func(r *Rules) {
		r.links = append([]Link(nil), links...)
		r.fixed = true
	}
}

// Links returns the chutes and ladders of the board.
func (r *Rules) Links() []Link {
	return append([]Link(nil), r.links...)
}

// Destination returns where a link rooted at sq leads.
func (r *Rules) Destination(sq boardgame.Square) (boardgame.Square, bool) {
	to, ok := r.dest[sq]
	return to, ok
}

// Rolled reports whether the current player has rolled and not yet moved.
func (r *Rules) Rolled() bool { return r.rolled }

// Score returns the sum of the last roll.
func (r *Rules) Score() int { return r.score }

// Faces returns the faces of the last roll.
func (r *Rules) Faces() []int { return append([]int(nil), r.faces...) }

// Streak returns how many maximum rolls in a row the current player has made.
func (r *Rules) Streak() int { return r.streak }

// Options implements boardgame.Configurable. Both options take a positive
// number.
func (r *Rules) Options() map[string][]string {
	return map[string][]string{OptionHeight: nil, OptionWidth: nil}
}

// ApplyOptions implements boardgame.Configurable.
func (r *Rules) ApplyOptions(g *boardgame.Game, selected map[string]string) error {
	var result *multierror.Error
	height, err := numericOption(selected, OptionHeight, r.height)
	result = multierror.Append(result, err)
	width, err := numericOption(selected, OptionWidth, r.width)
	result = multierror.Append(result, err)
	if err := result.ErrorOrNil(); err != nil {
		return err
	}
	if err := g.SetBoardDimensions(height, width); err != nil {
		return err
	}
	r.height, r.width = height, width
	return nil
}

func numericOption(selected map[string]string, key string, fallback int) (int, error) {
	s, ok := selected[key]
	if !ok || s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.Wrapf(boardgame.ErrInvalidOption, "%s=%q", key, s)
	}
	return n, nil
}

// Dimensions implements boardgame.Rules.
func (r *Rules) Dimensions() (int, int) {
	return r.height, r.width
}

// Shade implements boardgame.Shader. Both ends of a link share a shade.
func (r *Rules) Shade(g *boardgame.Game, b *boardgame.Board) {
	b.Checkerboard()
	if !r.fixed {
		r.links = RandomLinks(b.Height(), b.Width(), r.rng)
	}
	r.dest = make(map[boardgame.Square]boardgame.Square, len(r.links))
	for i, l := range r.links {
		r.dest[l.From] = l.To
		b.SetShade(l.From, boardgame.LinkShade(i))
		b.SetShade(l.To, boardgame.LinkShade(i))
	}
	r.turnState = turnState{}
	r.saved = r.saved[:0]
}

// Setup implements boardgame.Rules.
func (r *Rules) Setup(g *boardgame.Game, p *boardgame.Player) error {
	h, _ := g.Dimensions()
	g.Place(p, boardgame.Token, Start(h))
	return nil
}

// Roll rolls the dice for the current player.
func (r *Rules) Roll(g *boardgame.Game) error {
	switch {
	case !g.Started():
		return boardgame.ErrNotStarted
	case g.Outcome() != boardgame.NoOutcome:
		return boardgame.ErrGameOver
	case r.rolled:
		return ErrAlreadyRolled
	}
	r.faces, r.score = r.dice.Roll()
	r.rolled = true
	if r.score == r.dice.Max() {
		r.streak++
	}
	g.LegalMoves(g.CurrentPlayer())
	return nil
}

// CanMove implements boardgame.MoveGate.
func (r *Rules) CanMove(*boardgame.Game) error {
	if !r.rolled {
		return ErrNotRolled
	}
	return nil
}

// Moves implements boardgame.Rules. The current player's token has exactly
// one move once the dice are rolled.
func (r *Rules) Moves(g *boardgame.Game, piece *boardgame.Piece) []*boardgame.Move {
	if !r.rolled || !piece.OnBoard() || piece.Owner() != g.CurrentPlayer() {
		return nil
	}
	h, w := g.Dimensions()
	name := piece.Owner().Name
	if r.streak >= maxStreak {
		m := boardgame.NewMove(piece, Start(h), nil).
			Describe(name + " rolled the maximum " + strconv.Itoa(maxStreak) + " times in a row and returns to the start")
		return []*boardgame.Move{m}
	}

	from := piece.Square()
	target := Index(h, w, from) + r.score
	if target > h*w-1 {
		return []*boardgame.Move{boardgame.NewMove(piece, from, nil).Describe(name + " overshot the final square")}
	}
	dest := SquareAt(h, w, target)
	m := boardgame.NewMove(piece, dest, nil)
	if to, ok := r.dest[dest]; ok {
		link := Link{From: dest, To: to}
		m.Then(boardgame.Step{
			Piece: piece,
			From:  dest,
			To:    to,
			Note:  name + " took a " + link.String() + " from " + dest.String() + " to " + to.String(),
		})
	}
	return []*boardgame.Move{m}
}

// TurnOver implements boardgame.Rules. A maximum roll earns another roll
// unless it completed the streak.
func (r *Rules) TurnOver(*boardgame.Game, *boardgame.Move) bool {
	return r.score != r.dice.Max() || r.streak >= maxStreak
}

// Applied implements boardgame.TurnHook.
func (r *Rules) Applied(_ *boardgame.Game, m *boardgame.Move) {
	r.saved = append(r.saved, r.turnState)
	r.rolled = false
	if m.TurnEnded() {
		r.streak = 0
	}
}

// Undone implements boardgame.TurnHook.
func (r *Rules) Undone(*boardgame.Game, *boardgame.Move) {
	r.turnState = r.saved[len(r.saved)-1]
	r.saved = r.saved[:len(r.saved)-1]
}

// Outcome implements boardgame.Rules. The first token on the final square
// wins.
func (r *Rules) Outcome(g *boardgame.Game, mover *boardgame.Player) (boardgame.Outcome, boardgame.Method) {
	h, w := g.Dimensions()
	goal := SquareAt(h, w, h*w-1)
	for _, pc := range mover.Pieces() {
		if pc.Square() == goal {
			return boardgame.Won, boardgame.ReachedGoal
		}
	}
	return boardgame.NoOutcome, boardgame.NoMethod
}

// Start returns the start square of a board with h rows.
func Start(h int) boardgame.Square {
	return boardgame.Sq(h-1, 0)
}

// Index returns the position of sq along the path, counting from 0 at the
// start square.
func Index(h, w int, sq boardgame.Square) int {
	lap := h - 1 - sq.Row
	if lap%2 == 0 {
		return lap*w + sq.Col
	}
	return lap*w + w - 1 - sq.Col
}

// SquareAt is the inverse of Index.
func SquareAt(h, w, k int) boardgame.Square {
	lap, off := k/w, k%w
	if lap%2 == 1 {
		off = w - 1 - off
	}
	return boardgame.Sq(h-1-lap, off)
}

// RandomLinks places (h+w)/2 chutes and ladders. No two links share a
// square and none touches the start or the final square.
func RandomLinks(h, w int, rng *rand.Rand) []Link {
	used := map[boardgame.Square]bool{
		Start(h):               true,
		SquareAt(h, w, h*w-1): true,
	}
	n := (h + w) / 2
	if free := (h*w - len(used)) / 2; n > free {
		n = free
	}
	unused := func() boardgame.Square {
		for {
			sq := boardgame.Sq(rng.Intn(h), rng.Intn(w))
			if !used[sq] {
				used[sq] = true
				return sq
			}
		}
	}
	links := make([]Link, 0, n)
	for i := 0; i < n; i++ {
		from := unused()
		links = append(links, Link{From: from, To: unused()})
	}
	return links
}
