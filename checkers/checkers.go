// Package checkers implements checkers and its draughts variants for
// boardgame.
//
// Every jump of a multi-jump capture is a move of its own. After a jump
// the turn stays with the same player, and only the piece that jumped may
// move, capturing again, until it has no capture left.
package checkers

import (
	"github.com/gridgames/boardgame"
	"github.com/pkg/errors"
)

// OptionRules is the game option selecting the variant.
const OptionRules = "Checkers Rules"

var diagonals = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}

// Rules are the rules of one checkers variant.
type Rules struct {
	variant Variant
}

// New returns American checkers rules.
// Optional functions can select another variant.
func New(options ...func(*Rules)) *Rules {
	r := &Rules{variant: American}
	for _, f := range options {
		f(r)
	}
	return r
}

// WithVariant returns a Rules option selecting v.
func WithVariant(v Variant) func(*Rules) {
	return func(r *Rules) {
		r.variant = v
	}
}

// Variant returns the active variant.
func (r *Rules) Variant() Variant {
	return r.variant
}

// Options implements boardgame.Configurable.
func (r *Rules) Options() map[string][]string {
	return map[string][]string{OptionRules: VariantNames()}
}

// ApplyOptions implements boardgame.Configurable.
func (r *Rules) ApplyOptions(_ *boardgame.Game, selected map[string]string) error {
	name, ok := selected[OptionRules]
	if !ok {
		return nil
	}
	v, err := Lookup(name)
	if err != nil {
		return err
	}
	r.variant = v
	return nil
}

// Dimensions implements boardgame.Rules.
func (r *Rules) Dimensions() (int, int) {
	return r.variant.Size, r.variant.Size
}

// Setup implements boardgame.Rules. Each side fills height/3+1 rows of
// dark squares; the first seated player starts at the bottom.
func (r *Rules) Setup(g *boardgame.Game, p *boardgame.Player) error {
	b := g.Board()
	filled := b.Height()/3 + 1
	first, last := b.Height()-filled, b.Height()-1
	if side(g, p) == 1 {
		first, last = 0, filled-1
	}
	for row := first; row <= last; row++ {
		for col := 0; col < b.Width(); col++ {
			if sq := boardgame.Sq(row, col); b.Shade(sq) == boardgame.Dark {
				g.Place(p, boardgame.Man, sq)
			}
		}
	}
	return nil
}

// Moves implements boardgame.Rules. While a player is part way through a
// multi-jump only the jumping piece may move, and only by capturing.
func (r *Rules) Moves(g *boardgame.Game, piece *boardgame.Piece) []*boardgame.Move {
	if !piece.OnBoard() {
		return nil
	}
	if last := g.LastMove(); last != nil && !last.TurnEnded() && last.Mover() == piece.Owner() {
		if last.Piece() != piece {
			return nil
		}
		return r.captures(g, piece)
	}
	return append(r.captures(g, piece), r.steps(g, piece)...)
}

// TurnOver implements boardgame.Rules. The turn passes after a plain move,
// after a promotion, or after a capture leaving the piece nothing more to
// capture.
func (r *Rules) TurnOver(g *boardgame.Game, m *boardgame.Move) bool {
	last := m.Last()
	switch {
	case last.Captured == nil:
		return true
	case last.Captured.Owner() == m.Mover():
		return true
	case last.Piece.Kind() == boardgame.Man && last.To.Row == farRow(g, m.Mover()):
		return true
	}
	return len(r.captures(g, last.Piece)) == 0
}

// Outcome implements boardgame.Rules. A player who cannot move when their
// turn comes loses.
func (r *Rules) Outcome(g *boardgame.Game, mover *boardgame.Player) (boardgame.Outcome, boardgame.Method) {
	if !g.LastMove().TurnEnded() {
		return boardgame.NoOutcome, boardgame.NoMethod
	}
	if len(g.LegalMoves(g.PlayerAfter(mover))) > 0 {
		return boardgame.NoOutcome, boardgame.NoMethod
	}
	return boardgame.Won, boardgame.NoLegalMoves
}

// Promotion implements boardgame.Promoter. A man reaching the far row is
// crowned.
func (r *Rules) Promotion(g *boardgame.Game, m *boardgame.Move) (boardgame.Kind, bool) {
	last := m.Last()
	if last.Piece.Kind() != boardgame.Man {
		return boardgame.NoKind, false
	}
	return boardgame.CrownedKing, last.To.Row == farRow(g, last.Piece.Owner())
}

// PromotionOptions implements boardgame.Promoter.
func (r *Rules) PromotionOptions() []boardgame.Kind {
	return []boardgame.Kind{boardgame.CrownedKing}
}

// FilterMoves implements boardgame.MoveFilter by enforcing the variant's
// capture rule across all of a player's pieces.
func (r *Rules) FilterMoves(g *boardgame.Game, _ *boardgame.Player, moves []*boardgame.Move) []*boardgame.Move {
	if r.variant.Capture == NoConstraints {
		return moves
	}
	var captures []*boardgame.Move
	for _, m := range moves {
		if m.IsCapture() {
			captures = append(captures, m)
		}
	}
	if len(captures) == 0 {
		return moves
	}
	if r.variant.Capture == MustCapture {
		return captures
	}

	best := 0
	depths := make([]int, len(captures))
	for i, m := range captures {
		depths[i] = r.captureDepth(g, m)
		if depths[i] > best {
			best = depths[i]
		}
	}
	longest := captures[:0]
	for i, m := range captures {
		if depths[i] == best {
			longest = append(longest, m)
		}
	}
	return longest
}

// captureDepth returns the number of pieces taken by the longest chain of
// jumps starting with m.
func (r *Rules) captureDepth(g *boardgame.Game, m *boardgame.Move) int {
	deepest := 0
	g.Simulate(m, func() {
		if m.TurnEnded() {
			return
		}
		for _, next := range r.captures(g, m.Piece()) {
			if d := r.captureDepth(g, next); d > deepest {
				deepest = d
			}
		}
	})
	return deepest + 1
}

// captures returns the capturing moves of piece on the current board.
func (r *Rules) captures(g *boardgame.Game, piece *boardgame.Piece) []*boardgame.Move {
	b := g.Board()
	from := piece.Square()
	var moves []*boardgame.Move
	for _, d := range r.directions(g, piece, true) {
		sq := from.Offset(d[0], d[1])
		if piece.Kind() == boardgame.CrownedKing && r.variant.FlyingKings {
			for b.Empty(sq) {
				sq = sq.Offset(d[0], d[1])
			}
		}
		victim := b.PieceAt(sq)
		if victim == nil || victim.Owner() == piece.Owner() {
			continue
		}
		if landing := sq.Offset(d[0], d[1]); b.Empty(landing) {
			moves = append(moves, boardgame.NewMove(piece, landing, victim))
		}
	}
	return moves
}

// steps returns the non-capturing moves of piece.
func (r *Rules) steps(g *boardgame.Game, piece *boardgame.Piece) []*boardgame.Move {
	b := g.Board()
	from := piece.Square()
	var moves []*boardgame.Move
	for _, d := range r.directions(g, piece, false) {
		for sq := from.Offset(d[0], d[1]); b.Empty(sq); sq = sq.Offset(d[0], d[1]) {
			moves = append(moves, boardgame.NewMove(piece, sq, nil))
			if piece.Kind() != boardgame.CrownedKing || !r.variant.FlyingKings {
				break
			}
		}
	}
	return moves
}

// directions returns the diagonals along which piece may move, or capture
// when capturing is set.
func (r *Rules) directions(g *boardgame.Game, piece *boardgame.Piece, capturing bool) [][2]int {
	if piece.Kind() == boardgame.CrownedKing || (capturing && r.variant.BackwardCapture) {
		return diagonals[:]
	}
	fwd := forward(g, piece.Owner())
	return [][2]int{{fwd, -1}, {fwd, 1}}
}

func side(g *boardgame.Game, p *boardgame.Player) int {
	seat := g.Seat(p)
	if seat > 1 {
		panic(errors.Wrapf(boardgame.ErrUnknownSide, "checkers has two sides, %s is seated %d", p, seat))
	}
	return seat
}

func forward(g *boardgame.Game, p *boardgame.Player) int {
	if side(g, p) == 0 {
		return -1
	}
	return 1
}

func farRow(g *boardgame.Game, p *boardgame.Player) int {
	if side(g, p) == 0 {
		return 0
	}
	return g.Board().Height() - 1
}
