package boardgame

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrNotation is returned when move text cannot be decoded.
var ErrNotation = errors.New("boardgame: invalid move notation")

// Notation encodes and decodes moves as text. Decoded moves name a piece
// and a destination only; Game.Move resolves them against the legal moves.
type Notation interface {
	Encode(g *Game, m *Move) string
	Decode(g *Game, s string) (*Move, error)
}

// CoordinateNotation writes moves as "row,col-row,col", e.g. "6,4-4,4".
// A promotion kind may follow as "=Q".
type CoordinateNotation struct{}

// String implements the fmt.Stringer interface.
func (CoordinateNotation) String() string {
	return "Coordinate Notation"
}

// Encode implements the Notation interface.
func (CoordinateNotation) Encode(_ *Game, m *Move) string {
	from, to := m.From(), m.To()
	s := fmt.Sprintf("%d,%d-%d,%d", from.Row, from.Col, to.Row, to.Col)
	if m.Promote != NoKind {
		s += "=" + string(promotionLetter(m.Promote))
	}
	return s
}

// Decode implements the Notation interface.
func (CoordinateNotation) Decode(g *Game, s string) (*Move, error) {
	body, promo, err := splitPromotion(s, "=")
	if err != nil {
		return nil, err
	}
	ends := strings.Split(body, "-")
	if len(ends) != 2 {
		return nil, errors.Wrapf(ErrNotation, "%q", s)
	}
	from, err := parseCoordinate(ends[0])
	if err != nil {
		return nil, errors.Wrapf(err, "%q", s)
	}
	to, err := parseCoordinate(ends[1])
	if err != nil {
		return nil, errors.Wrapf(err, "%q", s)
	}
	return decodedMove(g, from, to, promo)
}

// AlgebraicNotation writes moves as file and rank pairs, e.g. "e2e4" or
// "e7e8q". Files are letters from 'a', ranks count up from the bottom row.
// It supports boards up to 26 columns and 9 rows.
type AlgebraicNotation struct{}

// String implements the fmt.Stringer interface.
func (AlgebraicNotation) String() string {
	return "Algebraic Notation"
}

// Encode implements the Notation interface.
func (AlgebraicNotation) Encode(g *Game, m *Move) string {
	h, _ := g.Dimensions()
	s := algebraicSquare(h, m.From()) + algebraicSquare(h, m.To())
	if m.Promote != NoKind {
		s += strings.ToLower(string(promotionLetter(m.Promote)))
	}
	return s
}

// Decode implements the Notation interface.
func (AlgebraicNotation) Decode(g *Game, s string) (*Move, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 && len(s) != 5 {
		return nil, errors.Wrapf(ErrNotation, "%q", s)
	}
	h, w := g.Dimensions()
	from, ok1 := parseAlgebraic(h, w, s[0:2])
	to, ok2 := parseAlgebraic(h, w, s[2:4])
	if !ok1 || !ok2 {
		return nil, errors.Wrapf(ErrNotation, "bad squares: %q", s)
	}
	promo := NoKind
	if len(s) == 5 {
		promo = promotionKind(s[4])
		if promo == NoKind {
			return nil, errors.Wrapf(ErrNotation, "bad promotion piece: %q", s)
		}
	}
	return decodedMove(g, from, to, promo)
}

// PushNotationMove decodes s with n and plays it.
//
// Example:
//
//	err := game.PushNotationMove("e2e4", boardgame.AlgebraicNotation{})
//	game.PushNotationMove("1,4-3,4", boardgame.CoordinateNotation{})
func (g *Game) PushNotationMove(s string, n Notation) error {
	m, err := n.Decode(g, s)
	if err != nil {
		return err
	}
	return g.Move(m)
}

// PushNotationMoves plays every whitespace separated move of s in order.
// It stops at the first move that fails and reports its position.
func (g *Game) PushNotationMoves(s string, n Notation) error {
	for i, tok := range splitMoveTokens(s) {
		if err := g.PushNotationMove(tok, n); err != nil {
			return errors.Wrapf(err, "move %d", i+1)
		}
	}
	return nil
}

func splitMoveTokens(s string) []string {
	raw := strings.Fields(s)
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.Trim(t, ",;")
		if t == "" || t == "*" {
			continue
		}
		out = append(out, t)
	}
	return out
}

func decodedMove(g *Game, from, to Square, promo Kind) (*Move, error) {
	p := g.PieceAt(from)
	if p == nil {
		return nil, errors.Wrapf(ErrIllegalMove, "no piece at %s", from)
	}
	m := NewMove(p, to, nil)
	m.Promote = promo
	return m, nil
}

func splitPromotion(s, sep string) (string, Kind, error) {
	s = strings.TrimSpace(s)
	body, suffix, found := strings.Cut(s, sep)
	if !found {
		return body, NoKind, nil
	}
	if len(suffix) != 1 {
		return "", NoKind, errors.Wrapf(ErrNotation, "bad promotion piece: %q", s)
	}
	kind := promotionKind(suffix[0])
	if kind == NoKind {
		return "", NoKind, errors.Wrapf(ErrNotation, "bad promotion piece: %q", s)
	}
	return body, kind, nil
}

func parseCoordinate(s string) (Square, error) {
	rc := strings.Split(strings.TrimSpace(s), ",")
	if len(rc) != 2 {
		return Square{}, ErrNotation
	}
	row, err := strconv.Atoi(strings.TrimSpace(rc[0]))
	if err != nil {
		return Square{}, errors.Wrap(ErrNotation, err.Error())
	}
	col, err := strconv.Atoi(strings.TrimSpace(rc[1]))
	if err != nil {
		return Square{}, errors.Wrap(ErrNotation, err.Error())
	}
	return Sq(row, col), nil
}

func algebraicSquare(height int, sq Square) string {
	return string(rune('a'+sq.Col)) + strconv.Itoa(height-sq.Row)
}

func parseAlgebraic(height, width int, s string) (Square, bool) {
	file := int(s[0] - 'a')
	rank := int(s[1] - '0')
	if file < 0 || file >= width || rank < 1 || rank > height {
		return Square{}, false
	}
	return Sq(height-rank, file), true
}

func promotionKind(c byte) Kind {
	switch c {
	case 'q', 'Q':
		return Queen
	case 'r', 'R':
		return Rook
	case 'b', 'B':
		return Bishop
	case 'n', 'N':
		return Knight
	case 'k', 'K':
		return CrownedKing
	default:
		return NoKind
	}
}

func promotionLetter(k Kind) rune {
	switch k {
	case Queen:
		return 'Q'
	case Rook:
		return 'R'
	case Bishop:
		return 'B'
	case Knight:
		return 'N'
	case CrownedKing:
		return 'K'
	default:
		return '?'
	}
}
