/*
Package chess implements the rules of chess for boardgame.

Legal moves are found in two passes. The line of sight of a piece holds
every square it can physically reach, including castling and en passant.
Each candidate is then simulated and dropped if it leaves the mover's king
attacked.

	game := boardgame.NewGame(chess.New())
	game.Start()
	game.PushNotationMove("e2e4", boardgame.AlgebraicNotation{})
*/
package chess

import (
	"github.com/gridgames/boardgame"
	"github.com/pkg/errors"
)

const size = 8

type delta struct{ dr, dc int }

var (
	rookDirs   = []delta{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	bishopDirs = []delta{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	queenDirs  = append(append([]delta{}, rookDirs...), bishopDirs...)
	knightJump = []delta{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	backRank   = []boardgame.Kind{
		boardgame.Rook, boardgame.Knight, boardgame.Bishop, boardgame.Queen,
		boardgame.King, boardgame.Bishop, boardgame.Knight, boardgame.Rook,
	}
	promotions = []boardgame.Kind{boardgame.Queen, boardgame.Rook, boardgame.Bishop, boardgame.Knight}
)

// Rules are the rules of chess. The first seated player plays white from
// the bottom of the board.
type Rules struct{}

// New returns the chess rules.
func New() *Rules {
	return &Rules{}
}

// Dimensions implements boardgame.Rules.
func (*Rules) Dimensions() (int, int) {
	return size, size
}

// Setup implements boardgame.Rules.
func (*Rules) Setup(g *boardgame.Game, p *boardgame.Player) error {
	if h, w := g.Dimensions(); h != size || w != size {
		return errors.Wrapf(boardgame.ErrInvalidDimensions, "chess is played on %dx%d, not %dx%d", size, size, h, w)
	}
	back, pawns := size-1, size-2
	if side(g, p) == 1 {
		back, pawns = 0, 1
	}
	for col, kind := range backRank {
		g.Place(p, kind, boardgame.Sq(back, col))
		g.Place(p, boardgame.Pawn, boardgame.Sq(pawns, col))
	}
	return nil
}

// Moves implements boardgame.Rules. It returns the line of sight of piece
// without the moves that leave its owner's king attacked.
func (r *Rules) Moves(g *boardgame.Game, piece *boardgame.Piece) []*boardgame.Move {
	if !piece.OnBoard() {
		return nil
	}
	candidates := LineOfSight(g, piece, true)
	legal := candidates[:0]
	for _, m := range candidates {
		safe := true
		g.Simulate(m, func() {
			safe = !InCheck(g, piece.Owner())
		})
		if safe {
			legal = append(legal, m)
		}
	}
	return legal
}

// TurnOver implements boardgame.Rules. Every chess move ends the turn.
func (*Rules) TurnOver(*boardgame.Game, *boardgame.Move) bool {
	return true
}

// Outcome implements boardgame.Rules. The game ends when the next player
// has no legal move: checkmate if their king is attacked, stalemate if not.
func (*Rules) Outcome(g *boardgame.Game, mover *boardgame.Player) (boardgame.Outcome, boardgame.Method) {
	next := g.PlayerAfter(mover)
	if len(g.LegalMoves(next)) > 0 {
		return boardgame.NoOutcome, boardgame.NoMethod
	}
	if InCheck(g, next) {
		return boardgame.Won, boardgame.Checkmate
	}
	return boardgame.Drawn, boardgame.Stalemate
}

// Promotion implements boardgame.Promoter. A pawn reaching the far rank
// becomes a queen unless the move selects another kind.
func (*Rules) Promotion(g *boardgame.Game, m *boardgame.Move) (boardgame.Kind, bool) {
	last := m.Last()
	if last.Piece.Kind() != boardgame.Pawn {
		return boardgame.NoKind, false
	}
	return boardgame.Queen, last.To.Row == farRank(g, last.Piece.Owner())
}

// PromotionOptions implements boardgame.Promoter.
func (*Rules) PromotionOptions() []boardgame.Kind {
	return promotions
}

// InCheck reports whether any king of p is attacked.
func InCheck(g *boardgame.Game, p *boardgame.Player) bool {
	for _, pc := range p.Pieces() {
		if pc.Kind() == boardgame.King && Attacked(g, pc.Square(), p) {
			return true
		}
	}
	return false
}

// Attacked reports whether a piece of an opponent of p could capture on
// sq. Castling never attacks and pawns attack their forward diagonals.
func Attacked(g *boardgame.Game, sq boardgame.Square, p *boardgame.Player) bool {
	for _, op := range g.Opponents(p) {
		for _, pc := range op.Pieces() {
			if attacks(g, pc, sq) {
				return true
			}
		}
	}
	return false
}

// LineOfSight returns every move piece could make ignoring the safety of
// its own king. Castling is included when castling is set.
func LineOfSight(g *boardgame.Game, piece *boardgame.Piece, castling bool) []*boardgame.Move {
	switch piece.Kind() {
	case boardgame.Rook:
		return slide(g, piece, rookDirs)
	case boardgame.Bishop:
		return slide(g, piece, bishopDirs)
	case boardgame.Queen:
		return slide(g, piece, queenDirs)
	case boardgame.Knight:
		return jump(g, piece, knightJump)
	case boardgame.King:
		moves := jump(g, piece, queenDirs)
		if castling {
			moves = append(moves, castle(g, piece)...)
		}
		return moves
	case boardgame.Pawn:
		return pawnMoves(g, piece)
	}
	return nil
}

func slide(g *boardgame.Game, piece *boardgame.Piece, dirs []delta) []*boardgame.Move {
	b := g.Board()
	var moves []*boardgame.Move
	for _, d := range dirs {
		for sq := piece.Square().Offset(d.dr, d.dc); b.Contains(sq); sq = sq.Offset(d.dr, d.dc) {
			target := b.PieceAt(sq)
			if target == nil {
				moves = append(moves, boardgame.NewMove(piece, sq, nil))
				continue
			}
			if target.Owner() != piece.Owner() {
				moves = append(moves, boardgame.NewMove(piece, sq, target))
			}
			break
		}
	}
	return moves
}

func jump(g *boardgame.Game, piece *boardgame.Piece, deltas []delta) []*boardgame.Move {
	b := g.Board()
	var moves []*boardgame.Move
	for _, d := range deltas {
		sq := piece.Square().Offset(d.dr, d.dc)
		if !b.Contains(sq) {
			continue
		}
		target := b.PieceAt(sq)
		if target == nil {
			moves = append(moves, boardgame.NewMove(piece, sq, nil))
		} else if target.Owner() != piece.Owner() {
			moves = append(moves, boardgame.NewMove(piece, sq, target))
		}
	}
	return moves
}

func pawnMoves(g *boardgame.Game, pawn *boardgame.Piece) []*boardgame.Move {
	b := g.Board()
	dir := forward(g, pawn.Owner())
	from := pawn.Square()
	var moves []*boardgame.Move

	one := from.Offset(dir, 0)
	if b.Empty(one) {
		moves = append(moves, boardgame.NewMove(pawn, one, nil))
		two := one.Offset(dir, 0)
		if pawn.Moves() == 0 && b.Empty(two) {
			moves = append(moves, boardgame.NewMove(pawn, two, nil))
		}
	}
	for _, dc := range []int{-1, 1} {
		diag := from.Offset(dir, dc)
		if target := b.PieceAt(diag); target != nil && target.Owner() != pawn.Owner() {
			moves = append(moves, boardgame.NewMove(pawn, diag, target))
		}
		if victim := enPassantVictim(g, pawn, dc); victim != nil && b.Empty(diag) {
			moves = append(moves, boardgame.NewMove(pawn, diag, victim).
				Describe(pawn.Owner().Name+" Pawn captured en passant from "+from.String()+" to "+diag.String()))
		}
	}
	return moves
}

// enPassantVictim returns the opposing pawn beside pawn in column offset
// dc that may be captured en passant, or nil.
func enPassantVictim(g *boardgame.Game, pawn *boardgame.Piece, dc int) *boardgame.Piece {
	dir := forward(g, pawn.Owner())
	startRow := size - 2
	if dir > 0 {
		startRow = 1
	}
	from := pawn.Square()
	if from.Row != startRow+3*dir {
		return nil
	}
	adj := g.Board().PieceAt(from.Offset(0, dc))
	if adj == nil || adj.Kind() != boardgame.Pawn || adj.Owner() == pawn.Owner() || adj.Moves() != 1 {
		return nil
	}
	last := g.LastMove()
	if last == nil || last.Piece() != adj {
		return nil
	}
	if d := last.To().Row - last.From().Row; d != 2 && d != -2 {
		return nil
	}
	return adj
}

func castle(g *boardgame.Game, king *boardgame.Piece) []*boardgame.Move {
	if king.Moves() != 0 {
		return nil
	}
	b := g.Board()
	from := king.Square()
	owner := king.Owner()
	if Attacked(g, from, owner) {
		return nil
	}
	var moves []*boardgame.Move
	for _, corner := range []int{0, b.Width() - 1} {
		rook := b.PieceAt(boardgame.Sq(from.Row, corner))
		if rook == nil || rook.Kind() != boardgame.Rook || rook.Owner() != owner || rook.Moves() != 0 {
			continue
		}
		dir := 1
		if corner < from.Col {
			dir = -1
		}
		between := true
		for col := from.Col + dir; col != corner; col += dir {
			if !b.Empty(boardgame.Sq(from.Row, col)) {
				between = false
				break
			}
		}
		transit := from.Offset(0, dir)
		dest := from.Offset(0, 2*dir)
		if !between || Attacked(g, transit, owner) || Attacked(g, dest, owner) {
			continue
		}
		wing := "kingside"
		if dir < 0 {
			wing = "queenside"
		}
		m := boardgame.NewMove(king, dest, nil).
			Then(boardgame.NewStep(rook, transit, nil)).
			Describe(owner.Name + " castled " + wing)
		moves = append(moves, m)
	}
	return moves
}

// attacks reports whether pc could capture a piece standing on sq.
func attacks(g *boardgame.Game, pc *boardgame.Piece, sq boardgame.Square) bool {
	from := pc.Square()
	dr, dc := sq.Row-from.Row, sq.Col-from.Col
	if dr == 0 && dc == 0 {
		return false
	}
	switch pc.Kind() {
	case boardgame.Pawn:
		return dr == forward(g, pc.Owner()) && (dc == 1 || dc == -1)
	case boardgame.Knight:
		return abs(dr)*abs(dc) == 2
	case boardgame.King:
		return abs(dr) <= 1 && abs(dc) <= 1
	case boardgame.Rook:
		return (dr == 0 || dc == 0) && clearPath(g, from, sq)
	case boardgame.Bishop:
		return abs(dr) == abs(dc) && clearPath(g, from, sq)
	case boardgame.Queen:
		return (dr == 0 || dc == 0 || abs(dr) == abs(dc)) && clearPath(g, from, sq)
	}
	return false
}

// clearPath reports whether every square strictly between from and to is
// empty. from and to must share a line or diagonal.
func clearPath(g *boardgame.Game, from, to boardgame.Square) bool {
	sr, sc := sign(to.Row-from.Row), sign(to.Col-from.Col)
	for sq := from.Offset(sr, sc); sq != to; sq = sq.Offset(sr, sc) {
		if !g.Board().Empty(sq) {
			return false
		}
	}
	return true
}

// side returns 0 for white and 1 for black.
func side(g *boardgame.Game, p *boardgame.Player) int {
	seat := g.Seat(p)
	if seat > 1 {
		panic(errors.Wrapf(boardgame.ErrUnknownSide, "chess has two sides, %s is seated %d", p, seat))
	}
	return seat
}

func forward(g *boardgame.Game, p *boardgame.Player) int {
	if side(g, p) == 0 {
		return -1
	}
	return 1
}

func farRank(g *boardgame.Game, p *boardgame.Player) int {
	if side(g, p) == 0 {
		return 0
	}
	return size - 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
