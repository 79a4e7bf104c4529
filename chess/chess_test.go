package chess

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gridgames/boardgame"
	notnil "github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var algebraic = boardgame.AlgebraicNotation{}

func newGame(t *testing.T, moves string, options ...func(*boardgame.Game)) *boardgame.Game {
	t.Helper()
	g := boardgame.NewGame(New(), options...)
	require.NoError(t, g.Start())
	require.NoError(t, g.PushNotationMoves(moves, algebraic))
	return g
}

func encoded(g *boardgame.Game, moves []*boardgame.Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, algebraic.Encode(g, m))
	}
	slices.Sort(out)
	return out
}

// snapshot renders every observable part of the position.
func snapshot(g *boardgame.Game) string {
	var sb strings.Builder
	h, w := g.Dimensions()
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			for _, p := range g.PiecesAt(boardgame.Sq(row, col)) {
				fmt.Fprintf(&sb, "%d,%d:%d/%s/%d ", row, col, p.ID(), p.Kind(), p.Moves())
			}
		}
	}
	for _, p := range g.Players() {
		fmt.Fprintf(&sb, "\n%s:", p.Name)
		for _, pc := range p.Pieces() {
			fmt.Fprintf(&sb, " %d", pc.ID())
		}
	}
	fmt.Fprintf(&sb, "\nturn %s history %d", g.CurrentPlayer().Name, len(g.History()))
	return sb.String()
}

func TestStartPosition(t *testing.T) {
	g := newGame(t, "")
	white, black := g.Players()[0], g.Players()[1]
	assert.Len(t, white.Pieces(), 16)
	assert.Len(t, black.Pieces(), 16)
	assert.Equal(t, boardgame.King, g.PieceAt(boardgame.Sq(7, 4)).Kind())
	assert.Equal(t, black, g.PieceAt(boardgame.Sq(0, 3)).Owner())
	assert.Equal(t, boardgame.Light, g.Board().Shade(boardgame.Sq(0, 0)))
	assert.Len(t, white.LegalMoves(), 20)
	assert.Len(t, black.LegalMoves(), 20)
	assert.Equal(t, white, g.CurrentPlayer())
}

func TestInvalidBoardSize(t *testing.T) {
	g := boardgame.NewGame(New(), boardgame.WithBoardDimensions(10, 10))
	assert.ErrorIs(t, g.Start(), boardgame.ErrInvalidDimensions)
}

func TestPawnDoubleStepNeedsBothSquaresEmpty(t *testing.T) {
	g := newGame(t, "a2a3 b8c6 h2h3 c6d4")
	moves := encoded(g, g.Players()[0].LegalMoves())
	assert.Contains(t, moves, "d2d3")
	assert.NotContains(t, moves, "d2d4")
}

func TestEnPassant(t *testing.T) {
	g := newGame(t, "e2e4 a7a6 e4e5 d7d5")
	white := g.Players()[0]
	pawn := g.PieceAt(boardgame.Sq(3, 4))
	victim := g.PieceAt(boardgame.Sq(3, 3))
	require.Equal(t, 1, victim.Moves())

	var ep *boardgame.Move
	for _, m := range white.LegalMoves() {
		if m.Piece() == pawn && m.To() == boardgame.Sq(2, 3) {
			ep = m
		}
	}
	require.NotNil(t, ep, "en passant capture to 2, 3")
	assert.Equal(t, victim, ep.First().Captured)

	before := snapshot(g)
	require.NoError(t, g.Move(ep))
	assert.Nil(t, g.PieceAt(boardgame.Sq(3, 3)))
	assert.False(t, victim.OnBoard())
	assert.Equal(t, pawn, g.PieceAt(boardgame.Sq(2, 3)))
	assert.Len(t, g.Players()[1].Pieces(), 15)

	g.Undo(false)
	assert.Equal(t, before, snapshot(g))
	assert.Equal(t, victim, g.PieceAt(boardgame.Sq(3, 3)))
}

func TestEnPassantOnlyImmediately(t *testing.T) {
	g := newGame(t, "e2e4 a7a6 e4e5 d7d5 h2h3 h7h6")
	assert.NotContains(t, encoded(g, g.Players()[0].LegalMoves()), "e5d6")
}

func TestCastling(t *testing.T) {
	g := newGame(t, "e2e4 e7e5 g1f3 b8c6 f1c4 g8f6")
	white := g.Players()[0]
	king := g.PieceAt(boardgame.Sq(7, 4))
	rook := g.PieceAt(boardgame.Sq(7, 7))
	require.Contains(t, encoded(g, white.LegalMoves()), "e1g1")

	before := snapshot(g)
	require.NoError(t, g.PushNotationMove("e1g1", algebraic))
	last := g.LastMove()
	require.Len(t, last.Steps(), 2)
	assert.Equal(t, rook, last.Steps()[1].Piece)
	assert.Equal(t, king, g.PieceAt(boardgame.Sq(7, 6)))
	assert.Equal(t, rook, g.PieceAt(boardgame.Sq(7, 5)))
	assert.Equal(t, g.Players()[1], g.CurrentPlayer())

	g.Undo(false)
	assert.Equal(t, before, snapshot(g))
	assert.Equal(t, 0, rook.Moves())
	assert.Equal(t, 0, king.Moves())
}

func TestCastlingNeedsUnmovedRook(t *testing.T) {
	g := newGame(t, "e2e4 e7e5 g1f3 b8c6 f1c4 g8f6 h1g1 f8c5 g1h1 d7d6")
	assert.NotContains(t, encoded(g, g.Players()[0].LegalMoves()), "e1g1")
}

func TestCastlingThroughAttackedSquare(t *testing.T) {
	g := newGame(t, "e2e3 b7b6 g2g3 c8a6 f1g2 a7a5 g1f3 a5a4")
	white := g.Players()[0]
	assert.True(t, Attacked(g, boardgame.Sq(7, 5), white))
	assert.False(t, Attacked(g, boardgame.Sq(7, 4), white))
	moves := encoded(g, white.LegalMoves())
	assert.NotContains(t, moves, "e1g1")
	assert.NotContains(t, moves, "e1f1")
}

func TestNoSelfCheck(t *testing.T) {
	g := newGame(t, "e2e4 e7e5 d2d3 f8b4")
	white := g.Players()[0]
	require.True(t, InCheck(g, white))

	moves := white.LegalMoves()
	require.NotEmpty(t, moves)
	for _, m := range moves {
		g.Simulate(m, func() {
			assert.False(t, InCheck(g, white), "%s leaves the king attacked", m)
		})
	}
	encodedMoves := encoded(g, moves)
	assert.Contains(t, encodedMoves, "c2c3")
	assert.Contains(t, encodedMoves, "c1d2")
	assert.NotContains(t, encodedMoves, "g1f3")
}

func TestPromotion(t *testing.T) {
	var rec boardgame.Recorder
	g := newGame(t, "a2a4 b7b5 a4b5 a7a6 b5a6 c8b7 a6b7 g8f6", boardgame.WithObserver(rec.Observe))
	white, black := g.Players()[0], g.Players()[1]
	pawn := g.PieceAt(boardgame.Sq(1, 1))
	rook := g.PieceAt(boardgame.Sq(0, 0))
	before := snapshot(g)

	rec.Reset()
	require.NoError(t, g.PushNotationMove("b7a8", algebraic))
	queen := g.PieceAt(boardgame.Sq(0, 0))
	require.NotNil(t, queen)
	assert.Equal(t, boardgame.Queen, queen.Kind())
	assert.Equal(t, white, queen.Owner())
	assert.False(t, pawn.OnBoard())
	assert.False(t, rook.OnBoard())
	assert.Len(t, g.LastMove().Steps(), 2)
	assert.Contains(t, white.Pieces(), queen)
	assert.NotContains(t, white.Pieces(), pawn)
	assert.Equal(t, []boardgame.EventType{
		boardgame.EventPromotion, boardgame.EventMove, boardgame.EventMove, boardgame.EventTurn,
	}, rec.Types())

	g.Undo(false)
	assert.Equal(t, before, snapshot(g))
	assert.False(t, queen.OnBoard())
	assert.Equal(t, rook, g.PieceAt(boardgame.Sq(0, 0)))
	assert.Len(t, black.Pieces(), 13)

	require.NoError(t, g.PushNotationMove("b7a8n", algebraic))
	assert.Equal(t, boardgame.Knight, g.PieceAt(boardgame.Sq(0, 0)).Kind())
}

func TestCheckmate(t *testing.T) {
	var rec boardgame.Recorder
	g := newGame(t, "f2f3 e7e5 g2g4 d8h4", boardgame.WithObserver(rec.Observe))
	black := g.Players()[1]
	assert.Equal(t, boardgame.Won, g.Outcome())
	assert.Equal(t, boardgame.Checkmate, g.Method())
	assert.Equal(t, black, g.Winner())
	assert.Contains(t, rec.Types(), boardgame.EventWin)
	assert.ErrorIs(t, g.PushNotationMove("a2a3", algebraic), boardgame.ErrGameOver)

	g.Undo(false)
	assert.Equal(t, boardgame.NoOutcome, g.Outcome())
	assert.Nil(t, g.Winner())
	assert.Equal(t, black, g.CurrentPlayer())
}

func TestStalemate(t *testing.T) {
	var rec boardgame.Recorder
	g := newGame(t, "e2e3 a7a5 d1h5 a8a6 h5a5 h7h5 h2h4 a6h6 a5c7 f7f6 c7d7 e8f7 d7b7 d8d3 b7b8 d3h7 b8c8 f7g6 c8e6",
		boardgame.WithObserver(rec.Observe))
	assert.Equal(t, boardgame.Drawn, g.Outcome())
	assert.Equal(t, boardgame.Stalemate, g.Method())
	assert.Nil(t, g.Winner())
	assert.False(t, InCheck(g, g.Players()[1]))
	assert.Contains(t, rec.Types(), boardgame.EventStalemate)
}

func TestApplyUndoRestoresOpening(t *testing.T) {
	g := newGame(t, "e2e4 d7d5")
	before := snapshot(g)
	for _, m := range g.CurrentPlayer().LegalMoves() {
		require.NoError(t, g.Move(m))
		g.Undo(false)
		require.Equal(t, before, snapshot(g), "after %s", m)
	}
}

func TestSimulationIsSilent(t *testing.T) {
	var rec boardgame.Recorder
	g := newGame(t, "e2e4", boardgame.WithObserver(rec.Observe))
	rec.Reset()
	before := snapshot(g)
	for _, m := range g.LegalMoves(g.CurrentPlayer()) {
		g.Simulate(m, func() {})
	}
	assert.Empty(t, rec.Events)
	assert.Equal(t, before, snapshot(g))
}

func TestIllegalMoves(t *testing.T) {
	g := newGame(t, "")
	assert.ErrorIs(t, g.PushNotationMove("e2e5", algebraic), boardgame.ErrIllegalMove)
	assert.ErrorIs(t, g.PushNotationMove("e7e5", algebraic), boardgame.ErrWrongPlayer)
	assert.ErrorIs(t, g.PushNotationMove("e3e4", algebraic), boardgame.ErrIllegalMove)
	assert.ErrorIs(t, g.PushNotationMove("z9e4", algebraic), boardgame.ErrNotation)
	assert.Empty(t, g.History())
}

// TestAgainstReferenceEngine compares legal move sets with an independent
// chess implementation after every move of a few games.
func TestAgainstReferenceEngine(t *testing.T) {
	games := []string{
		"e2e4 e7e5 g1f3 b8c6 f1c4 g8f6 e1g1 f8c5 d2d4 e5d4 e4e5 d7d5 e5d6",
		"d2d4 d7d5 c2c4 e7e6 b1c3 g8f6 c1g5 f8e7 e2e3 e8g8 g1f3 b8d7 a1c1 c7c6",
		"a2a4 b7b5 a4b5 a7a6 b5a6 c8b7 a6b7 g8f6 b7a8q",
		"e2e3 a7a5 d1h5 a8a6 h5a5 h7h5 h2h4 a6h6 a5c7 f7f6 c7d7 e8f7 d7b7 d8d3 b7b8 d3h7 b8c8 f7g6 c8e6",
	}
	for _, line := range games {
		g := newGame(t, "")
		ref := notnil.NewGame(notnil.UseNotation(notnil.UCINotation{}))
		for _, mv := range strings.Fields(line) {
			require.Equal(t, referenceMoves(ref), encoded(g, g.CurrentPlayer().LegalMoves()), "before %s in %s", mv, line)
			require.NoError(t, ref.MoveStr(mv))
			require.NoError(t, g.PushNotationMove(mv, algebraic), "%s in %s", mv, line)
		}
		if g.Outcome() == boardgame.NoOutcome {
			require.Equal(t, referenceMoves(ref), encoded(g, g.CurrentPlayer().LegalMoves()), "end of %s", line)
		}
	}
}

func referenceMoves(g *notnil.Game) []string {
	set := map[string]struct{}{}
	for _, m := range g.ValidMoves() {
		set[m.S1().String()+m.S2().String()] = struct{}{}
	}
	out := maps.Keys(set)
	slices.Sort(out)
	return out
}
