package boardgame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinateNotation(t *testing.T) {
	g := startGame(t, newKingRules())
	n := CoordinateNotation{}

	m, err := n.Decode(g, " 2,0-1,1 ")
	require.NoError(t, err)
	assert.Equal(t, g.PieceAt(Sq(2, 0)), m.Piece())
	assert.Equal(t, Sq(1, 1), m.To())
	assert.Equal(t, "2,0-1,1", n.Encode(g, m))

	m, err = n.Decode(g, "2,0-1,0=n")
	require.NoError(t, err)
	assert.Equal(t, Knight, m.Promote)
	assert.Equal(t, "2,0-1,0=N", n.Encode(g, m))

	for _, s := range []string{"2,0", "2,0-1", "a,b-1,1", "2,0-1,1=X", "2,0-1,1=QQ"} {
		_, err := n.Decode(g, s)
		assert.ErrorIs(t, err, ErrNotation, s)
	}
	_, err = n.Decode(g, "1,1-0,1")
	assert.ErrorIs(t, err, ErrIllegalMove)
}

func TestAlgebraicNotation(t *testing.T) {
	g := startGame(t, newKingRules())
	n := AlgebraicNotation{}

	m, err := n.Decode(g, "a1b2")
	require.NoError(t, err)
	assert.Equal(t, Sq(2, 0), m.From())
	assert.Equal(t, Sq(1, 1), m.To())
	assert.Equal(t, "a1b2", n.Encode(g, m))

	for _, s := range []string{"a1", "a1b2qq", "a1d2", "a0b1", "a1b2x"} {
		_, err := n.Decode(g, s)
		assert.ErrorIs(t, err, ErrNotation, s)
	}
}

func TestPushNotationMoves(t *testing.T) {
	g := startGame(t, newKingRules())
	require.NoError(t, g.PushNotationMoves("a1a2, c3c2 *", AlgebraicNotation{}))
	assert.Len(t, g.History(), 2)

	err := g.PushNotationMoves("a1b1 a2a3", AlgebraicNotation{})
	assert.ErrorIs(t, err, ErrWrongPlayer)
	assert.Contains(t, err.Error(), "move 2")
	assert.Len(t, g.History(), 3)
}
