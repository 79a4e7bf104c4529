package image

import (
	"bytes"
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/gridgames/boardgame"
	"github.com/gridgames/boardgame/checkers"
	"github.com/gridgames/boardgame/chess"
	"github.com/gridgames/boardgame/chutes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChessBoard(t *testing.T) {
	g := boardgame.NewGame(chess.New())
	require.NoError(t, g.Start())

	var buf bytes.Buffer
	yellow := color.RGBA{255, 255, 0, 255}
	require.NoError(t, SVG(&buf, g, MarkSquares(yellow, boardgame.Sq(6, 4)), SquareSize(40)))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `width="320"`)
	assert.Equal(t, 64, strings.Count(out, "<rect"))
	assert.Contains(t, out, "fill: #ffff00")
	assert.Equal(t, 2, strings.Count(out, string(boardgame.King.Symbol())))
	assert.Contains(t, out, g.ID().String())
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
}

func TestSquareColors(t *testing.T) {
	g := boardgame.NewGame(checkers.New())
	require.NoError(t, g.Start())

	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, g, SquareColors(color.White, color.Black)))
	out := buf.String()
	assert.Equal(t, 32, strings.Count(out, "fill: #ffffff\""))
	assert.Equal(t, 32, strings.Count(out, "fill: #000000\""))
}

func TestChutesLinks(t *testing.T) {
	r := chutes.New(chutes.WithLinks(chutes.Link{From: boardgame.Sq(7, 3), To: boardgame.Sq(2, 5)}))
	g := boardgame.NewGame(r)
	require.NoError(t, g.Start())

	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, g))
	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "fill: "+hex(linkPalette[0])))
	assert.Equal(t, 2, strings.Count(out, "<circle"))
}

func TestNotStarted(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, SVG(&buf, boardgame.NewGame(chess.New())), boardgame.ErrNotStarted)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteError(t *testing.T) {
	g := boardgame.NewGame(chess.New())
	require.NoError(t, g.Start())
	assert.EqualError(t, SVG(failingWriter{}, g), "disk full")
}
