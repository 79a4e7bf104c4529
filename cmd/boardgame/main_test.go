package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func play(t *testing.T, cfg config, input string) string {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	var out bytes.Buffer
	require.NoError(t, run(cfg, strings.NewReader(input), &out, log))
	return out.String()
}

func TestFoolsMate(t *testing.T) {
	out := play(t, config{game: "chess"}, "f2f3\ne7e5\ng2g4\nd8h4\ne2e4\n")
	assert.Contains(t, out, " 7  R N B Q K B N R")
	assert.Contains(t, out, "Player 1 to move> ")
	assert.True(t, strings.HasSuffix(out, "Player 2 won by checkmate\n"))
}

func TestCommands(t *testing.T) {
	out := play(t, config{game: "chess"}, "e2e5\nroll\nundo\ne2e4\nundo\nmoves\nquit\ne2e4\n")
	assert.Contains(t, out, ": boardgame: illegal move")
	assert.Contains(t, out, "error: this game has no dice")
	assert.Contains(t, out, "error: nothing to undo")
	assert.Contains(t, out, "  g1f3  ")
	assert.Equal(t, 6, strings.Count(out, "Player 1 to move> "))
}

func TestCheckersVariant(t *testing.T) {
	out := play(t, config{game: "checkers", variant: "International Draughts"}, "6,1-5,0\n")
	assert.Contains(t, out, " 9  M . M . M . M . M .")
	assert.Contains(t, out, "Player 2 to move> ")

	log, _ := logtest.NewNullLogger()
	err := run(config{game: "checkers", variant: "Flying Squirrels"}, strings.NewReader(""), &bytes.Buffer{}, log)
	assert.Error(t, err)
}

func TestChutes(t *testing.T) {
	out := play(t, config{game: "chutes", height: 4, width: 5}, "roll\n")
	assert.Contains(t, out, "Player 1 to roll> ")
	assert.Contains(t, out, "Player 1 rolled [")
	assert.Contains(t, out, " 3  2")
}

func TestRollAfterUndoPlaysPendingRoll(t *testing.T) {
	out := play(t, config{game: "chutes", height: 9, width: 9}, "roll\nundo\nroll\n")
	if strings.Contains(out, "error:") {
		t.Fatalf("expected no errors but got\n%s", out)
	}
	if n := strings.Count(out, "Player 1 rolled ["); n != 2 {
		t.Fatalf("expected the pending roll to be played twice but got %d", n)
	}
}

func TestUnknownGame(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	err := run(config{game: "go"}, strings.NewReader(""), &bytes.Buffer{}, log)
	assert.EqualError(t, err, `unknown game "go"`)
}

func TestWriteSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.svg")
	play(t, config{game: "chess", svg: path}, "")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "</svg>")
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger(config{logLevel: "loud", logFormat: "text"}, &bytes.Buffer{})
	assert.Error(t, err)
	_, err = newLogger(config{logLevel: "debug", logFormat: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)

	var buf bytes.Buffer
	log, err := newLogger(config{logLevel: "info", logFormat: "json"}, &buf)
	require.NoError(t, err)
	log.Info("ready")
	assert.Contains(t, buf.String(), `"msg":"ready"`)
}
