// Package image renders a boardgame board as SVG.
package image

import (
	"fmt"
	"image/color"
	"io"
	"strconv"

	svg "github.com/ajstarks/svgo"
	"github.com/gridgames/boardgame"
)

// SVG writes an SVG image of the game's board to w. Options can change the
// square colours and highlight squares.
//
//	f, _ := os.Create("board.svg")
//	defer f.Close()
//	image.SVG(f, game, image.MarkSquares(yellow, game.LastMove().To()))
func SVG(w io.Writer, g *boardgame.Game, options ...func(*encoder)) error {
	b := g.Board()
	if b == nil {
		return boardgame.ErrNotStarted
	}
	e := &encoder{
		light: color.RGBA{235, 209, 166, 255},
		dark:  color.RGBA{165, 117, 80, 255},
		size:  45,
		marks: map[boardgame.Square]color.Color{},
	}
	for _, f := range options {
		f(e)
	}
	ew := &errWriter{w: w}
	e.encode(svg.New(ew), g, b)
	return ew.err
}

// SquareColors returns an option setting the colours of light and dark
// squares.
func SquareColors(light, dark color.Color) func(*encoder) {
	return func(e *encoder) {
		e.light = light
		e.dark = dark
	}
}

// MarkSquares returns an option painting sqs in c.
func MarkSquares(c color.Color, sqs ...boardgame.Square) func(*encoder) {
	return func(e *encoder) {
		for _, sq := range sqs {
			e.marks[sq] = c
		}
	}
}

// SquareSize returns an option setting the side of a square in pixels.
func SquareSize(px int) func(*encoder) {
	return func(e *encoder) {
		if px > 0 {
			e.size = px
		}
	}
}

// linkPalette colours the ends of chutes and ladders.
var linkPalette = []color.Color{
	color.RGBA{102, 194, 165, 255},
	color.RGBA{252, 141, 98, 255},
	color.RGBA{141, 160, 203, 255},
	color.RGBA{231, 138, 195, 255},
	color.RGBA{166, 216, 84, 255},
	color.RGBA{255, 217, 47, 255},
	color.RGBA{229, 196, 148, 255},
	color.RGBA{179, 179, 179, 255},
}

type encoder struct {
	light color.Color
	dark  color.Color
	size  int
	marks map[boardgame.Square]color.Color
}

func (e *encoder) encode(canvas *svg.SVG, g *boardgame.Game, b *boardgame.Board) {
	h, w := b.Dimensions()
	canvas.Start(w*e.size, h*e.size)
	canvas.Title(g.ID().String())
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			sq := boardgame.Sq(row, col)
			x, y := col*e.size, row*e.size
			canvas.Rect(x, y, e.size, e.size, "fill: "+hex(e.fill(b, sq)))
			if n, ok := b.Shade(sq).Link(); ok {
				canvas.Text(x+2, y+e.size/4, strconv.Itoa(n+1), "font-size: 9px; fill: #333")
			}
			e.drawPieces(canvas, b.PiecesAt(sq), x, y)
		}
	}
	canvas.End()
}

func (e *encoder) fill(b *boardgame.Board, sq boardgame.Square) color.Color {
	if c, ok := e.marks[sq]; ok {
		return c
	}
	shade := b.Shade(sq)
	if n, ok := shade.Link(); ok {
		return linkPalette[n%len(linkPalette)]
	}
	if shade == boardgame.Dark {
		return e.dark
	}
	return e.light
}

// drawPieces draws the pieces of one cell. Tokens sharing a cell are drawn
// side by side.
func (e *encoder) drawPieces(canvas *svg.SVG, pieces []*boardgame.Piece, x, y int) {
	for i, p := range pieces {
		fill := p.Owner().Color
		if p.Kind() == boardgame.Token {
			r := e.size / 6
			cx := x + r + 2 + (i%3)*(2*r+2)
			cy := y + e.size - r - 2 - (i/3)*(2*r+2)
			canvas.Circle(cx, cy, r, fmt.Sprintf("fill: %s; stroke: #000", fill))
			continue
		}
		canvas.Text(x+e.size/2, y+e.size*3/4, string(p.Kind().Symbol()),
			fmt.Sprintf("text-anchor: middle; font-size: %dpx; fill: %s; stroke: #000", e.size*2/3, fill))
	}
}

func hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}
