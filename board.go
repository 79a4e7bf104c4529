package boardgame

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// A Square is a (row, column) coordinate on a board. Row 0 is the top row.
type Square struct {
	Row int
	Col int
}

// Sq is shorthand for Square{Row: row, Col: col}.
func Sq(row, col int) Square {
	return Square{Row: row, Col: col}
}

// Offset returns the square dr rows and dc columns away from s.
func (s Square) Offset(dr, dc int) Square {
	return Square{Row: s.Row + dr, Col: s.Col + dc}
}

// String implements the fmt.Stringer interface.
func (s Square) String() string {
	return fmt.Sprintf("%d, %d", s.Row, s.Col)
}

// A Shade is the rendering attribute of a board cell. It has no effect on
// the rules; values from LinkShade upwards mark paired squares such as
// the two ends of a chute or ladder.
type Shade int

const (
	// Light is the colour of the top left square of a checkerboard.
	Light Shade = iota
	// Dark is the other checkerboard colour.
	Dark
	linkShadeBase
)

// LinkShade returns the shade used for the n-th pair of linked squares.
func LinkShade(n int) Shade {
	return linkShadeBase + Shade(n)
}

// Link returns the link index of a shade made by LinkShade and true, or
// false for plain checkerboard shades.
func (s Shade) Link() (int, bool) {
	if s < linkShadeBase {
		return 0, false
	}
	return int(s - linkShadeBase), true
}

type cell struct {
	pieces []*Piece
	shade  Shade
}

// A Board is a fixed height x width grid. Every cell holds an ordered
// collection of pieces; most games keep at most one piece per cell but the
// board does not assume it.
type Board struct {
	height int
	width  int
	cells  []cell
}

// NewBoard returns an empty board with the given dimensions.
func NewBoard(height, width int) (*Board, error) {
	if height <= 0 || width <= 0 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "%dx%d", height, width)
	}
	return &Board{
		height: height,
		width:  width,
		cells:  make([]cell, height*width),
	}, nil
}

// Dimensions returns the board height and width.
func (b *Board) Dimensions() (height, width int) {
	return b.height, b.width
}

// Height returns the number of rows.
func (b *Board) Height() int { return b.height }

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// Contains reports whether sq lies on the board.
func (b *Board) Contains(sq Square) bool {
	return sq.Row >= 0 && sq.Row < b.height && sq.Col >= 0 && sq.Col < b.width
}

// PiecesAt returns the pieces occupying sq in arrival order, or nil when sq
// is off the board.
func (b *Board) PiecesAt(sq Square) []*Piece {
	if !b.Contains(sq) {
		return nil
	}
	return slices.Clone(b.at(sq).pieces)
}

// PieceAt returns the first piece occupying sq, or nil.
func (b *Board) PieceAt(sq Square) *Piece {
	if !b.Contains(sq) {
		return nil
	}
	c := b.at(sq)
	if len(c.pieces) == 0 {
		return nil
	}
	return c.pieces[0]
}

// Empty reports whether sq is on the board and unoccupied.
func (b *Board) Empty(sq Square) bool {
	return b.Contains(sq) && len(b.at(sq).pieces) == 0
}

// Shade returns the rendering attribute of sq.
func (b *Board) Shade(sq Square) Shade {
	if !b.Contains(sq) {
		return Light
	}
	return b.at(sq).shade
}

// SetShade sets the rendering attribute of sq.
func (b *Board) SetShade(sq Square, s Shade) {
	if b.Contains(sq) {
		b.at(sq).shade = s
	}
}

// Checkerboard shades the board so that squares whose row and column sum
// is even are Light.
func (b *Board) Checkerboard() {
	for row := 0; row < b.height; row++ {
		for col := 0; col < b.width; col++ {
			shade := Light
			if (row+col)%2 == 1 {
				shade = Dark
			}
			b.at(Sq(row, col)).shade = shade
		}
	}
}

func (b *Board) at(sq Square) *cell {
	return &b.cells[sq.Row*b.width+sq.Col]
}

// insert puts p into the cell at sq at position slot (appending when slot
// is out of range) and records sq on the piece.
func (b *Board) insert(p *Piece, sq Square, slot int) {
	c := b.at(sq)
	if slot < 0 || slot > len(c.pieces) {
		slot = len(c.pieces)
	}
	c.pieces = slices.Insert(c.pieces, slot, p)
	p.square = sq
	p.placed = true
}

// remove takes p out of its cell and returns the position it held there,
// or -1 when p was not on the board. The piece keeps its last square.
func (b *Board) remove(p *Piece) int {
	if !p.placed || !b.Contains(p.square) {
		return -1
	}
	c := b.at(p.square)
	idx := slices.Index(c.pieces, p)
	if idx < 0 {
		return -1
	}
	c.pieces = slices.Delete(c.pieces, idx, idx+1)
	p.placed = false
	return idx
}
