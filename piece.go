package boardgame

import "fmt"

// A Kind is the type tag of a piece. Each game uses its own subset.
type Kind uint8

const (
	// NoKind is the zero value.
	NoKind Kind = iota
	// Chess pieces.
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
	// Man is an uncrowned checkers piece.
	Man
	// CrownedKing is a promoted checkers piece.
	CrownedKing
	// Token is a race game playing piece.
	Token
)

var kindNames = [...]string{
	NoKind:      "None",
	Pawn:        "Pawn",
	Knight:      "Knight",
	Bishop:      "Bishop",
	Rook:        "Rook",
	Queen:       "Queen",
	King:        "King",
	Man:         "Man",
	CrownedKing: "Crowned King",
	Token:       "Token",
}

var kindSymbols = [...]rune{
	NoKind:      ' ',
	Pawn:        '♟',
	Knight:      '♞',
	Bishop:      '♝',
	Rook:        '♜',
	Queen:       '♛',
	King:        '♚',
	Man:         '⛂',
	CrownedKing: '⛃',
	Token:       '●',
}

// String implements the fmt.Stringer interface.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Symbol returns the display glyph of the kind.
func (k Kind) Symbol() rune {
	if int(k) < len(kindSymbols) {
		return kindSymbols[k]
	}
	return '?'
}

// A Piece is owned by one player for its whole lifetime. The game state
// machine is the only writer of its square and move counter.
type Piece struct {
	id     int
	owner  *Player
	kind   Kind
	square Square
	moves  int
	placed bool
}

// ID returns the identifier assigned by the game that created the piece.
func (p *Piece) ID() int { return p.id }

// Owner returns the player owning the piece.
func (p *Piece) Owner() *Player { return p.owner }

// Kind returns the type tag of the piece.
func (p *Piece) Kind() Kind { return p.kind }

// Square returns the current square, or the last one if the piece has
// been captured.
func (p *Piece) Square() Square { return p.square }

// Moves returns how many steps the piece has made.
func (p *Piece) Moves() int { return p.moves }

// OnBoard reports whether the piece currently occupies a cell.
func (p *Piece) OnBoard() bool { return p.placed }

// String implements the fmt.Stringer interface.
func (p *Piece) String() string {
	return fmt.Sprintf("%s %s %s", p.owner.Name, p.kind, p.square)
}
