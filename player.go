package boardgame

import "golang.org/x/exp/slices"

// A Player is a container for the pieces of one side together with a name
// and colour identifying that side. It holds no game logic; the rules
// compute its legal moves and the game caches them here.
type Player struct {
	Name   string
	Color  string
	pieces []*Piece
	legal  []*Move
}

// NewPlayer returns a player with no pieces.
func NewPlayer(name, color string) *Player {
	return &Player{Name: name, Color: color}
}

// Pieces returns the player's pieces in a stable order.
func (p *Player) Pieces() []*Piece {
	return slices.Clone(p.pieces)
}

// LegalMoves returns the cached legal moves of the player, as last
// computed by Game.LegalMoves.
func (p *Player) LegalMoves() []*Move {
	return p.legal
}

// String implements the fmt.Stringer interface.
func (p *Player) String() string {
	return p.Name
}

func (p *Player) insertPiece(pc *Piece, slot int) {
	if slot < 0 || slot > len(p.pieces) {
		slot = len(p.pieces)
	}
	p.pieces = slices.Insert(p.pieces, slot, pc)
}

// removePiece drops pc and returns its former index, or -1.
func (p *Player) removePiece(pc *Piece) int {
	idx := slices.Index(p.pieces, pc)
	if idx < 0 {
		return -1
	}
	p.pieces = slices.Delete(p.pieces, idx, idx+1)
	return idx
}

func (p *Player) reset() {
	p.pieces = nil
	p.legal = nil
}
