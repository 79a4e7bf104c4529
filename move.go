package boardgame

import (
	"fmt"
	"strings"
)

// A Step is a single primitive relocation of a piece, optionally capturing
// another piece. A captured piece need not stand on the destination square
// (en passant).
type Step struct {
	Piece    *Piece
	From     Square
	To       Square
	Captured *Piece
	// Destroy marks a piece created for this step. Undoing the step removes
	// the piece from the game instead of moving it back.
	Destroy bool
	// Note overrides the generated description.
	Note string

	synthetic    bool
	took         bool // Captured was on the board when the step was applied
	fromSlot     int
	capturedSlot int
	ownerSlot    int
}

// NewStep returns a step moving p from its current square to to.
func NewStep(p *Piece, to Square, captured *Piece) Step {
	return Step{Piece: p, From: p.square, To: to, Captured: captured}
}

// String describes the step, e.g. "White Pawn moved from 6, 4 to 4, 4".
func (s Step) String() string {
	if s.Note != "" {
		return s.Note
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s moved from %s to %s", s.Piece.owner.Name, s.Piece.kind, s.From, s.To)
	if s.Captured != nil {
		fmt.Fprintf(&sb, ", capturing %s's %s", s.Captured.owner.Name, s.Captured.kind)
	}
	return sb.String()
}

// A Move is one atomic turn action: an ordered chain of steps applied
// first to last and undone last to first. Castling, promotion, chute and
// ladder teleports and forced resets are all expressed as chains.
type Move struct {
	steps []Step
	// Promote selects the kind a promoted piece becomes. The zero value
	// lets the rules pick their default.
	Promote Kind

	turnEnded bool
	note      string
}

// NewMove returns a single-step move of p to to.
func NewMove(p *Piece, to Square, captured *Piece) *Move {
	return &Move{steps: []Step{NewStep(p, to, captured)}}
}

// Then appends s to the chain and returns m.
func (m *Move) Then(s Step) *Move {
	m.steps = append(m.steps, s)
	return m
}

// Describe sets the description returned by String and returns m.
func (m *Move) Describe(note string) *Move {
	m.note = note
	return m
}

// Steps returns the steps of the chain.
func (m *Move) Steps() []Step {
	return m.steps
}

// First returns the first step of the chain.
func (m *Move) First() Step {
	return m.steps[0]
}

// Last returns the final step of the chain.
func (m *Move) Last() Step {
	return m.steps[len(m.steps)-1]
}

// Piece returns the piece that initiates the move.
func (m *Move) Piece() *Piece {
	return m.steps[0].Piece
}

// Mover returns the owner of the initiating piece.
func (m *Move) Mover() *Player {
	return m.steps[0].Piece.owner
}

// From returns the start square of the initiating piece.
func (m *Move) From() Square {
	return m.steps[0].From
}

// To returns the destination of the first step.
func (m *Move) To() Square {
	return m.steps[0].To
}

// Captures returns every piece captured along the chain.
func (m *Move) Captures() []*Piece {
	var out []*Piece
	for _, s := range m.steps {
		if s.Captured != nil {
			out = append(out, s.Captured)
		}
	}
	return out
}

// IsCapture reports whether the first step captures an opposing piece.
func (m *Move) IsCapture() bool {
	c := m.steps[0].Captured
	return c != nil && c.owner != m.steps[0].Piece.owner
}

// TurnEnded reports whether applying the move handed the turn on.
func (m *Move) TurnEnded() bool {
	return m.turnEnded
}

// String implements the fmt.Stringer interface.
func (m *Move) String() string {
	if m.note != "" {
		return m.note
	}
	parts := make([]string, 0, len(m.steps))
	for _, s := range m.steps {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, "; ")
}

// dropSynthetic removes steps appended by the game itself, so an undone
// move can be replayed unchanged.
func (m *Move) dropSynthetic() {
	n := len(m.steps)
	for n > 0 && m.steps[n-1].synthetic {
		n--
	}
	m.steps = m.steps[:n]
}
