package boardgame

// Rules is the game-specific half of the engine. The game state machine
// drives every game through the same apply and undo algorithm and asks the
// rules what is legal, when a turn ends and whether someone has won.
type Rules interface {
	// Dimensions returns the default board height and width.
	Dimensions() (height, width int)
	// Setup places the initial pieces of p.
	Setup(g *Game, p *Player) error
	// Moves returns the legal moves of piece in the current position.
	Moves(g *Game, piece *Piece) []*Move
	// TurnOver reports whether m, which has just been applied, ends the
	// turn of its mover.
	TurnOver(g *Game, m *Move) bool
	// Outcome is evaluated after every non-simulated move made by mover.
	Outcome(g *Game, mover *Player) (Outcome, Method)
}

// Promoter is implemented by rules with promotion.
type Promoter interface {
	// Promotion reports whether m promotes its piece and the default kind.
	Promotion(g *Game, m *Move) (Kind, bool)
	// PromotionOptions lists the kinds a piece may be promoted to.
	PromotionOptions() []Kind
}

// Configurable is implemented by rules with game-specific options. Options
// maps each option name to its allowed values; a nil slice accepts free
// numeric input.
type Configurable interface {
	Options() map[string][]string
	ApplyOptions(g *Game, selected map[string]string) error
}

// Shader is implemented by rules that shade the board themselves. Other
// games get a checkerboard.
type Shader interface {
	Shade(g *Game, b *Board)
}

// MoveFilter is implemented by rules whose constraints span several
// pieces, such as a forced capture.
type MoveFilter interface {
	FilterMoves(g *Game, p *Player, moves []*Move) []*Move
}

// MoveGate is implemented by rules that can refuse any move at all, such
// as a dice game before the dice are rolled.
type MoveGate interface {
	CanMove(g *Game) error
}

// TurnHook is implemented by rules keeping turn state outside the board.
// Undone must exactly reverse Applied.
type TurnHook interface {
	Applied(g *Game, m *Move)
	Undone(g *Game, m *Move)
}
