/*
Package boardgame provides a turn-based rules engine for games played on a
rectangular grid: chess, checkers and its draughts variants, and a dice
race game. The game-specific rules live in the chess, checkers and chutes
packages; this package owns the board, the players, the move history and
the single apply/undo algorithm every game shares.
Example usage:

	// Create and start a game
	game := boardgame.NewGame(chess.New())
	if err := game.Start(); err != nil {
		log.Fatal(err)
	}

	// Make moves
	game.Play(boardgame.Sq(6, 4), boardgame.Sq(4, 4))

	// Check game status
	if game.Outcome() != boardgame.NoOutcome {
		fmt.Printf("Game ended: %s by %s\n", game.Outcome(), game.Method())
	}
*/
package boardgame

import (
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// A Outcome is the result of a game.
type Outcome string

const (
	// NoOutcome indicates that a game is in progress.
	NoOutcome Outcome = "*"
	// Won indicates that the player returned by Game.Winner won.
	Won Outcome = "won"
	// Drawn indicates that nobody won.
	Drawn Outcome = "drawn"
)

// String implements the fmt.Stringer interface.
func (o Outcome) String() string {
	return string(o)
}

// A Method is the method that generated the outcome.
type Method uint8

const (
	// NoMethod indicates that an outcome hasn't occurred.
	NoMethod Method = iota
	// NoLegalMoves indicates that the opponent of the winner cannot move.
	NoLegalMoves
	// Checkmate indicates that the opponent's king is attacked and it cannot move.
	Checkmate
	// Stalemate indicates that the player to move cannot move but is not in check.
	Stalemate
	// ReachedGoal indicates that the winner's piece reached the final square.
	ReachedGoal
)

var methodNames = [...]string{
	NoMethod:     "none",
	NoLegalMoves: "no legal moves",
	Checkmate:    "checkmate",
	Stalemate:    "stalemate",
	ReachedGoal:  "reached goal",
}

// String implements the fmt.Stringer interface.
func (m Method) String() string {
	if int(m) < len(methodNames) {
		return methodNames[m]
	}
	return "unknown"
}

// A Game owns the board, the seated players and the history of applied
// moves. It is not safe for concurrent use.
type Game struct {
	id        uuid.UUID
	rules     Rules
	board     *Board
	height    int
	width     int
	players   []*Player
	current   int
	history   []*Move
	observers []Observer
	outcome   Outcome
	method    Method
	winner    *Player
	decidedAt int  // history length when the outcome was decided
	nextID    int  // next piece id
	started   bool // set by Start
	notifying bool // set while observers run
}

// NewGame returns an unstarted game played under rules.
// Optional functions can be provided to configure the game before Start.
//
// Example:
//
//	game := NewGame(checkers.New(), WithPlayers(
//		NewPlayer("Alice", "white"),
//		NewPlayer("Bob", "black"),
//	))
func NewGame(rules Rules, options ...func(*Game)) *Game {
	g := &Game{
		id:        uuid.New(),
		rules:     rules,
		outcome:   NoOutcome,
		method:    NoMethod,
		decidedAt: -1,
		nextID:    1,
	}
	for _, f := range options {
		if f != nil {
			f(g)
		}
	}
	return g
}

// WithPlayers returns a Game option seating players in turn order.
func WithPlayers(players ...*Player) func(*Game) {
	return func(g *Game) {
		g.players = append(g.players[:0], players...)
	}
}

// WithObserver returns a Game option registering o.
func WithObserver(o Observer) func(*Game) {
	return func(g *Game) {
		g.AddObserver(o)
	}
}

// WithID returns a Game option replacing the generated game id.
func WithID(id uuid.UUID) func(*Game) {
	return func(g *Game) {
		g.id = id
	}
}

// WithBoardDimensions returns a Game option overriding the rules' default
// board size. Invalid sizes are reported by Start.
func WithBoardDimensions(height, width int) func(*Game) {
	return func(g *Game) {
		g.height, g.width = height, width
	}
}

// ID returns the game identifier.
func (g *Game) ID() uuid.UUID {
	return g.id
}

// Rules returns the rules the game is played under.
func (g *Game) Rules() Rules {
	return g.rules
}

// AddObserver registers o. Observers are called synchronously in
// registration order.
func (g *Game) AddObserver(o Observer) {
	if o != nil {
		g.observers = append(g.observers, o)
	}
}

// SetBoardDimensions sets the board size used by Start.
func (g *Game) SetBoardDimensions(height, width int) error {
	if g.started {
		return ErrAlreadyStarted
	}
	if height <= 0 || width <= 0 {
		return errors.Wrapf(ErrInvalidDimensions, "%dx%d", height, width)
	}
	g.height, g.width = height, width
	return nil
}

// Options returns the game-specific options of the rules, or nil.
func (g *Game) Options() map[string][]string {
	c, ok := g.rules.(Configurable)
	if !ok {
		return nil
	}
	return c.Options()
}

// OptionNames returns the option names in sorted order.
func (g *Game) OptionNames() []string {
	names := maps.Keys(g.Options())
	slices.Sort(names)
	return names
}

// ApplyOptions applies option values chosen by the caller. Every problem
// found is reported in a single aggregated error.
func (g *Game) ApplyOptions(selected map[string]string) error {
	if g.started {
		return ErrAlreadyStarted
	}
	known := g.Options()
	var result *multierror.Error
	keys := maps.Keys(selected)
	slices.Sort(keys)
	for _, k := range keys {
		allowed, ok := known[k]
		if !ok {
			result = multierror.Append(result, errors.Wrapf(ErrUnknownOption, "%q", k))
			continue
		}
		if allowed != nil && !slices.Contains(allowed, selected[k]) {
			result = multierror.Append(result, errors.Wrapf(ErrInvalidOption, "%s=%q", k, selected[k]))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return err
	}
	if c, ok := g.rules.(Configurable); ok {
		return c.ApplyOptions(g, selected)
	}
	return nil
}

// Start shades the board, places every player's initial pieces, computes
// the legal moves of each player and notifies observers. The first seated
// player moves first. Two default players are seated when none were given.
func (g *Game) Start() error {
	if g.started {
		return ErrAlreadyStarted
	}
	height, width := g.height, g.width
	if height == 0 && width == 0 {
		height, width = g.rules.Dimensions()
	}
	board, err := NewBoard(height, width)
	if err != nil {
		return err
	}
	if len(g.players) == 0 {
		g.players = []*Player{NewPlayer("Player 1", "white"), NewPlayer("Player 2", "black")}
	}

	g.board = board
	g.history = g.history[:0]
	g.current = 0
	g.outcome, g.method, g.winner, g.decidedAt = NoOutcome, NoMethod, nil, -1
	if s, ok := g.rules.(Shader); ok {
		s.Shade(g, board)
	} else {
		board.Checkerboard()
	}
	for _, p := range g.players {
		p.reset()
	}
	for _, p := range g.players {
		if err := g.rules.Setup(g, p); err != nil {
			return errors.Wrapf(err, "setup %s", p.Name)
		}
	}
	g.started = true
	for _, p := range g.players {
		g.LegalMoves(p)
	}
	g.emit(Event{Type: EventStart, Player: g.CurrentPlayer()})
	return nil
}

// Started reports whether Start succeeded.
func (g *Game) Started() bool {
	return g.started
}

// NewPiece creates a piece of kind for owner. The piece is not on the
// board until it is placed or moved there.
func (g *Game) NewPiece(owner *Player, kind Kind) *Piece {
	p := &Piece{id: g.nextID, owner: owner, kind: kind}
	g.nextID++
	return p
}

// Place creates a piece of kind for owner at sq. It is used while setting
// up the board.
func (g *Game) Place(owner *Player, kind Kind, sq Square) *Piece {
	p := g.NewPiece(owner, kind)
	g.board.insert(p, sq, -1)
	owner.insertPiece(p, -1)
	return p
}

// Board returns the game board. It is nil before Start.
func (g *Game) Board() *Board {
	return g.board
}

// Dimensions returns the board height and width.
func (g *Game) Dimensions() (height, width int) {
	if g.board == nil {
		return g.height, g.width
	}
	return g.board.Dimensions()
}

// PieceAt returns the first piece at sq, or nil.
func (g *Game) PieceAt(sq Square) *Piece {
	if g.board == nil {
		return nil
	}
	return g.board.PieceAt(sq)
}

// PiecesAt returns every piece at sq.
func (g *Game) PiecesAt(sq Square) []*Piece {
	if g.board == nil {
		return nil
	}
	return g.board.PiecesAt(sq)
}

// Players returns the seated players in turn order.
func (g *Game) Players() []*Player {
	return slices.Clone(g.players)
}

// CurrentPlayer returns the player whose turn it is.
func (g *Game) CurrentPlayer() *Player {
	if len(g.players) == 0 {
		return nil
	}
	return g.players[g.current]
}

// Seat returns the turn-order index of p. It panics with ErrUnknownSide if
// p is not seated.
func (g *Game) Seat(p *Player) int {
	idx := slices.Index(g.players, p)
	if idx < 0 {
		panic(errors.Wrap(ErrUnknownSide, p.Name))
	}
	return idx
}

// PlayerAfter returns the player seated after p.
func (g *Game) PlayerAfter(p *Player) *Player {
	return g.players[(g.Seat(p)+1)%len(g.players)]
}

// Opponents returns every seated player other than p.
func (g *Game) Opponents(p *Player) []*Player {
	out := make([]*Player, 0, len(g.players))
	for _, other := range g.players {
		if other != p {
			out = append(out, other)
		}
	}
	return out
}

// LastMove returns the most recent move, or nil.
func (g *Game) LastMove() *Move {
	if len(g.history) == 0 {
		return nil
	}
	return g.history[len(g.history)-1]
}

// History returns the applied moves, oldest first.
func (g *Game) History() []*Move {
	return slices.Clone(g.history)
}

// Outcome returns the game outcome.
func (g *Game) Outcome() Outcome {
	return g.outcome
}

// Method returns the method in which the outcome occurred.
func (g *Game) Method() Method {
	return g.method
}

// Winner returns the winning player, or nil.
func (g *Game) Winner() *Player {
	return g.winner
}

// LegalMoves recomputes, caches on p and returns the legal moves of p.
func (g *Game) LegalMoves(p *Player) []*Move {
	var moves []*Move
	for _, pc := range p.Pieces() {
		moves = append(moves, g.rules.Moves(g, pc)...)
	}
	if f, ok := g.rules.(MoveFilter); ok {
		moves = f.FilterMoves(g, p, moves)
	}
	p.legal = moves
	return moves
}

// Move validates m against the current player's legal moves and applies
// it. m may be one of the generated legal moves or any move whose first
// step names the same piece and destination. The game is not modified
// when an error is returned.
//
// Example:
//
//	moves := game.LegalMoves(game.CurrentPlayer())
//	if err := game.Move(moves[0]); err != nil {
//		panic(err)
//	}
func (g *Game) Move(m *Move) error {
	legal, err := g.validateMove(m)
	if err != nil {
		return err
	}
	if m.Promote != NoKind {
		legal.Promote = m.Promote
	}
	g.Apply(legal, false)
	return nil
}

// Play moves the current player's piece at from to to.
func (g *Game) Play(from, to Square) error {
	if !g.started {
		return ErrNotStarted
	}
	p := g.PieceAt(from)
	if p == nil {
		return errors.Wrapf(ErrIllegalMove, "no piece at %s", from)
	}
	return g.Move(NewMove(p, to, nil))
}

// validateMove returns the legal move matching m.
func (g *Game) validateMove(m *Move) (*Move, error) {
	if m == nil || len(m.steps) == 0 {
		return nil, errors.Wrap(ErrIllegalMove, "empty move")
	}
	if !g.started {
		return nil, ErrNotStarted
	}
	if g.outcome != NoOutcome {
		return nil, ErrGameOver
	}
	if gate, ok := g.rules.(MoveGate); ok {
		if err := gate.CanMove(g); err != nil {
			return nil, err
		}
	}
	current := g.CurrentPlayer()
	if m.Mover() != current {
		return nil, errors.Wrapf(ErrWrongPlayer, "%s to move", current.Name)
	}
	if slices.Contains(current.legal, m) {
		return m, nil
	}
	for _, legal := range g.LegalMoves(current) {
		if legal.Piece() == m.Piece() && legal.To() == m.To() {
			return legal, nil
		}
	}
	return nil, errors.Wrapf(ErrIllegalMove, "%s", m)
}

// Apply executes m without validation. A simulated application mutates the
// board and players exactly like a real one but notifies nobody, checks no
// win condition and performs no promotion; it must be paired with a
// simulated Undo before anything else touches the game. Prefer Simulate,
// which guarantees the pairing.
func (g *Game) Apply(m *Move, simulated bool) {
	if !simulated && g.notifying {
		panic(ErrReentrant)
	}
	g.history = append(g.history, m)

	if !simulated {
		if kind, ok := g.promotion(m); ok {
			g.appendPromotion(m, kind)
			g.emit(Event{Type: EventPromotion, Move: m, Step: len(m.steps) - 1, Player: m.Mover()})
		}
	}

	for i := range m.steps {
		s := &m.steps[i]
		g.capture(s)
		g.relocate(s)
		s.Piece.moves++
		if !simulated {
			g.emit(Event{Type: EventMove, Move: m, Step: i, Player: s.Piece.owner})
		}
	}

	mover := m.Mover()
	m.turnEnded = g.rules.TurnOver(g, m)
	if m.turnEnded {
		g.current = (g.current + 1) % len(g.players)
	}
	if h, ok := g.rules.(TurnHook); ok {
		h.Applied(g, m)
	}
	if simulated {
		return
	}

	g.evaluate(mover)
	g.LegalMoves(g.CurrentPlayer())
	if m.turnEnded {
		g.emit(Event{Type: EventTurn, Move: m, Player: g.CurrentPlayer()})
	}
}

// Undo reverses the most recent move. It panics with ErrNoHistory when
// there is nothing to undo.
func (g *Game) Undo(simulated bool) {
	if len(g.history) == 0 {
		panic(ErrNoHistory)
	}
	if !simulated && g.notifying {
		panic(ErrReentrant)
	}
	m := g.history[len(g.history)-1]
	turnEnded := m.turnEnded

	if h, ok := g.rules.(TurnHook); ok {
		h.Undone(g, m)
	}
	if turnEnded {
		g.current = (g.current - 1 + len(g.players)) % len(g.players)
	}

	for i := len(m.steps) - 1; i >= 0; i-- {
		s := &m.steps[i]
		if s.Destroy {
			g.board.remove(s.Piece)
			s.Piece.owner.removePiece(s.Piece)
		} else {
			g.board.remove(s.Piece)
			g.board.insert(s.Piece, s.From, s.fromSlot)
		}
		if c := s.Captured; c != nil && s.took {
			c.owner.insertPiece(c, s.ownerSlot)
			g.board.insert(c, c.square, s.capturedSlot)
		}
		s.Piece.moves--
		if !simulated {
			g.emit(Event{Type: EventUndo, Move: m, Step: i, Player: s.Piece.owner})
		}
	}

	m.turnEnded = false
	if !simulated {
		m.dropSynthetic()
	}
	if g.decidedAt == len(g.history) {
		g.outcome, g.method, g.winner, g.decidedAt = NoOutcome, NoMethod, nil, -1
	}
	g.history = g.history[:len(g.history)-1]
	if simulated {
		return
	}

	g.LegalMoves(g.CurrentPlayer())
	if turnEnded {
		g.emit(Event{Type: EventTurn, Move: m, Player: g.CurrentPlayer()})
	}
}

// CanUndo reports whether there is a move to undo.
func (g *Game) CanUndo() bool {
	return len(g.history) > 0
}

// Simulate applies m as a simulated move, calls inspect on the resulting
// position and always rolls the move back before returning.
func (g *Game) Simulate(m *Move, inspect func()) {
	g.Apply(m, true)
	defer g.Undo(true)
	inspect()
}

func (g *Game) capture(s *Step) {
	c := s.Captured
	if c == nil || !c.placed {
		s.took, s.capturedSlot, s.ownerSlot = false, -1, -1
		return
	}
	s.took = true
	s.capturedSlot = g.board.remove(c)
	s.ownerSlot = c.owner.removePiece(c)
}

func (g *Game) relocate(s *Step) {
	p := s.Piece
	if !p.placed && s.Destroy {
		// A piece created for this step enters the game here.
		p.owner.insertPiece(p, -1)
		s.fromSlot = -1
	} else {
		s.fromSlot = g.board.remove(p)
	}
	g.board.insert(p, s.To, -1)
}

func (g *Game) promotion(m *Move) (Kind, bool) {
	pr, ok := g.rules.(Promoter)
	if !ok {
		return NoKind, false
	}
	kind, ok := pr.Promotion(g, m)
	if !ok {
		return NoKind, false
	}
	if m.Promote != NoKind && slices.Contains(pr.PromotionOptions(), m.Promote) {
		kind = m.Promote
	}
	return kind, true
}

// appendPromotion chains a step in which a new piece of kind captures the
// promoted piece on its destination square.
func (g *Game) appendPromotion(m *Move, kind Kind) {
	last := m.Last()
	before := last.Piece
	after := g.NewPiece(before.owner, kind)
	m.steps = append(m.steps, Step{
		Piece:     after,
		From:      last.To,
		To:        last.To,
		Captured:  before,
		Destroy:   true,
		Note:      before.owner.Name + " " + before.kind.String() + " promoted to " + kind.String(),
		synthetic: true,
	})
}

// evaluate asks the rules for an outcome after a move by mover.
func (g *Game) evaluate(mover *Player) {
	if g.outcome != NoOutcome {
		return
	}
	outcome, method := g.rules.Outcome(g, mover)
	switch outcome {
	case Won:
		g.outcome, g.method, g.winner = Won, method, mover
		g.decidedAt = len(g.history)
		g.emit(Event{Type: EventWin, Move: g.LastMove(), Player: mover})
	case Drawn:
		g.outcome, g.method = Drawn, method
		g.decidedAt = len(g.history)
		g.emit(Event{Type: EventStalemate, Move: g.LastMove()})
	}
}

func (g *Game) emit(e Event) {
	if len(g.observers) == 0 {
		return
	}
	e.Game = g
	g.notifying = true
	defer func() { g.notifying = false }()
	for _, o := range g.observers {
		o(e)
	}
}
