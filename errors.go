package boardgame

import "github.com/pkg/errors"

// Configuration errors are returned before a game starts.
var (
	ErrInvalidDimensions = errors.New("boardgame: board dimensions must be positive")
	ErrUnknownOption     = errors.New("boardgame: unknown option")
	ErrInvalidOption     = errors.New("boardgame: invalid option value")
	ErrAlreadyStarted    = errors.New("boardgame: game already started")
	ErrNotStarted        = errors.New("boardgame: game not started")
)

// Move errors are returned by Move and Play; the game state is left untouched.
var (
	ErrIllegalMove = errors.New("boardgame: illegal move")
	ErrWrongPlayer = errors.New("boardgame: piece does not belong to the current player")
	ErrGameOver    = errors.New("boardgame: game is over")
)

// Invariant violations. These are raised with panic since they mean the
// caller broke the state machine's contract.
var (
	ErrNoHistory   = errors.New("boardgame: undo with empty history")
	ErrReentrant   = errors.New("boardgame: apply or undo called from an observer")
	ErrUnknownSide = errors.New("boardgame: player is not seated in this game")
)
