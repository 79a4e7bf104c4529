package boardgame

// EventType identifies a game lifecycle notification.
type EventType string

const (
	EventStart     EventType = "start"
	EventMove      EventType = "move"      // one step of a move has been applied
	EventUndo      EventType = "undo"      // one step of a move has been undone
	EventTurn      EventType = "turn"      // the current player changed
	EventPromotion EventType = "promotion" // the move promotes its piece
	EventWin       EventType = "win"
	EventStalemate EventType = "stalemate"
)

// An Event is delivered synchronously to every observer. Move and Step
// are set for move, undo and promotion events; Player is the mover, the
// new current player or the winner.
type Event struct {
	Type   EventType
	Game   *Game
	Move   *Move
	Step   int
	Player *Player
}

// An Observer receives events. Observers must not apply or undo moves.
type Observer func(Event)

// ChannelObserver forwards events to ch. The send blocks, so ch must be
// buffered or drained by another goroutine.
func ChannelObserver(ch chan<- Event) Observer {
	return func(e Event) {
		ch <- e
	}
}

// An EventQueue is a caller-owned buffered channel of events. Its Observe
// method drops events once the buffer is full so that a stalled consumer
// cannot block a game.
type EventQueue chan Event

// NewEventQueue returns a queue buffering up to size events.
func NewEventQueue(size int) EventQueue {
	return make(EventQueue, size)
}

// Observe implements Observer.
func (q EventQueue) Observe(e Event) {
	select {
	case q <- e:
	default:
	}
}

// A Recorder keeps every event it observes.
type Recorder struct {
	Events []Event
}

// Observe implements Observer.
func (r *Recorder) Observe(e Event) {
	r.Events = append(r.Events, e)
}

// Types returns the recorded event types in order.
func (r *Recorder) Types() []EventType {
	out := make([]EventType, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Type
	}
	return out
}

// Reset forgets the recorded events.
func (r *Recorder) Reset() {
	r.Events = nil
}
