package boardgame

import "github.com/sirupsen/logrus"

// LogObserver returns an observer writing every event to log as a
// structured entry. Move and undo events are logged at debug level, the
// rest at info level.
func LogObserver(log logrus.FieldLogger) Observer {
	return func(e Event) {
		fields := logrus.Fields{
			"game":  e.Game.ID().String(),
			"event": string(e.Type),
		}
		if e.Player != nil {
			fields["player"] = e.Player.Name
		}
		if e.Move != nil {
			fields["move"] = e.Move.String()
			if e.Type == EventMove || e.Type == EventUndo {
				fields["step"] = e.Move.steps[e.Step].String()
			}
		}
		entry := log.WithFields(fields)
		switch e.Type {
		case EventMove, EventUndo:
			entry.Debug("step")
		case EventWin:
			entry.Infof("%s won by %s", e.Player.Name, e.Game.Method())
		case EventStalemate:
			entry.Infof("game drawn by %s", e.Game.Method())
		default:
			entry.Info(string(e.Type))
		}
	}
}
