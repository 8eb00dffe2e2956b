package log

import (
	"github.com/rs/zerolog"
)

// ZerologAdapter writes protocol events to a zerolog.Logger at debug level.
// An alternative to SlogAdapter for applications already using zerolog.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter creates a new ZerologAdapter that writes to the given logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// Log writes the event to the zerolog logger at Debug level.
func (a *ZerologAdapter) Log(event Event) {
	e := a.logger.Debug().
		Str("conn_id", event.ConnectionID).
		Str("direction", event.Direction.String()).
		Str("layer", event.Layer.String()).
		Str("category", event.Category.String())

	if event.Port != "" {
		e = e.Str("port", event.Port)
	}
	if event.Model != "" {
		e = e.Str("model", event.Model)
	}

	switch {
	case event.Line != nil:
		e = e.Int("line_size", event.Line.Size).Bool("truncated", event.Line.Truncated)
	case event.Message != nil:
		e = e.Str("msg_type", event.Message.Type.String())
		if event.Message.Kind != "" {
			e = e.Str("kind", event.Message.Kind)
		}
		if event.Message.Body != "" {
			e = e.Str("body", event.Message.Body)
		}
		if event.Message.Zone != nil {
			e = e.Int("zone", *event.Message.Zone)
		}
		if event.Message.Source != nil {
			e = e.Int("source", *event.Message.Source)
		}
		if event.Message.ResponseTime != nil {
			e = e.Dur("response_time", *event.Message.ResponseTime)
		}
	case event.StateChange != nil:
		e = e.Str("entity", event.StateChange.Entity.String()).
			Str("old_state", event.StateChange.OldState).
			Str("new_state", event.StateChange.NewState)
		if event.StateChange.Reason != "" {
			e = e.Str("reason", event.StateChange.Reason)
		}
	case event.Error != nil:
		e = e.Str("error_layer", event.Error.Layer.String()).
			Str("error_msg", event.Error.Message).
			Str("error_context", event.Error.Context)
	}

	e.Msg("protocol")
}

// Compile-time interface satisfaction check.
var _ Logger = (*ZerologAdapter)(nil)
