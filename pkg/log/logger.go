package log

// Logger receives protocol capture events from the channel, the
// dispatcher and the subscriber registry. Log runs on the connection's
// read loop, so implementations must be safe for concurrent use and
// should return quickly; slow sinks belong behind a queue.
type Logger interface {
	Log(event Event)
}

// NoopLogger discards every event. The zero value is ready to use.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

var _ Logger = NoopLogger{}
