package log

// MultiLogger fans one event stream out to several sinks, typically an
// .nlog FileLogger for later replay plus a ZerologAdapter for live
// console output.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger builds a MultiLogger over the given sinks. Nil entries
// are skipped, so callers can pass optional sinks unconditionally.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

// Log forwards the event to every sink in order.
func (m *MultiLogger) Log(event Event) {
	for _, l := range m.loggers {
		l.Log(event)
	}
}

var _ Logger = (*MultiLogger)(nil)
