package log

import (
	"time"
)

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID uniquely identifies the channel session (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Port is the serial device path or bridge address (host:port).
	Port string `cbor:"6,keyasint,omitempty"`

	// Model is the amplifier model (populated after version exchange).
	Model string `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Line        *LineEvent        `cbor:"8,keyasint,omitempty"`  // Transport layer
	Message     *MessageEvent     `cbor:"9,keyasint,omitempty"`  // Wire layer (classified)
	StateChange *StateChangeEvent `cbor:"10,keyasint,omitempty"` // Connection/channel state
	Error       *ErrorEventData   `cbor:"11,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming line.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing command.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which protocol layer captured the event.
type Layer uint8

const (
	// LayerTransport is the line framing layer (raw bytes).
	LayerTransport Layer = 0
	// LayerWire is the grammar layer (classified messages, encoded commands).
	LayerWire Layer = 1
	// LayerSession is the channel/controller layer.
	LayerSession Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerWire:
		return "WIRE"
	case LayerSession:
		return "SESSION"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a protocol message (command/response/event).
	CategoryMessage Category = 0
	// CategoryState indicates a state change.
	CategoryState Category = 1
	// CategoryError indicates an error event.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LineEvent captures one raw line at the transport layer.
type LineEvent struct {
	// Size is the line size in bytes (including terminator).
	Size int `cbor:"1,keyasint"`

	// Data is the raw line bytes (may be truncated for oversized lines).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// MessageEvent captures a classified message or encoded command at the
// wire layer.
type MessageEvent struct {
	// Type distinguishes command/response/event.
	Type MessageType `cbor:"1,keyasint"`

	// Kind is the message kind name for incoming messages
	// (e.g. "ZoneStatus") or empty for outgoing commands.
	Kind string `cbor:"2,keyasint,omitempty"`

	// Body is the unframed message or command body.
	Body string `cbor:"3,keyasint,omitempty"`

	// Zone is the zone number, when the message carries one.
	Zone *int `cbor:"4,keyasint,omitempty"`

	// Source is the source number, when the message carries one.
	Source *int `cbor:"5,keyasint,omitempty"`

	// ResponseTime is the duration from command send to terminal reply
	// (responses only). Stored as nanoseconds.
	ResponseTime *time.Duration `cbor:"6,keyasint,omitempty"`
}

// MessageType distinguishes command/response/event.
type MessageType uint8

const (
	// MessageTypeCommand indicates an outgoing command.
	MessageTypeCommand MessageType = 0
	// MessageTypeResponse indicates a reply correlated to a command.
	MessageTypeResponse MessageType = 1
	// MessageTypeEvent indicates an unsolicited device message.
	MessageTypeEvent MessageType = 2
)

// String returns the message type name.
func (m MessageType) String() string {
	switch m {
	case MessageTypeCommand:
		return "COMMAND"
	case MessageTypeResponse:
		return "RESPONSE"
	case MessageTypeEvent:
		return "EVENT"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures connection and channel lifecycle events.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityConnection indicates a connection state change.
	StateEntityConnection StateEntity = 0
	// StateEntityChannel indicates a command channel state change.
	StateEntityChannel StateEntity = 1
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityConnection:
		return "CONNECTION"
	case StateEntityChannel:
		return "CHANNEL"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
