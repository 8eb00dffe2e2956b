package interaction

import (
	"github.com/nuvo-protocol/nuvo-go/pkg/wire"
)

// Expect describes the reply that completes a command.
type Expect struct {
	// Kind is the expected message kind.
	Kind wire.MsgKind

	// AltKinds lists additional kinds that also complete the command.
	// The device answers a keypad button command with a button event,
	// a zone status or a bare OK depending on firmware.
	AltKinds []wire.MsgKind

	// Key is the zone or source number the reply must carry.
	// Only checked when HasKey is set.
	Key int

	// HasKey indicates whether Key participates in matching.
	HasKey bool
}

// ExpectKind matches any reply of the given kind.
func ExpectKind(kind wire.MsgKind) Expect {
	return Expect{Kind: kind}
}

// ExpectKeyed matches a reply of the given kind carrying the given
// zone or source number.
func ExpectKeyed(kind wire.MsgKind, key int) Expect {
	return Expect{Kind: kind, Key: key, HasKey: true}
}

// ExpectAnyKeyed matches a reply of any of the given kinds. Replies that
// carry a zone or source number must carry the given one; keyless kinds
// match unconditionally.
func ExpectAnyKeyed(key int, kind wire.MsgKind, alt ...wire.MsgKind) Expect {
	return Expect{Kind: kind, AltKinds: alt, Key: key, HasKey: true}
}

func (e Expect) kindMatches(kind wire.MsgKind) bool {
	if kind == e.Kind {
		return true
	}
	for _, alt := range e.AltKinds {
		if kind == alt {
			return true
		}
	}
	return false
}

// Matches reports whether msg completes a command with this expectation.
func (e Expect) Matches(msg wire.Message) bool {
	if !e.kindMatches(msg.Kind()) {
		return false
	}
	if !e.HasKey {
		return true
	}
	key, ok := wire.Key(msg)
	if !ok {
		return true
	}
	return key == e.Key
}
