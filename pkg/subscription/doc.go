// Package subscription implements callback registration for device
// messages.
//
// Applications subscribe callbacks per message kind and receive every
// message of that kind the dispatcher routes as unsolicited: keypad
// activity, state broadcasts, and replies to commands other controllers
// on a shared bus issued.
//
// # Registration Semantics
//
// Subscribe returns a Subscription handle identifying that one
// registration; Unsubscribe takes the handle back. Registrations are
// independent, so two closures built from the same function literal,
// or the same function subscribed twice, each get their own handle and
// each fire. Callbacks for a kind run in subscription order. A
// panicking callback is recovered and logged; remaining callbacks
// still run.
//
// # Dispatch Modes
//
// Synchronous (default): Notify runs callbacks on the caller's
// goroutine. Callbacks must not send commands on the same channel the
// notifying dispatcher serves, or they deadlock it.
//
// Asynchronous: each kind gets a serialized worker goroutine, so
// callbacks for one kind run in arrival order but kinds do not block
// each other, and callbacks may freely send commands.
//
// # Lifecycle
//
// Subscriptions do NOT survive the registry: Close stops the workers
// and subsequent Notify calls are dropped.
package subscription
