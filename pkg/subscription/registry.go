package subscription

import (
	"fmt"
	"sync"
	"time"

	"github.com/nuvo-protocol/nuvo-go/pkg/log"
	"github.com/nuvo-protocol/nuvo-go/pkg/wire"
)

// Callback receives one device message.
type Callback func(msg wire.Message)

// Subscription identifies one registration. Every Subscribe call yields
// a distinct handle, so the same function can be registered more than
// once and each registration removed independently. The zero value is
// invalid.
type Subscription struct {
	kind wire.MsgKind
	id   uint64
}

// Kind returns the message kind the subscription was registered for.
func (s Subscription) Kind() wire.MsgKind { return s.kind }

// Valid reports whether the handle identifies a registration that was
// accepted. It stays true after Unsubscribe; use the Unsubscribe return
// to learn whether the registration was still present.
func (s Subscription) Valid() bool { return s.id != 0 }

// Default queue depth per kind in asynchronous mode.
const defaultQueueDepth = 256

// Config configures a Registry.
type Config struct {
	// Async dispatches each kind on its own serialized worker goroutine.
	// When false, Notify runs callbacks on the caller's goroutine.
	Async bool

	// QueueDepth is the per-kind queue depth in async mode
	// (default: 256). Notify blocks when the queue is full, preserving
	// order rather than dropping.
	QueueDepth int

	// Logger captures callback panics. Nil disables logging.
	Logger log.Logger
}

// entry is one registered callback, identified by the id handed out in
// its Subscription handle.
type entry struct {
	id uint64
	fn Callback
}

// Registry dispatches device messages to subscribed callbacks by kind.
// Safe for concurrent use.
type Registry struct {
	mu     sync.Mutex
	subs   map[wire.MsgKind][]entry
	nextID uint64

	// closeMu guards the worker table against Close while a Notify is
	// queueing; Notify holds it shared for the whole enqueue.
	closeMu sync.RWMutex
	closed  bool

	config  Config
	workers map[wire.MsgKind]chan wire.Message
	wg      sync.WaitGroup
}

// NewRegistry creates a synchronous registry.
func NewRegistry() *Registry {
	return NewRegistryWithConfig(Config{})
}

// NewRegistryWithConfig creates a registry with custom configuration.
func NewRegistryWithConfig(config Config) *Registry {
	if config.QueueDepth <= 0 {
		config.QueueDepth = defaultQueueDepth
	}
	return &Registry{
		subs:    make(map[wire.MsgKind][]entry),
		config:  config,
		workers: make(map[wire.MsgKind]chan wire.Message),
	}
}

// Subscribe registers fn for messages of the given kind and returns a
// handle for later removal. Each call registers independently, even for
// the same function value. A nil fn or a closed registry returns the
// invalid zero Subscription.
func (r *Registry) Subscribe(kind wire.MsgKind, fn Callback) Subscription {
	if fn == nil {
		return Subscription{}
	}

	r.closeMu.RLock()
	closed := r.closed
	r.closeMu.RUnlock()
	if closed {
		return Subscription{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	r.subs[kind] = append(r.subs[kind], entry{id: r.nextID, fn: fn})
	return Subscription{kind: kind, id: r.nextID}
}

// Unsubscribe removes the registration identified by sub. It reports
// whether the registration was still present.
func (r *Registry) Unsubscribe(sub Subscription) bool {
	if !sub.Valid() {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kind := sub.kind
	entries := r.subs[kind]
	for i, e := range entries {
		if e.id == sub.id {
			r.subs[kind] = append(entries[:i], entries[i+1:]...)
			if len(r.subs[kind]) == 0 {
				delete(r.subs, kind)
			}
			return true
		}
	}
	return false
}

// Count returns the number of callbacks registered for a kind.
func (r *Registry) Count(kind wire.MsgKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs[kind])
}

// Notify dispatches msg to the callbacks subscribed to its kind.
// In async mode the message is queued on the kind's worker and Notify
// returns once queued.
func (r *Registry) Notify(msg wire.Message) {
	kind := msg.Kind()

	r.closeMu.RLock()
	defer r.closeMu.RUnlock()
	if r.closed {
		return
	}

	if !r.config.Async {
		r.mu.Lock()
		entries := append([]entry(nil), r.subs[kind]...)
		r.mu.Unlock()
		r.dispatch(entries, msg)
		return
	}

	r.mu.Lock()
	worker, ok := r.workers[kind]
	if !ok {
		worker = make(chan wire.Message, r.config.QueueDepth)
		r.workers[kind] = worker
		r.wg.Add(1)
		go r.runWorker(worker)
	}
	r.mu.Unlock()

	worker <- msg
}

// runWorker drains one kind's queue, keeping per-kind arrival order.
func (r *Registry) runWorker(queue chan wire.Message) {
	defer r.wg.Done()
	for msg := range queue {
		r.mu.Lock()
		entries := append([]entry(nil), r.subs[msg.Kind()]...)
		r.mu.Unlock()
		r.dispatch(entries, msg)
	}
}

// dispatch runs callbacks in subscription order, recovering panics so
// one callback cannot stop the rest.
func (r *Registry) dispatch(entries []entry, msg wire.Message) {
	for _, e := range entries {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					r.logPanic(msg, rec)
				}
			}()
			e.fn(msg)
		}()
	}
}

func (r *Registry) logPanic(msg wire.Message, rec any) {
	if r.config.Logger == nil {
		return
	}
	r.config.Logger.Log(log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionIn,
		Layer:     log.LayerSession,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerSession,
			Message: fmt.Sprintf("subscriber panic: %v", rec),
			Context: msg.Kind().String(),
		},
	})
}

// Close stops the workers and drops subsequent notifications.
// Queued messages are still delivered. It is safe to call Close
// multiple times.
func (r *Registry) Close() error {
	r.closeMu.Lock()
	if r.closed {
		r.closeMu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Lock()
	workers := r.workers
	r.workers = make(map[wire.MsgKind]chan wire.Message)
	r.mu.Unlock()
	r.closeMu.Unlock()

	for _, w := range workers {
		close(w)
	}
	r.wg.Wait()
	return nil
}
