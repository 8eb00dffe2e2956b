package interaction

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nuvo-protocol/nuvo-go/pkg/log"
	"github.com/nuvo-protocol/nuvo-go/pkg/wire"
)

// Channel errors.
var (
	// ErrRequestTimeout indicates the amplifier did not reply in time.
	ErrRequestTimeout = errors.New("request timed out")

	// ErrChannelBusy indicates another command is in flight (TrySend only).
	ErrChannelBusy = errors.New("channel busy")

	// ErrChannelClosed indicates the channel has been closed.
	ErrChannelClosed = errors.New("channel closed")

	// ErrCommand indicates the amplifier rejected the command with "#?".
	ErrCommand = errors.New("command rejected by device")
)

// DefaultTimeout is the default reply deadline per command.
const DefaultTimeout = time.Second

// LineSender is the interface for sending command lines over a connection.
type LineSender interface {
	// WriteLine writes one already-terminated command line.
	WriteLine(data []byte) error
}

// result carries a completed command's reply or failure.
type result struct {
	msg wire.Message
	err error
}

// pendingRequest is the single in-flight command slot.
type pendingRequest struct {
	expect Expect
	ch     chan result
}

// Channel serializes commands on the half-duplex channel and correlates
// their replies. Safe for concurrent use: concurrent Send calls queue
// in FIFO order on the send lock.
type Channel struct {
	sender  LineSender
	timeout time.Duration

	// sendMu serializes commands; exactly one is in flight at a time.
	sendMu sync.Mutex

	mu      sync.Mutex
	pending *pendingRequest
	closed  bool

	// Logging support (optional)
	logger log.Logger
	connID string
}

// NewChannel creates a channel over the given sender with the default
// reply deadline.
func NewChannel(sender LineSender) *Channel {
	return &Channel{
		sender:  sender,
		timeout: DefaultTimeout,
	}
}

// SetTimeout sets the reply deadline for subsequent commands.
func (c *Channel) SetTimeout(timeout time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = timeout
}

// SetLogger configures wire-layer protocol capture.
// Pass nil to disable logging.
func (c *Channel) SetLogger(logger log.Logger, connID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = logger
	c.connID = connID
}

// Send writes cmd and blocks until the matching reply arrives, the
// deadline passes, or ctx is canceled. Commands queue in FIFO order.
func (c *Channel) Send(ctx context.Context, cmd wire.Command, expect Expect) (wire.Message, error) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	return c.send(ctx, cmd, expect)
}

// TrySend is like Send but fails with ErrChannelBusy instead of waiting
// when another command is in flight.
func (c *Channel) TrySend(ctx context.Context, cmd wire.Command, expect Expect) (wire.Message, error) {
	if !c.sendMu.TryLock() {
		return nil, ErrChannelBusy
	}
	defer c.sendMu.Unlock()

	return c.send(ctx, cmd, expect)
}

func (c *Channel) send(ctx context.Context, cmd wire.Command, expect Expect) (wire.Message, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrChannelClosed
	}
	timeout := c.timeout
	req := &pendingRequest{
		expect: expect,
		ch:     make(chan result, 1),
	}
	c.pending = req
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if c.pending == req {
			c.pending = nil
		}
		c.mu.Unlock()
	}()

	start := time.Now()
	c.logCommand(cmd)

	if err := c.sender.WriteLine(cmd.Bytes()); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		if res, ok := c.takeLate(req); ok {
			return c.finish(res, start)
		}
		return nil, ctx.Err()
	case <-time.After(timeout):
		if res, ok := c.takeLate(req); ok {
			return c.finish(res, start)
		}
		return nil, ErrRequestTimeout
	case res := <-req.ch:
		return c.finish(res, start)
	}
}

// takeLate resolves the race between a deadline and a completion. A
// deadline winner clears the slot so no later reply can be consumed; a
// completion winner has already deposited its result, which takeLate
// collects so Send can return it instead of a spurious timeout.
func (c *Channel) takeLate(req *pendingRequest) (result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == req {
		c.pending = nil
		return result{}, false
	}
	// Completion deposits before releasing the lock, so this receive
	// cannot block.
	return <-req.ch, true
}

func (c *Channel) finish(res result, start time.Time) (wire.Message, error) {
	if res.err != nil {
		return nil, res.err
	}
	c.logReply(res.msg, time.Since(start))
	return res.msg, nil
}

// Offer hands an incoming message to the pending command, if any.
// It reports whether the message was consumed as a reply. An error
// reply ("#?") always completes the pending command, failing it with
// ErrCommand.
func (c *Channel) Offer(msg wire.Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := c.pending
	if req == nil {
		return false
	}

	var res result
	switch {
	case msg.Kind() == wire.KindError:
		res = result{err: ErrCommand}
	case req.expect.Matches(msg):
		res = result{msg: msg}
	default:
		return false
	}

	// Clearing the slot and depositing under the lock means exactly one
	// completer wins; the buffered send cannot block.
	c.pending = nil
	req.ch <- res
	return true
}

// Close fails the pending command, if any, and rejects subsequent sends.
// It is safe to call Close multiple times.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.pending != nil {
		req := c.pending
		c.pending = nil
		req.ch <- result{err: ErrChannelClosed}
	}
	return nil
}

func (c *Channel) logCommand(cmd wire.Command) {
	c.mu.Lock()
	logger, connID := c.logger, c.connID
	c.mu.Unlock()
	if logger == nil {
		return
	}

	logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    log.DirectionOut,
		Layer:        log.LayerWire,
		Category:     log.CategoryMessage,
		Message: &log.MessageEvent{
			Type: log.MessageTypeCommand,
			Body: cmd.String(),
		},
	})
}

func (c *Channel) logReply(msg wire.Message, elapsed time.Duration) {
	c.mu.Lock()
	logger, connID := c.logger, c.connID
	c.mu.Unlock()
	if logger == nil {
		return
	}

	event := log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    log.DirectionIn,
		Layer:        log.LayerWire,
		Category:     log.CategoryMessage,
		Message: &log.MessageEvent{
			Type:         log.MessageTypeResponse,
			Kind:         msg.Kind().String(),
			ResponseTime: &elapsed,
		},
	}
	if key, ok := wire.Key(msg); ok {
		event.Message.Zone = &key
		if msg.Kind() == wire.KindSourceConfiguration {
			event.Message.Zone = nil
			event.Message.Source = &key
		}
	}
	logger.Log(event)
}
