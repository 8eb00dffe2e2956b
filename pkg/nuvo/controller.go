package nuvo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/nuvo-protocol/nuvo-go/pkg/interaction"
	"github.com/nuvo-protocol/nuvo-go/pkg/profile"
	"github.com/nuvo-protocol/nuvo-go/pkg/subscription"
	"github.com/nuvo-protocol/nuvo-go/pkg/transport"
	"github.com/nuvo-protocol/nuvo-go/pkg/wire"
)

// Controller errors.
var (
	// ErrNotConnected indicates a command was issued without a connection.
	ErrNotConnected = errors.New("not connected")

	// ErrAlreadyConnected indicates Connect on a live connection.
	ErrAlreadyConnected = errors.New("already connected")

	// ErrModelMismatch indicates the device reported a product number
	// belonging to a different model than configured.
	ErrModelMismatch = errors.New("device model mismatch")
)

// Controller drives one amplifier over one serial connection.
type Controller struct {
	config  Config
	profile *profile.Profile

	registry *subscription.Registry
	state    *State

	mu      sync.RWMutex
	conn    transport.Transport
	connID  string
	channel *interaction.Channel
	version *wire.Version
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewController creates a controller for the configured model.
func NewController(config Config) (*Controller, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	p, err := profile.Lookup(config.Model)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		config:  config,
		profile: p,
		registry: subscription.NewRegistryWithConfig(subscription.Config{
			Async:      config.AsyncDispatch,
			QueueDepth: config.QueueDepth,
			Logger:     config.Logger,
		}),
	}
	if !config.DisableStateTracking {
		c.state = NewState()
	}
	return c, nil
}

// Profile returns the capability table of the configured model.
func (c *Controller) Profile() *profile.Profile {
	return c.profile
}

// Connected reports whether a connection is live.
func (c *Controller) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil
}

// Version returns the identification the device reported during Connect,
// or nil before the first successful Connect.
func (c *Controller) Version() *wire.Version {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Connect takes ownership of t, starts the read loop and performs the
// version exchange. Unless SkipModelCheck is set, a device whose product
// number belongs to a different model fails with ErrModelMismatch and the
// connection is closed.
func (c *Controller) Connect(ctx context.Context, t transport.Transport) error {
	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}

	connID := uuid.New().String()
	if conn, ok := t.(*transport.Conn); ok {
		connID = conn.ID()
	}

	channel := interaction.NewChannel(t)
	if c.config.Timeout > 0 {
		channel.SetTimeout(c.config.Timeout)
	}
	channel.SetLogger(c.config.Logger, connID)

	dispatcher := interaction.NewDispatcher(t, c.profile, channel, c.handleEvent)
	dispatcher.SetLogger(c.config.Logger, connID)

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	c.conn = t
	c.connID = connID
	c.channel = channel
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	go func() {
		defer close(done)
		_ = dispatcher.Run(runCtx)
	}()

	version, err := c.QueryVersion(ctx)
	if err != nil {
		_ = c.Disconnect()
		return fmt.Errorf("version exchange: %w", err)
	}

	if !c.config.SkipModelCheck && version.Model != string(c.config.Model) {
		_ = c.Disconnect()
		return fmt.Errorf("%w: device reported %q (%s), configured for %s",
			ErrModelMismatch, version.ProductNumber, version.Model, c.config.Model)
	}

	c.mu.Lock()
	c.version = version
	c.mu.Unlock()
	return nil
}

// Disconnect stops the read loop and closes the connection. Subscriptions
// survive for a later Connect. Disconnect of an unconnected controller is
// a no-op.
func (c *Controller) Disconnect() error {
	c.mu.Lock()
	conn, channel, cancel, done := c.conn, c.channel, c.cancel, c.done
	c.conn = nil
	c.channel = nil
	c.cancel = nil
	c.done = nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}

	cancel()
	_ = channel.Close()
	err := conn.Close()
	<-done
	return err
}

// Close disconnects and shuts down the subscriber registry. The controller
// cannot be reused afterwards.
func (c *Controller) Close() error {
	err := c.Disconnect()
	if regErr := c.registry.Close(); err == nil {
		err = regErr
	}
	return err
}

// Subscribe registers a callback for a message kind. The returned
// handle removes that one registration via Unsubscribe; each call
// registers independently.
func (c *Controller) Subscribe(kind wire.MsgKind, fn func(wire.Message)) subscription.Subscription {
	return c.registry.Subscribe(kind, fn)
}

// SubscribeName is Subscribe keyed by the kind's string name
// (e.g. "ZoneStatus"). Unknown names return the invalid zero handle.
func (c *Controller) SubscribeName(name string, fn func(wire.Message)) subscription.Subscription {
	kind, ok := wire.ParseKind(name)
	if !ok {
		return subscription.Subscription{}
	}
	return c.registry.Subscribe(kind, fn)
}

// Unsubscribe removes the registration identified by sub.
func (c *Controller) Unsubscribe(sub subscription.Subscription) bool {
	return c.registry.Unsubscribe(sub)
}

// ZoneState returns the tracked state image for a zone. ok is false when
// state tracking is disabled or the zone has not been heard from.
func (c *Controller) ZoneState(zone int) (ZoneState, bool) {
	if c.state == nil {
		return ZoneState{}, false
	}
	return c.state.Zone(zone)
}

// SourceState returns the tracked state image for a source.
func (c *Controller) SourceState(source int) (SourceState, bool) {
	if c.state == nil {
		return SourceState{}, false
	}
	return c.state.Source(source)
}

// KnownZones returns the zones with tracked state, sorted. The result is
// empty when state tracking is disabled.
func (c *Controller) KnownZones() []int {
	if c.state == nil {
		return nil
	}
	return c.state.KnownZones()
}

// send issues one command through the live channel.
func (c *Controller) send(ctx context.Context, cmd wire.Command, expect interaction.Expect) (wire.Message, error) {
	c.mu.RLock()
	channel := c.channel
	c.mu.RUnlock()

	if channel == nil {
		return nil, ErrNotConnected
	}

	msg, err := channel.Send(ctx, cmd, expect)
	if err != nil {
		return nil, err
	}
	// The sink also observes this reply, but applying it here makes the
	// state image current before Send returns. Apply is an idempotent
	// merge, so the double application is harmless.
	if c.state != nil {
		c.state.Apply(msg)
	}
	return msg, nil
}

// handleEvent is the dispatcher's sink. It sees every incoming message,
// consumed replies included, so subscribers observe solicited and
// unsolicited traffic alike.
func (c *Controller) handleEvent(msg wire.Message) {
	if c.state != nil {
		c.state.Apply(msg)

		// System-wide events invalidate per-zone images the device does
		// not re-announce. Refresh runs on its own goroutine; issuing
		// commands from the read loop would deadlock the channel.
		switch msg.Kind() {
		case wire.KindZoneAllOff, wire.KindPaging, wire.KindMute, wire.KindRestart:
			go c.refreshZones()
		}
	}

	c.registry.Notify(msg)
}

// refreshZones re-queries the status of every zone the state image has
// heard from.
func (c *Controller) refreshZones() {
	timeout := c.config.Timeout
	if timeout <= 0 {
		timeout = interaction.DefaultTimeout
	}

	for _, zone := range c.state.KnownZones() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		_, _ = c.ZoneStatus(ctx, zone)
		cancel()
	}
}
