package interaction

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"time"

	"github.com/nuvo-protocol/nuvo-go/pkg/log"
	"github.com/nuvo-protocol/nuvo-go/pkg/profile"
	"github.com/nuvo-protocol/nuvo-go/pkg/transport"
	"github.com/nuvo-protocol/nuvo-go/pkg/wire"
)

// EventSink receives every classified message, including replies the
// Channel consumed. Sinks that only care about unsolicited traffic can
// still observe everything; the channel exchange is already settled by
// the time the sink runs.
type EventSink func(msg wire.Message)

// Dispatcher owns the read loop for one connection. It classifies
// incoming lines and routes each message to the pending command or the
// event sink.
type Dispatcher struct {
	reader  transport.Transport
	profile *profile.Profile
	channel *Channel
	sink    EventSink

	// Logging support (optional)
	logger log.Logger
	connID string
}

// NewDispatcher creates a dispatcher reading from t.
func NewDispatcher(t transport.Transport, p *profile.Profile, ch *Channel, sink EventSink) *Dispatcher {
	return &Dispatcher{
		reader:  t,
		profile: p,
		channel: ch,
		sink:    sink,
	}
}

// SetLogger configures wire-layer capture for unsolicited messages and
// unparsable lines. Pass nil to disable logging.
func (d *Dispatcher) SetLogger(logger log.Logger, connID string) {
	d.logger = logger
	d.connID = connID
}

// Run reads lines until the transport fails or ctx is canceled. On
// return the channel is closed and any pending command fails. A nil
// return means the remote end closed the stream.
func (d *Dispatcher) Run(ctx context.Context) error {
	defer d.channel.Close()

	for {
		line, err := d.reader.ReadLine()
		if err != nil {
			if errors.Is(err, transport.ErrLineTooLong) {
				d.logError(err, string(line))
				continue
			}
			if err == io.EOF || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed) || errors.Is(err, os.ErrClosed) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msg, err := wire.Classify(d.profile, line)
		if err != nil {
			d.logError(err, string(line))
			continue
		}

		// Consumed replies are logged by the channel with their
		// response time; only unsolicited events are logged here.
		// Either way the sink sees the message.
		if !d.channel.Offer(msg) {
			d.logEvent(msg)
		}
		if d.sink != nil {
			d.sink(msg)
		}
	}
}

func (d *Dispatcher) logEvent(msg wire.Message) {
	if d.logger == nil {
		return
	}

	event := log.Event{
		Timestamp:    time.Now(),
		ConnectionID: d.connID,
		Direction:    log.DirectionIn,
		Layer:        log.LayerWire,
		Category:     log.CategoryMessage,
		Message: &log.MessageEvent{
			Type: log.MessageTypeEvent,
			Kind: msg.Kind().String(),
		},
	}
	if key, ok := wire.Key(msg); ok {
		if msg.Kind() == wire.KindSourceConfiguration {
			event.Message.Source = &key
		} else {
			event.Message.Zone = &key
		}
	}
	d.logger.Log(event)
}

func (d *Dispatcher) logError(err error, line string) {
	if d.logger == nil {
		return
	}

	d.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: d.connID,
		Direction:    log.DirectionIn,
		Layer:        log.LayerWire,
		Category:     log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerWire,
			Message: err.Error(),
			Context: line,
		},
	})
}
