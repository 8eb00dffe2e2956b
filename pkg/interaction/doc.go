// Package interaction implements command/response correlation for the
// half-duplex serial channel.
//
// The amplifier's protocol has no message IDs: at most one command is
// in flight, and its reply is recognized by kind (and zone or source
// number, where the command addresses one). Replies that match no
// pending command are unsolicited events: the amplifier emits them when
// keypads change state, and other controllers on a shared RS-232 bus
// produce replies this controller never asked for.
//
// # Channel
//
// Channel serializes commands and correlates replies:
//
//	ch := interaction.NewChannel(conn)
//	msg, err := ch.Send(ctx, cmd, interaction.ExpectKeyed(wire.KindZoneStatus, 3))
//
// Send blocks while another command is in flight; TrySend fails fast
// with ErrChannelBusy instead. A "#?" reply fails the pending command
// with ErrCommand. A missing reply fails it with ErrRequestTimeout
// after the configured deadline.
//
// # Dispatcher
//
// Dispatcher owns the read loop: it reads lines from the transport,
// classifies them, offers each message to the Channel, and forwards
// whatever the Channel does not consume to the event sink.
//
//	d := interaction.NewDispatcher(conn, prof, ch, sink)
//	go d.Run(ctx)
//
// Exactly one Dispatcher runs per connection. Late replies (arriving
// after their command timed out) are indistinguishable from unsolicited
// events and flow to the sink.
package interaction
