// Package nuvo is the caller-facing API for driving a Grand Concerto or
// Essentia G amplifier over its serial channel.
//
// A Controller wraps one connection: it owns the command/reply channel,
// the background read loop and the subscriber registry, and exposes one
// method per logical device command. Typical use:
//
//	ctrl, err := nuvo.NewController(nuvo.DefaultConfig(profile.GrandConcerto))
//	if err != nil { ... }
//
//	conn, err := transport.Dial(ctx, "192.168.1.50:4999")
//	if err != nil { ... }
//
//	if err := ctrl.Connect(ctx, conn); err != nil { ... }
//	defer ctrl.Close()
//
//	status, err := ctrl.SetVolume(ctx, 3, 20)
//
// Connect performs a version exchange and rejects a device whose reported
// product does not match the configured model. Every command method blocks
// until the matching reply, a device rejection (interaction.ErrCommand),
// or the reply deadline.
//
// Every received message reaches callbacks registered with Subscribe,
// unsolicited events (keypad presses, front panel changes) and command
// replies alike. When state tracking is enabled the controller
// also folds every received message into an in-memory state image,
// available via ZoneState and SourceState, and re-queries zone statuses
// after system-wide events (all off, paging, mute, restart).
package nuvo
