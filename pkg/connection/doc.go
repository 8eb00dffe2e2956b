// Package connection provides serial channel lifecycle management.
//
// This package handles:
//   - Exponential backoff for reopen attempts
//   - Jitter to spread attempts from supervised restarts
//   - Channel state tracking
//   - Automatic reopen on channel loss
//
// # Reopen Strategy
//
// When the channel is lost (port unplugged, bridge dropped), the
// manager uses exponential backoff:
//
//  1. Initial delay: 1 second
//  2. Exponential increase: 2s, 4s, 8s, 16s
//  3. Maximum delay: 30 seconds
//  4. Continue at 30s until successful
//  5. Reset to 1s on successful reopen
//
// # Settle Delay
//
// The amplifier needs a quiet period after a dropped channel before it
// accepts a new session; SettleDelay (2 seconds) floors the first
// reopen attempt.
//
// # Jitter
//
//	actual_delay = base_delay + random(0, base_delay * 0.25)
//
// # Success Criteria
//
// A reopen is successful when the connect function returns nil, which
// for the controller means the port opened and the version exchange
// completed. A version exchange failure does NOT reset backoff.
package connection
