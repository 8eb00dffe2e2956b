// Package transport provides the serial channel transport layer.
//
// The transport layer handles:
//   - ASCII line framing (CR-terminated commands, CR/LF-terminated replies)
//   - Maximum line length enforcement
//   - Tolerance for NUL bytes the hardware emits around restart
//   - Protocol line capture via pkg/log
//
// # Protocol Stack
//
//	┌────────────────────────────────┐
//	│      ASCII Messages            │
//	├────────────────────────────────┤
//	│      Line Framing (CR/LF)      │
//	├────────────────────────────────┤
//	│  RS-232 57600 8N1 / TCP bridge │
//	└────────────────────────────────┘
//
// The amplifier's serial port runs at 57600 baud, 8 data bits, no
// parity, one stop bit. The package does not open serial devices
// itself: any io.ReadWriteCloser works, so a platform serial port
// handle, a TCP connection to a serial-over-network bridge (see
// Dial), or an in-process pipe for tests can all back a Conn.
package transport
