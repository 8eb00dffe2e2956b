// Package discovery implements mDNS/DNS-SD browsing for serial-over-network
// bridges that expose an amplifier's RS-232 port on the local network.
//
// Amplifiers themselves have no network interface, but bridge devices
// (ser2net, Global Cache iTach Flex, USR-TCP232) commonly announce one of
// two DNS-SD service types:
//
//   - _raw-serial._tcp: a raw TCP socket mapped straight onto the serial port
//   - _telnet._tcp: a telnet listener, usable when the bridge does not
//     negotiate telnet options on the wire
//
// Browse aggregates announcements from all interfaces into one Bridge entry
// per instance name. The resulting Bridge.Addr() value can be passed
// directly to transport.Dial:
//
//	browser := discovery.NewBrowser(discovery.DefaultBrowserConfig())
//	bridges, err := browser.Browse(ctx)
//	if err != nil { ... }
//	for bridge := range bridges {
//		conn, err := transport.Dial(ctx, bridge.Addr())
//		...
//	}
//
// TXT records are optional on these service types. When present, the common
// keys name, model and serial are decoded; unknown keys are ignored.
package discovery
