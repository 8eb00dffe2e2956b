package mockamp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
)

// Serve reads command lines from rwc and writes replies until the stream
// closes. It blocks; run it on its own goroutine. A clean close of either
// side returns nil.
func (a *Amp) Serve(rwc io.ReadWriteCloser) error {
	a.writeMu.Lock()
	a.conn = rwc
	a.writeMu.Unlock()
	defer func() {
		a.writeMu.Lock()
		a.conn = nil
		a.writeMu.Unlock()
		rwc.Close()
	}()

	r := bufio.NewReader(rwc)
	for {
		raw, err := r.ReadString('\r')
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		body := strings.Trim(raw, "\r\n")
		if body == "" {
			continue
		}
		if !strings.HasPrefix(body, "*") {
			a.sendLine(errorReply)
			continue
		}
		for _, reply := range a.Handle(strings.TrimPrefix(body, "*")) {
			a.sendLine(reply)
		}
	}
}

// Pipe starts the amplifier on one end of an in-memory connection and
// returns the controller end.
func Pipe(a *Amp) io.ReadWriteCloser {
	client, server := net.Pipe()
	go func() { _ = a.Serve(server) }()
	return client
}

// PressButton emits the unsolicited event a keypad transport button
// produces, using the zone's current source.
func (a *Amp) PressButton(zone int, button string) {
	a.mu.Lock()
	z, ok := a.zones[zone]
	if !ok {
		a.mu.Unlock()
		return
	}
	line := fmt.Sprintf("#Z%dS%d%s", zone, z.source, button)
	a.mu.Unlock()

	a.sendLine(line)
}

// FrontPanelMute emits the unsolicited system mute event.
func (a *Amp) FrontPanelMute(mute bool) {
	a.sendLine(fmt.Sprintf("#MUTE%d", bit(mute)))
}

// AnnounceZoneStatus emits a zone's current status unsolicited, as the
// device does when a keypad changes state.
func (a *Amp) AnnounceZoneStatus(zone int) {
	a.mu.Lock()
	z, ok := a.zones[zone]
	if !ok {
		a.mu.Unlock()
		return
	}
	line := zoneStatusReply(zone, z)
	a.mu.Unlock()

	a.sendLine(line)
}

// Restart emits the power-on banner. The real device precedes it with NUL
// bytes as the UART comes up.
func (a *Amp) Restart() {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	if a.conn == nil {
		return
	}
	_, _ = a.conn.Write([]byte("\x00\x00#RESTART\r\n"))
}

func (a *Amp) sendLine(line string) {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	if a.conn == nil {
		return
	}
	_, _ = a.conn.Write([]byte(line + "\r\n"))
}
