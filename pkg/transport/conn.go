package transport

import (
	"context"
	"io"
	"net"
	"sync"

	"github.com/google/uuid"

	"github.com/nuvo-protocol/nuvo-go/pkg/log"
)

// Conn is a line-framed channel to one amplifier. It wraps any
// io.ReadWriteCloser: a platform serial port handle, a TCP connection
// to a serial bridge, or an in-process pipe.
type Conn struct {
	id     string
	port   string
	rwc    io.ReadWriteCloser
	framer *LineFramer

	mu     sync.Mutex
	closed bool
}

// NewConn wraps rwc in a line-framed connection. port is a human-readable
// label for the underlying channel (device path or bridge address) and
// appears in log events.
func NewConn(rwc io.ReadWriteCloser, port string) *Conn {
	return &Conn{
		id:     uuid.New().String(),
		port:   port,
		rwc:    rwc,
		framer: NewLineFramer(rwc),
	}
}

// ID returns the connection's unique identifier.
func (c *Conn) ID() string { return c.id }

// Port returns the channel label given to NewConn.
func (c *Conn) Port() string { return c.port }

// SetLogger configures protocol line capture for this connection.
// Pass nil to disable logging.
func (c *Conn) SetLogger(logger log.Logger) {
	c.framer.SetLogger(logger, c.id)
}

// ReadLine reads one incoming line, terminator stripped.
func (c *Conn) ReadLine() ([]byte, error) {
	return c.framer.ReadLine()
}

// WriteLine writes one already-terminated command line.
func (c *Conn) WriteLine(data []byte) error {
	return c.framer.WriteLine(data)
}

// Close closes the underlying channel.
// It is safe to call Close multiple times.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.rwc.Close()
}

// Dial connects to a serial-over-network bridge at addr (host:port)
// and returns a line-framed connection.
func Dial(ctx context.Context, addr string) (*Conn, error) {
	var d net.Dialer
	nc, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewConn(nc, addr), nil
}
