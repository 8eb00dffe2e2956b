package transport

// Transport provides line-oriented I/O on the serial channel.
// Implemented by Conn.
type Transport interface {
	// ReadLine reads one incoming line, terminator stripped.
	ReadLine() ([]byte, error)

	// WriteLine writes one already-terminated command line.
	WriteLine(data []byte) error

	// Close closes the underlying channel.
	Close() error
}

// LineReadWriter provides line framing over any stream.
// Implemented by LineFramer.
type LineReadWriter interface {
	// ReadLine reads one line, terminator stripped.
	ReadLine() ([]byte, error)

	// WriteLine writes one already-terminated line.
	WriteLine(data []byte) error
}

// Compile-time interface satisfaction checks.
var (
	_ Transport      = (*Conn)(nil)
	_ LineReadWriter = (*LineFramer)(nil)
)
