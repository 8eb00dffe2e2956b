package transport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/nuvo-protocol/nuvo-go/pkg/log"
)

// Framing constants.
const (
	// DefaultMaxLineSize is the default maximum line size in bytes.
	// The longest grammar line (an enabled zone configuration with a
	// full-length name) stays well under this.
	DefaultMaxLineSize = 256

	// MaxLogLineDataSize is the maximum line data size to include in logs.
	// Longer lines are truncated in log events.
	MaxLogLineDataSize = 128
)

// Framing errors.
var (
	// ErrLineTooLong indicates a line exceeds the maximum size without
	// a terminator.
	ErrLineTooLong = errors.New("line too long")

	// ErrLineEmpty indicates an attempt to write an empty line.
	ErrLineEmpty = errors.New("line is empty")
)

// LineWriter writes terminated command lines to an underlying writer.
type LineWriter struct {
	w           io.Writer
	maxLineSize int
	mu          sync.Mutex

	// Logging support (optional)
	logger log.Logger
	connID string
}

// NewLineWriter creates a new line writer.
func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{
		w:           w,
		maxLineSize: DefaultMaxLineSize,
	}
}

// SetLogger configures logging for this writer.
// Pass nil to disable logging.
func (lw *LineWriter) SetLogger(logger log.Logger, connID string) {
	lw.logger = logger
	lw.connID = connID
}

// WriteLine writes one already-terminated line.
// Thread-safe: can be called from multiple goroutines.
func (lw *LineWriter) WriteLine(data []byte) error {
	if len(data) == 0 {
		return ErrLineEmpty
	}
	if len(data) > lw.maxLineSize {
		return fmt.Errorf("%w: %d > %d", ErrLineTooLong, len(data), lw.maxLineSize)
	}

	lw.mu.Lock()
	defer lw.mu.Unlock()

	if _, err := lw.w.Write(data); err != nil {
		return fmt.Errorf("failed to write line: %w", err)
	}

	if lw.logger != nil {
		lw.logger.Log(makeLineEvent(lw.connID, data, log.DirectionOut))
	}

	return nil
}

// LineReader reads terminated lines from an underlying reader.
type LineReader struct {
	r           *bufio.Reader
	maxLineSize int

	// Logging support (optional)
	logger log.Logger
	connID string
}

// NewLineReader creates a new line reader.
func NewLineReader(r io.Reader) *LineReader {
	return NewLineReaderWithMaxSize(r, DefaultMaxLineSize)
}

// NewLineReaderWithMaxSize creates a line reader with a custom max line size.
func NewLineReaderWithMaxSize(r io.Reader, maxSize int) *LineReader {
	return &LineReader{
		r:           bufio.NewReaderSize(r, maxSize),
		maxLineSize: maxSize,
	}
}

// SetLogger configures logging for this reader.
// Pass nil to disable logging.
func (lr *LineReader) SetLogger(logger log.Logger, connID string) {
	lr.logger = logger
	lr.connID = connID
}

// ReadLine reads one line and returns it with the CR/LF terminator
// stripped. Lines split on CR: commands carry a bare CR and replies
// CR/LF, so the stray LF shows up as an empty line and is skipped.
// NUL bytes around the restart banner are preserved so the grammar
// layer can recognize it.
func (lr *LineReader) ReadLine() ([]byte, error) {
	for {
		raw, err := lr.r.ReadSlice('\r')
		if err != nil {
			if errors.Is(err, bufio.ErrBufferFull) {
				return nil, fmt.Errorf("%w: no terminator within %d bytes", ErrLineTooLong, lr.maxLineSize)
			}
			if err == io.EOF {
				return nil, err
			}
			return nil, fmt.Errorf("failed to read line: %w", err)
		}

		if lr.logger != nil {
			lr.logger.Log(makeLineEvent(lr.connID, raw, log.DirectionIn))
		}

		line := trimTerminator(raw)
		if len(line) == 0 {
			continue
		}
		// Copy out of the bufio-owned slice.
		out := make([]byte, len(line))
		copy(out, line)
		return out, nil
	}
}

func trimTerminator(line []byte) []byte {
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	for len(line) > 0 && line[0] == '\n' {
		line = line[1:]
	}
	return line
}

// makeLineEvent creates a log event for a raw line.
func makeLineEvent(connID string, data []byte, direction log.Direction) log.Event {
	lineData := data
	truncated := false

	if len(data) > MaxLogLineDataSize {
		lineData = data[:MaxLogLineDataSize]
		truncated = true
	}
	// Copy so the event does not alias the read buffer.
	captured := make([]byte, len(lineData))
	copy(captured, lineData)

	return log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    direction,
		Layer:        log.LayerTransport,
		Category:     log.CategoryMessage,
		Line: &log.LineEvent{
			Size:      len(data),
			Data:      captured,
			Truncated: truncated,
		},
	}
}

// LineFramer combines line reading and writing.
type LineFramer struct {
	*LineReader
	*LineWriter
}

// NewLineFramer creates a new framer for bidirectional communication.
func NewLineFramer(rw io.ReadWriter) *LineFramer {
	return &LineFramer{
		LineReader: NewLineReader(rw),
		LineWriter: NewLineWriter(rw),
	}
}

// SetLogger configures logging for both reader and writer.
// Pass nil to disable logging.
func (f *LineFramer) SetLogger(logger log.Logger, connID string) {
	f.LineReader.SetLogger(logger, connID)
	f.LineWriter.SetLogger(logger, connID)
}
