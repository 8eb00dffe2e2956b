package transport

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/nuvo-protocol/nuvo-go/pkg/log"
)

func TestLineReaderSplitsReplies(t *testing.T) {
	input := "#Z1,ON,SRC2,VOL20,DND0,LOCK0\r\n#Z2,OFF\r\n"
	reader := NewLineReader(strings.NewReader(input))

	line, err := reader.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine failed: %v", err)
	}
	if got := string(line); got != "#Z1,ON,SRC2,VOL20,DND0,LOCK0" {
		t.Errorf("first line = %q", got)
	}

	line, err = reader.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine failed: %v", err)
	}
	if got := string(line); got != "#Z2,OFF" {
		t.Errorf("second line = %q", got)
	}

	if _, err = reader.ReadLine(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestLineReaderSplitsBareCRCommands(t *testing.T) {
	// The device side of the channel sees commands terminated with a
	// bare CR.
	input := "*Z1ON\r*Z2VOL30\r"
	reader := NewLineReader(strings.NewReader(input))

	for _, want := range []string{"*Z1ON", "*Z2VOL30"} {
		line, err := reader.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine failed: %v", err)
		}
		if got := string(line); got != want {
			t.Errorf("line = %q, want %q", got, want)
		}
	}
}

func TestLineReaderPreservesRestartNULs(t *testing.T) {
	input := "\x00\x00#RESTART NV-I8G\r\n"
	reader := NewLineReader(strings.NewReader(input))

	line, err := reader.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine failed: %v", err)
	}
	if got := string(line); got != "\x00\x00#RESTART NV-I8G" {
		t.Errorf("line = %q", got)
	}
}

func TestLineReaderTooLong(t *testing.T) {
	input := strings.Repeat("x", DefaultMaxLineSize+1) + "\r"
	reader := NewLineReader(strings.NewReader(input))

	if _, err := reader.ReadLine(); !errors.Is(err, ErrLineTooLong) {
		t.Errorf("expected ErrLineTooLong, got %v", err)
	}
}

func TestLineWriterWritesVerbatim(t *testing.T) {
	var buf bytes.Buffer
	writer := NewLineWriter(&buf)

	if err := writer.WriteLine([]byte("*Z1ON\r")); err != nil {
		t.Fatalf("WriteLine failed: %v", err)
	}
	if got := buf.String(); got != "*Z1ON\r" {
		t.Errorf("written = %q", got)
	}
}

func TestLineWriterRejectsEmpty(t *testing.T) {
	writer := NewLineWriter(&bytes.Buffer{})
	if err := writer.WriteLine(nil); !errors.Is(err, ErrLineEmpty) {
		t.Errorf("expected ErrLineEmpty, got %v", err)
	}
}

func TestLineWriterRejectsOversized(t *testing.T) {
	writer := NewLineWriter(&bytes.Buffer{})
	line := bytes.Repeat([]byte("x"), DefaultMaxLineSize+1)
	if err := writer.WriteLine(line); !errors.Is(err, ErrLineTooLong) {
		t.Errorf("expected ErrLineTooLong, got %v", err)
	}
}

type captureLogger struct {
	events []log.Event
}

func (c *captureLogger) Log(event log.Event) {
	c.events = append(c.events, event)
}

func TestLineFramerLogsBothDirections(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("#OK\r\n")

	framer := NewLineFramer(&buf)
	logger := &captureLogger{}
	framer.SetLogger(logger, "conn-test")

	if _, err := framer.ReadLine(); err != nil {
		t.Fatalf("ReadLine failed: %v", err)
	}
	if err := framer.WriteLine([]byte("*VER\r")); err != nil {
		t.Fatalf("WriteLine failed: %v", err)
	}

	if len(logger.events) != 2 {
		t.Fatalf("event count = %d, want 2", len(logger.events))
	}
	in, out := logger.events[0], logger.events[1]
	if in.Direction != log.DirectionIn || in.Line == nil || !bytes.Equal(in.Line.Data, []byte("#OK\r")) {
		t.Errorf("in event = %+v", in)
	}
	if out.Direction != log.DirectionOut || out.Line == nil || !bytes.Equal(out.Line.Data, []byte("*VER\r")) {
		t.Errorf("out event = %+v", out)
	}
	for _, e := range logger.events {
		if e.ConnectionID != "conn-test" || e.Layer != log.LayerTransport {
			t.Errorf("event metadata = %+v", e)
		}
	}
}
