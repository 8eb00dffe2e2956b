package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

func writeEvents(t *testing.T, path string, events []Event) {
	t.Helper()
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()
}

func readAll(t *testing.T, r *Reader) []Event {
	t.Helper()
	var out []Event
	for {
		e, err := r.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		out = append(out, e)
	}
}

func TestReaderNoFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.nlog")
	writeEvents(t, path, []Event{
		{Timestamp: time.Now(), ConnectionID: "a"},
		{Timestamp: time.Now(), ConnectionID: "b"},
		{Timestamp: time.Now(), ConnectionID: "c"},
	})

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	events := readAll(t, reader)
	if len(events) != 3 {
		t.Errorf("event count = %d, want 3", len(events))
	}
}

func TestReaderFilterByConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.nlog")
	writeEvents(t, path, []Event{
		{Timestamp: time.Now(), ConnectionID: "a"},
		{Timestamp: time.Now(), ConnectionID: "b"},
		{Timestamp: time.Now(), ConnectionID: "a"},
	})

	reader, err := NewFilteredReader(path, Filter{ConnectionID: "a"})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	events := readAll(t, reader)
	if len(events) != 2 {
		t.Errorf("event count = %d, want 2", len(events))
	}
}

func TestReaderFilterByDirectionAndLayer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.nlog")
	writeEvents(t, path, []Event{
		{Timestamp: time.Now(), Direction: DirectionIn, Layer: LayerTransport},
		{Timestamp: time.Now(), Direction: DirectionOut, Layer: LayerTransport},
		{Timestamp: time.Now(), Direction: DirectionIn, Layer: LayerWire},
	})

	in := DirectionIn
	transport := LayerTransport
	reader, err := NewFilteredReader(path, Filter{Direction: &in, Layer: &transport})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	events := readAll(t, reader)
	if len(events) != 1 {
		t.Errorf("event count = %d, want 1", len(events))
	}
}

func TestReaderFilterByTimeWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.nlog")
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	writeEvents(t, path, []Event{
		{Timestamp: base},
		{Timestamp: base.Add(time.Minute)},
		{Timestamp: base.Add(2 * time.Minute)},
	})

	start := base.Add(30 * time.Second)
	end := base.Add(90 * time.Second)
	reader, err := NewFilteredReader(path, Filter{TimeStart: &start, TimeEnd: &end})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	events := readAll(t, reader)
	if len(events) != 1 {
		t.Fatalf("event count = %d, want 1", len(events))
	}
	if !events[0].Timestamp.Equal(base.Add(time.Minute)) {
		t.Errorf("wrong event selected: %v", events[0].Timestamp)
	}
}

func TestReaderFilterByModelAndPort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.nlog")
	writeEvents(t, path, []Event{
		{Timestamp: time.Now(), Model: "Grand_Concerto", Port: "/dev/ttyUSB0"},
		{Timestamp: time.Now(), Model: "Essentia_G", Port: "/dev/ttyUSB0"},
		{Timestamp: time.Now(), Model: "Grand_Concerto", Port: "/dev/ttyUSB1"},
	})

	reader, err := NewFilteredReader(path, Filter{Model: "Grand_Concerto", Port: "/dev/ttyUSB0"})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	events := readAll(t, reader)
	if len(events) != 1 {
		t.Errorf("event count = %d, want 1", len(events))
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "missing.nlog")); err == nil {
		t.Error("expected error for missing file")
	}
}
