package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nuvo-protocol/nuvo-go/pkg/log"
)

// writeLogFile writes the events to a temporary log file and returns its path.
func writeLogFile(t *testing.T, events []log.Event) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.nlog")
	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create file logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("failed to close file logger: %v", err)
	}
	return path
}

func TestFormatLineEvent(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)
	event := log.Event{
		Timestamp:    ts,
		ConnectionID: "abc12345-6789-0123-4567-890abcdef012",
		Direction:    log.DirectionOut,
		Layer:        log.LayerTransport,
		Category:     log.CategoryMessage,
		Line: &log.LineEvent{
			Size: 7,
			Data: []byte("*Z1ON\r"),
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "2026-01-28T10:15:32.123456Z") {
		t.Errorf("expected microsecond timestamp, got: %s", output)
	}
	if !strings.Contains(output, "[conn:abc12345]") {
		t.Errorf("expected shortened connection ID, got: %s", output)
	}
	if !strings.Contains(output, "OUT") {
		t.Errorf("expected OUT direction, got: %s", output)
	}
	if !strings.Contains(output, "TRANSPORT") {
		t.Errorf("expected TRANSPORT layer, got: %s", output)
	}
	if !strings.Contains(output, "7 bytes") {
		t.Errorf("expected line size, got: %s", output)
	}
	if !strings.Contains(output, `"*Z1ON\r"`) {
		t.Errorf("expected quoted line data, got: %s", output)
	}
}

func TestFormatMessageEventResponse(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)
	zone := 4
	source := 2
	rt := 35 * time.Millisecond
	event := log.Event{
		Timestamp:    ts,
		ConnectionID: "abc12345-6789-0123-4567-890abcdef012",
		Direction:    log.DirectionIn,
		Layer:        log.LayerWire,
		Category:     log.CategoryMessage,
		Message: &log.MessageEvent{
			Type:         log.MessageTypeResponse,
			Kind:         "ZoneStatus",
			Body:         "Z4,ON,SRC2,VOL60,DND0,LOCK0",
			Zone:         &zone,
			Source:       &source,
			ResponseTime: &rt,
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "RESPONSE") {
		t.Errorf("expected RESPONSE label, got: %s", output)
	}
	if !strings.Contains(output, "Kind: ZoneStatus") {
		t.Errorf("expected kind, got: %s", output)
	}
	if !strings.Contains(output, "Zone: 4") {
		t.Errorf("expected zone, got: %s", output)
	}
	if !strings.Contains(output, "Source: 2") {
		t.Errorf("expected source, got: %s", output)
	}
	if !strings.Contains(output, "Duration: 35.000ms") {
		t.Errorf("expected response time, got: %s", output)
	}
}

func TestFormatStateChangeEvent(t *testing.T) {
	event := log.Event{
		Timestamp:    time.Now(),
		ConnectionID: "conn1",
		Direction:    log.DirectionIn,
		Layer:        log.LayerSession,
		Category:     log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityConnection,
			OldState: "connected",
			NewState: "disconnected",
			Reason:   "read error",
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "Entity: CONNECTION") {
		t.Errorf("expected entity, got: %s", output)
	}
	if !strings.Contains(output, "connected -> disconnected") {
		t.Errorf("expected transition, got: %s", output)
	}
	if !strings.Contains(output, "Reason: read error") {
		t.Errorf("expected reason, got: %s", output)
	}
}

func TestFormatErrorEvent(t *testing.T) {
	event := log.Event{
		Timestamp:    time.Now(),
		ConnectionID: "conn1",
		Direction:    log.DirectionIn,
		Layer:        log.LayerWire,
		Category:     log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerWire,
			Message: "unclassifiable reply",
			Context: "dispatch",
		},
	}

	var buf bytes.Buffer
	formatEvent(&buf, event)
	output := buf.String()

	if !strings.Contains(output, "Error") {
		t.Errorf("expected Error label, got: %s", output)
	}
	if !strings.Contains(output, "Message: unclassifiable reply") {
		t.Errorf("expected error message, got: %s", output)
	}
	if !strings.Contains(output, "Context: dispatch") {
		t.Errorf("expected context, got: %s", output)
	}
}

func TestParseLayerFlag(t *testing.T) {
	tests := []struct {
		input   string
		want    log.Layer
		wantErr bool
	}{
		{"transport", log.LayerTransport, false},
		{"WIRE", log.LayerWire, false},
		{"Session", log.LayerSession, false},
		{"service", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseLayerFlag(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLayerFlag(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLayerFlag(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLayerFlag(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseDirectionFlag(t *testing.T) {
	if d, err := ParseDirectionFlag("IN"); err != nil || d != log.DirectionIn {
		t.Errorf("ParseDirectionFlag(IN) = %v, %v", d, err)
	}
	if d, err := ParseDirectionFlag("out"); err != nil || d != log.DirectionOut {
		t.Errorf("ParseDirectionFlag(out) = %v, %v", d, err)
	}
	if _, err := ParseDirectionFlag("sideways"); err == nil {
		t.Error("expected error for invalid direction")
	}
}

func TestParseCategoryFlag(t *testing.T) {
	if c, err := ParseCategoryFlag("message"); err != nil || c != log.CategoryMessage {
		t.Errorf("ParseCategoryFlag(message) = %v, %v", c, err)
	}
	if c, err := ParseCategoryFlag("State"); err != nil || c != log.CategoryState {
		t.Errorf("ParseCategoryFlag(State) = %v, %v", c, err)
	}
	if _, err := ParseCategoryFlag("snapshot"); err == nil {
		t.Error("expected error for invalid category")
	}
}

func TestRunViewAppliesFilter(t *testing.T) {
	base := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	path := writeLogFile(t, []log.Event{
		{
			Timestamp:    base,
			ConnectionID: "conn1",
			Direction:    log.DirectionOut,
			Layer:        log.LayerTransport,
			Category:     log.CategoryMessage,
			Line:         &log.LineEvent{Size: 6, Data: []byte("*VER\r")},
		},
		{
			Timestamp:    base.Add(time.Second),
			ConnectionID: "conn1",
			Direction:    log.DirectionIn,
			Layer:        log.LayerWire,
			Category:     log.CategoryMessage,
			Message: &log.MessageEvent{
				Type: log.MessageTypeResponse,
				Kind: "Version",
				Body: `VER"NV-I8G FWv2.66 HWv0"`,
			},
		},
	})

	wire := log.LayerWire
	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{Layer: &wire}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	output := buf.String()
	if strings.Contains(output, "TRANSPORT") {
		t.Errorf("transport event should be filtered out, got: %s", output)
	}
	if !strings.Contains(output, "Kind: Version") {
		t.Errorf("expected wire event in output, got: %s", output)
	}
}
