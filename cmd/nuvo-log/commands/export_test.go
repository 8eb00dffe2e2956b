package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nuvo-protocol/nuvo-go/pkg/log"
)

func exportFixture(t *testing.T) string {
	t.Helper()

	base := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	zone := 1
	return writeLogFile(t, []log.Event{
		{
			Timestamp:    base,
			ConnectionID: "conn1",
			Direction:    log.DirectionOut,
			Layer:        log.LayerWire,
			Category:     log.CategoryMessage,
			Port:         "/dev/ttyUSB0",
			Message: &log.MessageEvent{
				Type: log.MessageTypeCommand,
				Body: "Z1ON",
				Zone: &zone,
			},
		},
		{
			Timestamp:    base.Add(40 * time.Millisecond),
			ConnectionID: "conn1",
			Direction:    log.DirectionIn,
			Layer:        log.LayerWire,
			Category:     log.CategoryMessage,
			Port:         "/dev/ttyUSB0",
			Message: &log.MessageEvent{
				Type: log.MessageTypeResponse,
				Kind: "ZoneStatus",
				Body: "Z1,ON,SRC1,VOL60,DND0,LOCK0",
				Zone: &zone,
			},
		},
	})
}

func TestExportJSONL(t *testing.T) {
	path := exportFixture(t)
	out := filepath.Join(t.TempDir(), "out.jsonl")

	if err := RunExport(path, "jsonl", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 JSONL lines, got %d", len(lines))
	}

	// Each line must be valid JSON
	for i, line := range lines {
		var obj map[string]any
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			t.Errorf("line %d is not valid JSON: %v", i, err)
		}
	}

	if !strings.Contains(lines[1], "ZoneStatus") {
		t.Errorf("expected ZoneStatus in second line, got: %s", lines[1])
	}
}

func TestExportCSV(t *testing.T) {
	path := exportFixture(t)
	out := filepath.Join(t.TempDir(), "out.csv")

	if err := RunExport(path, "csv", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "timestamp,connection_id,direction") {
		t.Errorf("unexpected CSV header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "COMMAND") || !strings.Contains(lines[1], "Z1ON") {
		t.Errorf("unexpected command row: %s", lines[1])
	}
	if !strings.Contains(lines[2], "RESPONSE") || !strings.Contains(lines[2], "ZoneStatus") {
		t.Errorf("unexpected response row: %s", lines[2])
	}
	if !strings.Contains(lines[2], "/dev/ttyUSB0") {
		t.Errorf("expected port column, got: %s", lines[2])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := exportFixture(t)

	err := RunExport(path, "xml", "")
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("unexpected error: %v", err)
	}
}
