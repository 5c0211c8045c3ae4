package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PendoNL/spotify-connect-go/pkg/log"
)

// createTestLogFile writes events to a temp log file and returns its path.
func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "events.cbor")
	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return path
}

func sampleEvents() []log.Event {
	ts := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	return []log.Event{
		{Timestamp: ts, Direction: log.DirectionIn, Category: log.CategoryDiscovery, Peer: "Living Room", Action: "advertise"},
		{Timestamp: ts.Add(time.Second), Direction: log.DirectionIn, Category: log.CategoryCapture, Peer: "10.0.0.5:1234", Action: "addUser", Status: 101, UserName: "alice", Decoded: true},
		{Timestamp: ts.Add(2 * time.Second), Direction: log.DirectionOut, Category: log.CategoryWake, Peer: "10.0.0.9:36963", Action: "addUser", Status: 101, UserName: "alice"},
		{Timestamp: ts.Add(3 * time.Second), Direction: log.DirectionOut, Category: log.CategoryError, Peer: "10.0.0.9:36963", Err: "connection refused"},
	}
}

func TestViewAllEvents(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"DISCOVERY", "CAPTURE", "WAKE", "ERROR", "alice", "Living Room", "connection refused"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestViewFilterByCategory(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	capture := log.CategoryCapture
	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{Category: &capture}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "CAPTURE") {
		t.Error("expected CAPTURE events in output")
	}
	if strings.Contains(output, "DISCOVERY") || strings.Contains(output, "WAKE") {
		t.Error("filtered categories must not appear in output")
	}
}

func TestViewFilterByDirection(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	out := log.DirectionOut
	var buf bytes.Buffer
	if err := RunView(path, ViewFilter{Direction: &out}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	if strings.Contains(buf.String(), "DISCOVERY") {
		t.Error("incoming events must not appear in OUT-filtered output")
	}
}

func TestExportJSONL(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := exportJSONL(path, &buf); err != nil {
		t.Fatalf("exportJSONL failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 JSONL lines, got %d", len(lines))
	}
	for i, line := range lines {
		var decoded map[string]any
		if err := json.Unmarshal([]byte(line), &decoded); err != nil {
			t.Errorf("line %d is not valid JSON: %v", i, err)
		}
	}
}

func TestExportCSV(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := exportCSV(path, &buf); err != nil {
		t.Fatalf("exportCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// Header plus four rows.
	if len(lines) != 5 {
		t.Fatalf("expected 5 CSV lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "timestamp,direction,category") {
		t.Errorf("unexpected CSV header: %s", lines[0])
	}
}

func TestFilterWritesValidLog(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	output := filepath.Join(t.TempDir(), "filtered.cbor")

	err := RunFilter(path, FilterOptions{Output: output, UserName: "alice"})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}

	// The filtered file must itself be a readable event log.
	count := 0
	err = readEvents(output, func(event log.Event) error {
		if event.UserName != "alice" {
			t.Errorf("unexpected user %q in filtered output", event.UserName)
		}
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("readEvents failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 filtered events, got %d", count)
	}
}

func TestStatsOutput(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Total events: 4") {
		t.Errorf("expected total count in output, got:\n%s", output)
	}
	if !strings.Contains(output, "Captures: 1 (1 decoded)") {
		t.Errorf("expected capture summary in output, got:\n%s", output)
	}
	if !strings.Contains(output, "CAPTURE") || !strings.Contains(output, "WAKE") {
		t.Error("expected category breakdown in output")
	}
}

func TestStatsEmptyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Total events: 0") {
		t.Error("expected zero count for empty log")
	}
}

func TestParseFlags(t *testing.T) {
	if _, err := ParseDirectionFlag("sideways"); err == nil {
		t.Error("expected error for invalid direction")
	}
	if _, err := ParseCategoryFlag("bogus"); err == nil {
		t.Error("expected error for invalid category")
	}
	d, err := ParseDirectionFlag("OUT")
	if err != nil || d != log.DirectionOut {
		t.Errorf("ParseDirectionFlag(OUT) = %v, %v", d, err)
	}
	c, err := ParseCategoryFlag("wake")
	if err != nil || c != log.CategoryWake {
		t.Errorf("ParseCategoryFlag(wake) = %v, %v", c, err)
	}
}
