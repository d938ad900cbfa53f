package mcplog

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func TestSanitizeParams(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]any
		wantKeys []string
		wantSkip []string
	}{
		{
			name:  "nil map returns empty",
			input: nil,
		},
		{
			name:     "short string passes through",
			input:    map[string]any{"filename": "App.tsx"},
			wantKeys: []string{"filename"},
		},
		{
			name:     "source code replaced with length",
			input:    map[string]any{"code": strings.Repeat("x", 200)},
			wantKeys: []string{"code_len"},
			wantSkip: []string{"code"},
		},
		{
			name:     "bools and objects pass through",
			input:    map[string]any{"diff": true, "options": map[string]any{"libraryName": "antd"}},
			wantKeys: []string{"diff", "options"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := SanitizeParams(tc.input)
			for _, k := range tc.wantKeys {
				if _, ok := out[k]; !ok {
					t.Errorf("expected key %q in output", k)
				}
			}
			for _, k := range tc.wantSkip {
				if _, ok := out[k]; ok {
					t.Errorf("unexpected key %q in output", k)
				}
			}
		})
	}

	if got := SanitizeParams(map[string]any{"code": strings.Repeat("x", 200)})["code_len"]; got != 200 {
		t.Errorf("code_len = %v, want 200", got)
	}
}

func TestResponseBytes(t *testing.T) {
	if got := ResponseBytes(nil); got != 0 {
		t.Errorf("nil result: got %d, want 0", got)
	}
	if got := ResponseBytes(mcp.NewToolResultText("{}")); got == 0 {
		t.Error("text result: got 0 bytes")
	}
}

func TestNewEntry(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	restore := Now
	Now = func() time.Time { return start.Add(15 * time.Millisecond) }
	defer func() { Now = restore }()

	entry := NewEntry("transform_code", map[string]any{"filename": "a.js"}, start, mcp.NewToolResultError("syntax error"), nil)
	if entry.Ts != "2026-03-01T12:00:00Z" {
		t.Errorf("Ts = %q", entry.Ts)
	}
	if entry.DurationMs != 15 {
		t.Errorf("DurationMs = %d, want 15", entry.DurationMs)
	}
	if !entry.ToolError || entry.Error != nil {
		t.Errorf("want tool error only, got ToolError=%v Error=%v", entry.ToolError, entry.Error)
	}
	if entry.TokensEst != entry.ResponseBytes/4 {
		t.Errorf("TokensEst = %d, ResponseBytes = %d", entry.TokensEst, entry.ResponseBytes)
	}

	entry = NewEntry("scan_code", nil, start, nil, errors.New("boom"))
	if entry.Error == nil || *entry.Error != "boom" {
		t.Errorf("Error = %v, want boom", entry.Error)
	}
}

func readEntries(t *testing.T, path string) []LogEntry {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var got []LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e LogEntry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("unmarshal %q: %v", scanner.Text(), err)
		}
		got = append(got, e)
	}
	return got
}

func TestLoggerWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "calls.jsonl")

	logger, err := NewLogger(path)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	tools := []string{"transform_code", "list_libraries", "scan_code"}
	for _, tool := range tools {
		if err := logger.Write(LogEntry{Tool: tool, Params: map[string]any{}}); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got := readEntries(t, path)
	if len(got) != len(tools) {
		t.Fatalf("got %d entries, want %d", len(got), len(tools))
	}
	for i, e := range got {
		if e.Tool != tools[i] {
			t.Errorf("entry %d: tool %q, want %q", i, e.Tool, tools[i])
		}
	}
}

func TestLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")
	for i := 0; i < 2; i++ {
		logger, err := NewLogger(path)
		if err != nil {
			t.Fatalf("NewLogger: %v", err)
		}
		_ = logger.Write(LogEntry{Tool: "list_libraries"})
		logger.Close()
	}
	if got := readEntries(t, path); len(got) != 2 {
		t.Errorf("got %d entries after reopen, want 2", len(got))
	}
}

func TestNilLogger(t *testing.T) {
	logger, err := NewLogger("")
	if err != nil || logger != nil {
		t.Fatalf("NewLogger(\"\") = %v, %v; want nil, nil", logger, err)
	}
	if err := logger.Write(LogEntry{}); err != nil {
		t.Errorf("Write on nil logger: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close on nil logger: %v", err)
	}
}

func TestLoggerConcurrentWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")
	logger, err := NewLogger(path)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = logger.Write(LogEntry{Tool: "transform_code", Params: map[string]any{"code_len": 1000}})
		}()
	}
	wg.Wait()
	logger.Close()

	if got := readEntries(t, path); len(got) != n {
		t.Errorf("got %d entries, want %d", len(got), n)
	}
}
