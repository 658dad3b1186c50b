package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

func resetLoggingState() {
	mu.Lock()
	defer mu.Unlock()

	baseWriter = os.Stderr
	isTerminalFn = term.IsTerminal
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
}

func TestInitJSONFormat(t *testing.T) {
	t.Cleanup(resetLoggingState)

	var buf bytes.Buffer
	baseWriter = &buf

	logger := Init(Config{Format: "json", Level: "info"})
	logger.Info().Str("profile", "pro").Msg("captured")

	var event map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &event); err != nil {
		t.Fatalf("failed to unmarshal log line: %v", err)
	}
	if event["message"] != "captured" || event["profile"] != "pro" {
		t.Fatalf("unexpected event: %#v", event)
	}
	if _, ok := event["time"]; !ok {
		t.Fatal("expected timestamp field")
	}
}

func TestInitDefaultLevelIsWarn(t *testing.T) {
	t.Cleanup(resetLoggingState)

	var buf bytes.Buffer
	baseWriter = &buf

	logger := Init(Config{})
	logger.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be suppressed at the default level, got %q", buf.String())
	}

	logger.Warn().Msg("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("warn should be logged, got %q", buf.String())
	}
}

func TestInitConsoleFormat(t *testing.T) {
	t.Cleanup(resetLoggingState)

	var buf bytes.Buffer
	baseWriter = &buf

	logger := Init(Config{Format: "console", Level: "debug"})
	logger.Debug().Msg("switched profile")

	out := buf.String()
	if strings.HasPrefix(out, "{") {
		t.Fatalf("console output should not be JSON: %q", out)
	}
	if !strings.Contains(out, "switched profile") {
		t.Fatalf("missing message: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"":         zerolog.WarnLevel,
		"WARNING":  zerolog.WarnLevel,
		" debug ":  zerolog.DebugLevel,
		"info":     zerolog.InfoLevel,
		"error":    zerolog.ErrorLevel,
		"disabled": zerolog.Disabled,
		"bogus":    zerolog.WarnLevel,
	}
	for input, want := range tests {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestSelectWriterAuto(t *testing.T) {
	t.Cleanup(resetLoggingState)

	var buf bytes.Buffer
	if w := selectWriter("auto", &buf); w != &buf {
		t.Fatal("non-file writers are never terminals")
	}

	isTerminalFn = func(int) bool { return true }
	if _, ok := selectWriter("auto", os.Stderr).(zerolog.ConsoleWriter); !ok {
		t.Fatal("expected console writer on a terminal")
	}
}
