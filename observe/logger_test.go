package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)
	ctx := context.Background()

	logger.Debug(ctx, "debug")
	logger.Info(ctx, "info")
	logger.Warn(ctx, "warn")
	logger.Error(ctx, "error")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0]["level"] != "warn" || lines[1]["level"] != "error" {
		t.Errorf("unexpected levels: %v, %v", lines[0]["level"], lines[1]["level"])
	}
}

func TestLogger_Redaction(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("debug", &buf)

	logger.Info(context.Background(), "login",
		F("password", "hunter2"),
		F("signature", "abc"),
		F("session_key", "k"),
		F("user", "alice"),
	)

	line := decodeLines(t, &buf)[0]
	for _, k := range []string{"password", "signature", "session_key"} {
		if line[k] != "[REDACTED]" {
			t.Errorf("%s = %v, want [REDACTED]", k, line[k])
		}
	}
	if line["user"] != "alice" {
		t.Errorf("user = %v, want alice", line["user"])
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	base := NewLoggerWithWriter("info", &buf)
	scoped := base.With(F("component", "actor"), F("token", "t"))

	scoped.Info(context.Background(), "scoped")
	base.Info(context.Background(), "base")

	lines := decodeLines(t, &buf)
	if lines[0]["component"] != "actor" {
		t.Errorf("component = %v, want actor", lines[0]["component"])
	}
	if lines[0]["token"] != "[REDACTED]" {
		t.Errorf("token = %v, want [REDACTED]", lines[0]["token"])
	}
	if _, ok := lines[1]["component"]; ok {
		t.Error("With must not modify the parent logger")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug": LevelDebug,
		"info":  LevelInfo,
		"warn":  LevelWarn,
		"error": LevelError,
		"bogus": LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNopLogger(t *testing.T) {
	l := NopLogger()
	l.Error(context.Background(), "ignored", F("k", "v"))
	if l.With(F("a", 1)) == nil {
		t.Error("With should return a logger")
	}
}
