package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func jsonLogger(t *testing.T, level string) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	cfg := &Config{Level: level, Format: FormatJSON}
	return NewWithWriter(cfg, "lyrebird", &buf), &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected a log line, got nothing")
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, line)
	}
	return m
}

func TestNewWithWriter_JSONFields(t *testing.T) {
	l, buf := jsonLogger(t, "debug")
	l.Info("dictation created", Fields("dictation_id", "d-1", "bytes", 42))

	m := decodeLine(t, buf)
	if m["message"] != "dictation created" {
		t.Errorf("unexpected message %v", m["message"])
	}
	if m["service"] != "lyrebird" {
		t.Errorf("expected service field, got %v", m["service"])
	}
	if m["dictation_id"] != "d-1" {
		t.Errorf("expected dictation_id field, got %v", m["dictation_id"])
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := jsonLogger(t, "warn")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %q", buf.String())
	}
	l.Warn("shown")
	if buf.Len() == 0 {
		t.Error("warn should be written at warn level")
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	l, buf := jsonLogger(t, "loud")
	l.Debug("hidden")
	l.Info("shown")
	if !strings.Contains(buf.String(), "shown") || strings.Contains(buf.String(), "hidden") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	l, buf := jsonLogger(t, "info")
	l.WithComponent("preference").Info("x")
	if m := decodeLine(t, buf); m[FieldComponent] != "preference" {
		t.Errorf("expected component field, got %v", m[FieldComponent])
	}
}

func TestWithContext(t *testing.T) {
	l, buf := jsonLogger(t, "info")
	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithUserID(ctx, "user-1")
	l.WithContext(ctx).Info("x")

	m := decodeLine(t, buf)
	if m[FieldRequestID] != "req-1" {
		t.Errorf("expected request_id, got %v", m[FieldRequestID])
	}
	if m[FieldUserID] != "user-1" {
		t.Errorf("expected user_id, got %v", m[FieldUserID])
	}
	if RequestIDFromContext(ctx) != "req-1" {
		t.Error("RequestIDFromContext did not return stored id")
	}
}

func TestWithError(t *testing.T) {
	l, buf := jsonLogger(t, "info")
	l.WithError(errors.New("boom")).Error("failed")
	if m := decodeLine(t, buf); m["error"] != "boom" {
		t.Errorf("expected error field, got %v", m["error"])
	}
}

func TestConsoleFormatTags(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: FormatConsole, NoColor: true}, "lyrebird", &buf)
	l.Info("hello")
	out := buf.String()
	if !strings.Contains(out, "[LYR][INF]") {
		t.Errorf("expected service and level tags, got %q", out)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	cfg.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestFields_OddCount(t *testing.T) {
	m := Fields("a", 1, "b")
	if len(m) != 1 || m["a"] != 1 {
		t.Errorf("unexpected fields %v", m)
	}
}

func TestRegistry(t *testing.T) {
	l := NewNop()
	Register("custom", l)
	if Get("custom") != l {
		t.Error("expected registered logger")
	}
	if Get("unregistered") == nil {
		t.Error("expected fallback logger")
	}
}

func TestGlobalLogger(t *testing.T) {
	Init(Config{Level: "info", Format: FormatJSON})
	if GetGlobalLogger() == nil {
		t.Fatal("expected global logger after Init")
	}
	custom := NewNop()
	SetGlobalLogger(custom)
	if GetGlobalLogger() != custom {
		t.Error("SetGlobalLogger did not replace the global logger")
	}
}
