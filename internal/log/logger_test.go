package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLogger_ComponentField(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Component: ComponentStats, Output: &buf})

	l.Info("computed", FieldItems, 3)
	out := buf.String()
	if !strings.Contains(out, "component=stats") {
		t.Errorf("expected component field, got %q", out)
	}
	if !strings.Contains(out, "items=3") {
		t.Errorf("expected items field, got %q", out)
	}

	buf.Reset()
	l.WithComponent(ComponentWorker).Warn("slow")
	if !strings.Contains(buf.String(), "component=worker") {
		t.Errorf("expected worker component, got %q", buf.String())
	}
	if strings.Count(buf.String(), "component=") != 1 {
		t.Errorf("component logged more than once: %q", buf.String())
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelWarn, Component: ComponentApp, Output: &buf})
	l.Info("hidden")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing logged, got %q", buf.String())
	}
	l.Error("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected error record, got %q", buf.String())
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Component: ComponentApp, Format: "json", Output: &buf})
	l.Info("published")
	if !strings.Contains(buf.String(), `"component":"app"`) {
		t.Fatalf("expected JSON component field, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithOperation(OpCompute).
		WithSource("in.json").
		WithReport(10, 3, 4, 98).
		WithError(errors.New("boom"))

	if f[FieldOperation] != OpCompute || f[FieldSource] != "in.json" || f[FieldAverage] != int64(98) {
		t.Fatalf("unexpected fields: %v", f)
	}
	if f[FieldError] != "boom" {
		t.Fatalf("error field = %v", f[FieldError])
	}
	if got := len(f.ToSlice()); got != 2*len(f) {
		t.Fatalf("ToSlice len = %d, want %d", got, 2*len(f))
	}
	if _, ok := NewFields().WithError(nil)[FieldError]; ok {
		t.Fatal("nil error should not add a field")
	}
}
