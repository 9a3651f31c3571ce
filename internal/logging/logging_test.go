package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNew_JSONWritesFields(t *testing.T) {
	buf := &bytes.Buffer{}
	l, err := New(buf, "trace", FormatJSON)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	l.WithFields(map[string]any{"quiz_id": "q-1"}).Info("navigation started")

	out := buf.String()
	if !strings.Contains(out, "navigation started") {
		t.Errorf("output %q missing message", out)
	}
	if !strings.Contains(out, "quiz_id") {
		t.Errorf("output %q missing structured field", out)
	}
}

func TestNew_RejectsUnknownSettings(t *testing.T) {
	if _, err := New(nil, "loud", FormatConsole); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New(nil, "info", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestNew_AcceptsEveryLevel(t *testing.T) {
	for _, level := range Levels {
		if _, err := New(&bytes.Buffer{}, strings.ToUpper(level), ""); err != nil {
			t.Errorf("New(%q) = %v", level, err)
		}
	}
}

func TestNormalize(t *testing.T) {
	if Normalize(nil) == nil {
		t.Fatal("Normalize(nil) returned nil")
	}
	l := Normalize(nil).WithFields(map[string]any{"a": 1}).WithContext(context.Background())
	l.Error("discarded %d", 1)

	if _, ok := Normalize(Nop()).(nopLogger); !ok {
		t.Error("Normalize replaced a non-nil logger")
	}
}
