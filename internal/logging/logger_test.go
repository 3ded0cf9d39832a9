package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Warn, Text, &buf)

	l.Debug("hidden")
	l.Info("also hidden")
	l.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("below-level entries leaked: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn entry missing: %q", out)
	}
}

func TestTextRenderingIncludesFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Info, Text, &buf)

	l.Info("sample stored", Field{Key: "channel", Value: "CH1"}, Field{Key: "temp_c", Value: 36.5})

	out := buf.String()
	if !strings.Contains(out, "[INFO] sample stored") {
		t.Errorf("missing level/message: %q", out)
	}
	if !strings.Contains(out, "channel=CH1") || !strings.Contains(out, "temp_c=36.5") {
		t.Errorf("missing fields: %q", out)
	}
}

func TestJSONRendering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Info, JSON, &buf)

	l.Info("sample stored", Field{Key: "channel", Value: "CH2"})

	line := buf.String()
	start := strings.Index(line, "{")
	if start < 0 {
		t.Fatalf("no JSON object in output: %q", line)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(line[start:])), &payload); err != nil {
		t.Fatalf("decode: %v (line %q)", err, line)
	}
	if payload["level"] != "INFO" || payload["msg"] != "sample stored" || payload["channel"] != "CH2" {
		t.Errorf("payload = %v", payload)
	}
}

func TestWithPropagatesFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Info, Text, &buf).With(Field{Key: "subsystem", Value: "monitor"})

	l.Info("started")

	if !strings.Contains(buf.String(), "subsystem=monitor") {
		t.Errorf("bound field missing: %q", buf.String())
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	if lvl, err := ParseLevel("WARNING"); err != nil || lvl != Warn {
		t.Errorf("ParseLevel(WARNING) = %v, %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	if f, err := ParseFormat("json"); err != nil || f != JSON {
		t.Errorf("ParseFormat(json) = %v, %v", f, err)
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
