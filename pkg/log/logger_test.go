package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"info", InfoLevel, false},
		{"", InfoLevel, false},
		{"warn", WarnLevel, false},
		{"warning", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"verbose", InfoLevel, true},
	}
	for _, c := range cases {
		got, err := ParseLevel(c.in)
		if (err != nil) != c.wantErr {
			t.Fatalf("ParseLevel(%q) err=%v wantErr=%v", c.in, err, c.wantErr)
		}
		if got != c.want {
			t.Fatalf("ParseLevel(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestJSONOutputCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: DebugLevel, Format: "json", Out: &buf})
	logger.Info("exported", Str("bag", "a.bag"), Int("records", 3))

	out := buf.String()
	for _, want := range []string{`"bag":"a.bag"`, `"records":3`, `"exported"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

func TestLevelGate(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: WarnLevel, Format: "json", Out: &buf})
	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be gated at warn level, got %q", buf.String())
	}
	logger.Warn("kept")
	if buf.Len() == 0 {
		t.Fatalf("warn should pass at warn level")
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: InfoLevel, Format: "json", Out: &buf}).WithComponent("export")
	logger.Info("hello")
	if !strings.Contains(buf.String(), `"component":"export"`) {
		t.Fatalf("missing component field: %q", buf.String())
	}
}
