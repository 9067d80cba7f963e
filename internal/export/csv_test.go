package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func TestCSVSinkQuoting(t *testing.T) {
	var buf bytes.Buffer
	sink := NewCSVSink(&buf)
	if err := sink.WriteHeader([]string{TimeColumn, "msg"}); err != nil {
		t.Fatalf("header: %v", err)
	}
	if err := sink.WriteRow([]string{"1.5", `with "quotes", and comma`}); err != nil {
		t.Fatalf("row: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %q", buf.String())
	}
	if lines[0] != "_ros_time_sec,msg" {
		t.Fatalf("header line %q", lines[0])
	}
	if lines[1] != `1.5,"with ""quotes"", and comma"` {
		t.Fatalf("row line %q", lines[1])
	}
}

func TestFileSinkCreatesLazily(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	factory := FileSink(path)

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file must not exist before factory use")
	}
	sink, err := factory([]string{TimeColumn, "a"})
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if err := sink.WriteHeader([]string{TimeColumn, "a"}); err != nil {
		t.Fatalf("header: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.TrimSpace(string(raw)) != "_ros_time_sec,a" {
		t.Fatalf("content %q", raw)
	}
}

func TestFileSinkGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv.gz")
	sink, err := FileSink(path)([]string{"a"})
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if err := sink.WriteHeader([]string{"a"}); err != nil {
		t.Fatalf("header: %v", err)
	}
	if err := sink.WriteRow([]string{"1"}); err != nil {
		t.Fatalf("row: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip: %v", err)
	}
	defer gz.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(gz); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "a\n1" {
		t.Fatalf("content %q", got)
	}
}
