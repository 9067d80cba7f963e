package export

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// csvSink writes rows through encoding/csv, flushing on Close. Closers are
// released in reverse acquisition order.
type csvSink struct {
	w       *csv.Writer
	closers []io.Closer
}

// NewCSVSink wraps an arbitrary writer as a RowSink. The caller owns w.
func NewCSVSink(w io.Writer) RowSink {
	return &csvSink{w: csv.NewWriter(w)}
}

// FileSink returns a SinkFactory creating the CSV file at path on first use.
// Paths ending in ".gz" are gzip-compressed.
func FileSink(path string) SinkFactory {
	return func(columns []string) (RowSink, error) {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		s := &csvSink{closers: []io.Closer{f}}
		var w io.Writer = f
		if strings.HasSuffix(path, ".gz") {
			gz := gzip.NewWriter(f)
			s.closers = append(s.closers, gz)
			w = gz
		}
		s.w = csv.NewWriter(w)
		return s, nil
	}
}

func (s *csvSink) WriteHeader(columns []string) error { return s.w.Write(columns) }

func (s *csvSink) WriteRow(values []string) error { return s.w.Write(values) }

func (s *csvSink) Close() error {
	s.w.Flush()
	err := s.w.Error()
	for i := len(s.closers) - 1; i >= 0; i-- {
		if cerr := s.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	return err
}
