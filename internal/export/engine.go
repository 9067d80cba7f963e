package export

import (
	"context"
	"fmt"
	"strconv"

	"github.com/davidqiu1993/ros-bag-tools/internal/bag"
	"github.com/davidqiu1993/ros-bag-tools/internal/schema"
)

// TimeColumn is the synthetic leading CSV column carrying the record
// timestamp as fractional seconds.
const TimeColumn = "_ros_time_sec"

// ChannelNotFoundError reports an export request for a channel absent from
// the source bag's index.
type ChannelNotFoundError struct {
	Channel string
}

func (e *ChannelNotFoundError) Error() string {
	return fmt.Sprintf("export: channel %q not found in source bag", e.Channel)
}

// RowSink accepts an ordered header and subsequent rows in header order.
type RowSink interface {
	WriteHeader(columns []string) error
	WriteRow(values []string) error
	Close() error
}

// SinkFactory opens a sink once the column list is known. Export calls it on
// the first matching record only, so a zero-record export opens nothing.
type SinkFactory func(columns []string) (RowSink, error)

// Option configures an Engine.
type Option func(*Engine)

// WithProgress installs a progress receiver.
func WithProgress(p Progress) Option {
	return func(e *Engine) { e.progress = p }
}

// WithFilter installs a compiled record filter. The zero Filter passes
// everything.
func WithFilter(f Filter) Option {
	return func(e *Engine) { e.filter = f }
}

// Engine streams records out of bags. Single-threaded and synchronous: one
// record is read, processed, and written before the next is read.
type Engine struct {
	progress Progress
	filter   Filter
}

// NewEngine builds an Engine with the given options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{progress: NopProgress()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// fieldCache is the per-export schema cache: computed once from the first
// record, fixed before the first data row, discarded when the export returns.
type fieldCache struct {
	columns []string
	paths   []schema.Path
}

func newFieldCache(v schema.Value) (*fieldCache, error) {
	fields, err := schema.Flatten(v)
	if err != nil {
		return nil, err
	}
	c := &fieldCache{
		columns: append([]string{TimeColumn}, fields...),
		paths:   make([]schema.Path, len(fields)),
	}
	for i, f := range fields {
		c.paths[i] = schema.ParsePath(f)
	}
	return c, nil
}

// ExportChannel flattens every record of channel into the sink opened by
// open, and returns the number of rows written. The sink is closed on both
// completion and error paths once opened.
func (e *Engine) ExportChannel(ctx context.Context, src *bag.Bag, channel string, open SinkFactory) (n int, err error) {
	index, err := src.Channels()
	if err != nil {
		return 0, err
	}
	if _, ok := index[channel]; !ok {
		return 0, &ChannelNotFoundError{Channel: channel}
	}

	it, err := src.Read([]string{channel})
	if err != nil {
		return 0, err
	}
	defer it.Close()

	var (
		doc   schema.Document
		cache *fieldCache
		sink  RowSink
		row   []string
	)
	defer func() {
		if sink != nil {
			cerr := sink.Close()
			if err == nil {
				err = cerr
			}
		}
	}()

	for it.Next() {
		if cerr := ctx.Err(); cerr != nil {
			return n, cerr
		}
		rec := it.Record()
		v, perr := doc.Parse(rec.Payload)
		if perr != nil {
			return n, fmt.Errorf("channel %s: %w", channel, perr)
		}
		if !e.filter.Eval(rec) {
			e.progress.Add(1)
			continue
		}
		if cache == nil {
			cache, err = newFieldCache(v)
			if err != nil {
				return n, fmt.Errorf("channel %s: %w", channel, err)
			}
			sink, err = open(cache.columns)
			if err != nil {
				return n, err
			}
			if err = sink.WriteHeader(cache.columns); err != nil {
				return n, err
			}
			row = make([]string, len(cache.columns))
		}
		row[0] = formatTimeSec(rec.TimeSec())
		for i, p := range cache.paths {
			val, rerr := p.Resolve(v)
			if rerr != nil {
				return n, fmt.Errorf("channel %s: %w", channel, rerr)
			}
			row[i+1] = val
		}
		if err = sink.WriteRow(row); err != nil {
			return n, err
		}
		n++
		e.progress.Add(1)
	}
	if ierr := it.Err(); ierr != nil {
		return n, ierr
	}
	return n, nil
}

// Transfer appends every source record on an included channel verbatim to
// dst, preserving order and timestamps, and returns the number of records
// written. Channels nil means all channels.
func (e *Engine) Transfer(ctx context.Context, src *bag.Bag, channels []string, dst *bag.Bag) (int, error) {
	it, err := src.Read(channels)
	if err != nil {
		return 0, err
	}
	defer it.Close()

	n := 0
	for it.Next() {
		if cerr := ctx.Err(); cerr != nil {
			return n, cerr
		}
		rec := it.Record()
		if !e.filter.Eval(rec) {
			e.progress.Add(1)
			continue
		}
		if _, err := dst.Append(ctx, rec.Channel, rec.Time, rec.Payload); err != nil {
			return n, err
		}
		n++
		e.progress.Add(1)
	}
	if err := it.Err(); err != nil {
		return n, err
	}
	return n, nil
}

// formatTimeSec renders fractional seconds with the shortest representation
// that round-trips float64.
func formatTimeSec(sec float64) string {
	return strconv.FormatFloat(sec, 'f', -1, 64)
}
