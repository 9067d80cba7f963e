package ops

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/valyala/fastjson"

	"github.com/davidqiu1993/ros-bag-tools/internal/bag"
	"github.com/davidqiu1993/ros-bag-tools/pkg/log"
)

// maxLineBytes bounds one JSON-lines record during import.
const maxLineBytes = 16 << 20

// Import appends records from a JSON-lines stream to a new bag at bagPath.
// Each line is an object {"channel": string, "time_sec": number, "data": object}.
// Returns the number of records written.
func (r *Runner) Import(ctx context.Context, src io.Reader, bagPath string) (n int, err error) {
	dst, err := bag.Open(bagPath, bag.ModeWrite, bag.Options{Fsync: r.cfg.FsyncMode()})
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
	}()

	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 64<<10), maxLineBytes)

	var p fastjson.Parser
	line := 0
	for sc.Scan() {
		line++
		if cerr := ctx.Err(); cerr != nil {
			return n, cerr
		}
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		v, perr := p.ParseBytes(raw)
		if perr != nil {
			return n, fmt.Errorf("line %d: %w", line, perr)
		}
		channel := string(v.GetStringBytes("channel"))
		if channel == "" {
			return n, fmt.Errorf("line %d: missing channel", line)
		}
		data := v.Get("data")
		if data == nil {
			return n, fmt.Errorf("line %d: missing data", line)
		}
		ts := time.Unix(0, int64(v.GetFloat64("time_sec")*1e9))
		if _, err := dst.Append(ctx, channel, ts, data.MarshalTo(nil)); err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		n++
	}
	if serr := sc.Err(); serr != nil {
		return n, serr
	}
	r.log.Info("imported records", log.Str("bag", bagPath), log.Int("records", n))
	return n, nil
}
