package ops

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/davidqiu1993/ros-bag-tools/internal/bag"
	"github.com/davidqiu1993/ros-bag-tools/internal/config"
	"github.com/davidqiu1993/ros-bag-tools/internal/export"
	"github.com/davidqiu1993/ros-bag-tools/pkg/log"
)

// Runner executes batch operations with shared configuration and logging.
type Runner struct {
	log log.Logger
	cfg config.Config
}

// NewRunner builds a Runner.
func NewRunner(logger log.Logger, cfg config.Config) *Runner {
	return &Runner{log: logger, cfg: cfg}
}

// ExportRequest describes a CSV export batch.
type ExportRequest struct {
	Bags     []string
	Topics   []string
	OutDir   string
	Filter   string
	Compress bool
}

// Export flattens each requested topic of each bag into its own CSV file.
// Per-job failures are logged and the batch continues; an error is returned
// if any job failed.
func (r *Runner) Export(ctx context.Context, req ExportRequest) error {
	filter, err := export.NewFilter(req.Filter)
	if err != nil {
		return fmt.Errorf("compile filter: %w", err)
	}
	outDir := r.outDir(req.OutDir)

	failed := 0
	for _, bagPath := range req.Bags {
		src, err := bag.Open(bagPath, bag.ModeRead)
		if err != nil {
			r.log.Error("open bag", log.Str("bag", bagPath), log.Err(err))
			failed += len(req.Topics)
			continue
		}
		index, err := src.Channels()
		if err != nil {
			r.log.Error("read channel index", log.Str("bag", bagPath), log.Err(err))
			_ = src.Close()
			failed += len(req.Topics)
			continue
		}
		for _, topic := range req.Topics {
			if err := r.exportOne(ctx, src, topic, index[topic], outDir, req.Compress, filter); err != nil {
				r.log.Error("export topic", log.Str("bag", bagPath), log.Str("channel", topic), log.Err(err))
				failed++
			}
		}
		if err := src.Close(); err != nil {
			r.log.Warn("close bag", log.Str("bag", bagPath), log.Err(err))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d export job(s) failed", failed)
	}
	return nil
}

func (r *Runner) exportOne(ctx context.Context, src *bag.Bag, topic string, total uint64, outDir string, compress bool, filter export.Filter) error {
	path := CSVName(src.Path(), topic, outDir)
	if compress {
		path += ".gz"
	}

	created := false
	open := func(columns []string) (export.RowSink, error) {
		sink, err := export.FileSink(path)(columns)
		if err == nil {
			created = true
		}
		return sink, err
	}

	engine := export.NewEngine(
		export.WithFilter(filter),
		export.WithProgress(r.newProgress(int64(total), topic)),
	)
	n, err := engine.ExportChannel(ctx, src, topic, open)
	if err != nil {
		// never leave a file without the header-consistency guarantee
		if created {
			_ = os.Remove(path)
		}
		return err
	}
	r.log.Info("exported topic",
		log.Str("bag", src.Path()), log.Str("channel", topic),
		log.Str("csv", path), log.Int("records", n))
	return nil
}

// FilterRequest describes a pick or remove batch.
type FilterRequest struct {
	Bags    []string
	Topics  []string
	OutDir  string
	Postfix string
	Filter  string
}

// Pick writes, for each bag, a new bag containing only the requested topics.
func (r *Runner) Pick(ctx context.Context, req FilterRequest) error {
	return r.filterBags(ctx, req, false)
}

// Remove writes, for each bag, a new bag containing every channel except the
// requested topics.
func (r *Runner) Remove(ctx context.Context, req FilterRequest) error {
	return r.filterBags(ctx, req, true)
}

func (r *Runner) filterBags(ctx context.Context, req FilterRequest, invert bool) error {
	filter, err := export.NewFilter(req.Filter)
	if err != nil {
		return fmt.Errorf("compile filter: %w", err)
	}
	postfix := req.Postfix
	if postfix == "" {
		postfix = r.cfg.Postfix
	}
	outDir := r.outDir(req.OutDir)

	failed := 0
	for _, bagPath := range req.Bags {
		outPath := FilteredName(bagPath, outDir, postfix)
		r.log.Info("processing bag", log.Str("bag", bagPath), log.Str("out", outPath))
		if err := r.filterOne(ctx, bagPath, outPath, req.Topics, invert, filter); err != nil {
			r.log.Error("filter bag", log.Str("bag", bagPath), log.Err(err))
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d bag(s) failed", failed)
	}
	return nil
}

func (r *Runner) filterOne(ctx context.Context, bagPath, outPath string, topics []string, invert bool, filter export.Filter) (err error) {
	src, err := bag.Open(bagPath, bag.ModeRead)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := src.Close(); err == nil {
			err = cerr
		}
	}()

	index, err := src.Channels()
	if err != nil {
		return err
	}
	include := topics
	if invert {
		include = export.Complement(index, topics)
	} else {
		// picking a channel the source never carried must fail the job,
		// not quietly write an empty bag
		for _, ch := range topics {
			if _, ok := index[ch]; !ok {
				return &export.ChannelNotFoundError{Channel: ch}
			}
		}
	}

	var total int64
	for _, ch := range include {
		total += int64(index[ch])
	}

	dst, err := bag.Open(outPath, bag.ModeWrite, bag.Options{Fsync: r.cfg.FsyncMode()})
	if err != nil {
		return err
	}

	n := 0
	// an empty inclusion list means nothing survives; Read treats empty as
	// "all channels", so skip the transfer entirely
	if len(include) > 0 {
		engine := export.NewEngine(
			export.WithFilter(filter),
			export.WithProgress(r.newProgress(total, bagBase(bagPath))),
		)
		n, err = engine.Transfer(ctx, src, include, dst)
	}
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.RemoveAll(outPath)
		return err
	}
	r.log.Info("wrote filtered bag", log.Str("out", outPath), log.Int("records", n))
	return nil
}

// ChannelInfo is one channel entry in a bag summary.
type ChannelInfo struct {
	Name  string
	Count uint64
}

// BagInfo summarizes a bag.
type BagInfo struct {
	Path        string
	ID          string
	CreatedAtMs int64
	Records     uint64
	Channels    []ChannelInfo
}

// Info inspects a bag without reading its records.
func (r *Runner) Info(ctx context.Context, bagPath string) (BagInfo, error) {
	src, err := bag.Open(bagPath, bag.ModeRead)
	if err != nil {
		return BagInfo{}, err
	}
	defer src.Close()

	info, err := src.Info()
	if err != nil {
		return BagInfo{}, err
	}
	index, err := src.Channels()
	if err != nil {
		return BagInfo{}, err
	}

	out := BagInfo{Path: bagPath, ID: info.ID, CreatedAtMs: info.CreatedAtMs}
	for name, count := range index {
		out.Records += count
		out.Channels = append(out.Channels, ChannelInfo{Name: name, Count: count})
	}
	sort.Slice(out.Channels, func(i, j int) bool { return out.Channels[i].Name < out.Channels[j].Name })
	return out, nil
}

func (r *Runner) outDir(reqDir string) string {
	if reqDir != "" {
		return reqDir
	}
	return r.cfg.OutDir
}
