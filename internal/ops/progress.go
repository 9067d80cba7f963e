package ops

import (
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/davidqiu1993/ros-bag-tools/internal/export"
)

// newProgress builds a terminal progress bar when enabled. The total comes
// from the channel index and is advisory only.
func (r *Runner) newProgress(total int64, desc string) export.Progress {
	if !r.cfg.Progress {
		return export.NopProgress()
	}
	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("msg"),
		progressbar.OptionClearOnFinish(),
	)
	return barProgress{bar: bar}
}

type barProgress struct {
	bar *progressbar.ProgressBar
}

func (p barProgress) Add(n int) { _ = p.bar.Add(n) }
