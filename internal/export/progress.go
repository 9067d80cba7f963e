package export

// Progress receives per-record ticks during export and transfer. Totals come
// from the channel index and are advisory only; a wrong total never affects
// output.
type Progress interface {
	Add(n int)
}

type nopProgress struct{}

func (nopProgress) Add(int) {}

// NopProgress returns a Progress that discards all ticks.
func NopProgress() Progress { return nopProgress{} }
