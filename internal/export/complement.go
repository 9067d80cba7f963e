package export

import "sort"

// Complement returns the channels present in the index and not in excluded,
// sorted for determinism. Excluded names absent from the index are ignored:
// removing something that was never there is a no-op. The result is the
// inclusion list for remove-mode transfers; record order is governed by the
// bag's own iteration, not by this list's order.
func Complement(index map[string]uint64, excluded []string) []string {
	drop := make(map[string]struct{}, len(excluded))
	for _, ch := range excluded {
		drop[ch] = struct{}{}
	}
	out := make([]string, 0, len(index))
	for ch := range index {
		if _, skip := drop[ch]; skip {
			continue
		}
		out = append(out, ch)
	}
	sort.Strings(out)
	return out
}
