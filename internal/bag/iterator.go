package bag

import (
	"fmt"

	"github.com/cockroachdb/pebble"

	pebblestore "github.com/davidqiu1993/ros-bag-tools/internal/storage/pebble"
)

// Iterator streams records in append order. Exactly one record is decoded and
// live at any time. Usage:
//
//	for it.Next() { rec := it.Record() }
//	if err := it.Err(); err != nil { ... }
type Iterator struct {
	iter    *pebble.Iterator
	include map[string]struct{}
	started bool
	rec     Record
	err     error
}

func newIterator(db *pebblestore.DB, channels []string) (*Iterator, error) {
	low := keyEntry(0)
	hi := keyEntry(^uint64(0))
	iter, err := db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: append(hi, 0x00)})
	if err != nil {
		return nil, err
	}
	var include map[string]struct{}
	if len(channels) > 0 {
		include = make(map[string]struct{}, len(channels))
		for _, ch := range channels {
			include[ch] = struct{}{}
		}
	}
	return &Iterator{iter: iter, include: include}, nil
}

// Next advances to the next record on an included channel. It returns false
// when the stream is exhausted or a decode error occurred; check Err after.
func (it *Iterator) Next() bool {
	if it.err != nil {
		return false
	}
	var ok bool
	if !it.started {
		it.started = true
		ok = it.iter.First()
	} else {
		ok = it.iter.Next()
	}
	for ; ok; ok = it.iter.Next() {
		rec, valid := decodeRecord(it.iter.Value())
		if !valid {
			it.err = fmt.Errorf("bag: corrupt record at seq %d", entrySeq(it.iter.Key()))
			return false
		}
		if it.include != nil {
			if _, want := it.include[rec.Channel]; !want {
				continue
			}
		}
		it.rec = rec
		return true
	}
	it.err = it.iter.Error()
	return false
}

// Record returns the current record. Valid only after Next reported true and
// until the next call to Next.
func (it *Iterator) Record() Record { return it.rec }

// Err returns the first error encountered during iteration, if any.
func (it *Iterator) Err() error { return it.err }

// Close releases the underlying iterator.
func (it *Iterator) Close() error { return it.iter.Close() }
