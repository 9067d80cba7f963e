package bag

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"

	pebblestore "github.com/davidqiu1993/ros-bag-tools/internal/storage/pebble"
)

// Mode selects how a bag is opened.
type Mode int

const (
	// ModeRead opens an existing bag for sequential reads. The path must exist.
	ModeRead Mode = iota
	// ModeWrite creates (or opens) a bag for appending.
	ModeWrite
)

// OpenError reports a bag that could not be opened. It is fatal for that file
// only; batch callers log it and continue with the next bag.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string { return fmt.Sprintf("bag: open %s: %v", e.Path, e.Err) }
func (e *OpenError) Unwrap() error { return e.Err }

// ErrReadOnly is returned by Append on a bag opened with ModeRead.
var ErrReadOnly = errors.New("bag: opened read-only")

// Info identifies a bag.
type Info struct {
	ID          string `json:"id"`
	CreatedAtMs int64  `json:"createdAtMs"`
}

// Bag is an open bag container. Instances are exclusively owned by one
// operation at a time.
type Bag struct {
	db   *pebblestore.DB
	path string
	mode Mode

	mu      sync.Mutex
	lastSeq uint64
	counts  map[string]uint64
}

// Options tunes how a bag is opened.
type Options struct {
	// Fsync controls write durability. Defaults to FsyncModeAlways so every
	// appended record is independently durable.
	Fsync pebblestore.FsyncMode
}

// Open opens a bag at path in the given mode.
func Open(path string, mode Mode, opts ...Options) (*Bag, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Fsync == pebblestore.FsyncModeUnspecified {
		o.Fsync = pebblestore.FsyncModeAlways
	}

	if mode == ModeRead {
		st, err := os.Stat(path)
		if err != nil {
			return nil, &OpenError{Path: path, Err: err}
		}
		if !st.IsDir() {
			return nil, &OpenError{Path: path, Err: errors.New("not a bag directory")}
		}
	}

	db, err := pebblestore.Open(pebblestore.Options{
		DataDir:  path,
		Fsync:    o.Fsync,
		ReadOnly: mode == ModeRead,
	})
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	b := &Bag{db: db, path: path, mode: mode, counts: map[string]uint64{}}
	if meta, err := db.Get(keyMeta); err == nil && len(meta) >= 8 {
		b.lastSeq = binary.BigEndian.Uint64(meta[:8])
	}
	if err := b.loadCounts(); err != nil {
		_ = db.Close()
		return nil, &OpenError{Path: path, Err: err}
	}
	if mode == ModeWrite {
		if err := b.ensureInfo(); err != nil {
			_ = db.Close()
			return nil, &OpenError{Path: path, Err: err}
		}
	}
	return b, nil
}

// Path returns the bag directory path.
func (b *Bag) Path() string { return b.path }

// Close releases the underlying database.
func (b *Bag) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Info returns the bag identity written at creation time.
func (b *Bag) Info() (Info, error) {
	raw, err := b.db.Get(keyInfo)
	if err != nil {
		if errors.Is(err, pebblestore.ErrNotFound) {
			return Info{}, nil
		}
		return Info{}, err
	}
	var info Info
	if err := json.Unmarshal(raw, &info); err != nil {
		return Info{}, err
	}
	return info, nil
}

// Channels returns the channel index: channel name to record count. The index
// is advisory for progress totals; filtering correctness never depends on it.
func (b *Bag) Channels() (map[string]uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]uint64, len(b.counts))
	for ch, n := range b.counts {
		out[ch] = n
	}
	return out, nil
}

// Append appends one record and returns its assigned sequence. Entry, channel
// count, and lastSeq are committed in a single atomic batch, so an interrupted
// process never leaves a partially written record behind.
func (b *Bag) Append(ctx context.Context, channel string, ts time.Time, payload []byte) (uint64, error) {
	if b.mode != ModeWrite {
		return 0, ErrReadOnly
	}
	if channel == "" {
		return 0, errors.New("bag: empty channel name")
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	batch := b.db.NewBatch()
	defer batch.Close()

	seq := b.lastSeq + 1
	val := encodeRecord(channel, ts.UnixNano(), payload)
	if err := batch.Set(keyEntry(seq), val, nil); err != nil {
		return 0, err
	}

	count := b.counts[channel] + 1
	var cb [8]byte
	binary.BigEndian.PutUint64(cb[:], count)
	if err := batch.Set(keyCount(channel), cb[:], nil); err != nil {
		return 0, err
	}

	var meta [8]byte
	binary.BigEndian.PutUint64(meta[:], seq)
	if err := batch.Set(keyMeta, meta[:], nil); err != nil {
		return 0, err
	}

	if err := b.db.CommitBatch(ctx, batch); err != nil {
		return 0, err
	}
	b.lastSeq = seq
	b.counts[channel] = count
	return seq, nil
}

// Read returns a lazy iterator over records in append order, restricted to
// the given channel inclusion list. A nil or empty list yields all channels.
func (b *Bag) Read(channels []string) (*Iterator, error) {
	return newIterator(b.db, channels)
}

func (b *Bag) loadCounts() error {
	low := append([]byte(nil), countPrefix...)
	// prefix successor, so channel names starting with 0xff stay in range
	hi := append([]byte(nil), countPrefix...)
	hi[len(hi)-1]++
	iter, err := b.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: hi})
	if err != nil {
		return err
	}
	defer iter.Close()
	for ok := iter.First(); ok; ok = iter.Next() {
		key := iter.Key()
		if len(key) <= len(countPrefix) || len(iter.Value()) < 8 {
			continue
		}
		b.counts[string(key[len(countPrefix):])] = binary.BigEndian.Uint64(iter.Value()[:8])
	}
	return nil
}

func (b *Bag) ensureInfo() error {
	if _, err := b.db.Get(keyInfo); err == nil {
		return nil
	} else if !errors.Is(err, pebblestore.ErrNotFound) {
		return err
	}
	info := Info{ID: uuid.NewString(), CreatedAtMs: time.Now().UnixMilli()}
	raw, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return b.db.Set(keyInfo, raw)
}
