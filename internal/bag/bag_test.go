package bag

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newWriteBag(t *testing.T) *Bag {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "test.bag")
	b, err := Open(dir, ModeWrite)
	if err != nil {
		t.Fatalf("open write: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func appendN(t *testing.T, b *Bag, channel string, n int, base int64) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		ts := time.Unix(base+int64(i), 0)
		if _, err := b.Append(ctx, channel, ts, []byte(`{"i":1}`)); err != nil {
			t.Fatalf("append %s #%d: %v", channel, i, err)
		}
	}
}

func TestAppendAssignsSequential(t *testing.T) {
	b := newWriteBag(t)
	ctx := context.Background()
	s1, err := b.Append(ctx, "/a", time.Unix(1, 0), []byte("{}"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	s2, err := b.Append(ctx, "/b", time.Unix(2, 0), []byte("{}"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if !(s1 < s2) {
		t.Fatalf("expected increasing seqs: %d %d", s1, s2)
	}
}

func TestChannelIndexCounts(t *testing.T) {
	b := newWriteBag(t)
	appendN(t, b, "/a", 3, 100)
	appendN(t, b, "/b", 2, 200)

	idx, err := b.Channels()
	if err != nil {
		t.Fatalf("channels: %v", err)
	}
	if idx["/a"] != 3 || idx["/b"] != 2 {
		t.Fatalf("index %v", idx)
	}
}

func TestChannelIndexHighByteName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "test.bag")
	b, err := Open(dir, ModeWrite)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	appendN(t, b, "\xff/edge", 2, 100)
	if err := b.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// the index scan must still find the channel after reopen
	r, err := Open(dir, ModeRead)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer r.Close()
	idx, err := r.Channels()
	if err != nil {
		t.Fatalf("channels: %v", err)
	}
	if idx["\xff/edge"] != 2 {
		t.Fatalf("index after reopen: %v", idx)
	}
}

func TestReadPreservesAppendOrder(t *testing.T) {
	b := newWriteBag(t)
	ctx := context.Background()
	// interleave channels to check global order
	order := []string{"/a", "/b", "/a", "/b", "/a"}
	for i, ch := range order {
		if _, err := b.Append(ctx, ch, time.Unix(int64(i), 0), []byte("{}")); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	it, err := b.Read(nil)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	defer it.Close()

	var got []string
	for it.Next() {
		got = append(got, it.Record().Channel)
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iter: %v", err)
	}
	if len(got) != len(order) {
		t.Fatalf("got %d records want %d", len(got), len(order))
	}
	for i := range order {
		if got[i] != order[i] {
			t.Fatalf("record %d on %q want %q", i, got[i], order[i])
		}
	}
}

func TestReadInclusionList(t *testing.T) {
	b := newWriteBag(t)
	appendN(t, b, "/a", 3, 100)
	appendN(t, b, "/b", 2, 200)

	it, err := b.Read([]string{"/b"})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	defer it.Close()

	n := 0
	for it.Next() {
		if it.Record().Channel != "/b" {
			t.Fatalf("unexpected channel %q", it.Record().Channel)
		}
		n++
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iter: %v", err)
	}
	if n != 2 {
		t.Fatalf("want 2 records, got %d", n)
	}
}

func TestReopenDurable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "test.bag")
	b, err := Open(dir, ModeWrite)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()
	s1, err := b.Append(ctx, "/a", time.Unix(1, 500000000), []byte(`{"v":1}`))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// read mode sees the record and the index
	r, err := Open(dir, ModeRead)
	if err != nil {
		t.Fatalf("reopen read: %v", err)
	}
	idx, _ := r.Channels()
	if idx["/a"] != 1 {
		t.Fatalf("index after reopen: %v", idx)
	}
	info, err := r.Info()
	if err != nil || info.ID == "" {
		t.Fatalf("info after reopen: %+v %v", info, err)
	}
	it, err := r.Read(nil)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !it.Next() {
		t.Fatalf("expected one record: %v", it.Err())
	}
	rec := it.Record()
	if rec.TimeSec() != 1.5 {
		t.Fatalf("ts %v", rec.TimeSec())
	}
	_ = it.Close()
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// write mode resumes the sequence
	w, err := Open(dir, ModeWrite)
	if err != nil {
		t.Fatalf("reopen write: %v", err)
	}
	defer w.Close()
	s2, err := w.Append(ctx, "/a", time.Unix(2, 0), []byte(`{"v":2}`))
	if err != nil {
		t.Fatalf("append2: %v", err)
	}
	if !(s1 < s2) {
		t.Fatalf("expected next seq > previous: prev=%d next=%d", s1, s2)
	}
}

func TestOpenMissingPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.bag"), ModeRead)
	var oe *OpenError
	if !errors.As(err, &oe) {
		t.Fatalf("want OpenError, got %v", err)
	}
}

func TestAppendReadOnly(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "test.bag")
	w, err := Open(dir, ModeWrite)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_ = w.Close()

	r, err := Open(dir, ModeRead)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer r.Close()
	if _, err := r.Append(context.Background(), "/a", time.Unix(1, 0), nil); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("want ErrReadOnly, got %v", err)
	}
}
