// Package bag implements the append-only bag container backing all tools.
//
// # Overview
//
// A bag is a Pebble directory holding timestamped, channel-tagged records in
// append order. Keys are lexicographically ordered for efficient range scans:
//   - bag/m              (bag metadata: lastSeq)
//   - bag/i              (bag info: id, createdAtMs)
//   - bag/c/{channel}    (per-channel record count, the channel index)
//   - bag/e/{seq_be8}    (entries; the global sequence preserves append order
//     across channels)
//
// Records are stored as:
// channelLen(uvarint) | channel | tsNanos(8B BE) | payload | crc32c(all prior).
//
// API surface (internal)
//
//	b, _ := bag.Open(path, bag.ModeRead)
//	defer b.Close()
//
//	// Channel index: channel name -> record count
//	index, _ := b.Channels()
//
//	// Lazy sequential read restricted to an inclusion list (nil = all)
//	it, _ := b.Read([]string{"/imu"})
//	defer it.Close()
//	for it.Next() {
//	    rec := it.Record()
//	    _ = rec.Channel
//	}
//	_ = it.Err()
//
//	// Append (write mode); one fully formed record per commit
//	w, _ := bag.Open(out, bag.ModeWrite)
//	_, _ = w.Append(ctx, "/imu", ts, payload)
//
// A bag instance is exclusively owned by the single active operation; there is
// no support for concurrent readers and writers on the same instance.
package bag
