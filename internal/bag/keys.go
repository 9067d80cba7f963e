package bag

import (
	"encoding/binary"
)

// Keyspace helpers for Pebble keys.
//
// Layout (byte-wise, lexicographically sortable):
// - bag/m            (lastSeq, 8 bytes BE)
// - bag/i            (bag info JSON)
// - bag/c/{channel}  (per-channel count, 8 bytes BE)
// - bag/e/{seq_be8}  (entries)

var (
	keyMeta     = []byte("bag/m")
	keyInfo     = []byte("bag/i")
	countPrefix = []byte("bag/c/")
	entryPrefix = []byte("bag/e/")
)

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// keyCount builds the channel-count key.
func keyCount(channel string) []byte {
	k := make([]byte, 0, len(countPrefix)+len(channel))
	k = append(k, countPrefix...)
	k = append(k, channel...)
	return k
}

// keyEntry builds the entry key with a big-endian sequence for proper ordering.
func keyEntry(seq uint64) []byte {
	k := make([]byte, 0, len(entryPrefix)+8)
	k = append(k, entryPrefix...)
	k = appendBE8(k, seq)
	return k
}

// entrySeq extracts the sequence from an entry key.
func entrySeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key[len(key)-8:])
}
