package bag

import (
	"encoding/binary"
	"hash/crc32"
	"time"
)

// Record is one bag entry. Immutable once read; the payload is only valid
// until the iterator that produced it advances.
type Record struct {
	Channel string
	Time    time.Time
	Payload []byte
}

// TimeSec returns the record timestamp as fractional seconds since the Unix
// epoch, the representation used for the _ros_time_sec export column.
func (r Record) TimeSec() float64 {
	return float64(r.Time.UnixNano()) / 1e9
}

// Record encoding: uvarint channelLen | channel | tsNanos be8 | payload | crc32c(all prior)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

func encodeRecord(channel string, tsNanos int64, payload []byte) []byte {
	out := make([]byte, 0, 10+len(channel)+8+len(payload)+4)
	var tmp [10]byte
	n := binary.PutUvarint(tmp[:], uint64(len(channel)))
	out = append(out, tmp[:n]...)
	out = append(out, channel...)
	out = appendBE8(out, uint64(tsNanos))
	out = append(out, payload...)

	crc := crc32.Update(0, castagnoli, out)
	var crcb [4]byte
	binary.BigEndian.PutUint32(crcb[:], crc)
	out = append(out, crcb[:]...)
	return out
}

func decodeRecord(b []byte) (Record, bool) {
	if len(b) < 1+8+4 {
		return Record{}, false
	}
	body := b[:len(b)-4]
	expect := binary.BigEndian.Uint32(b[len(b)-4:])
	if crc32.Update(0, castagnoli, body) != expect {
		return Record{}, false
	}
	clen, n := binary.Uvarint(body)
	if n <= 0 || n+int(clen)+8 > len(body) {
		return Record{}, false
	}
	channel := string(body[n : n+int(clen)])
	ts := int64(binary.BigEndian.Uint64(body[n+int(clen) : n+int(clen)+8]))
	payload := append([]byte(nil), body[n+int(clen)+8:]...)
	return Record{Channel: channel, Time: time.Unix(0, ts), Payload: payload}, true
}
