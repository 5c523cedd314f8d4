package badger

import (
	"encoding/binary"
	"time"
)

// Key prefixes. Entry rows and the timestamp index live under disjoint
// prefixes so iteration over one never sees the other.
const (
	entryPrefix     = "ent"
	timestampPrefix = "entts"
)

// makeEntryKey generates the primary key for an entry.
func makeEntryKey(key string) []byte {
	return []byte(entryPrefix + ":" + key)
}

// makeTimestampKey generates a composite key for the timestamp index.
// Format: prefix:timestamp:key
// The index is non-unique over timestamps and exists for future range
// queries; no current operation reads it.
func makeTimestampKey(ts time.Time, key string) []byte {
	prefix := timestampPrefix + ":"
	prefixBytes := []byte(prefix)
	totalSize := len(prefixBytes) + 8 + len(key)
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(ts.UnixMicro()))
	offset += 8
	copy(buf[offset:], key)
	return buf
}
