package badger

import (
	"encoding/binary"
)

// Key prefixes for different data types
const (
	documentPrefix = "docrec"
)

// makeDocumentKey generates a key for a document by content ID.
// The ID is written BigEndian so iteration order is stable.
func makeDocumentKey(id uint64) []byte {
	prefix := documentPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], id)
	return buf
}

// documentKeyPrefix returns the prefix shared by all document keys.
func documentKeyPrefix() []byte {
	return []byte(documentPrefix + ":")
}
