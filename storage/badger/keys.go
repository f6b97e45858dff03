package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/semdex/core"
)

// Key prefixes for different data types
const (
	chunkRecordPrefix = "churec"
	chunkSourcePrefix = "chusrc"
)

// makeChunkKey generates a key for a chunk by ID.
func makeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkRecordPrefix, id))
}

// makeSourceKey generates a composite key for the source index.
// Format: prefix:source:chunkIndex
// The chunk index is written in BigEndian order so lexicographic sort
// matches numeric order.
func makeSourceKey(source string, chunkIndex int) []byte {
	prefix := chunkSourcePrefix + ":" + source + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(chunkIndex))
	return buf
}

// makePartialSourceKey generates a partial key for per-source queries.
// Format: prefix:source:
func makePartialSourceKey(source string) []byte {
	return []byte(chunkSourcePrefix + ":" + source + ":")
}

// sourceFromKey recovers the source name from a source index key.
// The trailing chunk index is fixed width, so source names may contain
// the separator without ambiguity.
func sourceFromKey(key []byte) string {
	prefixLen := len(chunkSourcePrefix) + 1
	if len(key) < prefixLen+9 {
		return ""
	}
	return string(key[prefixLen : len(key)-9])
}
