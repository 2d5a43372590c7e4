package indexcore

import (
	"fmt"
	"hash/fnv"
)

// chunkID derives a stable document id from a chunk's location, so
// re-indexing the same span of the same file upserts in place instead of
// accumulating duplicates. Replaces the teacher's two separate ad hoc id
// schemes with one deterministic scheme (relativePath + start/end line).
func chunkID(relativePath string, startLine, endLine int) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s\x00%d\x00%d", relativePath, startLine, endLine)
	return fmt.Sprintf("%x", h.Sum64())
}
