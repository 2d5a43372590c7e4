package chunk

import "strings"

// fallbackSplitter is the size-bounded splitter used for languages the
// syntax-aware splitter doesn't support, and as the degrade path when
// tree-sitter parsing fails for a supported language.
//
// Invariants: every chunk length <= chunkSize; consecutive chunks share at
// most chunkOverlap characters; concatenating each chunk's non-overlapping
// prefix reproduces the original content.
type fallbackSplitter struct {
	chunkSize    int
	chunkOverlap int
}

func newFallbackSplitter(chunkSize, chunkOverlap int) *fallbackSplitter {
	if chunkSize <= 0 {
		chunkSize = 2000
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = 0
	}
	return &fallbackSplitter{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

func (f *fallbackSplitter) split(code []byte, languageTag, filePath string) []Chunk {
	content := string(code)
	if strings.TrimSpace(content) == "" {
		return []Chunk{}
	}

	lineStarts := computeLineStarts(content)

	var chunks []Chunk
	pos := 0
	total := len(content)

	for pos < total {
		end := pos + f.chunkSize
		if end > total {
			end = total
		}

		text := content[pos:end]
		startLine := byteOffsetToLine(lineStarts, pos)
		endLine := byteOffsetToLine(lineStarts, end-1)

		chunks = append(chunks, Chunk{
			Content:   text,
			StartLine: startLine,
			EndLine:   endLine,
			Language:  languageTag,
			FilePath:  filePath,
		})

		if end >= total {
			break
		}

		next := end - f.chunkOverlap
		if next <= pos {
			next = pos + 1
		}
		pos = next
	}

	return chunks
}

// computeLineStarts returns the byte offset of the first character of each
// line (1-indexed logically: lineStarts[0] is line 1's start).
func computeLineStarts(content string) []int {
	starts := []int{0}
	for i, b := range []byte(content) {
		if b == '\n' && i+1 < len(content) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// byteOffsetToLine converts a byte offset to a 1-based line number via
// binary search over line start offsets.
func byteOffsetToLine(lineStarts []int, offset int) int {
	lo, hi := 0, len(lineStarts)-1
	best := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if lineStarts[mid] <= offset {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best + 1
}
