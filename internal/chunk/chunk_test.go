package chunk

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan:
// - Syntax-aware splitter produces chunks for supported languages
// - Unsupported languages fall through to the fallback splitter
// - Line numbers are 1-based and inclusive
// - Empty input produces no chunks
// - Fallback splitter honors chunkSize/chunkOverlap invariants

func TestSplit_SupportedLanguage_Python(t *testing.T) {
	t.Parallel()

	code := `def add(a, b):
    return a + b


def sub(a, b):
    return a - b
`
	splitter := New(DefaultConfig())
	chunks, err := splitter.Split(context.Background(), []byte(code), "python", "math.py")

	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for _, c := range chunks {
		assert.Equal(t, "python", c.Language)
		assert.Equal(t, "math.py", c.FilePath)
		assert.GreaterOrEqual(t, c.EndLine, c.StartLine)
	}
}

func TestSplit_UnsupportedLanguage_UsesFallback(t *testing.T) {
	t.Parallel()

	splitter := New(Config{ChunkSize: 50, ChunkOverlap: 10})
	code := strings.Repeat("x", 200)

	chunks, err := splitter.Split(context.Background(), []byte(code), "cobol", "legacy.cbl")

	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Content), 50)
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	t.Parallel()

	splitter := New(DefaultConfig())
	chunks, err := splitter.Split(context.Background(), []byte(""), "python", "empty.py")

	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSplit_SupportedLanguages_ListsAll(t *testing.T) {
	t.Parallel()

	splitter := New(DefaultConfig())
	langs := splitter.SupportedLanguages()

	for _, want := range []string{"c", "java", "php", "python", "ruby", "rust", "typescript"} {
		assert.Contains(t, langs, want)
	}
}

func TestFallbackSplitter_RespectsChunkSize(t *testing.T) {
	t.Parallel()

	f := newFallbackSplitter(100, 20)
	code := []byte(strings.Repeat("a\n", 200))

	chunks := f.split(code, "text", "big.txt")

	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Content), 100)
	}
}

func TestFallbackSplitter_EmptyContent(t *testing.T) {
	t.Parallel()

	f := newFallbackSplitter(100, 20)
	chunks := f.split([]byte("   \n\n  "), "text", "blank.txt")

	assert.Empty(t, chunks)
}

func TestFallbackSplitter_InvalidOverlapResetsToZero(t *testing.T) {
	t.Parallel()

	f := newFallbackSplitter(50, 999)
	assert.Equal(t, 0, f.chunkOverlap)
}

func TestByteOffsetToLine(t *testing.T) {
	t.Parallel()

	content := "line1\nline2\nline3\n"
	starts := computeLineStarts(content)

	assert.Equal(t, 1, byteOffsetToLine(starts, 0))
	assert.Equal(t, 2, byteOffsetToLine(starts, 6))
	assert.Equal(t, 3, byteOffsetToLine(starts, 12))
}
