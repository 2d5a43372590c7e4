// Package chunk splits source files into semantically meaningful spans for
// embedding and indexing.
package chunk

import "context"

// Chunk is a contiguous span of a source file, 1-based and inclusive on both
// ends. Chunks are produced by a Chunker and consumed by the indexer; they
// are never persisted as such.
type Chunk struct {
	Content   string
	StartLine int
	EndLine   int
	Language  string
	FilePath  string
}

// Chunker splits file content into an ordered sequence of Chunks.
type Chunker interface {
	// Split produces chunks for code in the given language. filePath is used
	// only for attribution on the returned Chunks and for parser error
	// messages; it need not exist on disk.
	Split(ctx context.Context, code []byte, languageTag string, filePath string) ([]Chunk, error)

	// SupportedLanguages reports the language tags the syntax-aware splitter
	// understands. Languages outside this set are always handled by the
	// fallback splitter.
	SupportedLanguages() []string
}

// Config controls both chunking strategies.
type Config struct {
	// ChunkSize is the fallback splitter's target/maximum chunk size in
	// characters.
	ChunkSize int
	// ChunkOverlap is the number of trailing characters repeated at the
	// start of the next fallback chunk.
	ChunkOverlap int
}

// DefaultConfig mirrors the teacher's documentation-chunker defaults, scaled
// for source code rather than prose.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    2000,
		ChunkOverlap: 200,
	}
}

// New returns the production Chunker: a syntax-aware splitter for the
// supported language set, transparently falling back to the size-bounded
// splitter for anything else or on parser failure.
func New(cfg Config) Chunker {
	return &splitter{
		fallback: newFallbackSplitter(cfg.ChunkSize, cfg.ChunkOverlap),
		syntax:   newTreeSitterSplitter(),
	}
}

type splitter struct {
	fallback *fallbackSplitter
	syntax   *treeSitterSplitter
}

func (s *splitter) SupportedLanguages() []string {
	return s.syntax.supportedLanguages()
}

func (s *splitter) Split(ctx context.Context, code []byte, languageTag string, filePath string) ([]Chunk, error) {
	if len(code) == 0 {
		return []Chunk{}, nil
	}

	if s.syntax.supports(languageTag) {
		chunks, err := s.syntax.split(ctx, code, languageTag, filePath)
		if err == nil && len(chunks) > 0 {
			return chunks, nil
		}
		// Syntax-aware splitting failed or produced nothing usable; degrade
		// to the fallback splitter for this file rather than failing the
		// whole indexing run.
	}

	return s.fallback.split(code, languageTag, filePath), nil
}
