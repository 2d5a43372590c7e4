// Package embedding converts text into fixed-dimension vectors for semantic
// search, through a pluggable Provider backed by a local model daemon or a
// deterministic mock for tests.
package embedding

import (
	"context"
	"fmt"
)

// Mode distinguishes how a text should be embedded. Some models produce
// asymmetric embeddings for queries versus the passages they're matched
// against.
type Mode string

const (
	// ModeQuery embeds a search query.
	ModeQuery Mode = "query"
	// ModePassage embeds a chunk of indexed content.
	ModePassage Mode = "passage"
)

// Provider converts text into vectors.
type Provider interface {
	// Embed converts texts into vectors, one per input, in order.
	Embed(ctx context.Context, texts []string, mode Mode) ([][]float32, error)

	// Dimensions reports the length of vectors this provider produces.
	Dimensions() int

	// Close releases resources held by the provider (background
	// processes, open connections). Safe to call once.
	Close() error
}

// Config selects and configures a Provider.
type Config struct {
	// Provider names the backend: "local" (default) or "mock".
	Provider string

	// BinaryPath is the path to the embedding daemon binary, used by the
	// local provider. Defaults to "codectx-embed" on PATH.
	BinaryPath string

	// Endpoint overrides the local provider's daemon URL, mainly for
	// tests that start their own server.
	Endpoint string

	// MaxInputChars bounds how much text is sent per item; longer text is
	// truncated before reaching the provider. Values below 4, including
	// zero, select the default limit of defaultMaxTokens*4 characters.
	MaxInputChars int
}

// New constructs a Provider from Config. The local provider is not
// initialized (its daemon is not started) until its first Embed call.
func New(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "local", "":
		return newLocalProvider(cfg), nil
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("embedding: unsupported provider %q (supported: local, mock)", cfg.Provider)
	}
}
