package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"sync"
)

// MockProvider generates deterministic embeddings from a SHA-256 hash of
// the input text, for use in tests that need stable vectors without a
// model daemon.
type MockProvider struct {
	mu          sync.Mutex
	dimensions  int
	maxTokens   int
	closeCalled bool
	closeErr    error
	embedErr    error
}

// NewMockProvider returns a mock producing 384-dimension vectors, matching
// the reference model's output size.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		dimensions: 384,
		maxTokens:  defaultMaxTokens,
	}
}

// SetCloseError makes every later Close call return err; nil clears it.
func (p *MockProvider) SetCloseError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeErr = err
}

// SetEmbedError makes every later Embed call return err; nil clears it.
func (p *MockProvider) SetEmbedError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.embedErr = err
}

// IsClosed reports whether Close has been called.
func (p *MockProvider) IsClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeCalled
}

func (p *MockProvider) Embed(ctx context.Context, texts []string, mode Mode) ([][]float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.embedErr != nil {
		return nil, p.embedErr
	}

	prepared := preprocessAll(texts, p.maxTokens)
	embeddings := make([][]float32, len(prepared))
	for i, text := range prepared {
		embeddings[i] = hashEmbed(text, p.dimensions)
	}
	return embeddings, nil
}

func (p *MockProvider) Dimensions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dimensions
}

func (p *MockProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeCalled = true
	return p.closeErr
}

// hashEmbed derives a deterministic, unit-normalized vector from text by
// expanding a SHA-256 digest across the requested dimension count.
func hashEmbed(text string, dimensions int) []float32 {
	hash := sha256.Sum256([]byte(text))

	vec := make([]float32, dimensions)
	for j := 0; j < dimensions; j++ {
		offset := (j * 4) % len(hash)
		val := binary.BigEndian.Uint32(hash[offset : offset+4])
		vec[j] = (float32(val)/float32(1<<32))*2.0 - 1.0
	}

	normalize(vec)
	return vec
}

func normalize(vec []float32) {
	var sumSq float64
	for _, v := range vec {
		sumSq += float64(v) * float64(v)
	}
	if sumSq == 0 {
		return
	}
	norm := math.Sqrt(sumSq)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
