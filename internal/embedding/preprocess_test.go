package embedding

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test Plan for preprocess():
// - Empty string becomes a single space
// - Text within the limit passes through unchanged
// - Text over maxTokens*4 characters is truncated to exactly that length

func TestPreprocess_EmptyBecomesSpace(t *testing.T) {
	t.Parallel()
	assert.Equal(t, " ", preprocess("", 100))
}

func TestPreprocess_ShortTextUnchanged(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "hello", preprocess("hello", 100))
}

func TestPreprocess_TruncatesToMaxTokensTimesFour(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("a", 1000)
	result := preprocess(text, 10)

	assert.Len(t, result, 40)
	assert.Equal(t, text[:40], result)
}

func TestPreprocess_ZeroMaxTokensUsesDefault(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("a", defaultMaxTokens*4+10)
	result := preprocess(text, 0)

	assert.Len(t, result, defaultMaxTokens*4)
}

func TestPreprocessAll_AppliesToEachElement(t *testing.T) {
	t.Parallel()

	out := preprocessAll([]string{"", "hi"}, 100)
	assert.Equal(t, []string{" ", "hi"}, out)
}
