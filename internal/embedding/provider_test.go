package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for New():
// - Creates mock provider when config.Provider is "mock"
// - Creates local provider when config.Provider is "local" or empty
// - Returns error for unsupported provider names

func TestNew_MockProvider(t *testing.T) {
	t.Parallel()

	provider, err := New(Config{Provider: "mock"})
	require.NoError(t, err)
	assert.Equal(t, 384, provider.Dimensions())
	assert.NoError(t, provider.Close())
}

func TestNew_DefaultsToLocal(t *testing.T) {
	t.Parallel()

	provider, err := New(Config{})
	require.NoError(t, err)

	_, ok := provider.(*localProvider)
	assert.True(t, ok)
}

func TestNew_UnsupportedProvider(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Provider: "openai"})
	assert.Error(t, err)
}
