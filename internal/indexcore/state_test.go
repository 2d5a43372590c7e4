package indexcore

// Test Plan:
// - begin rejects a second concurrent indexing run on the same path
// - succeed/fail transition to the expected terminal states
// - a forced reindex of an already-indexed path first drops to unknown, then begins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateMachine_RejectsConcurrentIndexing(t *testing.T) {
	t.Parallel()
	sm := newStateMachine()

	require.NoError(t, sm.begin("/repo", false))
	err := sm.begin("/repo", false)
	require.Error(t, err)
	assert.True(t, IsAlreadyIndexing(err))
}

func TestStateMachine_SucceedAndFail(t *testing.T) {
	t.Parallel()
	sm := newStateMachine()

	require.NoError(t, sm.begin("/repo", false))
	sm.succeed("/repo")
	assert.Equal(t, StateIndexed, sm.current("/repo"))

	require.NoError(t, sm.begin("/repo", true))
	sm.fail("/repo")
	assert.Equal(t, StateUnknown, sm.current("/repo"))
}

func TestStateMachine_ForceReindexDropsThenBegins(t *testing.T) {
	t.Parallel()
	sm := newStateMachine()

	require.NoError(t, sm.begin("/repo", false))
	sm.succeed("/repo")

	require.NoError(t, sm.begin("/repo", true))
	assert.Equal(t, StateIndexing, sm.current("/repo"))
}

func TestStateMachine_Clear(t *testing.T) {
	t.Parallel()
	sm := newStateMachine()

	require.NoError(t, sm.begin("/repo", false))
	sm.succeed("/repo")
	sm.clear("/repo")
	assert.Equal(t, StateUnknown, sm.current("/repo"))
}
