package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusLifecycleIsMonotonic(t *testing.T) {
	forward := []SessionStatus{
		StatusCreated, StatusConfiguring, StatusPreflight,
		StatusInProgress, StatusCompleted, StatusScored,
	}
	for i := 0; i < len(forward)-1; i++ {
		assert.True(t, forward[i].CanTransition(forward[i+1]),
			"%s should advance to %s", forward[i], forward[i+1])
	}

	// No skipping ahead, no going back.
	assert.False(t, StatusCreated.CanTransition(StatusPreflight))
	assert.False(t, StatusPreflight.CanTransition(StatusCompleted))
	assert.False(t, StatusInProgress.CanTransition(StatusPreflight))
	assert.False(t, StatusCompleted.CanTransition(StatusInProgress))
}

func TestAbortedReachableFromAnyNonTerminalState(t *testing.T) {
	for _, status := range []SessionStatus{
		StatusCreated, StatusConfiguring, StatusPreflight, StatusInProgress, StatusCompleted,
	} {
		assert.True(t, status.CanTransition(StatusAborted), "%s should be abortable", status)
	}
}

func TestTerminalStatesAllowNothing(t *testing.T) {
	for _, terminal := range []SessionStatus{StatusScored, StatusAborted} {
		assert.True(t, terminal.Terminal())
		for _, next := range []SessionStatus{
			StatusCreated, StatusConfiguring, StatusPreflight,
			StatusInProgress, StatusCompleted, StatusScored, StatusAborted,
		} {
			assert.False(t, terminal.CanTransition(next), "%s must not transition to %s", terminal, next)
		}
	}
}

func TestUnknownStatusCannotAdvance(t *testing.T) {
	assert.False(t, SessionStatus("bogus").CanTransition(StatusConfiguring))
}
