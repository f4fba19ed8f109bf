package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMachineWalksFullFlow(t *testing.T) {
	m := newMachine(zap.NewNop())
	assert.Equal(t, StateStart, m.current())

	stages := []State{
		StateTypeSelected,
		StateDetailsFilled,
		StateDetailsSubmitted,
		StateCreated,
		StateOutlineFilled,
		StateRubricApplied,
		StateListed,
	}
	for _, s := range stages {
		require.NoError(t, m.advance(s))
		assert.Equal(t, s, m.current())
	}
	assert.True(t, IsTerminal(m.current()))
}

func TestMachineRejectsSkippedStage(t *testing.T) {
	m := newMachine(zap.NewNop())

	err := m.advance(StateDetailsFilled)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "START")
	assert.Equal(t, StateStart, m.current(), "failed transition must not move the machine")
}

func TestMachineRejectsBackwardEdge(t *testing.T) {
	m := newMachine(zap.NewNop())
	require.NoError(t, m.advance(StateTypeSelected))
	require.NoError(t, m.advance(StateDetailsFilled))

	require.Error(t, m.advance(StateTypeSelected))
	assert.Equal(t, StateDetailsFilled, m.current())
}

func TestMachineAbortFromAnyStage(t *testing.T) {
	m := newMachine(zap.NewNop())
	require.NoError(t, m.advance(StateTypeSelected))
	require.NoError(t, m.advance(StateDetailsFilled))

	m.abort()
	assert.Equal(t, StateAborted, m.current())
	assert.True(t, IsTerminal(m.current()))

	require.Error(t, m.advance(StateDetailsSubmitted), "aborted attempts stay aborted")
}

func TestMachineAbortAfterListedIsNoop(t *testing.T) {
	m := newMachine(zap.NewNop())
	for _, s := range []State{
		StateTypeSelected, StateDetailsFilled, StateDetailsSubmitted,
		StateCreated, StateOutlineFilled, StateRubricApplied, StateListed,
	} {
		require.NoError(t, m.advance(s))
	}

	m.abort()
	assert.Equal(t, StateListed, m.current())
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StateListed))
	assert.True(t, IsTerminal(StateAborted))
	assert.False(t, IsTerminal(StateStart))
	assert.False(t, IsTerminal(StateCreated))
}
