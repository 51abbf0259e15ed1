package fri

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionStateMgr_Advance(t *testing.T) {
	require := require.New(t)

	t.Run("Initial State", func(t *testing.T) {
		sm := NewSessionStateMgr()
		require.Equal(IdleState, sm.State())
	})

	t.Run("Session Ramp", func(t *testing.T) {
		type event struct {
			prev SessionState
			next SessionState
		}
		var events []event

		sm := NewSessionStateMgr()
		sm.AddHandler(func(prevState SessionState, newState SessionState) {
			events = append(events, event{prev: prevState, next: newState})
		})

		sequence := []SessionState{
			IdleState,
			MonitoringWaitState,
			MonitoringReadyState,
			CommandingWaitState,
			CommandingActiveState,
		}
		expectedCallbacks := []CallbackKind{
			CallbackNone,
			CallbackMonitor,
			CallbackMonitor,
			CallbackWaitForCommand,
			CallbackCommand,
		}

		for i, decoded := range sequence {
			result, err := sm.Advance(decoded)
			require.NoError(err)
			require.Equal(expectedCallbacks[i], result.Callback, "callback for %s", decoded)
			require.Equal(decoded, sm.State())
		}

		// the first decoded state equals the initial state, so four
		// transitions remain
		require.Len(events, 4)
		for i, ev := range events {
			require.Equal(sequence[i], ev.prev)
			require.Equal(sequence[i+1], ev.next)
		}
	})

	t.Run("No Transition On Equal State", func(t *testing.T) {
		changeCount := 0
		sm := NewSessionStateMgr(func(prevState SessionState, newState SessionState) { changeCount++ })

		result, err := sm.Advance(MonitoringWaitState)
		require.NoError(err)
		require.True(result.Changed)
		require.Equal(1, changeCount)

		for i := 0; i < 3; i++ {
			result, err = sm.Advance(MonitoringWaitState)
			require.NoError(err)
			require.False(result.Changed)
			require.Equal(CallbackMonitor, result.Callback)
		}
		require.Equal(1, changeCount)
	})

	t.Run("Unmapped State", func(t *testing.T) {
		changeCount := 0
		sm := NewSessionStateMgr(func(prevState SessionState, newState SessionState) { changeCount++ })

		_, err := sm.Advance(SessionState(99))
		require.ErrorIs(err, ErrUnmappedSessionState)
		// held state and handlers are untouched on an unmapped state
		require.Equal(IdleState, sm.State())
		require.Equal(0, changeCount)
	})

	t.Run("Reset", func(t *testing.T) {
		changeCount := 0
		sm := NewSessionStateMgr(func(prevState SessionState, newState SessionState) { changeCount++ })

		_, err := sm.Advance(CommandingActiveState)
		require.NoError(err)
		require.Equal(1, changeCount)

		sm.Reset()
		require.Equal(IdleState, sm.State())
		// reset is silent
		require.Equal(1, changeCount)
	})
}

func TestSessionStateMgr_EventPairsMatchSequence(t *testing.T) {
	require := require.New(t)

	sequence := []SessionState{
		MonitoringWaitState,
		MonitoringWaitState,
		MonitoringReadyState,
		CommandingWaitState,
		CommandingWaitState,
		CommandingActiveState,
		MonitoringReadyState,
		IdleState,
	}

	type pair struct{ prev, next SessionState }
	var events []pair

	sm := NewSessionStateMgr(func(prevState SessionState, newState SessionState) {
		events = append(events, pair{prev: prevState, next: newState})
	})

	held := sm.State()
	var expected []pair
	for _, decoded := range sequence {
		if decoded != held {
			expected = append(expected, pair{prev: held, next: decoded})
			held = decoded
		}
		_, err := sm.Advance(decoded)
		require.NoError(err)
	}

	require.Equal(expected, events)
}

func TestSessionStateHelpers(t *testing.T) {
	require := require.New(t)

	require.True(IdleState.IsIdle())
	require.True(MonitoringWaitState.IsMonitoring())
	require.True(MonitoringReadyState.IsMonitoring())
	require.True(CommandingWaitState.IsCommanding())
	require.True(CommandingActiveState.IsCommanding())
	require.False(CommandingActiveState.IsMonitoring())

	require.Equal("commanding-active", CommandingActiveState.String())
	require.Equal("unknown", SessionState(42).String())
}
