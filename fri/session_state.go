package fri

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/openlbr/go-fri/logger"
)

// CallbackKind identifies the lifecycle callback selected for a session
// state.
type CallbackKind uint32

// Lifecycle callback kinds.
const (
	// CallbackNone indicates that no user callback runs this cycle.
	CallbackNone CallbackKind = iota
	// CallbackMonitor selects Client.Monitor.
	CallbackMonitor
	// CallbackWaitForCommand selects Client.WaitForCommand.
	CallbackWaitForCommand
	// CallbackCommand selects Client.Command.
	CallbackCommand
)

// String returns string representation of the callback kind.
func (k CallbackKind) String() string {
	switch k {
	case CallbackNone:
		return "none"
	case CallbackMonitor:
		return "monitor"
	case CallbackWaitForCommand:
		return "wait-for-command"
	case CallbackCommand:
		return "command"
	default:
		return "unknown"
	}
}

// SessionStateChangeHandler is a function type that represents a handler
// for session state changes. It is invoked exactly once per transition,
// after the new state has been stored.
//
// Note: the handler is invoked in a blocking mode within the cycle. Take
// care with long-running implementations; a handler that overruns the cycle
// budget forfeits the send deadline.
type SessionStateChangeHandler func(prevState SessionState, newState SessionState)

// TransitionResult is the outcome of advancing the session state machine
// with a newly decoded session state.
type TransitionResult struct {
	// Changed reports whether the decoded state differed from the held
	// state, i.e. whether a transition occurred.
	Changed bool
	// Callback is the lifecycle callback selected for the (possibly new)
	// held state.
	Callback CallbackKind
}

// SessionStateMgr owns the five-state session lifecycle of an FRI
// connection. It holds the current session state, selects the lifecycle
// callback for each cycle and notifies registered handlers of state
// transitions.
//
// The cyclic loop advances the manager single-threaded; the held state can
// nevertheless be read concurrently via State.
type SessionStateMgr struct {
	mu       sync.Mutex
	state    atomic.Uint32
	logger   logger.Logger
	handlers []SessionStateChangeHandler
}

// NewSessionStateMgr creates a new SessionStateMgr instance, initializing
// it to IdleState.
//
// It accepts optional SessionStateChangeHandler functions that will be
// invoked when the session state changes.
func NewSessionStateMgr(handlers ...SessionStateChangeHandler) *SessionStateMgr {
	mgr := &SessionStateMgr{
		logger:   logger.GetLogger(),
		handlers: make([]SessionStateChangeHandler, 0, len(handlers)),
	}
	mgr.handlers = append(mgr.handlers, handlers...)
	mgr.state.Store(uint32(IdleState))

	return mgr
}

// SetLogger sets the logger used for transition logging.
func (sm *SessionStateMgr) SetLogger(l logger.Logger) {
	if l != nil {
		sm.logger = l
	}
}

// State returns the current session state.
func (sm *SessionStateMgr) State() SessionState {
	return SessionState(sm.state.Load())
}

// AddHandler adds one or more SessionStateChangeHandler functions to be
// invoked on state changes.
func (sm *SessionStateMgr) AddHandler(handlers ...SessionStateChangeHandler) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.handlers = append(sm.handlers, handlers...)
}

// Advance compares the newly decoded session state against the held state.
//
// If they are equal no transition occurs. If they differ, the held state is
// updated and every registered handler is invoked exactly once with the old
// and new state. In both cases the returned TransitionResult carries the
// lifecycle callback selected for the held state.
//
// Advance returns ErrUnmappedSessionState if the decoded state has no
// callback mapping; the held state is left untouched in that case.
func (sm *SessionStateMgr) Advance(decoded SessionState) (TransitionResult, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	callback, err := callbackForState(decoded)
	if err != nil {
		return TransitionResult{}, err
	}

	prev := sm.State()
	if decoded == prev {
		return TransitionResult{Changed: false, Callback: callback}, nil
	}

	sm.state.Store(uint32(decoded))
	sm.logger.Debug("session state changed", "prevState", prev, "newState", decoded)
	sm.invokeHandlers(prev, decoded)

	return TransitionResult{Changed: true, Callback: callback}, nil
}

// Reset forces the held state back to IdleState without invoking handlers.
// It is called on disconnect; the machine has no terminal state and can be
// re-entered indefinitely across reconnects.
func (sm *SessionStateMgr) Reset() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.state.Store(uint32(IdleState))
}

// invokeHandlers invokes all registered handlers with the previous and new
// states.
func (sm *SessionStateMgr) invokeHandlers(prevState SessionState, newState SessionState) {
	for _, handler := range sm.handlers {
		if handler != nil {
			handler(prevState, newState)
		}
	}
}

// callbackForState maps a session state to the lifecycle callback that runs
// while the session is in that state. The mapping is total over the known
// session states; an unmapped state is a protocol version mismatch and is
// reported as ErrUnmappedSessionState rather than silently ignored.
func callbackForState(state SessionState) (CallbackKind, error) {
	switch state {
	case IdleState:
		return CallbackNone, nil
	case MonitoringWaitState, MonitoringReadyState:
		return CallbackMonitor, nil
	case CommandingWaitState:
		return CallbackWaitForCommand, nil
	case CommandingActiveState:
		return CallbackCommand, nil
	default:
		return CallbackNone, fmt.Errorf("%w: %d", ErrUnmappedSessionState, uint32(state))
	}
}
