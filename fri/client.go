package fri

import "time"

// Client is the capability interface a user of the cyclic connection
// supplies. The cyclic loop invokes exactly one lifecycle callback per
// successfully received cycle, selected by the session state machine:
//
//   - Monitor while the session is in a monitoring state,
//   - WaitForCommand while the robot prepares to hand over motion control,
//   - Command while the client actively commands the robot,
//   - no callback while the session is idle.
//
// Every callback receives read access to the freshly decoded RobotState and
// write access to a fresh RobotCommand. Callbacks run synchronously inside
// the cycle and must complete within the remaining cycle time budget; a
// slow callback is not preempted, but the overrun forfeits the send
// deadline and is recorded as a missed cycle.
type Client interface {
	// OnStateChange is invoked exactly once whenever the session state
	// reported by the robot differs from the previously held state.
	OnStateChange(prevState SessionState, newState SessionState)

	// Monitor is invoked in MonitoringWaitState and MonitoringReadyState.
	Monitor(state *RobotState, cmd *RobotCommand)

	// WaitForCommand is invoked in CommandingWaitState.
	WaitForCommand(state *RobotState, cmd *RobotCommand)

	// Command is invoked in CommandingActiveState.
	Command(state *RobotState, cmd *RobotCommand)
}

// Transport defines the contract of the point-to-point datagram link the
// cyclic loop runs on. The core treats a Receive returning
// ErrReceiveTimeout as a missed cycle rather than an error; repeated misses
// surface as a connection-quality degradation, not a crash.
type Transport interface {
	// Open establishes the transport on the given local UDP port. An empty
	// remoteHost binds for an incoming peer and learns the remote address
	// from the first received datagram; otherwise the remote host is fixed
	// up front.
	Open(port int, remoteHost string) error

	// Close closes the transport. It is idempotent and must make a pending
	// Receive return ErrConnClosed immediately instead of blocking for the
	// full timeout.
	Close() error

	// Receive waits up to timeout for one datagram. It returns
	// ErrReceiveTimeout when no datagram arrived in time and ErrConnClosed
	// when the transport is closed.
	Receive(timeout time.Duration) ([]byte, error)

	// Send transmits one datagram to the remote peer. It returns
	// ErrPeerUnknown before the peer address is known and ErrConnClosed
	// when the transport is closed.
	Send(data []byte) error
}
