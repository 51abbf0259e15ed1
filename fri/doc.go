// Package fri implements the client side of a Fast Robot Interface (FRI)
// style cyclic control protocol for a seven-joint robotic manipulator.
//
// The robot controller sends one measured-state datagram per sample period
// and expects a command datagram in response within the cycle's time budget.
// This package provides the protocol core shared by every transport:
//
//   - Enumerations describing the session, safety, drive and control state
//     of the robot (SessionState, SafetyState, DriveState, ControlMode,
//     ClientCommandMode, ...).
//   - RobotState, the immutable per-cycle snapshot decoded from a monitor
//     message, and RobotCommand, the per-cycle command built by the user
//     callbacks.
//   - A binary codec for monitor and command messages
//     (DecodeMonitorMessage, EncodeCommandMessage and their counterparts).
//   - ValidateCommand, which enforces the shape and mode constraints an
//     outgoing command must satisfy for the active client command mode.
//   - SessionStateMgr, the session lifecycle state machine that selects
//     the lifecycle callback for each cycle and notifies registered
//     handlers of state transitions.
//
// Client Interface:
// A user of the protocol supplies an implementation of the Client
// interface. Exactly one of its lifecycle callbacks (Monitor,
// WaitForCommand, Command) runs per successfully received cycle, selected
// by the session state machine; OnStateChange fires once per transition.
//
// The cyclic loop that drives this package over UDP lives in the friudp
// package.
package fri
