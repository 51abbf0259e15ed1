package fri

// Protocol version implemented by this package. The major version is
// checked during decoding; a mismatch indicates an incompatible peer.
const (
	ProtocolVersionMajor = 2
	ProtocolVersionMinor = 5
)

// Fixed array sizes of the supported manipulator.
const (
	// NumberOfJoints is the joint count of the manipulator. Every
	// joint-indexed array in RobotState and RobotCommand has exactly this
	// length.
	NumberOfJoints = 7
	// WrenchSize is the length of a Cartesian wrench: three force values
	// followed by three torque values.
	WrenchSize = 6
	// CartesianPoseSize is the length of a Cartesian pose: a translation
	// vector followed by a unit quaternion.
	CartesianPoseSize = 7
)

// SessionState represents the protocol-level phase of an FRI session.
type SessionState uint32

// FRI session states representing the lifecycle phases of a session.
const (
	// IdleState indicates that no session is active. No lifecycle callback
	// runs in this state.
	IdleState SessionState = iota
	// MonitoringWaitState indicates that the session is established but the
	// connection quality is not yet sufficient for commanding.
	MonitoringWaitState
	// MonitoringReadyState indicates that the session is established and
	// the connection quality allows a transition to commanding.
	MonitoringReadyState
	// CommandingWaitState indicates that the robot is preparing to hand
	// motion control to the client.
	CommandingWaitState
	// CommandingActiveState indicates that the client commands the robot
	// motion each cycle.
	CommandingActiveState
)

// IsIdle returns if the session state is idle.
func (s SessionState) IsIdle() bool { return s == IdleState }

// IsMonitoring returns if the session state is one of the monitoring states.
func (s SessionState) IsMonitoring() bool {
	return s == MonitoringWaitState || s == MonitoringReadyState
}

// IsCommanding returns if the session state is one of the commanding states.
func (s SessionState) IsCommanding() bool {
	return s == CommandingWaitState || s == CommandingActiveState
}

// String returns string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case IdleState:
		return "idle"
	case MonitoringWaitState:
		return "monitoring-wait"
	case MonitoringReadyState:
		return "monitoring-ready"
	case CommandingWaitState:
		return "commanding-wait"
	case CommandingActiveState:
		return "commanding-active"
	default:
		return "unknown"
	}
}

// ConnectionQuality represents the observed quality of the cyclic
// connection. It is derived from measured jitter and loss and is read-only
// to the client.
type ConnectionQuality uint32

// Connection quality levels, ordered from worst to best.
const (
	PoorQuality ConnectionQuality = iota
	FairQuality
	GoodQuality
	ExcellentQuality
)

// String returns string representation of the connection quality.
func (q ConnectionQuality) String() string {
	switch q {
	case PoorQuality:
		return "poor"
	case FairQuality:
		return "fair"
	case GoodQuality:
		return "good"
	case ExcellentQuality:
		return "excellent"
	default:
		return "unknown"
	}
}

// SafetyState represents the safety stop level of the robot. The level
// escalates monotonically within a session; any stop level other than
// NormalOperation forces the session back toward IdleState.
type SafetyState uint32

// Safety states of the robot.
const (
	NormalOperation SafetyState = iota
	SafetyStopLevel0
	SafetyStopLevel1
	SafetyStopLevel2
)

// IsNormal returns if the robot operates without an active safety stop.
func (s SafetyState) IsNormal() bool { return s == NormalOperation }

// String returns string representation of the safety state.
func (s SafetyState) String() string {
	switch s {
	case NormalOperation:
		return "normal-operation"
	case SafetyStopLevel0:
		return "safety-stop-level-0"
	case SafetyStopLevel1:
		return "safety-stop-level-1"
	case SafetyStopLevel2:
		return "safety-stop-level-2"
	default:
		return "unknown"
	}
}

// OperationMode represents the operation mode selected on the robot
// controller.
type OperationMode uint32

// Operation modes of the robot controller.
const (
	TestMode1 OperationMode = iota
	TestMode2
	AutomaticMode
)

// String returns string representation of the operation mode.
func (m OperationMode) String() string {
	switch m {
	case TestMode1:
		return "test-mode-1"
	case TestMode2:
		return "test-mode-2"
	case AutomaticMode:
		return "automatic-mode"
	default:
		return "unknown"
	}
}

// DriveState represents the hardware readiness of the robot drives. It is
// independent of the session state.
type DriveState uint32

// Drive states of the robot.
const (
	DrivesOff DriveState = iota
	DrivesTransitioning
	DrivesActive
)

// String returns string representation of the drive state.
func (d DriveState) String() string {
	switch d {
	case DrivesOff:
		return "off"
	case DrivesTransitioning:
		return "transitioning"
	case DrivesActive:
		return "active"
	default:
		return "unknown"
	}
}

// ControlMode represents the controller-side control mode active on the
// robot.
type ControlMode uint32

// Control modes of the robot controller.
const (
	PositionControlMode ControlMode = iota
	CartImpedanceControlMode
	JointImpedanceControlMode
	NoControlMode
)

// String returns string representation of the control mode.
func (m ControlMode) String() string {
	switch m {
	case PositionControlMode:
		return "position-control"
	case CartImpedanceControlMode:
		return "cartesian-impedance-control"
	case JointImpedanceControlMode:
		return "joint-impedance-control"
	case NoControlMode:
		return "no-control"
	default:
		return "unknown"
	}
}

// ClientCommandMode determines which physical quantity the outgoing
// RobotCommand must express in the current cycle, and therefore which
// command fields are required and legal.
type ClientCommandMode uint32

// Client command modes.
const (
	// NoCommandMode requires all motion fields to be absent; only IO writes
	// are legal.
	NoCommandMode ClientCommandMode = iota
	// WrenchCommandMode requires exactly a Cartesian wrench.
	WrenchCommandMode
	// TorqueCommandMode requires exactly a joint torque array.
	TorqueCommandMode
	// JointPositionCommandMode requires exactly a joint position array.
	JointPositionCommandMode
	// CartesianPoseCommandMode requires exactly a Cartesian pose.
	CartesianPoseCommandMode
)

// String returns string representation of the client command mode.
func (m ClientCommandMode) String() string {
	switch m {
	case NoCommandMode:
		return "no-command"
	case WrenchCommandMode:
		return "wrench"
	case TorqueCommandMode:
		return "torque"
	case JointPositionCommandMode:
		return "joint-position"
	case CartesianPoseCommandMode:
		return "cartesian-pose"
	default:
		return "unknown"
	}
}

// OverlayType represents a secondary motion-superposition mode layered on
// the base control mode. It is carried in RobotState as a pass-through
// observation; overlay semantics beyond that are not interpreted by this
// package.
type OverlayType uint32

// Overlay types.
const (
	NoOverlay OverlayType = iota
	JointOverlay
	CartesianOverlay
)

// String returns string representation of the overlay type.
func (o OverlayType) String() string {
	switch o {
	case NoOverlay:
		return "no-overlay"
	case JointOverlay:
		return "joint"
	case CartesianOverlay:
		return "cartesian"
	default:
		return "unknown"
	}
}
