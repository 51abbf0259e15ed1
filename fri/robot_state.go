package fri

import (
	"github.com/openlbr/go-fri/internal/util"
)

// RobotState is the immutable snapshot of the measured robot state decoded
// from one monitor message. It is produced once per cycle, handed read-only
// to the lifecycle callbacks, and discarded after the cycle; the core keeps
// no state history.
//
// All array accessors return defensive copies so a callback cannot mutate
// the snapshot.
type RobotState struct {
	sampleTime float64

	sessionState      SessionState
	connectionQuality ConnectionQuality
	safetyState       SafetyState
	operationMode     OperationMode
	driveState        DriveState
	controlMode       ControlMode
	clientCommandMode ClientCommandMode
	overlayType       OverlayType

	timestampSec     uint32
	timestampNanoSec uint32

	trackingPerformance float64

	measuredJointPosition []float64
	measuredTorque        []float64
	commandedTorque       []float64
	externalTorque        []float64
	ipoJointPosition      []float64

	booleanIO map[string]bool
	digitalIO map[string]uint64
	analogIO  map[string]float64

	seqCount          uint16
	reflectedSeqCount uint16
}

// SampleTime returns the sample period of the cyclic connection in seconds.
func (s *RobotState) SampleTime() float64 { return s.sampleTime }

// SessionState returns the session state reported by the robot.
func (s *RobotState) SessionState() SessionState { return s.sessionState }

// ConnectionQuality returns the connection quality measured by the robot.
func (s *RobotState) ConnectionQuality() ConnectionQuality { return s.connectionQuality }

// SafetyState returns the safety state of the robot.
func (s *RobotState) SafetyState() SafetyState { return s.safetyState }

// OperationMode returns the operation mode of the robot controller.
func (s *RobotState) OperationMode() OperationMode { return s.operationMode }

// DriveState returns the drive readiness state of the robot.
func (s *RobotState) DriveState() DriveState { return s.driveState }

// ControlMode returns the control mode active on the robot controller.
func (s *RobotState) ControlMode() ControlMode { return s.controlMode }

// ClientCommandMode returns the command mode the outgoing command must
// express in this cycle.
func (s *RobotState) ClientCommandMode() ClientCommandMode { return s.clientCommandMode }

// OverlayType returns the motion overlay type active on the robot.
func (s *RobotState) OverlayType() OverlayType { return s.overlayType }

// TimestampSec returns the seconds part of the state timestamp.
func (s *RobotState) TimestampSec() uint32 { return s.timestampSec }

// TimestampNanoSec returns the nanoseconds part of the state timestamp.
func (s *RobotState) TimestampNanoSec() uint32 { return s.timestampNanoSec }

// TrackingPerformance returns a scalar in [0, 1] rating how well the robot
// follows the commanded motion.
func (s *RobotState) TrackingPerformance() float64 { return s.trackingPerformance }

// MeasuredJointPosition returns the measured joint positions in radians.
// The returned slice has length NumberOfJoints.
func (s *RobotState) MeasuredJointPosition() []float64 {
	return util.CloneSlice(s.measuredJointPosition, 0)
}

// MeasuredTorque returns the measured joint torques in Nm.
// The returned slice has length NumberOfJoints.
func (s *RobotState) MeasuredTorque() []float64 {
	return util.CloneSlice(s.measuredTorque, 0)
}

// CommandedTorque returns the joint torques commanded by the controller in
// Nm. The returned slice has length NumberOfJoints.
func (s *RobotState) CommandedTorque() []float64 {
	return util.CloneSlice(s.commandedTorque, 0)
}

// ExternalTorque returns the estimated external joint torques in Nm.
// The returned slice has length NumberOfJoints.
func (s *RobotState) ExternalTorque() []float64 {
	return util.CloneSlice(s.externalTorque, 0)
}

// IpoJointPosition returns the joint positions produced by the controller's
// internal interpolator rather than a direct sensor reading. The returned
// slice has length NumberOfJoints.
func (s *RobotState) IpoJointPosition() []float64 {
	return util.CloneSlice(s.ipoJointPosition, 0)
}

// BooleanIOValue returns the boolean IO value with the given name.
// It returns ErrUnknownIOName if no boolean IO value with that name exists.
func (s *RobotState) BooleanIOValue(name string) (bool, error) {
	v, ok := s.booleanIO[name]
	if !ok {
		return false, ErrUnknownIOName
	}

	return v, nil
}

// DigitalIOValue returns the digital IO value with the given name.
// It returns ErrUnknownIOName if no digital IO value with that name exists.
func (s *RobotState) DigitalIOValue(name string) (uint64, error) {
	v, ok := s.digitalIO[name]
	if !ok {
		return 0, ErrUnknownIOName
	}

	return v, nil
}

// AnalogIOValue returns the analog IO value with the given name.
// It returns ErrUnknownIOName if no analog IO value with that name exists.
func (s *RobotState) AnalogIOValue(name string) (float64, error) {
	v, ok := s.analogIO[name]
	if !ok {
		return 0, ErrUnknownIOName
	}

	return v, nil
}

// BooleanIOValues returns a copy of all boolean IO values keyed by name.
func (s *RobotState) BooleanIOValues() map[string]bool {
	out := make(map[string]bool, len(s.booleanIO))
	for k, v := range s.booleanIO {
		out[k] = v
	}

	return out
}

// DigitalIOValues returns a copy of all digital IO values keyed by name.
func (s *RobotState) DigitalIOValues() map[string]uint64 {
	out := make(map[string]uint64, len(s.digitalIO))
	for k, v := range s.digitalIO {
		out[k] = v
	}

	return out
}

// AnalogIOValues returns a copy of all analog IO values keyed by name.
func (s *RobotState) AnalogIOValues() map[string]float64 {
	out := make(map[string]float64, len(s.analogIO))
	for k, v := range s.analogIO {
		out[k] = v
	}

	return out
}

// SequenceCount returns the sequence counter of the monitor message this
// state was decoded from.
func (s *RobotState) SequenceCount() uint16 { return s.seqCount }

// ReflectedSequenceCount returns the sequence counter of the last command
// message the robot has seen, as reflected in the monitor message.
func (s *RobotState) ReflectedSequenceCount() uint16 { return s.reflectedSeqCount }
