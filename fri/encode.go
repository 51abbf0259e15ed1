package fri

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
)

// MonitorMessage is the robot-side content of a monitor datagram. It exists
// for the encode direction of the monitor codec, which serves round-trip
// verification and robot-side simulation; a live client only ever decodes
// monitor messages into a RobotState.
type MonitorMessage struct {
	SeqCount          uint16
	ReflectedSeqCount uint16

	SampleTime float64

	SessionState      SessionState
	ConnectionQuality ConnectionQuality
	SafetyState       SafetyState
	OperationMode     OperationMode
	DriveState        DriveState
	ControlMode       ControlMode
	ClientCommandMode ClientCommandMode
	OverlayType       OverlayType

	TimestampSec     uint32
	TimestampNanoSec uint32

	TrackingPerformance float64

	// Joint arrays; nil encodes as all zeros, any other length is an error.
	MeasuredJointPosition []float64
	MeasuredTorque        []float64
	CommandedTorque       []float64
	ExternalTorque        []float64
	IpoJointPosition      []float64

	BooleanIO map[string]bool
	DigitalIO map[string]uint64
	AnalogIO  map[string]float64
}

// EncodeMonitorMessage encodes a measured-state datagram.
func EncodeMonitorMessage(m *MonitorMessage) ([]byte, error) {
	e := newMsgEncoder(MinMonitorSize)
	e.encodeHeader(MonitorMsgType, m.SeqCount, m.ReflectedSeqCount)

	e.writeFloat64(m.SampleTime)
	e.writeByte(byte(m.SessionState))
	e.writeByte(byte(m.ConnectionQuality))
	e.writeByte(byte(m.SafetyState))
	e.writeByte(byte(m.OperationMode))
	e.writeByte(byte(m.DriveState))
	e.writeByte(byte(m.ControlMode))
	e.writeByte(byte(m.ClientCommandMode))
	e.writeByte(byte(m.OverlayType))
	e.writeUint32(m.TimestampSec)
	e.writeUint32(m.TimestampNanoSec)
	e.writeFloat64(m.TrackingPerformance)

	jointArrays := []struct {
		name   string
		values []float64
	}{
		{"measured joint position", m.MeasuredJointPosition},
		{"measured torque", m.MeasuredTorque},
		{"commanded torque", m.CommandedTorque},
		{"external torque", m.ExternalTorque},
		{"ipo joint position", m.IpoJointPosition},
	}
	for _, arr := range jointArrays {
		if arr.values == nil {
			arr.values = make([]float64, NumberOfJoints)
		}
		if len(arr.values) != NumberOfJoints {
			return nil, newShapeMismatch(arr.name, NumberOfJoints, len(arr.values))
		}
		e.writeFloat64Slice(arr.values)
	}

	if err := e.encodeIOSections(m.BooleanIO, m.DigitalIO, m.AnalogIO); err != nil {
		return nil, err
	}

	return e.buf, nil
}

// EncodeCommandMessage encodes a command datagram for the given client
// command mode. It emits exactly the populated command fields; legality of
// that field set for the mode is a contract the caller establishes via
// ValidateCommand before encoding, not a codec concern. Wrong-shaped arrays
// are still rejected here since decoded commands bypass the setters.
func EncodeCommandMessage(cmd *RobotCommand, mode ClientCommandMode, seqCount uint16, reflectedSeqCount uint16) ([]byte, error) {
	var mask byte
	if cmd.jointPosition != nil {
		if len(cmd.jointPosition) != NumberOfJoints {
			return nil, newShapeMismatch("joint position", NumberOfJoints, len(cmd.jointPosition))
		}
		mask |= maskJointPosition
	}
	if cmd.wrench != nil {
		if len(cmd.wrench) != WrenchSize {
			return nil, newShapeMismatch("wrench", WrenchSize, len(cmd.wrench))
		}
		mask |= maskWrench
	}
	if cmd.torque != nil {
		if len(cmd.torque) != NumberOfJoints {
			return nil, newShapeMismatch("torque", NumberOfJoints, len(cmd.torque))
		}
		mask |= maskTorque
	}
	if cmd.cartesianPose != nil {
		if len(cmd.cartesianPose) != CartesianPoseSize {
			return nil, newShapeMismatch("cartesian pose", CartesianPoseSize, len(cmd.cartesianPose))
		}
		mask |= maskCartesianPose
	}

	e := newMsgEncoder(MinCommandSize)
	e.encodeHeader(CommandMsgType, seqCount, reflectedSeqCount)
	e.writeByte(byte(mode))
	e.writeByte(mask)

	if mask&maskJointPosition != 0 {
		e.writeFloat64Slice(cmd.jointPosition)
	}
	if mask&maskWrench != 0 {
		e.writeFloat64Slice(cmd.wrench)
	}
	if mask&maskTorque != 0 {
		e.writeFloat64Slice(cmd.torque)
	}
	if mask&maskCartesianPose != 0 {
		e.writeFloat64Slice(cmd.cartesianPose)
	}

	if err := e.encodeIOSections(cmd.booleanIO, cmd.digitalIO, cmd.analogIO); err != nil {
		return nil, err
	}

	return e.buf, nil
}

// msgEncoder builds a datagram in wire order.
type msgEncoder struct {
	buf []byte
}

func newMsgEncoder(sizeHint int) *msgEncoder {
	return &msgEncoder{buf: make([]byte, 0, sizeHint)}
}

func (e *msgEncoder) writeByte(b byte) {
	e.buf = append(e.buf, b)
}

func (e *msgEncoder) writeUint16(v uint16) {
	e.buf = binary.BigEndian.AppendUint16(e.buf, v)
}

func (e *msgEncoder) writeUint32(v uint32) {
	e.buf = binary.BigEndian.AppendUint32(e.buf, v)
}

func (e *msgEncoder) writeUint64(v uint64) {
	e.buf = binary.BigEndian.AppendUint64(e.buf, v)
}

func (e *msgEncoder) writeFloat64(v float64) {
	e.writeUint64(math.Float64bits(v))
}

func (e *msgEncoder) writeFloat64Slice(values []float64) {
	for _, v := range values {
		e.writeFloat64(v)
	}
}

func (e *msgEncoder) encodeHeader(msgType byte, seqCount uint16, reflectedSeqCount uint16) {
	e.writeUint16(MessageMagic)
	e.writeByte(ProtocolVersionMajor)
	e.writeByte(ProtocolVersionMinor)
	e.writeByte(msgType)
	e.writeByte(0) // flags, reserved
	e.writeUint16(seqCount)
	e.writeUint16(reflectedSeqCount)
}

func (e *msgEncoder) writeName(name string) error {
	if len(name) > math.MaxUint8 {
		return fmt.Errorf("IO value name %q exceeds %d bytes", name, math.MaxUint8)
	}
	e.writeByte(byte(len(name)))
	e.buf = append(e.buf, name...)

	return nil
}

// encodeIOSections encodes the boolean, digital and analog IO sections in
// that order. Entries are sorted by name so encoding is deterministic.
func (e *msgEncoder) encodeIOSections(booleanIO map[string]bool, digitalIO map[string]uint64, analogIO map[string]float64) error {
	if len(booleanIO) > math.MaxUint8 || len(digitalIO) > math.MaxUint8 || len(analogIO) > math.MaxUint8 {
		return fmt.Errorf("too many IO values: at most %d per section", math.MaxUint8)
	}

	e.writeByte(byte(len(booleanIO)))
	for _, name := range sortedKeys(booleanIO) {
		if err := e.writeName(name); err != nil {
			return err
		}
		if booleanIO[name] {
			e.writeByte(1)
		} else {
			e.writeByte(0)
		}
	}

	e.writeByte(byte(len(digitalIO)))
	for _, name := range sortedKeys(digitalIO) {
		if err := e.writeName(name); err != nil {
			return err
		}
		e.writeUint64(digitalIO[name])
	}

	e.writeByte(byte(len(analogIO)))
	for _, name := range sortedKeys(analogIO) {
		if err := e.writeName(name); err != nil {
			return err
		}
		e.writeFloat64(analogIO[name])
	}

	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
