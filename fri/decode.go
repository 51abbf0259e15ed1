package fri

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
)

const (
	// HeaderSize is the size of the datagram header in bytes.
	HeaderSize = 10
	// MessageMagic is the magic value every datagram starts with.
	MessageMagic uint16 = 0x4652

	// monitorFixedSize is the size of the fixed part of a monitor payload:
	// sample time, eight state bytes, timestamp, tracking performance and
	// five joint arrays.
	monitorFixedSize = 8 + 8 + 8 + 8 + 5*NumberOfJoints*8
	// ioSectionCountSize is the size of the three IO section counters.
	ioSectionCountSize = 3

	// MinMonitorSize is the minimum size of a monitor message.
	MinMonitorSize = HeaderSize + monitorFixedSize + ioSectionCountSize
	// MinCommandSize is the minimum size of a command message: header,
	// command mode, field mask and the three IO section counters.
	MinCommandSize = HeaderSize + 2 + ioSectionCountSize
)

// Datagram message types.
const (
	// MonitorMsgType identifies a measured-state message sent by the robot.
	MonitorMsgType byte = 0x01
	// CommandMsgType identifies a command message sent by the client.
	CommandMsgType byte = 0x02
)

// Field mask bits of a command message.
const (
	maskJointPosition byte = 1 << iota
	maskWrench
	maskTorque
	maskCartesianPose
)

// CommandMessage is the decoded content of a command datagram. The decode
// direction of the command codec serves round-trip verification and
// robot-side simulation; a live client only ever encodes commands.
type CommandMessage struct {
	// SeqCount is the sequence counter of the command message.
	SeqCount uint16
	// ReflectedSeqCount echoes the sequence counter of the monitor message
	// the command responds to.
	ReflectedSeqCount uint16
	// Mode is the client command mode the command was encoded for.
	Mode ClientCommandMode
	// Command carries the decoded command fields.
	Command *RobotCommand
}

// message decoder pool
var decoderPool = sync.Pool{New: func() any { return new(msgDecoder) }}

// DecodeMonitorMessage decodes an incoming measured-state datagram into a
// RobotState.
//
// It fails when the byte length, magic, protocol version or message type
// does not match the expected fixed-format monitor message; such a failure
// is fatal for the current cycle only (the cycle is skipped, not retried).
func DecodeMonitorMessage(data []byte) (*RobotState, error) {
	if len(data) < MinMonitorSize {
		return nil, fmt.Errorf("%w: monitor message needs at least %d bytes, got %d", ErrMessageTooShort, MinMonitorSize, len(data))
	}

	decoder, _ := decoderPool.Get().(*msgDecoder)
	decoder.reset(data)
	state, err := decoder.decodeMonitorMessage()
	decoderPool.Put(decoder)

	return state, err
}

// DecodeCommandMessage decodes a command datagram.
func DecodeCommandMessage(data []byte) (*CommandMessage, error) {
	if len(data) < MinCommandSize {
		return nil, fmt.Errorf("%w: command message needs at least %d bytes, got %d", ErrMessageTooShort, MinCommandSize, len(data))
	}

	decoder, _ := decoderPool.Get().(*msgDecoder)
	decoder.reset(data)
	msg, err := decoder.decodeCommandMessage()
	decoderPool.Put(decoder)

	return msg, err
}

// msgDecoder is a helper struct for decoding datagrams. It maintains the
// current position in the input byte array and provides methods for
// decoding the primitive field types.
type msgDecoder struct {
	input []byte
	pos   int
}

func (d *msgDecoder) reset(input []byte) {
	d.input = input
	d.pos = 0
}

// remaining returns the number of bytes remaining in the input buffer.
func (d *msgDecoder) remaining() int {
	return len(d.input) - d.pos
}

// read reads a specified number of bytes from the input and advances the
// current position. Returns an error if there are not enough bytes
// remaining.
func (d *msgDecoder) read(length int) ([]byte, error) {
	if d.pos+length > len(d.input) {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrMessageTooShort, length, d.remaining())
	}
	result := d.input[d.pos : d.pos+length]
	d.pos += length

	return result, nil
}

func (d *msgDecoder) readByte() (byte, error) {
	data, err := d.read(1)
	if err != nil {
		return 0, err
	}

	return data[0], nil
}

func (d *msgDecoder) readUint16() (uint16, error) {
	data, err := d.read(2)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint16(data), nil
}

func (d *msgDecoder) readUint32() (uint32, error) {
	data, err := d.read(4)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint32(data), nil
}

func (d *msgDecoder) readUint64() (uint64, error) {
	data, err := d.read(8)
	if err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint64(data), nil
}

func (d *msgDecoder) readFloat64() (float64, error) {
	bits, err := d.readUint64()
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(bits), nil
}

func (d *msgDecoder) readFloat64Slice(length int) ([]float64, error) {
	values := make([]float64, length)
	for i := range values {
		v, err := d.readFloat64()
		if err != nil {
			return nil, err
		}
		values[i] = v
	}

	return values, nil
}

func (d *msgDecoder) readName() (string, error) {
	nameLen, err := d.readByte()
	if err != nil {
		return "", err
	}

	name, err := d.read(int(nameLen))
	if err != nil {
		return "", err
	}

	return string(name), nil
}

// decodeHeader validates the common datagram header and returns the
// sequence and reflected sequence counters.
func (d *msgDecoder) decodeHeader(msgType byte) (seq uint16, reflSeq uint16, err error) {
	magic, err := d.readUint16()
	if err != nil {
		return 0, 0, err
	}
	if magic != MessageMagic {
		return 0, 0, fmt.Errorf("%w: 0x%04X", ErrInvalidMagic, magic)
	}

	verMajor, _ := d.readByte()
	if _, err = d.readByte(); err != nil { // minor version, not checked
		return 0, 0, err
	}
	if verMajor != ProtocolVersionMajor {
		return 0, 0, fmt.Errorf("%w: remote major version %d, local %d", ErrVersionMismatch, verMajor, ProtocolVersionMajor)
	}

	gotType, err := d.readByte()
	if err != nil {
		return 0, 0, err
	}
	if gotType != msgType {
		return 0, 0, fmt.Errorf("%w: 0x%02X", ErrInvalidMsgType, gotType)
	}

	if _, err = d.readByte(); err != nil { // flags, reserved
		return 0, 0, err
	}

	if seq, err = d.readUint16(); err != nil {
		return 0, 0, err
	}
	if reflSeq, err = d.readUint16(); err != nil {
		return 0, 0, err
	}

	return seq, reflSeq, nil
}

func (d *msgDecoder) decodeMonitorMessage() (*RobotState, error) {
	seq, reflSeq, err := d.decodeHeader(MonitorMsgType)
	if err != nil {
		return nil, err
	}

	state := &RobotState{seqCount: seq, reflectedSeqCount: reflSeq}

	if state.sampleTime, err = d.readFloat64(); err != nil {
		return nil, err
	}

	enums, err := d.read(8)
	if err != nil {
		return nil, err
	}
	state.sessionState = SessionState(enums[0])
	state.connectionQuality = ConnectionQuality(enums[1])
	state.safetyState = SafetyState(enums[2])
	state.operationMode = OperationMode(enums[3])
	state.driveState = DriveState(enums[4])
	state.controlMode = ControlMode(enums[5])
	state.clientCommandMode = ClientCommandMode(enums[6])
	state.overlayType = OverlayType(enums[7])

	if state.timestampSec, err = d.readUint32(); err != nil {
		return nil, err
	}
	if state.timestampNanoSec, err = d.readUint32(); err != nil {
		return nil, err
	}
	if state.trackingPerformance, err = d.readFloat64(); err != nil {
		return nil, err
	}

	if state.measuredJointPosition, err = d.readFloat64Slice(NumberOfJoints); err != nil {
		return nil, err
	}
	if state.measuredTorque, err = d.readFloat64Slice(NumberOfJoints); err != nil {
		return nil, err
	}
	if state.commandedTorque, err = d.readFloat64Slice(NumberOfJoints); err != nil {
		return nil, err
	}
	if state.externalTorque, err = d.readFloat64Slice(NumberOfJoints); err != nil {
		return nil, err
	}
	if state.ipoJointPosition, err = d.readFloat64Slice(NumberOfJoints); err != nil {
		return nil, err
	}

	if state.booleanIO, state.digitalIO, state.analogIO, err = d.decodeIOSections(); err != nil {
		return nil, err
	}

	if d.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d bytes after monitor message end", ErrTrailingBytes, d.remaining())
	}

	return state, nil
}

func (d *msgDecoder) decodeCommandMessage() (*CommandMessage, error) {
	seq, reflSeq, err := d.decodeHeader(CommandMsgType)
	if err != nil {
		return nil, err
	}

	modeByte, err := d.readByte()
	if err != nil {
		return nil, err
	}
	mask, err := d.readByte()
	if err != nil {
		return nil, err
	}

	cmd := NewRobotCommand()
	if mask&maskJointPosition != 0 {
		if cmd.jointPosition, err = d.readFloat64Slice(NumberOfJoints); err != nil {
			return nil, err
		}
	}
	if mask&maskWrench != 0 {
		if cmd.wrench, err = d.readFloat64Slice(WrenchSize); err != nil {
			return nil, err
		}
	}
	if mask&maskTorque != 0 {
		if cmd.torque, err = d.readFloat64Slice(NumberOfJoints); err != nil {
			return nil, err
		}
	}
	if mask&maskCartesianPose != 0 {
		if cmd.cartesianPose, err = d.readFloat64Slice(CartesianPoseSize); err != nil {
			return nil, err
		}
	}

	if cmd.booleanIO, cmd.digitalIO, cmd.analogIO, err = d.decodeIOSections(); err != nil {
		return nil, err
	}

	if d.remaining() != 0 {
		return nil, fmt.Errorf("%w: %d bytes after command message end", ErrTrailingBytes, d.remaining())
	}

	return &CommandMessage{
		SeqCount:          seq,
		ReflectedSeqCount: reflSeq,
		Mode:              ClientCommandMode(modeByte),
		Command:           cmd,
	}, nil
}

// decodeIOSections decodes the boolean, digital and analog IO sections in
// that order. Empty sections decode to nil maps.
func (d *msgDecoder) decodeIOSections() (map[string]bool, map[string]uint64, map[string]float64, error) {
	boolCount, err := d.readByte()
	if err != nil {
		return nil, nil, nil, err
	}
	var booleanIO map[string]bool
	if boolCount > 0 {
		booleanIO = make(map[string]bool, boolCount)
	}
	for i := 0; i < int(boolCount); i++ {
		name, err := d.readName()
		if err != nil {
			return nil, nil, nil, err
		}
		v, err := d.readByte()
		if err != nil {
			return nil, nil, nil, err
		}
		booleanIO[name] = v != 0
	}

	digitalCount, err := d.readByte()
	if err != nil {
		return nil, nil, nil, err
	}
	var digitalIO map[string]uint64
	if digitalCount > 0 {
		digitalIO = make(map[string]uint64, digitalCount)
	}
	for i := 0; i < int(digitalCount); i++ {
		name, err := d.readName()
		if err != nil {
			return nil, nil, nil, err
		}
		v, err := d.readUint64()
		if err != nil {
			return nil, nil, nil, err
		}
		digitalIO[name] = v
	}

	analogCount, err := d.readByte()
	if err != nil {
		return nil, nil, nil, err
	}
	var analogIO map[string]float64
	if analogCount > 0 {
		analogIO = make(map[string]float64, analogCount)
	}
	for i := 0; i < int(analogCount); i++ {
		name, err := d.readName()
		if err != nil {
			return nil, nil, nil, err
		}
		v, err := d.readFloat64()
		if err != nil {
			return nil, nil, nil, err
		}
		analogIO[name] = v
	}

	return booleanIO, digitalIO, analogIO, nil
}
