package fri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMonitorMessage() *MonitorMessage {
	return &MonitorMessage{
		SeqCount:              1234,
		ReflectedSeqCount:     1230,
		SampleTime:            0.005,
		SessionState:          MonitoringReadyState,
		ConnectionQuality:     GoodQuality,
		SafetyState:           NormalOperation,
		OperationMode:         AutomaticMode,
		DriveState:            DrivesActive,
		ControlMode:           PositionControlMode,
		ClientCommandMode:     JointPositionCommandMode,
		OverlayType:           NoOverlay,
		TimestampSec:          1700000000,
		TimestampNanoSec:      500000000,
		TrackingPerformance:   0.98,
		MeasuredJointPosition: []float64{0.1, -0.2, 0.3, -1.4, 0.5, 1.6, -0.7},
		MeasuredTorque:        []float64{1, 2, 3, 4, 5, 6, 7},
		CommandedTorque:       []float64{-1, -2, -3, -4, -5, -6, -7},
		ExternalTorque:        []float64{0.01, 0.02, 0.03, 0.04, 0.05, 0.06, 0.07},
		IpoJointPosition:      []float64{0.11, -0.21, 0.31, -1.41, 0.51, 1.61, -0.71},
		BooleanIO:             map[string]bool{"GripperOpen": true, "PartPresent": false},
		DigitalIO:             map[string]uint64{"ToolSelect": 5},
		AnalogIO:              map[string]float64{"WeldCurrent": 14.25},
	}
}

func TestMonitorMessageRoundTrip(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	msg := testMonitorMessage()
	data, err := EncodeMonitorMessage(msg)
	require.NoError(err)
	require.GreaterOrEqual(len(data), MinMonitorSize)

	state, err := DecodeMonitorMessage(data)
	require.NoError(err)

	assert.Equal(msg.SeqCount, state.SequenceCount())
	assert.Equal(msg.ReflectedSeqCount, state.ReflectedSequenceCount())
	assert.Equal(msg.SampleTime, state.SampleTime())
	assert.Equal(msg.SessionState, state.SessionState())
	assert.Equal(msg.ConnectionQuality, state.ConnectionQuality())
	assert.Equal(msg.SafetyState, state.SafetyState())
	assert.Equal(msg.OperationMode, state.OperationMode())
	assert.Equal(msg.DriveState, state.DriveState())
	assert.Equal(msg.ControlMode, state.ControlMode())
	assert.Equal(msg.ClientCommandMode, state.ClientCommandMode())
	assert.Equal(msg.OverlayType, state.OverlayType())
	assert.Equal(msg.TimestampSec, state.TimestampSec())
	assert.Equal(msg.TimestampNanoSec, state.TimestampNanoSec())
	assert.Equal(msg.TrackingPerformance, state.TrackingPerformance())
	assert.Equal(msg.MeasuredJointPosition, state.MeasuredJointPosition())
	assert.Equal(msg.MeasuredTorque, state.MeasuredTorque())
	assert.Equal(msg.CommandedTorque, state.CommandedTorque())
	assert.Equal(msg.ExternalTorque, state.ExternalTorque())
	assert.Equal(msg.IpoJointPosition, state.IpoJointPosition())

	open, err := state.BooleanIOValue("GripperOpen")
	require.NoError(err)
	assert.True(open)
	tool, err := state.DigitalIOValue("ToolSelect")
	require.NoError(err)
	assert.Equal(uint64(5), tool)
	current, err := state.AnalogIOValue("WeldCurrent")
	require.NoError(err)
	assert.Equal(14.25, current)

	_, err = state.BooleanIOValue("NoSuchSignal")
	assert.ErrorIs(err, ErrUnknownIOName)
}

func TestMonitorMessage_NilArraysEncodeAsZeros(t *testing.T) {
	require := require.New(t)

	data, err := EncodeMonitorMessage(&MonitorMessage{SessionState: MonitoringWaitState})
	require.NoError(err)

	state, err := DecodeMonitorMessage(data)
	require.NoError(err)
	require.Equal(make([]float64, NumberOfJoints), state.MeasuredJointPosition())
	require.Equal(make([]float64, NumberOfJoints), state.IpoJointPosition())
}

func TestDecodeMonitorMessage_Errors(t *testing.T) {
	require := require.New(t)

	valid, err := EncodeMonitorMessage(testMonitorMessage())
	require.NoError(err)

	t.Run("Too Short", func(t *testing.T) {
		_, err := DecodeMonitorMessage(valid[:MinMonitorSize-1])
		require.ErrorIs(err, ErrMessageTooShort)
	})

	t.Run("Invalid Magic", func(t *testing.T) {
		data := append([]byte{}, valid...)
		data[0] = 0xFF
		_, err := DecodeMonitorMessage(data)
		require.ErrorIs(err, ErrInvalidMagic)
	})

	t.Run("Version Mismatch", func(t *testing.T) {
		data := append([]byte{}, valid...)
		data[2] = ProtocolVersionMajor + 1
		_, err := DecodeMonitorMessage(data)
		require.ErrorIs(err, ErrVersionMismatch)
	})

	t.Run("Wrong Message Type", func(t *testing.T) {
		data := append([]byte{}, valid...)
		data[4] = CommandMsgType
		_, err := DecodeMonitorMessage(data)
		require.ErrorIs(err, ErrInvalidMsgType)
	})

	t.Run("Trailing Bytes", func(t *testing.T) {
		data := append(append([]byte{}, valid...), 0xAB)
		_, err := DecodeMonitorMessage(data)
		require.ErrorIs(err, ErrTrailingBytes)
	})

	t.Run("Truncated IO Section", func(t *testing.T) {
		_, err := DecodeMonitorMessage(valid[:len(valid)-2])
		require.ErrorIs(err, ErrMessageTooShort)
	})
}

func TestCommandMessageRoundTrip(t *testing.T) {
	tests := []struct {
		description string
		mode        ClientCommandMode
		build       func(cmd *RobotCommand) error
	}{
		{
			description: "joint position command",
			mode:        JointPositionCommandMode,
			build: func(cmd *RobotCommand) error {
				return cmd.SetJointPosition([]float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7})
			},
		},
		{
			description: "wrench command",
			mode:        WrenchCommandMode,
			build: func(cmd *RobotCommand) error {
				return cmd.SetWrench([]float64{10, -20, 30, 0.5, -0.5, 0.25})
			},
		},
		{
			description: "torque command",
			mode:        TorqueCommandMode,
			build: func(cmd *RobotCommand) error {
				return cmd.SetTorque([]float64{-1.5, 2.5, -3.5, 4.5, -5.5, 6.5, -7.5})
			},
		},
		{
			description: "cartesian pose command",
			mode:        CartesianPoseCommandMode,
			build: func(cmd *RobotCommand) error {
				return cmd.SetCartesianPose([]float64{0.4, 0, 0.6, 1, 0, 0, 0})
			},
		},
		{
			description: "no-command with IO writes",
			mode:        NoCommandMode,
			build: func(cmd *RobotCommand) error {
				cmd.SetBooleanIOValue("GripperOpen", true)
				cmd.SetDigitalIOValue("ToolSelect", 9)
				cmd.SetAnalogIOValue("WeldCurrent", -2.5)
				return nil
			},
		},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			require := require.New(t)

			cmd := NewRobotCommand()
			require.NoError(test.build(cmd))
			require.NoError(ValidateCommand(cmd, test.mode))

			data, err := EncodeCommandMessage(cmd, test.mode, 42, 41)
			require.NoError(err)

			decoded, err := DecodeCommandMessage(data)
			require.NoError(err)
			require.Equal(test.mode, decoded.Mode)
			require.Equal(uint16(42), decoded.SeqCount)
			require.Equal(uint16(41), decoded.ReflectedSeqCount)

			require.Equal(cmd.JointPosition(), decoded.Command.JointPosition())
			require.Equal(cmd.Wrench(), decoded.Command.Wrench())
			require.Equal(cmd.Torque(), decoded.Command.Torque())
			require.Equal(cmd.CartesianPose(), decoded.Command.CartesianPose())
			require.Equal(cmd.booleanIO, decoded.Command.booleanIO)
			require.Equal(cmd.digitalIO, decoded.Command.digitalIO)
			require.Equal(cmd.analogIO, decoded.Command.analogIO)

			// the decoded command is legal for its mode
			require.NoError(ValidateCommand(decoded.Command, decoded.Mode))
		})
	}
}

func TestEncodeCommandMessage_ShapeChecked(t *testing.T) {
	require := require.New(t)

	// decoded or hand-built commands bypass the setters, so the encoder
	// re-checks array shapes
	cmd := &RobotCommand{torque: make([]float64, 5)}
	_, err := EncodeCommandMessage(cmd, TorqueCommandMode, 1, 1)

	var valErr *ValidationError
	require.ErrorAs(err, &valErr)
	require.Equal(ShapeMismatch, valErr.Kind)
}

func TestDecodeCommandMessage_Errors(t *testing.T) {
	require := require.New(t)

	cmd := NewRobotCommand()
	require.NoError(cmd.SetTorque(jointValues(1)))
	valid, err := EncodeCommandMessage(cmd, TorqueCommandMode, 7, 6)
	require.NoError(err)

	t.Run("Too Short", func(t *testing.T) {
		_, err := DecodeCommandMessage(valid[:MinCommandSize-1])
		require.ErrorIs(err, ErrMessageTooShort)
	})

	t.Run("Wrong Message Type", func(t *testing.T) {
		data := append([]byte{}, valid...)
		data[4] = MonitorMsgType
		_, err := DecodeCommandMessage(data)
		require.ErrorIs(err, ErrInvalidMsgType)
	})

	t.Run("Truncated Array", func(t *testing.T) {
		_, err := DecodeCommandMessage(valid[:HeaderSize+2+8])
		require.ErrorIs(err, ErrMessageTooShort)
	})
}
