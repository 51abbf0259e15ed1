package fri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jointValues(v float64) []float64 {
	values := make([]float64, NumberOfJoints)
	for i := range values {
		values[i] = v
	}

	return values
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		description  string
		command      *RobotCommand
		mode         ClientCommandMode
		expectedKind ValidationErrorKind // zero means valid
	}{
		{
			description: "no-command mode with empty command",
			command:     &RobotCommand{},
			mode:        NoCommandMode,
		},
		{
			description: "no-command mode with IO writes only",
			command:     &RobotCommand{booleanIO: map[string]bool{"GripperOpen": true}},
			mode:        NoCommandMode,
		},
		{
			description:  "no-command mode with joint position",
			command:      &RobotCommand{jointPosition: jointValues(0.1)},
			mode:         NoCommandMode,
			expectedKind: ModeMismatch,
		},
		{
			description:  "no-command mode with wrench",
			command:      &RobotCommand{wrench: make([]float64, WrenchSize)},
			mode:         NoCommandMode,
			expectedKind: ModeMismatch,
		},
		{
			description: "joint-position mode with joint position",
			command:     &RobotCommand{jointPosition: jointValues(1.5)},
			mode:        JointPositionCommandMode,
		},
		{
			description:  "joint-position mode with missing joint position",
			command:      &RobotCommand{},
			mode:         JointPositionCommandMode,
			expectedKind: ModeMismatch,
		},
		{
			description:  "joint-position mode with extra torque",
			command:      &RobotCommand{jointPosition: jointValues(1.5), torque: jointValues(0)},
			mode:         JointPositionCommandMode,
			expectedKind: ModeMismatch,
		},
		{
			description:  "joint-position mode with short array",
			command:      &RobotCommand{jointPosition: make([]float64, NumberOfJoints-1)},
			mode:         JointPositionCommandMode,
			expectedKind: ShapeMismatch,
		},
		{
			description: "wrench mode with 6-length wrench",
			command:     &RobotCommand{wrench: []float64{1, 2, 3, 0.1, 0.2, 0.3}},
			mode:        WrenchCommandMode,
		},
		{
			description:  "wrench mode with 7-length wrench",
			command:      &RobotCommand{wrench: make([]float64, 7)},
			mode:         WrenchCommandMode,
			expectedKind: ShapeMismatch,
		},
		{
			description:  "wrench mode with joint position instead",
			command:      &RobotCommand{jointPosition: jointValues(0)},
			mode:         WrenchCommandMode,
			expectedKind: ModeMismatch,
		},
		{
			description: "torque mode with joint-count torque",
			command:     &RobotCommand{torque: jointValues(2.5)},
			mode:        TorqueCommandMode,
		},
		{
			description:  "torque mode with extra pose",
			command:      &RobotCommand{torque: jointValues(2.5), cartesianPose: make([]float64, CartesianPoseSize)},
			mode:         TorqueCommandMode,
			expectedKind: ModeMismatch,
		},
		{
			description: "cartesian-pose mode with pose",
			command:     &RobotCommand{cartesianPose: []float64{0, 0, 1, 1, 0, 0, 0}},
			mode:        CartesianPoseCommandMode,
		},
		{
			description:  "cartesian-pose mode with short pose",
			command:      &RobotCommand{cartesianPose: make([]float64, 6)},
			mode:         CartesianPoseCommandMode,
			expectedKind: ShapeMismatch,
		},
		{
			description:  "unknown command mode",
			command:      &RobotCommand{},
			mode:         ClientCommandMode(77),
			expectedKind: ModeMismatch,
		},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			err := ValidateCommand(test.command, test.mode)
			if test.expectedKind == 0 {
				require.NoError(t, err)
				return
			}

			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, test.expectedKind, valErr.Kind)
		})
	}
}

func TestValidateCommand_TorqueShapeMismatchDetail(t *testing.T) {
	require := require.New(t)

	// a 7-length torque array and no other fields passes
	cmd := &RobotCommand{torque: jointValues(1)}
	require.NoError(ValidateCommand(cmd, TorqueCommandMode))

	// the same command with a 6-length array reports the exact shape
	cmd = &RobotCommand{torque: make([]float64, 6)}
	err := ValidateCommand(cmd, TorqueCommandMode)

	var valErr *ValidationError
	require.ErrorAs(err, &valErr)
	require.Equal(ShapeMismatch, valErr.Kind)
	require.Equal(NumberOfJoints, valErr.Expected)
	require.Equal(6, valErr.Actual)
}
