package fri

import "fmt"

// ValidationErrorKind classifies why a command failed validation.
type ValidationErrorKind uint32

const (
	// ShapeMismatch indicates that a populated command field has a wrong
	// length for the active command mode.
	ShapeMismatch ValidationErrorKind = iota + 1
	// ModeMismatch indicates that the set of populated command fields does
	// not match the set required by the active command mode.
	ModeMismatch
)

// String returns string representation of the validation error kind.
func (k ValidationErrorKind) String() string {
	switch k {
	case ShapeMismatch:
		return "shape-mismatch"
	case ModeMismatch:
		return "mode-mismatch"
	default:
		return "unknown"
	}
}

// ValidationError describes a command that violates the shape or mode
// constraints of the active ClientCommandMode. A validation failure aborts
// only the encode step of the current cycle; the session state machine is
// unaffected and the cycle falls back to the configured fallback command.
type ValidationError struct {
	// Kind classifies the violation.
	Kind ValidationErrorKind
	// Field names the offending command field.
	Field string
	// Expected is the required array length for ShapeMismatch errors.
	Expected int
	// Actual is the observed array length for ShapeMismatch errors.
	Actual int
}

func (e *ValidationError) Error() string {
	if e.Kind == ShapeMismatch {
		return fmt.Sprintf("%s: %s length should be %d, got %d", e.Kind, e.Field, e.Expected, e.Actual)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Field)
}

func newShapeMismatch(field string, expected int, actual int) *ValidationError {
	return &ValidationError{Kind: ShapeMismatch, Field: field, Expected: expected, Actual: actual}
}

func newModeMismatch(field string) *ValidationError {
	return &ValidationError{Kind: ModeMismatch, Field: field}
}

// ValidateCommand checks that the populated fields of cmd exactly match the
// set required by mode and that every populated array has the mode-mandated
// length. It returns nil if the command is legal for the mode, or a
// ValidationError describing the first violation found.
//
// IO writes are legal in every mode and are not checked here.
func ValidateCommand(cmd *RobotCommand, mode ClientCommandMode) error {
	switch mode {
	case NoCommandMode:
		if cmd.HasMotionField() {
			return newModeMismatch("motion field populated in no-command mode")
		}

	case JointPositionCommandMode:
		if cmd.jointPosition == nil {
			return newModeMismatch("joint position required but not set")
		}
		if len(cmd.jointPosition) != NumberOfJoints {
			return newShapeMismatch("joint position", NumberOfJoints, len(cmd.jointPosition))
		}
		if cmd.wrench != nil || cmd.torque != nil || cmd.cartesianPose != nil {
			return newModeMismatch("only joint position is legal in joint-position mode")
		}

	case WrenchCommandMode:
		if cmd.wrench == nil {
			return newModeMismatch("wrench required but not set")
		}
		if len(cmd.wrench) != WrenchSize {
			return newShapeMismatch("wrench", WrenchSize, len(cmd.wrench))
		}
		if cmd.jointPosition != nil || cmd.torque != nil || cmd.cartesianPose != nil {
			return newModeMismatch("only wrench is legal in wrench mode")
		}

	case TorqueCommandMode:
		if cmd.torque == nil {
			return newModeMismatch("torque required but not set")
		}
		if len(cmd.torque) != NumberOfJoints {
			return newShapeMismatch("torque", NumberOfJoints, len(cmd.torque))
		}
		if cmd.jointPosition != nil || cmd.wrench != nil || cmd.cartesianPose != nil {
			return newModeMismatch("only torque is legal in torque mode")
		}

	case CartesianPoseCommandMode:
		if cmd.cartesianPose == nil {
			return newModeMismatch("cartesian pose required but not set")
		}
		if len(cmd.cartesianPose) != CartesianPoseSize {
			return newShapeMismatch("cartesian pose", CartesianPoseSize, len(cmd.cartesianPose))
		}
		if cmd.jointPosition != nil || cmd.wrench != nil || cmd.torque != nil {
			return newModeMismatch("only cartesian pose is legal in cartesian-pose mode")
		}

	default:
		return newModeMismatch("unknown client command mode")
	}

	return nil
}
