package fri

import (
	"github.com/openlbr/go-fri/internal/util"
)

// RobotCommand is the mutable per-cycle command output. A fresh command is
// handed to the lifecycle callback each cycle; the callback populates the
// fields required by the active ClientCommandMode, the command is validated
// by ValidateCommand, encoded and transmitted.
//
// Each setter rejects a wrong-shaped value with a ValidationError instead
// of silently truncating or padding. Mode legality of the populated field
// set is checked by ValidateCommand, not by the setters.
type RobotCommand struct {
	jointPosition []float64
	wrench        []float64
	torque        []float64
	cartesianPose []float64

	booleanIO map[string]bool
	digitalIO map[string]uint64
	analogIO  map[string]float64
}

// NewRobotCommand creates an empty RobotCommand.
func NewRobotCommand() *RobotCommand {
	return &RobotCommand{}
}

// SetJointPosition sets the commanded joint positions in radians.
// The value must have exactly NumberOfJoints elements.
func (c *RobotCommand) SetJointPosition(values []float64) error {
	if len(values) != NumberOfJoints {
		return newShapeMismatch("joint position", NumberOfJoints, len(values))
	}

	c.jointPosition = util.CloneSlice(values, 0)

	return nil
}

// SetWrench sets the commanded Cartesian wrench: three force values in N
// followed by three torque values in Nm. The value must have exactly
// WrenchSize elements.
func (c *RobotCommand) SetWrench(values []float64) error {
	if len(values) != WrenchSize {
		return newShapeMismatch("wrench", WrenchSize, len(values))
	}

	c.wrench = util.CloneSlice(values, 0)

	return nil
}

// SetTorque sets the commanded joint torques in Nm. The value must have
// exactly NumberOfJoints elements.
func (c *RobotCommand) SetTorque(values []float64) error {
	if len(values) != NumberOfJoints {
		return newShapeMismatch("torque", NumberOfJoints, len(values))
	}

	c.torque = util.CloneSlice(values, 0)

	return nil
}

// SetCartesianPose sets the commanded Cartesian pose: a translation vector
// followed by a unit quaternion. The value must have exactly
// CartesianPoseSize elements.
func (c *RobotCommand) SetCartesianPose(values []float64) error {
	if len(values) != CartesianPoseSize {
		return newShapeMismatch("cartesian pose", CartesianPoseSize, len(values))
	}

	c.cartesianPose = util.CloneSlice(values, 0)

	return nil
}

// SetBooleanIOValue stages a boolean IO write with the given name.
func (c *RobotCommand) SetBooleanIOValue(name string, value bool) {
	if c.booleanIO == nil {
		c.booleanIO = make(map[string]bool)
	}
	c.booleanIO[name] = value
}

// SetDigitalIOValue stages a digital IO write with the given name.
func (c *RobotCommand) SetDigitalIOValue(name string, value uint64) {
	if c.digitalIO == nil {
		c.digitalIO = make(map[string]uint64)
	}
	c.digitalIO[name] = value
}

// SetAnalogIOValue stages an analog IO write with the given name.
func (c *RobotCommand) SetAnalogIOValue(name string, value float64) {
	if c.analogIO == nil {
		c.analogIO = make(map[string]float64)
	}
	c.analogIO[name] = value
}

// JointPosition returns the commanded joint positions, or nil when unset.
func (c *RobotCommand) JointPosition() []float64 {
	return util.CloneSlice(c.jointPosition, 0)
}

// Wrench returns the commanded wrench, or nil when unset.
func (c *RobotCommand) Wrench() []float64 {
	return util.CloneSlice(c.wrench, 0)
}

// Torque returns the commanded joint torques, or nil when unset.
func (c *RobotCommand) Torque() []float64 {
	return util.CloneSlice(c.torque, 0)
}

// CartesianPose returns the commanded Cartesian pose, or nil when unset.
func (c *RobotCommand) CartesianPose() []float64 {
	return util.CloneSlice(c.cartesianPose, 0)
}

// HasMotionField reports whether any motion field (joint position, wrench,
// torque or Cartesian pose) is populated.
func (c *RobotCommand) HasMotionField() bool {
	return c.jointPosition != nil || c.wrench != nil || c.torque != nil || c.cartesianPose != nil
}

// Clone creates a deep copy of the command.
func (c *RobotCommand) Clone() *RobotCommand {
	clone := &RobotCommand{
		jointPosition: util.CloneSlice(c.jointPosition, 0),
		wrench:        util.CloneSlice(c.wrench, 0),
		torque:        util.CloneSlice(c.torque, 0),
		cartesianPose: util.CloneSlice(c.cartesianPose, 0),
	}

	if c.booleanIO != nil {
		clone.booleanIO = make(map[string]bool, len(c.booleanIO))
		for k, v := range c.booleanIO {
			clone.booleanIO[k] = v
		}
	}
	if c.digitalIO != nil {
		clone.digitalIO = make(map[string]uint64, len(c.digitalIO))
		for k, v := range c.digitalIO {
			clone.digitalIO[k] = v
		}
	}
	if c.analogIO != nil {
		clone.analogIO = make(map[string]float64, len(c.analogIO))
		for k, v := range c.analogIO {
			clone.analogIO[k] = v
		}
	}

	return clone
}
