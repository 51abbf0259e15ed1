package friudp

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/openlbr/go-fri/fri"
	"github.com/openlbr/go-fri/logger"
)

// ErrClientNil indicates that a nil fri.Client was provided.
var ErrClientNil = errors.New("client is nil")

// IOKind identifies the kind of a named IO value.
type IOKind uint32

// IO value kinds.
const (
	BooleanIOKind IOKind = iota
	DigitalIOKind
	AnalogIOKind
)

// String returns string representation of the IO kind.
func (k IOKind) String() string {
	switch k {
	case BooleanIOKind:
		return "boolean"
	case DigitalIOKind:
		return "digital"
	case AnalogIOKind:
		return "analog"
	default:
		return "unknown"
	}
}

// IOValue is the last-known observation of a named IO value. Only the
// field matching Kind is meaningful.
type IOValue struct {
	Kind    IOKind
	Boolean bool
	Digital uint64
	Analog  float64
}

// Application drives the cyclic control loop of one FRI connection. It owns
// the transport and the session state machine, decodes each incoming
// monitor message, invokes the lifecycle callback selected by the state
// machine, validates, encodes and transmits the resulting command.
//
// Exactly one cycle runs at a time: the controlling caller invokes Step
// from a single goroutine and must not invoke a second cycle concurrently
// with an in-flight one. Disconnect is the only operation safe to call
// concurrently; it makes a pending receive return immediately.
type Application struct {
	cfg       *ConnectionConfig
	logger    logger.Logger
	client    fri.Client
	transport fri.Transport
	stateMgr  *fri.SessionStateMgr
	quality   *qualityTracker
	metrics   ConnectionMetrics

	// ioValues is a concurrency-safe directory of last-known IO values for
	// observers outside the cycle.
	ioValues *xsync.MapOf[string, IOValue]

	lastCommand     *fri.RobotCommand
	lastCommandMode fri.ClientCommandMode

	seqCount       uint16
	decodeFailures int
	lastSafety     fri.SafetyState

	connected atomic.Bool
}

// NewApplication creates an Application for the given client and
// configuration. The client supplies the lifecycle callbacks; its
// OnStateChange is registered as a session state change handler.
func NewApplication(client fri.Client, cfg *ConnectionConfig) (*Application, error) {
	if client == nil {
		return nil, ErrClientNil
	}
	if cfg == nil {
		return nil, ErrConfigNil
	}

	transport, err := NewConnection(cfg)
	if err != nil {
		return nil, err
	}

	app := &Application{
		cfg:       cfg,
		logger:    cfg.Logger(),
		client:    client,
		transport: transport,
		stateMgr:  fri.NewSessionStateMgr(client.OnStateChange),
		quality:   newQualityTracker(cfg.QualityRecoveryWindow()),
		ioValues:  xsync.NewMapOf[string, IOValue](),
	}
	app.stateMgr.SetLogger(app.logger)

	return app, nil
}

// Connect establishes the transport on the given local UDP port. An empty
// remoteHost binds for an incoming peer rather than dialing out.
func (a *Application) Connect(port int, remoteHost string) error {
	if a.connected.Load() {
		return fri.ErrConnOpened
	}

	if err := a.transport.Open(port, remoteHost); err != nil {
		return err
	}

	a.stateMgr.Reset()
	a.quality.reset()
	a.seqCount = 0
	a.decodeFailures = 0
	a.lastCommand = nil
	a.lastSafety = fri.NormalOperation
	a.connected.Store(true)

	a.logger.Info("connected", "port", port, "remoteHost", remoteHost)

	return nil
}

// Disconnect closes the transport and forces the session state back to
// idle. It is idempotent and safe to call while a cycle is blocked in
// receive; the pending receive returns immediately.
func (a *Application) Disconnect() {
	if !a.connected.CompareAndSwap(true, false) {
		return
	}

	if err := a.transport.Close(); err != nil {
		a.logger.Warn("transport close failed", "error", err)
	}
	a.stateMgr.Reset()
	a.logger.Info("disconnected")
}

// SessionState returns the currently held session state.
func (a *Application) SessionState() fri.SessionState {
	return a.stateMgr.State()
}

// Quality returns the local connection-quality estimate derived from the
// missed-cycle pattern of the loop.
func (a *Application) Quality() fri.ConnectionQuality {
	return a.quality.Quality()
}

// Metrics returns the connection metrics of this application.
func (a *Application) Metrics() *ConnectionMetrics {
	return &a.metrics
}

// IOValue returns the last-known IO value with the given name. Safe for
// concurrent readers outside the cycle.
func (a *Application) IOValue(name string) (IOValue, bool) {
	return a.ioValues.Load(name)
}

// Step executes exactly one protocol cycle: receive bounded by the cycle
// time budget, decode, advance the session state machine, invoke the
// selected lifecycle callback, validate, encode and transmit the command.
//
// A nil return means the session remains usable and the caller should keep
// cycling. A non-nil return means the session is over: the transport
// failed, consecutive decode failures exceeded the configured threshold,
// the peer speaks an incompatible protocol revision, or Disconnect was
// called. Receive timeouts, single decode failures and command validation
// failures are survived and recorded as cumulative quality signals.
func (a *Application) Step() error {
	if !a.connected.Load() {
		return fri.ErrConnClosed
	}

	data, err := a.transport.Receive(a.cfg.ReceiveTimeout())
	switch {
	case errors.Is(err, fri.ErrReceiveTimeout):
		a.metrics.incMissedCycleCount()
		if quality, degraded := a.quality.recordMiss(); degraded {
			a.logger.Warn("connection quality degraded", "quality", quality)
		}

		return nil

	case errors.Is(err, fri.ErrConnClosed):
		a.connected.Store(false)
		return fri.ErrConnClosed

	case err != nil:
		a.Disconnect()
		return fmt.Errorf("transport receive failed: %w", err)
	}

	a.metrics.incCycleRecvCount()
	if quality, improved := a.quality.recordClean(); improved {
		a.logger.Info("connection quality recovered", "quality", quality)
	}

	state, err := fri.DecodeMonitorMessage(data)
	if err != nil {
		a.metrics.incDecodeErrCount()
		a.decodeFailures++
		if a.decodeFailures >= a.cfg.DecodeFailureThreshold() {
			a.Disconnect()
			return fmt.Errorf("%d consecutive decode failures: %w", a.decodeFailures, err)
		}
		a.logger.Warn("dropping malformed monitor message", "error", err, "failures", a.decodeFailures)

		return nil
	}
	a.decodeFailures = 0

	if safety := state.SafetyState(); safety != a.lastSafety {
		if !safety.IsNormal() {
			a.logger.Warn("safety stop reported", "safetyState", safety)
		}
		a.lastSafety = safety
	}

	result, err := a.stateMgr.Advance(state.SessionState())
	if err != nil {
		a.Disconnect()
		return err
	}
	if result.Changed {
		a.metrics.incTransitionCount()
	}

	a.updateIODirectory(state)

	cmd := fri.NewRobotCommand()
	switch result.Callback {
	case fri.CallbackMonitor:
		a.client.Monitor(state, cmd)
	case fri.CallbackWaitForCommand:
		a.client.WaitForCommand(state, cmd)
	case fri.CallbackCommand:
		a.client.Command(state, cmd)
	case fri.CallbackNone:
		// idle cycle: no user callback, the empty command is the reply
	}

	mode := state.ClientCommandMode()
	outCmd := cmd
	if err := fri.ValidateCommand(cmd, mode); err != nil {
		a.metrics.incValidationErrCount()
		a.logger.Warn("command validation failed", "mode", mode, "error", err)

		outCmd = a.fallbackCommand(state, mode)
		if outCmd == nil {
			a.logger.Warn("no fallback command available, skipping send", "mode", mode)
			return nil
		}
		a.metrics.incFallbackCount()
	}

	payload, err := fri.EncodeCommandMessage(outCmd, mode, a.nextSeqCount(), state.SequenceCount())
	if err != nil {
		// arrays are length-checked at set time, so this indicates a bug
		a.logger.Error("command encode failed", "mode", mode, "error", err)
		return nil
	}

	if err := a.transport.Send(payload); err != nil {
		if errors.Is(err, fri.ErrConnClosed) {
			a.connected.Store(false)
			return fri.ErrConnClosed
		}
		a.metrics.incSendErrCount()
		a.Disconnect()

		return fmt.Errorf("transport send failed: %w", err)
	}
	a.metrics.incCmdSendCount()

	// callbacks may retain the command they built, so keep a private copy
	a.lastCommand = outCmd.Clone()
	a.lastCommandMode = mode

	return nil
}

// fallbackCommand selects the outgoing command for a cycle whose
// callback-built command failed validation, per the configured policy.
// It returns nil when nothing safe can be sent.
func (a *Application) fallbackCommand(state *fri.RobotState, mode fri.ClientCommandMode) *fri.RobotCommand {
	if a.cfg.Fallback() == FallbackRepeatCommand && a.lastCommand != nil && a.lastCommandMode == mode {
		return a.lastCommand
	}

	return safeCommand(state, mode)
}

// safeCommand builds the safe default command for the given mode: hold the
// interpolated position in joint-position mode, command zero effort in the
// torque and wrench modes. Cartesian pose mode has no safe default because
// the state carries no pose observation to hold.
func safeCommand(state *fri.RobotState, mode fri.ClientCommandMode) *fri.RobotCommand {
	cmd := fri.NewRobotCommand()

	switch mode {
	case fri.NoCommandMode:
		return cmd
	case fri.JointPositionCommandMode:
		if err := cmd.SetJointPosition(state.IpoJointPosition()); err != nil {
			return nil
		}

		return cmd
	case fri.TorqueCommandMode:
		if err := cmd.SetTorque(make([]float64, fri.NumberOfJoints)); err != nil {
			return nil
		}

		return cmd
	case fri.WrenchCommandMode:
		if err := cmd.SetWrench(make([]float64, fri.WrenchSize)); err != nil {
			return nil
		}

		return cmd
	default:
		return nil
	}
}

// updateIODirectory refreshes the concurrency-safe directory of last-known
// IO values from the decoded state.
func (a *Application) updateIODirectory(state *fri.RobotState) {
	for name, v := range state.BooleanIOValues() {
		a.ioValues.Store(name, IOValue{Kind: BooleanIOKind, Boolean: v})
	}
	for name, v := range state.DigitalIOValues() {
		a.ioValues.Store(name, IOValue{Kind: DigitalIOKind, Digital: v})
	}
	for name, v := range state.AnalogIOValues() {
		a.ioValues.Store(name, IOValue{Kind: AnalogIOKind, Analog: v})
	}
}

func (a *Application) nextSeqCount() uint16 {
	a.seqCount++
	return a.seqCount
}
