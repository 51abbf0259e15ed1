package friudp

import (
	"sync/atomic"
)

// ConnectionMetrics contains atomic metrics for a cyclic connection.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type ConnectionMetrics struct {
	// CycleRecvCount indicates the number of monitor messages received.
	CycleRecvCount atomic.Uint64
	// MissedCycleCount indicates the number of cycles skipped because no
	// monitor message arrived within the receive timeout.
	MissedCycleCount atomic.Uint64
	// DecodeErrCount indicates the number of malformed monitor messages.
	DecodeErrCount atomic.Uint64
	// ValidationErrCount indicates the number of commands rejected by the
	// command validator.
	ValidationErrCount atomic.Uint64
	// FallbackCount indicates the number of cycles sent with a fallback
	// command instead of the callback-built command.
	FallbackCount atomic.Uint64
	// CmdSendCount indicates the number of command messages sent.
	CmdSendCount atomic.Uint64
	// SendErrCount indicates the number of command send failures.
	SendErrCount atomic.Uint64
	// TransitionCount indicates the number of session state transitions.
	TransitionCount atomic.Uint64
}

func (m *ConnectionMetrics) incCycleRecvCount() {
	m.CycleRecvCount.Add(1)
}

func (m *ConnectionMetrics) incMissedCycleCount() {
	m.MissedCycleCount.Add(1)
}

func (m *ConnectionMetrics) incDecodeErrCount() {
	m.DecodeErrCount.Add(1)
}

func (m *ConnectionMetrics) incValidationErrCount() {
	m.ValidationErrCount.Add(1)
}

func (m *ConnectionMetrics) incFallbackCount() {
	m.FallbackCount.Add(1)
}

func (m *ConnectionMetrics) incCmdSendCount() {
	m.CmdSendCount.Add(1)
}

func (m *ConnectionMetrics) incSendErrCount() {
	m.SendErrCount.Add(1)
}

func (m *ConnectionMetrics) incTransitionCount() {
	m.TransitionCount.Add(1)
}
