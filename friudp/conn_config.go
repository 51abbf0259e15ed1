package friudp

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/openlbr/go-fri/logger"
)

// ErrConfigNil indicates that a nil ConnectionConfig was provided.
var ErrConfigNil = errors.New("connection config is nil")

// FallbackPolicy determines what the cyclic loop sends when the command
// built by the lifecycle callback fails validation. The policy must be an
// explicit configuration decision; there is no implicit behavior.
type FallbackPolicy uint32

const (
	// FallbackRepeatCommand resends the previous valid command of the same
	// command mode. When no such command exists it falls through to the
	// safe command of the active mode.
	FallbackRepeatCommand FallbackPolicy = iota
	// FallbackSafeCommand sends a safe default for the active command
	// mode: the interpolated joint position in joint-position mode, zero
	// torques or wrench in the torque and wrench modes, an empty command
	// in no-command mode. In Cartesian pose mode no safe default exists
	// and the cycle's send is skipped.
	FallbackSafeCommand
)

// String returns string representation of the fallback policy.
func (p FallbackPolicy) String() string {
	switch p {
	case FallbackRepeatCommand:
		return "repeat-command"
	case FallbackSafeCommand:
		return "safe-command"
	default:
		return "unknown"
	}
}

// ConnectionConfig represents the configuration parameters for a cyclic
// FRI connection.
type ConnectionConfig struct {
	mu sync.RWMutex

	// receiveTimeout bounds each per-cycle receive. A cycle with no
	// datagram inside this budget is recorded as missed.
	// Defaults to 100 milliseconds.
	receiveTimeout time.Duration

	// decodeFailureThreshold is the number of consecutive malformed
	// monitor messages after which the session is considered unrecoverable.
	// Defaults to 10.
	decodeFailureThreshold int

	// fallbackPolicy selects the outgoing command when validation fails.
	// Defaults to FallbackRepeatCommand.
	fallbackPolicy FallbackPolicy

	// qualityRecoveryWindow is the number of consecutive clean cycles
	// needed to improve the local connection-quality estimate by one level.
	// Defaults to 10.
	qualityRecoveryWindow int

	// logger provides a logger instance for logging connection events and
	// errors.
	logger logger.Logger
}

// NewConnectionConfig creates a new cyclic connection configuration with
// default values and then applies the provided options to customize the
// configuration.
//
// See the documentation for ConnOption and the various WithXXX functions
// for available configuration options.
func NewConnectionConfig(opts ...ConnOption) (*ConnectionConfig, error) {
	cfg := &ConnectionConfig{
		receiveTimeout:         100 * time.Millisecond,
		decodeFailureThreshold: 10,
		fallbackPolicy:         FallbackRepeatCommand,
		qualityRecoveryWindow:  10,
		logger:                 logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// ReceiveTimeout returns the per-cycle receive timeout.
func (cfg *ConnectionConfig) ReceiveTimeout() time.Duration {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.receiveTimeout
}

// DecodeFailureThreshold returns the consecutive decode failure limit.
func (cfg *ConnectionConfig) DecodeFailureThreshold() int {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.decodeFailureThreshold
}

// Fallback returns the configured fallback policy.
func (cfg *ConnectionConfig) Fallback() FallbackPolicy {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.fallbackPolicy
}

// QualityRecoveryWindow returns the clean-cycle count needed to improve the
// local quality estimate by one level.
func (cfg *ConnectionConfig) QualityRecoveryWindow() int {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.qualityRecoveryWindow
}

// Logger returns the configured logger.
func (cfg *ConnectionConfig) Logger() logger.Logger {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.logger
}

// ConnOption represents a functional option for configuring a
// ConnectionConfig.
type ConnOption interface {
	apply(*ConnectionConfig) error
}

type connOptFunc struct {
	name      string
	applyFunc func(*ConnectionConfig) error
}

func (c *connOptFunc) apply(cfg *ConnectionConfig) error { return c.applyFunc(cfg) }

func newConnOptFunc(name string, f func(*ConnectionConfig) error) *connOptFunc {
	return &connOptFunc{name: name, applyFunc: f}
}

// WithReceiveTimeout sets the per-cycle receive timeout.
// It should be between 1 millisecond and 10 seconds.
func WithReceiveTimeout(timeout time.Duration) ConnOption {
	return newConnOptFunc("WithReceiveTimeout", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if timeout < time.Millisecond || timeout > 10*time.Second {
			return fmt.Errorf("receive timeout %v out of range [1ms, 10s]", timeout)
		}
		cfg.receiveTimeout = timeout

		return nil
	})
}

// WithDecodeFailureThreshold sets the number of consecutive malformed
// monitor messages after which Step reports the session unrecoverable.
// It must be at least 1.
func WithDecodeFailureThreshold(threshold int) ConnOption {
	return newConnOptFunc("WithDecodeFailureThreshold", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if threshold < 1 {
			return fmt.Errorf("decode failure threshold %d should be at least 1", threshold)
		}
		cfg.decodeFailureThreshold = threshold

		return nil
	})
}

// WithFallbackPolicy sets the fallback policy applied when a command fails
// validation.
func WithFallbackPolicy(policy FallbackPolicy) ConnOption {
	return newConnOptFunc("WithFallbackPolicy", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if policy != FallbackRepeatCommand && policy != FallbackSafeCommand {
			return fmt.Errorf("unknown fallback policy %d", policy)
		}
		cfg.fallbackPolicy = policy

		return nil
	})
}

// WithQualityRecoveryWindow sets the number of consecutive clean cycles
// needed to improve the local connection-quality estimate by one level.
// It must be at least 1.
func WithQualityRecoveryWindow(window int) ConnOption {
	return newConnOptFunc("WithQualityRecoveryWindow", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if window < 1 {
			return fmt.Errorf("quality recovery window %d should be at least 1", window)
		}
		cfg.qualityRecoveryWindow = window

		return nil
	})
}

// WithLogger sets the logger used by the connection and the cyclic loop.
func WithLogger(l logger.Logger) ConnOption {
	return newConnOptFunc("WithLogger", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if l == nil {
			return errors.New("logger is nil")
		}
		cfg.logger = l

		return nil
	})
}
