package friudp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openlbr/go-fri/logger"
)

func TestConnectionConfig_Defaults(t *testing.T) {
	require := require.New(t)

	cfg, err := NewConnectionConfig()
	require.NoError(err)

	require.Equal(100*time.Millisecond, cfg.ReceiveTimeout())
	require.Equal(10, cfg.DecodeFailureThreshold())
	require.Equal(FallbackRepeatCommand, cfg.Fallback())
	require.Equal(10, cfg.QualityRecoveryWindow())
	require.NotNil(cfg.Logger())
}

func TestConnectionConfig_Options(t *testing.T) {
	require := require.New(t)

	mockLogger := logger.NewMockLogger()
	cfg, err := NewConnectionConfig(
		WithReceiveTimeout(5*time.Millisecond),
		WithDecodeFailureThreshold(3),
		WithFallbackPolicy(FallbackSafeCommand),
		WithQualityRecoveryWindow(20),
		WithLogger(mockLogger),
	)
	require.NoError(err)

	require.Equal(5*time.Millisecond, cfg.ReceiveTimeout())
	require.Equal(3, cfg.DecodeFailureThreshold())
	require.Equal(FallbackSafeCommand, cfg.Fallback())
	require.Equal(20, cfg.QualityRecoveryWindow())
	require.Equal(mockLogger, cfg.Logger())
}

func TestConnectionConfig_InvalidOptions(t *testing.T) {
	tests := []struct {
		description string
		option      ConnOption
	}{
		{"receive timeout below range", WithReceiveTimeout(time.Microsecond)},
		{"receive timeout above range", WithReceiveTimeout(time.Minute)},
		{"zero decode failure threshold", WithDecodeFailureThreshold(0)},
		{"negative decode failure threshold", WithDecodeFailureThreshold(-1)},
		{"unknown fallback policy", WithFallbackPolicy(FallbackPolicy(9))},
		{"zero quality recovery window", WithQualityRecoveryWindow(0)},
		{"nil logger", WithLogger(nil)},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			_, err := NewConnectionConfig(test.option)
			require.Error(t, err)
		})
	}
}

func TestFallbackPolicyString(t *testing.T) {
	require.Equal(t, "repeat-command", FallbackRepeatCommand.String())
	require.Equal(t, "safe-command", FallbackSafeCommand.String())
	require.Equal(t, "unknown", FallbackPolicy(9).String())
}
