package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/sunwardlabs/helioscope/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		wantErr bool
	}{
		{"console info", config.LoggingConfig{Level: "info", Format: "console"}, false},
		{"json debug", config.LoggingConfig{Level: "debug", Format: "json"}, false},
		{"json warn", config.LoggingConfig{Level: "warn", Format: "json"}, false},
		{"bad level", config.LoggingConfig{Level: "loud", Format: "json"}, true},
		{"bad format", config.LoggingConfig{Level: "info", Format: "logfmt"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger)
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	logger, err := New(config.LoggingConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
}
