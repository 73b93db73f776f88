package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoggingFlags(t *testing.T) {
	cmd := &cobra.Command{}
	RegisterLoggingFlags(cmd.PersistentFlags())

	assert.NotNil(t, cmd.PersistentFlags().Lookup(FormatFlagName))
	assert.NotNil(t, cmd.PersistentFlags().Lookup(LevelFlagName))
	assert.NotNil(t, cmd.PersistentFlags().Lookup(OutputFlagName))
}

func TestGetBaseLogger(t *testing.T) {
	tests := []struct {
		name   string
		format string
		output string
		want   string
		toErr  bool
	}{
		{name: "json to stdout", format: FormatJSON, output: OutputStdout, want: `"msg":"hello"`},
		{name: "text to stderr", format: FormatText, output: OutputStderr, want: "msg=hello", toErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			cmd := &cobra.Command{}
			cmd.SetOut(&stdout)
			cmd.SetErr(&stderr)
			RegisterLoggingFlags(cmd.Flags())
			require.NoError(t, cmd.Flags().Set(FormatFlagName, tt.format))
			require.NoError(t, cmd.Flags().Set(OutputFlagName, tt.output))
			require.NoError(t, cmd.Flags().Set(LevelFlagName, LevelInfo))

			logger, err := GetBaseLogger(cmd)
			require.NoError(t, err)
			logger.Info("hello")
			logger.Debug("hidden")

			got, other := stdout.String(), stderr.String()
			if tt.toErr {
				got, other = other, got
			}
			assert.Contains(t, got, tt.want)
			assert.NotContains(t, got, "hidden")
			assert.Empty(t, other)
		})
	}
}

func TestLoggerLevelFromCommand(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cmd := &cobra.Command{}
			RegisterLoggingFlags(cmd.Flags())
			require.NoError(t, cmd.Flags().Set(LevelFlagName, tt.level))

			level, err := loggerLevelFromCommand(cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.want, level)
		})
	}
}
