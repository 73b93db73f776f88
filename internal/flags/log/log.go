// Package log configures the slog logger of the command-line tool from its
// flags. It supports text and JSON formats, the debug, info, warn, and
// error levels, and writing to stdout or stderr.
package log

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/reactiveobject/reactivegen/internal/flags/enum"
)

// Log format constants
const (
	FormatFlagName = "logformat"

	FormatText = "text"
	FormatJSON = "json"
)

// Log level constants
const (
	LevelFlagName = "loglevel"

	LevelWarn  = "warn"
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelError = "error"
)

// Log output constants
const (
	OutputFlagName = "logoutput"

	OutputStderr = "stderr"
	OutputStdout = "stdout"
)

// RegisterLoggingFlags registers the logging flags on flagset. Logs go to
// stderr by default, since stdout carries the output of the commands.
//
//	--logformat json     # Output logs in JSON format for machine processing
//	--loglevel debug     # Show every file parsed and artifact generated
//	--logoutput stdout   # Write logs to standard output
func RegisterLoggingFlags(flagset *pflag.FlagSet) {
	enum.Var(flagset, FormatFlagName, []string{
		FormatText,
		FormatJSON,
	}, "set the log output format")

	enum.Var(flagset, LevelFlagName, []string{
		LevelWarn,
		LevelDebug,
		LevelInfo,
		LevelError,
	}, "set the logging level")

	enum.Var(flagset, OutputFlagName, []string{
		OutputStderr,
		OutputStdout,
	}, "set the log output destination")
}

// GetBaseLogger creates a logger configured by the command's flags.
func GetBaseLogger(cmd *cobra.Command) (*slog.Logger, error) {
	level, err := loggerLevelFromCommand(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to get log level: %w", err)
	}
	format, err := enum.Get(cmd.Flags(), FormatFlagName)
	if err != nil {
		return nil, fmt.Errorf("failed to get the log format from the command flag: %w", err)
	}
	output, err := enum.Get(cmd.Flags(), OutputFlagName)
	if err != nil {
		return nil, fmt.Errorf("failed to get the log output from the command flag: %w", err)
	}

	var w io.Writer
	switch output {
	case OutputStdout:
		w = cmd.OutOrStdout()
	default:
		w = cmd.ErrOrStderr()
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	case FormatText:
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	return slog.New(handler), nil
}

func loggerLevelFromCommand(cmd *cobra.Command) (slog.Level, error) {
	name, err := enum.Get(cmd.Flags(), LevelFlagName)
	if err != nil {
		return slog.LevelWarn, err
	}
	switch name {
	case LevelDebug:
		return slog.LevelDebug, nil
	case LevelInfo:
		return slog.LevelInfo, nil
	case LevelWarn:
		return slog.LevelWarn, nil
	case LevelError:
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("invalid log level: %s", name)
	}
}
