// Package command implements the reactivegen command-line tool.
package command

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/reactiveobject/reactivegen/internal/flags/log"
)

// ConfigFlag names the configuration file to use instead of the
// reactivegen.yaml of the project directory.
const ConfigFlag = "config"

// Execute runs the tool and exits with a non-zero status on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := New().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// New returns the root command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reactivegen [sub-command]",
		Short: "Generate change-notifying C# properties for marked fields",
		Long: `reactivegen reads the C# sources of a project, finds the fields marked with
[ReactiveProperty], and writes a partial class for each class declaring
them. The partial class exposes one property per marked field, whose setter
calls RaiseAndSetIfChanged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	cmd.PersistentFlags().String(ConfigFlag, "", "configuration file (default: reactivegen.yaml in the project directory)")
	log.RegisterLoggingFlags(cmd.PersistentFlags())

	cmd.AddCommand(newGenerate())
	cmd.AddCommand(newList())
	cmd.AddCommand(newVersion())
	return cmd
}
