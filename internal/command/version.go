package command

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// BuildVersion overrides the version read from the Go build information.
// It can be set at build time with
//
//	-ldflags "-X github.com/reactiveobject/reactivegen/internal/command.BuildVersion=1.2.3"
var BuildVersion = "n/a"

func newVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of reactivegen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "reactivegen %s\n", version())
			return err
		},
	}
}

func version() string {
	if BuildVersion != "n/a" {
		return BuildVersion
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
