package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd returns the frontbundle command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "frontbundle",
		Short: "Build the web frontend and bundle it into the firmware data folder",
		Long: `frontbundle runs before a firmware upload. It installs the frontend
dependencies, builds the frontend and replaces the data folder with the
fresh build output, so the filesystem image uploaded with the firmware
always carries the current UI. Any failure aborts the upload.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(NewRunCmd())
	root.AddCommand(NewHookCmd())
	root.AddCommand(NewInitCmd())
	root.AddCommand(NewVersionCmd())
	root.AddCommand(NewUpdateCmd())
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "frontbundle: %v\n", err)
		return ExitCode(err)
	}
	return 0
}

// ExitCode maps an error to a process exit code. A failed wrapped target
// command keeps its own status; every other failure is 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var te *targetError
	if errors.As(err, &te) && te.code > 0 {
		return te.code
	}
	return 1
}
