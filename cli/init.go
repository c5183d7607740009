package cli

import (
	"github.com/spf13/cobra"
)

// An initCommand is used to create a veriAI executable's
// configuration.
type initCommand struct {
	appName string
	runFunc RunFunc
}

var _ cobraCommand = (*initCommand)(nil)

// NewInitCommand constructs a new init command for the given
// exectuable's appName and the runFunc implementing
// the initialization command.
// The command accepts a "dir" flag, the directory the generated files
// are written to.
func NewInitCommand(appName string, runFunc RunFunc) *cobra.Command {
	initCmd := &initCommand{
		appName: appName,
		runFunc: runFunc,
	}
	return initCmd.Build()
}

// Build constructs the cobra.Command according to the
// initCommand's settings.
func (initCmd *initCommand) Build() *cobra.Command {
	cmd := cobra.Command{
		Use:   "init",
		Short: "Create a configuration file for " + initCmd.appName + ".",
		Long:  `Create a configuration file for ` + initCmd.appName + `.`,
		Args:  cobra.NoArgs,
		RunE:  initCmd.runFunc,
	}
	cmd.Flags().StringP("dir", "d", ".", "Location of directory for storing generated files")
	return &cmd
}
