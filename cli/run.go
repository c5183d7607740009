package cli

import (
	"github.com/spf13/cobra"
)

// A runCommand is used to create a veriAI executable's
// main functionality.
type runCommand struct {
	appName string
	long    string
	runFunc RunFunc
}

var _ cobraCommand = (*runCommand)(nil)

// NewRunCommand constructs a new run command for the given
// exectuable's appName, long description and the runFunc implementing
// the main functionality.
// The command accepts a "config" flag, the path of the configuration
// file, and an "encoding" flag, its encoding.
func NewRunCommand(appName, long string, runFunc RunFunc) *cobra.Command {
	runCmd := &runCommand{
		appName: appName,
		long:    long,
		runFunc: runFunc,
	}
	return runCmd.Build()
}

// Build constructs the cobra.Command according to the
// runCommand's settings.
func (runCmd *runCommand) Build() *cobra.Command {
	cmd := cobra.Command{
		Use:   "run",
		Short: "Run a " + runCmd.appName + " instance.",
		Long:  runCmd.long,
		RunE:  runCmd.runFunc,
	}
	cmd.Flags().StringP("config", "c", "config.toml", "Path to the configuration file")
	cmd.Flags().StringP("encoding", "e", "toml", "Encoding of the configuration file (toml or yaml)")
	return &cmd
}

// ConfigFlags returns the values of the "config" and "encoding" flags
// of a run command.
func ConfigFlags(cmd *cobra.Command) (string, string) {
	file, _ := cmd.Flags().GetString("config")
	encoding, _ := cmd.Flags().GetString("encoding")
	return file, encoding
}
