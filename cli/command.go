// Package cli provides the cobra command builders shared by the
// veriAI executables.
package cli

import (
	"github.com/spf13/cobra"
)

// cobraCommand is used to implement any type of cobra command
// for any of the veriAI command-line tools and executables.
type cobraCommand interface {
	Build() *cobra.Command
}

// A RunFunc implements a command. A returned error is printed and makes
// the executable exit with a non-zero status.
type RunFunc func(cmd *cobra.Command, args []string) error
