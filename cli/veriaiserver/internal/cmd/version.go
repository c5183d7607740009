package cmd

import (
	"github.com/veriai-sys/veriai-go/cli"
)

var versionCmd = cli.NewVersionCommand("veriaiserver")

func init() {
	RootCmd.AddCommand(versionCmd)
}
