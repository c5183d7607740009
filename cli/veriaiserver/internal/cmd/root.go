// Package cmd implements the CLI commands for a veriAI coordinator server.
package cmd

import (
	"github.com/veriai-sys/veriai-go/cli"
)

// RootCmd represents the base "veriaiserver" command when called without any subcommands.
var RootCmd = cli.NewRootCommand("veriaiserver",
	"veriAI verification coordinator",
	`
                _    _    ___
__   _____ _ __(_)  / \  |_ _|
\ \ / / _ \ '__| | / _ \  | |
 \ V /  __/ |  | |/ ___ \ | |
  \_/ \___|_|  |_/_/   \_\___|
`)
