// Package cmd implements the CLI commands for the veriAI demo.
package cmd

import (
	"github.com/veriai-sys/veriai-go/cli"
)

// RootCmd represents the base "veriaidemo" command when called without any subcommands.
var RootCmd = cli.NewRootCommand("veriaidemo",
	"veriAI scripted two-agent demo",
	`veriAI scripted two-agent demo

Registers an analytical and a creative agent with a running coordinator,
opens a session between them and prints how the session completes.`)
