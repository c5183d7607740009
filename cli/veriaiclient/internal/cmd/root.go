// Package cmd implements the CLI commands for a veriAI agent client.
package cmd

import (
	"github.com/veriai-sys/veriai-go/cli"
)

// RootCmd represents the base "veriaiclient" command when called without any subcommands.
var RootCmd = cli.NewRootCommand("veriaiclient",
	"veriAI agent client",
	`veriAI agent client

The client registers an agent with a veriAI coordinator and lets you
open verification sessions and answer their challenges from a REPL.`)
