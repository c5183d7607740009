package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/veriai-sys/veriai-go/cli"
	"golang.org/x/term"
)

var runCmd = cli.NewRunCommand("veriAI client", "Run gives you a REPL, so that you can invoke commands to take part in veriAI verification sessions. Currently, it supports:\n"+help, run)

func init() {
	RootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolP("debug", "d", false, "Turn on debugging mode")
}

func run(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sh := newShell(conf)
	sh.timestamps, _ = cmd.Flags().GetBool("debug")

	fd := int(os.Stdin.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer term.Restore(fd, state)
	t := term.NewTerminal(os.Stdin, "veriai-client> ")

	ctx := context.Background()
	for {
		line, err := t.ReadLine()
		if err != nil {
			writeLineInRawMode(t, err.Error(), sh.timestamps)
			return nil
		}
		msg, quit := sh.execute(ctx, line, func(update string) {
			writeLineInRawMode(t, update, sh.timestamps)
		})
		if msg != "" {
			writeLineInRawMode(t, msg, sh.timestamps && msg != help)
		}
		if quit {
			return nil
		}
	}
}
