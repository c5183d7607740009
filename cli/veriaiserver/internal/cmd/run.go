package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/veriai-sys/veriai-go/application/server"
	"github.com/veriai-sys/veriai-go/cli"
)

var runCmd = cli.NewRunCommand("veriAI server",
	`Run a veriAI coordinator instance.

This will look for config files with default names
in the current directory if not specified differently.
	`, run)

func init() {
	RootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolP("pid", "p", false, "Write down the process id to veriai.pid in the current working directory")
}

func run(cmd *cobra.Command, args []string) error {
	file, encoding := cli.ConfigFlags(cmd)
	if pid, _ := cmd.Flags().GetBool("pid"); pid {
		if err := writePID("veriai.pid"); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
	}

	conf := &server.Config{}
	if err := conf.Load(file, encoding); err != nil {
		return err
	}
	serv, err := server.NewVeriAIServer(conf)
	if err != nil {
		return err
	}

	// run the server until receiving an interrupt signal
	if err := serv.Run(conf.Addresses); err != nil {
		serv.Shutdown()
		return err
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	<-ch
	return serv.Shutdown()
}

func writePID(file string) error {
	pidf, err := os.OpenFile(file, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", file, err)
	}
	defer pidf.Close()
	if _, err := fmt.Fprint(pidf, os.Getpid()); err != nil {
		return fmt.Errorf("cannot write to pid file: %w", err)
	}
	return nil
}
