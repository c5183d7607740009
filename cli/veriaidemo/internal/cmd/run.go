package cmd

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/veriai-sys/veriai-go/agents"
	"github.com/veriai-sys/veriai-go/application/client"
	"github.com/veriai-sys/veriai-go/crypto/sign"
)

// The demo talks to a coordinator directly and takes no config file, so
// it does not use cli.NewRunCommand.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scripted demo against a veriAI coordinator.",
	Long: `Run the scripted demo against a veriAI coordinator.

Start a coordinator first (veriaiserver run), then point the demo at it
with --address.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	RootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("address", "a", "http://localhost:8000", "Base URL of the coordinator")
	runCmd.Flags().StringP("challenge", "t", "behavioral", "Challenge type to request (reasoning, creativity or logic; anything else picks one at random)")
	runCmd.Flags().BoolP("sign", "s", false, "Give both agents a fresh signing key and sign their answers")
	runCmd.Flags().Duration("timeout", 30*time.Second, "Overall time limit of the demo")
}

func run(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("address")
	kind, _ := cmd.Flags().GetString("challenge")
	signed, _ := cmd.Flags().GetBool("sign")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	a := agents.NewAnalytical("agent_a")
	b := agents.NewCreative("agent_b")
	if signed {
		for _, ag := range []*agents.Agent{a, b} {
			sk, err := sign.GenerateKey(nil)
			if err != nil {
				return err
			}
			ag.SigningKey = sk
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	d := &demo{
		c:   client.New(addr),
		out: cmd.OutOrStdout(),
	}
	_, err := d.run(ctx, a, b, kind)
	return err
}
