package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/veriai-sys/veriai-go/application/server"
	"github.com/veriai-sys/veriai-go/protocol/auditlog"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the hash chain of the server's audit log.",
	Long: `Verify the hash chain of the server's audit log.

The audit log is opened as configured in the server's configuration file.
Stop the server first when the log is kept in leveldb.`,
	Args: cobra.NoArgs,
	RunE: verify,
}

func init() {
	RootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringP("config", "c", "config.toml", "Path to the configuration file")
	verifyCmd.Flags().StringP("encoding", "e", "toml", "Encoding of the configuration file (toml or yaml)")
}

func verify(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("config")
	encoding, _ := cmd.Flags().GetString("encoding")
	conf := &server.Config{}
	if err := conf.Load(file, encoding); err != nil {
		return err
	}

	ctx := context.Background()
	l, err := auditlog.Open(ctx, conf.Audit)
	if err != nil {
		return err
	}
	defer l.Close()
	n, err := server.CheckAuditLog(ctx, l)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "[+] %d audit record(s), chain intact\n", n)
	return nil
}
