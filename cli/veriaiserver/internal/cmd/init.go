package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/veriai-sys/veriai-go/application"
	"github.com/veriai-sys/veriai-go/application/server"
	"github.com/veriai-sys/veriai-go/application/testutil"
	"github.com/veriai-sys/veriai-go/cli"
	"github.com/veriai-sys/veriai-go/protocol/auditlog"
)

var initCmd = cli.NewInitCommand("veriAI server", initRunFunc)

func init() {
	RootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolP("cert", "c", false, "Generate self-signed ssl keys/cert with sane defaults")
	initCmd.Flags().StringP("encoding", "e", "toml", "Encoding of the generated configuration file (toml or yaml)")
}

func initRunFunc(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	encoding, _ := cmd.Flags().GetString("encoding")
	cert, _ := cmd.Flags().GetBool("cert")

	if err := mkConfig(dir, encoding, cert); err != nil {
		return err
	}
	if cert {
		return testutil.CreateTLSCert(dir)
	}
	return nil
}

func mkConfig(dir, encoding string, withTLS bool) error {
	file := filepath.Join(dir, "config."+encoding)
	addr := &application.ServerAddress{
		Address: "tcp://0.0.0.0:8000",
	}
	if withTLS {
		addr.TLSCertPath = "server.pem"
		addr.TLSKeyPath = "server.key"
	}
	logger := &application.LoggerConfig{
		EnableStacktrace: true,
		Environment:      "development",
		Path:             "veriaiserver.log",
	}
	policies := server.NewPolicies(0, server.DefaultExpiryInterval, 0, false)
	audit := &auditlog.Config{
		Backend: auditlog.BackendLevelDB,
		Path:    "audit.db",
	}

	conf := server.NewConfig(file, encoding,
		[]*application.ServerAddress{addr}, logger, policies, audit)
	return conf.Save()
}
