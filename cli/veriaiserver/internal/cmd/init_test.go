package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/veriai-sys/veriai-go/application/server"
	"github.com/veriai-sys/veriai-go/protocol/auditlog"
)

func TestInitWritesLoadableConfig(t *testing.T) {
	for _, enc := range []string{"toml", "yaml"} {
		dir := t.TempDir()
		RootCmd.SetArgs([]string{"init", "--dir", dir, "--cert", "--encoding", enc})
		if err := RootCmd.Execute(); err != nil {
			t.Fatal(err)
		}
		for _, f := range []string{"server.pem", "server.key"} {
			if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
				t.Fatal(err)
			}
		}

		conf := &server.Config{}
		file := filepath.Join(dir, "config."+enc)
		if err := conf.Load(file, enc); err != nil {
			t.Fatal(err)
		}
		if len(conf.Addresses) != 1 || conf.Addresses[0].Address != "tcp://0.0.0.0:8000" {
			t.Fatal("Unexpected addresses", conf.Addresses)
		}
		if conf.Addresses[0].TLSCertPath != filepath.Join(dir, "server.pem") {
			t.Fatal("Expect an absolute cert path, got", conf.Addresses[0].TLSCertPath)
		}
		if conf.Audit.Backend != auditlog.BackendLevelDB ||
			conf.Audit.Path != filepath.Join(dir, "audit.db") {
			t.Fatal("Unexpected audit config", conf.Audit)
		}

		// init refuses to overwrite an existing configuration
		RootCmd.SetArgs([]string{"init", "--dir", dir, "--encoding", enc})
		if err := RootCmd.Execute(); err == nil {
			t.Fatal("Expect an error when the config exists")
		}
	}
}

func TestVerifyEmptyLog(t *testing.T) {
	dir := t.TempDir()
	RootCmd.SetArgs([]string{"init", "--dir", dir, "--encoding", "toml"})
	if err := RootCmd.Execute(); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	defer RootCmd.SetOut(nil)
	RootCmd.SetArgs([]string{"verify", "--config", filepath.Join(dir, "config.toml")})
	if err := RootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "0 audit record(s), chain intact") {
		t.Fatal("Unexpected output", out.String())
	}
}
