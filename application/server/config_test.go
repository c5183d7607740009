package server

import (
	"path/filepath"
	"testing"

	"github.com/veriai-sys/veriai-go/application"
	"github.com/veriai-sys/veriai-go/protocol/auditlog"
)

func TestConfigLoadDefaults(t *testing.T) {
	for _, encoding := range []string{"toml", "yaml"} {
		dir := t.TempDir()
		file := filepath.Join(dir, "config."+encoding)
		conf := NewConfig(file, encoding,
			[]*application.ServerAddress{{Address: "tcp://127.0.0.1:8000", TLSCertPath: "server.pem",
				TLSKeyPath: "server.key"}},
			&application.LoggerConfig{Environment: "production", Path: "veriai.log"},
			NewPolicies(300, 5, 1024, true),
			nil)
		conf.CORS = nil
		if err := conf.Save(); err != nil {
			t.Fatal(encoding, err)
		}

		loaded := new(Config)
		if err := loaded.Load(file, encoding); err != nil {
			t.Fatal(encoding, err)
		}
		if p := loaded.Policies; p.SessionTTL != 300 || p.ExpiryInterval != 5 ||
			p.MaxResponseLength != 1024 || !p.RequireSignatures {
			t.Fatalf("%s: unexpected policies %+v", encoding, p)
		}
		if len(loaded.Addresses) != 1 ||
			loaded.Addresses[0].TLSCertPath != filepath.Join(dir, "server.pem") {
			t.Fatalf("%s: expect resolved TLS paths, got %+v", encoding, loaded.Addresses)
		}
		if loaded.Logger.Path != filepath.Join(dir, "veriai.log") {
			t.Fatal(encoding, "expect a resolved log path, got", loaded.Logger.Path)
		}
		if loaded.Audit.Backend != auditlog.BackendLevelDB ||
			loaded.Audit.Path != filepath.Join(dir, "audit.db") {
			t.Fatalf("%s: unexpected audit config %+v", encoding, loaded.Audit)
		}
		if len(loaded.CORS.AllowedOrigins) != len(DefaultAllowedOrigins) {
			t.Fatal(encoding, "expect the default origins")
		}
	}
}

func TestPoliciesDefaults(t *testing.T) {
	p := new(Policies)
	if p.expiryInterval() != DefaultExpiryInterval {
		t.Fatal("Expect the default expiry interval")
	}
	if pp := p.Protocol(); pp.MaxResponseLength <= 0 || pp.SessionTTL != 0 || pp.RequireSignatures {
		t.Fatal("Unexpected protocol policies", pp)
	}
}
