package cmd

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/veriai-sys/veriai-go/application"
	"github.com/veriai-sys/veriai-go/application/client"
	"github.com/veriai-sys/veriai-go/application/server"
	"github.com/veriai-sys/veriai-go/crypto"
	"github.com/veriai-sys/veriai-go/protocol/auditlog"
)

const logicAnswer = "The sequence doubles every step, so following the pattern " +
	"the missing number between 16 and 64 is 32."

func newTestShell(t *testing.T, agentID string, signed bool) (*shell, string) {
	t.Helper()
	dir := t.TempDir()
	conf := server.NewConfig(filepath.Join(dir, "config.toml"), "toml", nil,
		&application.LoggerConfig{Environment: "development"},
		server.NewPolicies(0, 0, 0, false),
		&auditlog.Config{Backend: auditlog.BackendJSONL, Path: filepath.Join(dir, "audit.jsonl")})
	srv, err := server.NewVeriAIServer(conf)
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Shutdown()
	})

	cc := client.NewConfig("", "toml", ts.URL, agentID, "")
	if signed {
		cc.SigningKey = crypto.NewStaticTestSigningKey()
	}
	return newShell(cc), ts.URL
}

func TestShellSession(t *testing.T) {
	sh, url := newTestShell(t, "agent_a", true)
	other := newShell(client.NewConfig("", "toml", url, "agent_b", ""))
	ctx := context.Background()
	noProgress := func(string) {}

	if msg, _ := sh.execute(ctx, "register", noProgress); !strings.Contains(msg, "agent_a registered") {
		t.Fatal("Unexpected register output", msg)
	}
	msg, _ := sh.execute(ctx, "initiate agent_a agent_b logic", noProgress)
	if !strings.HasPrefix(msg, "[+] Session ") || !strings.Contains(msg, "logic: ") {
		t.Fatal("Unexpected initiate output", msg)
	}
	sid := strings.Fields(msg)[2]

	if msg, _ := sh.execute(ctx, "submit "+sid+" "+logicAnswer, noProgress); !strings.HasSuffix(msg, "initiated") {
		t.Fatal("Unexpected submit output", msg)
	}
	if msg, _ := other.execute(ctx, "submit "+sid+" "+logicAnswer, noProgress); !strings.HasSuffix(msg, "verified") {
		t.Fatal("Unexpected submit output", msg)
	}

	if msg, _ := sh.execute(ctx, "status "+sid, noProgress); !strings.Contains(msg, "trust token") {
		t.Fatal("Expect a trust token", msg)
	}
	if msg, _ := sh.execute(ctx, "sessions", noProgress); !strings.Contains(msg, sid) {
		t.Fatal("Expect the session to be listed", msg)
	}
	if msg, _ := sh.execute(ctx, "audit "+sid, noProgress); !strings.HasPrefix(msg, "[+] #0 "+sid+" verified") {
		t.Fatal("Unexpected audit output", msg)
	}

	var updates []string
	msg, _ = sh.execute(ctx, "watch "+sid, func(u string) { updates = append(updates, u) })
	if !strings.Contains(msg, "verified") || len(updates) != 1 {
		t.Fatal("Unexpected watch output", msg, updates)
	}
}

func TestShellCommands(t *testing.T) {
	sh, _ := newTestShell(t, "agent_a", false)
	ctx := context.Background()
	noProgress := func(string) {}

	tests := []struct {
		line string
		want string
		quit bool
	}{
		{"", `[!] Type "help" for more information.`, false},
		{"frobnicate", "[!] Unrecognized command: frobnicate", false},
		{"initiate agent_a", "[!] Incorrect number of args to initiate.", false},
		{"submit s1", "[!] Incorrect number of args to submit.", false},
		{"status", "[!] Incorrect number of args to status.", false},
		{"status nope", "[!] 404: Session not found", false},
		{"sessions", "[+] No sessions", false},
		{"enable colors", "[!] Unrecognized command: enable colors", false},
		{"help", help, false},
		{"q", "[+] See ya.", true},
	}
	for _, tt := range tests {
		msg, quit := sh.execute(ctx, tt.line, noProgress)
		if msg != tt.want || quit != tt.quit {
			t.Errorf("%q: got (%q, %v), want (%q, %v)", tt.line, msg, quit, tt.want, tt.quit)
		}
	}

	sh.execute(ctx, "enable timestamp", noProgress)
	if !sh.timestamps {
		t.Fatal("Expect timestamps to be enabled")
	}
	sh.execute(ctx, "disable timestamp", noProgress)
	if sh.timestamps {
		t.Fatal("Expect timestamps to be disabled")
	}
}
