package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/veriai-sys/veriai-go/application/client"
	"github.com/veriai-sys/veriai-go/crypto/sign"
	"github.com/veriai-sys/veriai-go/protocol"
)

const help = "- register:\r\n" +
	"	Register the configured agent (and its public key) with the coordinator.\r\n" +
	"- initiate [agent_a] [agent_b] [type]:\r\n" +
	"	Open a verification session. type is reasoning, creativity or logic\r\n" +
	"	and is picked at random if omitted.\r\n" +
	"- submit [session_id] [response...]:\r\n" +
	"	Submit the configured agent's answer to a session's challenge.\r\n" +
	"- status [session_id]:\r\n" +
	"	Show a session's state and conversation log.\r\n" +
	"- sessions:\r\n" +
	"	List all sessions known to the coordinator.\r\n" +
	"- audit [session_id]:\r\n" +
	"	Show the audit record of a completed session.\r\n" +
	"- watch [session_id]:\r\n" +
	"	Follow a session until it completes.\r\n" +
	"- enable timestamp:\r\n" +
	"	Print timestamp of format <15:04:05.999999999> along with the result.\r\n" +
	"- disable timestamp:\r\n" +
	"	Disable timestamp printing.\r\n" +
	"- help:\r\n" +
	"	Display this message.\r\n" +
	"- exit, q:\r\n" +
	"	Close the REPL and exit the client."

// A shell executes REPL commands on behalf of the configured agent.
type shell struct {
	c          *client.Client
	agentID    string
	agentType  string
	key        sign.PrivateKey
	timestamps bool
}

func newShell(conf *client.Config) *shell {
	return &shell{
		c:         client.New(conf.Address),
		agentID:   conf.AgentID,
		agentType: conf.AgentType,
		key:       conf.SigningKey,
	}
}

// execute runs one command line. It returns the message to print and
// whether the REPL should stop. Intermediate output of long running
// commands goes to progress.
func (sh *shell) execute(ctx context.Context, line string,
	progress func(string)) (string, bool) {
	args := strings.Fields(line)
	if len(args) < 1 {
		return `[!] Type "help" for more information.`, false
	}

	switch cmd := args[0]; cmd {
	case "exit", "q":
		return "[+] See ya.", true
	case "help":
		return help, false
	case "enable", "disable":
		if len(args) != 2 || args[1] != "timestamp" {
			return "[!] Unrecognized command: " + line, false
		}
		sh.timestamps = cmd == "enable"
		return "", false
	case "register":
		return sh.register(ctx), false
	case "initiate":
		if len(args) != 3 && len(args) != 4 {
			return "[!] Incorrect number of args to initiate.", false
		}
		var kind string
		if len(args) == 4 {
			kind = args[3]
		}
		return sh.initiate(ctx, args[1], args[2], kind), false
	case "submit":
		if len(args) < 3 {
			return "[!] Incorrect number of args to submit.", false
		}
		return sh.submit(ctx, args[1], strings.Join(args[2:], " ")), false
	case "status", "audit", "watch":
		if len(args) != 2 {
			return "[!] Incorrect number of args to " + cmd + ".", false
		}
		switch cmd {
		case "status":
			return sh.status(ctx, args[1]), false
		case "audit":
			return sh.audit(ctx, args[1]), false
		}
		return sh.watch(ctx, args[1], progress), false
	case "sessions":
		return sh.sessions(ctx), false
	default:
		return "[!] Unrecognized command: " + cmd, false
	}
}

func (sh *shell) register(ctx context.Context) string {
	var pk string
	if sh.key != nil {
		if pub, ok := sh.key.Public(); ok {
			pk = pub.Encode()
		}
	}
	r, err := sh.c.RegisterAgent(ctx, sh.agentID, sh.agentType, pk)
	if err != nil {
		return "[!] " + err.Error()
	}
	return "[+] Agent " + r.AgentID + " " + r.Status
}

func (sh *shell) initiate(ctx context.Context, a, b, kind string) string {
	t, err := sh.c.Initiate(ctx, a, b, kind)
	if err != nil {
		return "[!] " + err.Error()
	}
	return fmt.Sprintf("[+] Session %s (%s)\r\n    %s: %s",
		t.SessionID, t.Status, t.Challenge.Kind, t.Challenge.Prompt)
}

func (sh *shell) submit(ctx context.Context, sid, text string) string {
	req := &protocol.SubmitRequest{
		SessionID: sid,
		AgentID:   sh.agentID,
		Response:  text,
	}
	if sh.key != nil {
		req.Signature = protocol.SignResponse(sh.key, sid, sh.agentID, text)
	}
	r, err := sh.c.Submit(ctx, req)
	if err != nil {
		return "[!] " + err.Error()
	}
	return "[+] Response recorded, session is " + string(r.SessionStatus)
}

func (sh *shell) status(ctx context.Context, sid string) string {
	v, err := sh.c.Status(ctx, sid)
	if err != nil {
		return "[!] " + err.Error()
	}
	return "[+] " + formatView(v)
}

func (sh *shell) sessions(ctx context.Context) string {
	vs, err := sh.c.Sessions(ctx)
	if err != nil {
		return "[!] " + err.Error()
	}
	if len(vs) == 0 {
		return "[+] No sessions"
	}
	lines := make([]string, len(vs))
	for i, v := range vs {
		lines[i] = fmt.Sprintf("    %s %s <-> %s: %s", v.SessionID, v.AgentA, v.AgentB, v.Status)
	}
	return "[+] Sessions:\r\n" + strings.Join(lines, "\r\n")
}

func (sh *shell) audit(ctx context.Context, sid string) string {
	r, err := sh.c.Audit(ctx, sid)
	if err != nil {
		return "[!] " + err.Error()
	}
	return fmt.Sprintf("[+] #%d %s %s hash=%x", r.Seq, r.SessionID, r.Status, r.Hash)
}

func (sh *shell) watch(ctx context.Context, sid string, progress func(string)) string {
	var last *protocol.SessionView
	err := sh.c.Watch(ctx, sid, func(v *protocol.SessionView) bool {
		last = v
		progress("[~] " + string(v.Status) + fmt.Sprintf(", %d response(s)", len(v.ConversationLog)))
		return true
	})
	if err != nil {
		return "[!] " + err.Error()
	}
	if last == nil {
		return "[!] No update received"
	}
	return "[+] " + formatView(last)
}

func formatView(v *protocol.SessionView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session %s: %s", v.SessionID, v.Status)
	if v.FailureReason != "" {
		fmt.Fprintf(&b, " (%s)", v.FailureReason)
	}
	if v.TrustToken != "" {
		fmt.Fprintf(&b, "\r\n    trust token: %s", v.TrustToken)
	}
	for _, e := range v.ConversationLog {
		fmt.Fprintf(&b, "\r\n    %s: %s", e.Agent, e.Message)
	}
	return b.String()
}
