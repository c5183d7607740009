package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/veriai-sys/veriai-go/agents"
	"github.com/veriai-sys/veriai-go/application/client"
	"github.com/veriai-sys/veriai-go/protocol"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen)
	failure = color.New(color.FgRed)
	faint   = color.New(color.Faint)
)

const rule = "=================================================="

// A demo walks two agents through one verification session and
// narrates each step to out.
type demo struct {
	c   *client.Client
	out io.Writer
}

func (d *demo) run(ctx context.Context, a, b *agents.Agent, kind string) (*protocol.SessionView, error) {
	heading.Fprintln(d.out, "Starting veriAI demo")
	fmt.Fprintln(d.out, rule)

	heading.Fprintln(d.out, "\n1. Registering agents...")
	for _, ag := range []*agents.Agent{a, b} {
		r, err := ag.Register(ctx, d.c)
		if err != nil {
			failure.Fprintf(d.out, "   Failed to register %s: %v\n", ag.ID, err)
			return nil, err
		}
		fmt.Fprintf(d.out, "   %s (%s): %s\n", r.AgentID, ag.Personality, r.Status)
	}

	heading.Fprintln(d.out, "\n2. Initiating verification...")
	ticket, err := d.c.Initiate(ctx, a.ID, b.ID, kind)
	if err != nil {
		failure.Fprintf(d.out, "   Failed to initiate: %v\n", err)
		return nil, err
	}
	success.Fprintf(d.out, "   Session created: %s\n", ticket.SessionID)
	fmt.Fprintf(d.out, "   Challenge type: %s\n", ticket.Challenge.Kind)
	fmt.Fprintf(d.out, "   Question: %s\n", ticket.Challenge.Prompt)

	for i, ag := range []*agents.Agent{a, b} {
		heading.Fprintf(d.out, "\n%d. %s responding...\n", i+3, ag.ID)
		req, receipt, err := ag.Participate(ctx, d.c, ticket.SessionID, ticket.Challenge)
		if err != nil {
			failure.Fprintf(d.out, "   Submission failed: %v\n", err)
			return nil, err
		}
		fmt.Fprintf(d.out, "   Response: %s\n", truncate(req.Response, 100))
		fmt.Fprintf(d.out, "   Submission status: %s, session %s\n",
			receipt.Status, receipt.SessionStatus)
	}

	heading.Fprintln(d.out, "\n5. Checking verification result...")
	v, err := d.c.Status(ctx, ticket.SessionID)
	if err != nil {
		failure.Fprintf(d.out, "   Status check failed: %v\n", err)
		return nil, err
	}
	fmt.Fprintf(d.out, "   Final status: %s\n", v.Status)
	if v.Status == protocol.StatusVerified {
		success.Fprintln(d.out, "   VERIFICATION SUCCESSFUL!")
		fmt.Fprintf(d.out, "   Trust token: %s\n", v.TrustToken)
	} else {
		failure.Fprintln(d.out, "   VERIFICATION FAILED!")
	}

	heading.Fprintln(d.out, "\n6. Conversation log:")
	for _, e := range v.ConversationLog {
		fmt.Fprintf(d.out, "   %s: %s\n", e.Agent, truncate(e.Message, 80))
	}

	if rec, err := d.c.Audit(ctx, ticket.SessionID); err == nil {
		faint.Fprintf(d.out, "\n   audit record #%d hash %x\n", rec.Seq, rec.Hash)
	}

	fmt.Fprintln(d.out, "\n"+rule)
	heading.Fprintln(d.out, "Demo completed!")
	return v, nil
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
