// Package client implements a client of the veriAI coordinator API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/veriai-sys/veriai-go/application"
	"github.com/veriai-sys/veriai-go/protocol"
)

// A Client sends requests to a coordinator at Base.
type Client struct {
	Base string
	HTTP *http.Client
}

// New returns a Client for the coordinator at base, e.g.
// "http://localhost:8000".
func New(base string) *Client {
	return &Client{Base: strings.TrimRight(base, "/"), HTTP: http.DefaultClient}
}

// RegisterAgent registers an agent. publicKey is the base64 encoded
// ed25519 key, or empty.
func (c *Client) RegisterAgent(ctx context.Context, agentID, agentType,
	publicKey string) (*protocol.RegistrationReceipt, error) {
	out := new(protocol.RegistrationReceipt)
	err := c.post(ctx, "/register-agent", &protocol.RegisterAgentRequest{
		AgentID:   agentID,
		AgentType: agentType,
		PublicKey: publicKey,
	}, out)
	return out, err
}

// Initiate opens a session between agentA and agentB. An empty
// challengeType lets the coordinator pick the challenge.
func (c *Client) Initiate(ctx context.Context, agentA, agentB,
	challengeType string) (*protocol.SessionTicket, error) {
	out := new(protocol.SessionTicket)
	err := c.post(ctx, "/initiate-verification", &protocol.InitiateRequest{
		AgentA:        agentA,
		AgentB:        agentB,
		ChallengeType: challengeType,
	}, out)
	return out, err
}

// Submit sends req, which may carry a signature made with
// protocol.SignResponse.
func (c *Client) Submit(ctx context.Context, req *protocol.SubmitRequest) (
	*protocol.SubmissionReceipt, error) {
	out := new(protocol.SubmissionReceipt)
	err := c.post(ctx, "/submit-response", req, out)
	return out, err
}

// Status fetches a snapshot of the session.
func (c *Client) Status(ctx context.Context, sessionID string) (*protocol.SessionView, error) {
	out := new(protocol.SessionView)
	err := c.getJSON(ctx, "/verification-status/"+url.PathEscape(sessionID), out)
	return out, err
}

// Sessions lists every session known to the coordinator.
func (c *Client) Sessions(ctx context.Context) ([]*protocol.SessionView, error) {
	var out []*protocol.SessionView
	err := c.getJSON(ctx, "/sessions", &out)
	return out, err
}

// Audit fetches the audit record of a completed session.
func (c *Client) Audit(ctx context.Context, sessionID string) (*protocol.AuditRecord, error) {
	out := new(protocol.AuditRecord)
	err := c.getJSON(ctx, "/audit/"+url.PathEscape(sessionID), out)
	return out, err
}

// Watch streams the session's snapshots to f until the session is
// terminal, ctx is done, or f returns false.
func (c *Client) Watch(ctx context.Context, sessionID string,
	f func(*protocol.SessionView) bool) error {
	u := "ws" + strings.TrimPrefix(c.Base, "http") +
		"/ws/verification-status/" + url.PathEscape(sessionID)
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		if resp != nil && resp.StatusCode/100 != 2 {
			return application.ReadError(resp)
		}
		return err
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()
	for {
		v := new(protocol.SessionView)
		if err := conn.ReadJSON(v); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if !f(v) {
			return nil
		}
	}
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return application.ReadError(resp)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
