// Package agents implements scripted participants for demonstrating
// and exercising the verification protocol.
package agents

import (
	"context"

	"github.com/veriai-sys/veriai-go/application/client"
	"github.com/veriai-sys/veriai-go/crypto/sign"
	"github.com/veriai-sys/veriai-go/protocol"
)

// A Responder answers challenges.
type Responder interface {
	Respond(c *protocol.Challenge) string
}

// A Script is a Responder with one canned answer per challenge kind
// and a fallback for anything else.
type Script struct {
	Answers  map[protocol.ChallengeKind]string
	Fallback string
}

var _ Responder = (*Script)(nil)

// Respond implements the Responder interface.
func (s *Script) Respond(c *protocol.Challenge) string {
	if c != nil {
		if a, ok := s.Answers[c.Kind]; ok {
			return a
		}
	}
	return s.Fallback
}

// An Agent is a participant of verification sessions. Its answers are
// signed when it has a signing key.
type Agent struct {
	ID          string
	Type        string
	Personality string
	Responder   Responder
	SigningKey  sign.PrivateKey
}

// PublicKey returns the base64 encoded public key of the agent, or an
// empty string if it has no signing key.
func (a *Agent) PublicKey() string {
	if a.SigningKey == nil {
		return ""
	}
	pk, ok := a.SigningKey.Public()
	if !ok {
		return ""
	}
	return pk.Encode()
}

// Register announces the agent to the coordinator.
func (a *Agent) Register(ctx context.Context, c *client.Client) (*protocol.RegistrationReceipt, error) {
	return c.RegisterAgent(ctx, a.ID, a.Type, a.PublicKey())
}

// Answer builds the agent's submission for the challenge of the
// given session.
func (a *Agent) Answer(sessionID string, challenge *protocol.Challenge) *protocol.SubmitRequest {
	text := a.Responder.Respond(challenge)
	req := &protocol.SubmitRequest{
		SessionID: sessionID,
		AgentID:   a.ID,
		Response:  text,
	}
	if a.SigningKey != nil {
		req.Signature = protocol.SignResponse(a.SigningKey, sessionID, a.ID, text)
	}
	return req
}

// Participate answers the session's challenge and submits the answer.
// It returns the submitted request along with the coordinator's receipt.
func (a *Agent) Participate(ctx context.Context, c *client.Client, sessionID string,
	challenge *protocol.Challenge) (*protocol.SubmitRequest, *protocol.SubmissionReceipt, error) {
	req := a.Answer(sessionID, challenge)
	receipt, err := c.Submit(ctx, req)
	return req, receipt, err
}
