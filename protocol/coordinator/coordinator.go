// This module implements the verification session coordinator.
// A coordinator owns every session of the challenge-response protocol:
// it hands out challenges, records each participant's answer, decides the
// terminal status once both agents have answered, issues trust tokens and
// flushes completed sessions to the audit log.

package coordinator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/veriai-sys/veriai-go/crypto/sign"
	"github.com/veriai-sys/veriai-go/protocol"
)

// An AuditWriter persists the audit record of a completed session.
// Append is called exactly once per session, after the session's lock
// has been released.
type AuditWriter interface {
	Append(ctx context.Context, r *protocol.AuditRecord) error
}

// A Coordinator maintains the table of verification sessions, the agent
// registry, and the coordinator's policies.
//
// Operations on different sessions proceed in parallel. Operations on the
// same session are serialized by a per-session lock held across the
// record-check-transition sequence, so a session transitions, and is
// audited, exactly once.
type Coordinator struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	order    []string

	agents    *Registry
	evaluator protocol.Evaluator
	audit     AuditWriter

	pmu      sync.RWMutex
	policies *protocol.Policies

	clock func() time.Time
	newID func() string
}

type entry struct {
	mu       sync.Mutex
	session  *protocol.Session
	watchers []*watcher
}

// New constructs a new Coordinator.
//
// policies may be nil, in which case protocol.DefaultPolicies() is used.
// evaluator scores responses; nil selects protocol.HeuristicEvaluator.
// audit receives the record of every completed session; nil discards
// the records.
func New(policies *protocol.Policies, evaluator protocol.Evaluator,
	audit AuditWriter) *Coordinator {
	if policies == nil {
		policies = protocol.DefaultPolicies()
	}
	if evaluator == nil {
		evaluator = protocol.HeuristicEvaluator{}
	}
	if audit == nil {
		audit = discard{}
	}
	return &Coordinator{
		sessions:  make(map[string]*entry),
		agents:    NewRegistry(),
		evaluator: evaluator,
		audit:     audit,
		policies:  policies,
		clock:     time.Now,
		newID:     uuid.NewString,
	}
}

// SetPolicies replaces the coordinator's policies. The new policies apply
// to requests received afterwards.
func (c *Coordinator) SetPolicies(p *protocol.Policies) {
	if p == nil {
		return
	}
	np := *p
	if np.MaxResponseLength <= 0 {
		np.MaxResponseLength = protocol.DefaultMaxResponseLength
	}
	c.pmu.Lock()
	c.policies = &np
	c.pmu.Unlock()
}

// Policies returns a copy of the coordinator's current policies.
func (c *Coordinator) Policies() protocol.Policies {
	c.pmu.RLock()
	defer c.pmu.RUnlock()
	return *c.policies
}

// Agents returns the coordinator's agent registry.
func (c *Coordinator) Agents() *Registry {
	return c.agents
}

// RegisterAgent adds the agent described in req to the registry, or
// replaces an earlier registration with the same id, and returns a
// tuple of the form (response, error).
// The response (which also includes the error code) is supposed to
// be sent back to the client. The returned error is used by the
// server for logging purposes.
//
// A request without an agent id, with an over-long id, or with a public
// key that is not a base64 encoded ed25519 key is considered malformed.
func (c *Coordinator) RegisterAgent(req *protocol.RegisterAgentRequest) (
	*protocol.Response, error) {
	if !validID(req.AgentID) || len(req.AgentType) > protocol.MaxIDLength {
		return protocol.NewErrorResponse(protocol.ErrMalformedMessage),
			protocol.ErrMalformedMessage
	}
	var pk sign.PublicKey
	if req.PublicKey != "" {
		var err error
		if pk, err = sign.ParsePublicKey(req.PublicKey); err != nil {
			return protocol.NewErrorResponse(protocol.ErrMalformedMessage),
				protocol.ErrMalformedMessage
		}
	}
	c.agents.Register(&protocol.Agent{
		ID:           req.AgentID,
		Type:         req.AgentType,
		PublicKey:    pk,
		RegisteredAt: c.clock(),
	})
	return protocol.NewRegistrationReceipt(req.AgentID)
}

// Initiate opens a new session between the two agents in req and
// returns a tuple of the form (response, error).
//
// The session gets a fresh random id and a challenge from the catalog:
// the one named by req.ChallengeType if it names a known kind, a
// uniformly random one otherwise. Agents do not need to be registered.
// A request with a missing or over-long agent id is considered malformed.
func (c *Coordinator) Initiate(req *protocol.InitiateRequest) (
	*protocol.Response, error) {
	if !validID(req.AgentA) || !validID(req.AgentB) {
		return protocol.NewErrorResponse(protocol.ErrMalformedMessage),
			protocol.ErrMalformedMessage
	}
	challenge, ok := protocol.ChallengeByKind(req.ChallengeType)
	if !ok {
		challenge = protocol.SelectChallenge()
	}
	s := protocol.NewSession(c.newID(), req.AgentA, req.AgentB,
		challenge, c.clock())
	res, code := protocol.NewSessionTicket(s)

	c.mu.Lock()
	c.sessions[s.ID] = &entry{session: s}
	c.order = append(c.order, s.ID)
	c.mu.Unlock()

	return res, code
}

// Submit records the answer in req for the participant req.AgentID and
// returns a tuple of the form (response, error).
//
// Submit() returns a ReqSessionNotFound error response if the session is
// unknown, ReqUnknownParticipant if the agent is neither of the session's
// two agents, and ReqInvalidState if the session already reached a
// terminal state. Oversized texts are rejected with ErrResponseTooLarge,
// bad signatures with ErrBadSignature (see checkSignature).
//
// Before the session completes, a resubmission replaces the agent's
// previous answer and supersedes its conversation log entry in place.
// Once both agents have answered, both answers are evaluated: the session
// becomes verified, with a trust token, iff both pass, and failed
// otherwise. The audit record of the completed session is appended after
// the session lock is released. If the append fails, the transition
// stands: the response still reports success and the returned error is
// ErrPersistence.
func (c *Coordinator) Submit(ctx context.Context, req *protocol.SubmitRequest) (
	*protocol.Response, error) {
	if len(req.SessionID) == 0 || !validID(req.AgentID) {
		return protocol.NewErrorResponse(protocol.ErrMalformedMessage),
			protocol.ErrMalformedMessage
	}
	policies := c.Policies()
	if len(req.Response) > policies.MaxResponseLength {
		return protocol.NewErrorResponse(protocol.ErrResponseTooLarge),
			protocol.ErrResponseTooLarge
	}

	e := c.lookup(req.SessionID)
	if e == nil {
		return protocol.NewErrorResponse(protocol.ReqSessionNotFound),
			protocol.ReqSessionNotFound
	}
	sig, code := c.checkSignature(req, &policies)
	if code != protocol.ReqSuccess {
		return protocol.NewErrorResponse(code), code
	}

	e.mu.Lock()
	s := e.session
	if !s.IsParticipant(req.AgentID) {
		e.mu.Unlock()
		return protocol.NewErrorResponse(protocol.ReqUnknownParticipant),
			protocol.ReqUnknownParticipant
	}
	if s.Status.IsTerminal() {
		e.mu.Unlock()
		return protocol.NewErrorResponse(protocol.ReqInvalidState),
			protocol.ReqInvalidState
	}

	now := c.clock()
	record(s, req.AgentID, req.Response, sig, now)

	var rec *protocol.AuditRecord
	var recErr error
	if s.HasBothResponses() {
		c.complete(s, now)
		rec, recErr = protocol.NewAuditRecord(s, now)
	}
	status := s.Status
	e.notify(s.View())
	e.mu.Unlock()

	res, code := protocol.NewSubmissionReceipt(status)
	if recErr != nil {
		return res, protocol.ErrPersistence
	}
	if rec != nil {
		if err := c.audit.Append(ctx, rec); err != nil {
			return res, protocol.ErrPersistence
		}
	}
	return res, code
}

// Status returns a snapshot of the session with the given id as a tuple
// of the form (response, error), or a ReqSessionNotFound error response
// if the session is unknown.
func (c *Coordinator) Status(sessionID string) (*protocol.Response, error) {
	e := c.lookup(sessionID)
	if e == nil {
		return protocol.NewErrorResponse(protocol.ReqSessionNotFound),
			protocol.ReqSessionNotFound
	}
	e.mu.Lock()
	v := e.session.View()
	e.mu.Unlock()
	return protocol.NewSessionStatus(v)
}

// Sessions returns snapshots of all sessions in creation order.
func (c *Coordinator) Sessions() []*protocol.SessionView {
	c.mu.RLock()
	entries := make([]*entry, 0, len(c.order))
	for _, id := range c.order {
		entries = append(entries, c.sessions[id])
	}
	c.mu.RUnlock()

	views := make([]*protocol.SessionView, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		views = append(views, e.session.View())
		e.mu.Unlock()
	}
	return views
}

// ExpireSessions force-fails every session that has stayed initiated for
// at least the policies' SessionTTL as of now, and appends an audit record
// for each of them. It returns the number of expired sessions. A zero
// SessionTTL disables expiry. Audit failures are joined into the returned
// error and do not undo the transitions.
func (c *Coordinator) ExpireSessions(ctx context.Context, now time.Time) (int, error) {
	ttl := c.Policies().SessionTTL.Duration()
	if ttl <= 0 {
		return 0, nil
	}

	c.mu.RLock()
	entries := make([]*entry, 0, len(c.sessions))
	for _, e := range c.sessions {
		entries = append(entries, e)
	}
	c.mu.RUnlock()

	var recs []*protocol.AuditRecord
	var errs []error
	expired := 0
	for _, e := range entries {
		e.mu.Lock()
		s := e.session
		if s.Status == protocol.StatusInitiated && now.Sub(s.CreatedAt) >= ttl {
			s.Status = protocol.StatusFailed
			s.FailureReason = protocol.ReasonExpired
			s.CompletedAt = now
			expired++
			rec, err := protocol.NewAuditRecord(s, now)
			if err != nil {
				errs = append(errs, err)
			} else {
				recs = append(recs, rec)
			}
			e.notify(s.View())
		}
		e.mu.Unlock()
	}

	for _, rec := range recs {
		if err := c.audit.Append(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return expired, errors.Join(append([]error{protocol.ErrPersistence}, errs...)...)
	}
	return expired, nil
}

func (c *Coordinator) lookup(sessionID string) *entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessions[sessionID]
}

// checkSignature verifies req's signature against the agent's registered
// key. Agents without a key cannot be checked, and their signatures are
// ignored unless the policies require signatures. Unsigned submissions
// are accepted unless the policies require signatures.
func (c *Coordinator) checkSignature(req *protocol.SubmitRequest,
	p *protocol.Policies) ([]byte, protocol.ErrorCode) {
	agent, ok := c.agents.Lookup(req.AgentID)
	hasKey := ok && len(agent.PublicKey) > 0

	if !hasKey {
		if p.RequireSignatures {
			return nil, protocol.ReqAgentNotRegistered
		}
		return nil, protocol.ReqSuccess
	}
	if req.Signature == "" {
		if p.RequireSignatures {
			return nil, protocol.ErrBadSignature
		}
		return nil, protocol.ReqSuccess
	}
	sig, err := protocol.DecodeSignature(req.Signature)
	if err != nil {
		return nil, protocol.ErrBadSignature
	}
	msg := protocol.SignedMessage(req.SessionID, req.AgentID, req.Response)
	if !agent.PublicKey.Verify(msg, sig) {
		return nil, protocol.ErrBadSignature
	}
	return sig, protocol.ReqSuccess
}

// complete evaluates both answers of s and moves it to its terminal state.
// Both agents must pass for the session to be verified.
func (c *Coordinator) complete(s *protocol.Session, now time.Time) {
	passA := c.evaluator.Evaluate(s.Challenge, s.Responses[s.AgentA].Text)
	passB := c.evaluator.Evaluate(s.Challenge, s.Responses[s.AgentB].Text)
	if passA && passB {
		s.Status = protocol.StatusVerified
		s.TrustToken = protocol.IssueTrustToken(s.ID, s.AgentA, s.AgentB)
	} else {
		s.Status = protocol.StatusFailed
		s.FailureReason = protocol.ReasonRejected
	}
	s.CompletedAt = now
}

// record stores agentID's answer in s. The conversation log keeps one
// entry per agent: a resubmission overwrites the agent's entry in place
// and bumps its revision.
func record(s *protocol.Session, agentID, text string, sig []byte, now time.Time) {
	_, resubmission := s.Responses[agentID]
	s.Responses[agentID] = &protocol.Submission{
		AgentID:   agentID,
		Text:      text,
		Signature: sig,
		Timestamp: now,
	}
	if resubmission {
		for _, le := range s.ConversationLog {
			if le.Agent == agentID {
				le.Message = text
				le.Timestamp = now
				le.Revision++
				return
			}
		}
	}
	s.ConversationLog = append(s.ConversationLog, &protocol.LogEntry{
		Agent:     agentID,
		Message:   text,
		Timestamp: now,
	})
}

func validID(id string) bool {
	return len(id) > 0 && len(id) <= protocol.MaxIDLength
}

type discard struct{}

func (discard) Append(context.Context, *protocol.AuditRecord) error { return nil }
