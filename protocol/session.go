// Defines the session data model of the verification protocol
// and the audit record persisted when a session completes.

package protocol

import (
	"encoding/json"
	"time"

	"github.com/veriai-sys/veriai-go/crypto/sign"
	"github.com/veriai-sys/veriai-go/utils"
)

// A SessionStatus is the lifecycle state of a verification session.
type SessionStatus string

// Session states. StatusVerified and StatusFailed are terminal.
const (
	StatusInitiated SessionStatus = "initiated"
	StatusVerified  SessionStatus = "verified"
	StatusFailed    SessionStatus = "failed"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s SessionStatus) IsTerminal() bool {
	return s == StatusVerified || s == StatusFailed
}

// Reasons recorded when a session fails.
const (
	ReasonRejected = "rejected"
	ReasonExpired  = "expired"
)

// An Agent is a participant known to the coordinator's registry.
// PublicKey is nil for agents that registered without a key.
type Agent struct {
	ID           string
	Type         string
	PublicKey    sign.PublicKey
	RegisteredAt time.Time
}

// A Submission is the latest answer a participant submitted
// to a session.
type Submission struct {
	AgentID   string
	Text      string
	Signature []byte
	Timestamp time.Time
}

// A LogEntry is one participant's message in a session's
// conversation log. Revision counts how many times the participant
// resubmitted before the session completed.
type LogEntry struct {
	Agent     string    `json:"agent"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Revision  int       `json:"revision,omitempty"`
}

// A Session is one instance of the two-participant challenge-response
// protocol. Sessions are owned and mutated by a coordinator only;
// everything else sees a SessionView.
type Session struct {
	ID              string
	AgentA          string
	AgentB          string
	Challenge       *Challenge
	Status          SessionStatus
	Responses       map[string]*Submission
	ConversationLog []*LogEntry
	TrustToken      string
	FailureReason   string
	CreatedAt       time.Time
	CompletedAt     time.Time
}

// NewSession creates a session in the initiated state.
func NewSession(id, agentA, agentB string, c *Challenge, now time.Time) *Session {
	return &Session{
		ID:        id,
		AgentA:    agentA,
		AgentB:    agentB,
		Challenge: c,
		Status:    StatusInitiated,
		Responses: make(map[string]*Submission, 2),
		CreatedAt: now,
	}
}

// IsParticipant reports whether agentID is one of the session's two agents.
func (s *Session) IsParticipant(agentID string) bool {
	return agentID == s.AgentA || agentID == s.AgentB
}

// HasBothResponses reports whether both agent A and agent B have
// a recorded response. A session whose two agent ids coincide never
// has both.
func (s *Session) HasBothResponses() bool {
	if s.AgentA == s.AgentB {
		return false
	}
	_, a := s.Responses[s.AgentA]
	_, b := s.Responses[s.AgentB]
	return a && b
}

// View returns a copy of the session that is safe to hand out.
func (s *Session) View() *SessionView {
	log := make([]*LogEntry, len(s.ConversationLog))
	for i, e := range s.ConversationLog {
		entry := *e
		log[i] = &entry
	}
	v := &SessionView{
		SessionID:       s.ID,
		Status:          s.Status,
		ConversationLog: log,
		TrustToken:      s.TrustToken,
		AgentA:          s.AgentA,
		AgentB:          s.AgentB,
		Challenge:       s.Challenge.Clone(),
		FailureReason:   s.FailureReason,
		CreatedAt:       s.CreatedAt,
	}
	if !s.CompletedAt.IsZero() {
		t := s.CompletedAt
		v.CompletedAt = &t
	}
	return v
}

// An AuditRecord is the immutable summary of a completed session.
// Seq, PrevHash and Hash are assigned by the audit log when the record
// is appended; Hash chains every record to its predecessor.
type AuditRecord struct {
	Seq             uint64        `json:"seq"`
	SessionID       string        `json:"session_id"`
	AgentA          string        `json:"agent_a"`
	AgentB          string        `json:"agent_b"`
	Status          SessionStatus `json:"status"`
	Reason          string        `json:"reason,omitempty"`
	ConversationLog string        `json:"conversation_log"`
	Timestamp       time.Time     `json:"timestamp"`
	PrevHash        []byte        `json:"prev_hash"`
	Hash            []byte        `json:"hash"`
}

// NewAuditRecord builds the audit record of the terminal session s.
// The conversation log is serialized as JSON text.
func NewAuditRecord(s *Session, now time.Time) (*AuditRecord, error) {
	log := s.ConversationLog
	if log == nil {
		log = []*LogEntry{}
	}
	logJSON, err := json.Marshal(log)
	if err != nil {
		return nil, err
	}
	return &AuditRecord{
		SessionID:       s.ID,
		AgentA:          s.AgentA,
		AgentB:          s.AgentB,
		Status:          s.Status,
		Reason:          s.FailureReason,
		ConversationLog: string(logJSON),
		Timestamp:       now.UTC().Truncate(time.Microsecond),
	}, nil
}

// Serialize encodes every field of the record except Hash, in a fixed
// order with length prefixes. The audit log hashes this encoding.
func (r *AuditRecord) Serialize() []byte {
	var b []byte
	b = append(b, utils.ULongToBytes(r.Seq)...)
	for _, f := range []string{r.SessionID, r.AgentA, r.AgentB,
		string(r.Status), r.Reason, r.ConversationLog} {
		b = append(b, utils.ULongToBytes(uint64(len(f)))...)
		b = append(b, f...)
	}
	b = append(b, utils.ULongToBytes(uint64(r.Timestamp.UnixMicro()))...)
	b = append(b, r.PrevHash...)
	return b
}
