// Defines the message format of the verification protocol
// and constructors for the response messages.

package protocol

import "time"

// Limits on participant supplied identifiers.
const (
	MaxIDLength = 256
)

// A RegisterAgentRequest announces an agent to the coordinator.
// PublicKey is an optional base64 encoded ed25519 key; when present,
// the agent's submissions can be signature checked.
type RegisterAgentRequest struct {
	AgentID   string `json:"agent_id"`
	AgentType string `json:"agent_type"`
	PublicKey string `json:"public_key,omitempty"`
}

// An InitiateRequest asks the coordinator to open a session between
// two agents. ChallengeType optionally names a challenge kind; unknown
// values (including the legacy "behavioral") select one at random.
type InitiateRequest struct {
	AgentA        string `json:"agent_a_id"`
	AgentB        string `json:"agent_b_id"`
	ChallengeType string `json:"challenge_type,omitempty"`
}

// A SubmitRequest carries one participant's answer to a session's
// challenge. Signature is an optional base64 encoded ed25519 signature
// over SignedMessage(SessionID, AgentID, Response).
type SubmitRequest struct {
	SessionID string `json:"session_id"`
	AgentID   string `json:"agent_id"`
	Response  string `json:"response"`
	Signature string `json:"signature,omitempty"`
}

// A Response message indicates the result of a request with an
// appropriate error code, and carries the payload for successful
// requests.
type Response struct {
	Error   ErrorCode
	Message Message `json:",omitempty"`
}

// A Message is the payload of a successful Response.
type Message interface{}

// A RegistrationReceipt acknowledges an agent registration.
type RegistrationReceipt struct {
	Status  string `json:"status"`
	AgentID string `json:"agent_id"`
}

// A SessionTicket is returned when a session is initiated.
type SessionTicket struct {
	SessionID string        `json:"session_id"`
	Challenge *Challenge    `json:"challenge"`
	Status    SessionStatus `json:"status"`
}

// A SubmissionReceipt acknowledges a recorded response and reports
// the session's status after it was processed.
type SubmissionReceipt struct {
	Status        string        `json:"status"`
	SessionStatus SessionStatus `json:"session_status"`
}

// A SessionView is a read-only snapshot of a session.
type SessionView struct {
	SessionID       string        `json:"session_id"`
	Status          SessionStatus `json:"status"`
	ConversationLog []*LogEntry   `json:"conversation_log"`
	TrustToken      string        `json:"trust_token,omitempty"`
	AgentA          string        `json:"agent_a"`
	AgentB          string        `json:"agent_b"`
	Challenge       *Challenge    `json:"challenge,omitempty"`
	FailureReason   string        `json:"failure_reason,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
}

// Receipt status strings, kept from the original HTTP API.
const (
	StatusRegistered       = "registered"
	StatusResponseRecorded = "response_recorded"
)

var _ Message = (*RegistrationReceipt)(nil)
var _ Message = (*SessionTicket)(nil)
var _ Message = (*SubmissionReceipt)(nil)
var _ Message = (*SessionView)(nil)

// NewErrorResponse creates a new response message indicating the error
// that occurred while the coordinator was processing a request.
func NewErrorResponse(e ErrorCode) *Response {
	return &Response{Error: e}
}

// NewRegistrationReceipt creates the response to a successful
// agent registration. It returns a (response, ReqSuccess) tuple.
func NewRegistrationReceipt(agentID string) (*Response, ErrorCode) {
	return &Response{
		Error: ReqSuccess,
		Message: &RegistrationReceipt{
			Status:  StatusRegistered,
			AgentID: agentID,
		},
	}, ReqSuccess
}

// NewSessionTicket creates the response to a successful session
// initiation. It returns a (response, ReqSuccess) tuple.
func NewSessionTicket(s *Session) (*Response, ErrorCode) {
	return &Response{
		Error: ReqSuccess,
		Message: &SessionTicket{
			SessionID: s.ID,
			Challenge: s.Challenge.Clone(),
			Status:    s.Status,
		},
	}, ReqSuccess
}

// NewSubmissionReceipt creates the response to a recorded submission.
// It returns a (response, ReqSuccess) tuple.
func NewSubmissionReceipt(status SessionStatus) (*Response, ErrorCode) {
	return &Response{
		Error: ReqSuccess,
		Message: &SubmissionReceipt{
			Status:        StatusResponseRecorded,
			SessionStatus: status,
		},
	}, ReqSuccess
}

// NewSessionStatus creates the response to a status request.
// It returns a (response, ReqSuccess) tuple.
func NewSessionStatus(v *SessionView) (*Response, ErrorCode) {
	return &Response{
		Error:   ReqSuccess,
		Message: v,
	}, ReqSuccess
}

// GetSessionView returns the session snapshot carried by res, if any.
func (res *Response) GetSessionView() (*SessionView, bool) {
	v, ok := res.Message.(*SessionView)
	return v, ok
}
