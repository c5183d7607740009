// Defines constants representing the types
// of errors that the coordinator may return to a participant.

package protocol

// An ErrorCode represents the result of a request handled by the
// verification coordinator. It implements the error interface so a
// code can be returned as a Go error for logging purposes.
type ErrorCode int

// Request results that are sent back to the client.
// ReqSuccess is not an error; the other Req* codes report a
// well-formed request that cannot be served.
const (
	ReqSuccess ErrorCode = iota + 100
	ReqSessionNotFound
	ReqInvalidState
	ReqUnknownParticipant
	ReqAgentNotRegistered
)

// Errors caused by malformed requests or by internal failures.
const (
	ErrMalformedMessage ErrorCode = iota + 200
	ErrResponseTooLarge
	ErrBadSignature
	ErrPersistence
	ErrInternal
)

var (
	failures = map[ErrorCode]bool{
		ErrMalformedMessage: true,
		ErrResponseTooLarge: true,
		ErrBadSignature:     true,
		ErrPersistence:      true,
		ErrInternal:         true,
	}

	errorMessages = map[ErrorCode]string{
		ReqSuccess:            "[veriai] Successful request",
		ReqSessionNotFound:    "[veriai] Session not found",
		ReqInvalidState:       "[veriai] Session already reached a terminal state",
		ReqUnknownParticipant: "[veriai] Agent is not a participant of this session",
		ReqAgentNotRegistered: "[veriai] Agent has no registered public key",

		ErrMalformedMessage: "[veriai] Malformed message",
		ErrResponseTooLarge: "[veriai] Response text exceeds the allowed length",
		ErrBadSignature:     "[veriai] Invalid response signature",
		ErrPersistence:      "[veriai] Audit log write failed",
		ErrInternal:         "[veriai] Internal error",
	}
)

// Error returns the error message corresponding to the error code e.
func (e ErrorCode) Error() string {
	if msg, ok := errorMessages[e]; ok {
		return msg
	}
	return errorMessages[ErrInternal]
}

// IsError reports whether e is caused by a malformed request or an
// internal failure, rather than being a regular request result.
func (e ErrorCode) IsError() bool {
	return failures[e]
}
