package protocol

import "testing"

func TestErrorCodes(t *testing.T) {
	for _, e := range []ErrorCode{ErrMalformedMessage, ErrResponseTooLarge,
		ErrBadSignature, ErrPersistence, ErrInternal} {
		if !e.IsError() {
			t.Errorf("%d: expect IsError", e)
		}
	}
	for _, e := range []ErrorCode{ReqSuccess, ReqSessionNotFound,
		ReqInvalidState, ReqUnknownParticipant, ReqAgentNotRegistered} {
		if e.IsError() {
			t.Errorf("%d: expect a request result, not an error", e)
		}
	}
	if ErrorCode(9999).Error() != ErrInternal.Error() {
		t.Fatal("Unknown codes should report an internal error")
	}
}
