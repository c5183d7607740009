package protocol

import (
	"encoding/base64"

	"github.com/veriai-sys/veriai-go/crypto"
	"github.com/veriai-sys/veriai-go/crypto/sign"
	"github.com/veriai-sys/veriai-go/utils"
)

var signatureDomain = []byte("veriai/submit-response/v1")

// SignedMessage returns the bytes an agent signs when submitting text
// to a session. Each field is length-prefixed, so no two distinct
// (session, agent, text) triples share a message.
func SignedMessage(sessionID, agentID, text string) []byte {
	b := append([]byte(nil), signatureDomain...)
	for _, f := range []string{sessionID, agentID, text} {
		b = append(b, utils.ULongToBytes(uint64(len(f)))...)
		b = append(b, f...)
	}
	return crypto.Digest(b)
}

// SignResponse signs a submission with key and returns the base64
// encoded signature expected in SubmitRequest.Signature.
func SignResponse(key sign.PrivateKey, sessionID, agentID, text string) string {
	sig := key.Sign(SignedMessage(sessionID, agentID, text))
	return base64.StdEncoding.EncodeToString(sig)
}

// DecodeSignature decodes a base64 signature. It returns
// ErrBadSignature if the encoding or length is wrong.
func DecodeSignature(s string) ([]byte, error) {
	sig, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(sig) != sign.SignatureSize {
		return nil, ErrBadSignature
	}
	return sig, nil
}
