package protocol

import (
	"crypto/sha256"
	"encoding/hex"
)

// TrustTokenLength is the number of hex characters in a trust token.
const TrustTokenLength = 16

// IssueTrustToken derives the trust token of a verified session:
// the first TrustTokenLength hex characters of
// SHA-256(sessionID || agentA || agentB).
// The same triple always yields the same token.
func IssueTrustToken(sessionID, agentA, agentB string) string {
	sum := sha256.Sum256([]byte(sessionID + agentA + agentB))
	return hex.EncodeToString(sum[:])[:TrustTokenLength]
}
