package protocol

import "time"

// Timestamp is a duration expressed in seconds, as written in
// configuration files.
type Timestamp uint64

// Duration converts t to a time.Duration.
func (t Timestamp) Duration() time.Duration {
	return time.Duration(t) * time.Second
}

// DefaultMaxResponseLength caps the size of a response text in bytes
// when the policies leave it unset.
const DefaultMaxResponseLength = 8192

// Policies are the coordinator's tunable rules.
//
// SessionTTL force-fails sessions that stay initiated for longer than
// the given number of seconds; zero disables expiry.
// MaxResponseLength caps response texts in bytes.
// RequireSignatures rejects submissions that do not carry a valid
// signature from the agent's registered key.
type Policies struct {
	SessionTTL        Timestamp
	MaxResponseLength int
	RequireSignatures bool
}

// NewPolicies returns a new Policies, filling MaxResponseLength with
// DefaultMaxResponseLength if maxLen is not positive.
func NewPolicies(ttl Timestamp, maxLen int, requireSignatures bool) *Policies {
	if maxLen <= 0 {
		maxLen = DefaultMaxResponseLength
	}
	return &Policies{
		SessionTTL:        ttl,
		MaxResponseLength: maxLen,
		RequireSignatures: requireSignatures,
	}
}

// DefaultPolicies keep the original behavior: no expiry, unsigned
// submissions accepted.
func DefaultPolicies() *Policies {
	return NewPolicies(0, DefaultMaxResponseLength, false)
}
