package server

import "github.com/veriai-sys/veriai-go/protocol"

// DefaultExpiryInterval is how often, in seconds, the server looks for
// expired sessions when the policies leave it unset.
const DefaultExpiryInterval protocol.Timestamp = 10

// Policies contains the coordinator's policies configuration:
// the session time-to-live and the interval at which expired sessions
// are collected (both in seconds), the maximum response length in bytes
// and whether submissions must be signed.
type Policies struct {
	SessionTTL        protocol.Timestamp `toml:"session_ttl" yaml:"session_ttl"`
	ExpiryInterval    protocol.Timestamp `toml:"expiry_interval,omitempty" yaml:"expiry_interval,omitempty"`
	MaxResponseLength int                `toml:"max_response_length,omitempty" yaml:"max_response_length,omitempty"`
	RequireSignatures bool               `toml:"require_signatures,omitempty" yaml:"require_signatures,omitempty"`
}

// NewPolicies initializes a new Policies struct.
func NewPolicies(ttl, expiryInterval protocol.Timestamp, maxResponseLength int,
	requireSignatures bool) *Policies {
	return &Policies{
		SessionTTL:        ttl,
		ExpiryInterval:    expiryInterval,
		MaxResponseLength: maxResponseLength,
		RequireSignatures: requireSignatures,
	}
}

// Protocol converts p to the coordinator's protocol.Policies.
func (p *Policies) Protocol() *protocol.Policies {
	return protocol.NewPolicies(p.SessionTTL, p.MaxResponseLength, p.RequireSignatures)
}

func (p *Policies) expiryInterval() protocol.Timestamp {
	if p.ExpiryInterval == 0 {
		return DefaultExpiryInterval
	}
	return p.ExpiryInterval
}
