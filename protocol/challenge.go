package protocol

import (
	"math/rand/v2"
	"strings"
)

// A ChallengeKind names the family a challenge template belongs to.
type ChallengeKind string

// The challenge kinds in the catalog.
const (
	ReasoningChallenge  ChallengeKind = "reasoning"
	CreativityChallenge ChallengeKind = "creativity"
	LogicChallenge      ChallengeKind = "logic"
)

// A Challenge is a prompt handed to both participants of a session,
// together with the patterns their answers are scored against.
// Challenges are immutable once selected.
type Challenge struct {
	Kind             ChallengeKind `json:"type"`
	Prompt           string        `json:"question"`
	AcceptedPatterns []string      `json:"expected_pattern"`
}

var catalog = []*Challenge{
	{
		Kind:             ReasoningChallenge,
		Prompt:           "If you have 3 apples and give away 2, then buy 5 more, how many do you have? Explain your reasoning step by step.",
		AcceptedPatterns: []string{"step", "reasoning", "calculation"},
	},
	{
		Kind:             CreativityChallenge,
		Prompt:           "Write a haiku about artificial intelligence in exactly 3 lines with 5-7-5 syllable pattern.",
		AcceptedPatterns: []string{"haiku", "syllable", "ai", "artificial"},
	},
	{
		Kind:             LogicChallenge,
		Prompt:           "Complete this logical sequence: 2, 4, 8, 16, ?, 64. Explain the pattern.",
		AcceptedPatterns: []string{"pattern", "double", "32", "sequence"},
	},
}

// SelectChallenge returns one of the catalog's challenges,
// chosen uniformly at random.
func SelectChallenge() *Challenge {
	return catalog[rand.IntN(len(catalog))]
}

// ChallengeByKind looks up the catalog's challenge of the given kind.
// The lookup is case-insensitive.
func ChallengeByKind(kind string) (*Challenge, bool) {
	k := ChallengeKind(strings.ToLower(strings.TrimSpace(kind)))
	for _, c := range catalog {
		if c.Kind == k {
			return c, true
		}
	}
	return nil, false
}

// Challenges returns the catalog's challenges in a fixed order.
func Challenges() []*Challenge {
	out := make([]*Challenge, len(catalog))
	copy(out, catalog)
	return out
}

// Clone returns a deep copy of c, safe to hand out to callers.
func (c *Challenge) Clone() *Challenge {
	if c == nil {
		return nil
	}
	patterns := make([]string, len(c.AcceptedPatterns))
	copy(patterns, c.AcceptedPatterns)
	return &Challenge{
		Kind:             c.Kind,
		Prompt:           c.Prompt,
		AcceptedPatterns: patterns,
	}
}
