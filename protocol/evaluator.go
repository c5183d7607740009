package protocol

import "strings"

// Thresholds of the heuristic acceptance rule.
const (
	MinPatternMatches = 2
	MinWordCount      = 10
)

// An Evaluator decides whether a response text is an acceptable
// answer to a challenge. Implementations must be deterministic and
// free of side effects.
type Evaluator interface {
	Evaluate(c *Challenge, text string) bool
}

// HeuristicEvaluator accepts a response iff it contains at least
// MinPatternMatches of the challenge's patterns as case-insensitive
// substrings and has more than MinWordCount whitespace-delimited words.
type HeuristicEvaluator struct{}

var _ Evaluator = HeuristicEvaluator{}

// Evaluate implements the Evaluator interface.
func (HeuristicEvaluator) Evaluate(c *Challenge, text string) bool {
	if c == nil {
		return false
	}
	return MatchCount(c, text) >= MinPatternMatches &&
		len(strings.Fields(text)) > MinWordCount
}

// MatchCount returns how many of c's accepted patterns occur in text,
// ignoring case.
func MatchCount(c *Challenge, text string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, p := range c.AcceptedPatterns {
		if strings.Contains(lower, strings.ToLower(p)) {
			n++
		}
	}
	return n
}
