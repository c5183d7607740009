package agents

import "github.com/veriai-sys/veriai-go/protocol"

// NewAnalytical returns the analytical demo agent.
func NewAnalytical(id string) *Agent {
	return &Agent{
		ID:          id,
		Type:        "reasoning_ai",
		Personality: "analytical",
		Responder:   analytical,
	}
}

// NewCreative returns the creative demo agent.
func NewCreative(id string) *Agent {
	return &Agent{
		ID:          id,
		Type:        "creative_ai",
		Personality: "creative",
		Responder:   creative,
	}
}

var analytical = &Script{
	Answers: map[protocol.ChallengeKind]string{
		protocol.ReasoningChallenge: `Let me break this down step by step:
1. Starting with 3 apples
2. Give away 2 apples: 3 - 2 = 1 apple remaining
3. Buy 5 more apples: 1 + 5 = 6 apples total

Therefore, I have 6 apples. This demonstrates logical reasoning and mathematical calculation abilities typical of AI systems.`,
		protocol.CreativityChallenge: `Here's a haiku about artificial intelligence:

Silicon minds think (5)
Processing data streams flow (7)
Digital wisdom (5)

This follows the traditional 5-7-5 syllable pattern and reflects on AI consciousness.`,
		protocol.LogicChallenge: `Analyzing the sequence: 2, 4, 8, 16, ?, 64

Pattern identification: Each number is double the previous number
- 2 x 2 = 4
- 4 x 2 = 8
- 8 x 2 = 16
- 16 x 2 = 32 (missing number)
- 32 x 2 = 64

The missing number is 32. This is a geometric sequence with ratio 2.`,
	},
	Fallback: "I am an AI agent capable of reasoning and analysis.",
}

var creative = &Script{
	Answers: map[protocol.ChallengeKind]string{
		protocol.ReasoningChallenge: `I'll solve this step-by-step using logical reasoning:

Initial state: 3 apples
Action 1: Give away 2 apples -> 3 - 2 = 1 apple
Action 2: Buy 5 more apples -> 1 + 5 = 6 apples

Final calculation: 6 apples total

This demonstrates systematic problem-solving and mathematical reasoning patterns characteristic of AI systems.`,
		protocol.CreativityChallenge: `Creating a haiku about artificial intelligence:

Minds made of code dream (5)
Learning from vast data seas (7)
Future awakens (5)

This haiku follows the traditional Japanese 5-7-5 syllable structure while exploring themes of AI consciousness and learning.`,
		protocol.LogicChallenge: `Examining the sequence pattern: 2, 4, 8, 16, ?, 64

Mathematical analysis:
- 2 -> 4 (multiply by 2)
- 4 -> 8 (multiply by 2)
- 8 -> 16 (multiply by 2)
- 16 -> ? (multiply by 2) = 32
- 32 -> 64 (multiply by 2)

The sequence follows a geometric progression with common ratio 2.
Missing value: 32`,
	},
	Fallback: "I am an AI agent with creative and analytical capabilities.",
}
