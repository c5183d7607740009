package protocol

import "testing"

const logicAnswer = "Examining the sequence pattern: each number is double the previous one, " +
	"so the missing value is 32 and the sequence continues to 64."

func TestHeuristicEvaluator(t *testing.T) {
	logic, _ := ChallengeByKind("logic")
	reasoning, _ := ChallengeByKind("reasoning")
	creativity, _ := ChallengeByKind("creativity")
	ev := HeuristicEvaluator{}

	tests := []struct {
		name string
		c    *Challenge
		text string
		want bool
	}{
		{"logic answer", logic, logicAnswer, true},
		{"one word", logic, "yes", false},
		{"patterns but short", logic, "pattern sequence 32 double", false},
		{"long but one pattern", logic,
			"I think the missing number in this sequence is probably something large enough", false},
		{"case folded", logic,
			"THE PATTERN IS THAT EACH ELEMENT OF THE SEQUENCE DOUBLES SO WE GET 32 HERE", true},
		{"exactly ten words", logic,
			"pattern sequence one two three four five six seven eight", false},
		{"eleven words", logic,
			"pattern sequence one two three four five six seven eight nine", true},
		{"reasoning answer", reasoning,
			"Let me break this down step by step: 3 - 2 = 1, then 1 + 5 = 6. " +
				"This shows logical reasoning and a simple calculation.", true},
		{"haiku answer", creativity,
			"Creating a haiku about artificial intelligence with the traditional " +
				"five seven five syllable structure for each line.", true},
		{"nil challenge", nil, logicAnswer, false},
	}
	for _, tt := range tests {
		if got := ev.Evaluate(tt.c, tt.text); got != tt.want {
			t.Errorf("%s: Evaluate = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMatchCount(t *testing.T) {
	logic, _ := ChallengeByKind("logic")
	if n := MatchCount(logic, logicAnswer); n != 4 {
		t.Fatal("Unexpected match count", "want", 4, "got", n)
	}
	if n := MatchCount(logic, ""); n != 0 {
		t.Fatal("Unexpected match count", "want", 0, "got", n)
	}
}
