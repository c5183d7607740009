package protocol

import (
	"strings"
	"testing"
)

func TestCatalogTemplates(t *testing.T) {
	cs := Challenges()
	if len(cs) != 3 {
		t.Fatal("Unexpected catalog size", "want", 3, "got", len(cs))
	}
	for _, c := range cs {
		if n := len(c.AcceptedPatterns); n < 3 || n > 4 {
			t.Errorf("%s: expect 3-4 patterns, got %d", c.Kind, n)
		}
		for _, p := range c.AcceptedPatterns {
			if p != strings.ToLower(p) {
				t.Errorf("%s: pattern %q is not lowercase", c.Kind, p)
			}
		}
	}
}

func TestSelectChallengeCoversCatalog(t *testing.T) {
	seen := make(map[ChallengeKind]bool)
	for i := 0; i < 1000 && len(seen) < 3; i++ {
		seen[SelectChallenge().Kind] = true
	}
	if len(seen) != 3 {
		t.Fatal("Expect every template to be selected eventually, got", seen)
	}
}

func TestChallengeByKind(t *testing.T) {
	tests := []struct {
		kind string
		want ChallengeKind
		ok   bool
	}{
		{"logic", LogicChallenge, true},
		{" Reasoning ", ReasoningChallenge, true},
		{"CREATIVITY", CreativityChallenge, true},
		{"behavioral", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		c, ok := ChallengeByKind(tt.kind)
		if ok != tt.ok {
			t.Errorf("ChallengeByKind(%q): ok = %v, want %v", tt.kind, ok, tt.ok)
			continue
		}
		if ok && c.Kind != tt.want {
			t.Errorf("ChallengeByKind(%q) = %s, want %s", tt.kind, c.Kind, tt.want)
		}
	}
}

func TestChallengeClone(t *testing.T) {
	c, _ := ChallengeByKind("logic")
	clone := c.Clone()
	clone.AcceptedPatterns[0] = "mutated"
	if c.AcceptedPatterns[0] == "mutated" {
		t.Fatal("Clone shares the pattern slice with the catalog")
	}
	if (*Challenge)(nil).Clone() != nil {
		t.Fatal("Expect nil clone of nil challenge")
	}
}
