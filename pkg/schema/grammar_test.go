package schema_test

import (
	"strings"
	"testing"

	"github.com/dshills/locale/pkg/schema"
)

func TestBuildGrammar_TopLevelKeyOrder(t *testing.T) {
	c := sampleConstraint()
	g := schema.BuildGrammar(c)

	want := []string{"action_text", "success_consequences", "failure_consequences", "related_skill", "difficulty"}
	if len(g.Keys) != len(want) {
		t.Fatalf("expected %d top-level keys, got %d: %v", len(want), len(g.Keys), g.Keys)
	}
	for i, k := range want {
		if g.Keys[i] != k {
			t.Errorf("key %d: got %q, want %q", i, g.Keys[i], k)
		}
	}
}

func TestBuildGrammar_DifficultyIsIntChoice(t *testing.T) {
	c := sampleConstraint()
	g := schema.BuildGrammar(c)

	intChoice, ok := g.Fields["difficulty"].(schema.IntChoice)
	if !ok {
		t.Fatalf("expected difficulty to lower to IntChoice, got %T", g.Fields["difficulty"])
	}
	if intChoice.Min != 1 || intChoice.Max != 5 {
		t.Errorf("expected range 1..5, got %d..%d", intChoice.Min, intChoice.Max)
	}
}

func TestBuildTemplate_MentionsSkillVocabulary(t *testing.T) {
	c := sampleConstraint()
	tmpl := schema.BuildTemplate(c)
	if tmpl == "" {
		t.Fatal("expected non-empty template")
	}
	for _, sub := range []string{"stealth", "foraging", "related_skill"} {
		if !strings.Contains(tmpl, sub) {
			t.Errorf("expected template to mention %q, got:\n%s", sub, tmpl)
		}
	}
}
