package schema_test

import (
	"testing"

	"github.com/dshills/locale/pkg/schema"
	"pgregory.net/rapid"
)

// TestProperty_AnyChoiceWithinConstraintValidates checks the validator side of
// the schema roundtrip: every ActionChoice assembled entirely from
// sampleConstraint's own legal options must validate against that same
// constraint. The grammar is not consulted here.
func TestProperty_AnyChoiceWithinConstraintValidates(t *testing.T) {
	c := sampleConstraint()

	boundedText := func(minLen, maxLen int) *rapid.Generator[string] {
		return rapid.StringOf(rapid.Rune()).Filter(func(s string) bool {
			n := len([]rune(s))
			return n >= minLen && n <= maxLen
		})
	}

	rapid.Check(t, func(t *rapid.T) {
		choice := schema.ActionChoice{
			ActionText: boundedText(c.ActionTextMinLen, c.ActionTextMaxLen).Draw(t, "action_text"),
			FailureConsequences: schema.FailureConsequences{
				Type:        rapid.SampledFrom(c.FailureConsequences.Type.Options).Draw(t, "failure_type"),
				Description: boundedText(0, c.FailureConsequences.DescriptionMaxLen).Draw(t, "failure_description"),
			},
			RelatedSkill: rapid.SampledFrom(c.RelatedSkill.Options).Draw(t, "related_skill"),
			Difficulty:   rapid.IntRange(c.Difficulty.Min, c.Difficulty.Max).Draw(t, "difficulty"),
		}

		if rapid.Bool().Draw(t, "include_state_change") {
			opt := rapid.SampledFrom(c.SuccessConsequences.StateChange.Options).Draw(t, "state_change_opt")
			choice.SuccessConsequences.StateChange = &schema.StateChange{Category: opt.Category, NewState: opt.NewState}
		}
		if rapid.Bool().Draw(t, "include_sublocation_change") {
			pick := rapid.SampledFrom(c.SuccessConsequences.SublocationChange.Options).Draw(t, "sublocation_change_opt")
			choice.SuccessConsequences.SublocationChange = &pick
		}
		if rapid.Bool().Draw(t, "include_item_gained") {
			pick := rapid.SampledFrom(c.SuccessConsequences.ItemGained.Options).Draw(t, "item_gained_opt")
			choice.SuccessConsequences.ItemGained = &pick
		}

		_, errs := schema.Validate(marshal(t, choice), c)
		if len(errs) != 0 {
			t.Fatalf("expected a constraint-legal choice to validate, got: %v", errs)
		}
	})
}
