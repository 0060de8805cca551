package schema

import "github.com/dshills/locale/pkg/constraint"

// Node is one production in the grammar tree. Every concrete node type below
// corresponds to one of the lowering rules in spec §4.C5: choice fields to
// string/integer alternation, composites to fixed-key-order objects, optional
// fields to a null alternative, bounded strings to length-restricted classes.
type Node interface {
	isNode()
}

// StringChoice is an alternation over a fixed set of string literals.
type StringChoice struct {
	Options []string
}

func (StringChoice) isNode() {}

// IntChoice is an alternation over an inclusive integer range.
type IntChoice struct {
	Min, Max int
}

func (IntChoice) isNode() {}

// BoundedString is a free-form string restricted to between MinLen and MaxLen
// runes, inclusive. MinLen of zero means no minimum.
type BoundedString struct {
	MinLen int
	MaxLen int
}

func (BoundedString) isNode() {}

// Optional wraps a node with an additional "null" alternative.
type Optional struct {
	Of Node
}

func (Optional) isNode() {}

// Object is a composite production with a fixed key order; every key in
// Keys must appear (as its own node, or as an Optional's null) in the
// resulting JSON.
type Object struct {
	Keys   []string
	Fields map[string]Node
}

func (Object) isNode() {}

// BuildGrammar lowers an ActionConstraint to its grammar tree.
func BuildGrammar(c *constraint.ActionConstraint) *Object {
	successFields := map[string]Node{
		"state_change":       Optional{Of: stateChangeGrammar(c.SuccessConsequences.StateChange)},
		"sublocation_change": sublocationChangeGrammar(c.SuccessConsequences.SublocationChange),
		"item_gained":        optionalChoiceGrammar(c.SuccessConsequences.ItemGained),
		"companion_gained":   optionalChoiceGrammar(c.SuccessConsequences.CompanionGained),
		"quest_gained":       optionalChoiceGrammar(c.SuccessConsequences.QuestGained),
		"npc_gained":         optionalChoiceGrammar(c.SuccessConsequences.NPCGained),
	}
	successKeys := []string{
		"state_change", "sublocation_change", "item_gained",
		"companion_gained", "quest_gained", "npc_gained",
	}

	failureFields := map[string]Node{
		"type":        StringChoice{Options: c.FailureConsequences.Type.Options},
		"description": BoundedString{MaxLen: c.FailureConsequences.DescriptionMaxLen},
	}

	return &Object{
		Keys: []string{"action_text", "success_consequences", "failure_consequences", "related_skill", "difficulty"},
		Fields: map[string]Node{
			"action_text":           BoundedString{MinLen: c.ActionTextMinLen, MaxLen: c.ActionTextMaxLen},
			"success_consequences":  &Object{Keys: successKeys, Fields: successFields},
			"failure_consequences":  &Object{Keys: []string{"type", "description"}, Fields: failureFields},
			"related_skill":         StringChoice{Options: c.RelatedSkill.Options},
			"difficulty":            IntChoice{Min: c.Difficulty.Min, Max: c.Difficulty.Max},
		},
	}
}

func stateChangeGrammar(choice *constraint.StateChangeChoice) Node {
	if !choice.Present() {
		return StringChoice{}
	}
	categories := make([]string, 0, len(choice.Options))
	seen := make(map[string]bool)
	for _, opt := range choice.Options {
		if !seen[opt.Category] {
			seen[opt.Category] = true
			categories = append(categories, opt.Category)
		}
	}
	return &Object{
		Keys: []string{"category", "new_state"},
		Fields: map[string]Node{
			"category":  StringChoice{Options: categories},
			"new_state": StringChoice{Options: stateOptionsFor(choice.Options)},
		},
	}
}

func stateOptionsFor(options []constraint.StateChangeOption) []string {
	out := make([]string, len(options))
	for i, o := range options {
		out[i] = o.NewState
	}
	return out
}

func sublocationChangeGrammar(choice *constraint.SublocationChoice) Node {
	if choice == nil || len(choice.Options) == 0 {
		return StringChoice{Options: []string{"none"}}
	}
	return Optional{Of: StringChoice{Options: choice.Options}}
}

func optionalChoiceGrammar(field *constraint.ChoiceField) Node {
	if !field.Present() {
		return Optional{Of: StringChoice{}}
	}
	return Optional{Of: StringChoice{Options: field.Options}}
}
