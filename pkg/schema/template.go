package schema

import (
	"fmt"
	"strings"

	"github.com/dshills/locale/pkg/constraint"
)

// BuildTemplate renders the human-readable skeleton shown to the LM: field
// names, short descriptions, and the allowed values for choice fields.
// Optional fields are marked "optional; use null to omit" (spec §4.C5).
func BuildTemplate(c *constraint.ActionConstraint) string {
	var b strings.Builder

	b.WriteString("Respond with a single JSON object with exactly these keys, in this order:\n\n")

	fmt.Fprintf(&b, "- action_text: string, %d to %d characters. A short natural sentence describing the action.\n", c.ActionTextMinLen, c.ActionTextMaxLen)

	b.WriteString("- success_consequences: object with keys:\n")
	writeStateChangeLine(&b, c.SuccessConsequences.StateChange)
	writeSublocationLine(&b, c.SuccessConsequences.SublocationChange)
	writeOptionalChoiceLine(&b, "item_gained", c.SuccessConsequences.ItemGained)
	writeOptionalChoiceLine(&b, "companion_gained", c.SuccessConsequences.CompanionGained)
	writeOptionalChoiceLine(&b, "quest_gained", c.SuccessConsequences.QuestGained)
	writeOptionalChoiceLine(&b, "npc_gained", c.SuccessConsequences.NPCGained)

	b.WriteString("- failure_consequences: object with keys:\n")
	fmt.Fprintf(&b, "    - type: one of %s\n", joinQuoted(c.FailureConsequences.Type.Options))
	fmt.Fprintf(&b, "    - description: string, at most %d characters.\n", c.FailureConsequences.DescriptionMaxLen)

	fmt.Fprintf(&b, "- related_skill: one of %s\n", joinQuoted(c.RelatedSkill.Options))
	fmt.Fprintf(&b, "- difficulty: integer from %d to %d.\n", c.Difficulty.Min, c.Difficulty.Max)

	return b.String()
}

func writeStateChangeLine(b *strings.Builder, choice *constraint.StateChangeChoice) {
	if !choice.Present() {
		b.WriteString("    - state_change: optional; use null to omit. No state category can change this turn.\n")
		return
	}
	b.WriteString("    - state_change: optional; use null to omit. Object with keys:\n")
	categories := make(map[string]bool)
	for _, opt := range choice.Options {
		categories[opt.Category] = true
	}
	cats := make([]string, 0, len(categories))
	for c := range categories {
		cats = append(cats, c)
	}
	fmt.Fprintf(b, "        - category: one of %s\n", joinQuoted(cats))
	b.WriteString("        - new_state: a state reachable from the chosen category's current state\n")
}

func writeSublocationLine(b *strings.Builder, choice *constraint.SublocationChoice) {
	if choice == nil || len(choice.Options) == 0 || (len(choice.Options) == 1 && choice.Options[0] == "none") {
		b.WriteString("    - sublocation_change: literal \"none\". There is nowhere to move this turn.\n")
		return
	}
	fmt.Fprintf(b, "    - sublocation_change: optional; use null to omit. One of %s\n", joinQuoted(choice.Options))
}

func writeOptionalChoiceLine(b *strings.Builder, name string, field *constraint.ChoiceField) {
	if !field.Present() {
		fmt.Fprintf(b, "    - %s: optional; use null to omit. Nothing available this turn.\n", name)
		return
	}
	fmt.Fprintf(b, "    - %s: optional; use null to omit. One of %s\n", name, joinQuoted(field.Options))
}

func joinQuoted(values []string) string {
	if len(values) == 0 {
		return "(none available)"
	}
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}
