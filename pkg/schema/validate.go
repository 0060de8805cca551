package schema

import (
	"encoding/json"
	"fmt"

	"github.com/dshills/locale/pkg/constraint"
)

// Validate parses raw JSON against an ActionConstraint and checks it rejects
// exactly what the grammar would have prevented (spec §4.C5: "the grammar and
// validator encode the same language"). On success it returns the parsed
// ActionChoice and a nil error slice; on failure it returns a nil choice and
// every violation found, not just the first.
func Validate(data []byte, c *constraint.ActionConstraint) (*ActionChoice, []string) {
	var choice ActionChoice
	if err := json.Unmarshal(data, &choice); err != nil {
		return nil, []string{fmt.Sprintf("invalid JSON: %v", err)}
	}

	var errs []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Sprintf(format, args...))
		}
	}

	check(len([]rune(choice.ActionText)) >= c.ActionTextMinLen, "action_text is shorter than min length %d", c.ActionTextMinLen)
	check(len([]rune(choice.ActionText)) <= c.ActionTextMaxLen, "action_text exceeds max length %d", c.ActionTextMaxLen)

	validateStateChange(choice.SuccessConsequences.StateChange, c.SuccessConsequences.StateChange, &errs)
	validateSublocationChange(choice.SuccessConsequences.SublocationChange, c.SuccessConsequences.SublocationChange, &errs)
	validateOptionalChoice("item_gained", choice.SuccessConsequences.ItemGained, c.SuccessConsequences.ItemGained, &errs)
	validateOptionalChoice("companion_gained", choice.SuccessConsequences.CompanionGained, c.SuccessConsequences.CompanionGained, &errs)
	validateOptionalChoice("quest_gained", choice.SuccessConsequences.QuestGained, c.SuccessConsequences.QuestGained, &errs)
	validateOptionalChoice("npc_gained", choice.SuccessConsequences.NPCGained, c.SuccessConsequences.NPCGained, &errs)

	check(containsString(c.FailureConsequences.Type.Options, choice.FailureConsequences.Type),
		"failure_consequences.type %q is not one of %v", choice.FailureConsequences.Type, c.FailureConsequences.Type.Options)
	check(len([]rune(choice.FailureConsequences.Description)) <= c.FailureConsequences.DescriptionMaxLen,
		"failure_consequences.description exceeds max length %d", c.FailureConsequences.DescriptionMaxLen)

	check(containsString(c.RelatedSkill.Options, choice.RelatedSkill),
		"related_skill %q is not one of %v", choice.RelatedSkill, c.RelatedSkill.Options)

	check(choice.Difficulty >= c.Difficulty.Min && choice.Difficulty <= c.Difficulty.Max,
		"difficulty %d is outside range %d..%d", choice.Difficulty, c.Difficulty.Min, c.Difficulty.Max)

	if len(errs) > 0 {
		return nil, errs
	}
	return &choice, nil
}

func validateStateChange(got *StateChange, allowed *constraint.StateChangeChoice, errs *[]string) {
	if !allowed.Present() {
		if got != nil {
			*errs = append(*errs, "state_change must be null: no category can change this turn")
		}
		return
	}
	if got == nil {
		return
	}
	for _, opt := range allowed.Options {
		if opt.Category == got.Category && opt.NewState == got.NewState {
			return
		}
	}
	*errs = append(*errs, fmt.Sprintf("state_change %+v is not among the allowed (category, new_state) pairs", got))
}

func validateSublocationChange(got *string, allowed *constraint.SublocationChoice, errs *[]string) {
	if allowed == nil || len(allowed.Options) == 0 || (len(allowed.Options) == 1 && allowed.Options[0] == "none") {
		if got == nil || *got != "none" {
			*errs = append(*errs, "sublocation_change must be the literal \"none\": no move is legal this turn")
		}
		return
	}
	if got == nil {
		return
	}
	if !containsString(allowed.Options, *got) {
		*errs = append(*errs, fmt.Sprintf("sublocation_change %q is not one of %v", *got, allowed.Options))
	}
}

func validateOptionalChoice(name string, got *string, allowed *constraint.ChoiceField, errs *[]string) {
	if !allowed.Present() {
		if got != nil {
			*errs = append(*errs, fmt.Sprintf("%s must be null: nothing available this turn", name))
		}
		return
	}
	if got == nil {
		return
	}
	if !containsString(allowed.Options, *got) {
		*errs = append(*errs, fmt.Sprintf("%s %q is not one of %v", name, *got, allowed.Options))
	}
}

func containsString(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}
