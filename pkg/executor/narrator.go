package executor

import (
	"encoding/json"
	"fmt"

	"github.com/dshills/locale/pkg/schema"
)

// narrativeTextMaxLen bounds the Narrator's prose reply. Spec §3 only bounds
// action_text explicitly; this is a conservative cap so a runaway completion
// cannot blow up downstream storage.
const narrativeTextMaxLen = 600

// narratorOutput is the JSON shape the Narrator role replies with: prose for
// whichever outcome (success or failure) the Director's chosen action
// produced. Its grammar is fixed, not derived from the ActionConstraint —
// the Narrator is already constrained to one outcome by the prompt, not by
// the shape of its reply.
type narratorOutput struct {
	NarrativeText string `json:"narrative_text"`
}

func narratorGrammar() *schema.Object {
	return &schema.Object{
		Keys: []string{"narrative_text"},
		Fields: map[string]schema.Node{
			"narrative_text": schema.BoundedString{MaxLen: narrativeTextMaxLen},
		},
	}
}

func narratorTemplate() string {
	return fmt.Sprintf(
		"Respond with a single JSON object with exactly this key:\n\n- narrative_text: string, at most %d characters. Prose describing what happens, consistent with the outcome already decided.\n",
		narrativeTextMaxLen,
	)
}

func validateNarratorOutput(data []byte) (*narratorOutput, []string) {
	var out narratorOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, []string{fmt.Sprintf("invalid JSON: %v", err)}
	}
	if len([]rune(out.NarrativeText)) == 0 {
		return nil, []string{"narrative_text must not be empty"}
	}
	if len([]rune(out.NarrativeText)) > narrativeTextMaxLen {
		return nil, []string{fmt.Sprintf("narrative_text exceeds max length %d", narrativeTextMaxLen)}
	}
	return &out, nil
}
