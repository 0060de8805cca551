package constraint

// ChoiceField is a named choice among a fixed set of string options. An empty
// Options slice means the field is omitted from the constraint entirely
// (spec §4.C4: "If no category qualifies, the field is omitted entirely").
type ChoiceField struct {
	Options []string
}

// Present reports whether this field has any legal option and should appear
// in the constraint at all.
func (c *ChoiceField) Present() bool {
	return c != nil && len(c.Options) > 0
}

// IntRange is an integer choice constraint, inclusive on both ends.
type IntRange struct {
	Min int
	Max int
}

// StateChangeOption is one (category, new_state) pair a state-change action
// may pick. Multiple categories may each contribute several reachable states;
// the whole set is a single flat variant pick (spec: "exactly one category
// may change per action").
type StateChangeOption struct {
	Category string
	NewState string
}

// StateChangeChoice is the success_consequences.state_changes slot: a single
// variant pick across every (category, reachable state) pair the current
// sublocation can influence. Nil or empty means no category qualifies this
// turn.
type StateChangeChoice struct {
	Options []StateChangeOption
}

func (c *StateChangeChoice) Present() bool {
	return c != nil && len(c.Options) > 0
}

// SublocationChoice is the success_consequences.sublocation_change slot: a
// choice among directly connected sublocations, children, and the parent,
// filtered by access gates. An empty choice set is never emitted; the
// builder substitutes the literal "none" option instead (spec §4.C4).
type SublocationChoice struct {
	Options []string
}

// FailureConsequences describes the shape of a failed action's outcome: a
// choice of failure type plus a bounded free-text description.
type FailureConsequences struct {
	Type            ChoiceField
	DescriptionMaxLen int
}

// SuccessConsequences is the composite of every optional effect a successful
// action may have. Each field is independently optional; a nil/empty field
// means that effect cannot occur this turn.
type SuccessConsequences struct {
	StateChange      *StateChangeChoice
	SublocationChange *SublocationChoice
	ItemGained       *ChoiceField
	CompanionGained  *ChoiceField
	QuestGained      *ChoiceField
	NPCGained        *ChoiceField
}

// ActionConstraint is the top-level tree-structured constraint the Schema
// Emitter (C5) lowers to a grammar, template, and validator, and that the
// Action Executor (C6) submits to the LM for both candidate generation
// (Director) and outcome narration (Narrator).
type ActionConstraint struct {
	ActionTextMinLen    int
	ActionTextMaxLen    int
	SuccessConsequences SuccessConsequences
	FailureConsequences FailureConsequences
	RelatedSkill        ChoiceField
	Difficulty          IntRange
}

// defaultActionTextMinLen and defaultActionTextMaxLen bound action_text
// length (invariant 7: "Action text length 10-100 characters").
const (
	defaultActionTextMinLen = 10
	defaultActionTextMaxLen = 100
)

// defaultFailureDescriptionMaxLen bounds failure_consequences.description.
const defaultFailureDescriptionMaxLen = 240

// builtinFailureTypes is the fixed core of the failure_consequences.type
// vocabulary named in spec §4.C4; a biome table may extend it with
// additional flavors but never removes these.
var builtinFailureTypes = []string{
	"lost", "injured", "startled_wildlife", "minor_injury",
	"damage", "imprisonment", "ejection", "none",
}
