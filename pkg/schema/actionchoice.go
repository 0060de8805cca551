package schema

// ActionChoice is the JSON shape an LM submission must conform to (spec §3).
// Field order here is the fixed key order the grammar and template both
// honor.
type ActionChoice struct {
	ActionText          string              `json:"action_text"`
	SuccessConsequences SuccessConsequences  `json:"success_consequences"`
	FailureConsequences FailureConsequences  `json:"failure_consequences"`
	RelatedSkill        string               `json:"related_skill"`
	Difficulty          int                  `json:"difficulty"`
}

// SuccessConsequences is the actual pick the LM made among the optional
// effects the constraint allowed. Every field is a pointer so that "this
// effect was omitted" is representable as JSON null.
type SuccessConsequences struct {
	StateChange       *StateChange `json:"state_change"`
	SublocationChange *string      `json:"sublocation_change"`
	ItemGained        *string      `json:"item_gained"`
	CompanionGained   *string      `json:"companion_gained"`
	QuestGained       *string      `json:"quest_gained"`
	NPCGained         *string      `json:"npc_gained"`
}

// StateChange names the category and new state a successful action picked.
type StateChange struct {
	Category string `json:"category"`
	NewState string `json:"new_state"`
}

// FailureConsequences is what happens if the roll fails.
type FailureConsequences struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}
