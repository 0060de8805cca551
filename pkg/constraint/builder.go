package constraint

import (
	"fmt"
	"sort"

	"github.com/dshills/locale/pkg/blueprint"
)

// Build derives an ActionConstraint from a blueprint and the current instance
// view: the sublocation the player occupies and the full active-state
// mapping (location-scoped categories merged with this sublocation's
// sublocation-scoped categories). skillVocabulary and extraFailureTypes come
// from the generator's biome table (spec §4.C4: "a fixed skill vocabulary
// defined by C2 per location type").
func Build(bp *blueprint.Blueprint, currentSublocationID string, active map[string]string, skillVocabulary, extraFailureTypes []string) (*ActionConstraint, error) {
	if _, ok := bp.Sublocations[currentSublocationID]; !ok {
		return nil, fmt.Errorf("constraint: sublocation %s does not exist in blueprint", currentSublocationID)
	}

	c := &ActionConstraint{
		ActionTextMinLen: defaultActionTextMinLen,
		ActionTextMaxLen: defaultActionTextMaxLen,
		FailureConsequences: FailureConsequences{
			Type:              ChoiceField{Options: mergeFailureTypes(extraFailureTypes)},
			DescriptionMaxLen: defaultFailureDescriptionMaxLen,
		},
		RelatedSkill: ChoiceField{Options: append([]string(nil), skillVocabulary...)},
		Difficulty:   IntRange{Min: 1, Max: 5},
	}

	c.SuccessConsequences.StateChange = buildStateChangeChoice(bp, currentSublocationID, active)
	c.SuccessConsequences.SublocationChange = buildSublocationChoice(bp, currentSublocationID, active)

	content := lookupContent(bp, currentSublocationID, active)
	c.SuccessConsequences.ItemGained = choiceOrNil(content.Items)
	c.SuccessConsequences.CompanionGained = choiceOrNil(content.Companions)
	c.SuccessConsequences.QuestGained = choiceOrNil(content.Quests)
	c.SuccessConsequences.NPCGained = choiceOrNil(content.NPCs)

	return c, nil
}

// buildStateChangeChoice enumerates every (category, reachable state) pair the
// current sublocation can influence, excluding the category's own currently
// active state (a "change" must actually change something).
func buildStateChangeChoice(bp *blueprint.Blueprint, currentSublocationID string, active map[string]string) *StateChangeChoice {
	catIDs := make([]string, 0, len(bp.StateCategories))
	for id := range bp.StateCategories {
		catIDs = append(catIDs, id)
	}
	sort.Strings(catIDs)

	var options []StateChangeOption
	for _, catID := range catIDs {
		if !bp.CanInfluence(currentSublocationID, catID) {
			continue
		}
		category := bp.StateCategories[catID]

		stateIDs := make([]string, 0, len(category.PossibleStates))
		for id := range category.PossibleStates {
			stateIDs = append(stateIDs, id)
		}
		sort.Strings(stateIDs)

		for _, stateID := range stateIDs {
			if active[catID] == stateID {
				continue
			}
			candidate := copyActive(active)
			candidate[catID] = stateID
			if bp.CanEnterState(catID, stateID, candidate) {
				options = append(options, StateChangeOption{Category: catID, NewState: stateID})
			}
		}
	}
	if len(options) == 0 {
		return nil
	}
	return &StateChangeChoice{Options: options}
}

// buildSublocationChoice enumerates directly connected sublocations, child
// sublocations one level down, and the parent one level up, filtered by each
// candidate's own access gates. An empty result is represented as the literal
// "none" option rather than an absent field (spec §4.C4).
func buildSublocationChoice(bp *blueprint.Blueprint, currentSublocationID string, active map[string]string) *SublocationChoice {
	seen := make(map[string]bool)
	var candidates []string
	add := func(id string) {
		if id == "" || id == currentSublocationID || seen[id] {
			return
		}
		seen[id] = true
		candidates = append(candidates, id)
	}

	for _, id := range bp.Neighbors(currentSublocationID) {
		add(id)
	}
	for _, id := range bp.Children(currentSublocationID) {
		add(id)
	}
	if sub, ok := bp.Sublocations[currentSublocationID]; ok {
		add(sub.ParentID)
	}

	sort.Strings(candidates)

	var legal []string
	for _, id := range candidates {
		if bp.CanEnterSublocation(id, active) {
			legal = append(legal, id)
		}
	}
	if len(legal) == 0 {
		return &SublocationChoice{Options: []string{"none"}}
	}
	return &SublocationChoice{Options: legal}
}

// lookupContent resolves the LocationContent for the current sublocation and
// active-state configuration, falling back through partial signatures down to
// the sublocation-only key (spec §4.C4).
func lookupContent(bp *blueprint.Blueprint, currentSublocationID string, active map[string]string) blueprint.LocationContent {
	catIDs := make([]string, 0, len(bp.StateCategories))
	for id := range bp.StateCategories {
		catIDs = append(catIDs, id)
	}

	for _, sig := range blueprint.PartialSignatures(active, catIDs) {
		key := blueprint.ContentKey{SublocationID: currentSublocationID, StateSig: sig}
		if content, ok := bp.ContentMap[key]; ok {
			return *content
		}
	}
	return blueprint.LocationContent{}
}

func choiceOrNil(options []string) *ChoiceField {
	if len(options) == 0 {
		return nil
	}
	return &ChoiceField{Options: append([]string(nil), options...)}
}

func copyActive(active map[string]string) map[string]string {
	out := make(map[string]string, len(active))
	for k, v := range active {
		out[k] = v
	}
	return out
}

func mergeFailureTypes(extra []string) []string {
	seen := make(map[string]bool, len(builtinFailureTypes)+len(extra))
	out := make([]string, 0, len(builtinFailureTypes)+len(extra))
	for _, t := range builtinFailureTypes {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, t := range extra {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
