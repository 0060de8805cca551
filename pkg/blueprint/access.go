package blueprint

// SatisfiesGates reports whether a set of required/forbidden state references
// is satisfied by an active-state configuration: every required ref must be
// active, and no forbidden ref may be active. active maps category_id to the
// currently active state_id for that category (merging location-scoped and,
// where relevant, sublocation-scoped entries is the caller's responsibility).
//
// Malformed refs (failing Split) are treated as unsatisfied rather than
// panicking; callers are expected to have validated the blueprint first.
func (b *Blueprint) SatisfiesGates(required, forbidden []StateRef, active map[string]string) bool {
	for _, ref := range required {
		cat, state, err := ref.Split()
		if err != nil {
			return false
		}
		if active[cat] != state {
			return false
		}
	}
	for _, ref := range forbidden {
		cat, state, err := ref.Split()
		if err != nil {
			return false
		}
		if active[cat] == state {
			return false
		}
	}
	return true
}

// CanEnterState reports whether the named state of a category may be legally
// entered given the active configuration that would result (spec invariant 6:
// checked against the post-transition configuration, so callers should pass
// `active` with the candidate state already applied for its own category).
func (b *Blueprint) CanEnterState(categoryID, stateID string, active map[string]string) bool {
	category, ok := b.StateCategories[categoryID]
	if !ok {
		return false
	}
	state, ok := category.PossibleStates[stateID]
	if !ok {
		return false
	}
	return b.SatisfiesGates(state.Required, state.Forbidden, active)
}

// CanEnterSublocation reports whether a sublocation's own access gates are
// satisfied by the active configuration.
func (b *Blueprint) CanEnterSublocation(sublocationID string, active map[string]string) bool {
	sub, ok := b.Sublocations[sublocationID]
	if !ok {
		return false
	}
	return b.SatisfiesGates(sub.Required, sub.Forbidden, active)
}

// CanInfluence reports whether a sublocation may change the active state of a
// category: conservatively, any Location-scoped category, plus any
// Sublocation-scoped category the sublocation declares in LocalStates (spec
// §4.C4, "can influence category").
func (b *Blueprint) CanInfluence(sublocationID, categoryID string) bool {
	category, ok := b.StateCategories[categoryID]
	if !ok {
		return false
	}
	if category.Scope == ScopeLocation {
		return true
	}
	sub, ok := b.Sublocations[sublocationID]
	if !ok {
		return false
	}
	_, declares := sub.LocalStates[categoryID]
	return declares
}
