package instance

import (
	"fmt"
	"time"

	"github.com/dshills/locale/pkg/blueprint"
	"github.com/dshills/locale/pkg/engineerr"
)

// Apply is the pure transition function of spec §4.C7: it folds an
// ActionResult into state and returns a brand-new snapshot, never mutating
// state itself. Every effect on ActionResult is optional and composes; a
// transition that would violate an access gate is rejected wholesale (no
// partial application) with an engineerr.LmSchemaViolation-kind error, spec's
// InvalidTransition.
func Apply(state *LocationInstanceState, result ActionResult, now time.Time) (*LocationInstanceState, error) {
	next := state.clone()
	bp := next.Blueprint

	if result.SublocationChange != nil {
		target := *result.SublocationChange
		if _, ok := bp.Sublocations[target]; !ok {
			return nil, invalidTransition("sublocation %q does not exist", target)
		}
		active := next.activeSnapshot(target)
		if !bp.CanEnterSublocation(target, active) {
			return nil, invalidTransition("sublocation %q is not accessible from the current state", target)
		}
		next.CurrentSublocationID = target
	}

	if result.StateChange != nil {
		categoryID := result.StateChange.Category
		newState := result.StateChange.NewState
		category, ok := bp.StateCategories[categoryID]
		if !ok {
			return nil, invalidTransition("state category %q does not exist", categoryID)
		}
		if !bp.CanInfluence(next.CurrentSublocationID, categoryID) {
			return nil, invalidTransition("sublocation %q cannot influence category %q", next.CurrentSublocationID, categoryID)
		}

		candidate := next.activeSnapshot(next.CurrentSublocationID)
		candidate[categoryID] = newState
		if !bp.CanEnterState(categoryID, newState, candidate) {
			return nil, invalidTransition("state %q.%q is not accessible from the current configuration", categoryID, newState)
		}

		if category.Scope == blueprint.ScopeLocation {
			next.LocationStates[categoryID] = newState
		} else {
			sub := next.SublocationStates[next.CurrentSublocationID]
			if sub == nil {
				sub = make(SublocationState)
			}
			sub[categoryID] = newState
			next.SublocationStates[next.CurrentSublocationID] = sub
		}
	}

	// Item/companion/quest/NPC gains are recorded in history only; the
	// external inventory/avatar collaborator applies the actual effect
	// (spec §4.C7, §6) -- the core never maintains those collections itself.

	next.TurnCountThisVisit++
	next.LifetimeTurnCount++
	next.LastAccessedAt = now
	next.ActionHistory = append(next.ActionHistory, result)

	return next, nil
}

func invalidTransition(format string, args ...any) error {
	return engineerr.New(engineerr.LmSchemaViolation, fmt.Sprintf(format, args...))
}
