package instance

import (
	"time"

	"github.com/dshills/locale/pkg/blueprint"
	"github.com/dshills/locale/pkg/schema"
)

// ActionResult is the executor's output for one executed turn (spec §3). Its
// effects are all optional and compose: Apply only touches the fields that
// are set.
type ActionResult struct {
	WasSuccessful   bool   `json:"was_successful"`
	CriticalFailure bool   `json:"critical_failure"`
	Leave           bool   `json:"leave"` // player picked a designated leave action
	NarrativeText   string `json:"narrative_text"`

	SublocationChange *string             `json:"sublocation_change,omitempty"`
	StateChange       *schema.StateChange `json:"state_change,omitempty"`
	ItemGained        *string             `json:"item_gained,omitempty"`
	CompanionGained   *string             `json:"companion_gained,omitempty"`
	QuestGained       *string             `json:"quest_gained,omitempty"`
	NPCGained         *string             `json:"npc_gained,omitempty"`
}

// SublocationState is the active-state mapping for one sublocation's
// sublocation-scoped categories: category_id → state_id.
type SublocationState map[string]string

// LocationInstanceState is the per-visit mutable envelope from spec §3. Every
// transition in this package produces a new value rather than mutating an
// existing one.
type LocationInstanceState struct {
	LocationID string `json:"location_id"`
	// Blueprint is never persisted (spec §6): it is regenerated from
	// LocationID on load, deterministically, so it is excluded from JSON.
	Blueprint            *blueprint.Blueprint `json:"-"`
	CurrentSublocationID string               `json:"current_sublocation_id"`

	// LocationStates holds the active state per location-scoped category.
	LocationStates map[string]string `json:"location_states"`
	// SublocationStates holds the active state per sublocation-scoped
	// category, keyed by sublocation id.
	SublocationStates map[string]SublocationState `json:"sublocation_states"`

	VisitCount         int            `json:"visit_count"`
	TurnCountThisVisit int            `json:"turn_count_this_visit"`
	LifetimeTurnCount  int            `json:"lifetime_turn_count"`
	ActionHistory      []ActionResult `json:"action_history"`

	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

// New creates the first-visit instance state for bp, seating every
// location-scoped category at its default state and every sublocation-scoped
// category at the state its sublocation declares in LocalStates, and placing
// the avatar at an entry sublocation.
func New(bp *blueprint.Blueprint, entrySublocationID string, now time.Time) *LocationInstanceState {
	locationStates := make(map[string]string)
	sublocationStates := make(map[string]SublocationState)

	for categoryID, cat := range bp.StateCategories {
		if cat.Scope == blueprint.ScopeLocation {
			locationStates[categoryID] = cat.DefaultStateID
		}
	}
	for subID, sub := range bp.Sublocations {
		local := make(SublocationState)
		for categoryID, stateID := range sub.LocalStates {
			if _, ok := bp.StateCategories[categoryID]; ok {
				local[categoryID] = stateID
			}
		}
		if len(local) > 0 {
			sublocationStates[subID] = local
		}
	}

	return &LocationInstanceState{
		LocationID:           bp.LocationID,
		Blueprint:             bp,
		CurrentSublocationID:  entrySublocationID,
		LocationStates:        locationStates,
		SublocationStates:     sublocationStates,
		VisitCount:            1,
		TurnCountThisVisit:    0,
		LifetimeTurnCount:     0,
		CreatedAt:             now,
		LastAccessedAt:        now,
	}
}

// Revisit bumps the visit counter for re-entry into an existing instance,
// resetting the per-visit turn counter but keeping lifetime counters, active
// states and history (spec §4.C9's "idempotence of reset" property: no
// regeneration, just a bumped visit counter).
func (s *LocationInstanceState) Revisit(now time.Time) *LocationInstanceState {
	next := s.clone()
	next.VisitCount++
	next.TurnCountThisVisit = 0
	next.LastAccessedAt = now
	return next
}

// ActiveStates returns the active-state configuration visible from
// sublocationID: every location-scoped category plus whichever
// sublocation-scoped categories that sublocation declares. This is the map
// shape the blueprint's access predicates and the constraint builder expect.
func (s *LocationInstanceState) ActiveStates(sublocationID string) map[string]string {
	return s.activeSnapshot(sublocationID)
}

// activeSnapshot flattens the current active-state configuration into the
// map[category_id]state_id shape the blueprint access predicates expect,
// location-scoped categories plus whichever sublocation-scoped categories the
// given sublocation declares.
func (s *LocationInstanceState) activeSnapshot(sublocationID string) map[string]string {
	snap := make(map[string]string, len(s.LocationStates))
	for k, v := range s.LocationStates {
		snap[k] = v
	}
	for k, v := range s.SublocationStates[sublocationID] {
		snap[k] = v
	}
	return snap
}

func (s *LocationInstanceState) clone() *LocationInstanceState {
	locationStates := make(map[string]string, len(s.LocationStates))
	for k, v := range s.LocationStates {
		locationStates[k] = v
	}
	subStates := make(map[string]SublocationState, len(s.SublocationStates))
	for subID, m := range s.SublocationStates {
		cp := make(SublocationState, len(m))
		for k, v := range m {
			cp[k] = v
		}
		subStates[subID] = cp
	}
	history := make([]ActionResult, len(s.ActionHistory))
	copy(history, s.ActionHistory)

	return &LocationInstanceState{
		LocationID:           s.LocationID,
		Blueprint:             s.Blueprint,
		CurrentSublocationID:  s.CurrentSublocationID,
		LocationStates:        locationStates,
		SublocationStates:     subStates,
		VisitCount:            s.VisitCount,
		TurnCountThisVisit:    s.TurnCountThisVisit,
		LifetimeTurnCount:     s.LifetimeTurnCount,
		ActionHistory:         history,
		CreatedAt:             s.CreatedAt,
		LastAccessedAt:        s.LastAccessedAt,
	}
}
