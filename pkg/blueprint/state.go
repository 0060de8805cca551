package blueprint

import (
	"fmt"
	"strings"
)

// Scope defines whether a state category holds one active state per location, or
// one per currently-visited sublocation.
type Scope int

const (
	// ScopeLocation means one active state for the whole location.
	ScopeLocation Scope = iota
	// ScopeSublocation means one active state per sublocation that declares it.
	ScopeSublocation
)

// String returns the string representation of a Scope.
func (s Scope) String() string {
	switch s {
	case ScopeLocation:
		return "Location"
	case ScopeSublocation:
		return "Sublocation"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// StateRef is a fully-qualified reference to a state of a category, written
// "category_id.state_id" (spec §3). It is used in required_states/forbidden_states
// sets on both LocationState and Sublocation.
type StateRef string

// NewStateRef builds a StateRef from its parts.
func NewStateRef(categoryID, stateID string) StateRef {
	return StateRef(categoryID + "." + stateID)
}

// Split returns the category id and state id halves of the reference.
// Returns an error if the reference is not of the form "category.state".
func (r StateRef) Split() (category, state string, err error) {
	idx := strings.IndexByte(string(r), '.')
	if idx < 0 {
		return "", "", fmt.Errorf("state ref %q: missing '.' separator", r)
	}
	return string(r)[:idx], string(r)[idx+1:], nil
}

// LocationState is one member of a StateCategory's possible_states.
type LocationState struct {
	ID          string
	Name        string
	Description string

	// Required lists state refs that must all be active for this state to be
	// legally entered.
	Required []StateRef
	// Forbidden lists state refs that must all be inactive for this state to be
	// legally entered.
	Forbidden []StateRef
}

// Validate checks structural well-formedness of a single LocationState in
// isolation (reference resolution against a Blueprint is done by the validation
// package, which has the full picture).
func (s *LocationState) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("state: id cannot be empty")
	}
	for _, ref := range s.Required {
		if _, _, err := ref.Split(); err != nil {
			return fmt.Errorf("state %s: required ref: %w", s.ID, err)
		}
	}
	for _, ref := range s.Forbidden {
		if _, _, err := ref.Split(); err != nil {
			return fmt.Errorf("state %s: forbidden ref: %w", s.ID, err)
		}
	}
	return nil
}

// StateCategory is a mutually-exclusive set of states, e.g. time_of_day.
type StateCategory struct {
	ID   string
	Name string

	PossibleStates map[string]*LocationState
	DefaultStateID string
	Scope          Scope
}

// NewStateCategory creates an empty category with the given scope.
func NewStateCategory(id, name string, scope Scope) *StateCategory {
	return &StateCategory{
		ID:             id,
		Name:           name,
		PossibleStates: make(map[string]*LocationState),
		Scope:          scope,
	}
}

// AddState registers a state under this category.
func (c *StateCategory) AddState(s *LocationState) error {
	if s == nil {
		return fmt.Errorf("category %s: cannot add nil state", c.ID)
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("category %s: %w", c.ID, err)
	}
	if _, exists := c.PossibleStates[s.ID]; exists {
		return fmt.Errorf("category %s: state %s already registered", c.ID, s.ID)
	}
	c.PossibleStates[s.ID] = s
	return nil
}

// Validate checks that the category is internally consistent: it has at least
// one state and DefaultStateID resolves (invariant 3).
func (c *StateCategory) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("category: id cannot be empty")
	}
	if len(c.PossibleStates) == 0 {
		return fmt.Errorf("category %s: must declare at least one state", c.ID)
	}
	if _, ok := c.PossibleStates[c.DefaultStateID]; !ok {
		return fmt.Errorf("category %s: default_state_id %q does not resolve", c.ID, c.DefaultStateID)
	}
	return nil
}
