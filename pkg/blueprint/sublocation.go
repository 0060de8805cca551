package blueprint

import "fmt"

// Sublocation is a named interior place within a location: an entry, a room, a
// clearing, a cave mouth. Sublocations form a DAG via ParentID (a single parent
// per node) plus an independent, possibly-cyclic adjacency relation recorded on
// the owning Blueprint's Connections.
type Sublocation struct {
	ID          string
	Name        string
	Description string

	// ParentID is the single-parent edge used for hierarchy (invariant 1). Empty
	// string means this sublocation has no parent — a candidate entry point
	// (invariant 4).
	ParentID string

	// DirectConnections lists sublocation ids this one connects to. This is
	// denormalized onto Blueprint.Connections when the sublocation is added; it
	// is kept here too so a generator can describe a sublocation's local wiring
	// before the blueprint exists.
	DirectConnections []string

	// Required/Forbidden gate access to this sublocation: a move into it is only
	// legal when all Required states are active and no Forbidden state is active.
	Required  []StateRef
	Forbidden []StateRef

	// LocalStates gives the default active state id for each sublocation-scoped
	// category this sublocation declares (category_id -> state_id).
	LocalStates map[string]string
}

// NewSublocation creates a sublocation with empty collections ready to populate.
func NewSublocation(id, name, description string) *Sublocation {
	return &Sublocation{
		ID:          id,
		Name:        name,
		Description: description,
		LocalStates: make(map[string]string),
	}
}

// Validate checks structural well-formedness in isolation.
func (s *Sublocation) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("sublocation: id cannot be empty")
	}
	for _, ref := range s.Required {
		if _, _, err := ref.Split(); err != nil {
			return fmt.Errorf("sublocation %s: required ref: %w", s.ID, err)
		}
	}
	for _, ref := range s.Forbidden {
		if _, _, err := ref.Split(); err != nil {
			return fmt.Errorf("sublocation %s: forbidden ref: %w", s.ID, err)
		}
	}
	return nil
}

// IsEntry reports whether this sublocation has no parent, making it a candidate
// entry point under invariant 4.
func (s *Sublocation) IsEntry() bool {
	return s.ParentID == ""
}

// String returns a human-readable summary of the Sublocation.
func (s *Sublocation) String() string {
	return fmt.Sprintf("Sublocation[%s: %s, parent=%q]", s.ID, s.Name, s.ParentID)
}
