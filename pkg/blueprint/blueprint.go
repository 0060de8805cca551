package blueprint

import "fmt"

// Blueprint is the immutable description of a location's interior topology
// (spec §3). It is produced once per location id by a Feature Generator (C2) and
// cached by the location's instance container (C7) for the lifetime of the map.
type Blueprint struct {
	LocationID   string
	LocationType string

	StateCategories map[string]*StateCategory
	Sublocations    map[string]*Sublocation

	// Connections is the adjacency relation: Connections[a][b] == true means a
	// legal move exists from a to b. A pair may be listed on only one side,
	// producing a directed (one-way) edge.
	Connections map[string]map[string]bool

	ContentMap map[ContentKey]*LocationContent
}

// New creates an empty Blueprint ready for a generator to populate.
func New(locationID, locationType string) *Blueprint {
	return &Blueprint{
		LocationID:      locationID,
		LocationType:    locationType,
		StateCategories: make(map[string]*StateCategory),
		Sublocations:    make(map[string]*Sublocation),
		Connections:     make(map[string]map[string]bool),
		ContentMap:      make(map[ContentKey]*LocationContent),
	}
}

// AddStateCategory registers a state category. Returns an error on a duplicate id
// or a category that fails its own Validate.
func (b *Blueprint) AddStateCategory(c *StateCategory) error {
	if c == nil {
		return fmt.Errorf("cannot add nil state category")
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("state category validation failed: %w", err)
	}
	if _, exists := b.StateCategories[c.ID]; exists {
		return fmt.Errorf("state category %s already exists", c.ID)
	}
	b.StateCategories[c.ID] = c
	return nil
}

// AddSublocation registers a sublocation and seeds its adjacency set. Connections
// declared on s.DirectConnections are added as directed edges; call AddConnection
// separately to make them bidirectional.
func (b *Blueprint) AddSublocation(s *Sublocation) error {
	if s == nil {
		return fmt.Errorf("cannot add nil sublocation")
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("sublocation validation failed: %w", err)
	}
	if _, exists := b.Sublocations[s.ID]; exists {
		return fmt.Errorf("sublocation %s already exists", s.ID)
	}
	b.Sublocations[s.ID] = s
	if b.Connections[s.ID] == nil {
		b.Connections[s.ID] = make(map[string]bool)
	}
	for _, to := range s.DirectConnections {
		b.Connections[s.ID][to] = true
	}
	return nil
}

// AddConnection records an edge from -> to. If bidirectional, the reverse edge is
// also recorded; otherwise the edge is directed (used e.g. for "can descend but
// not ascend").
func (b *Blueprint) AddConnection(from, to string, bidirectional bool) error {
	if _, ok := b.Sublocations[from]; !ok {
		return fmt.Errorf("connection: from sublocation %s does not exist", from)
	}
	if _, ok := b.Sublocations[to]; !ok {
		return fmt.Errorf("connection: to sublocation %s does not exist", to)
	}
	if from == to {
		return fmt.Errorf("connection: self-loop on %s not allowed", from)
	}
	if b.Connections[from] == nil {
		b.Connections[from] = make(map[string]bool)
	}
	b.Connections[from][to] = true
	if bidirectional {
		if b.Connections[to] == nil {
			b.Connections[to] = make(map[string]bool)
		}
		b.Connections[to][from] = true
	}
	return nil
}

// SetContent registers the content available at a (sublocation, state signature)
// key, overwriting any previous entry for that key.
func (b *Blueprint) SetContent(key ContentKey, content *LocationContent) error {
	if _, ok := b.Sublocations[key.SublocationID]; !ok {
		return fmt.Errorf("content: sublocation %s does not exist", key.SublocationID)
	}
	if err := content.Validate(); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	b.ContentMap[key] = content
	return nil
}

// Neighbors returns the sublocation ids directly reachable from id (outgoing
// edges only — directed edges are respected).
func (b *Blueprint) Neighbors(id string) []string {
	adj := b.Connections[id]
	out := make([]string, 0, len(adj))
	for to, ok := range adj {
		if ok {
			out = append(out, to)
		}
	}
	return out
}

// Children returns sublocations whose ParentID is id (one level down).
func (b *Blueprint) Children(id string) []string {
	var children []string
	for subID, sub := range b.Sublocations {
		if sub.ParentID == id {
			children = append(children, subID)
		}
	}
	return children
}

// EntryPoints returns every sublocation with no parent (ParentID == "").
func (b *Blueprint) EntryPoints() []string {
	var entries []string
	for id, sub := range b.Sublocations {
		if sub.IsEntry() {
			entries = append(entries, id)
		}
	}
	return entries
}

// Reachable returns every sublocation id reachable from "from" via directed
// edges, via BFS, including "from" itself.
func (b *Blueprint) Reachable(from string) map[string]bool {
	reachable := make(map[string]bool)
	if _, ok := b.Sublocations[from]; !ok {
		return reachable
	}

	queue := []string{from}
	reachable[from] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for to, ok := range b.Connections[cur] {
			if ok && !reachable[to] {
				reachable[to] = true
				queue = append(queue, to)
			}
		}
	}
	return reachable
}

// ConnectedFrom reports whether every sublocation is reachable from "from" when
// edges are treated as undirected (invariant 4 uses weak connectivity so that
// one-way descents don't make a blueprint "disconnected").
func (b *Blueprint) ConnectedFrom(from string) bool {
	if len(b.Sublocations) == 0 {
		return true
	}
	if _, ok := b.Sublocations[from]; !ok {
		return false
	}

	undirected := make(map[string]map[string]bool)
	for src, adj := range b.Connections {
		for dst, ok := range adj {
			if !ok {
				continue
			}
			if undirected[src] == nil {
				undirected[src] = make(map[string]bool)
			}
			undirected[src][dst] = true
			if undirected[dst] == nil {
				undirected[dst] = make(map[string]bool)
			}
			undirected[dst][src] = true
		}
	}

	visited := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for to := range undirected[cur] {
			if !visited[to] {
				visited[to] = true
				queue = append(queue, to)
			}
		}
	}
	return len(visited) == len(b.Sublocations)
}
