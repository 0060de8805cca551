package generator

import (
	"context"
	"fmt"
	"sync"

	"github.com/dshills/locale/pkg/blueprint"
)

// Generator is the shared contract every per-location-type generator
// implements (spec §4.C2). Both methods must be pure functions of
// location_id: no global RNG, no time, no process state.
type Generator interface {
	// LocationType returns the location_type this generator handles, and the
	// registry key it is registered under.
	LocationType() string

	// GenerateContext produces 40-200 words of sensory description referencing
	// the same generated features generate_blueprint would produce, seeded
	// identically.
	GenerateContext(locationID string) (string, error)

	// GenerateBlueprint produces a fully validated Blueprint. Implementations
	// must call the blueprint validator before returning; a blueprint that
	// fails validation is a generator bug, surfaced as an error.
	GenerateBlueprint(ctx context.Context, locationID string) (*blueprint.Blueprint, error)

	// SkillVocabulary returns the fixed set of skills related_skill may draw
	// from for this location type (spec §4.C4: "a fixed skill vocabulary
	// defined by C2 per location type").
	SkillVocabulary() []string
}

// Registry manages available feature generators, keyed by location_type.
var (
	mu         sync.RWMutex
	generators = make(map[string]Generator)
)

// Register adds a generator to the global registry under its LocationType.
// Panics if that location type is already registered.
func Register(g Generator) {
	mu.Lock()
	defer mu.Unlock()

	name := g.LocationType()
	if _, exists := generators[name]; exists {
		panic(fmt.Sprintf("generator for location_type %q already registered", name))
	}
	generators[name] = g
}

// Get retrieves the registered generator for a location_type. Returns nil if
// none is registered.
func Get(locationType string) Generator {
	mu.RLock()
	defer mu.RUnlock()
	return generators[locationType]
}

// List returns every registered location_type.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	return names
}
