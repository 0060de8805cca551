package worldmap

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dshills/locale/pkg/engineerr"
	"github.com/dshills/locale/pkg/executor"
	"github.com/dshills/locale/pkg/generator"
	"github.com/dshills/locale/pkg/instance"
	"github.com/dshills/locale/pkg/interaction"
	"github.com/dshills/locale/pkg/transport"
)

// Mode is one of the Turn Controller's three exclusive modes (spec §4.C9).
type Mode string

const (
	WorldView         Mode = "world_view"
	Traveling         Mode = "traveling"
	LocationInteraction Mode = "location_interaction"
)

// Controller is the Turn Controller: it owns the current Mode, dispatches
// world-map events, and hands control to an interaction.Loop for the
// duration of a LocationInteraction.
type Controller struct {
	worldMap Map
	pool     *transport.Pool
	ex       *executor.Executor

	// terminalSublocations maps a location_type to the sublocation ids that
	// end an interaction the moment they become current (spec's "special"
	// nodes: cure cell, summit, grove center, ...). Optional; a location
	// type absent from this map simply has none.
	terminalSublocations map[string][]string

	mode  Mode
	path  []VertexID
	loop  *interaction.Loop

	// instances caches instance state by location id so re-entry bumps the
	// visit counter and reuses the existing blueprint instead of
	// regenerating it (spec §4.C9, §8 "idempotence of reset").
	instances map[string]*instance.LocationInstanceState
}

// New creates a Controller in WorldView mode.
func New(worldMap Map, pool *transport.Pool, terminalSublocations map[string][]string) *Controller {
	return &Controller{
		worldMap:             worldMap,
		pool:                 pool,
		ex:                   executor.New(pool),
		terminalSublocations: terminalSublocations,
		mode:                 WorldView,
		instances:            make(map[string]*instance.LocationInstanceState),
	}
}

// Mode returns the controller's current mode.
func (c *Controller) Mode() Mode { return c.mode }

// Loop returns the active interaction.Loop, or nil outside LocationInteraction.
func (c *Controller) Loop() *interaction.Loop { return c.loop }

// OnVertexClicked handles a vertex_clicked event while in WorldView: the
// embedding application is expected to have already computed a path and
// call StartTravel, or for an adjacent vertex, enter interaction directly.
// This method only enforces the mode guard; path planning is the map
// collaborator's job.
func (c *Controller) OnVertexClicked(ctx context.Context, vertex VertexID) error {
	if c.mode != WorldView {
		return fmt.Errorf("worldmap: vertex_clicked ignored outside WorldView (mode=%s)", c.mode)
	}
	return nil
}

// StartTravel transitions WorldView -> Traveling along path. The map
// collaborator advances the path one step per tick outside the core; the
// controller just suspends until OnAvatarArrived reports arrival.
func (c *Controller) StartTravel(path []VertexID) error {
	if c.mode != WorldView {
		return fmt.Errorf("worldmap: StartTravel requires WorldView (mode=%s)", c.mode)
	}
	if len(path) == 0 {
		return fmt.Errorf("worldmap: StartTravel requires a non-empty path")
	}
	c.mode = Traveling
	c.path = path
	return nil
}

// OnAvatarArrived handles the avatar_arrived event: it ends Traveling and
// enters LocationInteraction for the vertex reached, synthesizing a
// biome-as-location id if the vertex has no concrete location.
func (c *Controller) OnAvatarArrived(ctx context.Context, vertex VertexID, now time.Time) (*interaction.Loop, error) {
	if c.mode != Traveling {
		return nil, fmt.Errorf("worldmap: avatar_arrived ignored outside Traveling (mode=%s)", c.mode)
	}
	c.path = nil
	return c.enterLocationInteraction(ctx, vertex, now)
}

// EnterLocationInteractionFromWorldView handles clicking directly into an
// adjacent vertex without a multi-step path.
func (c *Controller) EnterLocationInteractionFromWorldView(ctx context.Context, vertex VertexID, now time.Time) (*interaction.Loop, error) {
	if c.mode != WorldView {
		return nil, fmt.Errorf("worldmap: cannot enter LocationInteraction from mode %s", c.mode)
	}
	return c.enterLocationInteraction(ctx, vertex, now)
}

func (c *Controller) enterLocationInteraction(ctx context.Context, vertex VertexID, now time.Time) (*interaction.Loop, error) {
	info, err := c.worldMap.GetVertexInfo(vertex)
	if err != nil {
		return nil, fmt.Errorf("worldmap: get_vertex_info(%s): %w", vertex, err)
	}

	locationID := info.LocationID
	if locationID == "" {
		locationID = fmt.Sprintf("%s_%s", info.Biome, vertex)
	}

	st, ok := c.instances[locationID]
	if ok {
		st = st.Revisit(now)
	} else {
		gen := generator.Get(info.Biome)
		if gen == nil {
			return nil, fmt.Errorf("worldmap: no generator registered for location_type %q", info.Biome)
		}
		bp, err := gen.GenerateBlueprint(ctx, locationID)
		if err != nil {
			return nil, engineerr.Wrap(engineerr.BlueprintInvariantViolation, "generating blueprint for "+locationID, err)
		}
		entry := firstEntryPoint(bp.EntryPoints())
		if entry == "" {
			return nil, engineerr.New(engineerr.BlueprintInvariantViolation, "blueprint for "+locationID+" has no entry point")
		}
		st = instance.New(bp, entry, now)
	}
	c.instances[locationID] = st

	gen := generator.Get(info.Biome)
	var skillVocabulary []string
	if gen != nil {
		skillVocabulary = gen.SkillVocabulary()
	}

	c.loop = interaction.New(c.ex, st, skillVocabulary, nil, c.terminalSublocations[info.Biome])
	c.mode = LocationInteraction
	return c.loop, nil
}

// ExitLocationInteraction leaves LocationInteraction, persisting the loop's
// final state and cancelling any outstanding LM requests on the Director and
// Narrator slots (spec §5: "leaving LocationInteraction cancels any
// outstanding LM request").
func (c *Controller) ExitLocationInteraction(ctx context.Context) error {
	if c.mode != LocationInteraction {
		return fmt.Errorf("worldmap: ExitLocationInteraction requires LocationInteraction (mode=%s)", c.mode)
	}
	if c.loop != nil {
		c.instances[c.loop.State().LocationID] = c.loop.State()
	}
	var cancelErr error
	if err := c.pool.Cancel(ctx, c.pool.Director()); err != nil {
		cancelErr = err
	}
	if err := c.pool.Cancel(ctx, c.pool.Narrator()); err != nil {
		cancelErr = err
	}
	c.loop = nil
	c.mode = WorldView
	return cancelErr
}

// firstEntryPoint picks a deterministic entry point from an unordered set
// (map iteration order is not stable; the lexicographically smallest id is).
func firstEntryPoint(entries []string) string {
	if len(entries) == 0 {
		return ""
	}
	sort.Strings(entries)
	return entries[0]
}
