package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/dshills/locale/pkg/blueprint"
	"github.com/dshills/locale/pkg/gentables"
	"github.com/dshills/locale/pkg/rng"
	"github.com/dshills/locale/pkg/validation"
)

// forestVariant names the four top-level forest shapes a generator call may
// draw (spec §4.C2 draw i).
var forestVariantNames = []string{"deep_evergreen", "birch_stand", "mixed_canopy", "burned_clearing"}

// ForestGenerator is the reference generator named in spec §4.C2. Its draw
// order is fixed: (i) top-level variant, (ii) water feature presence,
// (iii) elevation presence, (iv) special-feature category, (v) per-sublocation
// embellishments. Any reimplementation must preserve this order to keep the
// same location id producing the same blueprint across languages.
type ForestGenerator struct {
	table *gentables.BiomeTable
}

// NewForestGenerator builds a forest generator backed by the given table.
func NewForestGenerator(table *gentables.BiomeTable) *ForestGenerator {
	return &ForestGenerator{table: table}
}

// LocationType implements Generator.
func (g *ForestGenerator) LocationType() string { return "forest" }

// SkillVocabulary implements Generator.
func (g *ForestGenerator) SkillVocabulary() []string { return g.table.SkillVocabulary }

// GenerateContext implements Generator.
func (g *ForestGenerator) GenerateContext(locationID string) (string, error) {
	r := rng.ForLocation(locationID, "forest")
	variantIdx := r.Intn(len(forestVariantNames))
	hasWater := r.Bool()
	hasElevation := r.Bool()

	var parts []string
	if variantIdx < len(g.table.ContextFragments.Variants) {
		parts = append(parts, g.table.ContextFragments.Variants[variantIdx])
	} else {
		parts = append(parts, forestVariantNames[variantIdx]+".")
	}
	if hasWater && g.table.ContextFragments.WaterFeature != "" {
		parts = append(parts, g.table.ContextFragments.WaterFeature)
	}
	if hasElevation && g.table.ContextFragments.ElevationFeature != "" {
		parts = append(parts, g.table.ContextFragments.ElevationFeature)
	}
	return strings.Join(parts, " "), nil
}

// GenerateBlueprint implements Generator. It draws, in order: top-level
// variant, water feature, elevation, special-feature category, then
// per-sublocation embellishments, and validates the result before returning.
func (g *ForestGenerator) GenerateBlueprint(ctx context.Context, locationID string) (*blueprint.Blueprint, error) {
	r := rng.ForLocation(locationID, "forest")

	// (i) top-level variant.
	variantIdx := r.Intn(len(forestVariantNames))
	variant := forestVariantNames[variantIdx]

	// (ii) water feature presence.
	hasWater := r.Bool()

	// (iii) elevation presence.
	hasElevation := r.Bool()

	// (iv) special-feature category.
	var special *gentables.WeightedEntry
	if len(g.table.SpecialFeatures) > 0 {
		special = gentables.SelectWeighted(g.table.SpecialFeatures, r)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	bp := blueprint.New(locationID, "forest")

	if err := addForestStateCategories(bp); err != nil {
		return nil, fmt.Errorf("forest generator %s: %w", locationID, err)
	}

	entry := blueprint.NewSublocation("entry", "Forest Edge", "where the treeline begins")
	thicket := blueprint.NewSublocation("thicket", "Thicket", "dense undergrowth")
	thicket.ParentID = "entry"
	clearing := blueprint.NewSublocation("clearing", "Clearing", "a patch of open sky, variant: "+variant)
	clearing.ParentID = "entry"
	deadwood := blueprint.NewSublocation("deadwood", "Deadwood Hollow", "a stand of fallen timber")
	deadwood.ParentID = "thicket"

	for _, s := range []*blueprint.Sublocation{entry, thicket, clearing, deadwood} {
		if err := bp.AddSublocation(s); err != nil {
			return nil, fmt.Errorf("forest generator %s: %w", locationID, err)
		}
	}
	if err := bp.AddConnection("entry", "thicket", true); err != nil {
		return nil, err
	}
	if err := bp.AddConnection("entry", "clearing", true); err != nil {
		return nil, err
	}
	if err := bp.AddConnection("thicket", "deadwood", true); err != nil {
		return nil, err
	}

	if hasWater {
		stream := blueprint.NewSublocation("stream_bank", "Stream Bank", "cold water over smooth stones")
		stream.ParentID = "clearing"
		if err := bp.AddSublocation(stream); err != nil {
			return nil, err
		}
		if err := bp.AddConnection("clearing", "stream_bank", true); err != nil {
			return nil, err
		}
	}

	if hasElevation {
		ridge := blueprint.NewSublocation("ridge", "Rocky Ridge", "the ground climbs toward open stone")
		ridge.ParentID = "clearing"
		if err := bp.AddSublocation(ridge); err != nil {
			return nil, err
		}
		if err := bp.AddConnection("clearing", "ridge", true); err != nil {
			return nil, err
		}

		cave := blueprint.NewSublocation("cave_mouth", "Cave Mouth", "a dark opening in the rock")
		cave.ParentID = "ridge"
		if err := bp.AddSublocation(cave); err != nil {
			return nil, err
		}
		if err := bp.AddConnection("ridge", "cave_mouth", true); err != nil {
			return nil, err
		}

		entranceChamber := blueprint.NewSublocation("entrance_chamber", "Entrance Chamber", "the first chamber, where daylight still reaches")
		entranceChamber.ParentID = "cave_mouth"
		entranceChamber.Forbidden = []blueprint.StateRef{blueprint.NewStateRef("time_of_day", "night")}
		if err := bp.AddSublocation(entranceChamber); err != nil {
			return nil, err
		}
		if err := bp.AddConnection("cave_mouth", "entrance_chamber", true); err != nil {
			return nil, err
		}
	}

	if special != nil {
		grove := blueprint.NewSublocation("feature_"+special.Name, strings.ReplaceAll(special.Name, "_", " "), "a notable feature: "+special.Name)
		grove.ParentID = "deadwood"
		if err := bp.AddSublocation(grove); err != nil {
			return nil, err
		}
		if err := bp.AddConnection("deadwood", "feature_"+special.Name, true); err != nil {
			return nil, err
		}
	}

	// (v) per-sublocation embellishments: the clearing, the deadwood and (when
	// present) the stream bank may each receive a named decorative detail,
	// drawn in a stable iteration order so the draw sequence is reproducible.
	leafIDs := []string{"clearing", "deadwood"}
	if hasWater {
		leafIDs = append(leafIDs, "stream_bank")
	}
	for _, id := range leafIDs {
		if len(g.table.Embellishments) == 0 {
			continue
		}
		pick := gentables.SelectWeighted(g.table.Embellishments, r)
		if pick != nil {
			sub := bp.Sublocations[id]
			sub.Description = sub.Description + "; " + strings.ReplaceAll(pick.Name, "_", " ")
		}
	}

	report := validation.Validate(bp)
	if !report.Passed {
		return nil, fmt.Errorf("forest generator %s: blueprint failed validation: %v", locationID, report.Failures)
	}

	return bp, nil
}

func addForestStateCategories(bp *blueprint.Blueprint) error {
	timeOfDay := blueprint.NewStateCategory("time_of_day", "Time of Day", blueprint.ScopeLocation)
	timeOfDay.AddState(&blueprint.LocationState{ID: "day"})
	timeOfDay.AddState(&blueprint.LocationState{ID: "night"})
	timeOfDay.DefaultStateID = "day"
	if err := bp.AddStateCategory(timeOfDay); err != nil {
		return err
	}

	weather := blueprint.NewStateCategory("weather", "Weather", blueprint.ScopeLocation)
	weather.AddState(&blueprint.LocationState{ID: "clear"})
	weather.AddState(&blueprint.LocationState{ID: "rain"})
	weather.AddState(&blueprint.LocationState{ID: "storm"})
	weather.DefaultStateID = "clear"
	if err := bp.AddStateCategory(weather); err != nil {
		return err
	}

	wildlife := blueprint.NewStateCategory("wildlife_state", "Wildlife State", blueprint.ScopeLocation)
	wildlife.AddState(&blueprint.LocationState{ID: "calm"})
	wildlife.AddState(&blueprint.LocationState{ID: "alert"})
	wildlife.AddState(&blueprint.LocationState{ID: "fled"})
	wildlife.DefaultStateID = "calm"
	if err := bp.AddStateCategory(wildlife); err != nil {
		return err
	}

	pathVisibility := blueprint.NewStateCategory("path_visibility", "Path Visibility", blueprint.ScopeSublocation)
	pathVisibility.AddState(&blueprint.LocationState{ID: "clear"})
	pathVisibility.AddState(&blueprint.LocationState{ID: "overgrown"})
	pathVisibility.DefaultStateID = "clear"
	return bp.AddStateCategory(pathVisibility)
}

// DefaultForestTable returns the built-in forest biome table used when no
// external table file is supplied (e.g. the CLI demo).
func DefaultForestTable() *gentables.BiomeTable {
	return &gentables.BiomeTable{
		LocationType:    "forest",
		SkillVocabulary: []string{"stealth", "foraging", "tracking", "athletics", "perception"},
		FailureFlavors: []gentables.FailureFlavor{
			{Type: "startled_wildlife", Description: "a branch snaps and something bolts through the brush"},
			{Type: "lost", Description: "the trees all start to look the same"},
			{Type: "minor_injury", Description: "a thorn catches bare skin"},
		},
		Embellishments: []gentables.WeightedEntry{
			{Name: "berry_patch", Weight: 10},
			{Name: "fallen_log", Weight: 10},
			{Name: "moss_covered_stone", Weight: 6},
			{Name: "animal_tracks", Weight: 8},
		},
		SpecialFeatures: []gentables.WeightedEntry{
			{Name: "ancient_grove", Weight: 3},
			{Name: "overgrown_ruin", Weight: 2},
			{Name: "hunters_blind", Weight: 4},
		},
		ContextFragments: gentables.ContextFragments{
			Variants: []string{
				"Tall evergreens crowd close overhead, their needles muffling every sound into a low, resinous hush. Fallen cones carpet the ground in uneven drifts, and the air tastes faintly of sap. Even at midday the light here comes thin and green, filtered through layer after layer of branch.",
				"Pale birches stand in loose ranks, bark peeling in papery curls that catch on every passing sleeve. Grass grows sparse between the trunks, and the wind moves easily through the open spacing, carrying the dry rattle of last year's leaves. Sound travels far under this thinner canopy.",
				"A mixed canopy of oak and pine lets dappled light reach the forest floor in shifting coins of gold. Underbrush grows thick wherever the sun lingers, tangled with bramble and fern, while older trunks stand scarred from seasons of wind and the slow press of lichen.",
				"Blackened trunks rise from a clearing scoured by an old fire, their bark cracked into charcoal scales that flake at the lightest touch. New growth pushes up pale and stubborn between the ruined stumps, and the ground underfoot is soft with ash gone gray and cold.",
			},
			WaterFeature:     "Nearby, a brook threads between mossy stones, its cold water loud enough to mask a careless footstep but clear enough to show every pebble on the bed.",
			ElevationFeature: "The ground rises steadily toward a rocky outcrop, where exposed stone breaks through the soil and the treeline finally thins enough to see the sky.",
		},
	}
}
