package gentables

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dshills/locale/pkg/rng"
)

// WeightedEntry is a named option with a selection weight, used for
// embellishments and special-feature categories.
type WeightedEntry struct {
	Name   string `yaml:"name" json:"name"`
	Weight int    `yaml:"weight" json:"weight"`
}

// FailureFlavor pairs a failure_consequences type (spec §4.C4) with flavor text
// a generator or the constraint builder can surface in an action's description.
type FailureFlavor struct {
	Type        string `yaml:"type" json:"type"`
	Description string `yaml:"description" json:"description"`
}

// ContextFragments are the sentence pieces generate_context assembles into the
// 40-200 word sensory description (spec §4.C2).
type ContextFragments struct {
	// Variants holds one description fragment per top-level variant index.
	Variants []string `yaml:"variants" json:"variants"`
	// WaterFeature is appended when the water-feature draw is true.
	WaterFeature string `yaml:"water_feature" json:"water_feature"`
	// ElevationFeature is appended when the elevation draw is true.
	ElevationFeature string `yaml:"elevation_feature" json:"elevation_feature"`
}

// BiomeTable is the per-location-type data a Feature Generator consults: its
// skill vocabulary, failure-consequence flavors, and the weighted pools it
// draws embellishments and special features from. Loaded once from YAML, the
// same way the reference implementation's theme packs are loaded.
type BiomeTable struct {
	LocationType     string           `yaml:"location_type" json:"location_type"`
	SkillVocabulary  []string         `yaml:"skill_vocabulary" json:"skill_vocabulary"`
	FailureFlavors   []FailureFlavor  `yaml:"failure_flavors" json:"failure_flavors"`
	Embellishments   []WeightedEntry  `yaml:"embellishments" json:"embellishments"`
	SpecialFeatures  []WeightedEntry  `yaml:"special_features" json:"special_features"`
	ContextFragments ContextFragments `yaml:"context_fragments" json:"context_fragments"`
}

// LoadBiomeTableFromFile loads a biome table from a YAML file.
func LoadBiomeTableFromFile(path string) (*BiomeTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading biome table file: %w", err)
	}

	var table BiomeTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing biome table YAML: %w", err)
	}
	if err := ValidateBiomeTable(&table); err != nil {
		return nil, err
	}
	return &table, nil
}

// LoadBiomeTableFromDirectory loads table.yml (or table.yaml) from dir.
func LoadBiomeTableFromDirectory(dir string) (*BiomeTable, error) {
	path := filepath.Join(dir, "table.yml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		path = filepath.Join(dir, "table.yaml")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("biome table file not found in directory: %s", dir)
		}
	}
	return LoadBiomeTableFromFile(path)
}

// ValidateBiomeTable checks a table has the minimum data a generator needs:
// a location type, a non-empty skill vocabulary (invariant behind
// related_skill's fixed vocabulary, spec §4.C4), and well-formed weights.
func ValidateBiomeTable(t *BiomeTable) error {
	if t.LocationType == "" {
		return errors.New("location_type is required")
	}
	if len(t.SkillVocabulary) == 0 {
		return errors.New("at least one skill is required in skill_vocabulary")
	}
	for _, f := range t.FailureFlavors {
		if f.Type == "" {
			return errors.New("failure flavor type is required")
		}
	}
	check := func(field string, entries []WeightedEntry) error {
		for _, e := range entries {
			if e.Name == "" {
				return fmt.Errorf("%s entry name is required", field)
			}
			if e.Weight <= 0 {
				return fmt.Errorf("%s entry %q: weight must be positive", field, e.Name)
			}
		}
		return nil
	}
	if err := check("embellishments", t.Embellishments); err != nil {
		return err
	}
	return check("special_features", t.SpecialFeatures)
}

// SelectWeighted performs weighted random selection over entries using r.
// Returns nil if entries is empty or every weight is zero; a negative weight
// panics (in rng.WeightedChoice).
func SelectWeighted(entries []WeightedEntry, r *rng.RNG) *WeightedEntry {
	if len(entries) == 0 {
		return nil
	}
	weights := make([]float64, len(entries))
	for i, e := range entries {
		weights[i] = float64(e.Weight)
	}
	idx := r.WeightedChoice(weights)
	if idx < 0 {
		return nil
	}
	return &entries[idx]
}

// FailureFlavorFor returns the flavor text registered for a given failure
// type, or ok=false if the table declares none.
func (t *BiomeTable) FailureFlavorFor(failureType string) (string, bool) {
	for _, f := range t.FailureFlavors {
		if f.Type == failureType {
			return f.Description, true
		}
	}
	return "", false
}
