package gentables_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/locale/pkg/gentables"
	"github.com/dshills/locale/pkg/rng"
)

func writeTable(t *testing.T, dir, yamlData string) string {
	t.Helper()
	path := filepath.Join(dir, "table.yml")
	if err := os.WriteFile(path, []byte(yamlData), 0o644); err != nil {
		t.Fatalf("writing table file: %v", err)
	}
	return path
}

func TestLoadBiomeTableFromFile(t *testing.T) {
	tests := []struct {
		name     string
		yamlData string
		wantErr  bool
	}{
		{
			name: "valid forest table",
			yamlData: `
location_type: forest
skill_vocabulary:
  - stealth
  - foraging
  - tracking
failure_flavors:
  - type: startled_wildlife
    description: a branch snaps underfoot
embellishments:
  - name: berry_patch
    weight: 10
  - name: fallen_log
    weight: 8
special_features:
  - name: ancient_grove
    weight: 3
context_fragments:
  variants:
    - "a dense evergreen canopy"
    - "a sunlit birch stand"
  water_feature: "a brook threads through the underbrush"
  elevation_feature: "the ground rises toward a rocky ridge"
`,
			wantErr: false,
		},
		{
			name: "missing location_type",
			yamlData: `
skill_vocabulary:
  - stealth
`,
			wantErr: true,
		},
		{
			name: "empty skill vocabulary",
			yamlData: `
location_type: forest
skill_vocabulary: []
`,
			wantErr: true,
		},
		{
			name: "non-positive weight",
			yamlData: `
location_type: forest
skill_vocabulary: [stealth]
embellishments:
  - name: berry_patch
    weight: 0
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeTable(t, dir, tt.yamlData)

			table, err := gentables.LoadBiomeTableFromFile(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if table.LocationType != "forest" {
				t.Errorf("LocationType = %q, want forest", table.LocationType)
			}
		})
	}
}

func TestLoadBiomeTableFromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "location_type: forest\nskill_vocabulary: [stealth]\n")

	table, err := gentables.LoadBiomeTableFromDirectory(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.LocationType != "forest" {
		t.Errorf("LocationType = %q, want forest", table.LocationType)
	}
}

func TestLoadBiomeTableFromDirectory_Missing(t *testing.T) {
	dir := t.TempDir()
	if _, err := gentables.LoadBiomeTableFromDirectory(dir); err == nil {
		t.Fatal("expected error for directory with no table file")
	}
}

func TestSelectWeighted_EmptyEntries(t *testing.T) {
	r := rng.New(1, "test", nil)
	if got := gentables.SelectWeighted(nil, r); got != nil {
		t.Errorf("expected nil for empty entries, got %v", got)
	}
}

func TestSelectWeighted_Deterministic(t *testing.T) {
	entries := []gentables.WeightedEntry{
		{Name: "berry_patch", Weight: 10},
		{Name: "fallen_log", Weight: 1},
	}

	r1 := rng.New(42, "embellishment", nil)
	r2 := rng.New(42, "embellishment", nil)

	got1 := gentables.SelectWeighted(entries, r1)
	got2 := gentables.SelectWeighted(entries, r2)

	if got1 == nil || got2 == nil {
		t.Fatal("expected non-nil selections")
	}
	if got1.Name != got2.Name {
		t.Errorf("same seed produced different selections: %q vs %q", got1.Name, got2.Name)
	}
}

func TestFailureFlavorFor(t *testing.T) {
	table := &gentables.BiomeTable{
		FailureFlavors: []gentables.FailureFlavor{
			{Type: "startled_wildlife", Description: "a branch snaps underfoot"},
		},
	}

	desc, ok := table.FailureFlavorFor("startled_wildlife")
	if !ok || desc != "a branch snaps underfoot" {
		t.Errorf("FailureFlavorFor(startled_wildlife) = (%q, %v)", desc, ok)
	}

	if _, ok := table.FailureFlavorFor("ejection"); ok {
		t.Error("expected ok=false for unregistered failure type")
	}
}
