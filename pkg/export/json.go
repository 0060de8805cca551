package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dshills/locale/pkg/blueprint"
	"github.com/dshills/locale/pkg/instance"
)

// ExportJSON serializes a LocationInstanceState with 2-space indentation.
// The Blueprint field is never included (spec §6: blueprints are not
// persisted, only regenerated from location_id).
func ExportJSON(state *instance.LocationInstanceState) ([]byte, error) {
	return json.MarshalIndent(state, "", "  ")
}

// ExportJSONCompact serializes a LocationInstanceState without indentation.
func ExportJSONCompact(state *instance.LocationInstanceState) ([]byte, error) {
	return json.Marshal(state)
}

// SaveJSONToFile writes the exported JSON to filepath with 0644 permissions.
func SaveJSONToFile(state *instance.LocationInstanceState, filepath string) error {
	data, err := ExportJSON(state)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

// ImportJSON parses a persisted LocationInstanceState and re-attaches bp as
// its Blueprint. bp must have been freshly regenerated from the same
// location_id the snapshot names; a mismatch is rejected.
func ImportJSON(data []byte, bp *blueprint.Blueprint) (*instance.LocationInstanceState, error) {
	var state instance.LocationInstanceState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("export: parsing instance state: %w", err)
	}
	if bp.LocationID != state.LocationID {
		return nil, fmt.Errorf("export: blueprint location_id %q does not match snapshot %q", bp.LocationID, state.LocationID)
	}
	state.Blueprint = bp
	return &state, nil
}

// LoadJSONFromFile reads and parses a persisted instance state from filepath.
func LoadJSONFromFile(filepath string, bp *blueprint.Blueprint) (*instance.LocationInstanceState, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return ImportJSON(data, bp)
}
