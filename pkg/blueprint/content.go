package blueprint

import (
	"fmt"
	"sort"
	"strings"
)

// LocationContent is the set of opaque identifiers a (sublocation, state
// signature) pair may offer as constraint alternatives. The engine never
// interprets these strings; it only enumerates them (spec §3).
type LocationContent struct {
	Items      []string
	Companions []string
	Quests     []string
	NPCs       []string
	Actions    []string
}

// ContentKey identifies an entry in a Blueprint's content map: a sublocation plus
// the canonical signature of the active-state configuration it was authored for.
type ContentKey struct {
	SublocationID string
	StateSig      string
}

// String renders the key for use as a map key in serialized form / debugging.
func (k ContentKey) String() string {
	return k.SublocationID + "#" + k.StateSig
}

// StateSignature canonically serializes an active-state mapping restricted to a
// set of category ids of interest, for content-map lookups (spec §4.C4). Category
// ids are sorted so that the same active configuration always signs identically
// regardless of map iteration order.
func StateSignature(active map[string]string, categories []string) string {
	sorted := make([]string, len(categories))
	copy(sorted, categories)
	sort.Strings(sorted)

	parts := make([]string, 0, len(sorted))
	for _, cat := range sorted {
		if state, ok := active[cat]; ok {
			parts = append(parts, cat+"="+state)
		}
	}
	return strings.Join(parts, ",")
}

// PartialSignatures returns every signature obtained by dropping zero or more
// trailing categories (after sorting), most-specific first, ending with the
// empty (sublocation-only) signature. The constraint builder falls back through
// these when an exact signature has no content entry.
func PartialSignatures(active map[string]string, categories []string) []string {
	sorted := make([]string, len(categories))
	copy(sorted, categories)
	sort.Strings(sorted)

	sigs := make([]string, 0, len(sorted)+1)
	for n := len(sorted); n >= 0; n-- {
		parts := make([]string, 0, n)
		for _, cat := range sorted[:n] {
			if state, ok := active[cat]; ok {
				parts = append(parts, cat+"="+state)
			}
		}
		sigs = append(sigs, strings.Join(parts, ","))
	}
	return sigs
}

// Validate checks that LocationContent carries no empty identifiers.
func (c *LocationContent) Validate() error {
	if c == nil {
		return nil
	}
	check := func(field string, ids []string) error {
		for _, id := range ids {
			if strings.TrimSpace(id) == "" {
				return fmt.Errorf("content: empty %s identifier", field)
			}
		}
		return nil
	}
	if err := check("item", c.Items); err != nil {
		return err
	}
	if err := check("companion", c.Companions); err != nil {
		return err
	}
	if err := check("quest", c.Quests); err != nil {
		return err
	}
	if err := check("npc", c.NPCs); err != nil {
		return err
	}
	return check("action", c.Actions)
}
