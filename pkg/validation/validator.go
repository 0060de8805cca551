package validation

import (
	"fmt"
	"strings"

	"github.com/dshills/locale/pkg/blueprint"
)

// Failure names one invariant (1-4, per spec) that a blueprint violates, with a
// human-readable detail.
type Failure struct {
	Invariant int
	Message   string
}

func (f Failure) String() string {
	return fmt.Sprintf("invariant %d: %s", f.Invariant, f.Message)
}

// Report is the outcome of validating a Blueprint.
type Report struct {
	Passed   bool
	Failures []Failure
}

func (r *Report) fail(invariant int, format string, args ...any) {
	r.Passed = false
	r.Failures = append(r.Failures, Failure{Invariant: invariant, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a Blueprint against invariants 1-4. It is pure: no I/O, no
// randomness, and it never mutates the blueprint.
func Validate(bp *blueprint.Blueprint) *Report {
	report := &Report{Passed: true}

	checkParentChain(bp, report)
	checkReferencesResolve(bp, report)
	checkDefaultStatesTriviallyLegal(bp, report)
	checkConnectivity(bp, report)

	return report
}

// checkParentChain verifies invariant 1: every parent_sublocation_id resolves
// and the parent chain contains no cycles.
func checkParentChain(bp *blueprint.Blueprint, report *Report) {
	for id, sub := range bp.Sublocations {
		if sub.ParentID == "" {
			continue
		}
		if _, ok := bp.Sublocations[sub.ParentID]; !ok {
			report.fail(1, "sublocation %s: parent %s does not resolve", id, sub.ParentID)
			continue
		}

		visited := map[string]bool{id: true}
		cur := sub.ParentID
		for cur != "" {
			if visited[cur] {
				report.fail(1, "sublocation %s: cycle in parent chain at %s", id, cur)
				break
			}
			visited[cur] = true
			parent, ok := bp.Sublocations[cur]
			if !ok {
				break
			}
			cur = parent.ParentID
		}
	}
}

// checkReferencesResolve verifies invariant 2: every id referenced in
// connections, required/forbidden states, content_map keys, and state
// default/local references resolves within the blueprint.
func checkReferencesResolve(bp *blueprint.Blueprint, report *Report) {
	for from, adj := range bp.Connections {
		if _, ok := bp.Sublocations[from]; !ok {
			report.fail(2, "connections: source sublocation %s does not resolve", from)
		}
		for to := range adj {
			if _, ok := bp.Sublocations[to]; !ok {
				report.fail(2, "connections: target sublocation %s (from %s) does not resolve", to, from)
			}
		}
	}

	checkRefs := func(owner string, refs []blueprint.StateRef) {
		for _, ref := range refs {
			cat, state, err := ref.Split()
			if err != nil {
				report.fail(2, "%s: malformed state ref %q", owner, ref)
				continue
			}
			category, ok := bp.StateCategories[cat]
			if !ok {
				report.fail(2, "%s: state ref %q: category %s does not resolve", owner, ref, cat)
				continue
			}
			if _, ok := category.PossibleStates[state]; !ok {
				report.fail(2, "%s: state ref %q: state %s does not resolve in category %s", owner, ref, state, cat)
			}
		}
	}

	for id, sub := range bp.Sublocations {
		checkRefs(fmt.Sprintf("sublocation %s", id), sub.Required)
		checkRefs(fmt.Sprintf("sublocation %s", id), sub.Forbidden)

		for catID, stateID := range sub.LocalStates {
			category, ok := bp.StateCategories[catID]
			if !ok {
				report.fail(2, "sublocation %s: local state category %s does not resolve", id, catID)
				continue
			}
			if _, ok := category.PossibleStates[stateID]; !ok {
				report.fail(2, "sublocation %s: local state %s does not resolve in category %s", id, stateID, catID)
			}
		}
	}

	for catID, category := range bp.StateCategories {
		for stateID, state := range category.PossibleStates {
			checkRefs(fmt.Sprintf("state %s.%s", catID, stateID), state.Required)
			checkRefs(fmt.Sprintf("state %s.%s", catID, stateID), state.Forbidden)
		}
	}

	for key := range bp.ContentMap {
		if _, ok := bp.Sublocations[key.SublocationID]; !ok {
			report.fail(2, "content_map: sublocation %s does not resolve", key.SublocationID)
			continue
		}
		if key.StateSig == "" {
			continue
		}
		for _, pair := range strings.Split(key.StateSig, ",") {
			parts := strings.SplitN(pair, "=", 2)
			if len(parts) != 2 {
				report.fail(2, "content_map: malformed state signature component %q", pair)
				continue
			}
			category, ok := bp.StateCategories[parts[0]]
			if !ok {
				report.fail(2, "content_map: state signature category %s does not resolve", parts[0])
				continue
			}
			if _, ok := category.PossibleStates[parts[1]]; !ok {
				report.fail(2, "content_map: state signature state %s does not resolve in category %s", parts[1], parts[0])
			}
		}
	}
}

// checkDefaultStatesTriviallyLegal verifies invariant 3: a category's default
// state must be legally enterable with no other state active, which means it
// can declare no required_states (an empty active-state configuration can
// never satisfy a required reference).
func checkDefaultStatesTriviallyLegal(bp *blueprint.Blueprint, report *Report) {
	for catID, category := range bp.StateCategories {
		def, ok := category.PossibleStates[category.DefaultStateID]
		if !ok {
			report.fail(3, "category %s: default_state_id %q does not resolve", catID, category.DefaultStateID)
			continue
		}
		if len(def.Required) > 0 {
			report.fail(3, "category %s: default state %s declares required_states %v, unreachable from an empty configuration",
				catID, def.ID, def.Required)
		}
	}
}

// checkConnectivity verifies invariant 4: the sublocation graph is connected
// from at least one designated entry sublocation (parent == none), treating
// connections as undirected.
func checkConnectivity(bp *blueprint.Blueprint, report *Report) {
	if len(bp.Sublocations) == 0 {
		return
	}

	entries := bp.EntryPoints()
	if len(entries) == 0 {
		report.fail(4, "no entry sublocation (parent == none) found")
		return
	}

	for _, entry := range entries {
		if bp.ConnectedFrom(entry) {
			return
		}
	}
	report.fail(4, "no entry sublocation reaches every other sublocation (tried %v)", entries)
}
