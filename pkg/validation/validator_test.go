package validation_test

import (
	"testing"

	"github.com/dshills/locale/pkg/blueprint"
	"github.com/dshills/locale/pkg/validation"
)

func minimalValidBlueprint(t *testing.T) *blueprint.Blueprint {
	t.Helper()
	bp := blueprint.New("forest_1", "forest")

	cat := blueprint.NewStateCategory("time_of_day", "Time of Day", blueprint.ScopeLocation)
	if err := cat.AddState(&blueprint.LocationState{ID: "day"}); err != nil {
		t.Fatal(err)
	}
	if err := cat.AddState(&blueprint.LocationState{ID: "night"}); err != nil {
		t.Fatal(err)
	}
	cat.DefaultStateID = "day"
	if err := bp.AddStateCategory(cat); err != nil {
		t.Fatal(err)
	}

	entry := blueprint.NewSublocation("entry", "Entry", "")
	entry.DirectConnections = []string{"clearing"}
	if err := bp.AddSublocation(entry); err != nil {
		t.Fatal(err)
	}
	clearing := blueprint.NewSublocation("clearing", "Clearing", "")
	clearing.ParentID = "entry"
	if err := bp.AddSublocation(clearing); err != nil {
		t.Fatal(err)
	}
	if err := bp.AddConnection("entry", "clearing", true); err != nil {
		t.Fatal(err)
	}
	return bp
}

func TestValidate_MinimalBlueprintPasses(t *testing.T) {
	bp := minimalValidBlueprint(t)
	report := validation.Validate(bp)
	if !report.Passed {
		t.Fatalf("expected minimal blueprint to pass, failures: %v", report.Failures)
	}
}

func TestValidate_CatchesParentCycle(t *testing.T) {
	bp := minimalValidBlueprint(t)
	// Force a cycle: entry's parent becomes clearing, clearing's parent is entry.
	bp.Sublocations["entry"].ParentID = "clearing"

	report := validation.Validate(bp)
	if report.Passed {
		t.Fatal("expected failure for parent cycle")
	}
	if !hasInvariant(report, 1) {
		t.Errorf("expected invariant 1 failure, got %v", report.Failures)
	}
}

func TestValidate_CatchesUnresolvedStateRef(t *testing.T) {
	bp := minimalValidBlueprint(t)
	bp.Sublocations["clearing"].Required = []blueprint.StateRef{
		blueprint.NewStateRef("weather", "storm"),
	}

	report := validation.Validate(bp)
	if report.Passed {
		t.Fatal("expected failure for unresolved state category reference")
	}
	if !hasInvariant(report, 2) {
		t.Errorf("expected invariant 2 failure, got %v", report.Failures)
	}
}

func TestValidate_CatchesUnreachableDefaultState(t *testing.T) {
	bp := minimalValidBlueprint(t)
	cat := bp.StateCategories["time_of_day"]
	cat.PossibleStates["night"].Required = []blueprint.StateRef{
		blueprint.NewStateRef("time_of_day", "day"),
	}
	cat.DefaultStateID = "night"

	report := validation.Validate(bp)
	if report.Passed {
		t.Fatal("expected failure for a default state that declares required_states")
	}
	if !hasInvariant(report, 3) {
		t.Errorf("expected invariant 3 failure, got %v", report.Failures)
	}
}

func TestValidate_CatchesDisconnectedGraph(t *testing.T) {
	bp := minimalValidBlueprint(t)
	island := blueprint.NewSublocation("island", "Island", "")
	if err := bp.AddSublocation(island); err != nil {
		t.Fatal(err)
	}
	// island has no connections to the rest of the graph, and has no parent,
	// so it is a second entry point that cannot be reached from "entry".

	report := validation.Validate(bp)
	if report.Passed {
		t.Fatal("expected failure for disconnected sublocation")
	}
	if !hasInvariant(report, 4) {
		t.Errorf("expected invariant 4 failure, got %v", report.Failures)
	}
}

func TestValidate_NoEntryPointFails(t *testing.T) {
	bp := blueprint.New("forest_1", "forest")
	a := blueprint.NewSublocation("a", "A", "")
	a.ParentID = "b"
	b := blueprint.NewSublocation("b", "B", "")
	b.ParentID = "a"
	// AddSublocation errors are ignored: only "no entry point" detection is
	// exercised here
	_ = bp.AddSublocation(b)
	_ = bp.AddSublocation(a)

	report := validation.Validate(bp)
	if report.Passed {
		t.Fatal("expected failure: no sublocation has parent == none")
	}
	if !hasInvariant(report, 4) {
		t.Errorf("expected invariant 4 failure, got %v", report.Failures)
	}
}

func hasInvariant(report *validation.Report, n int) bool {
	for _, f := range report.Failures {
		if f.Invariant == n {
			return true
		}
	}
	return false
}
