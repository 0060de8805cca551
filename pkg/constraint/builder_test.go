package constraint_test

import (
	"testing"

	"github.com/dshills/locale/pkg/blueprint"
	"github.com/dshills/locale/pkg/constraint"
)

func testBlueprint(t *testing.T) *blueprint.Blueprint {
	t.Helper()
	bp := blueprint.New("forest_1", "forest")

	tod := blueprint.NewStateCategory("time_of_day", "Time of Day", blueprint.ScopeLocation)
	tod.AddState(&blueprint.LocationState{ID: "day"})
	tod.AddState(&blueprint.LocationState{ID: "night"})
	tod.DefaultStateID = "day"
	if err := bp.AddStateCategory(tod); err != nil {
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

	if err := bp.SetContent(blueprint.ContentKey{SublocationID: "entry", StateSig: ""}, &blueprint.LocationContent{
		Items: []string{"rusty_key"},
	}); err != nil {
		t.Fatal(err)
	}

	return bp
}

func TestBuild_UnknownSublocationErrors(t *testing.T) {
	bp := testBlueprint(t)
	_, err := constraint.Build(bp, "nowhere", map[string]string{"time_of_day": "day"}, []string{"stealth"}, nil)
	if err == nil {
		t.Fatal("expected error for unknown sublocation")
	}
}

func TestBuild_StateChangeOffersOtherStates(t *testing.T) {
	bp := testBlueprint(t)
	c, err := constraint.Build(bp, "entry", map[string]string{"time_of_day": "day"}, []string{"stealth"}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !c.SuccessConsequences.StateChange.Present() {
		t.Fatal("expected a state change choice to be present")
	}
	found := false
	for _, opt := range c.SuccessConsequences.StateChange.Options {
		if opt.Category == "time_of_day" && opt.NewState == "night" {
			found = true
		}
		if opt.NewState == "day" {
			t.Error("current state should not appear as a change option")
		}
	}
	if !found {
		t.Error("expected time_of_day -> night to be offered")
	}
}

func TestBuild_SublocationChangeOffersNeighborAndChild(t *testing.T) {
	bp := testBlueprint(t)
	c, err := constraint.Build(bp, "entry", map[string]string{"time_of_day": "day"}, []string{"stealth"}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	opts := c.SuccessConsequences.SublocationChange.Options
	if len(opts) != 1 || opts[0] != "clearing" {
		t.Errorf("expected [clearing], got %v", opts)
	}
}

func TestBuild_SublocationChangeNoneWhenIsolated(t *testing.T) {
	bp := blueprint.New("forest_2", "forest")
	solo := blueprint.NewSublocation("solo", "Solo", "")
	if err := bp.AddSublocation(solo); err != nil {
		t.Fatal(err)
	}
	c, err := constraint.Build(bp, "solo", map[string]string{}, []string{"stealth"}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	opts := c.SuccessConsequences.SublocationChange.Options
	if len(opts) != 1 || opts[0] != "none" {
		t.Errorf("expected [none] for an isolated sublocation, got %v", opts)
	}
}

func TestBuild_ContentLookupFallsBackToSublocationOnly(t *testing.T) {
	bp := testBlueprint(t)
	// active state has no exact-signature content entry, only the sublocation-only ("") entry.
	c, err := constraint.Build(bp, "entry", map[string]string{"time_of_day": "night"}, []string{"stealth"}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c.SuccessConsequences.ItemGained == nil {
		t.Fatal("expected item gained choice via sublocation-only fallback")
	}
	if c.SuccessConsequences.ItemGained.Options[0] != "rusty_key" {
		t.Errorf("expected rusty_key, got %v", c.SuccessConsequences.ItemGained.Options)
	}
}

func TestBuild_FailureTypesIncludeBuiltinsAndExtras(t *testing.T) {
	bp := testBlueprint(t)
	c, err := constraint.Build(bp, "entry", map[string]string{"time_of_day": "day"}, []string{"stealth"}, []string{"cursed"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	opts := c.FailureConsequences.Type.Options
	hasBuiltin, hasExtra := false, false
	for _, o := range opts {
		if o == "lost" {
			hasBuiltin = true
		}
		if o == "cursed" {
			hasExtra = true
		}
	}
	if !hasBuiltin || !hasExtra {
		t.Errorf("expected both builtin and extra failure types, got %v", opts)
	}
}

func TestBuild_DifficultyRangeIsOneToFive(t *testing.T) {
	bp := testBlueprint(t)
	c, err := constraint.Build(bp, "entry", map[string]string{"time_of_day": "day"}, []string{"stealth"}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c.Difficulty.Min != 1 || c.Difficulty.Max != 5 {
		t.Errorf("expected difficulty range 1..5, got %d..%d", c.Difficulty.Min, c.Difficulty.Max)
	}
}
