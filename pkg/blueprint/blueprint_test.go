package blueprint

import "testing"

func mustAddSub(t *testing.T, b *Blueprint, id, parent string, conns ...string) {
	t.Helper()
	s := NewSublocation(id, id, "")
	s.ParentID = parent
	s.DirectConnections = conns
	if err := b.AddSublocation(s); err != nil {
		t.Fatalf("AddSublocation(%s): %v", id, err)
	}
}

func TestBlueprint_AddStateCategoryDuplicate(t *testing.T) {
	b := New("loc-1", "forest")
	cat := NewStateCategory("time_of_day", "Time of Day", ScopeLocation)
	cat.AddState(&LocationState{ID: "day"})
	cat.DefaultStateID = "day"

	if err := b.AddStateCategory(cat); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := b.AddStateCategory(cat); err == nil {
		t.Fatal("expected error on duplicate category id")
	}
}

func TestBlueprint_AddStateCategoryRejectsUnresolvedDefault(t *testing.T) {
	b := New("loc-1", "forest")
	cat := NewStateCategory("time_of_day", "Time of Day", ScopeLocation)
	cat.AddState(&LocationState{ID: "day"})
	cat.DefaultStateID = "night"

	if err := b.AddStateCategory(cat); err == nil {
		t.Fatal("expected error for unresolved default state id")
	}
}

func TestBlueprint_EntryPoints(t *testing.T) {
	b := New("loc-1", "forest")
	mustAddSub(t, b, "entry", "", "clearing")
	mustAddSub(t, b, "clearing", "entry")
	mustAddSub(t, b, "cave", "clearing")

	entries := b.EntryPoints()
	if len(entries) != 1 || entries[0] != "entry" {
		t.Fatalf("expected exactly [entry], got %v", entries)
	}
}

func TestBlueprint_Reachable(t *testing.T) {
	b := New("loc-1", "forest")
	mustAddSub(t, b, "entry", "", "clearing")
	mustAddSub(t, b, "clearing", "entry", "cave")
	mustAddSub(t, b, "cave", "clearing")
	mustAddSub(t, b, "isolated", "")

	reach := b.Reachable("entry")
	for _, id := range []string{"entry", "clearing", "cave"} {
		if !reach[id] {
			t.Errorf("expected %s to be reachable from entry", id)
		}
	}
	if reach["isolated"] {
		t.Error("isolated should not be reachable from entry")
	}
}

func TestBlueprint_ConnectedFromWeakConnectivity(t *testing.T) {
	b := New("loc-1", "forest")
	mustAddSub(t, b, "entry", "")
	mustAddSub(t, b, "pit", "")
	// one-way edge: can fall into the pit but not climb out.
	if err := b.AddConnection("entry", "pit", false); err != nil {
		t.Fatalf("AddConnection: %v", err)
	}

	if !b.ConnectedFrom("entry") {
		t.Error("expected weak connectivity to hold across a one-way edge")
	}

	directedReach := b.Reachable("pit")
	if directedReach["entry"] {
		t.Error("directed reachability should not allow climbing back out of the pit")
	}
}

func TestBlueprint_AddConnectionRejectsUnknownSublocation(t *testing.T) {
	b := New("loc-1", "forest")
	mustAddSub(t, b, "entry", "")

	if err := b.AddConnection("entry", "nowhere", true); err == nil {
		t.Fatal("expected error connecting to a nonexistent sublocation")
	}
}

func TestBlueprint_AddConnectionRejectsSelfLoop(t *testing.T) {
	b := New("loc-1", "forest")
	mustAddSub(t, b, "entry", "")

	if err := b.AddConnection("entry", "entry", true); err == nil {
		t.Fatal("expected error on self-loop")
	}
}

func TestBlueprint_SetContentRequiresKnownSublocation(t *testing.T) {
	b := New("loc-1", "forest")
	mustAddSub(t, b, "entry", "")

	err := b.SetContent(ContentKey{SublocationID: "entry", StateSig: ""}, &LocationContent{Items: []string{"rusty_key"}})
	if err != nil {
		t.Fatalf("SetContent on known sublocation: %v", err)
	}

	err = b.SetContent(ContentKey{SublocationID: "ghost", StateSig: ""}, &LocationContent{})
	if err == nil {
		t.Fatal("expected error setting content on unknown sublocation")
	}
}

func TestStateSignature_SortsCategoriesDeterministically(t *testing.T) {
	active := map[string]string{"time_of_day": "night", "weather": "storm"}
	sig1 := StateSignature(active, []string{"weather", "time_of_day"})
	sig2 := StateSignature(active, []string{"time_of_day", "weather"})
	if sig1 != sig2 {
		t.Fatalf("signature should be order-independent: %q vs %q", sig1, sig2)
	}
	if sig1 != "time_of_day=night,weather=storm" {
		t.Fatalf("unexpected signature: %q", sig1)
	}
}

func TestPartialSignatures_MostSpecificFirstEndingEmpty(t *testing.T) {
	active := map[string]string{"a": "1", "b": "2"}
	sigs := PartialSignatures(active, []string{"a", "b"})
	if len(sigs) != 3 {
		t.Fatalf("expected 3 signatures (2 categories + empty), got %d: %v", len(sigs), sigs)
	}
	if sigs[len(sigs)-1] != "" {
		t.Fatalf("expected last signature to be empty (sublocation-only fallback), got %q", sigs[len(sigs)-1])
	}
	if sigs[0] != "a=1,b=2" {
		t.Fatalf("expected most specific signature first, got %q", sigs[0])
	}
}
