package interaction_test

import (
	"context"
	"testing"
	"time"

	"github.com/dshills/locale/pkg/blueprint"
	"github.com/dshills/locale/pkg/executor"
	"github.com/dshills/locale/pkg/instance"
	"github.com/dshills/locale/pkg/interaction"
	"github.com/dshills/locale/pkg/transport"
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

const directorJSON = `[{
	"action_text": "You creep quietly toward the clearing.",
	"success_consequences": {
		"state_change": null,
		"sublocation_change": "clearing",
		"item_gained": "rusty_key",
		"companion_gained": null,
		"quest_gained": null,
		"npc_gained": null
	},
	"failure_consequences": {"type": "lost", "description": "You stumble over a root."},
	"related_skill": "stealth",
	"difficulty": 1
}]`

func newLoop(t *testing.T) (*interaction.Loop, *transport.FakeTransport, *transport.Pool) {
	t.Helper()
	bp := testBlueprint(t)
	st := instance.New(bp, "entry", time.Now())

	fake := transport.NewFakeTransport()
	pool := transport.NewPool(fake)
	if err := pool.OpenCoreSlots(context.Background(), "d", "n"); err != nil {
		t.Fatal(err)
	}
	ex := executor.New(pool)
	loop := interaction.New(ex, st, []string{"stealth"}, nil, nil).WithCandidateCount(3)
	return loop, fake, pool
}

func TestLoop_FullCycleGeneratesChoosesExecutesApplies(t *testing.T) {
	loop, fake, pool := newLoop(t)
	fake.Enqueue(pool.Director(), transport.Response{JSON: []byte(directorJSON)})
	fake.Enqueue(pool.Narrator(), transport.Response{JSON: []byte(`{"narrative_text":"You slip past the roots unseen."}`)})

	choices, c, err := loop.GenerateActions(context.Background(), executor.PromptContext{})
	if err != nil {
		t.Fatalf("GenerateActions: %v", err)
	}
	if len(choices) != 1 {
		t.Fatalf("len(choices) = %d, want 1", len(choices))
	}
	if c == nil {
		t.Fatal("expected a non-nil constraint")
	}
	if loop.Phase() != interaction.AwaitingChoice {
		t.Fatalf("Phase = %s, want AwaitingChoice", loop.Phase())
	}

	if err := loop.Choose(0); err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if loop.Phase() != interaction.Executing {
		t.Fatalf("Phase = %s, want Executing", loop.Phase())
	}

	result, outcome, err := loop.ExecuteAndApply(context.Background(), executor.PromptContext{}, time.Now())
	if err != nil {
		t.Fatalf("ExecuteAndApply: %v", err)
	}
	if !result.WasSuccessful {
		t.Fatal("expected success with difficulty 1")
	}
	wantOutcome := interaction.Continue
	if result.CriticalFailure {
		wantOutcome = interaction.End
	}
	if outcome != wantOutcome {
		t.Errorf("Outcome = %v, want %v", outcome, wantOutcome)
	}
	if outcome == interaction.Continue && loop.Phase() != interaction.GeneratingActions {
		t.Errorf("Phase = %s, want GeneratingActions after Continue", loop.Phase())
	}
	if outcome == interaction.End && loop.Phase() != interaction.Ended {
		t.Errorf("Phase = %s, want Ended after End", loop.Phase())
	}
	if loop.State().CurrentSublocationID != "clearing" {
		t.Errorf("CurrentSublocationID = %q, want clearing", loop.State().CurrentSublocationID)
	}
}

func TestLoop_ChooseRejectsOutOfRangeIndex(t *testing.T) {
	loop, fake, pool := newLoop(t)
	fake.Enqueue(pool.Director(), transport.Response{JSON: []byte(directorJSON)})

	if _, _, err := loop.GenerateActions(context.Background(), executor.PromptContext{}); err != nil {
		t.Fatal(err)
	}
	if err := loop.Choose(5); err == nil {
		t.Fatal("expected error for out-of-range choice")
	}
}

func TestLoop_LeaveEndsImmediately(t *testing.T) {
	loop, fake, pool := newLoop(t)
	fake.Enqueue(pool.Director(), transport.Response{JSON: []byte(directorJSON)})

	if _, _, err := loop.GenerateActions(context.Background(), executor.PromptContext{}); err != nil {
		t.Fatal(err)
	}
	loop.Leave()
	if loop.Phase() != interaction.Ended {
		t.Fatalf("Phase = %s, want Ended", loop.Phase())
	}
}

func TestLoop_TerminalSublocationEndsInteraction(t *testing.T) {
	bp := testBlueprint(t)
	st := instance.New(bp, "entry", time.Now())
	fake := transport.NewFakeTransport()
	pool := transport.NewPool(fake)
	if err := pool.OpenCoreSlots(context.Background(), "d", "n"); err != nil {
		t.Fatal(err)
	}
	ex := executor.New(pool)
	loop := interaction.New(ex, st, []string{"stealth"}, nil, []string{"clearing"})

	fake.Enqueue(pool.Director(), transport.Response{JSON: []byte(directorJSON)})
	fake.Enqueue(pool.Narrator(), transport.Response{JSON: []byte(`{"narrative_text":"You arrive at the clearing."}`)})

	if _, _, err := loop.GenerateActions(context.Background(), executor.PromptContext{}); err != nil {
		t.Fatal(err)
	}
	if err := loop.Choose(0); err != nil {
		t.Fatal(err)
	}
	_, outcome, err := loop.ExecuteAndApply(context.Background(), executor.PromptContext{}, time.Now())
	if err != nil {
		t.Fatalf("ExecuteAndApply: %v", err)
	}
	if outcome != interaction.End {
		t.Errorf("Outcome = %v, want End: clearing is a designated terminal sublocation", outcome)
	}
	if loop.Phase() != interaction.Ended {
		t.Errorf("Phase = %s, want Ended", loop.Phase())
	}
}
