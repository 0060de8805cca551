package interaction

import (
	"context"
	"fmt"
	"time"

	"github.com/dshills/locale/pkg/constraint"
	"github.com/dshills/locale/pkg/engineerr"
	"github.com/dshills/locale/pkg/executor"
	"github.com/dshills/locale/pkg/instance"
	"github.com/dshills/locale/pkg/schema"
)

// Phase is one state of the C8 interaction state machine.
type Phase string

const (
	GeneratingActions Phase = "generating_actions"
	AwaitingChoice    Phase = "awaiting_choice"
	Executing         Phase = "executing"
	Ended             Phase = "ended"
)

// Outcome is what Loop.ExecuteAndApply decided after folding one ActionResult in.
type Outcome int

const (
	// Continue means the loop re-enters GeneratingActions.
	Continue Outcome = iota
	// End means the visit is over: critical failure, a designated leave
	// action, or a terminal "special" sublocation (spec §4.C8).
	End
)

// minCandidates/maxCandidates bound the Director's candidate count per visit
// (spec §4.C8: "N (typ. 3-6)").
const (
	minCandidates     = 3
	maxCandidates     = 6
	defaultCandidates = 4
)

// Loop drives one visit's worth of turns in a single location.
type Loop struct {
	ex                    *executor.Executor
	state                 *instance.LocationInstanceState
	skillVocabulary       []string
	extraFailureTypes     []string
	terminalSublocations  map[string]bool
	candidateCount        int

	phase       Phase
	candidates  []schema.ActionChoice
	chosenIndex int
}

// New creates a Loop positioned at GeneratingActions for the given instance
// state. terminalSublocations names sublocation ids that end the
// interaction the moment they become current (the generator's "special"
// nodes: a cure cell, a summit, a grove center, ...).
func New(ex *executor.Executor, state *instance.LocationInstanceState, skillVocabulary []string, extraFailureTypes []string, terminalSublocations []string) *Loop {
	terminal := make(map[string]bool, len(terminalSublocations))
	for _, id := range terminalSublocations {
		terminal[id] = true
	}
	return &Loop{
		ex:                   ex,
		state:                state,
		skillVocabulary:      skillVocabulary,
		extraFailureTypes:    extraFailureTypes,
		terminalSublocations: terminal,
		candidateCount:       defaultCandidates,
		phase:                GeneratingActions,
		chosenIndex:          -1,
	}
}

// Phase returns the loop's current state.
func (l *Loop) Phase() Phase { return l.phase }

// State returns the latest instance-state snapshot.
func (l *Loop) State() *instance.LocationInstanceState { return l.state }

// WithCandidateCount overrides the default candidate count, clamped to 3..6.
func (l *Loop) WithCandidateCount(n int) *Loop {
	if n < minCandidates {
		n = minCandidates
	}
	if n > maxCandidates {
		n = maxCandidates
	}
	l.candidateCount = n
	return l
}

// GenerateActions derives the current constraint and calls the Director for
// candidateCount candidates, transitioning to AwaitingChoice. The candidates
// and the constraint they were drawn under (so the caller can display
// difficulty/skill) are returned.
func (l *Loop) GenerateActions(ctx context.Context, promptCtx executor.PromptContext) ([]schema.ActionChoice, *constraint.ActionConstraint, error) {
	if l.phase != GeneratingActions {
		return nil, nil, fmt.Errorf("interaction: GenerateActions called in phase %s", l.phase)
	}

	active := l.state.ActiveStates(l.state.CurrentSublocationID)
	c, err := constraint.Build(l.state.Blueprint, l.state.CurrentSublocationID, active, l.skillVocabulary, l.extraFailureTypes)
	if err != nil {
		return nil, nil, engineerr.Wrap(engineerr.ConstraintDerivationError, "deriving constraint", err)
	}

	choices, err := l.ex.GenerateActions(ctx, c, promptCtx, l.candidateCount)
	if err != nil {
		l.phase = Ended
		return nil, nil, err
	}

	l.candidates = choices
	l.chosenIndex = -1
	l.phase = AwaitingChoice
	return choices, c, nil
}

// Choose records the player's pick (an index into the slice last returned by
// GenerateActions) and transitions to Executing.
func (l *Loop) Choose(index int) error {
	if l.phase != AwaitingChoice {
		return fmt.Errorf("interaction: Choose called in phase %s", l.phase)
	}
	if index < 0 || index >= len(l.candidates) {
		return fmt.Errorf("interaction: choice index %d out of range [0,%d)", index, len(l.candidates))
	}
	l.chosenIndex = index
	l.phase = Executing
	return nil
}

// Leave ends the interaction immediately without executing an action: the
// player picked a designated leave option the UI offers outside the
// Director's candidate set.
func (l *Loop) Leave() {
	l.phase = Ended
}

// ExecuteAndApply rolls for success, calls the Narrator, applies the result
// through the instance-state transition, and decides Continue vs End. A hard
// LM failure or an invalid transition ends the interaction and is returned
// as an error; a clean result, even an unsuccessful one, is never an error.
func (l *Loop) ExecuteAndApply(ctx context.Context, promptCtx executor.PromptContext, now time.Time) (instance.ActionResult, Outcome, error) {
	if l.phase != Executing {
		return instance.ActionResult{}, End, fmt.Errorf("interaction: ExecuteAndApply called in phase %s", l.phase)
	}
	chosen := l.candidates[l.chosenIndex]

	result, err := l.ex.ExecuteAction(ctx, l.state.LocationID, l.state.TurnCountThisVisit, chosen, promptCtx)
	if err != nil {
		l.phase = Ended
		return instance.ActionResult{}, End, err
	}

	next, err := instance.Apply(l.state, result, now)
	if err != nil {
		l.phase = Ended
		return instance.ActionResult{}, End, err
	}
	l.state = next

	if result.CriticalFailure || l.terminalSublocations[l.state.CurrentSublocationID] {
		l.phase = Ended
		return result, End, nil
	}

	l.phase = GeneratingActions
	return result, Continue, nil
}
