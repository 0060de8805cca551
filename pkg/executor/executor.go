package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dshills/locale/pkg/config"
	"github.com/dshills/locale/pkg/constraint"
	"github.com/dshills/locale/pkg/engineerr"
	"github.com/dshills/locale/pkg/instance"
	"github.com/dshills/locale/pkg/rng"
	"github.com/dshills/locale/pkg/schema"
	"github.com/dshills/locale/pkg/transport"
)

// criticalFailureProbability is the uniform chance that any execution ends in
// a distinguished critical failure, independent of the success roll (spec
// §4.C6: "≈15% of all executions"). A config.Config overrides this default
// through NewWithConfig; this is the fallback New uses on its own.
const criticalFailureProbability = 0.15

// Default per-role timeouts (spec §4.C6). The spec names a third figure,
// "executor ~25s", alongside the Director's 30s and the Narrator's 20s
// without saying what operation it times; this package reads it as the
// default applied to any submission through the pool that isn't a Director
// or Narrator call (e.g. a skill-persona slot) — see DESIGN.md.
const (
	DefaultDirectorTimeout = 30 * time.Second
	DefaultNarratorTimeout = 20 * time.Second
	DefaultPersonaTimeout  = 25 * time.Second
)

// Executor drives the Director and Narrator LM roles through a transport.Pool.
type Executor struct {
	pool                       *transport.Pool
	directorTimeout            time.Duration
	narratorTimeout            time.Duration
	personaTimeout             time.Duration
	criticalFailureProbability float64
	directorMaxAttempts        int
	directorBackoff            time.Duration
}

// New creates an Executor with the spec's default per-role timeouts, default
// critical-failure probability, and no Director retry.
func New(pool *transport.Pool) *Executor {
	return &Executor{
		pool:                       pool,
		directorTimeout:            DefaultDirectorTimeout,
		narratorTimeout:            DefaultNarratorTimeout,
		personaTimeout:             DefaultPersonaTimeout,
		criticalFailureProbability: criticalFailureProbability,
		directorMaxAttempts:        1,
	}
}

// NewWithConfig creates an Executor whose timeouts, critical-failure
// probability, and Director retry policy come from cfg rather than the
// package defaults.
func NewWithConfig(pool *transport.Pool, cfg *config.Config) *Executor {
	return &Executor{
		pool:                       pool,
		directorTimeout:            cfg.Timeouts.Director(),
		narratorTimeout:            cfg.Timeouts.Narrator(),
		personaTimeout:             cfg.Timeouts.Persona(),
		criticalFailureProbability: cfg.CriticalFailureProbability,
		directorMaxAttempts:        cfg.Retry.MaxAttempts,
		directorBackoff:            cfg.Retry.Backoff(),
	}
}

// WithTimeouts overrides the default per-role timeouts.
func (e *Executor) WithTimeouts(director, narrator, persona time.Duration) *Executor {
	e.directorTimeout = director
	e.narratorTimeout = narrator
	e.personaTimeout = persona
	return e
}

// WithCriticalFailureProbability overrides the default critical-failure
// probability.
func (e *Executor) WithCriticalFailureProbability(p float64) *Executor {
	e.criticalFailureProbability = p
	return e
}

// WithRetryPolicy sets how many total Director submissions GenerateActions
// may make (including the first) before reporting a hard failure, and the
// delay between attempts. maxAttempts < 1 is treated as 1 (no retry).
func (e *Executor) WithRetryPolicy(maxAttempts int, backoff time.Duration) *Executor {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	e.directorMaxAttempts = maxAttempts
	e.directorBackoff = backoff
	return e
}

// GenerateActions calls the Director to produce candidateCount candidate
// ActionChoices under c, validating every element of the returned JSON array.
// A timeout or any validation failure is a hard failure: no candidate is
// substituted or dropped silently.
func (e *Executor) GenerateActions(ctx context.Context, c *constraint.ActionConstraint, promptCtx PromptContext, candidateCount int) ([]schema.ActionChoice, error) {
	grammar := schema.BuildGrammar(c)
	prompt := assemblePrompt(promptCtx, fmt.Sprintf("Produce exactly %d candidate actions.\n\n%s", candidateCount, schema.BuildTemplate(c)))

	attempts := e.directorMaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 && e.directorBackoff > 0 {
			select {
			case <-ctx.Done():
				return nil, engineerr.Wrap(engineerr.LmCancelled, "context cancelled during director retry backoff", ctx.Err())
			case <-time.After(e.directorBackoff):
			}
		}

		choices, err := e.submitAndValidateCandidates(ctx, prompt, grammar, c)
		if err == nil {
			return choices, nil
		}
		lastErr = err
		if kind, _ := engineerr.KindOf(err); kind != engineerr.LmInvalidJSON && kind != engineerr.LmSchemaViolation {
			break
		}
	}
	return nil, lastErr
}

func (e *Executor) submitAndValidateCandidates(ctx context.Context, prompt string, grammar *schema.Object, c *constraint.ActionConstraint) ([]schema.ActionChoice, error) {
	raw, err := e.pool.Submit(ctx, e.pool.Director(), prompt, grammar, e.directorTimeout)
	if err != nil {
		return nil, wrapTransportErr(err)
	}

	var rawChoices []json.RawMessage
	if err := json.Unmarshal(raw, &rawChoices); err != nil {
		return nil, engineerr.Wrap(engineerr.LmInvalidJSON, "director reply is not a JSON array", err)
	}

	choices := make([]schema.ActionChoice, 0, len(rawChoices))
	for i, rc := range rawChoices {
		choice, errs := schema.Validate(rc, c)
		if len(errs) > 0 {
			return nil, engineerr.New(engineerr.LmSchemaViolation, fmt.Sprintf("director candidate %d: %v", i, errs))
		}
		choices = append(choices, *choice)
	}
	return choices, nil
}

// ExecuteAction rolls for success against chosen.Difficulty, calls the
// Narrator for outcome prose, and assembles an instance.ActionResult. The
// roll and the critical-failure sample both draw from the stream seeded by
// (locationID, turnCount), in that fixed order, so a replay against
// identical LM output is reproducible (spec §4.C6).
func (e *Executor) ExecuteAction(ctx context.Context, locationID string, turnCount int, chosen schema.ActionChoice, promptCtx PromptContext) (instance.ActionResult, error) {
	turnRNG := rng.ForTurn(locationID, turnCount)
	roll := turnRNG.RollD6()
	success := roll >= chosen.Difficulty
	critical := turnRNG.Float64() < e.criticalFailureProbability

	prompt := assemblePrompt(promptCtx, narratorOutcomeTemplate(chosen, success, critical))
	raw, err := e.pool.Submit(ctx, e.pool.Narrator(), prompt, narratorGrammar(), e.narratorTimeout)
	if err != nil {
		return instance.ActionResult{}, wrapTransportErr(err)
	}

	out, errs := validateNarratorOutput(raw)
	if len(errs) > 0 {
		return instance.ActionResult{}, engineerr.New(engineerr.LmSchemaViolation, fmt.Sprintf("narrator reply: %v", errs))
	}

	result := instance.ActionResult{
		WasSuccessful:   success,
		CriticalFailure: critical,
		NarrativeText:   out.NarrativeText,
	}
	if success {
		result.StateChange = chosen.SuccessConsequences.StateChange
		result.SublocationChange = chosen.SuccessConsequences.SublocationChange
		result.ItemGained = chosen.SuccessConsequences.ItemGained
		result.CompanionGained = chosen.SuccessConsequences.CompanionGained
		result.QuestGained = chosen.SuccessConsequences.QuestGained
		result.NPCGained = chosen.SuccessConsequences.NPCGained
	}
	return result, nil
}

func narratorOutcomeTemplate(chosen schema.ActionChoice, success, critical bool) string {
	outcome := "The action failed."
	if success {
		outcome = "The action succeeded."
	}
	if critical {
		outcome = "The action ended in a critical failure; this interaction is over."
	}
	return fmt.Sprintf("Chosen action: %q\n%s\n\n%s", chosen.ActionText, outcome, narratorTemplate())
}

func wrapTransportErr(err error) error {
	switch {
	case errors.Is(err, transport.ErrTimeout):
		return engineerr.Wrap(engineerr.LmTimeout, "transport timed out", err)
	case errors.Is(err, transport.ErrCancelled):
		return engineerr.Wrap(engineerr.LmCancelled, "transport request cancelled", err)
	default:
		return engineerr.Wrap(engineerr.TransportUnavailable, "transport submit failed", err)
	}
}
