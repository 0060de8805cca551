// Command narrative is a demo CLI for the location-driven narrative engine:
// it generates a blueprint for a location id, exports it, and optionally runs
// one scripted turn through the full executor/interaction pipeline against a
// FakeTransport (no concrete LM transport exists to talk to, per spec §1).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/locale/pkg/blueprint"
	"github.com/dshills/locale/pkg/config"
	"github.com/dshills/locale/pkg/constraint"
	"github.com/dshills/locale/pkg/executor"
	"github.com/dshills/locale/pkg/export"
	"github.com/dshills/locale/pkg/generator"
	"github.com/dshills/locale/pkg/instance"
	"github.com/dshills/locale/pkg/interaction"
	"github.com/dshills/locale/pkg/schema"
	"github.com/dshills/locale/pkg/transport"
)

const version = "0.1.0"

var (
	locationID   = flag.String("location", "", "Location id to generate (required)")
	locationType = flag.String("type", "forest", "Location type (registry key); only \"forest\" is built in")
	outputDir    = flag.String("output", ".", "Output directory for generated files")
	format       = flag.String("format", "json", "Export format: json, svg, or all")
	demo         = flag.Bool("demo", false, "Run one scripted turn through the executor/interaction pipeline")
	configPath   = flag.String("config", "", "Path to YAML engine configuration file (optional; built-in defaults are used if omitted)")
	verbose      = flag.Bool("verbose", false, "Enable verbose output")
	versionF     = flag.Bool("version", false, "Print version and exit")
	help         = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("narrative version %s\n", version)
		os.Exit(0)
	}
	if *help {
		printHelp()
		os.Exit(0)
	}
	if *locationID == "" {
		fmt.Fprintln(os.Stderr, "Error: -location flag is required")
		printUsage()
		os.Exit(1)
	}

	validFormats := map[string]bool{"json": true, "svg": true, "all": true}
	if !validFormats[*format] {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q, must be one of: json, svg, all\n", *format)
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
		if *verbose {
			fmt.Printf("Loaded config from %s (hash %x)\n", *configPath, cfg.Hash()[:8])
		}
	}

	generator.Register(generator.NewForestGenerator(generator.DefaultForestTable()))

	gen := generator.Get(*locationType)
	if gen == nil {
		return fmt.Errorf("no generator registered for location_type %q", *locationType)
	}
	if !containsString(cfg.LocationTypes, *locationType) {
		return fmt.Errorf("location_type %q is not enabled by the loaded config (enabled: %v)", *locationType, cfg.LocationTypes)
	}

	if *verbose {
		fmt.Printf("Generating blueprint for %s (type=%s)\n", *locationID, *locationType)
	}

	start := time.Now()
	bp, err := gen.GenerateBlueprint(ctx, *locationID)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	elapsed := time.Since(start)

	if !cfg.InBounds(*locationType, len(bp.Sublocations)) {
		return fmt.Errorf("generated blueprint has %d sublocations, outside configured bounds for %q", len(bp.Sublocations), *locationType)
	}

	if *verbose {
		fmt.Printf("Generation completed in %v\n", elapsed)
		printStats(bp)
	}

	entry := firstEntryPoint(bp.EntryPoints())
	if entry == "" {
		return fmt.Errorf("generated blueprint has no entry point")
	}
	state := instance.New(bp, entry, time.Now())

	if *demo {
		state, err = runDemoTurn(ctx, cfg, gen, state)
		if err != nil {
			return fmt.Errorf("demo turn failed: %w", err)
		}
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if *format == "json" || *format == "all" {
		if err := exportJSONState(state); err != nil {
			return err
		}
	}
	if *format == "svg" || *format == "all" {
		if err := exportSVGBlueprint(bp); err != nil {
			return err
		}
	}

	fmt.Printf("Successfully generated location %s in %v\n", *locationID, elapsed)
	return nil
}

// runDemoTurn exercises GenerateActions -> Choose -> ExecuteAndApply against a
// FakeTransport seeded with a single candidate built directly off the real
// constraint, proving the pipeline wires end to end without a live LM. It
// returns the post-turn instance state.
func runDemoTurn(ctx context.Context, cfg *config.Config, gen generator.Generator, state *instance.LocationInstanceState) (*instance.LocationInstanceState, error) {
	fake := transport.NewFakeTransport()
	pool := transport.NewPool(fake)
	if err := pool.OpenCoreSlots(ctx, "director", "narrator"); err != nil {
		return nil, fmt.Errorf("opening core slots: %w", err)
	}

	active := state.ActiveStates(state.CurrentSublocationID)
	c, err := constraint.Build(state.Blueprint, state.CurrentSublocationID, active, gen.SkillVocabulary(), nil)
	if err != nil {
		return nil, fmt.Errorf("deriving constraint: %w", err)
	}

	candidate := demoCandidate(c)
	candidateJSON, err := json.Marshal([]schema.ActionChoice{candidate})
	if err != nil {
		return nil, fmt.Errorf("marshaling demo candidate: %w", err)
	}
	fake.Enqueue(pool.Director(), transport.Response{JSON: candidateJSON})
	fake.Enqueue(pool.Narrator(), transport.Response{JSON: []byte(`{"narrative_text":"You carry out the scripted demo action."}`)})

	ex := executor.NewWithConfig(pool, cfg)
	loop := interaction.New(ex, state, gen.SkillVocabulary(), nil, nil)

	choices, _, err := loop.GenerateActions(ctx, executor.PromptContext{ContextPrefix: "A scripted demo turn."})
	if err != nil {
		return nil, fmt.Errorf("generating actions: %w", err)
	}
	if *verbose {
		fmt.Printf("Director proposed %d candidate(s); choosing #0: %q\n", len(choices), choices[0].ActionText)
	}

	if err := loop.Choose(0); err != nil {
		return nil, fmt.Errorf("choosing candidate: %w", err)
	}

	result, outcome, err := loop.ExecuteAndApply(ctx, executor.PromptContext{}, time.Now())
	if err != nil {
		return nil, fmt.Errorf("executing action: %w", err)
	}
	if *verbose {
		fmt.Printf("Outcome: %s (success=%v, critical=%v)\n", result.NarrativeText, result.WasSuccessful, result.CriticalFailure)
		fmt.Printf("Loop outcome: %v\n", outcome)
	}
	return loop.State(), nil
}

// demoCandidate builds one ActionChoice that the derived constraint will
// accept regardless of what the generator happened to produce: every
// optional field picks the constraint's own first legal option, or stays
// null when the constraint says that effect cannot occur this turn.
func demoCandidate(c *constraint.ActionConstraint) schema.ActionChoice {
	choice := schema.ActionChoice{
		ActionText: "You carefully survey your surroundings.",
		Difficulty: c.Difficulty.Min,
		FailureConsequences: schema.FailureConsequences{
			Description: "Nothing comes of it.",
		},
	}
	if len(c.FailureConsequences.Type.Options) > 0 {
		choice.FailureConsequences.Type = c.FailureConsequences.Type.Options[0]
	}
	if c.RelatedSkill.Present() {
		choice.RelatedSkill = c.RelatedSkill.Options[0]
	}
	if c.SuccessConsequences.StateChange.Present() {
		opt := c.SuccessConsequences.StateChange.Options[0]
		choice.SuccessConsequences.StateChange = &schema.StateChange{Category: opt.Category, NewState: opt.NewState}
	}
	if c.SuccessConsequences.SublocationChange != nil && len(c.SuccessConsequences.SublocationChange.Options) > 0 {
		first := c.SuccessConsequences.SublocationChange.Options[0]
		choice.SuccessConsequences.SublocationChange = &first
	}
	if c.SuccessConsequences.ItemGained.Present() {
		first := c.SuccessConsequences.ItemGained.Options[0]
		choice.SuccessConsequences.ItemGained = &first
	}
	if c.SuccessConsequences.CompanionGained.Present() {
		first := c.SuccessConsequences.CompanionGained.Options[0]
		choice.SuccessConsequences.CompanionGained = &first
	}
	if c.SuccessConsequences.QuestGained.Present() {
		first := c.SuccessConsequences.QuestGained.Options[0]
		choice.SuccessConsequences.QuestGained = &first
	}
	if c.SuccessConsequences.NPCGained.Present() {
		first := c.SuccessConsequences.NPCGained.Options[0]
		choice.SuccessConsequences.NPCGained = &first
	}
	return choice
}

func exportJSONState(state *instance.LocationInstanceState) error {
	filename := filepath.Join(*outputDir, state.LocationID+".json")
	if *verbose {
		fmt.Printf("Exporting JSON to %s\n", filename)
	}
	if err := export.SaveJSONToFile(state, filename); err != nil {
		return fmt.Errorf("failed to export JSON: %w", err)
	}
	if *verbose {
		info, _ := os.Stat(filename)
		fmt.Printf("  Wrote %d bytes\n", info.Size())
	}
	return nil
}

func exportSVGBlueprint(bp *blueprint.Blueprint) error {
	filename := filepath.Join(*outputDir, bp.LocationID+".svg")
	if *verbose {
		fmt.Printf("Exporting SVG to %s\n", filename)
	}
	opts := export.DefaultSVGOptions()
	opts.Title = fmt.Sprintf("%s (%s)", bp.LocationID, bp.LocationType)
	if err := export.SaveSVGToFile(bp, filename, opts); err != nil {
		return fmt.Errorf("failed to export SVG: %w", err)
	}
	if *verbose {
		info, _ := os.Stat(filename)
		fmt.Printf("  Wrote %d bytes\n", info.Size())
	}
	return nil
}

func printStats(bp *blueprint.Blueprint) {
	fmt.Println("\nBlueprint Statistics:")
	fmt.Printf("  Sublocations: %d\n", len(bp.Sublocations))
	fmt.Printf("  State categories: %d\n", len(bp.StateCategories))
	fmt.Printf("  Entry points: %v\n", bp.EntryPoints())
}

func containsString(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}

func firstEntryPoint(entries []string) string {
	if len(entries) == 0 {
		return ""
	}
	return entries[0]
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: narrative -location <id> [-type forest] [-config file.yaml] [-output dir] [-format json|svg|all] [-demo] [-verbose]")
}

func printHelp() {
	fmt.Println("narrative - location-driven narrative engine demo CLI")
	fmt.Println()
	printUsage()
	fmt.Println()
	flag.PrintDefaults()
}
