// Package interaction drives the per-location turn cycle of spec §4.C8: a
// small state machine (GeneratingActions -> AwaitingChoice -> Executing,
// then back to GeneratingActions on Continue or to Ended on End) wiring the constraint builder, schema emitter,
// executor and instance-state transition together for one visit.
package interaction
