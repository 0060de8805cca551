// Package schema implements the Schema Emitter (C5): it lowers one
// ActionConstraint into three artifacts that must agree on exactly the same
// language — a machine-readable Grammar, a human-readable Template shown to
// the LM, and a pure Validate function that checks returned JSON against the
// constraint.
package schema
