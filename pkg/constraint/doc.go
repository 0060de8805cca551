// Package constraint implements the Constraint Builder (C4): given a blueprint
// and the current instance state, it emits a tree-structured ActionConstraint
// describing every legal shape a candidate action may take this turn.
package constraint
