// Package blueprint defines the immutable interior-topology model produced by a
// location generator: state categories, sublocations, their connections, and the
// content each (sublocation, state signature) pair offers. See spec.md §3.
package blueprint
