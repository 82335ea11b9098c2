// Package hatch generates projects from conditional templates.
//
// The engine lives in subpackages: schema and options resolve a template's
// options, generator renders its tree, prune removes disabled features and
// finalize writes the result and commits it. scaffold ties them together.
package hatch

// Version is the engine version a template's requires constraint is checked
// against. Release builds set it with -ldflags.
var Version = "0.1.0"
