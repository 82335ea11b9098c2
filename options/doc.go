// Package options resolves the option values of one generation run.
//
// Resolve merges user overrides over the manifest defaults, validates them
// and evaluates derived options in dependency order. The resulting Context
// feeds both the renderer (through Data) and prune rule predicates (as a
// schema.Env), so every stage of a run sees the same values.
package options
