// Package rg is a minimal per-frame render graph.
//
// A [Graph] lives for one build-and-execute cycle. Resources owned elsewhere
// enter it through [Import], passes declare how they touch them, and
// [Export] names the access a resource must be left in once the graph has
// run. [Graph.Execute] walks the passes in order, records the barriers the
// access changes require, and returns a [Retired] graph from which the final
// access of every exported resource can be read back with [ExportedResource].
//
// Handles are scoped to the graph that minted them. Using a handle with a
// different graph is a programming error and panics.
//
// # Thread Safety
//
// A Graph is not safe for concurrent use. Build and execute it from one
// goroutine.
package rg
