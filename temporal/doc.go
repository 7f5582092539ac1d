// Package temporal keeps render graph resources alive across frames.
//
// A [Resource] owns a persistent GPU object together with the access it was
// left in by the last graph that used it. Each frame the resource moves
// through three states:
//
//	Default ──Import──▶ Imported ──Export──▶ Exported ──Retire──▶ Default
//
//   - [Import] admits the resource into a graph build, with its stored
//     access as the graph's starting point.
//   - [Export] asks the graph to leave the resource in a given access and
//     remembers the handle needed to read the result back.
//   - [Retire] reads the final access from the executed graph and returns
//     the resource to Default.
//
// Retire is a no-op for a resource that was not exported this frame, so a
// pipeline can retire every temporal resource it owns whether or not the
// frame used it.
//
// # Protocol violations
//
// Calling the operations out of order (exporting a resource that was never
// imported, importing one that is still in flight) panics. These are
// programming errors: carrying on would desynchronize the recorded access
// from what the GPU did, which shows up as rare visual corruption rather
// than a crash.
//
// # Thread Safety
//
// A Resource performs no locking. Drive each resource from one goroutine and
// keep at most one build-execute-retire cycle in flight per resource.
// [Registry] is safe for concurrent lookups but not for concurrent lifecycle
// calls on the same resource.
package temporal
