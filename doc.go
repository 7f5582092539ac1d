// Package framegraph keeps GPU resources alive across successive executions
// of a per-frame render graph.
//
// # Overview
//
// A render graph treats its resources as transient: they are created, used
// and retired within one build-and-execute cycle. History buffers, TAA
// accumulation targets and motion-vector caches break that rule. They must
// outlive the graph that used them and enter the next frame's graph in the
// access state the previous frame left them in, so the graph can place the
// right entry barrier.
//
// # Quick Start
//
//	history := temporal.New(rg.NewImage(desc))
//
//	for frame := range frames {
//	    g := rg.New("frame")
//	    h := temporal.Import(g, history)
//	    _ = g.AddPass("taa", rg.Write(h, access.ColorAttachmentWrite))
//	    temporal.Export(g, h, history, access.FragmentShaderReadSampledImage)
//
//	    retired, err := g.Execute()
//	    if err != nil {
//	        return err
//	    }
//	    temporal.Retire(retired, history)
//	}
//
// # Architecture
//
// The module is organized into:
//   - access: the access-type vocabulary used to describe GPU state
//   - rg: a minimal render graph (import, export, passes, execution)
//   - temporal: the cross-frame lifecycle (import, export, retire)
//   - cmd/rgdemo: a CLI that replays YAML frame scenarios
//
// # Logging
//
// The module is silent by default. Call [SetLogger] to receive lifecycle
// diagnostics through log/slog.
package framegraph
