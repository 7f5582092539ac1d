package rg

import (
	"fmt"

	"github.com/gogpu/framegraph/access"
)

// Barrier records one synchronization point inserted during execution.
type Barrier struct {
	// Resource is the label of the synchronized resource.
	Resource string
	// Pass is the pass that required the barrier, or "" for the final
	// transition to the export access.
	Pass string
	From access.Type
	To   access.Type
}

func (b Barrier) String() string {
	pass := b.Pass
	if pass == "" {
		pass = "<export>"
	}
	return fmt.Sprintf("%s@%s: %s -> %s", b.Resource, pass, b.From, b.To)
}

type retiredResource struct {
	res      Resource
	final    access.Type
	exported bool
}

// Retired is an executed graph. It keeps the final access of every resource
// until it is discarded.
type Retired struct {
	graph     uint64
	label     string
	resources []retiredResource
	barriers  []Barrier
}

// Label returns the label of the graph that produced rt.
func (rt *Retired) Label() string {
	return rt.label
}

// Barriers returns the barriers recorded during execution, in order.
func (rt *Retired) Barriers() []Barrier {
	return rt.barriers
}

// Minted reports whether h was exported from the graph that produced rt.
func Minted[R Resource](rt *Retired, h ExportedHandle[R]) bool {
	return h.graph == rt.graph
}

// ExportedResource returns the resource behind h and the access it was left
// in by the executed graph.
//
// ExportedResource panics if h was minted by another graph.
func ExportedResource[R Resource](rt *Retired, h ExportedHandle[R]) (R, access.Type) {
	if h.graph != rt.graph || h.id < 0 || h.id >= len(rt.resources) {
		panic(fmt.Sprintf("rg: exported handle %d does not belong to graph %q", h.id, rt.label))
	}
	r := rt.resources[h.id]
	if !r.exported {
		panic(fmt.Sprintf("rg: %q was not exported from graph %q", r.res.Label(), rt.label))
	}
	return r.res.(R), r.final
}
