package rg

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/access"
)

// Errors returned by graph building and execution.
var (
	// ErrGraphExecuted is returned when a graph is modified or executed
	// after Execute has already run.
	ErrGraphExecuted = errors.New("rg: graph already executed")

	// ErrUnknownHandle is returned when a pass references a handle minted
	// by another graph.
	ErrUnknownHandle = errors.New("rg: handle does not belong to this graph")

	// ErrIncompatibleAccess is returned when a pass accesses a resource in
	// a way its usage flags or the declared read/write mode do not allow.
	ErrIncompatibleAccess = errors.New("rg: incompatible access")
)

// graphIDs mints graph identities so handles can be checked against the
// graph they came from.
var graphIDs atomic.Uint64

// Handle identifies a resource inside one graph build.
type Handle[R Resource] struct {
	graph uint64
	id    int
}

// ExportedHandle identifies an exported resource. It is redeemed against the
// Retired graph with ExportedResource.
type ExportedHandle[R Resource] struct {
	graph uint64
	id    int
}

// Use is one access of a pass to a resource. Build it with Read or Write.
type Use struct {
	graph  uint64
	id     int
	access access.Type
	write  bool
}

// Read declares a read-only access through h.
func Read[R Resource](h Handle[R], a access.Type) Use {
	return Use{graph: h.graph, id: h.id, access: a}
}

// Write declares a modifying access through h.
func Write[R Resource](h Handle[R], a access.Type) Use {
	return Use{graph: h.graph, id: h.id, access: a, write: true}
}

type graphResource struct {
	res      Resource
	initial  access.Type
	export   access.Type
	exported bool
}

type pass struct {
	name string
	uses []Use
}

// Graph collects resources and passes for one frame.
type Graph struct {
	id        uint64
	label     string
	resources []graphResource
	passes    []pass
	executed  bool
}

// New creates an empty graph.
func New(label string) *Graph {
	return &Graph{
		id:    graphIDs.Add(1),
		label: label,
	}
}

// Label returns the graph label.
func (g *Graph) Label() string {
	return g.label
}

// NumResources returns the number of imported resources.
func (g *Graph) NumResources() int {
	return len(g.resources)
}

// NumPasses returns the number of passes added so far.
func (g *Graph) NumPasses() int {
	return len(g.passes)
}

// Import registers res with the graph. a is the access the resource is in
// when the graph starts; the first pass touching it is synchronized against
// it.
//
// Import panics if the graph has already been executed.
func Import[R Resource](g *Graph, res R, a access.Type) Handle[R] {
	if g.executed {
		panic(fmt.Sprintf("rg: import of %q into executed graph %q", res.Label(), g.label))
	}
	g.resources = append(g.resources, graphResource{res: res, initial: a})
	return Handle[R]{graph: g.id, id: len(g.resources) - 1}
}

// Export requests that the resource behind h is left in access a when the
// graph finishes. The returned handle is redeemed after execution.
//
// Export panics if h belongs to another graph, if the resource was already
// exported, if its usage flags do not allow a, or if the graph has already
// been executed.
func Export[R Resource](g *Graph, h Handle[R], a access.Type) ExportedHandle[R] {
	r := g.lookup(h.graph, h.id)
	if g.executed {
		panic(fmt.Sprintf("rg: export of %q from executed graph %q", r.res.Label(), g.label))
	}
	if r.exported {
		panic(fmt.Sprintf("rg: %q exported twice from graph %q", r.res.Label(), g.label))
	}
	if !r.res.Supports(a) {
		panic(fmt.Sprintf("rg: %q cannot be exported as %s from graph %q", r.res.Label(), a, g.label))
	}
	r.exported = true
	r.export = a
	return ExportedHandle[R]{graph: g.id, id: h.id}
}

// AddPass appends a pass using the given resources. Passes execute in the
// order they were added.
func (g *Graph) AddPass(name string, uses ...Use) error {
	if g.executed {
		return ErrGraphExecuted
	}
	for _, u := range uses {
		if u.graph != g.id || u.id < 0 || u.id >= len(g.resources) {
			return fmt.Errorf("pass %q: %w", name, ErrUnknownHandle)
		}
		res := g.resources[u.id].res
		if !res.Supports(u.access) {
			return fmt.Errorf("pass %q: %s as %s: %w", name, res.Label(), u.access, ErrIncompatibleAccess)
		}
		if u.write != u.access.IsWrite() && u.access != access.General {
			return fmt.Errorf("pass %q: %s as %s (write=%v): %w", name, res.Label(), u.access, u.write, ErrIncompatibleAccess)
		}
	}
	g.passes = append(g.passes, pass{name: name, uses: uses})
	return nil
}

// Execute runs the graph. Every access change that needs synchronization is
// recorded as a Barrier, and exported resources are moved to their export
// access last.
func (g *Graph) Execute() (*Retired, error) {
	if g.executed {
		return nil, ErrGraphExecuted
	}
	g.executed = true

	current := make([]access.Type, len(g.resources))
	for i := range g.resources {
		current[i] = g.resources[i].initial
	}

	var barriers []Barrier
	transition := func(id int, passName string, next access.Type) {
		prev := current[id]
		if access.NeedsBarrier(prev, next) {
			barriers = append(barriers, Barrier{
				Resource: g.resources[id].res.Label(),
				Pass:     passName,
				From:     prev,
				To:       next,
			})
		}
		current[id] = next
	}

	for _, p := range g.passes {
		for _, u := range p.uses {
			transition(u.id, p.name, u.access)
		}
	}
	for id := range g.resources {
		if g.resources[id].exported {
			transition(id, "", g.resources[id].export)
		}
	}

	framegraph.Logger().Debug("rg: graph executed",
		"graph", g.label,
		"resources", len(g.resources),
		"passes", len(g.passes),
		"barriers", len(barriers))

	retired := &Retired{
		graph:     g.id,
		label:     g.label,
		resources: make([]retiredResource, len(g.resources)),
		barriers:  barriers,
	}
	for id := range g.resources {
		retired.resources[id] = retiredResource{
			res:      g.resources[id].res,
			final:    current[id],
			exported: g.resources[id].exported,
		}
	}
	return retired, nil
}

// lookup returns the resource a handle refers to, panicking on a handle
// from another graph.
func (g *Graph) lookup(graph uint64, id int) *graphResource {
	if graph != g.id || id < 0 || id >= len(g.resources) {
		panic(fmt.Sprintf("rg: handle %d does not belong to graph %q", id, g.label))
	}
	return &g.resources[id]
}
