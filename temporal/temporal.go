package temporal

import (
	"fmt"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/access"
	"github.com/gogpu/framegraph/rg"
)

// State is the lifecycle state of a temporal resource.
type State uint8

const (
	// StateDefault means the resource is idle and may be imported.
	StateDefault State = iota
	// StateImported means the resource is part of a graph build and may be
	// exported.
	StateImported
	// StateExported means the graph will leave the resource in a requested
	// access; it may be retired once the graph has executed.
	StateExported
)

func (s State) String() string {
	switch s {
	case StateDefault:
		return "Default"
	case StateImported:
		return "Imported"
	case StateExported:
		return "Exported"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Resource owns a GPU resource that persists across render graph executions.
//
// The zero value is not usable; create resources with New.
type Resource[R rg.Resource] struct {
	resource   R
	accessType access.Type
	pending    *rg.ExportedHandle[R]
	state      State
}

// New wraps res in a temporal resource. The resource starts in StateDefault
// with access.Nothing as its access type.
func New[R rg.Resource](res R) *Resource[R] {
	return &Resource[R]{
		resource:   res,
		accessType: access.Nothing,
		state:      StateDefault,
	}
}

// Resource returns the wrapped GPU resource.
func (t *Resource[R]) Resource() R {
	return t.resource
}

// AccessType returns the access the resource was left in by the last
// retired graph, or access.Nothing if it has never been retired.
func (t *Resource[R]) AccessType() access.Type {
	return t.accessType
}

// State returns the current lifecycle state.
func (t *Resource[R]) State() State {
	return t.state
}

// LastExportedHandle returns the handle of the pending export. The second
// result is false unless the resource is in StateExported.
func (t *Resource[R]) LastExportedHandle() (rg.ExportedHandle[R], bool) {
	if t.pending == nil {
		return rg.ExportedHandle[R]{}, false
	}
	return *t.pending, true
}

// Reset returns a resource stranded by an abandoned graph build to
// StateDefault. The pending export, if any, is dropped and the access type
// is kept.
func (t *Resource[R]) Reset() {
	if t.state != StateDefault {
		framegraph.Logger().Warn("temporal: resetting stranded resource",
			"resource", t.resource.Label(),
			"state", t.state.String())
	}
	t.pending = nil
	t.state = StateDefault
}

// violation panics with a protocol violation message.
func violation[R rg.Resource](op string, t *Resource[R], want State) {
	panic(fmt.Sprintf("temporal: %s of %q requires state %s, got %s",
		op, t.resource.Label(), want, t.state))
}
