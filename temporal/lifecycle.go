package temporal

import (
	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/access"
	"github.com/gogpu/framegraph/rg"
)

// Import admits t into the graph build g and returns the handle passes use
// to reference it. The graph starts from t's stored access type.
//
// Import panics if t is not in StateDefault: a resource must be retired
// (or Reset) before it can enter another graph.
func Import[R rg.Resource](g *rg.Graph, t *Resource[R]) rg.Handle[R] {
	if t.state != StateDefault {
		violation("import", t, StateDefault)
	}
	h := rg.Import(g, t.resource, t.accessType)
	t.state = StateImported

	framegraph.Logger().Debug("temporal: imported",
		"resource", t.resource.Label(),
		"graph", g.Label(),
		"access", t.accessType.String())
	return h
}

// Export asks g to leave the resource behind h in access a once it has
// executed. The returned handle is also kept by t until Retire.
//
// Export panics if t is not in StateImported.
func Export[R rg.Resource](g *rg.Graph, h rg.Handle[R], t *Resource[R], a access.Type) rg.ExportedHandle[R] {
	if t.state != StateImported {
		violation("export", t, StateImported)
	}
	eh := rg.Export(g, h, a)
	t.pending = &eh
	t.state = StateExported

	framegraph.Logger().Debug("temporal: exported",
		"resource", t.resource.Label(),
		"graph", g.Label(),
		"access", a.String())
	return eh
}

// Retire reads back the access t was left in by the executed graph rt and
// returns t to StateDefault.
//
// Retiring a resource that has no pending export does nothing, so every
// temporal resource may be retired every frame whether it was used or not.
// Retire panics if t has a pending export but is not in StateExported.
func Retire[R rg.Resource](rt *rg.Retired, t *Resource[R]) {
	if t.pending == nil {
		return
	}
	if t.state != StateExported {
		violation("retire", t, StateExported)
	}
	_, t.accessType = rg.ExportedResource(rt, *t.pending)
	t.pending = nil
	t.state = StateDefault

	framegraph.Logger().Debug("temporal: retired",
		"resource", t.resource.Label(),
		"graph", rt.Label(),
		"access", t.accessType.String())
}
