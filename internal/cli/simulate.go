package cli

import (
	"fmt"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/access"
	"github.com/gogpu/framegraph/rg"
	"github.com/gogpu/framegraph/temporal"
)

// FrameResult is the state of one resource after one frame was retired.
type FrameResult struct {
	Frame    int    `json:"frame"`
	Resource string `json:"resource"`
	Used     bool   `json:"used"`
	// State is the lifecycle state, or "absent" if the resource is not
	// registered (never used yet, or evicted).
	State    string `json:"state"`
	Access   string `json:"access"`
	Barriers int    `json:"barriers"`
}

// Report is the outcome of a simulated scenario.
type Report struct {
	Frames  int           `json:"frames"`
	Results []FrameResult `json:"results"`
	// Evicted lists resources evicted from the registry, in order.
	Evicted   []string `json:"evicted,omitempty"`
	Evictions uint64   `json:"evictions"`
}

// Simulate runs every frame of s through a render graph, keeping the
// scenario's resources in a temporal registry of the given capacity.
func Simulate(s *Scenario, capacity int) (*Report, error) {
	plans, err := s.plan()
	if err != nil {
		return nil, err
	}

	report := &Report{Frames: s.Frames}
	var released []string
	reg := temporal.NewRegistry(capacity, func(key string, _ rg.Resource) {
		released = append(released, key)
	})

	for frame := range s.Frames {
		g := rg.New(fmt.Sprintf("frame-%d", frame))
		for _, p := range plans {
			if !p.usedIn(frame) {
				continue
			}
			if err := recordResource(g, reg.GetOrCreate(p.spec.Name, p.newResource), p); err != nil {
				return nil, fmt.Errorf("frame %d: %w", frame, err)
			}
		}

		rt, err := g.Execute()
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", frame, err)
		}
		reg.Retire(rt)

		barriers := make(map[string]int)
		for _, b := range rt.Barriers() {
			barriers[b.Resource]++
		}
		for _, p := range plans {
			result := FrameResult{
				Frame:    frame,
				Resource: p.spec.Name,
				Used:     p.usedIn(frame),
				State:    "absent",
				Access:   access.Nothing.String(),
				Barriers: barriers[p.spec.Name],
			}
			if t, ok := reg.Peek(p.spec.Name); ok {
				result.State = t.State().String()
				result.Access = t.AccessType().String()
			}
			report.Results = append(report.Results, result)
		}

		framegraph.Logger().Debug("rgdemo: frame retired",
			"frame", frame,
			"resources", g.NumResources(),
			"passes", g.NumPasses(),
			"barriers", len(rt.Barriers()))
	}

	report.Evicted = released
	report.Evictions = reg.Evictions()
	reg.Clear()
	return report, nil
}

// recordResource imports t, adds its passes and exports it.
func recordResource(g *rg.Graph, t *temporal.Resource[rg.Resource], p *resourcePlan) error {
	h := temporal.Import(g, t)
	if p.spec.Read != "" {
		if err := g.AddPass(p.spec.Name+"/reproject", rg.Read(h, p.read)); err != nil {
			return err
		}
	}
	if err := g.AddPass(p.spec.Name+"/resolve", rg.Write(h, p.write)); err != nil {
		return err
	}
	temporal.Export(g, h, t, p.export)
	return nil
}

// newResource creates the GPU resource described by the plan.
func (p *resourcePlan) newResource() rg.Resource {
	return p.kind.create(p)
}
