package cli

import (
	"errors"
	"slices"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/framegraph/access"
	"github.com/gogpu/framegraph/rg"
)

// resourceKind validates and creates one kind of scenario resource.
type resourceKind struct {
	// plan checks the kind-specific fields and fills in the plan.
	plan func(p *resourcePlan) error
	// supports reports whether the kind has a usage for a.
	supports func(a access.Type) bool
	// create builds the resource with the usage its accesses need.
	create func(p *resourcePlan) rg.Resource
}

// resourceKinds holds the kinds accepted in the scenario "kind" field.
var resourceKinds = func() *gpucontext.Registry[resourceKind] {
	r := gpucontext.NewRegistry[resourceKind]()
	r.Register("image", func() resourceKind { return imageKind })
	r.Register("buffer", func() resourceKind { return bufferKind })
	return r
}()

// kindNames returns the registered kind names, sorted.
func kindNames() []string {
	names := resourceKinds.Available()
	slices.Sort(names)
	return names
}

var imageKind = resourceKind{
	plan: func(p *resourcePlan) error {
		if p.spec.Width == 0 || p.spec.Height == 0 {
			return errors.New("image needs width and height")
		}
		var err error
		p.format, err = ParseTextureFormat(p.spec.Format)
		return err
	},
	supports: func(a access.Type) bool {
		return a.Info().TextureUsage != gputypes.TextureUsageNone
	},
	create: func(p *resourcePlan) rg.Resource {
		var usage gputypes.TextureUsage
		for _, a := range p.accesses() {
			usage |= a.Info().TextureUsage
		}
		return rg.NewImage(gputypes.TextureDescriptor{
			Label:         p.spec.Name,
			Size:          gputypes.NewExtent2D(p.spec.Width, p.spec.Height),
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        p.format,
			Usage:         usage,
		})
	},
}

var bufferKind = resourceKind{
	plan: func(p *resourcePlan) error {
		if p.spec.Size == 0 {
			return errors.New("buffer needs a size")
		}
		return nil
	},
	supports: func(a access.Type) bool {
		return a.Info().BufferUsage != gputypes.BufferUsageNone
	},
	create: func(p *resourcePlan) rg.Resource {
		var usage gputypes.BufferUsage
		for _, a := range p.accesses() {
			usage |= a.Info().BufferUsage
		}
		return rg.NewBuffer(gputypes.BufferDescriptor{
			Label: p.spec.Name,
			Size:  p.spec.Size,
			Usage: usage,
		})
	},
}
