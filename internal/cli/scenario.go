package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gogpu/gputypes"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/framegraph/access"
)

// ErrInvalidScenario is returned for scenario files that fail validation.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is the YAML description of a frame sequence.
type Scenario struct {
	Frames    int            `yaml:"frames" json:"frames"`
	Resources []ResourceSpec `yaml:"resources" json:"resources"`
}

// ResourceSpec describes one temporal resource and the frames using it.
type ResourceSpec struct {
	Name string `yaml:"name" json:"name"`
	// Kind is "image" or "buffer".
	Kind   string `yaml:"kind" json:"kind"`
	Width  uint32 `yaml:"width,omitempty" json:"width,omitempty"`
	Height uint32 `yaml:"height,omitempty" json:"height,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	Size   uint64 `yaml:"size,omitempty" json:"size,omitempty"`
	// Use lists the frames that use the resource. Empty means every frame.
	Use []int `yaml:"use,omitempty" json:"use,omitempty"`
	// Read is an optional access reading last frame's contents.
	Read   string `yaml:"read,omitempty" json:"read,omitempty"`
	Write  string `yaml:"write" json:"write"`
	Export string `yaml:"export" json:"export"`
}

// resourcePlan is a validated ResourceSpec.
type resourcePlan struct {
	spec   ResourceSpec
	kind   resourceKind
	format gputypes.TextureFormat
	read   access.Type
	write  access.Type
	export access.Type
	frames map[int]bool
}

func (p *resourcePlan) usedIn(frame int) bool {
	return p.frames == nil || p.frames[frame]
}

// LoadScenario reads and decodes a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes a YAML scenario. Unknown fields are rejected.
func ParseScenario(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	return &s, nil
}

// plan validates the scenario and resolves names into typed values.
func (s *Scenario) plan() ([]*resourcePlan, error) {
	if s.Frames <= 0 {
		return nil, fmt.Errorf("%w: frames must be positive, got %d", ErrInvalidScenario, s.Frames)
	}
	if len(s.Resources) == 0 {
		return nil, fmt.Errorf("%w: no resources", ErrInvalidScenario)
	}

	seen := make(map[string]bool, len(s.Resources))
	plans := make([]*resourcePlan, 0, len(s.Resources))
	for i, spec := range s.Resources {
		p, err := s.planResource(spec)
		if err != nil {
			return nil, fmt.Errorf("%w: resource %d (%q): %w", ErrInvalidScenario, i, spec.Name, err)
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("%w: duplicate resource name %q", ErrInvalidScenario, spec.Name)
		}
		seen[spec.Name] = true
		plans = append(plans, p)
	}
	return plans, nil
}

func (s *Scenario) planResource(spec ResourceSpec) (*resourcePlan, error) {
	if spec.Name == "" {
		return nil, errors.New("name is required")
	}
	p := &resourcePlan{spec: spec}

	var err error
	if spec.Read != "" {
		if p.read, err = access.ParseType(spec.Read); err != nil {
			return nil, err
		}
		if p.read.IsWrite() {
			return nil, fmt.Errorf("read access %s writes", p.read)
		}
	}
	if p.write, err = access.ParseType(spec.Write); err != nil {
		return nil, err
	}
	if !p.write.IsWrite() {
		return nil, fmt.Errorf("write access %s does not write", p.write)
	}
	if p.export, err = access.ParseType(spec.Export); err != nil {
		return nil, err
	}

	if !resourceKinds.Has(spec.Kind) {
		return nil, fmt.Errorf("unknown kind %q (want one of %s)", spec.Kind, strings.Join(kindNames(), ", "))
	}
	p.kind = resourceKinds.Get(spec.Kind)
	if err = p.kind.plan(p); err != nil {
		return nil, err
	}
	for _, a := range p.accesses() {
		if a != access.Nothing && a != access.General && !p.kind.supports(a) {
			return nil, fmt.Errorf("access %s cannot be used on a %s", a, spec.Kind)
		}
	}

	if len(spec.Use) > 0 {
		p.frames = make(map[int]bool, len(spec.Use))
		for _, f := range spec.Use {
			if f < 0 || f >= s.Frames {
				return nil, fmt.Errorf("frame %d out of range [0, %d)", f, s.Frames)
			}
			p.frames[f] = true
		}
	}
	return p, nil
}

// accesses returns the accesses the plan uses, skipping an absent read.
func (p *resourcePlan) accesses() []access.Type {
	out := make([]access.Type, 0, 3)
	if p.spec.Read != "" {
		out = append(out, p.read)
	}
	return append(out, p.write, p.export)
}

// textureFormats maps lower-case gputypes format names to formats.
var textureFormats = func() map[string]gputypes.TextureFormat {
	m := make(map[string]gputypes.TextureFormat)
	for f := gputypes.TextureFormatR8Unorm; f <= gputypes.TextureFormatASTC12x12UnormSrgb; f++ {
		name := f.String()
		if name == "Unknown" {
			continue
		}
		m[strings.ToLower(name)] = f
	}
	return m
}()

// ParseTextureFormat resolves a gputypes format name, ignoring case.
func ParseTextureFormat(name string) (gputypes.TextureFormat, error) {
	if f, ok := textureFormats[strings.ToLower(strings.TrimSpace(name))]; ok {
		return f, nil
	}
	return gputypes.TextureFormatUndefined, fmt.Errorf("unknown texture format %q", name)
}
