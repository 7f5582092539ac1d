package access

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// ErrUnknownType is returned by ParseType for names that match no Type.
var ErrUnknownType = errors.New("access: unknown access type")

// Type is one kind of GPU access to a resource.
type Type uint8

// Access types.
const (
	// Nothing means the resource has not been accessed yet.
	Nothing Type = iota
	IndirectBuffer
	VertexBuffer
	IndexBuffer
	VertexShaderReadUniformBuffer
	FragmentShaderReadSampledImage
	FragmentShaderReadUniformBuffer
	ColorAttachmentRead
	ColorAttachmentWrite
	DepthStencilAttachmentRead
	DepthStencilAttachmentWrite
	ComputeShaderReadSampledImage
	ComputeShaderReadUniformBuffer
	ComputeShaderReadOther
	ComputeShaderWrite
	TransferRead
	TransferWrite
	HostRead
	HostWrite
	Present
	// General covers any access; it always requires a barrier.
	General

	typeCount
)

// Info describes an access in gputypes terms.
type Info struct {
	// Stage is the set of shader stages performing the access.
	// ShaderStageNone for fixed-function, transfer and host access.
	Stage gputypes.ShaderStage

	// TextureUsage is the usage flag an image needs for this access.
	// TextureUsageNone if images cannot be accessed this way.
	TextureUsage gputypes.TextureUsage

	// BufferUsage is the usage flag a buffer needs for this access.
	// BufferUsageNone if buffers cannot be accessed this way.
	BufferUsage gputypes.BufferUsage

	// Write reports whether the access modifies the resource.
	Write bool
}

type typeEntry struct {
	name string
	info Info
}

var types = [typeCount]typeEntry{
	Nothing:        {"nothing", Info{}},
	IndirectBuffer: {"indirect-buffer", Info{BufferUsage: gputypes.BufferUsageIndirect}},
	VertexBuffer:   {"vertex-buffer", Info{BufferUsage: gputypes.BufferUsageVertex}},
	IndexBuffer:    {"index-buffer", Info{BufferUsage: gputypes.BufferUsageIndex}},
	VertexShaderReadUniformBuffer: {"vertex-shader-read-uniform-buffer", Info{
		Stage:       gputypes.ShaderStageVertex,
		BufferUsage: gputypes.BufferUsageUniform,
	}},
	FragmentShaderReadSampledImage: {"fragment-shader-read-sampled-image", Info{
		Stage:        gputypes.ShaderStageFragment,
		TextureUsage: gputypes.TextureUsageTextureBinding,
	}},
	FragmentShaderReadUniformBuffer: {"fragment-shader-read-uniform-buffer", Info{
		Stage:       gputypes.ShaderStageFragment,
		BufferUsage: gputypes.BufferUsageUniform,
	}},
	ColorAttachmentRead: {"color-attachment-read", Info{
		TextureUsage: gputypes.TextureUsageRenderAttachment,
	}},
	ColorAttachmentWrite: {"color-attachment-write", Info{
		TextureUsage: gputypes.TextureUsageRenderAttachment,
		Write:        true,
	}},
	DepthStencilAttachmentRead: {"depth-stencil-attachment-read", Info{
		TextureUsage: gputypes.TextureUsageRenderAttachment,
	}},
	DepthStencilAttachmentWrite: {"depth-stencil-attachment-write", Info{
		TextureUsage: gputypes.TextureUsageRenderAttachment,
		Write:        true,
	}},
	ComputeShaderReadSampledImage: {"compute-shader-read-sampled-image", Info{
		Stage:        gputypes.ShaderStageCompute,
		TextureUsage: gputypes.TextureUsageTextureBinding,
	}},
	ComputeShaderReadUniformBuffer: {"compute-shader-read-uniform-buffer", Info{
		Stage:       gputypes.ShaderStageCompute,
		BufferUsage: gputypes.BufferUsageUniform,
	}},
	ComputeShaderReadOther: {"compute-shader-read-other", Info{
		Stage:        gputypes.ShaderStageCompute,
		TextureUsage: gputypes.TextureUsageStorageBinding,
		BufferUsage:  gputypes.BufferUsageStorage,
	}},
	ComputeShaderWrite: {"compute-shader-write", Info{
		Stage:        gputypes.ShaderStageCompute,
		TextureUsage: gputypes.TextureUsageStorageBinding,
		BufferUsage:  gputypes.BufferUsageStorage,
		Write:        true,
	}},
	TransferRead: {"transfer-read", Info{
		TextureUsage: gputypes.TextureUsageCopySrc,
		BufferUsage:  gputypes.BufferUsageCopySrc,
	}},
	TransferWrite: {"transfer-write", Info{
		TextureUsage: gputypes.TextureUsageCopyDst,
		BufferUsage:  gputypes.BufferUsageCopyDst,
		Write:        true,
	}},
	HostRead:  {"host-read", Info{BufferUsage: gputypes.BufferUsageMapRead}},
	HostWrite: {"host-write", Info{BufferUsage: gputypes.BufferUsageMapWrite, Write: true}},
	Present:   {"present", Info{TextureUsage: gputypes.TextureUsageRenderAttachment}},
	General: {"general", Info{
		Stage: gputypes.ShaderStagesAll,
		Write: true,
	}},
}

// Valid reports whether t is a known access type.
func (t Type) Valid() bool {
	return t < typeCount
}

// Info returns the gputypes description of t.
// Unknown types return the zero Info.
func (t Type) Info() Info {
	if !t.Valid() {
		return Info{}
	}
	return types[t].info
}

// IsWrite reports whether t modifies the resource.
func (t Type) IsWrite() bool {
	return t.Info().Write
}

// String returns the kebab-case name of t, as accepted by ParseType.
func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
	return types[t].name
}

// ParseType returns the Type named s. Matching ignores case and accepts
// underscores in place of dashes.
func ParseType(s string) (Type, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for i := range types {
		if types[i].name == name {
			return Type(i), nil
		}
	}
	return Nothing, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// All returns every known access type in declaration order.
func All() []Type {
	all := make([]Type, 0, typeCount)
	for t := Nothing; t < typeCount; t++ {
		all = append(all, t)
	}
	return all
}

// NeedsBarrier reports whether moving a resource from prev to next requires
// synchronization. Only a repeated identical read is free; General always
// synchronizes. Leaving Nothing requires a barrier for the initial layout
// transition.
func NeedsBarrier(prev, next Type) bool {
	if prev == General || next == General {
		return true
	}
	if prev != next {
		return true
	}
	return prev.IsWrite()
}
