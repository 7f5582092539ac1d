package rg

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/framegraph/access"
)

// Resource is a GPU object that can be imported into a Graph.
type Resource interface {
	// Label returns a human readable name used in barriers and logs.
	Label() string

	// Supports reports whether the resource was created with the usage the
	// given access requires.
	Supports(a access.Type) bool
}

// Image is a texture resource. It satisfies gpucontext.Texture, so code
// that only needs the extent can take an Image directly.
type Image struct {
	desc gputypes.TextureDescriptor
}

// NewImage creates an Image described by desc.
func NewImage(desc gputypes.TextureDescriptor) *Image {
	return &Image{desc: desc}
}

// NewImageFromTexture creates an Image for a texture the host application
// already owns, such as a window-sized history target. The extent is taken
// from host and overrides desc.Size; a zero depth becomes 1.
func NewImageFromTexture(host gpucontext.Texture, desc gputypes.TextureDescriptor) *Image {
	desc.Size.Width = uint32(max(host.Width(), 0))
	desc.Size.Height = uint32(max(host.Height(), 0))
	if desc.Size.DepthOrArrayLayers == 0 {
		desc.Size.DepthOrArrayLayers = 1
	}
	return &Image{desc: desc}
}

// Label returns the descriptor label, or "image" if it is empty.
func (i *Image) Label() string {
	if i.desc.Label == "" {
		return "image"
	}
	return i.desc.Label
}

// Desc returns the texture descriptor.
func (i *Image) Desc() gputypes.TextureDescriptor {
	return i.desc
}

// Width returns the texture width in pixels.
func (i *Image) Width() int {
	return int(i.desc.Size.Width)
}

// Height returns the texture height in pixels.
func (i *Image) Height() int {
	return int(i.desc.Size.Height)
}

// Supports reports whether the image usage flags allow a.
func (i *Image) Supports(a access.Type) bool {
	return supports(a, uint64(a.Info().TextureUsage), uint64(i.desc.Usage))
}

// Buffer is a buffer resource.
type Buffer struct {
	desc gputypes.BufferDescriptor
}

// NewBuffer creates a Buffer described by desc.
func NewBuffer(desc gputypes.BufferDescriptor) *Buffer {
	return &Buffer{desc: desc}
}

// Label returns the descriptor label, or "buffer" if it is empty.
func (b *Buffer) Label() string {
	if b.desc.Label == "" {
		return "buffer"
	}
	return b.desc.Label
}

// Desc returns the buffer descriptor.
func (b *Buffer) Desc() gputypes.BufferDescriptor {
	return b.desc
}

// Supports reports whether the buffer usage flags allow a.
func (b *Buffer) Supports(a access.Type) bool {
	return supports(a, uint64(a.Info().BufferUsage), uint64(b.desc.Usage))
}

// supports checks a required usage bit against the usage a resource was
// created with. Nothing and General need no particular usage.
func supports(a access.Type, required, usage uint64) bool {
	switch {
	case !a.Valid():
		return false
	case a == access.Nothing, a == access.General:
		return true
	case required == 0:
		return false
	default:
		return usage&required == required
	}
}

var (
	_ Resource           = (*Image)(nil)
	_ Resource           = (*Buffer)(nil)
	_ gpucontext.Texture = (*Image)(nil)
)
