// Package access describes how the GPU touches a resource.
//
// A [Type] names one kind of access (a sampled read in a fragment shader, a
// color attachment write, a transfer source, ...). Two Types compare equal
// when they describe the same access. [Nothing] is the state of a resource
// that has not been touched yet.
//
// Each Type maps to the WebGPU vocabulary of github.com/gogpu/gputypes through
// [Type.Info]: the shader stages involved, the texture or buffer usage flag a
// resource must have been created with, and whether the access writes.
//
// [NeedsBarrier] is the only composition rule provided. It reports whether
// moving from one access to the next requires synchronization.
package access
