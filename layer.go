// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scanout

import (
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/fixed"
)

// Transform describes how a layer's buffer is oriented before scan-out.
type Transform uint8

const (
	// TransformIdentity presents the buffer as-is.
	TransformIdentity Transform = iota

	// TransformRotate90 rotates the buffer 90 degrees clockwise.
	TransformRotate90

	// TransformRotate180 rotates the buffer 180 degrees.
	TransformRotate180

	// TransformRotate270 rotates the buffer 270 degrees clockwise.
	TransformRotate270

	// TransformFlipH mirrors the buffer horizontally.
	TransformFlipH

	// TransformFlipV mirrors the buffer vertically.
	TransformFlipV
)

// Buffer is the memory backing a layer.
//
// Framebuffer handles are created lazily: a buffer arriving from a client
// has no scan-out handle until a plane is about to read it directly. The
// handle is owned by the buffer, not by the assigner.
type Buffer interface {
	// Format returns the pixel format of the buffer.
	Format() gputypes.TextureFormat

	// Framebuffer returns the scan-out framebuffer handle, or 0 when
	// none has been created yet.
	Framebuffer() uint32

	// EnsureFramebuffer creates the framebuffer handle against the
	// given device if it does not exist yet.
	EnsureFramebuffer(device gpucontext.DeviceProvider) error
}

// OverlayLayer is one entry of the frame's layer stack, ordered
// bottom-to-top by ZOrder. Layers are owned by the caller; the assigner
// only reads them. Per-layer results are reported through [Feedback]
// rather than written back.
type OverlayLayer struct {
	// ZOrder is the layer's position in the stack. Monotonically
	// increasing from the bottom layer upward.
	ZOrder int

	// DisplayFrame is the on-screen destination rectangle.
	DisplayFrame image.Rectangle

	// SourceCrop is the region of the buffer to sample, in 26.6
	// fixed-point coordinates.
	SourceCrop fixed.Rectangle26_6

	// Transform is the orientation applied between crop and frame.
	Transform Transform

	// Buffer is the layer's backing memory.
	Buffer Buffer

	// Video marks a layer produced by the video decode path. Video
	// layers prefer the video compositor backend and video-format
	// off-screen targets.
	Video bool

	// Cursor marks a pointer layer. Cursor layers are passed to
	// Validate separately and planned after the overlay layers.
	Cursor bool

	// PreferSeparatePlane hints that the layer should keep its own
	// plane even when it cannot scan out directly, so it is composited
	// alone rather than folded into a neighbor.
	PreferSeparatePlane bool
}
