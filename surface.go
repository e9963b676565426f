// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scanout

import (
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/math/fixed"
)

// NativeSurface is an off-screen composition target: the GPU composites
// one or more source layers into it, then a plane scans it out.
//
// A surface owns a descriptor layer presenting the surface itself to the
// plane; plane states borrow that descriptor when building commit
// proposals. Surfaces are pooled by the assigner and recycled across
// frames: a surface stays alive while in use and is reclaimed by
// ReleaseFreeOffScreenTargets once no plane state references it.
type NativeSurface interface {
	// Layer returns the surface-owned descriptor layer that a plane
	// binds when scanning this surface out.
	Layer() *OverlayLayer

	// InUse reports whether some plane state holds this surface as its
	// off-screen target.
	InUse() bool

	// SetInUse pins or releases the surface in the pool.
	SetInUse(used bool)

	// Init configures the surface's pixel format. Cursor targets are
	// sized to the cursor footprint rather than the display.
	Init(format gputypes.TextureFormat, cursor bool)

	// SetPlaneTarget binds the surface to a plane state, updating the
	// descriptor layer to cover the state's display frame, and prepares
	// the surface for scan-out on the given device.
	SetPlaneTarget(state *DisplayPlaneState, device gpucontext.DeviceProvider)

	// ResetDisplayFrame moves the descriptor layer to a new frame.
	ResetDisplayFrame(frame image.Rectangle)

	// ResetSourceCrop changes the region of the surface the plane
	// samples.
	ResetSourceCrop(crop fixed.Rectangle26_6)

	// SetUsePlaneScalar records on the descriptor layer whether the
	// plane's hardware scaler resizes this surface during scan-out.
	SetUsePlaneScalar(enable bool)
}

// SurfaceFactory allocates off-screen targets. It is the boundary to the
// GPU 3D and video compositor backends: the assigner only decides which
// targets exist, the backends fill them.
type SurfaceFactory interface {
	// Create3DBuffer allocates a target for the 3D compositor backend.
	Create3DBuffer(width, height int) NativeSurface

	// CreateVideoBuffer allocates a target for the video compositor
	// backend.
	CreateVideoBuffer(width, height int) NativeSurface
}
