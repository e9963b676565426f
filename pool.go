// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scanout

import "github.com/gogpu/gputypes"

// Off-screen targets live in two pools: display-sized surfaces for
// overlay composition and cursor-sized surfaces. Lookup is a linear scan
// for the first free surface of the wanted format; pools stay small
// enough that a keyed index would not pay for itself.

// findFreeSurface returns the first unpinned surface whose format
// matches, or nil.
func findFreeSurface(pool []NativeSurface, format gputypes.TextureFormat) NativeSurface {
	for _, surface := range pool {
		if surface.InUse() {
			continue
		}
		if surface.Layer().Buffer.Format() == format {
			return surface
		}
	}
	return nil
}

// ensureOffScreenTarget attaches a pooled display-sized target to the
// state, allocating from the 3D or video backend on a pool miss.
func (a *Assigner) ensureOffScreenTarget(state *DisplayPlaneState) {
	video := state.VideoPlane()
	var format gputypes.TextureFormat
	if video {
		format = state.Plane().PreferredVideoFormat()
	} else {
		format = state.Plane().PreferredFormat()
	}

	surface := findFreeSurface(a.surfaces, format)
	if surface == nil {
		if video {
			surface = a.factory.CreateVideoBuffer(a.width, a.height)
		} else {
			surface = a.factory.Create3DBuffer(a.width, a.height)
		}
		surface.Init(format, false)
		a.surfaces = append(a.surfaces, surface)
	}

	surface.SetPlaneTarget(state, a.device)
	state.SetOffScreenTarget(surface)
}

// setOffScreenPlaneTarget attaches a target and forces the state through
// GPU composition even with a single source layer.
func (a *Assigner) setOffScreenPlaneTarget(state *DisplayPlaneState) {
	a.ensureOffScreenTarget(state)
	state.ForceGPURendering()
}

// setOffScreenCursorPlaneTarget attaches a cursor-pool target covering
// the given extent.
func (a *Assigner) setOffScreenCursorPlaneTarget(state *DisplayPlaneState, width, height int) {
	format := state.Plane().PreferredFormat()
	surface := findFreeSurface(a.cursorSurfaces, format)
	if surface == nil {
		surface = a.factory.Create3DBuffer(width, height)
		surface.Init(format, true)
		a.cursorSurfaces = append(a.cursorSurfaces, surface)
	}

	surface.SetPlaneTarget(state, a.device)
	state.SetOffScreenTarget(surface)
	state.ForceGPURendering()
}

// ReleaseAllOffScreenTargets drops both surface pools. Call on modeset,
// when previously allocated targets no longer match the display.
func (a *Assigner) ReleaseAllOffScreenTargets() {
	a.surfaces = nil
	a.cursorSurfaces = nil
}

// ReleaseFreeOffScreenTargets compacts the pools to the surfaces still
// pinned by a plane state. Call between frames once the previous
// composition has retired.
func (a *Assigner) ReleaseFreeOffScreenTargets() {
	a.surfaces = compactInUse(a.surfaces)
	a.cursorSurfaces = compactInUse(a.cursorSurfaces)
}

func compactInUse(pool []NativeSurface) []NativeSurface {
	var kept []NativeSurface
	for _, surface := range pool {
		if surface.InUse() {
			kept = append(kept, surface)
		}
	}
	return kept
}
