// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scanout

import (
	"image"

	"golang.org/x/image/math/fixed"
)

// DisplayPlaneState is one plane's assignment for the current frame: the
// plane, the source layers it presents in z-order, and the off-screen
// target when those layers need GPU composition first.
//
// A state with two or more source layers always composites off-screen. A
// single-layer state scans the raw layer out directly unless a target is
// attached, in which case the plane scans out the target instead.
type DisplayPlaneState struct {
	plane  DisplayPlane
	layers []*OverlayLayer

	target   NativeSurface
	surfaces []NativeSurface

	displayFrame image.Rectangle
	sourceCrop   fixed.Rectangle26_6

	// regions are the damage regions the compositor backend refills on
	// the target. Cleared when the target is repurposed.
	regions []image.Rectangle

	videoPlane      bool
	usesPlaneScalar bool
	forceGPU        bool
}

// newPlaneState binds a plane to its first (bottom-most) source layer.
func newPlaneState(plane DisplayPlane, layer *OverlayLayer) *DisplayPlaneState {
	return &DisplayPlaneState{
		plane:        plane,
		layers:       []*OverlayLayer{layer},
		displayFrame: layer.DisplayFrame,
		sourceCrop:   cropFromRect(layer.DisplayFrame),
	}
}

// Plane returns the hardware plane this state binds.
func (s *DisplayPlaneState) Plane() DisplayPlane {
	return s.plane
}

// SourceLayers returns the source layers in z-order.
func (s *DisplayPlaneState) SourceLayers() []*OverlayLayer {
	return s.layers
}

// AddLayer appends a source layer and grows the display frame to cover
// it. The cached source crop tracks the frame; multi-layer states never
// use the plane scaler.
func (s *DisplayPlaneState) AddLayer(layer *OverlayLayer) {
	s.layers = append(s.layers, layer)
	s.displayFrame = s.displayFrame.Union(layer.DisplayFrame)
	s.sourceCrop = cropFromRect(s.displayFrame)
}

// NeedsOffScreenComposition reports whether the plane scans out a
// GPU-composited target rather than a raw source layer.
func (s *DisplayPlaneState) NeedsOffScreenComposition() bool {
	return s.forceGPU || len(s.layers) > 1
}

// ForceGPURendering marks the state as composited even with one source
// layer.
func (s *DisplayPlaneState) ForceGPURendering() {
	s.forceGPU = true
}

// OffScreenTarget returns the attached composition target, or nil.
func (s *DisplayPlaneState) OffScreenTarget() NativeSurface {
	return s.target
}

// SetOffScreenTarget attaches a composition target, pins it in the pool
// and records it in the surface history.
func (s *DisplayPlaneState) SetOffScreenTarget(surface NativeSurface) {
	surface.SetInUse(true)
	s.target = surface
	for _, known := range s.surfaces {
		if known == surface {
			return
		}
	}
	s.surfaces = append(s.surfaces, surface)
}

// Surfaces returns the target history for this state. All entries are
// pinned; the current target is one of them.
func (s *DisplayPlaneState) Surfaces() []NativeSurface {
	return s.surfaces
}

// clearSurfaces drops the target history. The caller unpins the current
// target first.
func (s *DisplayPlaneState) clearSurfaces() {
	s.surfaces = nil
	s.target = nil
}

// SwapSurfaceIfNeeded rotates the target to the next surface in the
// history so the compositor does not write the buffer a plane is still
// scanning out.
func (s *DisplayPlaneState) SwapSurfaceIfNeeded() {
	if len(s.surfaces) < 2 {
		return
	}
	for i, surface := range s.surfaces {
		if surface == s.target {
			s.target = s.surfaces[(i+1)%len(s.surfaces)]
			return
		}
	}
}

// ScanoutLayer returns the layer the plane reads for this state: the
// target's descriptor layer when compositing off-screen, otherwise the
// single source layer.
func (s *DisplayPlaneState) ScanoutLayer() *OverlayLayer {
	if s.target != nil {
		return s.target.Layer()
	}
	return s.layers[0]
}

// DisplayFrame returns the union of the source layers' display frames.
func (s *DisplayPlaneState) DisplayFrame() image.Rectangle {
	return s.displayFrame
}

// SourceCrop returns the region the plane samples from its scan-out
// buffer.
func (s *DisplayPlaneState) SourceCrop() fixed.Rectangle26_6 {
	return s.sourceCrop
}

// SetSourceCrop narrows the sampled region, letting the plane scaler
// resize between crop and display frame.
func (s *DisplayPlaneState) SetSourceCrop(crop fixed.Rectangle26_6) {
	s.sourceCrop = crop
}

// ResetSourceRectToDisplayFrame restores 1:1 sampling.
func (s *DisplayPlaneState) ResetSourceRectToDisplayFrame() {
	s.sourceCrop = cropFromRect(s.displayFrame)
}

// VideoPlane reports whether the video compositor backend owns this
// state's target.
func (s *DisplayPlaneState) VideoPlane() bool {
	return s.videoPlane
}

// SetVideoPlane routes this state's composition to the video backend.
func (s *DisplayPlaneState) SetVideoPlane() {
	s.videoPlane = true
}

// UsesPlaneScalar reports whether the plane's hardware scaler resizes
// this state during scan-out.
func (s *DisplayPlaneState) UsesPlaneScalar() bool {
	return s.usesPlaneScalar
}

func (s *DisplayPlaneState) setUsesPlaneScalar(enable bool) {
	s.usesPlaneScalar = enable
}

// CompositionRegions returns the damage regions pending on the target.
func (s *DisplayPlaneState) CompositionRegions() []image.Rectangle {
	return s.regions
}

// AddCompositionRegion queues a damage region for the next composition
// pass.
func (s *DisplayPlaneState) AddCompositionRegion(region image.Rectangle) {
	s.regions = append(s.regions, region)
}

func (s *DisplayPlaneState) resetCompositionRegions() {
	s.regions = nil
}

// Composition is an ordered set of plane states: index 0 is always the
// primary plane, later entries sit higher in scan-out z-order. A plane
// appears at most once.
type Composition []*DisplayPlaneState
