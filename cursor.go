// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scanout

import "log/slog"

// Cursor layers are planned after the overlay stack: each one gets its
// own plane when a free plane can scan it out, and folds into the
// topmost overlay state otherwise.

// lastUsedOverlay returns the topmost plane state that is not a
// cursor-only plane, the fold destination for cursors that cannot scan
// out.
func (a *Assigner) lastUsedOverlay(composition Composition) *DisplayPlaneState {
	for i := len(composition) - 1; i >= 0; i-- {
		state := composition[i]
		if a.cursorPlane != nil && state.Plane() == a.cursorPlane && !a.cursorPlane.Universal() {
			continue
		}
		return state
	}
	return nil
}

// preparePlaneForCursor retargets a plane state that just absorbed a
// cursor layer. The state's display frame has grown, so its target is
// reallocated from the cursor pool when missing or when the video
// backend owned the old one, damage regions are cleared, and every
// surface in the history moves to the new frame.
func (a *Assigner) preparePlaneForCursor(state *DisplayPlaneState, resetBuffer bool) {
	surface := state.OffScreenTarget()
	if surface != nil && resetBuffer {
		surface.SetInUse(false)
		state.clearSurfaces()
	}

	if surface == nil || resetBuffer {
		frame := state.DisplayFrame()
		a.setOffScreenCursorPlaneTarget(state, frame.Dx(), frame.Dy())
	}

	state.resetCompositionRegions()
	frame := state.DisplayFrame()
	for _, s := range state.Surfaces() {
		s.ResetDisplayFrame(frame)
	}

	state.SwapSurfaceIfNeeded()
}

// validateCursorLayers assigns the frame's cursor layers, walking planes
// from the topmost downward. It reports whether any cursor ended up in
// an off-screen composition.
func (a *Assigner) validateCursorLayers(cursorLayers []*OverlayLayer, composition *Composition) bool {
	if len(cursorLayers) == 0 {
		return false
	}

	lastPlane := a.lastUsedOverlay(*composition)
	isVideo := lastPlane.VideoPlane()

	var bindings []PlaneBinding
	for _, state := range *composition {
		bindings = append(bindings, PlaneBinding{Plane: state.Plane(), Layer: state.ScanoutLayer()})
	}

	rendered := false
	index := 0
	for i := len(a.planes) - 1; i >= 0; i-- {
		if index == len(cursorLayers) {
			break
		}

		plane := a.planes[i]
		if plane.InUse() {
			continue
		}

		cursor := cursorLayers[index]
		bindings = append(bindings, PlaneBinding{Plane: plane, Layer: cursor})
		if a.fallbackToGPU(plane, cursor, bindings) {
			bindings = bindings[:len(bindings)-1]
			lastPlane.AddLayer(cursor)
			resetOverlay := lastPlane.OffScreenTarget() == nil || isVideo
			a.preparePlaneForCursor(lastPlane, isVideo)

			if resetOverlay {
				// The fold changed what the plane scans out; rebuild
				// the proposal from scratch.
				bindings = bindings[:0]
				for _, state := range *composition {
					bindings = append(bindings, PlaneBinding{Plane: state.Plane(), Layer: state.ScanoutLayer()})
				}
			}

			a.validateForDisplayScaling(lastPlane, bindings, cursor, false)
			rendered = true
			Logger().Debug("cursor folded into overlay",
				slog.Int("zorder", cursor.ZOrder))
		} else {
			*composition = append(*composition, newPlaneState(plane, cursor))
			plane.SetInUse(true)
			lastPlane = a.lastUsedOverlay(*composition)
			isVideo = lastPlane.VideoPlane()
		}

		index++
	}

	// Out of planes: the remaining cursors all fold into the topmost
	// overlay state.
	var lastLayer *OverlayLayer
	for ; index < len(cursorLayers); index++ {
		cursor := cursorLayers[index]
		lastPlane.AddLayer(cursor)
		rendered = true
		lastLayer = cursor
	}

	if lastLayer != nil {
		a.preparePlaneForCursor(lastPlane, isVideo)
		a.validateForDisplayScaling(lastPlane, bindings, lastLayer, false)
	}

	return rendered
}
