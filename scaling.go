// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scanout

import "log/slog"

// validateForDisplayScaling decides whether a single-layer plane state
// should resize with the plane's hardware scaler instead of the GPU.
//
// The scaler is only worth it when the state would be GPU-composited
// anyway (unsupported format or non-identity transform) and the resize
// is not a pure downscale, where the GPU does better. For mixed
// up/down scaling the cheaper direction wins, costed as the scaled
// pixel delta times the orthogonal extent. revalidation passes
// ignoreFormat to keep a previously chosen scaler even though the
// composited target's format differs from the source layer's.
func (a *Assigner) validateForDisplayScaling(state *DisplayPlaneState, bindings []PlaneBinding, layer *OverlayLayer, ignoreFormat bool) {
	surfaces := state.Surfaces()

	if state.UsesPlaneScalar() {
		state.setUsesPlaneScalar(false)
		state.ResetSourceRectToDisplayFrame()
		crop := state.SourceCrop()
		for _, surface := range surfaces {
			surface.ResetSourceCrop(crop)
			surface.SetUsePlaneScalar(false)
		}
	}

	// Layers sharing a plane rarely share a scaling ratio; one scaler
	// cannot serve them all.
	if len(state.SourceLayers()) > 1 {
		return
	}

	if cropMatchesFrame(layer.DisplayFrame, layer.SourceCrop) {
		return
	}

	frameWidth := layer.DisplayFrame.Dx()
	frameHeight := layer.DisplayFrame.Dy()
	cropW := cropWidth(layer.SourceCrop)
	cropH := cropHeight(layer.SourceCrop)

	// An untransformed layer in a format the plane accepts scans out
	// directly; no scaler needed.
	if !ignoreFormat && layer.Transform == TransformIdentity &&
		state.Plane().SupportsFormat(layer.Buffer.Format()) {
		return
	}

	// Pure downscale: the compositor backend shrinks cheaper than the
	// plane scaler.
	if frameWidth < cropW && frameHeight < cropH {
		return
	}

	// Width grows, height shrinks: skip the scaler when downscaling
	// the height costs more than upscaling the width.
	if frameWidth > cropW && frameHeight < cropH {
		widthCost := (frameWidth - cropW) * frameHeight
		heightCost := (cropH - frameHeight) * frameWidth
		if heightCost > widthCost {
			return
		}
	}

	// Height grows, width shrinks: skip the scaler when downscaling
	// the width costs more than upscaling the height.
	if frameWidth < cropW && frameHeight > cropH {
		widthCost := (cropW - frameWidth) * frameHeight
		heightCost := (frameHeight - cropH) * frameWidth
		if widthCost > heightCost {
			return
		}
	}

	// Sample the layer's crop and let the plane scaler stretch it to
	// the display frame, if the hardware agrees.
	crop := layer.SourceCrop
	state.SetSourceCrop(crop)
	for _, surface := range surfaces {
		surface.ResetSourceCrop(crop)
		surface.SetUsePlaneScalar(true)
	}

	bindings[len(bindings)-1].Layer = state.ScanoutLayer()

	fallback := a.fallbackToGPU(state.Plane(), state.OffScreenTarget().Layer(), bindings)
	if fallback {
		state.ResetSourceRectToDisplayFrame()
		reset := state.SourceCrop()
		for _, surface := range surfaces {
			surface.ResetSourceCrop(reset)
			surface.SetUsePlaneScalar(false)
		}
		Logger().Debug("plane scaler rejected, reverting",
			slog.Int("zorder", layer.ZOrder))
		return
	}

	state.setUsesPlaneScalar(true)
}
