// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scanout

import "log/slog"

// Revalidate re-tests the previous frame's composition against the
// current layer stack, avoiding a full reassignment when the hardware
// still accepts it.
//
// layers is the current frame's stack; per-plane source layers from the
// previous composition are matched to it by z-order. Plane states using
// the hardware scaler are re-checked first. A single commit test then
// decides: on success requestFull is false and the Feedback mirrors what
// a fresh Validate would report; on refusal requestFull is true and the
// caller runs Validate.
func (a *Assigner) Revalidate(layers []*OverlayLayer, composition Composition) (Feedback, bool, bool) {
	byZOrder := make(map[int]*OverlayLayer, len(layers))
	for _, layer := range layers {
		byZOrder[layer.ZOrder] = layer
	}

	current := func(layer *OverlayLayer) *OverlayLayer {
		if l, ok := byZOrder[layer.ZOrder]; ok {
			return l
		}
		return layer
	}

	var bindings []PlaneBinding
	for _, state := range composition {
		bound := state.ScanoutLayer()
		if state.OffScreenTarget() == nil {
			bound = current(bound)
		}
		bindings = append(bindings, PlaneBinding{Plane: state.Plane(), Layer: bound})

		// The scaler decision depends on the topmost source layer;
		// re-run it in case the layer's geometry moved.
		if state.UsesPlaneScalar() {
			source := state.SourceLayers()
			top := current(source[len(source)-1])
			a.validateForDisplayScaling(state, bindings, top, true)
		}
	}

	if !a.handler.TestCommit(bindings) {
		Logger().Debug("revalidation rejected, requesting full validation",
			slog.Int("planes", len(composition)))
		return nil, false, true
	}

	renderRequired := a.anyOffScreen(composition)
	return collectFeedback(composition), renderRequired, false
}
