// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scanout

// LayerFeedback is the assigner's verdict for one input layer.
type LayerFeedback struct {
	// GPURendered is set when the layer must be composited by the GPU
	// into its plane's off-screen target instead of scanning out
	// directly.
	GPURendered bool

	// UsePlaneScalar is set when the layer's plane resizes the
	// composited result with its hardware scaler, so the GPU composites
	// at source resolution.
	UsePlaneScalar bool
}

// Feedback maps layer z-order to the assigner's verdict. Layers that
// scan out directly have no entry. Input layers are never mutated; this
// is the only channel results flow back to the caller.
type Feedback map[int]LayerFeedback

// collectFeedback gathers verdicts for every plane state that
// composites off-screen.
func collectFeedback(composition Composition) Feedback {
	feedback := make(Feedback)
	for _, state := range composition {
		if !state.NeedsOffScreenComposition() {
			continue
		}
		scalar := state.UsesPlaneScalar()
		for _, layer := range state.SourceLayers() {
			feedback[layer.ZOrder] = LayerFeedback{
				GPURendered:    true,
				UsePlaneScalar: scalar,
			}
		}
	}
	return feedback
}
