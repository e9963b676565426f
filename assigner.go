// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scanout

import (
	"errors"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// ErrNoPlanes is returned by Initialize when the handler enumerates no
// hardware planes. An assigner without planes is unusable.
var ErrNoPlanes = errors.New("scanout: no display planes enumerated")

// Flags carries the per-frame hints the frame scheduler passes to
// Validate.
type Flags struct {
	// PendingModeset indicates a mode switch is queued. With more than
	// one layer in flight, everything is pre-composited so the modeset
	// commits against a single plane.
	PendingModeset bool

	// DisableOverlay forces full GPU composition onto the primary
	// plane, bypassing overlay assignment entirely.
	DisableOverlay bool

	// RequestVideoEffect routes video layers through the video
	// compositor backend so it can apply the requested processing.
	RequestVideoEffect bool
}

// Assigner partitions a frame's layer stack between hardware planes and
// GPU pre-composition.
//
// An Assigner serves exactly one display and must be driven from that
// display's composition thread; it performs no internal locking. It owns
// the off-screen surface pools and holds non-owning references to the
// handler's planes.
type Assigner struct {
	handler PlaneHandler
	factory SurfaceFactory
	device  gpucontext.DeviceProvider

	planes  []DisplayPlane
	primary DisplayPlane

	// cursorPlane is the topmost plane when it is either cursor-only
	// hardware or reserved for cursors via WithReservedCursorPlane.
	cursorPlane        DisplayPlane
	reserveCursorPlane bool

	width  int
	height int

	surfaces       []NativeSurface
	cursorSurfaces []NativeSurface
}

// New creates an assigner over the given driver boundary. The device is
// handed to surfaces and buffers for framebuffer and target setup.
// Call Initialize before the first frame.
func New(handler PlaneHandler, factory SurfaceFactory, device gpucontext.DeviceProvider, opts ...Option) *Assigner {
	options := defaultAssignerOptions()
	for _, opt := range opts {
		opt(&options)
	}

	return &Assigner{
		handler:            handler,
		factory:            factory,
		device:             device,
		reserveCursorPlane: options.reserveCursorPlane,
	}
}

// Initialize enumerates the hardware planes and fixes the display
// dimensions used for off-screen targets. It returns ErrNoPlanes when
// enumeration comes back empty; any other error is the handler's.
func (a *Assigner) Initialize(width, height int) error {
	a.width = width
	a.height = height

	planes, err := a.handler.PopulatePlanes()
	if err != nil {
		return err
	}
	if len(planes) == 0 {
		return ErrNoPlanes
	}

	a.planes = planes
	a.primary = planes[0]
	a.cursorPlane = nil
	if len(planes) > 1 {
		a.cursorPlane = planes[len(planes)-1]
		reserved := a.reserveCursorPlane && len(planes) > 3
		// A universal topmost plane stays available for overlay
		// content unless explicitly reserved.
		if !reserved && a.cursorPlane.Universal() {
			a.cursorPlane = nil
		}
	}

	Logger().Info("display planes enumerated",
		slog.Int("planes", len(planes)),
		slog.Bool("cursor_plane", a.cursorPlane != nil),
		slog.Int("width", width),
		slog.Int("height", height))
	return nil
}

// CheckPlaneFormat reports whether the primary plane can scan out the
// given format.
func (a *Assigner) CheckPlaneFormat(format gputypes.TextureFormat) bool {
	return a.primary.SupportsFormat(format)
}

// Validate assigns the frame's layers to planes.
//
// layers is the bottom-to-top stack of non-cursor layers and must not be
// empty; cursorLayers holds the frame's cursor layers and may be empty.
// The returned composition always places the primary plane first. The
// boolean reports whether any plane state needs GPU composition this
// frame; the Feedback carries the per-layer verdicts.
//
// Validate never fails: any infeasible configuration collapses to full
// GPU composition on the primary plane, which is feasible by contract.
func (a *Assigner) Validate(layers, cursorLayers []*OverlayLayer, flags Flags) (Composition, Feedback, bool) {
	if len(layers) == 0 {
		return nil, nil, false
	}

	for _, plane := range a.planes {
		plane.SetInUse(false)
	}

	var composition Composition
	var bindings []PlaneBinding
	renderLayers := false

	// Seed with the primary plane and the bottom layer.
	primaryLayer := layers[0]
	bindings = append(bindings, PlaneBinding{Plane: a.primary, Layer: primaryLayer})
	composition = append(composition, newPlaneState(a.primary, primaryLayer))
	a.primary.SetInUse(true)
	rest := layers[1:]

	preferSeparate := primaryLayer.PreferSeparatePlane
	forceGPU := (flags.PendingModeset && len(layers) > 1) || flags.DisableOverlay
	forceVA := flags.RequestVideoEffect && primaryLayer.Video

	if forceGPU || forceVA || a.fallbackToGPU(a.primary, primaryLayer, bindings) {
		renderLayers = true
		last := composition[len(composition)-1]
		if forceGPU || !preferSeparate {
			// Primary needs GPU composition anyway; fold the whole
			// stack onto it, cursors included.
			for _, layer := range rest {
				last.AddLayer(layer)
			}
			for _, cursor := range cursorLayers {
				last.AddLayer(cursor)
			}
			if primaryLayer.Video && len(last.SourceLayers()) == 1 {
				// A lone video layer still composites through the
				// video backend; with more layers the 3D backend
				// takes over.
				last.SetVideoPlane()
			}
			a.resetPlaneTarget(last, bindings)
			Logger().Debug("composition folded onto primary",
				slog.Int("layers", len(layers)),
				slog.Bool("force_gpu", forceGPU))
			composition = a.validateFinalLayers(composition)
			return composition, collectFeedback(composition), true
		}

		if primaryLayer.Video {
			last.SetVideoPlane()
		}
		a.resetPlaneTarget(last, bindings)
	}

	if renderLayers {
		a.validateForDisplayScaling(composition[len(composition)-1], bindings, primaryLayer, false)
	}

	if len(rest) > 0 {
		a.assignOverlays(rest, flags, preferSeparate, &composition, &bindings)
	}

	return a.finish(composition, cursorLayers, renderLayers || a.anyOffScreen(composition))
}

// assignOverlays walks the remaining planes in scan-out order, greedily
// binding the remaining layers. A layer that cannot scan out on the
// current plane folds into the previous plane state unless it (or the
// plane-opening layer before it) asked for a separate plane.
func (a *Assigner) assignOverlays(rest []*OverlayLayer, flags Flags, preferSeparate bool, composition *Composition, bindings *[]PlaneBinding) {
	idx := 0
	for _, plane := range a.planes[1:] {
		if a.reserveCursorPlane && len(a.planes) > 3 && plane == a.cursorPlane {
			continue
		}
		if idx >= len(rest) {
			break
		}

		for idx < len(rest) {
			layer := rest[idx]
			idx++
			*bindings = append(*bindings, PlaneBinding{Plane: plane, Layer: layer})

			fallback := a.fallbackToGPU(plane, layer, *bindings)
			if flags.RequestVideoEffect && layer.Video {
				fallback = true
			}

			if !fallback || preferSeparate || layer.PreferSeparatePlane {
				state := newPlaneState(plane, layer)
				*composition = append(*composition, state)
				plane.SetInUse(true)
				if fallback {
					if layer.Video {
						state.SetVideoPlane()
					}
					a.resetPlaneTarget(state, *bindings)
				}

				preferSeparate = layer.PreferSeparatePlane
				break
			}

			last := (*composition)[len(*composition)-1]
			last.AddLayer(layer)
			if last.OffScreenTarget() == nil {
				a.setOffScreenPlaneTarget(last)
			}
			*bindings = (*bindings)[:len(*bindings)-1]
		}
	}

	// Out of planes: the rest of the stack pre-composites onto the last
	// plane.
	last := (*composition)[len(*composition)-1]
	isVideo := last.VideoPlane()
	var previous *OverlayLayer
	for ; idx < len(rest); idx++ {
		previous = rest[idx]
		last.AddLayer(previous)
	}

	if last.NeedsOffScreenComposition() && previous != nil {
		forceBuffer := false
		if isVideo && len(last.SourceLayers()) > 1 && last.OffScreenTarget() != nil {
			// The video backend composites a single layer only; swap
			// the video target for a 3D one.
			last.OffScreenTarget().SetInUse(false)
			last.clearSurfaces()
			last.videoPlane = false
			forceBuffer = true
		}

		if last.OffScreenTarget() == nil || forceBuffer {
			a.resetPlaneTarget(last, *bindings)
		}

		a.validateForDisplayScaling(last, *bindings, previous, false)
	}
}

// finish runs cursor planning, the final feasibility check and feedback
// collection. Every Validate path except the fold-everything one funnels
// through here.
func (a *Assigner) finish(composition Composition, cursorLayers []*OverlayLayer, renderLayers bool) (Composition, Feedback, bool) {
	renderCursor := a.validateCursorLayers(cursorLayers, &composition)
	if !renderLayers {
		renderLayers = renderCursor
	}

	composition = a.validateFinalLayers(composition)

	return composition, collectFeedback(composition), renderLayers || a.anyOffScreen(composition)
}

func (a *Assigner) anyOffScreen(composition Composition) bool {
	for _, state := range composition {
		if state.NeedsOffScreenComposition() {
			return true
		}
	}
	return false
}

// validateFinalLayers makes sure every composited state has a target,
// then asks the hardware whether the whole proposal commits. On refusal
// the composition collapses to the primary plane owning every layer via
// GPU composition, which the driver accepts by contract.
func (a *Assigner) validateFinalLayers(composition Composition) Composition {
	var bindings []PlaneBinding
	for _, state := range composition {
		if state.NeedsOffScreenComposition() && state.OffScreenTarget() == nil {
			a.ensureOffScreenTarget(state)
		}
		bindings = append(bindings, PlaneBinding{Plane: state.Plane(), Layer: state.ScanoutLayer()})
	}

	if a.handler.TestCommit(bindings) {
		return composition
	}

	Logger().Warn("final commit test rejected, collapsing to primary",
		slog.Int("planes", len(composition)))

	for _, state := range composition {
		if target := state.OffScreenTarget(); target != nil {
			target.SetInUse(false)
		}
	}

	var layers []*OverlayLayer
	for _, state := range composition {
		layers = append(layers, state.SourceLayers()...)
	}

	state := newPlaneState(a.primary, layers[0])
	state.ForceGPURendering()
	a.primary.SetInUse(true)
	for _, layer := range layers[1:] {
		state.AddLayer(layer)
	}

	a.ensureOffScreenTarget(state)
	a.ReleaseFreeOffScreenTargets()
	return Composition{state}
}

// resetPlaneTarget attaches an off-screen target to the state and points
// the state's pending binding at the target's descriptor layer.
func (a *Assigner) resetPlaneTarget(state *DisplayPlaneState, bindings []PlaneBinding) {
	a.setOffScreenPlaneTarget(state)
	bindings[len(bindings)-1].Layer = state.ScanoutLayer()
}

// fallbackToGPU reports whether the (plane, layer) binding cannot scan
// out: the plane rejects the layer outright, the layer's buffer cannot
// get a framebuffer handle, or the driver refuses the proposed atomic
// configuration as a whole.
func (a *Assigner) fallbackToGPU(plane DisplayPlane, layer *OverlayLayer, bindings []PlaneBinding) bool {
	if !plane.ValidateLayer(layer) {
		return true
	}

	if layer.Buffer.Framebuffer() == 0 {
		if err := layer.Buffer.EnsureFramebuffer(a.device); err != nil {
			Logger().Debug("framebuffer creation failed",
				slog.Int("zorder", layer.ZOrder),
				slog.Any("error", err))
			return true
		}
	}

	return !a.handler.TestCommit(bindings)
}
