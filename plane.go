// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scanout

import "github.com/gogpu/gputypes"

// DisplayPlane is one hardware scan-out plane. Planes are owned by the
// PlaneHandler and enumerated once per display; the assigner holds
// non-owning references and toggles the in-use flag every frame.
type DisplayPlane interface {
	// Universal reports whether the plane can show arbitrary content.
	// Non-universal planes are cursor-only.
	Universal() bool

	// PreferredFormat returns the format off-screen targets for this
	// plane should use.
	PreferredFormat() gputypes.TextureFormat

	// PreferredVideoFormat returns the format video off-screen targets
	// for this plane should use.
	PreferredVideoFormat() gputypes.TextureFormat

	// SupportsFormat reports whether the plane can scan out the format.
	SupportsFormat(format gputypes.TextureFormat) bool

	// ValidateLayer reports whether the plane can scan the layer out
	// directly. The check is pure: per-layer format, transform and size
	// constraints only. Cross-plane feasibility is TestCommit's job.
	ValidateLayer(layer *OverlayLayer) bool

	// InUse reports whether the plane is bound in the current frame.
	InUse() bool

	// SetInUse marks the plane bound or free for the current frame.
	SetInUse(used bool)
}

// PlaneBinding proposes one (plane, layer) pairing for an atomic commit.
// The layer is either an input layer scanned out directly or the
// descriptor layer of an off-screen target.
type PlaneBinding struct {
	Plane DisplayPlane
	Layer *OverlayLayer
}

// PlaneHandler is the display driver boundary.
type PlaneHandler interface {
	// PopulatePlanes enumerates the hardware planes in scan-out
	// z-order: index 0 is the primary (bottom) plane, the last entry is
	// the topmost. Called once during Initialize.
	PopulatePlanes() ([]DisplayPlane, error)

	// TestCommit reports whether the proposed set of bindings would be
	// accepted as one atomic display update. The check is a dry run and
	// must be free of side effects on kernel state; the assigner may
	// call it several times per frame.
	TestCommit(bindings []PlaneBinding) bool
}
