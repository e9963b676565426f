// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package scanout decides how a stack of surface layers is presented on a
// display: which layers scan out directly on dedicated hardware overlay
// planes, and which are pre-composited by the GPU into off-screen targets
// that a plane then scans out.
//
// # Overview
//
// Hardware display controllers expose a fixed set of planes, each able to
// read one buffer per frame. Scanning a client buffer out directly is far
// cheaper than compositing it with the GPU, but planes have constraints:
// supported pixel formats, transforms, scaling limits, and a global
// feasibility check for the whole atomic configuration. The Assigner
// partitions the frame's layers between planes and GPU work so that GPU
// composition only happens where the hardware cannot.
//
// # Quick Start
//
//	asn := scanout.New(handler, factory, device)
//	if err := asn.Initialize(1920, 1080); err != nil {
//	    // no usable planes
//	}
//
//	// Per frame:
//	comp, feedback, render := asn.Validate(layers, cursors, scanout.Flags{})
//	if render {
//	    // GPU-composite the marked layers into their plane targets.
//	}
//	// Commit comp, then between frames:
//	asn.ReleaseFreeOffScreenTargets()
//
// On subsequent frames with an unchanged layer stack, Revalidate re-tests
// the previous composition and avoids a full reassignment when the
// hardware still accepts it.
//
// # Architecture
//
// The package is organized per concern:
//   - External contracts: PlaneHandler (plane enumeration, atomic test
//     commits), SurfaceFactory (off-screen target allocation), Buffer
//     (layer memory, lazy framebuffer creation)
//   - Assignment: Assigner, DisplayPlaneState, the cursor sub-planner
//   - Resources: pooled NativeSurface off-screen targets
//
// The assigner is single-threaded by contract: one instance serves one
// display, driven from that display's composition thread.
package scanout
