// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scanout

// Option configures an Assigner during creation.
//
// Example:
//
//	// Default behavior
//	asn := scanout.New(handler, factory, device)
//
//	// Keep the topmost plane for cursors on controllers with more
//	// than three planes
//	asn := scanout.New(handler, factory, device,
//	    scanout.WithReservedCursorPlane())
type Option func(*assignerOptions)

// assignerOptions holds optional configuration for Assigner creation.
type assignerOptions struct {
	reserveCursorPlane bool
}

// defaultAssignerOptions returns the default assigner options.
func defaultAssignerOptions() assignerOptions {
	return assignerOptions{
		reserveCursorPlane: false,
	}
}

// WithReservedCursorPlane reserves the topmost plane for cursor layers.
//
// The reservation only engages when the controller exposes more than
// three planes; overlay assignment then skips the topmost plane so a
// cursor can always bind it. On controllers with three planes or fewer
// the option has no effect and a universal topmost plane stays available
// for overlay content.
func WithReservedCursorPlane() Option {
	return func(o *assignerOptions) {
		o.reserveCursorPlane = true
	}
}
