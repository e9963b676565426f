// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scanout

import (
	"image"

	"golang.org/x/image/math/fixed"
)

// Display frames are integer pixel rectangles; source crops are 26.6
// fixed-point so a layer can sample a fractional region of its buffer.

// cropFromRect converts an integer rectangle to a fixed-point crop.
func cropFromRect(r image.Rectangle) fixed.Rectangle26_6 {
	return fixed.R(r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}

// cropWidth returns the crop width rounded to whole pixels.
func cropWidth(r fixed.Rectangle26_6) int {
	return (r.Max.X - r.Min.X).Round()
}

// cropHeight returns the crop height rounded to whole pixels.
func cropHeight(r fixed.Rectangle26_6) int {
	return (r.Max.Y - r.Min.Y).Round()
}

// cropMatchesFrame reports whether the crop and the display frame have
// the same pixel extent, i.e. scan-out needs no scaling.
func cropMatchesFrame(frame image.Rectangle, crop fixed.Rectangle26_6) bool {
	return frame.Dx() == cropWidth(crop) && frame.Dy() == cropHeight(crop)
}
