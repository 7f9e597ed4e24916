// gcm - decode display colour metadata and build gamma tables
// Copyright (C) 2026  The GNOME Color Manager authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package colormath

import "math"

// XYZ is a colour in the CIE 1931 XYZ colour space.
type XYZ struct {
	X, Y, Z float64
}

// Vec returns the colour as a vector.
func (c XYZ) Vec() Vec3 {
	return Vec3{c.X, c.Y, c.Z}
}

// XYZFromVec converts a vector back into an XYZ colour.
func XYZFromVec(v Vec3) XYZ {
	return XYZ{X: v[0], Y: v[1], Z: v[2]}
}

// Yxy is a colour given by its luminance and its chromaticity coordinates.
//
// Upstream data does not always satisfy x + y ≤ 1; this is not checked.
type Yxy struct {
	Lum  float64 // luminance Y
	X, Y float64 // chromaticity x, y
}

// RGB is a colour with linear components, nominally in [0, 1].
type RGB struct {
	R, G, B float64
}

// RGB8 is a colour with 8-bit integer components.
type RGB8 struct {
	R, G, B uint8
}

// YxyToXYZ converts a Yxy colour to XYZ.
// A colour with y == 0 has no defined XYZ value; the zero colour is returned.
func YxyToXYZ(c Yxy) XYZ {
	if c.Y == 0 {
		return XYZ{}
	}
	scale := c.Lum / c.Y
	return XYZ{
		X: c.X * scale,
		Y: c.Lum,
		Z: (1 - c.X - c.Y) * scale,
	}
}

// XYZToYxy converts an XYZ colour to Yxy.
// For X + Y + Z == 0 the chromaticity is reported as (0, 0).
func XYZToYxy(c XYZ) Yxy {
	sum := c.X + c.Y + c.Z
	if sum == 0 {
		return Yxy{Lum: c.Y}
	}
	return Yxy{
		Lum: c.Y,
		X:   c.X / sum,
		Y:   c.Y / sum,
	}
}

// RGB8ToLinear maps 8-bit components to [0, 1].
func RGB8ToLinear(c RGB8) RGB {
	return RGB{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// LinearToRGB8 maps components in [0, 1] to 8-bit values.
// Out-of-range components are clamped.
func LinearToRGB8(c RGB) RGB8 {
	return RGB8{
		R: to8(c.R),
		G: to8(c.G),
		B: to8(c.B),
	}
}

func to8(x float64) uint8 {
	if math.IsNaN(x) {
		return 0
	}
	return uint8(Clamp(math.Round(x*255), 0, 255))
}
