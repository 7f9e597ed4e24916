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

// Package colormath provides the small amount of linear algebra and the
// colour-space conversions needed to handle display colorimetry.
//
// All functions are pure and safe for concurrent use.
package colormath

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Vec3 is a vector with three components.
type Vec3 [3]float64

// Mat3 is a 3x3 matrix, stored in row-major order.
type Mat3 [3][3]float64

// Determinants with an absolute value below this are treated as zero.
const detTolerance = 1e-10

// Identity returns the 3x3 identity matrix.
func Identity() Mat3 {
	return Mat3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Multiply returns the matrix product m·n.
func (m Mat3) Multiply(n Mat3) Mat3 {
	var out Mat3
	for i := range 3 {
		for j := range 3 {
			sum := 0.0
			for k := range 3 {
				sum += m[i][k] * n[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

// MulVec returns the matrix-vector product m·v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// Det returns the determinant of m.
func (m Mat3) Det() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Invert returns the inverse of m.
// The second return value is false if m is singular, or so close to singular
// that the inverse would be meaningless.
func (m Mat3) Invert() (Mat3, bool) {
	det := m.Det()
	if math.Abs(det) < detTolerance || math.IsNaN(det) || math.IsInf(det, 0) {
		return Mat3{}, false
	}
	inv := 1 / det

	a, b, c := m[0][0], m[0][1], m[0][2]
	d, e, f := m[1][0], m[1][1], m[1][2]
	g, h, i := m[2][0], m[2][1], m[2][2]

	return Mat3{
		{(e*i - f*h) * inv, (c*h - b*i) * inv, (b*f - c*e) * inv},
		{(f*g - d*i) * inv, (a*i - c*g) * inv, (c*d - a*f) * inv},
		{(d*h - e*g) * inv, (b*g - a*h) * inv, (a*e - b*d) * inv},
	}, true
}

// ColumnsFromXYZ returns the matrix whose columns are the given colours.
// For the primaries of an RGB device this is the matrix which maps linear
// device RGB to XYZ.
func ColumnsFromXYZ(r, g, b XYZ) Mat3 {
	return Mat3{
		{r.X, g.X, b.X},
		{r.Y, g.Y, b.Y},
		{r.Z, g.Z, b.Z},
	}
}

// Clamp restricts x to the interval [lo, hi].
func Clamp[T constraints.Ordered](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
