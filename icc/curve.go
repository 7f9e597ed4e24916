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

package icc

import (
	"fmt"
	"math"

	"github.com/GNOME/gnome-color-manager-sub001/colormath"
)

// Curve is a tone reproduction curve, decoded from a curveType or a
// parametricCurveType tag.
//
// Exactly one of the following is used, in this order of precedence:
// a sampled Table, a parametric function given by FuncType and Params,
// or the exponent Gamma.
type Curve struct {
	Gamma float64

	// FuncType selects one of the ICC parametric functions:
	//   - type 0: y = x^g
	//   - type 1: y = (ax+b)^g for x >= -b/a, else y = 0
	//   - type 2: y = (ax+b)^g + c for x >= -b/a, else y = c
	//   - type 3: y = (ax+b)^g for x >= d, else y = cx
	//   - type 4: y = (ax+b)^g + e for x >= d, else y = cx + f
	FuncType int
	Params   []float64 // g, a, b, c, d, e, f; trailing parameters may be omitted

	// Table holds samples evenly spaced over the input range [0, 1].
	Table []uint16
}

// numParams gives the number of parameters for each parametric function type.
var numParams = []int{1, 3, 4, 5, 7}

// DecodeCurve decodes a curve from ICC tag data.
func DecodeCurve(data []byte) (*Curve, error) {
	if len(data) < 12 {
		return nil, errInvalidTagData
	}

	switch string(data[0:4]) {
	case "curv":
		n := getUint32(data, 8)
		switch {
		case n == 0:
			return &Curve{Gamma: 1}, nil
		case n == 1:
			if len(data) < 14 {
				return nil, errInvalidTagData
			}
			// u8Fixed8Number
			return &Curve{Gamma: float64(getUint16(data, 12)) / 256}, nil
		case uint64(len(data)) < 12+2*uint64(n):
			return nil, errInvalidTagData
		}
		table := make([]uint16, n)
		for i := range table {
			table[i] = getUint16(data, 12+2*i)
		}
		return &Curve{Table: table}, nil

	case "para":
		funcType := int(getUint16(data, 8))
		if funcType >= len(numParams) {
			return nil, fmt.Errorf("%w: parametric function type %d", errInvalidTagData, funcType)
		}
		n := numParams[funcType]
		if len(data) < 12+4*n {
			return nil, errInvalidTagData
		}
		params := make([]float64, n)
		for i := range params {
			params[i] = getS15Fixed16(data, 12+4*i)
		}
		return &Curve{FuncType: funcType, Params: params}, nil

	default:
		return nil, errUnexpectedType
	}
}

// Evaluate computes the output value for an input value x in [0, 1].
// The result is clamped to [0, 1].
func (c *Curve) Evaluate(x float64) float64 {
	x = colormath.Clamp(x, 0, 1)

	var y float64
	switch {
	case c.Table != nil:
		y = c.evaluateSampled(x)
	case c.Params != nil:
		y = c.evaluateParametric(x)
	default:
		y = pow(x, c.Gamma)
	}
	return colormath.Clamp(y, 0, 1)
}

func (c *Curve) evaluateSampled(x float64) float64 {
	n := len(c.Table)
	if n == 1 {
		return float64(c.Table[0]) / 65535
	}

	pos := x * float64(n-1)
	idx := int(pos)
	if idx >= n-1 {
		return float64(c.Table[n-1]) / 65535
	}
	frac := pos - float64(idx)
	v0 := float64(c.Table[idx])
	v1 := float64(c.Table[idx+1])
	return (v0 + frac*(v1-v0)) / 65535
}

func (c *Curve) evaluateParametric(x float64) float64 {
	var p [7]float64
	copy(p[:], c.Params)
	g, a, b, cc, d, e, f := p[0], p[1], p[2], p[3], p[4], p[5], p[6]

	switch c.FuncType {
	case 1, 2:
		offset := 0.0
		if c.FuncType == 2 {
			offset = cc
		}
		if a == 0 || x < -b/a {
			return offset
		}
		return pow(a*x+b, g) + offset
	case 3, 4:
		if x < d {
			return cc*x + f
		}
		return pow(a*x+b, g) + e
	default:
		return pow(x, g)
	}
}

// pow returns x^g for positive x, and 0 otherwise.
func pow(x, g float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Pow(x, g)
}
