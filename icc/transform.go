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
	"errors"

	"github.com/GNOME/gnome-color-manager-sub001/colormath"
)

// Transform converts device colours to PCS XYZ values, for matrix/TRC
// profiles (common for displays) and for grayscale profiles.
// Profiles which are based on lookup tables are not supported.
type Transform struct {
	gray bool

	// matrix/TRC profiles
	matrix colormath.Mat3 // device RGB to XYZ, with the colorants as columns
	trc    [3]*Curve

	// gray profiles
	grayTRC *Curve
	white   colormath.XYZ
}

var errUnsupportedProfile = errors.New("icc: only matrix/TRC and gray profiles are supported")

// Transform returns the device-to-PCS transform of the profile.
func (p *Profile) Transform() (*Transform, error) {
	if hasTags(p, RedMatrixColumn, GreenMatrixColumn, BlueMatrixColumn, RedTRC, GreenTRC, BlueTRC) {
		return newMatrixTRC(p)
	}
	if hasTags(p, GrayTRC) {
		return newGrayTRC(p)
	}
	return nil, errUnsupportedProfile
}

func hasTags(p *Profile, tags ...TagType) bool {
	for _, tag := range tags {
		if _, ok := p.TagData[tag]; !ok {
			return false
		}
	}
	return true
}

func newMatrixTRC(p *Profile) (*Transform, error) {
	var cols [3]colormath.XYZ
	for i, tag := range []TagType{RedMatrixColumn, GreenMatrixColumn, BlueMatrixColumn} {
		xyz, err := parseXYZ(p.TagData[tag])
		if err != nil {
			return nil, err
		}
		cols[i] = xyz
	}

	t := &Transform{
		matrix: colormath.ColumnsFromXYZ(cols[0], cols[1], cols[2]),
	}
	for i, tag := range []TagType{RedTRC, GreenTRC, BlueTRC} {
		c, err := DecodeCurve(p.TagData[tag])
		if err != nil {
			return nil, err
		}
		t.trc[i] = c
	}
	return t, nil
}

func newGrayTRC(p *Profile) (*Transform, error) {
	c, err := DecodeCurve(p.TagData[GrayTRC])
	if err != nil {
		return nil, err
	}
	t := &Transform{
		gray:    true,
		grayTRC: c,
		white:   d50WhitePoint,
	}
	if p.White != nil {
		t.white = *p.White
	}
	return t, nil
}

// ToXYZ converts a device colour to PCS XYZ.
// The input has one component for gray profiles and three for RGB profiles;
// values are in the range [0, 1].
func (t *Transform) ToXYZ(device []float64) colormath.XYZ {
	if t.gray {
		if len(device) < 1 {
			return colormath.XYZ{}
		}
		y := t.grayTRC.Evaluate(device[0])
		return colormath.XYZ{X: t.white.X * y, Y: t.white.Y * y, Z: t.white.Z * y}
	}

	if len(device) < 3 {
		return colormath.XYZ{}
	}
	var linear colormath.Vec3
	for i := range linear {
		linear[i] = t.trc[i].Evaluate(device[i])
	}
	return colormath.XYZFromVec(t.matrix.MulVec(linear))
}

// WhitePoint returns the XYZ value of the device white.
func (t *Transform) WhitePoint() colormath.XYZ {
	if t.gray {
		return t.ToXYZ([]float64{1})
	}
	return t.ToXYZ([]float64{1, 1, 1})
}
