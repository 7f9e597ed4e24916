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

// Package icc reads the metadata and the video card gamma table of ICC
// colour profiles.
//
// Use [Decode] to read a profile from binary data:
//
//	p, err := icc.Decode(data)
//	if err != nil {
//	    // handle error
//	}
//	// inspect p.Kind, p.Description, p.White, etc.
//
//	gamma, err := p.Gamma() // the gamma payload, or nil
//
// Problems with individual tags do not cause Decode to fail.  Instead, the
// affected fields are left empty and a description of the problem is
// appended to [Profile.Warnings].
package icc

import (
	"fmt"
	"time"

	"github.com/GNOME/gnome-color-manager-sub001/colormath"
)

// Profile holds the information decoded from an ICC colour profile.
//
// A Profile is either empty or populated.  [Profile.Parse] can only be used
// on an empty profile; use [Profile.Reset] to return to the empty state.
type Profile struct {
	Kind       Kind
	ColorSpace ColorSpace // device colour space
	PCS        ColorSpace // Profile Connection Space
	Version    Version
	Size       int // in bytes
	CreatedAt  DateTime

	Description  string
	Copyright    string
	Manufacturer string
	Model        string

	// Colorants, each set only if the profile contains a readable copy of
	// the corresponding tag.  Use Transform().WhitePoint() to compute a
	// white point for profiles without one.
	White, Black     *colormath.XYZ
	Red, Green, Blue *colormath.XYZ

	// Checksum is a hex-encoded MD5 hash of the complete profile data.
	Checksum string

	// ProfileID indicates whether the profile's embedded profile ID is valid.
	ProfileID CheckSum

	// TagData maps tag signatures to their raw binary data.
	TagData map[TagType][]byte

	// Warnings lists the problems found in individual tags.
	Warnings []error

	gamma    GammaPayload
	gammaErr error
	loaded   bool
}

// Version is a version of the ICC profile format.
type Version uint32

// Some well-known versions of the ICC profile format.
const (
	Version2_1_0 Version = 0x0210_0000 // Version 3.3 (November 1996)
	Version2_2_0 Version = 0x0220_0000 // ICC.1:1998-09
	Version2_3_0 Version = 0x0230_0000 // ICC.1:1998-09 + ICC.1A:1999-04
	Version4_0_0 Version = 0x0400_0000 // ICC.1:2001-12
	Version4_2_0 Version = 0x0420_0000 // ICC.1:2004-10
	Version4_3_0 Version = 0x0430_0000 // ICC.1:2010-12
	Version4_4_0 Version = 0x0440_0000 // ICC.1:2022-05
)

func (v Version) String() string {
	major := int(v >> 24)
	minor := int(v >> 20 & 0xF)
	bugfix := int(v >> 16 & 0xF)
	other := int(v & 0xFFFF)

	suffix := ""
	if other != 0 {
		suffix = fmt.Sprintf(".%04X", other)
	}
	return fmt.Sprintf("%d.%d.%d%s", major, minor, bugfix, suffix)
}

// Kind is the ICC profile or device class.
// Signatures which are not listed below are decoded as [KindUnknown].
type Kind uint32

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "Input Device Profile"
	case KindDisplay:
		return "Display Device Profile"
	case KindOutput:
		return "Output Device Profile"
	case KindDeviceLink:
		return "DeviceLink Profile"
	case KindColorSpace:
		return "ColorSpace Profile"
	case KindAbstract:
		return "Abstract Profile"
	case KindNamedColor:
		return "Named Color Profile"
	default:
		return "Unknown"
	}
}

// Profile classes defined in the ICC specification.
const (
	KindUnknown Kind = 0

	KindInput   Kind = 0x73636E72 // "scnr"
	KindDisplay Kind = 0x6D6E7472 // "mntr"
	KindOutput  Kind = 0x70727472 // "prtr"

	KindColorSpace Kind = 0x73706163 // "spac"
	KindDeviceLink Kind = 0x6C696E6B // "link"
	KindAbstract   Kind = 0x61627374 // "abst"
	KindNamedColor Kind = 0x6E6D636C // "nmcl"
)

func decodeKind(sig uint32) Kind {
	k := Kind(sig)
	switch k {
	case KindInput, KindDisplay, KindOutput,
		KindColorSpace, KindDeviceLink, KindAbstract, KindNamedColor:
		return k
	}
	return KindUnknown
}

// ColorSpace identifies a colour space in an ICC profile.
// Signatures which are not listed below are decoded as [ColorSpaceUnknown].
type ColorSpace uint32

func (s ColorSpace) String() string {
	switch s {
	case CIEXYZSpace:
		return "CIEXYZ"
	case CIELabSpace:
		return "CIELAB"
	case CIELuvSpace:
		return "CIELUV"
	case YCbCrSpace:
		return "YCbCr"
	case CIEYxySpace:
		return "CIEYxy"
	case RGBSpace:
		return "RGB"
	case GraySpace:
		return "Gray"
	case HSVSpace:
		return "HSV"
	case CMYKSpace:
		return "CMYK"
	case CMYSpace:
		return "CMY"
	default:
		return "Unknown"
	}
}

// Color spaces defined in the ICC specification.
const (
	ColorSpaceUnknown ColorSpace = 0

	CIEXYZSpace ColorSpace = 0x58595A20 // "XYZ "
	CIELabSpace ColorSpace = 0x4C616220 // "Lab "
	CIELuvSpace ColorSpace = 0x4C757620 // "Luv "
	YCbCrSpace  ColorSpace = 0x59436272 // "YCbr"
	CIEYxySpace ColorSpace = 0x59787920 // "Yxy "
	RGBSpace    ColorSpace = 0x52474220 // "RGB "
	GraySpace   ColorSpace = 0x47524159 // "GRAY"
	HSVSpace    ColorSpace = 0x48535620 // "HSV "
	CMYKSpace   ColorSpace = 0x434D594B // "CMYK"
	CMYSpace    ColorSpace = 0x434D5920 // "CMY "
)

func decodeColorSpace(sig uint32) ColorSpace {
	s := ColorSpace(sig)
	switch s {
	case CIEXYZSpace, CIELabSpace, CIELuvSpace, YCbCrSpace, CIEYxySpace,
		RGBSpace, GraySpace, HSVSpace, CMYKSpace, CMYSpace:
		return s
	}
	return ColorSpaceUnknown
}

// DateTime holds the calendar fields of the profile creation date,
// exactly as stored in the profile.
type DateTime struct {
	Year, Month, Day     int
	Hour, Minute, Second int
}

// Time converts d to a time.Time in UTC.
// The zero time is returned if any field is out of range.
func (d DateTime) Time() time.Time {
	if d.Year < 1970 || d.Year > 3000 ||
		d.Month < 1 || d.Month > 12 ||
		d.Day < 1 || d.Day > 31 ||
		d.Hour > 23 || d.Minute > 59 || d.Second > 61 {
		return time.Time{}
	}
	return time.Date(d.Year, time.Month(d.Month), d.Day, d.Hour, d.Minute, d.Second, 0, time.UTC)
}

func (d DateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second)
}

// CheckSum contains information about the Profile ID field.
type CheckSum int

func (c CheckSum) String() string {
	switch c {
	case CheckSumValid:
		return "Valid"
	case CheckSumInvalid:
		return "Invalid"
	default:
		return "Missing"
	}
}

// Possible values of the ProfileID field.
const (
	CheckSumMissing CheckSum = iota
	CheckSumValid
	CheckSumInvalid
)

// d50WhitePoint is the CIE standard illuminant D50 white point in XYZ coordinates.
// This is the reference illuminant for the ICC Profile Connection Space.
var d50WhitePoint = colormath.XYZ{X: 0.9642, Y: 1.0, Z: 0.8249}
