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

	"github.com/GNOME/gnome-color-manager-sub001/decodeerr"
)

// GammaPayload is the gamma information of a display profile.  It is one of
// [*VCGTFormula], [*VCGTTable] or [*MLUT].  A nil GammaPayload means that
// the profile carries no usable gamma information.
type GammaPayload interface {
	isGammaPayload()
}

// RGB16 is one entry of a gamma table.
type RGB16 struct {
	R, G, B uint16
}

// VCGTFormula describes the per-channel gamma ramp
// out = min + (max-min)*in^gamma.
type VCGTFormula struct {
	Gamma, Min, Max [3]float64 // indexed by channel: red, green, blue
}

// VCGTTable is a sampled gamma ramp.  It has at least one entry.
type VCGTTable struct {
	Entries []RGB16
}

// MLUT is a legacy gamma ramp with exactly 256 entries.
type MLUT struct {
	Entries [256]RGB16
}

func (*VCGTFormula) isGammaPayload() {}
func (*VCGTTable) isGammaPayload()   {}
func (*MLUT) isGammaPayload()        {}

const (
	vcgtTypeTable   = 0
	vcgtTypeFormula = 1

	// Some profiles declare a vcgt tag of exactly this size, with broken
	// header fields.  These are read as 3 channels of 256 two-byte entries.
	vcgtLegacySize = 1584

	mlutSize = 3 * 256 * 2
)

// decodeVCGT decodes a video card gamma table tag.
func decodeVCGT(data []byte) (GammaPayload, error) {
	if len(data) < 12 {
		return nil, tagError(decodeerr.TruncatedData, len(data), "vcgt tag is too short")
	}
	if TagType(getUint32(data, 0)) != VideoCardGammaTable {
		return nil, tagError(decodeerr.UnsupportedEncoding, 0, "wrong type signature")
	}

	switch gammaType := getUint32(data, 8); gammaType {
	case vcgtTypeTable:
		return decodeVCGTTable(data)
	case vcgtTypeFormula:
		return decodeVCGTFormula(data)
	default:
		return nil, tagError(decodeerr.UnsupportedEncoding, 8,
			fmt.Sprintf("unknown gamma type %d", gammaType))
	}
}

func decodeVCGTTable(data []byte) (GammaPayload, error) {
	if len(data) < 18 {
		return nil, tagError(decodeerr.TruncatedData, len(data), "vcgt table header is incomplete")
	}
	numChannels := int(getUint16(data, 12))
	numEntries := int(getUint16(data, 14))
	entrySize := int(getUint16(data, 16))
	if len(data) == vcgtLegacySize {
		numChannels, numEntries, entrySize = 3, 256, 2
	}

	if numChannels != 3 {
		return nil, tagError(decodeerr.UnsupportedEncoding, 12,
			fmt.Sprintf("%d channels, expected 3", numChannels))
	}
	if entrySize != 1 && entrySize != 2 {
		return nil, tagError(decodeerr.UnsupportedEncoding, 16,
			fmt.Sprintf("unsupported entry size %d", entrySize))
	}
	if numEntries == 0 {
		return nil, tagError(decodeerr.UnsupportedEncoding, 14, "empty table")
	}
	if 18+numChannels*numEntries*entrySize > len(data) {
		return nil, tagError(decodeerr.TruncatedData, len(data), "vcgt table data is incomplete")
	}

	// all red values come first, then green, then blue
	get := func(channel, i int) uint16 {
		pos := 18 + (channel*numEntries+i)*entrySize
		if entrySize == 1 {
			return uint16(data[pos]) * 257
		}
		return getUint16(data, pos)
	}
	entries := make([]RGB16, numEntries)
	for i := range entries {
		entries[i] = RGB16{R: get(0, i), G: get(1, i), B: get(2, i)}
	}
	return &VCGTTable{Entries: entries}, nil
}

func decodeVCGTFormula(data []byte) (GammaPayload, error) {
	if len(data) < 12+9*4 {
		return nil, tagError(decodeerr.TruncatedData, len(data), "vcgt formula is incomplete")
	}

	f := &VCGTFormula{}
	for c := range 3 {
		pos := 12 + c*12
		f.Gamma[c] = getS15Fixed16(data, pos)
		f.Min[c] = getS15Fixed16(data, pos+4)
		f.Max[c] = getS15Fixed16(data, pos+8)

		if f.Gamma[c] < 0 || f.Gamma[c] > 5 {
			return nil, tagError(decodeerr.OutOfRangeValue, pos,
				fmt.Sprintf("gamma %g is out of range", f.Gamma[c]))
		}
		if f.Min[c] < 0 || f.Min[c] >= 1 {
			return nil, tagError(decodeerr.OutOfRangeValue, pos+4,
				fmt.Sprintf("minimum %g is out of range", f.Min[c]))
		}
		if f.Max[c] < 0 || f.Max[c] > 1 {
			return nil, tagError(decodeerr.OutOfRangeValue, pos+8,
				fmt.Sprintf("maximum %g is out of range", f.Max[c]))
		}
	}
	return f, nil
}

// decodeMLUT decodes a legacy gamma table.  The tag holds 256 red values,
// followed by 256 green and 256 blue values.
func decodeMLUT(data []byte) (GammaPayload, error) {
	if len(data) < mlutSize {
		return nil, tagError(decodeerr.TruncatedData, len(data), "mLUT tag is too short")
	}
	m := &MLUT{}
	for i := range m.Entries {
		m.Entries[i] = RGB16{
			R: getUint16(data, 2*i),
			G: getUint16(data, 0x200+2*i),
			B: getUint16(data, 0x400+2*i),
		}
	}
	return m, nil
}

// tagError returns an error for a problem inside a tag.  The offset is
// relative to the start of the tag data.
func tagError(kind decodeerr.Kind, offset int, reason string) error {
	return decodeerr.New("icc", kind, offset, reason)
}
