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

import "fmt"

// The TagType identifies a tag in an ICC profile.
type TagType uint32

func (t TagType) String() string {
	switch t {
	case ProfileDescription:
		return "Profile Description"
	case Copyright:
		return "Copyright"
	case DeviceMfgDesc:
		return "Device Manufacturer Description"
	case DeviceModelDesc:
		return "Device Model Description"
	case MediaWhitePoint:
		return "Media White Point"
	case MediaBlackPoint:
		return "Media Black Point"
	case VideoCardGammaTable:
		return "Video Card Gamma Table"
	case LegacyGammaTable:
		return "Legacy Gamma Table"
	case ChromaticAdaption:
		return "Chromatic Adaption"
	default:
		bb := []byte{
			byte(t >> 24),
			byte(t >> 16),
			byte(t >> 8),
			byte(t),
		}
		isASCII := true
		for _, c := range bb {
			if c < 0x20 || c > 0x7E {
				isASCII = false
				break
			}
		}
		if isASCII {
			return fmt.Sprintf("%q", string(bb))
		}
		return fmt.Sprintf("0x%08X", uint32(t))
	}
}

// These are the tags interpreted by this package.  All other tags are only
// available as raw data in [Profile.TagData].
const (
	ProfileDescription TagType = 0x64657363 // "desc"
	Copyright          TagType = 0x63707274 // "cprt"
	DeviceMfgDesc      TagType = 0x646D6E64 // "dmnd"
	DeviceModelDesc    TagType = 0x646D6464 // "dmdd"

	MediaWhitePoint   TagType = 0x77747074 // "wtpt"
	MediaBlackPoint   TagType = 0x626B7074 // "bkpt"
	RedMatrixColumn   TagType = 0x7258595A // "rXYZ"
	GreenMatrixColumn TagType = 0x6758595A // "gXYZ"
	BlueMatrixColumn  TagType = 0x6258595A // "bXYZ"

	RedTRC   TagType = 0x72545243 // "rTRC"
	GreenTRC TagType = 0x67545243 // "gTRC"
	BlueTRC  TagType = 0x62545243 // "bTRC"
	GrayTRC  TagType = 0x6B545243 // "kTRC"

	VideoCardGammaTable TagType = 0x76636774 // "vcgt"
	LegacyGammaTable    TagType = 0x6D4C5554 // "mLUT"

	ChromaticAdaption TagType = 0x63686164 // "chad"
)
