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

// Package edid decodes the 128-byte base block of the Extended Display
// Identification Data which a monitor reports about itself.
//
// Only the base block is interpreted.  The number of extension blocks is
// recorded, but their contents are ignored.
package edid

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/GNOME/gnome-color-manager-sub001/colormath"
	"github.com/GNOME/gnome-color-manager-sub001/decodeerr"
	"github.com/GNOME/gnome-color-manager-sub001/pnp"
)

// BlockSize is the size of an EDID base block in bytes.
const BlockSize = 0x80

const (
	offsetPnpID          = 0x08
	offsetSerial         = 0x0c
	offsetSize           = 0x15
	offsetGamma          = 0x17
	offsetChromaLowRG    = 0x19
	offsetChromaLowBW    = 0x1a
	offsetRedX           = 0x1b
	offsetDataBlocks     = 0x36
	offsetLastBlock      = 0x6c
	offsetExtensionCount = 0x7e

	descriptorSize  = 18
	descriptorTextN = 12
)

// Display descriptor tags.
const (
	descriptorColorManagement = 0xf9
	descriptorColorPoint      = 0xfb
	descriptorProductName     = 0xfc
	descriptorAlphanumeric    = 0xfe
	descriptorSerialNumber    = 0xff
)

// gammaUnset marks a gamma value which is given elsewhere.
const gammaUnset = 0xff

// Edid holds the information decoded from an EDID base block.
//
// The zero value is an empty descriptor, ready for [Edid.Parse].
type Edid struct {
	// PnpID is the three-letter manufacturer ID.  It is decoded without
	// validation, so malformed blocks can yield characters outside 'A'..'Z'.
	PnpID string

	MonitorName  string // from the product name descriptor
	SerialNumber string // from the serial number descriptor, or the numeric serial
	EisaID       string // from the alphanumeric data string descriptor

	// WidthMM and HeightMM give the physical size of the screen.  Both are
	// zero if the block only gives an aspect ratio.
	WidthMM, HeightMM int

	// Gamma is the display transfer characteristic.  It is 1.0 if the value
	// is stored in an extension block, see GammaInExtension.
	Gamma            float64
	GammaInExtension bool

	// Chromaticities of the primaries and of the white point.  The
	// luminance of each point is set to 1.
	Red, Green, Blue, White colormath.Yxy

	// ExtensionBlocks is the number of extension blocks which follow the
	// base block.
	ExtensionBlocks int

	// Checksum is a hex-encoded MD5 hash of the identifying part of the
	// block.  It can be used to recognise a monitor.
	Checksum string
}

// Decode decodes an EDID base block.
func Decode(data []byte) (*Edid, error) {
	e := &Edid{}
	err := e.Parse(data)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Parse decodes an EDID base block into e, replacing all previous contents.
// If an error is returned, e is left empty.
//
// Only a short buffer or a wrong header cause an error.  Descriptor blocks
// which cannot be understood are skipped.
func (e *Edid) Parse(data []byte) error {
	e.Reset()

	if len(data) < BlockSize {
		return decodeerr.New("edid", decodeerr.TruncatedData, len(data), "EDID block is too short")
	}
	if data[0] != 0x00 || data[1] != 0xff {
		return decodeerr.New("edid", decodeerr.MalformedHeader, 0, "invalid EDID header")
	}

	e.PnpID = decodePnpID(data[offsetPnpID], data[offsetPnpID+1])

	// there may be no serial number descriptor, so start with the number
	serial := binary.LittleEndian.Uint32(data[offsetSerial:])
	if serial > 0 {
		e.SerialNumber = strconv.FormatUint(uint64(serial), 10)
	}

	e.WidthMM = int(data[offsetSize])
	e.HeightMM = int(data[offsetSize+1])
	if e.WidthMM == 0 || e.HeightMM == 0 {
		// only the aspect ratio is given
		e.WidthMM = 0
		e.HeightMM = 0
	}

	if data[offsetGamma] == gammaUnset {
		e.Gamma = 1.0
		e.GammaInExtension = true
		log.Debugf("edid: gamma is stored in an extension block")
	} else {
		e.Gamma = decodeGamma(data[offsetGamma])
	}

	lowRG := data[offsetChromaLowRG]
	lowBW := data[offsetChromaLowBW]
	hi := data[offsetRedX:]
	// red y uses bits 4-5 of byte 0x19; older decoders read an empty bit range here and got 0
	e.Red = chromaticity(hi[0], getBits(lowRG, 6, 7), hi[1], getBits(lowRG, 4, 5))
	e.Green = chromaticity(hi[2], getBits(lowRG, 2, 3), hi[3], getBits(lowRG, 0, 1))
	e.Blue = chromaticity(hi[4], getBits(lowBW, 6, 7), hi[5], getBits(lowBW, 4, 5))
	e.White = chromaticity(hi[6], getBits(lowBW, 2, 3), hi[7], getBits(lowBW, 0, 1))

	for i := offsetDataBlocks; i <= offsetLastBlock; i += descriptorSize {
		e.parseDescriptor(data[i : i+descriptorSize])
	}

	e.ExtensionBlocks = int(data[offsetExtensionCount])
	if e.ExtensionBlocks > 0 {
		log.Debugf("edid: ignoring %d extension blocks", e.ExtensionBlocks)
	}

	sum := md5.Sum(data[:offsetLastBlock])
	e.Checksum = hex.EncodeToString(sum[:])

	return nil
}

// Reset returns e to the empty state.
func (e *Edid) Reset() {
	*e = Edid{}
}

// VendorName returns the name of the manufacturer, as listed in the given
// vendor table.  If the manufacturer is unknown, the empty string is returned.
func (e *Edid) VendorName(vendors *pnp.Table) string {
	name, _ := vendors.Lookup(e.PnpID)
	return name
}

// parseDescriptor interprets one 18-byte descriptor.
// Detailed timing descriptors, which have a non-zero pixel clock, are skipped.
func (e *Edid) parseDescriptor(d []byte) {
	if d[0] != 0 || d[1] != 0 {
		return
	}

	switch d[3] {
	case descriptorProductName:
		if s := parseString(d[5:]); s != "" {
			e.MonitorName = s
		}
	case descriptorSerialNumber:
		if s := parseString(d[5:]); s != "" {
			e.SerialNumber = s
		}
	case descriptorAlphanumeric:
		if s := parseString(d[5:]); s != "" {
			e.EisaID = s
		}
	case descriptorColorPoint:
		// two white point entries, each of which may carry a gamma value;
		// older decoders read these at bytes 12 and 17, past the gamma fields
		for _, pos := range []int{9, 14} {
			if d[pos] != gammaUnset {
				e.Gamma = decodeGamma(d[pos])
				e.GammaInExtension = false
				log.Debugf("edid: colour point descriptor overrides gamma with %.2f", e.Gamma)
			}
		}
	case descriptorColorManagement:
		log.Warnf("edid: colour management data descriptor is not supported")
	}
}

func decodeGamma(b byte) float64 {
	return float64(b)/100 + 1
}

// decodePnpID unpacks three 5-bit letters from two bytes:
//
//	/--08--\/--09--\
//	7654321076543210
//	|\---/\---/\---/
//	R  C1   C2   C3
func decodePnpID(b0, b1 byte) string {
	id := []byte{
		'A' + (b0&0x7c)/4 - 1,
		'A' + (b0&0x03)*8 + (b1&0xe0)/32 - 1,
		'A' + (b1 & 0x1f) - 1,
	}
	return string(id)
}

func getBit(in, bit int) int {
	return (in & (1 << bit)) >> bit
}

// getBits extracts bits begin..end (inclusive) of in.
func getBits(in byte, begin, end int) int {
	mask := (1 << (end - begin + 1)) - 1
	return (int(in) >> begin) & mask
}

// decodeFraction combines 8 high bits and 2 low bits into a 10-bit binary
// fraction.
func decodeFraction(high byte, low int) float64 {
	v := int(high)<<2 | low
	result := 0.0
	for i := range 10 {
		result += float64(getBit(v, i)) * math.Pow(2, float64(i-10))
	}
	return result
}

func chromaticity(xHigh byte, xLow int, yHigh byte, yLow int) colormath.Yxy {
	return colormath.Yxy{
		Lum: 1,
		X:   decodeFraction(xHigh, xLow),
		Y:   decodeFraction(yHigh, yLow),
	}
}

// parseString decodes the fixed-size text field of a descriptor.
// The empty string is returned if nothing useful is left, or if the text
// looks like junk.
func parseString(data []byte) string {
	raw := data[:descriptorTextN]
	if i := bytes.IndexAny(raw, "\x00\n\r"); i >= 0 {
		raw = raw[:i]
	}
	text := []byte(strings.TrimRight(string(raw), " \t\v\f"))
	if len(text) == 0 {
		return ""
	}

	replaced := 0
	for i, c := range text {
		if c < 0x20 || c > 0x7e {
			text[i] = '-'
			replaced++
		}
	}
	if replaced > 4 {
		return ""
	}
	return string(text)
}
