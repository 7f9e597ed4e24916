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
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/GNOME/gnome-color-manager-sub001/colormath"
	"github.com/GNOME/gnome-color-manager-sub001/decodeerr"
)

// HeaderSize is the minimum size of a profile: the 128-byte header and the
// tag count.
const HeaderSize = 128 + 4

// ErrAlreadyLoaded is returned by [Profile.Parse] if the profile has already
// been populated.
var ErrAlreadyLoaded = errors.New("icc: profile already loaded")

// Decode decodes an ICC profile from the given data.
// The returned profile keeps references to data.
func Decode(data []byte) (*Profile, error) {
	p := &Profile{}
	err := p.Parse(data)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Parse decodes an ICC profile into p, which must be empty.
// If an error is returned, p is left empty.
func (p *Profile) Parse(data []byte) error {
	if p.loaded {
		return ErrAlreadyLoaded
	}
	err := p.parse(data)
	if err != nil {
		p.Reset()
		return err
	}
	p.loaded = true
	return nil
}

// Reset returns p to the empty state.
func (p *Profile) Reset() {
	*p = Profile{}
}

func (p *Profile) parse(data []byte) error {
	if len(data) < HeaderSize {
		return invalidProfile(decodeerr.TruncatedData, len(data), "profile is too short")
	}
	if string(data[36:40]) != "acsp" {
		return invalidProfile(decodeerr.MalformedHeader, 36, "missing 'acsp' signature")
	}

	numTags := getUint32(data, 128)
	maxNumTags := uint((len(data) - HeaderSize) / 12)
	if uint(numTags) > maxNumTags {
		return invalidProfile(decodeerr.TruncatedData, 128, "tag table exceeds profile data")
	}
	// since len(data) is an int, numTags can be represented as an int

	p.Version = Version(getUint32(data, 8))
	p.Kind = decodeKind(getUint32(data, 12))
	p.ColorSpace = decodeColorSpace(getUint32(data, 16))
	p.PCS = decodeColorSpace(getUint32(data, 20))
	p.CreatedAt = getDateTime(data, 24)
	p.Size = len(data)
	p.TagData = make(map[TagType][]byte)

	sum := md5.Sum(data)
	p.Checksum = hex.EncodeToString(sum[:])
	p.ProfileID = verifyProfileID(data)

	minTagOffset := int64(HeaderSize) + int64(numTags)*12
	for i := 0; i < int(numTags); i++ {
		offset := HeaderSize + i*12
		tagType := TagType(getUint32(data, offset))
		tagOffset := getUint32(data, offset+4)
		tagSize := getUint32(data, offset+8)
		if tagSize < 4 {
			return invalidProfile(decodeerr.MalformedHeader, offset+8, "tag is too small")
		}

		start := int64(tagOffset)
		end := start + int64(tagSize)
		if end > int64(len(data)) {
			return invalidProfile(decodeerr.TruncatedData, offset, "tag is out of bounds")
		}
		if start < minTagOffset {
			return invalidProfile(decodeerr.MalformedHeader, offset, "tag overlaps the tag table")
		}
		p.TagData[tagType] = data[start:end]
	}

	p.decodeTextTags()
	p.decodeColorants()
	p.decodeGamma()

	return nil
}

// verifyProfileID checks the MD5 profile ID stored in bytes 84 to 99.
// The data is not modified.
func verifyProfileID(data []byte) CheckSum {
	if isZero(data[84:100]) {
		return CheckSumMissing
	}

	// The ID is computed over the whole profile, with the profile flags,
	// the rendering intent and the profile ID fields set to zero.
	buf := bytes.Clone(data)
	putUint32(buf, 44, 0)
	putUint32(buf, 64, 0)
	clear(buf[84:100])

	computedHash := md5.Sum(buf)
	if bytes.Equal(computedHash[:], data[84:100]) {
		return CheckSumValid
	}
	return CheckSumInvalid
}

func (p *Profile) decodeTextTags() {
	fields := []struct {
		tag TagType
		dst *string
	}{
		{ProfileDescription, &p.Description},
		{Copyright, &p.Copyright},
		{DeviceMfgDesc, &p.Manufacturer},
		{DeviceModelDesc, &p.Model},
	}
	for _, f := range fields {
		data, ok := p.TagData[f.tag]
		if !ok {
			continue
		}
		s, err := decodeTextTag(data)
		if err != nil {
			p.warn(f.tag, err)
			continue
		}
		*f.dst = s
	}
}

func (p *Profile) decodeColorants() {
	fields := []struct {
		tag TagType
		dst **colormath.XYZ
	}{
		{MediaWhitePoint, &p.White},
		{MediaBlackPoint, &p.Black},
		{RedMatrixColumn, &p.Red},
		{GreenMatrixColumn, &p.Green},
		{BlueMatrixColumn, &p.Blue},
	}
	for _, f := range fields {
		data, ok := p.TagData[f.tag]
		if !ok {
			continue
		}
		xyz, err := parseXYZ(data)
		if err != nil {
			p.warn(f.tag, err)
			continue
		}
		*f.dst = &xyz
	}
}

// decodeGamma selects the gamma payload.  A valid vcgt tag is preferred
// over a valid mLUT tag.
func (p *Profile) decodeGamma() {
	var unreadable error

	if data, ok := p.TagData[VideoCardGammaTable]; ok {
		payload, err := decodeVCGT(data)
		if err == nil {
			p.gamma = payload
			return
		}
		p.warn(VideoCardGammaTable, err)
		if !errors.Is(err, decodeerr.OutOfRangeValue) {
			unreadable = err
		}
	}

	if data, ok := p.TagData[LegacyGammaTable]; ok {
		payload, err := decodeMLUT(data)
		if err == nil {
			p.gamma = payload
			return
		}
		p.warn(LegacyGammaTable, err)
		if unreadable == nil {
			unreadable = err
		}
	}

	if unreadable != nil {
		p.gammaErr = fmt.Errorf("icc: no usable gamma table: %w: %w",
			decodeerr.UnsupportedEncoding, unreadable)
	}
}

// Gamma returns the gamma payload of the profile.  If the profile has no
// gamma table, or if the table contains out-of-range values, nil is returned.
//
// If a gamma table was present but could not be read, and no other source
// of gamma information exists, the error wraps
// [decodeerr.UnsupportedEncoding].
func (p *Profile) Gamma() (GammaPayload, error) {
	if p.gammaErr != nil {
		return nil, p.gammaErr
	}
	return p.gamma, nil
}

func (p *Profile) warn(tag TagType, err error) {
	w := fmt.Errorf("tag %s: %w", tag, err)
	log.Debugf("icc: %v", w)
	p.Warnings = append(p.Warnings, w)
}

func isZero(b []byte) bool {
	for _, x := range b {
		if x != 0 {
			return false
		}
	}
	return true
}

func getUint16(data []byte, offset int) uint16 {
	return uint16(data[offset])<<8 | uint16(data[offset+1])
}

func getUint32(data []byte, offset int) uint32 {
	return uint32(data[offset])<<24 | uint32(data[offset+1])<<16 | uint32(data[offset+2])<<8 | uint32(data[offset+3])
}

func putUint32(data []byte, offset int, value uint32) {
	data[offset] = byte(value >> 24)
	data[offset+1] = byte(value >> 16)
	data[offset+2] = byte(value >> 8)
	data[offset+3] = byte(value)
}

func getS15Fixed16(data []byte, offset int) float64 {
	return float64(int32(getUint32(data, offset))) / 65536
}

func getDateTime(data []byte, offset int) DateTime {
	return DateTime{
		Year:   int(getUint16(data, offset)),    // e.g. 1994
		Month:  int(getUint16(data, offset+2)),  // 1 to 12
		Day:    int(getUint16(data, offset+4)),  // 1 to 31
		Hour:   int(getUint16(data, offset+6)),  // 0 to 23
		Minute: int(getUint16(data, offset+8)),  // 0 to 59
		Second: int(getUint16(data, offset+10)), // 0 to 59
	}
}

func invalidProfile(kind decodeerr.Kind, offset int, reason string) error {
	return decodeerr.New("icc", kind, offset, reason)
}
