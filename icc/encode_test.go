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
	"crypto/md5"
	"math"
)

// testProfile describes a profile for use in tests.
type testProfile struct {
	Version    Version
	Kind       Kind
	ColorSpace ColorSpace
	PCS        ColorSpace
	CreatedAt  DateTime
	Tags       []testTag

	// WithID causes a profile ID to be stored in the header.
	WithID bool
}

type testTag struct {
	Type TagType
	Data []byte
}

// encode converts the profile to binary form.  Tags are stored in the
// given order, each padded to a multiple of four bytes.
func (p *testProfile) encode() []byte {
	pos := HeaderSize + len(p.Tags)*12
	starts := make([]int, len(p.Tags))
	for i, tag := range p.Tags {
		starts[i] = pos
		pos += (len(tag.Data) + 3) &^ 3
	}

	buf := make([]byte, pos)
	putUint32(buf, 0, uint32(pos))
	putUint32(buf, 8, uint32(p.Version))
	putUint32(buf, 12, uint32(p.Kind))
	putUint32(buf, 16, uint32(p.ColorSpace))
	putUint32(buf, 20, uint32(p.PCS))
	putDateTime(buf, 24, p.CreatedAt)
	copy(buf[36:], "acsp")
	copy(buf[68:], d50)

	putUint32(buf, 128, uint32(len(p.Tags)))
	for i, tag := range p.Tags {
		putUint32(buf, HeaderSize+i*12, uint32(tag.Type))
		putUint32(buf, HeaderSize+i*12+4, uint32(starts[i]))
		putUint32(buf, HeaderSize+i*12+8, uint32(len(tag.Data)))
		copy(buf[starts[i]:], tag.Data)
	}

	if p.WithID {
		h := md5.Sum(buf)
		copy(buf[84:], h[:])
	}
	return buf
}

// This is the value for the "PCS illuminant" header field (Bytes 68 to 79).
var d50 = []byte{
	0x00, 0x00, 0xf6, 0xd6, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0xd3, 0x2d,
}

func putUint16(data []byte, offset int, value uint16) {
	data[offset] = byte(value >> 8)
	data[offset+1] = byte(value)
}

func putS15Fixed16(data []byte, offset int, value float64) {
	putUint32(data, offset, uint32(int32(math.Round(value*65536))))
}

func putDateTime(data []byte, offset int, d DateTime) {
	for i, v := range []int{d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second} {
		putUint16(data, offset+2*i, uint16(v))
	}
}

func xyzTag(x, y, z float64) []byte {
	buf := make([]byte, 20)
	copy(buf, "XYZ ")
	putS15Fixed16(buf, 8, x)
	putS15Fixed16(buf, 12, y)
	putS15Fixed16(buf, 16, z)
	return buf
}

func textTag(s string) []byte {
	buf := make([]byte, 8+len(s)+1)
	copy(buf, "text")
	copy(buf[8:], s)
	return buf
}

func descTag(s string) []byte {
	// the Unicode and ScriptCode parts are left empty
	buf := make([]byte, 12+len(s)+1+8+3+67)
	copy(buf, "desc")
	putUint32(buf, 8, uint32(len(s)+1))
	copy(buf[12:], s)
	return buf
}

// mlucTag encodes one record for each of the given strings.
func mlucTag(values ...string) []byte {
	var strs [][]byte
	total := 0
	for _, v := range values {
		var u []byte
		for _, r := range v {
			u = append(u, byte(r>>8), byte(r))
		}
		strs = append(strs, u)
		total += len(u)
	}

	buf := make([]byte, 16+12*len(values)+total)
	copy(buf, "mluc")
	putUint32(buf, 8, uint32(len(values)))
	putUint32(buf, 12, 12)
	pos := 16 + 12*len(values)
	for i, u := range strs {
		rec := 16 + 12*i
		copy(buf[rec:], "enUS")
		putUint32(buf, rec+4, uint32(len(u)))
		putUint32(buf, rec+8, uint32(pos))
		copy(buf[pos:], u)
		pos += len(u)
	}
	return buf
}

func gammaCurveTag(gamma float64) []byte {
	buf := make([]byte, 14)
	copy(buf, "curv")
	putUint32(buf, 8, 1)
	putUint16(buf, 12, uint16(gamma*256))
	return buf
}

func paraCurveTag(funcType int, params ...float64) []byte {
	buf := make([]byte, 12+4*len(params))
	copy(buf, "para")
	putUint16(buf, 8, uint16(funcType))
	for i, v := range params {
		putS15Fixed16(buf, 12+4*i, v)
	}
	return buf
}

// vcgtTableTag encodes a vcgt table.  The values are given channel-major.
func vcgtTableTag(channels, entries, width int, values []uint16) []byte {
	buf := make([]byte, 18+len(values)*width)
	copy(buf, "vcgt")
	putUint32(buf, 8, vcgtTypeTable)
	putUint16(buf, 12, uint16(channels))
	putUint16(buf, 14, uint16(entries))
	putUint16(buf, 16, uint16(width))
	for i, v := range values {
		if width == 1 {
			buf[18+i] = byte(v)
		} else {
			putUint16(buf, 18+2*i, v)
		}
	}
	return buf
}

// vcgtFormulaTag encodes a vcgt formula.  The values are gamma, min and max
// for each of the red, green and blue channels.
func vcgtFormulaTag(values [9]float64) []byte {
	buf := make([]byte, 12+9*4)
	copy(buf, "vcgt")
	putUint32(buf, 8, vcgtTypeFormula)
	for i, v := range values {
		putS15Fixed16(buf, 12+4*i, v)
	}
	return buf
}

func mlutTag(entry func(i int) RGB16) []byte {
	buf := make([]byte, mlutSize)
	for i := range 256 {
		e := entry(i)
		putUint16(buf, 2*i, e.R)
		putUint16(buf, 0x200+2*i, e.G)
		putUint16(buf, 0x400+2*i, e.B)
	}
	return buf
}

// srgbTags gives the colorant and TRC tags of an sRGB-like display profile.
func srgbTags(withWhite bool) []testTag {
	tags := []testTag{
		{RedMatrixColumn, xyzTag(0.4361, 0.2225, 0.0139)},
		{GreenMatrixColumn, xyzTag(0.3851, 0.7169, 0.0971)},
		{BlueMatrixColumn, xyzTag(0.1431, 0.0606, 0.7141)},
		{RedTRC, gammaCurveTag(2.2)},
		{GreenTRC, gammaCurveTag(2.2)},
		{BlueTRC, gammaCurveTag(2.2)},
	}
	if withWhite {
		tags = append(tags, testTag{MediaWhitePoint, xyzTag(0.9642, 1.0, 0.8249)})
	}
	return tags
}

func displayProfile(tags ...testTag) *testProfile {
	return &testProfile{
		Version:    Version4_3_0,
		Kind:       KindDisplay,
		ColorSpace: RGBSpace,
		PCS:        CIEXYZSpace,
		CreatedAt:  DateTime{Year: 2024, Month: 3, Day: 9, Hour: 14, Minute: 30, Second: 5},
		Tags:       tags,
	}
}
