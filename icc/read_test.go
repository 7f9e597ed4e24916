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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GNOME/gnome-color-manager-sub001/colormath"
	"github.com/GNOME/gnome-color-manager-sub001/decodeerr"
)

func TestDateTime(t *testing.T) {
	in := []byte{
		byte(2020 >> 8), byte(2020 & 0xFF),
		0, 1,
		0, 2,
		0, 4,
		0, 5,
		0, 6,
	}
	d := getDateTime(in, 0)
	if diff := cmp.Diff(DateTime{2020, 1, 2, 4, 5, 6}, d); diff != "" {
		t.Fatalf("unexpected date (-want +got):\n%s", diff)
	}

	want := "2020-01-02 04:05:06 +0000 UTC"
	got := d.Time().String()
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	d.Month = 13
	if !d.Time().IsZero() {
		t.Errorf("invalid month accepted")
	}
}

func TestDecodeHeader(t *testing.T) {
	tp := displayProfile(srgbTags(true)...)
	tp.WithID = true
	data := tp.encode()

	p, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, KindDisplay, p.Kind)
	assert.Equal(t, RGBSpace, p.ColorSpace)
	assert.Equal(t, CIEXYZSpace, p.PCS)
	assert.Equal(t, "4.3.0", p.Version.String())
	assert.Equal(t, len(data), p.Size)
	assert.Equal(t, DateTime{2024, 3, 9, 14, 30, 5}, p.CreatedAt)
	assert.Equal(t, CheckSumValid, p.ProfileID)
	assert.Len(t, p.Checksum, 32)
	assert.Len(t, p.TagData, 7)
	assert.Empty(t, p.Warnings)
}

func TestUnknownSignatures(t *testing.T) {
	tp := displayProfile()
	tp.Kind = 0x78787878      // "xxxx"
	tp.ColorSpace = 0x4E4F5045 // "NOPE"
	p, err := Decode(tp.encode())
	require.NoError(t, err)
	assert.Equal(t, KindUnknown, p.Kind)
	assert.Equal(t, ColorSpaceUnknown, p.ColorSpace)
	assert.Equal(t, "Unknown", p.Kind.String())
}

func TestProfileID(t *testing.T) {
	tp := displayProfile(testTag{ProfileDescription, textTag("test")})
	p, err := Decode(tp.encode())
	require.NoError(t, err)
	assert.Equal(t, CheckSumMissing, p.ProfileID)

	tp.WithID = true
	data := tp.encode()
	data[len(data)-8] ^= 0x01 // inside the tag data
	orig := bytes.Clone(data)
	p, err = Decode(data)
	require.NoError(t, err)
	assert.Equal(t, CheckSumInvalid, p.ProfileID)
	assert.Equal(t, orig, data, "input was modified")
}

func TestChecksumIsStable(t *testing.T) {
	data := displayProfile(srgbTags(false)...).encode()
	p1, err := Decode(data)
	require.NoError(t, err)
	p2, err := Decode(bytes.Clone(data))
	require.NoError(t, err)
	assert.Equal(t, p1.Checksum, p2.Checksum)

	data[100] = 1
	p3, err := Decode(data)
	require.NoError(t, err)
	assert.NotEqual(t, p1.Checksum, p3.Checksum)
}

func TestTruncated(t *testing.T) {
	data := displayProfile(srgbTags(true)...).encode()
	for _, n := range []int{0, 4, 40, HeaderSize - 1} {
		_, err := Decode(data[:n])
		assert.True(t, errors.Is(err, decodeerr.TruncatedData), "length %d: %v", n, err)
	}

	// the last tag extends past the end
	_, err := Decode(data[:len(data)-4])
	assert.True(t, errors.Is(err, decodeerr.TruncatedData), "%v", err)

	// too many tags for the data
	bad := bytes.Clone(data)
	putUint32(bad, 128, 1000)
	_, err = Decode(bad)
	assert.True(t, errors.Is(err, decodeerr.TruncatedData), "%v", err)

	// a tag offset near the end of the 32-bit range
	bad = bytes.Clone(data)
	putUint32(bad, HeaderSize+4, 0xFFFFFFF0)
	_, err = Decode(bad)
	assert.True(t, errors.Is(err, decodeerr.TruncatedData), "%v", err)
}

func TestMalformedHeader(t *testing.T) {
	data := displayProfile().encode()
	copy(data[36:], "xxxx")
	_, err := Decode(data)
	assert.True(t, errors.Is(err, decodeerr.MalformedHeader), "%v", err)

	var e *decodeerr.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, 36, e.Offset)
}

func TestParseOnce(t *testing.T) {
	data := displayProfile(testTag{ProfileDescription, textTag("first")}).encode()
	other := displayProfile(testTag{ProfileDescription, textTag("second")}).encode()

	p := &Profile{}
	require.NoError(t, p.Parse(data))
	assert.Equal(t, "first", p.Description)

	err := p.Parse(other)
	assert.ErrorIs(t, err, ErrAlreadyLoaded)
	assert.Equal(t, "first", p.Description)

	p.Reset()
	require.NoError(t, p.Parse(other))
	assert.Equal(t, "second", p.Description)
}

func TestParseFailureLeavesEmpty(t *testing.T) {
	data := displayProfile(testTag{ProfileDescription, textTag("x")}).encode()
	p := &Profile{}
	require.Error(t, p.Parse(data[:len(data)-4]))
	assert.Equal(t, "", p.Description)
	assert.Nil(t, p.TagData)

	// still empty, so parsing is allowed
	require.NoError(t, p.Parse(data))
}

func TestTextTags(t *testing.T) {
	tp := displayProfile(
		testTag{ProfileDescription, descTag("Dell U2410")},
		testTag{Copyright, textTag("No copyright")},
		testTag{DeviceMfgDesc, mlucTag("Dell Inc.", "Dell GmbH")},
		testTag{DeviceModelDesc, mlucTag("U2410 größer")},
	)
	p, err := Decode(tp.encode())
	require.NoError(t, err)
	assert.Equal(t, "Dell U2410", p.Description)
	assert.Equal(t, "No copyright", p.Copyright)
	assert.Equal(t, "Dell Inc.", p.Manufacturer)
	assert.Equal(t, "U2410 größer", p.Model)
	assert.Empty(t, p.Warnings)
}

func TestBadTextTag(t *testing.T) {
	broken := descTag("abc")
	putUint32(broken, 8, 1000)
	tp := displayProfile(
		testTag{ProfileDescription, broken},
		testTag{Copyright, xyzTag(1, 1, 1)},
		testTag{DeviceModelDesc, textTag("still here")},
	)
	p, err := Decode(tp.encode())
	require.NoError(t, err)
	assert.Equal(t, "", p.Description)
	assert.Equal(t, "", p.Copyright)
	assert.Equal(t, "still here", p.Model)
	require.Len(t, p.Warnings, 2)
}

func TestColorants(t *testing.T) {
	tags := srgbTags(true)
	tags = append(tags, testTag{MediaBlackPoint, xyzTag(0, 0, 0)})
	p, err := Decode(displayProfile(tags...).encode())
	require.NoError(t, err)

	require.NotNil(t, p.White)
	require.NotNil(t, p.Black)
	require.NotNil(t, p.Red)
	require.NotNil(t, p.Green)
	require.NotNil(t, p.Blue)
	assert.InDelta(t, 0.9642, p.White.X, 1e-4)
	assert.InDelta(t, 0.2225, p.Red.Y, 1e-4)
	assert.InDelta(t, 0.7141, p.Blue.Z, 1e-4)
	assert.Equal(t, colormath.XYZ{}, *p.Black)
}

func TestMissingColorants(t *testing.T) {
	p, err := Decode(displayProfile(testTag{ProfileDescription, textTag("x")}).encode())
	require.NoError(t, err)
	assert.Nil(t, p.White)
	assert.Nil(t, p.Black)
	assert.Nil(t, p.Red)
}

func TestWhiteOnlyFromTag(t *testing.T) {
	p, err := Decode(displayProfile(srgbTags(false)...).encode())
	require.NoError(t, err)
	assert.Nil(t, p.White)

	tr, err := p.Transform()
	require.NoError(t, err)
	white := tr.WhitePoint()
	assert.InDelta(t, 0.9643, white.X, 1e-3)
	assert.InDelta(t, 1.0, white.Y, 1e-3)
	assert.InDelta(t, 0.8251, white.Z, 1e-3)
}

func TestWhiteMalformedTag(t *testing.T) {
	tags := append(srgbTags(false), testTag{MediaWhitePoint, []byte("junk")})
	p, err := Decode(displayProfile(tags...).encode())
	require.NoError(t, err)
	assert.Nil(t, p.White)
	require.Len(t, p.Warnings, 1)
	assert.ErrorIs(t, p.Warnings[0], errInvalidTagData)
}

func FuzzDecode(f *testing.F) {
	f.Add(displayProfile().encode())
	f.Add(displayProfile(srgbTags(true)...).encode())
	f.Add(displayProfile(
		testTag{ProfileDescription, mlucTag("abc")},
		testTag{VideoCardGammaTable, vcgtFormulaTag([9]float64{2.2, 0, 1, 2.2, 0, 1, 2.2, 0, 1})},
	).encode())
	f.Add(displayProfile(
		testTag{VideoCardGammaTable, vcgtTableTag(3, 2, 1, []uint16{0, 255, 0, 255, 0, 255})},
		testTag{GrayTRC, paraCurveTag(1, 2.2, 1, 0)},
	).encode())
	f.Fuzz(func(t *testing.T, a []byte) {
		p, err := Decode(a)
		if err != nil {
			return
		}
		payload, err := p.Gamma()
		if err != nil && payload != nil {
			t.Fatalf("payload returned together with error %v", err)
		}
		if tab, ok := payload.(*VCGTTable); ok && len(tab.Entries) == 0 {
			t.Fatalf("empty gamma table")
		}
	})
}
