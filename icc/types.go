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

	"golang.org/x/text/encoding/unicode"

	"github.com/GNOME/gnome-color-manager-sub001/colormath"
)

// decodeTextTag decodes the payload of a description or copyright tag.
// The payload may be a textDescriptionType, a textType, or a
// multiLocalizedUnicodeType.
func decodeTextTag(data []byte) (string, error) {
	if len(data) < 8 {
		return "", errInvalidTagData
	}
	switch string(data[0:4]) {
	case "desc":
		return decodeDesc(data)
	case "text":
		return decodeText(data)
	case "mluc":
		return decodeMLUC(data)
	default:
		return "", errUnexpectedType
	}
}

// decodeDesc decodes the ASCII part of a textDescriptionType.
func decodeDesc(data []byte) (string, error) {
	if len(data) < 12 {
		return "", errInvalidTagData
	}
	n := uint64(getUint32(data, 8)) // including the terminating NUL
	if 12+n > uint64(len(data)) {
		return "", errInvalidTagData
	}
	return trimNUL(data[12 : 12+n]), nil
}

func decodeText(data []byte) (string, error) {
	err := checkType("text", data)
	if err != nil {
		return "", err
	}

	if len(data) < 8 {
		return "", errInvalidTagData
	}
	return trimNUL(data[8:]), nil
}

// decodeMLUC decodes a multiLocalizedUnicodeType.  Only the first record is
// used, even if the tag contains translations.
func decodeMLUC(data []byte) (string, error) {
	err := checkType("mluc", data)
	if err != nil {
		return "", err
	}

	if len(data) < 16 {
		return "", errInvalidTagData
	}
	n := getUint32(data, 8)
	recordSize := getUint32(data, 12)
	if n == 0 || recordSize < 12 || len(data) < 16+12 {
		return "", errInvalidTagData
	}

	length := getUint32(data, 20)
	offset := getUint32(data, 24)
	start := uint64(offset)
	end := start + uint64(length)
	if end > uint64(len(data)) || length&1 != 0 {
		return "", errInvalidTagData
	}

	dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	text, err := dec.Bytes(data[start:end])
	if err != nil {
		return "", errInvalidTagData
	}
	return trimNUL(text), nil
}

func trimNUL(b []byte) string {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return string(b[:end])
}

func parseXYZ(data []byte) (colormath.XYZ, error) {
	if len(data) < 20 {
		return colormath.XYZ{}, errInvalidTagData
	}
	if string(data[0:4]) != "XYZ " {
		return colormath.XYZ{}, errUnexpectedType
	}

	return colormath.XYZ{
		X: getS15Fixed16(data, 8),
		Y: getS15Fixed16(data, 12),
		Z: getS15Fixed16(data, 16),
	}, nil
}

func checkType(typeID string, data []byte) error {
	bb := []byte(typeID)
	for i, b := range bb {
		if i >= len(data) || data[i] != b {
			return errUnexpectedType
		}
	}
	return nil
}

var (
	errUnexpectedType = errors.New("unexpected tag data type")
	errInvalidTagData = errors.New("invalid tag data")
)
