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

// Package decodeerr defines the error categories shared by the EDID and ICC
// decoders and by the CLUT engine.
//
// Errors returned by those packages are of type [*Error] and wrap one of the
// [Kind] values, so that callers can test for a category with [errors.Is]:
//
//	p, err := icc.Decode(data)
//	if errors.Is(err, decodeerr.TruncatedData) {
//	    // the file was cut short
//	}
package decodeerr

import "fmt"

// Kind classifies a decoding failure.
type Kind int

// These are the failure categories.
const (
	// MalformedHeader means that the magic bytes of a structure are wrong.
	MalformedHeader Kind = iota + 1

	// TruncatedData means that a structurally required region lies (partly)
	// outside of the input buffer.
	TruncatedData

	// UnsupportedEncoding means that a gamma table uses an encoding which
	// cannot be interpreted.
	UnsupportedEncoding

	// OutOfRangeValue means that a numeric field lies outside of its
	// permitted range.
	OutOfRangeValue
)

func (k Kind) String() string {
	switch k {
	case MalformedHeader:
		return "malformed header"
	case TruncatedData:
		return "truncated data"
	case UnsupportedEncoding:
		return "unsupported encoding"
	case OutOfRangeValue:
		return "value out of range"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error implements the error interface, so that a Kind can be used as the
// target of errors.Is.
func (k Kind) Error() string {
	return k.String()
}

// Error describes a failure at a specific position in the input.
type Error struct {
	Pkg    string // name of the reporting package, e.g. "icc"
	Kind   Kind
	Offset int // byte offset into the input, or -1 if not applicable
	Reason string
}

// New returns a new error of the given kind.
func New(pkg string, kind Kind, offset int, reason string) error {
	return &Error{Pkg: pkg, Kind: kind, Offset: offset, Reason: reason}
}

func (e *Error) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("%s: %s: %s", e.Pkg, e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s: %s (byte %d): %s", e.Pkg, e.Kind, e.Offset, e.Reason)
}

// Unwrap returns the Kind of the error.
func (e *Error) Unwrap() error {
	return e.Kind
}
