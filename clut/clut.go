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

// Package clut generates the colour lookup tables which are loaded into the
// gamma ramp of a display.
//
// A table is built from the gamma payload of a display profile, resampled
// to the size the hardware expects, and then adjusted for the user's gamma,
// brightness and contrast settings.
package clut

import (
	"errors"
	"fmt"
	"io"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/GNOME/gnome-color-manager-sub001/decodeerr"
	"github.com/GNOME/gnome-color-manager-sub001/icc"
)

// MaxSize is the largest supported table size.
const MaxSize = 65536

// ErrInvalidSize is returned by [Generate] if the requested size is smaller
// than 2 or larger than [MaxSize].
var ErrInvalidSize = errors.New("clut: invalid size")

// Entry is one entry of a colour lookup table.  All values are in the
// range 0 to 65535.
type Entry struct {
	Red, Green, Blue uint32
}

// Tone describes the adjustments applied on top of the gamma payload.
type Tone struct {
	Gamma      float64
	Brightness float64 // in percent; 0 leaves black unchanged
	Contrast   float64 // in percent; 100 leaves the range unchanged
}

// DefaultTone returns the tone settings which leave the table unchanged.
func DefaultTone() Tone {
	return Tone{Gamma: 1, Brightness: 0, Contrast: 100}
}

// Generate computes a colour lookup table with the given number of entries.
//
// If payload is nil, a linear ramp is used.  Larger tables are subsampled,
// smaller tables are linearly interpolated.  Tables from the legacy mLUT
// tag can only be subsampled, so that sizes above 256 give an error.
func Generate(payload icc.GammaPayload, size int, tone Tone) ([]Entry, error) {
	if size < 2 || size > MaxSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	var raw []Entry
	switch p := payload.(type) {
	case nil:
		raw = linearRamp(size)
	case *icc.VCGTTable:
		raw = fromTable(p.Entries, size)
	case *icc.VCGTFormula:
		raw = fromFormula(p, size)
	case *icc.MLUT:
		if size > len(p.Entries) {
			return nil, decodeerr.New("clut", decodeerr.UnsupportedEncoding, -1,
				fmt.Sprintf("cannot resample mLUT data to %d entries", size))
		}
		raw = subsample(p.Entries[:], size)
	default:
		return nil, decodeerr.New("clut", decodeerr.UnsupportedEncoding, -1,
			fmt.Sprintf("unknown gamma payload %T", payload))
	}

	adj := newAdjuster(tone)
	if adj.passthrough {
		return raw, nil
	}
	log.Debugf("clut: adjusting %d entries, min %.3f max %.3f gamma %.3f",
		size, adj.min, adj.max, adj.gamma)
	for i := range raw {
		raw[i] = Entry{
			Red:   adj.apply(raw[i].Red),
			Green: adj.apply(raw[i].Green),
			Blue:  adj.apply(raw[i].Blue),
		}
	}
	return raw, nil
}

func linearRamp(size int) []Entry {
	res := make([]Entry, size)
	for i := range res {
		v := uint32(i * 65535 / (size - 1))
		res[i] = Entry{v, v, v}
	}
	return res
}

func fromTable(table []icc.RGB16, size int) []Entry {
	n := len(table)
	if n >= size {
		return subsample(table, size)
	}

	// (65535, 65535, 65535) acts as an extra entry after the end of the table
	at := func(idx int) icc.RGB16 {
		if idx >= n {
			return icc.RGB16{R: 65535, G: 65535, B: 65535}
		}
		return table[idx]
	}
	lerp := func(a, b uint16, frac float64) uint32 {
		return uint32(float64(a)*(1-frac) + float64(b)*frac)
	}

	res := make([]Entry, size)
	step := float64(n) / float64(size)
	for i := range res {
		pos := float64(i) * step
		idx := int(pos)
		frac := pos - float64(idx)
		lo, hi := at(idx), at(idx+1)
		res[i] = Entry{
			Red:   lerp(lo.R, hi.R, frac),
			Green: lerp(lo.G, hi.G, frac),
			Blue:  lerp(lo.B, hi.B, frac),
		}
	}
	return res
}

// subsample picks every r-th entry, where r = len(table)/size.
// The table must have at least size entries.
func subsample(table []icc.RGB16, size int) []Entry {
	ratio := len(table) / size
	res := make([]Entry, size)
	for i := range res {
		e := table[ratio*i]
		res[i] = Entry{uint32(e.R), uint32(e.G), uint32(e.B)}
	}
	return res
}

func fromFormula(f *icc.VCGTFormula, size int) []Entry {
	channel := func(c, i int) uint32 {
		x := float64(i) / float64(size)
		v := math.Pow(x, f.Gamma[c])*(f.Max[c]-f.Min[c]) + f.Min[c]
		return to16(65536 * v)
	}
	res := make([]Entry, size)
	for i := range res {
		res[i] = Entry{channel(0, i), channel(1, i), channel(2, i)}
	}
	return res
}

// adjuster applies the tone settings to a single value.
type adjuster struct {
	min, max, gamma float64
	passthrough     bool
}

func newAdjuster(tone Tone) *adjuster {
	a := &adjuster{gamma: tone.Gamma}
	a.min = tone.Brightness / 100
	a.max = (1-a.min)*(tone.Contrast/100) + a.min

	// gamma values within 1% of 1 count as exactly 1
	nearOne := a.gamma >= 0.99 && a.gamma <= 1.01
	if nearOne {
		a.gamma = 1
	}
	a.passthrough = a.min < 0.01 && a.max > 0.99 && nearOne
	return a
}

func (a *adjuster) apply(v uint32) uint32 {
	x := float64(v) / 65536
	return to16(65536 * (math.Pow(x, a.gamma)*(a.max-a.min) + a.min))
}

// to16 truncates x to an integer in the range 0 to 65535.
func to16(x float64) uint32 {
	if !(x > 0) {
		return 0
	}
	if x >= 65535 {
		return 65535
	}
	return uint32(x)
}

// Split returns the red, green and blue channels of a table, in the form
// used by gamma ramp interfaces.
func Split(entries []Entry) (r, g, b []uint16) {
	r = make([]uint16, len(entries))
	g = make([]uint16, len(entries))
	b = make([]uint16, len(entries))
	for i, e := range entries {
		r[i] = uint16(min(e.Red, 65535))
		g[i] = uint16(min(e.Green, 65535))
		b[i] = uint16(min(e.Blue, 65535))
	}
	return r, g, b
}

// Format writes a table to w, one entry per line.
func Format(w io.Writer, entries []Entry) error {
	for i, e := range entries {
		_, err := fmt.Fprintf(w, "%5d %5d %5d %5d\n", i, e.Red, e.Green, e.Blue)
		if err != nil {
			return err
		}
	}
	return nil
}
