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

// Package pnp maps three-letter Plug and Play manufacturer IDs, as found in
// EDID blocks, to vendor names.
//
// The mapping is read from a file in the format of the hwdata "pnp.ids"
// list, one vendor per line:
//
//	GSM	Goldstar Company Ltd
//	IBM	IBM Brasil
//
// A [Table] is immutable once loaded and safe for concurrent use.
package pnp

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Table maps PNP IDs to vendor names.
type Table struct {
	names map[string]string
}

// Load reads a vendor table.
// Blank lines and lines starting with '#' are ignored, as are lines which do
// not start with a three-letter ID followed by white space.
func Load(r io.Reader) (*Table, error) {
	t := &Table{names: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || line[0] == '#' {
			continue
		}
		if len(line) < 5 || (line[3] != '\t' && line[3] != ' ') {
			continue
		}
		id := line[:3]
		if !isID(id) {
			continue
		}
		name := strings.TrimSpace(line[4:])
		if name == "" {
			continue
		}
		t.names[id] = name
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadFile reads a vendor table from the named file.
func LoadFile(fname string) (*Table, error) {
	fd, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return Load(fd)
}

// FromMap builds a table from an existing mapping.
// The map is copied.
func FromMap(m map[string]string) *Table {
	t := &Table{names: make(map[string]string, len(m))}
	for id, name := range m {
		t.names[strings.ToUpper(id)] = name
	}
	return t
}

// Lookup returns the vendor name for the given PNP ID.
// The second return value is false if the ID is unknown.
// A nil table knows no vendors.
func (t *Table) Lookup(id string) (string, bool) {
	if t == nil {
		return "", false
	}
	name, ok := t.names[strings.ToUpper(id)]
	return name, ok
}

// Len returns the number of vendors in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

func isID(s string) bool {
	for i := range len(s) {
		c := s[i]
		if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
