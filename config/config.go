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

// Package config reads per-display settings for the gamma tables.
//
// The settings file is a YAML document of the following form:
//
//	devices:
//	  - id: 8a9b7c3f0e6d5a4b3c2d1e0f9a8b7c6d   # EDID checksum
//	    gamma: 1.1
//	    brightness: 2
//	    clut-size: 1024
//	  - name: L225W                           # monitor name
//	    contrast: 95
//
// Values which are not given keep their defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/GNOME/gnome-color-manager-sub001/clut"
	"github.com/GNOME/gnome-color-manager-sub001/edid"
)

// DefaultClutSize is the table size used if a device does not specify one.
const DefaultClutSize = 256

// Settings holds the settings for all configured displays.
type Settings struct {
	Devices []Device `yaml:"devices"`
}

// Device holds the settings for one display.  A display is identified
// either by the checksum of its EDID data, or by its monitor name.
type Device struct {
	ID   string `yaml:"id,omitempty"`
	Name string `yaml:"name,omitempty"`

	Gamma      *float64 `yaml:"gamma,omitempty"`
	Brightness *float64 `yaml:"brightness,omitempty"`
	Contrast   *float64 `yaml:"contrast,omitempty"`
	ClutSize   int      `yaml:"clut-size,omitempty"`
}

// Load reads settings from r.  An empty document gives empty settings.
func Load(r io.Reader) (*Settings, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	s := &Settings{}
	err := dec.Decode(s)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %w", err)
	}

	for i, d := range s.Devices {
		err := d.check()
		if err != nil {
			return nil, fmt.Errorf("config: device %d: %w", i+1, err)
		}
	}
	log.Debugf("config: %d devices", len(s.Devices))
	return s, nil
}

// LoadFile reads settings from the named file.
func LoadFile(fname string) (*Settings, error) {
	fd, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return Load(fd)
}

func (d *Device) check() error {
	if d.ID == "" && d.Name == "" {
		return errors.New("neither id nor name given")
	}
	if d.ClutSize != 0 && (d.ClutSize < 2 || d.ClutSize > clut.MaxSize) {
		return fmt.Errorf("invalid clut-size %d", d.ClutSize)
	}
	if d.Gamma != nil && *d.Gamma <= 0 {
		return fmt.Errorf("invalid gamma %g", *d.Gamma)
	}
	if d.Brightness != nil && (*d.Brightness < 0 || *d.Brightness > 100) {
		return fmt.Errorf("invalid brightness %g", *d.Brightness)
	}
	if d.Contrast != nil && (*d.Contrast < 0 || *d.Contrast > 100) {
		return fmt.Errorf("invalid contrast %g", *d.Contrast)
	}
	return nil
}

// Lookup finds the settings for a display.  Devices given by EDID checksum
// take precedence over devices given by monitor name.
func (s *Settings) Lookup(e *edid.Edid) (Device, bool) {
	if s == nil || e == nil {
		return Device{}, false
	}
	for _, d := range s.Devices {
		if d.ID != "" && d.ID == e.Checksum {
			return d, true
		}
	}
	if e.MonitorName == "" {
		return Device{}, false
	}
	for _, d := range s.Devices {
		if d.Name == e.MonitorName {
			return d, true
		}
	}
	return Device{}, false
}

// Tone returns the tone adjustment for the device.
func (d Device) Tone() clut.Tone {
	tone := clut.DefaultTone()
	if d.Gamma != nil {
		tone.Gamma = *d.Gamma
	}
	if d.Brightness != nil {
		tone.Brightness = *d.Brightness
	}
	if d.Contrast != nil {
		tone.Contrast = *d.Contrast
	}
	return tone
}

// Size returns the CLUT size for the device.
func (d Device) Size() int {
	if d.ClutSize == 0 {
		return DefaultClutSize
	}
	return d.ClutSize
}
