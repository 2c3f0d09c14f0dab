// go-jablotron
// Copyright (c) 2026 The Jablonet Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-jablotron.
//
// go-jablotron is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-jablotron is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-jablotron; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package jablotron

import (
	"fmt"
	"strings"
)

// CentralUnit is the identity of the controller on the other end of the
// serial line. It is created once by discovery and immutable afterwards.
type CentralUnit struct {
	SerialPort      string
	Model           string
	HardwareVersion string
	FirmwareVersion string
}

// ControlKind tags the role of a Control. The set is closed: a control is a
// section alarm, a section problem sensor, a device sensor or a device
// problem sensor, and only field presence varies between them.
type ControlKind int

const (
	// KindSectionAlarm is an armable section of the premises.
	KindSectionAlarm ControlKind = iota
	// KindSectionProblem is the fault indicator shadowing a section.
	KindSectionProblem
	// KindDeviceSensor is a stateful peripheral device.
	KindDeviceSensor
	// KindDeviceProblem is the fault indicator shadowing a device.
	KindDeviceProblem
)

// DeviceType tags a configured peripheral device. Keypads, sirens and
// "other" devices carry no usable state and are excluded from tracking.
type DeviceType string

// Known device types.
const (
	DeviceKeypad     DeviceType = "keypad"
	DeviceSiren      DeviceType = "siren"
	DeviceMotion     DeviceType = "motion"
	DeviceWindow     DeviceType = "window"
	DeviceDoor       DeviceType = "door"
	DeviceGarageDoor DeviceType = "garage_door"
	DeviceGlassBreak DeviceType = "glass_break"
	DeviceSmoke      DeviceType = "smoke"
	DeviceFlood      DeviceType = "flood"
	DeviceGas        DeviceType = "gas"
	DeviceOther      DeviceType = "other"
)

var deviceTypeNames = map[DeviceType]string{
	DeviceKeypad:     "Keypad",
	DeviceSiren:      "Siren",
	DeviceMotion:     "Motion detector",
	DeviceWindow:     "Window opening detector",
	DeviceDoor:       "Door opening detector",
	DeviceGarageDoor: "Garage door opening detector",
	DeviceGlassBreak: "Glass break detector",
	DeviceSmoke:      "Smoke detector",
	DeviceFlood:      "Flood detector",
	DeviceGas:        "Gas detector",
	DeviceOther:      "Other device",
}

// DisplayName returns a human-readable name for the device type.
func (t DeviceType) DisplayName() string {
	if name, ok := deviceTypeNames[t]; ok {
		return name
	}
	return string(t)
}

// Tracked reports whether devices of this type take part in per-device state
// tracking.
func (t DeviceType) Tracked() bool {
	switch t {
	case DeviceKeypad, DeviceSiren, DeviceOther:
		return false
	default:
		return true
	}
}

// Control is one addressable entity of the installation. Which of the
// optional fields are meaningful depends on Kind.
type Control struct {
	CentralUnit  *CentralUnit
	ID           string
	Name         string
	FriendlyName string
	Kind         ControlKind
	Section      int        // section controls only
	DeviceNumber int        // device controls only
	DeviceType   DeviceType // device controls only
}

// DisplayName returns the friendly name when one is set, the protocol name
// otherwise.
func (c *Control) DisplayName() string {
	if c.FriendlyName != "" {
		return c.FriendlyName
	}
	return c.Name
}

// Control id and name builders. Ids are stable and globally unique across
// the installation.

func sectionAlarmID(section int) string {
	return fmt.Sprintf("section_%d", section)
}

func sectionProblemID(section int) string {
	return fmt.Sprintf("section_problem_sensor_%d", section)
}

func deviceSensorID(number int) string {
	return fmt.Sprintf("device_sensor_%d", number)
}

func deviceProblemID(number int) string {
	return fmt.Sprintf("device_problem_sensor_%d", number)
}

func sectionName(section int) string {
	return fmt.Sprintf("Section %d", section)
}

func sectionProblemName(section int) string {
	return fmt.Sprintf("Problem of section %d", section)
}

func deviceSensorName(deviceType DeviceType, number int) string {
	return fmt.Sprintf("%s (device %d)", deviceType.DisplayName(), number)
}

func deviceProblemName(deviceType DeviceType, number int) string {
	return fmt.Sprintf("Problem of %s (device %d)", strings.ToLower(deviceType.DisplayName()), number)
}

// Registry is the in-memory catalog of discovered and configured controls.
// It is built exactly once during initialization and never resized.
type Registry struct {
	byID     map[string]*Control
	controls []*Control
}

func newRegistry() *Registry {
	return &Registry{byID: make(map[string]*Control)}
}

func (r *Registry) add(control *Control) {
	r.controls = append(r.controls, control)
	r.byID[control.ID] = control
}

// ByID returns the control with the given id, if registered.
func (r *Registry) ByID(id string) (*Control, bool) {
	control, ok := r.byID[id]
	return control, ok
}

// Controls returns all registered controls in registration order: sections
// first, then devices, each ascending.
func (r *Registry) Controls() []*Control {
	out := make([]*Control, len(r.controls))
	copy(out, r.controls)
	return out
}

// SectionAlarms returns the section alarm controls in ascending order.
func (r *Registry) SectionAlarms() []*Control {
	return r.byKind(KindSectionAlarm)
}

// DeviceSensors returns the tracked device sensor controls in ascending
// order.
func (r *Registry) DeviceSensors() []*Control {
	return r.byKind(KindDeviceSensor)
}

func (r *Registry) byKind(kind ControlKind) []*Control {
	var out []*Control
	for _, control := range r.controls {
		if control.Kind == kind {
			out = append(out, control)
		}
	}
	return out
}

// buildRegistry creates the full control catalog from the discovered
// sections and the static device configuration.
func buildRegistry(central *CentralUnit, sections []sectionStatePair, devices []DeviceType) *Registry {
	registry := newRegistry()

	for _, pair := range sections {
		registry.add(&Control{
			CentralUnit: central,
			ID:          sectionAlarmID(pair.Section),
			Name:        sectionName(pair.Section),
			Kind:        KindSectionAlarm,
			Section:     pair.Section,
		})
		registry.add(&Control{
			CentralUnit: central,
			ID:          sectionProblemID(pair.Section),
			Name:        sectionProblemName(pair.Section),
			Kind:        KindSectionProblem,
			Section:     pair.Section,
		})
	}

	for i, deviceType := range devices {
		if !deviceType.Tracked() {
			continue
		}

		number := i + 1
		name := deviceSensorName(deviceType, number)

		registry.add(&Control{
			CentralUnit:  central,
			ID:           deviceSensorID(number),
			Name:         name,
			Kind:         KindDeviceSensor,
			DeviceNumber: number,
			DeviceType:   deviceType,
		})
		registry.add(&Control{
			CentralUnit:  central,
			ID:           deviceProblemID(number),
			Name:         name,
			FriendlyName: deviceProblemName(deviceType, number),
			Kind:         KindDeviceProblem,
			DeviceNumber: number,
			DeviceType:   deviceType,
		})
	}

	return registry
}
