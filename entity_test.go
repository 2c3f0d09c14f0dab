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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceTypeTracked(t *testing.T) {
	t.Parallel()

	assert.False(t, DeviceKeypad.Tracked())
	assert.False(t, DeviceSiren.Tracked())
	assert.False(t, DeviceOther.Tracked())
	assert.True(t, DeviceMotion.Tracked())
	assert.True(t, DeviceSmoke.Tracked())
	assert.True(t, DeviceGarageDoor.Tracked())
}

func TestControlDisplayName(t *testing.T) {
	t.Parallel()

	control := &Control{Name: "Section 1"}
	assert.Equal(t, "Section 1", control.DisplayName())

	control.FriendlyName = "Ground floor"
	assert.Equal(t, "Ground floor", control.DisplayName())
}

func TestBuildRegistry(t *testing.T) {
	t.Parallel()

	central := &CentralUnit{Model: "JA-103"}
	sections := []sectionStatePair{
		{Section: 1, State: [2]byte{0x01, 0x00}},
		{Section: 2, State: [2]byte{0x03, 0x00}},
	}
	devices := []DeviceType{DeviceMotion, DeviceKeypad, DeviceSiren, DeviceSmoke, DeviceOther}

	registry := buildRegistry(central, sections, devices)

	// Two controls per section, two per tracked device; keypad, siren and
	// other are skipped but keep their positions in the numbering.
	require.Len(t, registry.Controls(), 8)

	t.Run("SectionControls", func(t *testing.T) {
		t.Parallel()
		alarms := registry.SectionAlarms()
		require.Len(t, alarms, 2)
		assert.Equal(t, "section_1", alarms[0].ID)
		assert.Equal(t, "Section 1", alarms[0].Name)
		assert.Equal(t, 1, alarms[0].Section)
		assert.Same(t, central, alarms[0].CentralUnit)

		problem, ok := registry.ByID("section_problem_sensor_2")
		require.True(t, ok)
		assert.Equal(t, "Problem of section 2", problem.Name)
		assert.Equal(t, KindSectionProblem, problem.Kind)
	})

	t.Run("DeviceControls", func(t *testing.T) {
		t.Parallel()
		sensors := registry.DeviceSensors()
		require.Len(t, sensors, 2)
		assert.Equal(t, "device_sensor_1", sensors[0].ID)
		assert.Equal(t, "Motion detector (device 1)", sensors[0].Name)
		assert.Equal(t, DeviceMotion, sensors[0].DeviceType)
		assert.Equal(t, "device_sensor_4", sensors[1].ID)
		assert.Equal(t, 4, sensors[1].DeviceNumber)

		problem, ok := registry.ByID("device_problem_sensor_4")
		require.True(t, ok)
		assert.Equal(t, "Problem of smoke detector (device 4)", problem.DisplayName())
	})

	t.Run("UntrackedDevicesAbsent", func(t *testing.T) {
		t.Parallel()
		_, ok := registry.ByID("device_sensor_2")
		assert.False(t, ok)
		_, ok = registry.ByID("device_sensor_3")
		assert.False(t, ok)
		_, ok = registry.ByID("device_sensor_5")
		assert.False(t, ok)
	})
}

func TestRegistryControlsReturnsCopy(t *testing.T) {
	t.Parallel()

	registry := buildRegistry(&CentralUnit{}, []sectionStatePair{{Section: 1}}, nil)
	controls := registry.Controls()
	controls[0] = nil

	assert.NotNil(t, registry.Controls()[0])
}
