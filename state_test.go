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
)

func TestParseSectionStatus(t *testing.T) {
	t.Parallel()

	status := parseSectionStatus([2]byte{0x23, 0x01})
	assert.Equal(t, 3, status.primary)
	assert.Equal(t, 2, status.secondary)
	assert.Equal(t, 1, status.tertiary)
}

func TestAlarmState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		raw   [2]byte
		state State
	}{
		{"ArmingWinsOverArmed", [2]byte{0x83, 0x00}, StateArming},
		{"Pending", [2]byte{0x41, 0x00}, StatePending},
		{"TriggeredSecondary", [2]byte{0x11, 0x00}, StateTriggered},
		{"TriggeredTertiary", [2]byte{0x03, 0x01}, StateTriggered},
		{"ArmedAway", [2]byte{0x03, 0x00}, StateArmedAway},
		{"ArmedAwayWithProblem", [2]byte{0x23, 0x00}, StateArmedAway},
		{"ArmedNight", [2]byte{0x02, 0x00}, StateArmedNight},
		{"Disarmed", [2]byte{0x01, 0x00}, StateDisarmed},
		{"DisarmedWithProblem", [2]byte{0x21, 0x00}, StateDisarmed},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.state, parseSectionStatus(tt.raw).alarmState())
		})
	}
}

func TestProblemState(t *testing.T) {
	t.Parallel()

	assert.Equal(t, StateOn, parseSectionStatus([2]byte{0x23, 0x00}).problemState())
	assert.Equal(t, StateOff, parseSectionStatus([2]byte{0x03, 0x00}).problemState())
	assert.Equal(t, StateOff, parseSectionStatus([2]byte{0x11, 0x00}).problemState())
}

func TestDeviceStateFromCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		device int
		raw    byte
		state  State
		known  bool
	}{
		{"DeviceOneOn", 1, 108, StateOn, true},
		{"DeviceOneOnAlt", 1, 109, StateOn, true},
		{"DeviceOneOff", 1, 110, StateOff, true},
		{"DeviceOneUnknown", 1, 50, "", false},
		{"Device32On", 32, 232, StateOn, true},
		{"Device40FoldsBack", 40, 8, StateOn, true},
		{"Device40Off", 40, 10, StateOff, true},
		{"Device96Off", 96, 234, StateOff, true},
		{"Device97Unknown", 97, 104, "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			state, known := deviceStateFromCode(tt.device, tt.raw)
			assert.Equal(t, tt.known, known)
			if tt.known {
				assert.Equal(t, tt.state, state)
			}
		})
	}
}

func TestDeviceProblemState(t *testing.T) {
	t.Parallel()

	codes := DefaultFaultCodes()
	assert.Equal(t, StateOn, deviceProblemState(codes, 0x05))
	assert.Equal(t, StateOn, deviceProblemState(codes, 0xa8))
	assert.Equal(t, StateOff, deviceProblemState(codes, 0x00))
	assert.Equal(t, StateOff, deviceProblemState(codes, 0x07))

	custom := []byte{0x42}
	assert.Equal(t, StateOn, deviceProblemState(custom, 0x42))
	assert.Equal(t, StateOff, deviceProblemState(custom, 0x05))
}
