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

// State is the semantic state of a control. Alarm sections take the alarm
// values; device and problem sensors take on/off.
type State string

// Alarm section states.
const (
	StateDisarmed   State = "disarmed"
	StateArming     State = "arming"
	StatePending    State = "pending"
	StateTriggered  State = "triggered"
	StateArmedAway  State = "armed_away"
	StateArmedNight State = "armed_night"
)

// Sensor states.
const (
	StateOn  State = "on"
	StateOff State = "off"
)

// Primary section state field values.
const (
	primaryDisarmed       = 1
	primaryArmedPartially = 2
	primaryArmedFull      = 3
)

// Secondary section state field values.
const (
	secondaryOK        = 0
	secondaryTriggered = 1
	secondaryProblem   = 2
	secondaryPending   = 4
	secondaryArming    = 8
)

// Tertiary section state field values.
const (
	tertiaryOff = 0
	tertiaryOn  = 1
)

// strangeStateRemap, when enabled, rewrites a 0x1b status byte to 0x13
// before field extraction. Field captures hint that some units emit 0x1b for
// a pending-style state, but the remap has never been confirmed to fire on
// real hardware, so it stays off.
// TODO: capture a 0x1b section status from a live JA-103 to confirm the remap.
const strangeStateRemap = false

// sectionStatus is the decoded three-field status of one section.
type sectionStatus struct {
	primary   int
	secondary int
	tertiary  int
}

// parseSectionStatus unpacks a raw two-byte section state. The first byte
// carries the primary field in its low nibble and the secondary field in its
// high nibble; the second byte is the tertiary field.
func parseSectionStatus(state [2]byte) sectionStatus {
	b := state[0]
	if strangeStateRemap && b == 0x1b {
		b = 0x13
	}

	return sectionStatus{
		primary:   int(b % 16),
		secondary: int(b / 16),
		tertiary:  int(state[1]),
	}
}

// alarmState translates a section status into the externally visible alarm
// state. Rules are evaluated in order; the first match wins.
func (s sectionStatus) alarmState() State {
	switch {
	case s.secondary == secondaryArming:
		return StateArming
	case s.secondary == secondaryPending:
		return StatePending
	case s.secondary == secondaryTriggered:
		return StateTriggered
	case s.primary == primaryArmedFull && s.tertiary == tertiaryOn:
		return StateTriggered
	case s.primary == primaryArmedFull:
		return StateArmedAway
	case s.primary == primaryArmedPartially:
		return StateArmedNight
	default:
		return StateDisarmed
	}
}

// problemState translates a section status into its problem sensor state.
func (s sectionStatus) problemState() State {
	if s.secondary == secondaryProblem {
		return StateOn
	}
	return StateOff
}

// deviceStateFromCode translates a raw device state code into on/off. The
// expected code window depends on the device number: numbers above 32 and 96
// fold back into lower windows. Codes outside the window are unknown and the
// second return value is false.
func deviceStateFromCode(deviceNumber int, raw byte) (State, bool) {
	var correction int
	switch {
	case deviceNumber <= 32:
		correction = 0
	case deviceNumber <= 96:
		correction = -64
	default:
		correction = -128
	}

	base := (deviceNumber+correction)*4 + 104

	switch int(raw) {
	case base, base + 1:
		return StateOn, true
	case base + 2:
		return StateOff, true
	default:
		return "", false
	}
}

// DefaultFaultCodes returns the device state codes treated as fault
// indications for device problem sensors. The set is a heuristic with no
// confirmed protocol meaning; override it via Config.FaultCodes.
func DefaultFaultCodes() []byte {
	return []byte{0x05, 0x06, 0x86, 0xa8}
}

// deviceProblemState translates the fault byte of a device state packet into
// the device problem sensor state.
func deviceProblemState(faultCodes []byte, raw byte) State {
	for _, code := range faultCodes {
		if raw == code {
			return StateOn
		}
	}
	return StateOff
}
