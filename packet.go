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
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// packetReadSize is the fixed chunk size for reads from the serial line.
// The central unit pads every status packet to at most this length.
const packetReadSize = 64

// maxSections is the highest section number the protocol can report in a
// section-states packet.
const maxSections = 15

// maxDevices is the highest device number addressable by the protocol.
const maxDevices = 120

// Outbound query packets.
var (
	// PacketGetModel asks the central unit for its model string only.
	PacketGetModel = []byte{0x30, 0x01, 0x02}

	// PacketGetInfo asks for the full identity: model, hardware version,
	// firmware version, registration code and installation name. The unit
	// answers each field with a separate info packet.
	PacketGetInfo = []byte{
		0x30, 0x01, 0x02,
		0x30, 0x01, 0x03,
		0x30, 0x01, 0x04,
		0x30, 0x01, 0x05,
		0x30, 0x01, 0x06,
		0x30, 0x01, 0x07,
		0x30, 0x01, 0x08,
		0x30, 0x01, 0x09,
	}

	// PacketGetSectionStates asks for the full section-states table.
	PacketGetSectionStates = []byte{0x80, 0x01, 0x01, 0x52, 0x01, 0x0e}

	// packetStatusProbe is the bare keepalive sent on most ticks of the
	// keepalive cycle.
	packetStatusProbe = []byte{0x52, 0x01, 0x02}

	// packetStatusRequest follows the access-code packet on tick zero of
	// the keepalive cycle.
	packetStatusRequest = []byte{0x52, 0x02, 0x13, 0x05, 0x9a}
)

// Inbound packet prefixes.
var (
	prefixSectionStates       = []byte{0x51, 0x22}
	prefixWiredDeviceState    = []byte{0x55, 0x08}
	prefixWirelessDeviceState = []byte{0x55, 0x09}
)

const (
	prefixInfo          = 0x40
	prefixDeviceSummary = 0xd8
)

// Identity field tags carried in byte 2 of an info packet.
const (
	infoFieldModel            = 0x02
	infoFieldHardwareVersion  = 0x08
	infoFieldFirmwareVersion  = 0x09
	infoFieldRegistrationCode = 0x0a
	infoFieldInstallationName = 0x0b
)

// Arm/disarm action bases. The final command byte is base plus the section
// number.
const (
	actionDisarm   = 143
	actionArmAway  = 159
	actionArmNight = 175
)

// sectionStateSentinel marks the first unused section slot in a
// section-states packet. No sections exist above it.
var sectionStateSentinel = [2]byte{0x07, 0x00}

// errNonASCII reports an identity fragment that is not printable ASCII. The
// field is treated as not yet received and retried on the next packet.
var errNonASCII = errors.New("non-ascii identity fragment")

// decodeInfoString extracts the NUL-terminated ASCII string from an identity
// field payload.
func decodeInfoString(payload []byte) (string, error) {
	end := len(payload)
	if i := bytes.IndexByte(payload, 0x00); i >= 0 {
		end = i
	}
	for _, b := range payload[:end] {
		if b < 0x20 || b > 0x7e {
			return "", errNonASCII
		}
	}
	return string(payload[:end]), nil
}

// sectionStatePair is one raw two-byte section status from a section-states
// packet, before semantic translation.
type sectionStatePair struct {
	Section int
	State   [2]byte
}

// parseSectionStates extracts the populated section slots from a `51 22`
// packet. Enumeration is contiguous from section 1 and stops at the first
// unused-section sentinel.
func parseSectionStates(packet []byte) []sectionStatePair {
	var pairs []sectionStatePair

	for section := 1; section <= maxSections; section++ {
		offset := section * 2
		if offset+2 > len(packet) {
			break
		}

		state := [2]byte{packet[offset], packet[offset+1]}
		if state == sectionStateSentinel {
			break
		}

		pairs = append(pairs, sectionStatePair{Section: section, State: state})
	}

	return pairs
}

// isDeviceStatePacket reports whether the packet carries a single wired or
// wireless device state.
func isDeviceStatePacket(packet []byte) bool {
	return bytes.HasPrefix(packet, prefixWiredDeviceState) ||
		bytes.HasPrefix(packet, prefixWirelessDeviceState)
}

// deviceNumberFromStatePacket extracts the device number from a `55 08` or
// `55 09` packet: the little-endian 16-bit value at bytes 4..5 divided by 64.
func deviceNumberFromStatePacket(packet []byte) int {
	return int(binary.LittleEndian.Uint16(packet[4:6]) / 64)
}

// decodeDeviceBits expands a device bit-vector into per-index flags. The
// bytes form a big-endian unsigned integer whose binary rendering, left
// padded to 8 bits per byte and then reversed, yields one flag per device
// index. Index 0 of the result is unused; device n reads index n.
func decodeDeviceBits(data []byte) []bool {
	bits := make([]bool, len(data)*8)
	for i := range bits {
		// Bit i of the reversed string is bit i of the integer, which
		// lives in byte len-1-i/8 counted from the big end.
		if data[len(data)-1-i/8]&(1<<(i%8)) != 0 {
			bits[i] = true
		}
	}
	return bits
}

// encodeDeviceBits is the inverse of decodeDeviceBits. The flag count must
// be a multiple of 8.
func encodeDeviceBits(bits []bool) ([]byte, error) {
	if len(bits)%8 != 0 {
		return nil, fmt.Errorf("bit-vector length %d is not a multiple of 8", len(bits))
	}
	data := make([]byte, len(bits)/8)
	for i, set := range bits {
		if set {
			data[len(data)-1-i/8] |= 1 << (i % 8)
		}
	}
	return data, nil
}

// encodeCodePacket builds the access-code packet. Small central units
// (JA-101/JA-103) use the short addressing prefix; the rest use the standard
// one. Each code digit is appended ASCII-encoded.
func encodeCodePacket(smallUnit bool, code string) ([]byte, error) {
	var packet []byte
	if smallUnit {
		packet = []byte{0x80, 0x08, 0x03, 0x39, 0x39, 0x39}
	} else {
		packet = []byte{0x80, 0x08, 0x03, 0x30}
	}

	for _, r := range code {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCode, code)
		}
		packet = append(packet, byte(r))
	}

	return packet, nil
}

// encodeSectionCommand builds the arm/disarm command for one section. The
// access-code packet is prepended by the caller.
func encodeSectionCommand(state State, section int) ([]byte, error) {
	if section < 1 || section > maxSections {
		return nil, fmt.Errorf("section %d out of range 1..%d", section, maxSections)
	}

	var base int
	switch state {
	case StateDisarmed:
		base = actionDisarm
	case StateArmedAway:
		base = actionArmAway
	case StateArmedNight:
		base = actionArmNight
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSectionState, state)
	}

	return []byte{0x80, 0x02, 0x0d, byte(base + section)}, nil
}
