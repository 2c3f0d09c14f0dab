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
	"context"
	"io"
	"time"
)

// pollLoop continuously reads status chunks and keeps the store current. It
// only ever exits through the stop signal: read failures flip availability,
// back off and retry.
func (c *Client) pollLoop(ctx context.Context, reader io.ReadCloser) error {
	buf := make([]byte, packetReadSize)

	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := reader.Read(buf)
		if ctx.Err() != nil {
			// Woken by shutdown, possibly via the dummy query packet.
			return nil
		}

		if err != nil || n == 0 {
			if err != nil {
				Warnf("read failed on %s: %v", c.transport.Path(), err)
			} else {
				Warnf("empty read on %s", c.transport.Path())
			}
			c.setAvailable(false)

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.cfg.Timing.ReadBackoff):
			}
			continue
		}

		c.markActivity()
		c.setAvailable(true)

		Debugf("rx % x", buf[:n])
		c.dispatch(buf[:n])
	}
}

// dispatch routes one inbound chunk by its prefix. Unrecognized prefixes are
// not an error; the line carries plenty of traffic this driver does not
// model.
func (c *Client) dispatch(packet []byte) {
	switch {
	case bytes.HasPrefix(packet, prefixSectionStates):
		c.applySectionStates(packet)
	case isDeviceStatePacket(packet):
		c.applyDeviceState(packet)
	case packet[0] == prefixDeviceSummary:
		c.applyDeviceSummary(packet)
	}
}

func (c *Client) applySectionStates(packet []byte) {
	for _, pair := range parseSectionStates(packet) {
		status := parseSectionStatus(pair.State)
		c.store.set(sectionAlarmID(pair.Section), status.alarmState())
		c.store.set(sectionProblemID(pair.Section), status.problemState())
	}
}

func (c *Client) applyDeviceState(packet []byte) {
	if len(packet) < 6 {
		Warnf("short device state packet: % x", packet)
		return
	}

	number := deviceNumberFromStatePacket(packet)
	c.store.set(deviceProblemID(number), deviceProblemState(c.cfg.FaultCodes, packet[2]))

	state, ok := deviceStateFromCode(number, packet[3])
	if !ok {
		Warnf("unknown device state packet: % x", packet)
		return
	}
	c.store.set(deviceSensorID(number), state)
}

func (c *Client) applyDeviceSummary(packet []byte) {
	if len(packet) < 4 {
		Warnf("short device summary packet: % x", packet)
		return
	}

	// Byte 1 is the offset to the trailing single-device packet; the
	// bit-vector occupies everything between the header and that offset.
	end := int(packet[1]) + 2
	if end <= 3 || end > len(packet) {
		Warnf("malformed device summary packet: % x", packet)
		return
	}

	bits := decodeDeviceBits(packet[3:end])

	if end < len(packet) && isDeviceStatePacket(packet[end:]) {
		c.applyDeviceState(packet[end:])
	}

	for number := 1; number <= len(c.cfg.Devices) && number < len(bits); number++ {
		state := StateOff
		if bits[number] {
			state = StateOn
		}
		c.store.set(deviceSensorID(number), state)
	}
}

// keepaliveLoop keeps the link supervised. Each tick it checks whether any
// packet arrived within the silence window and, if not, sends the keepalive
// for the current position in the 60-tick cycle. Send failures are logged
// and otherwise ignored.
func (c *Client) keepaliveLoop(ctx context.Context) error {
	ticker := time.NewTicker(c.cfg.Timing.KeepaliveInterval)
	defer ticker.Stop()

	tick := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if c.sinceActivity() >= c.cfg.Timing.SilenceWindow {
			if err := c.sendKeepalive(tick); err != nil {
				Warnf("keepalive write failed: %v", err)
			}
		}

		tick++
		if tick == keepaliveCycleLength {
			tick = 0
		}
	}
}

func (c *Client) sendKeepalive(tick int) error {
	if tick != 0 {
		return c.transport.WritePacket(packetStatusProbe)
	}

	packet, err := encodeCodePacket(c.smallUnit, c.cfg.Code)
	if err != nil {
		return err
	}
	packet = append(packet, packetStatusRequest...)
	return c.transport.WritePacket(packet)
}

func (c *Client) markActivity() {
	c.lastActivity.Store(time.Now().UnixNano())
}

func (c *Client) sinceActivity() time.Duration {
	return time.Duration(time.Now().UnixNano() - c.lastActivity.Load())
}

// setAvailable records link health. Transitions broadcast to every listener
// so hosts can reflect availability immediately.
func (c *Client) setAvailable(available bool) {
	if c.available.Swap(available) != available {
		c.store.notifyAll()
	}
}
