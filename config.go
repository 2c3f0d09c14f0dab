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
	"time"
)

// keepaliveCycleLength is the number of keepalive ticks per cycle. Tick zero
// sends the access-code packet with a status request; every other tick sends
// the bare status probe.
const keepaliveCycleLength = 60

// Timing holds the loop periods of the driver. Production code should keep
// the defaults; tests shrink them to run at millisecond scale.
type Timing struct {
	// DiscoveryTimeout bounds each discovery handshake.
	DiscoveryTimeout time.Duration
	// QueryInterval is the delay between repeated discovery queries.
	QueryInterval time.Duration
	// ReadBackoff is the pause after a failed poll-loop read.
	ReadBackoff time.Duration
	// KeepaliveInterval is the keepalive tick period.
	KeepaliveInterval time.Duration
	// SilenceWindow is how long the line may be quiet before a keepalive
	// tick actually sends.
	SilenceWindow time.Duration
}

// DefaultTiming returns the production loop periods.
func DefaultTiming() Timing {
	return Timing{
		DiscoveryTimeout:  10 * time.Second,
		QueryInterval:     time.Second,
		ReadBackoff:       500 * time.Millisecond,
		KeepaliveInterval: time.Second,
		SilenceWindow:     500 * time.Millisecond,
	}
}

// Config is the static host-supplied configuration of one installation.
type Config struct {
	// Code is the access code used for arm/disarm commands and keepalives
	// when the caller supplies no override.
	Code string
	// Devices lists the configured device types in device-number order;
	// device N is Devices[N-1]. Keypad, siren and other entries are
	// excluded from state tracking.
	Devices []DeviceType
	// FaultCodes overrides the device fault heuristic. Nil selects
	// DefaultFaultCodes.
	FaultCodes []byte
	// Timing overrides the loop periods. Zero fields select defaults.
	Timing Timing
	// RequireCodeToArm tells hosts to prompt for a code before arming.
	RequireCodeToArm bool
	// RequireCodeToDisarm tells hosts to prompt for a code before
	// disarming.
	RequireCodeToDisarm bool
}

// DefaultConfig returns a configuration with the documented defaults:
// arming needs no code, disarming does.
func DefaultConfig() *Config {
	return &Config{
		RequireCodeToArm:    false,
		RequireCodeToDisarm: true,
		FaultCodes:          DefaultFaultCodes(),
		Timing:              DefaultTiming(),
	}
}

// normalize fills zero values with defaults and validates the rest.
func (c *Config) normalize() error {
	if len(c.Devices) > maxDevices {
		return fmt.Errorf("%d devices configured, protocol addresses at most %d", len(c.Devices), maxDevices)
	}
	for _, r := range c.Code {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: %q", ErrInvalidCode, c.Code)
		}
	}

	if c.FaultCodes == nil {
		c.FaultCodes = DefaultFaultCodes()
	}

	defaults := DefaultTiming()
	if c.Timing.DiscoveryTimeout <= 0 {
		c.Timing.DiscoveryTimeout = defaults.DiscoveryTimeout
	}
	if c.Timing.QueryInterval <= 0 {
		c.Timing.QueryInterval = defaults.QueryInterval
	}
	if c.Timing.ReadBackoff <= 0 {
		c.Timing.ReadBackoff = defaults.ReadBackoff
	}
	if c.Timing.KeepaliveInterval <= 0 {
		c.Timing.KeepaliveInterval = defaults.KeepaliveInterval
	}
	if c.Timing.SilenceWindow <= 0 {
		c.Timing.SilenceWindow = defaults.SilenceWindow
	}

	return nil
}
