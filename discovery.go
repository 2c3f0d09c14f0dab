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
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"golang.org/x/sync/errgroup"
)

// Supported hardware families. Small units use the short command addressing
// scheme.
var (
	supportedModels = regexp.MustCompile(`^JA-10[1367]`)
	smallUnitModels = regexp.MustCompile(`^JA-10[13]`)
)

// runHandshake performs one bounded discovery exchange: a writer task
// repeats the query until told to stop while a reader task scans inbound
// chunks until scan reports completion. Both tasks are joined before the
// call returns, on every exit path. A blocked read is woken by closing the
// reader handle when the exchange winds down.
func runHandshake(ctx context.Context, transport Transport, query []byte, timing Timing, scan func(chunk []byte) bool) error {
	ctx, cancel := context.WithTimeout(ctx, timing.DiscoveryTimeout)
	defer cancel()

	reader, err := transport.OpenReader()
	if err != nil {
		return serviceUnavailable(err)
	}
	defer func() { _ = reader.Close() }()

	group, gctx := errgroup.WithContext(ctx)

	stopClose := context.AfterFunc(gctx, func() { _ = reader.Close() })
	defer stopClose()

	// Closed by the reader once scan is satisfied, so the writer stops
	// without waiting out the deadline.
	done := make(chan struct{})

	group.Go(func() error {
		for {
			if err := transport.WritePacket(query); err != nil {
				return serviceUnavailable(err)
			}
			select {
			case <-gctx.Done():
				return nil
			case <-done:
				return nil
			case <-time.After(timing.QueryInterval):
			}
		}
	})

	group.Go(func() error {
		buf := make([]byte, packetReadSize)
		for {
			n, err := reader.Read(buf)
			if gctx.Err() != nil {
				return gctx.Err()
			}
			if err != nil {
				return serviceUnavailable(err)
			}
			if n == 0 {
				continue
			}

			Debugf("discovery rx % x", buf[:n])
			if scan(buf[:n]) {
				close(done)
				return nil
			}
		}
	})

	return group.Wait()
}

// detectCentralUnit runs the identity handshake: model, hardware version and
// firmware version, in any order, within the discovery timeout.
func (c *Client) detectCentralUnit(ctx context.Context) (*CentralUnit, error) {
	var model, hardware, firmware string

	err := runHandshake(ctx, c.transport, PacketGetInfo, c.cfg.Timing, func(chunk []byte) bool {
		if len(chunk) < 4 || chunk[0] != prefixInfo {
			return false
		}

		value, err := decodeInfoString(chunk[3:])
		if err != nil {
			// Garbled fragment; the field stays unset and the next
			// retransmit is tried instead.
			return false
		}

		switch chunk[2] {
		case infoFieldModel:
			model = value
		case infoFieldHardwareVersion:
			hardware = value
		case infoFieldFirmwareVersion:
			firmware = value
		}

		return model != "" && hardware != "" && firmware != ""
	})

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		if model == "" {
			return nil, ErrModelNotDetected
		}
		return nil, serviceUnavailable(errors.New("identity discovery timed out"))
	case err != nil:
		return nil, err
	}

	if model == "" || hardware == "" || firmware == "" {
		return nil, fmt.Errorf("%w: identity discovery finished incomplete", ErrShouldNotHappen)
	}

	if !supportedModels.MatchString(model) {
		return nil, fmt.Errorf("model %q: %w", model, ErrModelNotSupported)
	}

	return &CentralUnit{
		SerialPort:      c.transport.Path(),
		Model:           model,
		HardwareVersion: hardware,
		FirmwareVersion: firmware,
	}, nil
}

// detectSections runs the section enumeration handshake and returns the
// populated section slots with their initial raw states.
func (c *Client) detectSections(ctx context.Context) ([]sectionStatePair, error) {
	var (
		pairs []sectionStatePair
		found bool
	)

	err := runHandshake(ctx, c.transport, PacketGetSectionStates, c.cfg.Timing, func(chunk []byte) bool {
		if len(chunk) < 2 || chunk[0] != prefixSectionStates[0] || chunk[1] != prefixSectionStates[1] {
			return false
		}
		pairs = parseSectionStates(chunk)
		found = true
		return true
	})

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return nil, serviceUnavailable(errors.New("section discovery timed out"))
	case err != nil:
		return nil, err
	}

	if !found {
		return nil, fmt.Errorf("%w: section discovery finished incomplete", ErrShouldNotHappen)
	}

	return pairs, nil
}

// Probe checks that a supported central unit answers on the transport and
// returns its model string. It is a lighter handshake than Initialize,
// intended for configuration-time validation of a serial port.
func Probe(ctx context.Context, transport Transport) (string, error) {
	var model string

	timing := DefaultTiming()
	err := runHandshake(ctx, transport, PacketGetModel, timing, func(chunk []byte) bool {
		if len(chunk) < 4 || chunk[0] != prefixInfo || chunk[2] != infoFieldModel {
			return false
		}

		value, err := decodeInfoString(chunk[3:])
		if err != nil {
			return false
		}
		model = value
		return model != ""
	})

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "", ErrModelNotDetected
	case err != nil:
		return "", err
	}

	if model == "" {
		return "", fmt.Errorf("%w: probe finished without a model", ErrShouldNotHappen)
	}

	if !supportedModels.MatchString(model) {
		return "", fmt.Errorf("model %q: %w", model, ErrModelNotSupported)
	}

	return model, nil
}
