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

// Package serialport implements the jablotron.Transport interface on a real
// serial line. Central units behave as half-duplex peers that expect each
// command on a freshly opened handle, so every operation opens its own
// handle: writes open, write, settle and close; the poll reader holds one
// read-only handle open for its lifetime.
package serialport

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
	"time"

	jablotron "github.com/jablonet/go-jablotron"
	"go.bug.st/serial"
)

// defaultSettleDelay is how long a write handle stays open after the last
// byte so the central unit can consume the buffer before close.
const defaultSettleDelay = 100 * time.Millisecond

// Transport implements jablotron.Transport for a serial device path.
type Transport struct {
	path    string
	mode    *serial.Mode
	settle  time.Duration
	writeMu sync.Mutex
}

// Option configures a Transport.
type Option func(*Transport)

// WithBaudRate overrides the default 9600 baud. USB CDC units ignore the
// rate entirely; the setting only matters on real RS-232 adapters.
func WithBaudRate(baud int) Option {
	return func(t *Transport) {
		t.mode.BaudRate = baud
	}
}

// WithSettleDelay overrides the post-write settle interval.
func WithSettleDelay(delay time.Duration) Option {
	return func(t *Transport) {
		t.settle = delay
	}
}

// New creates a serial transport for the given device path. The path is not
// opened until the first operation.
func New(path string, opts ...Option) (*Transport, error) {
	if path == "" {
		return nil, errors.New("empty device path")
	}

	t := &Transport{
		path: path,
		mode: &serial.Mode{
			BaudRate: 9600,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		},
		settle: defaultSettleDelay,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Path implements jablotron.Transport.
func (t *Transport) Path() string {
	return t.path
}

// WritePacket implements jablotron.Transport. The write mutex makes the
// whole open-write-settle-close sequence the unit of mutual exclusion.
func (t *Transport) WritePacket(packet []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	port, err := serial.Open(t.path, t.mode)
	if err != nil {
		return t.wrapOpenError("write", err)
	}
	defer func() { _ = port.Close() }()

	if _, err := port.Write(packet); err != nil {
		return &jablotron.TransportError{Op: "write", Port: t.path, Err: err}
	}

	// Give the unit time to consume the buffer before the handle goes
	// away; closing immediately loses commands on some firmware.
	time.Sleep(t.settle)
	return nil
}

// OpenReader implements jablotron.Transport. Reads block until data arrives
// or the handle is closed.
func (t *Transport) OpenReader() (io.ReadCloser, error) {
	port, err := serial.Open(t.path, t.mode)
	if err != nil {
		return nil, t.wrapOpenError("read", err)
	}

	if err := port.SetReadTimeout(serial.NoTimeout); err != nil {
		_ = port.Close()
		return nil, &jablotron.TransportError{Op: "read", Port: t.path, Err: err}
	}

	return port, nil
}

// List returns the serial port paths present on the system.
func List() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}

// wrapOpenError turns an open failure into a TransportError matching
// jablotron.ErrServiceUnavailable, with the failure cause spelled out when
// it can be determined.
func (t *Transport) wrapOpenError(op string, err error) error {
	detail := err
	if hint := t.describeOpenError(err); hint != "" {
		detail = fmt.Errorf("%s: %w", hint, err)
	}

	return &jablotron.TransportError{
		Op:   op,
		Port: t.path,
		Err:  fmt.Errorf("%w: %w", jablotron.ErrServiceUnavailable, detail),
	}
}

func (t *Transport) describeOpenError(err error) string {
	var portErr *serial.PortError
	if errors.As(err, &portErr) {
		switch portErr.Code() {
		case serial.PortNotFound:
			return "port not found"
		case serial.PermissionDenied:
			return "permission denied"
		case serial.PortBusy:
			return "port busy"
		}
		if hint := errnoHint(errors.Unwrap(portErr)); hint != "" {
			return hint
		}
	}

	if hint := errnoHint(err); hint != "" {
		return hint
	}

	// The serial library reports directories and other odd paths as plain
	// invalid ports; a stat tells the difference.
	if info, statErr := os.Stat(t.path); statErr == nil && info.IsDir() {
		return "path is a directory"
	} else if errors.Is(statErr, fs.ErrNotExist) {
		return "no such device"
	}

	return ""
}
