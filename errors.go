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
	"errors"
	"fmt"
)

// Discovery errors - raised during Initialize, never during steady-state
// polling.
var (
	// ErrModelNotDetected indicates the central unit never reported a model
	// string before the discovery timeout elapsed.
	ErrModelNotDetected = errors.New("model not detected")

	// ErrModelNotSupported indicates the central unit reported a model that
	// is not one of the supported JA-10x families.
	ErrModelNotSupported = errors.New("model not supported")

	// ErrServiceUnavailable indicates a transport-level failure during
	// discovery: missing device, permission problem, bad path or a generic
	// I/O fault, or a discovery timeout after the model was already known.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrShouldNotHappen indicates an internal invariant was violated, such
	// as a discovery reader finishing without its required fields despite
	// not timing out.
	ErrShouldNotHappen = errors.New("internal invariant violated")
)

// Usage errors - returned for invalid calls into the client API.
var (
	// ErrNotInitialized is returned when an operation requires a successful
	// Initialize first.
	ErrNotInitialized = errors.New("client not initialized")

	// ErrAlreadyInitialized is returned when Initialize is called twice.
	ErrAlreadyInitialized = errors.New("client already initialized")

	// ErrUnknownControl is returned when a control id is not present in the
	// entity registry.
	ErrUnknownControl = errors.New("unknown control id")

	// ErrInvalidCode is returned when an access code contains anything but
	// decimal digits.
	ErrInvalidCode = errors.New("access code must be decimal digits")

	// ErrUnsupportedSectionState is returned when a section is asked to
	// enter a state that has no arm/disarm command.
	ErrUnsupportedSectionState = errors.New("unsupported section state")
)

// TransportError wraps transport-level failures with the operation and port
// they occurred on.
type TransportError struct {
	Err  error
	Op   string
	Port string
}

func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// serviceUnavailable wraps err so that it matches ErrServiceUnavailable while
// keeping the underlying cause in the chain.
func serviceUnavailable(err error) error {
	if err == nil {
		return ErrServiceUnavailable
	}
	if errors.Is(err, ErrServiceUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
}
