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

//go:build unix

package serialport

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestErrnoHint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		hint string
	}{
		{"NoEntry", unix.ENOENT, "no such device"},
		{"Access", unix.EACCES, "permission denied"},
		{"IsDir", unix.EISDIR, "path is a directory"},
		{"NotConfigured", unix.ENXIO, "device not configured"},
		{"Busy", unix.EBUSY, "port busy"},
		{"Wrapped", fmt.Errorf("open: %w", unix.EACCES), "permission denied"},
		{"Unknown", fmt.Errorf("something else"), ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.hint, errnoHint(tt.err))
		})
	}
}
