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
	"errors"

	"golang.org/x/sys/unix"
)

// errnoHint maps the errnos seen when opening bad device paths to a short
// description. Returns "" for anything unrecognized.
func errnoHint(err error) string {
	switch {
	case errors.Is(err, unix.ENOENT):
		return "no such device"
	case errors.Is(err, unix.EACCES):
		return "permission denied"
	case errors.Is(err, unix.EISDIR):
		return "path is a directory"
	case errors.Is(err, unix.ENXIO):
		return "device not configured"
	case errors.Is(err, unix.EBUSY):
		return "port busy"
	default:
		return ""
	}
}
