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

// Package jablotron implements a driver for the serial-line protocol spoken
// by Jablotron JA-10x security central units (JA-101, JA-103, JA-106 and
// JA-107 families).
//
// The driver discovers the attached central unit and its configured alarm
// sections, keeps a state store current by continuously decoding status
// traffic, and encodes outbound arm/disarm and keepalive commands. Host
// applications consume it through a narrow surface: Client.Subscribe for
// change notification, Client.State/States for reads and
// Client.SetSectionState for commands.
//
// Communication with real hardware goes through the Transport interface;
// the transport/serialport package provides the serial implementation.
package jablotron
