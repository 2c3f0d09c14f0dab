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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigNormalize(t *testing.T) {
	t.Parallel()

	t.Run("FillsDefaults", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{}
		require.NoError(t, cfg.normalize())

		assert.Equal(t, DefaultFaultCodes(), cfg.FaultCodes)
		assert.Equal(t, DefaultTiming(), cfg.Timing)
	})

	t.Run("KeepsOverrides", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{
			FaultCodes: []byte{0x42},
			Timing:     Timing{QueryInterval: 25 * time.Millisecond},
		}
		require.NoError(t, cfg.normalize())

		assert.Equal(t, []byte{0x42}, cfg.FaultCodes)
		assert.Equal(t, 25*time.Millisecond, cfg.Timing.QueryInterval)
		assert.Equal(t, DefaultTiming().ReadBackoff, cfg.Timing.ReadBackoff)
	})

	t.Run("RejectsNonNumericCode", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Code: "12 34"}
		assert.ErrorIs(t, cfg.normalize(), ErrInvalidCode)
	})

	t.Run("AcceptsEmptyCode", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{}
		assert.NoError(t, cfg.normalize())
	})

	t.Run("RejectsTooManyDevices", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Devices: make([]DeviceType, maxDevices+1)}
		assert.Error(t, cfg.normalize())
	})
}
