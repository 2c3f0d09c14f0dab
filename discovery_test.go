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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastTiming shrinks the loop periods so discovery tests finish in
// milliseconds instead of seconds.
func fastTiming() Timing {
	return Timing{
		DiscoveryTimeout:  500 * time.Millisecond,
		QueryInterval:     5 * time.Millisecond,
		ReadBackoff:       5 * time.Millisecond,
		KeepaliveInterval: 50 * time.Millisecond,
		SilenceWindow:     5 * time.Millisecond,
	}
}

// infoPacket builds a `40` identity reply carrying one NUL-terminated field.
func infoPacket(field byte, value string) []byte {
	packet := []byte{prefixInfo, 0x0a, field}
	packet = append(packet, value...)
	return append(packet, 0x00)
}

func newDiscoveryClient(t *testing.T, mock *MockTransport, timing Timing) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Timing = timing
	client, err := New(mock, cfg)
	require.NoError(t, err)
	return client
}

func TestDetectCentralUnit(t *testing.T) {
	t.Parallel()

	t.Run("FieldsInAnyOrder", func(t *testing.T) {
		t.Parallel()
		mock := NewMockTransport()
		mock.QueuePacket(infoPacket(infoFieldFirmwareVersion, "MD-2.1"))
		mock.QueuePacket([]byte{0x52, 0x01, 0x02}) // unrelated traffic
		mock.QueuePacket(infoPacket(infoFieldHardwareVersion, "LT-1.0"))
		mock.QueuePacket(infoPacket(infoFieldModel, "JA-103"))

		client := newDiscoveryClient(t, mock, fastTiming())
		central, err := client.detectCentralUnit(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "JA-103", central.Model)
		assert.Equal(t, "LT-1.0", central.HardwareVersion)
		assert.Equal(t, "MD-2.1", central.FirmwareVersion)
		assert.Equal(t, "mock", central.SerialPort)

		writes := mock.Writes()
		require.NotEmpty(t, writes)
		assert.Equal(t, PacketGetInfo, writes[0])
	})

	t.Run("SilentLine", func(t *testing.T) {
		t.Parallel()
		mock := NewMockTransport()
		timing := fastTiming()
		timing.DiscoveryTimeout = 50 * time.Millisecond

		client := newDiscoveryClient(t, mock, timing)
		_, err := client.detectCentralUnit(context.Background())
		assert.ErrorIs(t, err, ErrModelNotDetected)
	})

	t.Run("PartialIdentityTimesOut", func(t *testing.T) {
		t.Parallel()
		mock := NewMockTransport()
		mock.QueuePacket(infoPacket(infoFieldModel, "JA-103"))
		timing := fastTiming()
		timing.DiscoveryTimeout = 50 * time.Millisecond

		client := newDiscoveryClient(t, mock, timing)
		_, err := client.detectCentralUnit(context.Background())
		assert.ErrorIs(t, err, ErrServiceUnavailable)
		assert.NotErrorIs(t, err, ErrModelNotDetected)
	})

	t.Run("UnsupportedModel", func(t *testing.T) {
		t.Parallel()
		mock := NewMockTransport()
		mock.QueuePacket(infoPacket(infoFieldModel, "JA-80K"))
		mock.QueuePacket(infoPacket(infoFieldHardwareVersion, "LT-1.0"))
		mock.QueuePacket(infoPacket(infoFieldFirmwareVersion, "MD-2.1"))

		client := newDiscoveryClient(t, mock, fastTiming())
		_, err := client.detectCentralUnit(context.Background())
		assert.ErrorIs(t, err, ErrModelNotSupported)
	})

	t.Run("WriteFailure", func(t *testing.T) {
		t.Parallel()
		mock := NewMockTransport()
		mock.SetWriteError(errors.New("line gone"))

		client := newDiscoveryClient(t, mock, fastTiming())
		_, err := client.detectCentralUnit(context.Background())
		assert.ErrorIs(t, err, ErrServiceUnavailable)
	})

	t.Run("GarbledFragmentRetried", func(t *testing.T) {
		t.Parallel()
		mock := NewMockTransport()
		mock.QueuePacket([]byte{prefixInfo, 0x0a, infoFieldModel, 0xfe, 0xff})
		mock.QueuePacket(infoPacket(infoFieldModel, "JA-101"))
		mock.QueuePacket(infoPacket(infoFieldHardwareVersion, "LT-1.0"))
		mock.QueuePacket(infoPacket(infoFieldFirmwareVersion, "MD-2.1"))

		client := newDiscoveryClient(t, mock, fastTiming())
		central, err := client.detectCentralUnit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "JA-101", central.Model)
	})

	t.Run("QueriesStopAfterCompletion", func(t *testing.T) {
		t.Parallel()
		mock := NewMockTransport()
		mock.QueuePacket(infoPacket(infoFieldModel, "JA-107"))
		mock.QueuePacket(infoPacket(infoFieldHardwareVersion, "LT-1.0"))
		mock.QueuePacket(infoPacket(infoFieldFirmwareVersion, "MD-2.1"))

		client := newDiscoveryClient(t, mock, fastTiming())
		_, err := client.detectCentralUnit(context.Background())
		require.NoError(t, err)

		count := mock.WriteCount()
		time.Sleep(25 * time.Millisecond)
		assert.Equal(t, count, mock.WriteCount())
	})
}

func TestDetectSections(t *testing.T) {
	t.Parallel()

	t.Run("ReturnsPopulatedSlots", func(t *testing.T) {
		t.Parallel()
		mock := NewMockTransport()
		mock.QueuePacket(sectionStatesPacket([2]byte{0x01, 0x00}, [2]byte{0x03, 0x00}))

		client := newDiscoveryClient(t, mock, fastTiming())
		pairs, err := client.detectSections(context.Background())
		require.NoError(t, err)
		require.Len(t, pairs, 2)
		assert.Equal(t, 1, pairs[0].Section)
		assert.Equal(t, [2]byte{0x03, 0x00}, pairs[1].State)

		writes := mock.Writes()
		require.NotEmpty(t, writes)
		assert.Equal(t, PacketGetSectionStates, writes[0])
	})

	t.Run("Timeout", func(t *testing.T) {
		t.Parallel()
		mock := NewMockTransport()
		timing := fastTiming()
		timing.DiscoveryTimeout = 50 * time.Millisecond

		client := newDiscoveryClient(t, mock, timing)
		_, err := client.detectSections(context.Background())
		assert.ErrorIs(t, err, ErrServiceUnavailable)
	})
}

func TestProbe(t *testing.T) {
	t.Parallel()

	t.Run("SupportedModel", func(t *testing.T) {
		t.Parallel()
		mock := NewMockTransport()
		mock.QueuePacket(infoPacket(infoFieldModel, "JA-101"))

		model, err := Probe(context.Background(), mock)
		require.NoError(t, err)
		assert.Equal(t, "JA-101", model)

		writes := mock.Writes()
		require.NotEmpty(t, writes)
		assert.Equal(t, PacketGetModel, writes[0])
	})

	t.Run("UnsupportedModel", func(t *testing.T) {
		t.Parallel()
		mock := NewMockTransport()
		mock.QueuePacket(infoPacket(infoFieldModel, "JA-63"))

		_, err := Probe(context.Background(), mock)
		assert.ErrorIs(t, err, ErrModelNotSupported)
	})

	t.Run("WriteFailure", func(t *testing.T) {
		t.Parallel()
		mock := NewMockTransport()
		mock.SetWriteError(errors.New("line gone"))

		_, err := Probe(context.Background(), mock)
		assert.ErrorIs(t, err, ErrServiceUnavailable)
	})
}
