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
	"io"
	"sync"
	"time"
)

// Transport is the half-duplex byte-stream access to the serial line. The
// transport/serialport package implements it for real hardware.
//
// WritePacket is a complete unit of mutual exclusion: it opens the line,
// writes the full buffer, holds the line open long enough for the controller
// to consume it and closes again. Concurrent writes must not interleave.
//
// OpenReader opens the line for input. The returned reader yields chunks of
// up to 64 bytes per Read and its Close unblocks a Read in progress. Readers
// and writers never share a handle, so a write during a blocking read is
// permitted.
type Transport interface {
	WritePacket(packet []byte) error
	OpenReader() (io.ReadCloser, error)
	Path() string
}

// MockTransport provides a scriptable in-memory Transport for tests.
type MockTransport struct {
	incoming   chan []byte
	writes     [][]byte
	onWrite    func(packet []byte)
	writeErr   error
	openErr    error
	writeDelay time.Duration
	mu         sync.Mutex
}

// NewMockTransport creates a mock transport with room for a scripted backlog
// of inbound packets.
func NewMockTransport() *MockTransport {
	return &MockTransport{
		incoming: make(chan []byte, 256),
	}
}

// WritePacket implements Transport. It records the packet and invokes the
// configured write handler, if any.
func (m *MockTransport) WritePacket(packet []byte) error {
	m.mu.Lock()
	err := m.writeErr
	onWrite := m.onWrite
	delay := m.writeDelay
	if err == nil {
		buf := make([]byte, len(packet))
		copy(buf, packet)
		m.writes = append(m.writes, buf)
	}
	m.mu.Unlock()

	if err != nil {
		return err
	}
	if delay > 0 {
		time.Sleep(delay)
	}
	if onWrite != nil {
		onWrite(packet)
	}
	return nil
}

// OpenReader implements Transport. All readers share the scripted inbound
// queue.
func (m *MockTransport) OpenReader() (io.ReadCloser, error) {
	m.mu.Lock()
	err := m.openErr
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &mockReader{incoming: m.incoming, done: make(chan struct{})}, nil
}

// Path implements Transport.
func (*MockTransport) Path() string {
	return "mock"
}

// QueuePacket schedules an inbound packet for the next Read. Queueing nil
// makes the next Read return an empty chunk, which the poll loop treats as a
// dead line.
func (m *MockTransport) QueuePacket(packet []byte) {
	if packet == nil {
		m.incoming <- nil
		return
	}
	buf := make([]byte, len(packet))
	copy(buf, packet)
	m.incoming <- buf
}

// SetWriteError makes subsequent writes fail with err. Pass nil to clear.
func (m *MockTransport) SetWriteError(err error) {
	m.mu.Lock()
	m.writeErr = err
	m.mu.Unlock()
}

// SetOpenError makes subsequent OpenReader calls fail with err.
func (m *MockTransport) SetOpenError(err error) {
	m.mu.Lock()
	m.openErr = err
	m.mu.Unlock()
}

// SetWriteDelay simulates the settle interval of a real line.
func (m *MockTransport) SetWriteDelay(delay time.Duration) {
	m.mu.Lock()
	m.writeDelay = delay
	m.mu.Unlock()
}

// OnWrite installs a handler invoked after every successful write. Tests use
// it to answer queries with scripted replies.
func (m *MockTransport) OnWrite(handler func(packet []byte)) {
	m.mu.Lock()
	m.onWrite = handler
	m.mu.Unlock()
}

// Writes returns a copy of all packets written so far.
func (m *MockTransport) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.writes))
	copy(out, m.writes)
	return out
}

// WriteCount returns how many packets have been written.
func (m *MockTransport) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.writes)
}

type mockReader struct {
	incoming  chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

var errMockReaderClosed = errors.New("mock reader closed")

func (r *mockReader) Read(p []byte) (int, error) {
	select {
	case <-r.done:
		return 0, errMockReaderClosed
	default:
	}

	select {
	case packet := <-r.incoming:
		if packet == nil {
			return 0, nil
		}
		return copy(p, packet), nil
	case <-r.done:
		return 0, errMockReaderClosed
	}
}

func (r *mockReader) Close() error {
	r.closeOnce.Do(func() { close(r.done) })
	return nil
}
