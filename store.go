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
	"github.com/jablonet/go-jablotron/internal/syncutil"
)

// Listener receives change notifications for one control id.
type Listener func(id string, state State)

// Store is the authoritative mapping from control id to current semantic
// state. It is owned by the Client, seeded during initialization and mutated
// in place by the poll loop and by acknowledged command effects.
type Store struct {
	states    map[string]State
	listeners map[string]Listener
	mu        syncutil.RWMutex
}

func newStore() *Store {
	return &Store{
		states:    make(map[string]State),
		listeners: make(map[string]Listener),
	}
}

// seed installs an initial state without notifying listeners.
func (s *Store) seed(id string, state State) {
	s.mu.Lock()
	s.states[id] = state
	s.mu.Unlock()
}

// set updates one control's state. Setting the value it already holds is a
// no-op: the listener fires once per change, not once per packet.
func (s *Store) set(id string, state State) {
	s.mu.Lock()
	if current, ok := s.states[id]; ok && current == state {
		s.mu.Unlock()
		return
	}
	s.states[id] = state
	listener := s.listeners[id]
	s.mu.Unlock()

	// Listeners run outside the lock so they may call back into the store.
	if listener != nil {
		listener(id, state)
	}
}

// State returns the current state for a control id.
func (s *Store) State(id string) (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[id]
	return state, ok
}

// States returns a copy of the full state mapping.
func (s *Store) States() map[string]State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]State, len(s.states))
	for id, state := range s.states {
		out[id] = state
	}
	return out
}

// subscribe registers the listener for a control id, replacing any previous
// one.
func (s *Store) subscribe(id string, listener Listener) {
	s.mu.Lock()
	s.listeners[id] = listener
	s.mu.Unlock()
}

// notifyAll invokes every listener with its control's current state. Used
// when something other than a single state changed, such as an availability
// flip.
func (s *Store) notifyAll() {
	type call struct {
		listener Listener
		id       string
		state    State
	}

	s.mu.RLock()
	calls := make([]call, 0, len(s.listeners))
	for id, listener := range s.listeners {
		calls = append(calls, call{listener, id, s.states[id]})
	}
	s.mu.RUnlock()

	for _, c := range calls {
		c.listener(c.id, c.state)
	}
}
