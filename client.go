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
	"io"
	"sync/atomic"

	"github.com/jablonet/go-jablotron/internal/syncutil"
	"golang.org/x/sync/errgroup"
)

// Client drives one central unit over one serial link. Construct it with
// New, bring it up with Initialize and tear it down with Shutdown.
type Client struct {
	cfg       *Config
	transport Transport
	central   *CentralUnit
	registry  *Registry
	store     *Store

	cancel context.CancelFunc
	group  *errgroup.Group
	reader io.ReadCloser

	lastActivity atomic.Int64
	available    atomic.Bool
	running      atomic.Bool
	smallUnit    bool

	mu syncutil.Mutex
}

// New creates a client for the given transport. A nil config selects
// DefaultConfig.
func New(transport Transport, cfg *Config) (*Client, error) {
	if transport == nil {
		return nil, errors.New("transport is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return &Client{
		cfg:       cfg,
		transport: transport,
		store:     newStore(),
	}, nil
}

// Initialize discovers the central unit and its sections, builds the entity
// registry, seeds the state store and starts the poll and keepalive tasks.
// On any error no background task is left running and nothing is
// subscribable.
func (c *Client) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running.Load() {
		return ErrAlreadyInitialized
	}

	central, err := c.detectCentralUnit(ctx)
	if err != nil {
		return err
	}
	c.central = central
	c.smallUnit = smallUnitModels.MatchString(central.Model)

	sections, err := c.detectSections(ctx)
	if err != nil {
		return err
	}

	c.registry = buildRegistry(central, sections, c.cfg.Devices)

	for _, pair := range sections {
		status := parseSectionStatus(pair.State)
		c.store.seed(sectionAlarmID(pair.Section), status.alarmState())
		c.store.seed(sectionProblemID(pair.Section), status.problemState())
	}
	for _, control := range c.registry.Controls() {
		if control.Kind == KindDeviceSensor || control.Kind == KindDeviceProblem {
			c.store.seed(control.ID, StateOff)
		}
	}

	reader, err := c.transport.OpenReader()
	if err != nil {
		return serviceUnavailable(err)
	}
	c.reader = reader

	runCtx, cancel := context.WithCancel(context.Background())
	group, groupCtx := errgroup.WithContext(runCtx)
	c.cancel = cancel
	c.group = group

	c.markActivity()
	group.Go(func() error { return c.pollLoop(groupCtx, reader) })
	group.Go(func() error { return c.keepaliveLoop(groupCtx) })

	c.available.Store(true)
	c.running.Store(true)
	return nil
}

// Shutdown raises the stop signal, wakes the blocked poll reader and joins
// both background tasks.
func (c *Client) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running.Load() {
		return ErrNotInitialized
	}

	c.cancel()

	// A task blocked on a silent line needs traffic to wake up and observe
	// the stop signal.
	if err := c.transport.WritePacket(PacketGetSectionStates); err != nil {
		Debugf("shutdown wake write failed: %v", err)
	}
	_ = c.reader.Close()

	err := c.group.Wait()
	c.running.Store(false)
	c.available.Store(false)
	return err
}

// CentralUnit returns the discovered controller identity, or nil before
// Initialize.
func (c *Client) CentralUnit() *CentralUnit {
	return c.central
}

// Controls returns the full entity registry, or nil before Initialize.
func (c *Client) Controls() []*Control {
	if c.registry == nil {
		return nil
	}
	return c.registry.Controls()
}

// Subscribe registers a listener invoked whenever the control's state
// changes. One listener per control id; subscribing again replaces it.
func (c *Client) Subscribe(id string, listener Listener) error {
	if c.registry == nil {
		return ErrNotInitialized
	}
	if _, ok := c.registry.ByID(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownControl, id)
	}
	c.store.subscribe(id, listener)
	return nil
}

// State returns the current state for a control id.
func (c *Client) State(id string) (State, bool) {
	return c.store.State(id)
}

// States returns a copy of the full state mapping.
func (c *Client) States() map[string]State {
	return c.store.States()
}

// Available reports whether the last poll-loop update succeeded.
func (c *Client) Available() bool {
	return c.available.Load()
}

// CodeRequiredForArm reports whether hosts should prompt for an access code
// before arming.
func (c *Client) CodeRequiredForArm() bool {
	return c.cfg.RequireCodeToArm
}

// CodeRequiredForDisarm reports whether hosts should prompt for an access
// code before disarming.
func (c *Client) CodeRequiredForDisarm() bool {
	return c.cfg.RequireCodeToDisarm
}

// SetSectionState encodes and sends the arm/disarm command for one section.
// An empty code selects the configured access code. The call does not wait
// for confirmation; the effect is observed asynchronously through the poll
// loop.
func (c *Client) SetSectionState(section int, state State, code string) error {
	if !c.running.Load() {
		return ErrNotInitialized
	}
	if _, ok := c.registry.ByID(sectionAlarmID(section)); !ok {
		return fmt.Errorf("%w: section %d", ErrUnknownControl, section)
	}

	if code == "" {
		code = c.cfg.Code
	}

	packet, err := encodeCodePacket(c.smallUnit, code)
	if err != nil {
		return err
	}
	command, err := encodeSectionCommand(state, section)
	if err != nil {
		return err
	}

	return c.transport.WritePacket(append(packet, command...))
}
