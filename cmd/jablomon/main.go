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

// jablomon is a command-line companion for Jablotron JA-10x central units:
// it probes serial ports, dumps the discovered installation, monitors state
// changes and arms or disarms sections.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	jablotron "github.com/jablonet/go-jablotron"
	"github.com/jablonet/go-jablotron/transport/serialport"
	"github.com/spf13/cobra"
)

var (
	flagPort       string
	flagCode       string
	flagDevices    []string
	flagDebug      bool
	flagSessionLog bool
)

func main() {
	root := &cobra.Command{
		Use:           "jablomon",
		Short:         "Monitor and control Jablotron JA-10x central units",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if flagDebug {
				jablotron.SetDebugEnabled(true)
			}
			if flagSessionLog {
				path, err := jablotron.InitSessionLog()
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "session log: %s\n", path)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = jablotron.CloseSessionLog()
		},
	}

	root.PersistentFlags().StringVar(&flagPort, "port", "", "serial device path (e.g. /dev/ttyUSB0)")
	root.PersistentFlags().StringVar(&flagCode, "code", "", "access code for arm/disarm and keepalives")
	root.PersistentFlags().StringSliceVar(&flagDevices, "devices", nil,
		"configured device types in device order (keypad, siren, motion, window, door, garage_door, glass_break, smoke, flood, gas, other)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug output")
	root.PersistentFlags().BoolVar(&flagSessionLog, "session-log", false, "write a session log file")

	root.AddCommand(newPortsCommand())
	root.AddCommand(newProbeCommand())
	root.AddCommand(newInfoCommand())
	root.AddCommand(newMonitorCommand())
	root.AddCommand(newArmCommand())
	root.AddCommand(newDisarmCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newPortsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List serial ports on this system",
		RunE: func(_ *cobra.Command, _ []string) error {
			ports, err := serialport.List()
			if err != nil {
				return err
			}
			for _, port := range ports {
				fmt.Println(port)
			}
			return nil
		},
	}
}

func newProbeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Check that a supported central unit answers on the port",
		RunE: func(cmd *cobra.Command, _ []string) error {
			transport, err := newTransport()
			if err != nil {
				return err
			}
			model, err := jablotron.Probe(cmd.Context(), transport)
			if err != nil {
				return err
			}
			fmt.Printf("model: %s\n", model)
			return nil
		},
	}
}

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the discovered installation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			if err := client.Initialize(cmd.Context()); err != nil {
				return err
			}
			defer shutdown(client)

			unit := client.CentralUnit()
			fmt.Printf("model:    %s\n", unit.Model)
			fmt.Printf("hardware: %s\n", unit.HardwareVersion)
			fmt.Printf("firmware: %s\n", unit.FirmwareVersion)
			fmt.Printf("port:     %s\n", unit.SerialPort)
			fmt.Println()

			for _, control := range client.Controls() {
				state, _ := client.State(control.ID)
				fmt.Printf("%-28s %-36s %s\n", control.ID, control.DisplayName(), state)
			}
			return nil
		},
	}
}

func newMonitorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Print state changes until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			if err := client.Initialize(cmd.Context()); err != nil {
				return err
			}
			defer shutdown(client)

			for _, control := range client.Controls() {
				name := control.DisplayName()
				if err := client.Subscribe(control.ID, func(id string, state jablotron.State) {
					available := "up"
					if !client.Available() {
						available = "down"
					}
					fmt.Printf("[%s] %s (%s) -> %s\n", available, id, name, state)
				}); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			fmt.Println("monitoring, ctrl-c to stop")
			<-ctx.Done()
			return nil
		},
	}
}

func newArmCommand() *cobra.Command {
	var section int
	var mode string
	var code string

	cmd := &cobra.Command{
		Use:   "arm",
		Short: "Arm a section",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var state jablotron.State
			switch mode {
			case "away":
				state = jablotron.StateArmedAway
			case "night":
				state = jablotron.StateArmedNight
			default:
				return fmt.Errorf("unknown arm mode %q (away or night)", mode)
			}
			return sendSectionCommand(cmd.Context(), section, state, code)
		},
	}
	cmd.Flags().IntVar(&section, "section", 1, "section number")
	cmd.Flags().StringVar(&mode, "mode", "away", "arm mode: away or night")
	cmd.Flags().StringVar(&code, "override-code", "", "access code override for this command")
	return cmd
}

func newDisarmCommand() *cobra.Command {
	var section int
	var code string

	cmd := &cobra.Command{
		Use:   "disarm",
		Short: "Disarm a section",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sendSectionCommand(cmd.Context(), section, jablotron.StateDisarmed, code)
		},
	}
	cmd.Flags().IntVar(&section, "section", 1, "section number")
	cmd.Flags().StringVar(&code, "override-code", "", "access code override for this command")
	return cmd
}

func sendSectionCommand(ctx context.Context, section int, state jablotron.State, code string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	if err := client.Initialize(ctx); err != nil {
		return err
	}
	defer shutdown(client)

	if err := client.SetSectionState(section, state, code); err != nil {
		return err
	}
	fmt.Printf("section %d -> %s sent\n", section, state)
	return nil
}

func newTransport() (jablotron.Transport, error) {
	if flagPort == "" {
		return nil, fmt.Errorf("--port is required")
	}
	return serialport.New(flagPort)
}

func newClient() (*jablotron.Client, error) {
	transport, err := newTransport()
	if err != nil {
		return nil, err
	}

	cfg := jablotron.DefaultConfig()
	cfg.Code = flagCode
	for _, raw := range flagDevices {
		cfg.Devices = append(cfg.Devices, jablotron.DeviceType(strings.TrimSpace(raw)))
	}

	return jablotron.New(transport, cfg)
}

func shutdown(client *jablotron.Client) {
	if err := client.Shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}
}
