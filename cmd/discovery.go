// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.bug.st/serial/enumerator"

	"github.com/Thermoquad/intergastat/pkg/pcinterface"
)

var (
	discoveryProbe bool
)

var discoveryCmd = &cobra.Command{
	Use:   "discovery",
	Short: "List serial ports and find the one the boiler answers on",
	Long: `Enumerate serial ports and optionally probe each with a status query.

Without --probe the ports are only listed. With --probe every port is opened
at the configured baud rate and sent one query; ports returning a decodable
frame are reported as boiler PC interfaces.

Examples:
  # List ports
  intergastat discovery

  # Find the PC interface adapter
  intergastat discovery --probe

Exit codes:
  0 - Discovery successful (at least one port found, or a boiler when probing)
  1 - Nothing found
  2 - Port enumeration failed`,
	RunE: runDiscovery,
}

func init() {
	rootCmd.AddCommand(discoveryCmd)
	discoveryCmd.Flags().BoolVar(&discoveryProbe, "probe", false, "Send a status query on each port")
}

func runDiscovery(cmd *cobra.Command, args []string) error {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Port enumeration failed: %v\n", err)
		os.Exit(2)
	}

	fmt.Printf("Intergastat - Port Discovery\n")
	fmt.Printf("Ports found: %d\n\n", len(ports))

	found := 0
	for _, port := range ports {
		fmt.Printf("%s\n", port.Name)
		if port.IsUSB {
			fmt.Printf("  USB: %s:%s %s (serial %s)\n", port.VID, port.PID, port.Product, port.SerialNumber)
		}

		if !discoveryProbe {
			continue
		}

		status, err := probePort(port.Name)
		if err != nil {
			fmt.Printf("  Probe: no boiler (%v)\n", err)
			continue
		}
		fmt.Printf("  Probe: boiler found, status %q\n", status)
		found++
	}

	fmt.Printf("\n--- Discovery summary ---\n")
	if !discoveryProbe {
		if len(ports) == 0 {
			os.Exit(1)
		}
		return nil
	}

	fmt.Printf("Boilers found: %d\n", found)
	if found == 0 {
		fmt.Printf("No boiler answered. Check the PC interface cable and baud rate.\n")
		os.Exit(1)
	}
	return nil
}

// probePort sends one query on portName and returns the decoded status label
func probePort(portName string) (string, error) {
	link, err := pcinterface.OpenSerial(portName, cfg.Serial.Baud, cfg.Serial.Timeout)
	if err != nil {
		return "", err
	}
	client := pcinterface.NewClient(link, cfg.Serial.Timeout)
	defer client.Close()

	tel, _, err := client.Read(context.Background())
	if err != nil {
		return "", err
	}
	return tel.StatusLabel(), nil
}
