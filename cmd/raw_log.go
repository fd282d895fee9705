// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/intergastat/pkg/intergas"
	"github.com/Thermoquad/intergastat/pkg/pcinterface"
)

var rawLogCmd = &cobra.Command{
	Use:   "raw_log",
	Short: "Display every reply as a hex dump with its decoded values",
	Long: `Continuously poll the controller and display each reply.

Every poll prints the raw bytes received followed by the decoded report.
Short or failed replies are shown with whatever bytes arrived, which helps
diagnose wiring and baud rate problems.

Supports serial, WebSocket and simulated connections.`,
	RunE: runRawLog,
}

func init() {
	rootCmd.AddCommand(rawLogCmd)
}

func runRawLog(cmd *cobra.Command, args []string) error {
	client, connInfo, err := OpenClient()
	if err != nil {
		return err
	}
	defer client.Close()

	fmt.Printf("Intergastat - Raw Frame Log\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Poll interval: %s\n", cfg.Poll.Interval)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	ctx, cancel := signalContext()
	defer cancel()

	poller := pcinterface.NewPoller(client, cfg.Poll.Interval, log)
	return poller.Run(ctx, printRawReading)
}

func printRawReading(r pcinterface.Reading) {
	timestamp := r.Timestamp.Format("15:04:05.000")
	if len(r.Frame) > 0 {
		fmt.Printf("[%s] %d bytes\n", timestamp, len(r.Frame))
		fmt.Print(intergas.FormatFrameHex(r.Frame))
	}

	if r.Err != nil {
		label := "READ ERROR"
		switch {
		case errors.Is(r.Err, pcinterface.ErrShortRead):
			label = "SHORT READ"
		case errors.Is(r.Err, pcinterface.ErrLinkClosed):
			label = "LINK CLOSED"
		}
		fmt.Printf("[%s] \033[1;31m%s:\033[0m %v\n\n", timestamp, label, r.Err)
		return
	}

	fmt.Print(intergas.FormatTelemetry(r.Telemetry, r.Timestamp))
	fmt.Println()
}
