// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Thermoquad/intergastat/pkg/intergas"
)

var (
	frameTestTimeout int
)

var frameTestCmd = &cobra.Command{
	Use:   "frame_test",
	Short: "Test the connection by waiting for a valid status frame",
	Long: `Query the controller until a complete, decodable frame is received or the
timeout expires.

Short and missing replies are retried, so a slow-starting bridge or a
controller that misses the first query still passes.

Exit codes:
  0 - Valid frame received before timeout
  1 - Timeout reached without receiving a valid frame
  2 - Connection error

Useful for testing wiring, baud rate and WebSocket bridge connectivity.`,
	RunE: runFrameTest,
}

func init() {
	rootCmd.AddCommand(frameTestCmd)
	frameTestCmd.Flags().IntVar(&frameTestTimeout, "wait", 10, "Seconds to wait for a valid frame")
}

func runFrameTest(cmd *cobra.Command, args []string) error {
	client, connInfo, err := OpenClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer client.Close()

	fmt.Printf("Intergastat - Frame Test\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Timeout: %d seconds\n", frameTestTimeout)
	fmt.Printf("Waiting for valid status frame...\n\n")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(frameTestTimeout)*time.Second)
	defer cancel()

	attempts := 0
	for {
		attempts++
		tel, frame, err := client.Read(ctx)
		if err == nil {
			if attempts > 1 {
				fmt.Printf("(succeeded after %d attempts)\n", attempts)
			}
			fmt.Printf("SUCCESS: Received valid frame\n")
			fmt.Printf("  Length: %d bytes\n", len(frame))
			fmt.Printf("  Status: %s (display code %d)\n", tel.StatusLabel(), tel.DisplayCode())
			fmt.Printf("  Flow: %s °C\n", tel.FlowTemp())
			fmt.Printf("  Pressure: %s\n", intergas.FormatPressure(tel.CHPressure()))
			os.Exit(0)
		}

		if ctx.Err() != nil {
			fmt.Fprintf(os.Stderr, "TIMEOUT: No valid frame received within %d seconds (%d attempts, last error: %v)\n",
				frameTestTimeout, attempts, err)
			os.Exit(1)
		}
		log.Debugw("frame test attempt failed", "attempt", attempts, "error", err, "bytes", len(frame))

		sleepContext(ctx, 200*time.Millisecond)
	}
}
