// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	pingCount int
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Measure query round-trip time and reply loss",
	Long: `Send a number of status queries and report the round-trip time of each.

A query counts as answered only when a complete frame decodes. This is useful
for verifying:
  - The serial link or WebSocket bridge is established
  - HTTP Basic authentication works
  - The controller answers consistently at the configured baud rate

Exit codes:
  0 - All queries answered
  1 - One or more queries failed or timed out
  2 - Connection error`,
	RunE: runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
	pingCmd.Flags().IntVar(&pingCount, "count", 3, "Number of queries to send")
}

func runPing(cmd *cobra.Command, args []string) error {
	client, connInfo, err := OpenClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer client.Close()

	fmt.Printf("Intergastat - Query Ping\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Timeout: %s per query\n", cfg.Serial.Timeout)
	fmt.Printf("Count: %d queries\n\n", pingCount)

	ctx, cancel := signalContext()
	defer cancel()

	successCount := 0
	var total time.Duration
	for i := 1; i <= pingCount && ctx.Err() == nil; i++ {
		fmt.Printf("Query %d/%d: ", i, pingCount)

		start := time.Now()
		tel, frame, err := client.Read(ctx)
		rtt := time.Since(start)
		if err != nil {
			fmt.Printf("FAILED after %v (%d bytes): %v\n", rtt.Round(time.Millisecond), len(frame), err)
		} else {
			fmt.Printf("reply, status=%q, rtt=%v\n", tel.StatusLabel(), rtt.Round(time.Millisecond))
			successCount++
			total += rtt
		}

		if i < pingCount {
			sleepContext(ctx, 100*time.Millisecond)
		}
	}

	fmt.Printf("\n--- Ping statistics ---\n")
	fmt.Printf("%d queries sent, %d replies received, %.0f%% loss\n",
		pingCount, successCount, float64(pingCount-successCount)/float64(pingCount)*100)
	if successCount > 0 {
		fmt.Printf("average rtt %v\n", (total / time.Duration(successCount)).Round(time.Millisecond))
	}

	if successCount < pingCount {
		os.Exit(1)
	}
	return nil
}
