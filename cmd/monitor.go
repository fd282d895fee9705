// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Thermoquad/intergastat/pkg/intergas"
	"github.com/Thermoquad/intergastat/pkg/pcinterface"
)

var (
	showAll       bool
	statsInterval int
	useTUI        bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Poll the boiler and track anomalies with statistics",
	Long: `Poll the controller on a fixed interval, validate each reading and keep
running statistics.

Each reading is checked for:
  - Short or missing replies
  - Temperatures outside the plausible sensor range (-40 to 130 °C)
  - Low water pressure, alarm and burner block flags
  - A missing pressure sensor or an unrecognised display code

By default, only problems are displayed in text mode. Use --show-all to display
every reading. The terminal UI always shows the latest reading.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().BoolVar(&showAll, "show-all", false, "Show all readings (not just problems)")
	monitorCmd.Flags().IntVar(&statsInterval, "stats-interval", 60, "Statistics summary interval (seconds, text mode)")
	monitorCmd.Flags().BoolVar(&useTUI, "tui", true, "Use terminal UI (false for text mode)")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	client, connInfo, err := OpenClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := signalContext()
	defer cancel()

	if useTUI {
		// The TUI owns the terminal, keep log output out of it
		poller := pcinterface.NewPoller(client, cfg.Poll.Interval, nil)
		return runTUIMode(ctx, poller, connInfo)
	}
	return runTextMode(ctx, pcinterface.NewPoller(client, cfg.Poll.Interval, log), connInfo)
}

// printReadError prints a failed poll in highlighted format
func printReadError(r pcinterface.Reading) {
	timestamp := r.Timestamp.Format("15:04:05.000")
	fmt.Printf("[%s] \033[1;31mREAD ERROR:\033[0m %v\n", timestamp, r.Err)
	if len(r.Frame) > 0 {
		fmt.Print(intergas.FormatFrameHex(r.Frame))
	}
	fmt.Printf("  >>> NO READING <<<\n\n")
}

// printAnomalies prints the anomalies found in a reading
func printAnomalies(r pcinterface.Reading) {
	timestamp := r.Timestamp.Format("15:04:05.000")
	tel := r.Telemetry

	fmt.Printf("[%s] \033[1;33mANOMALY:\033[0m %s\n", timestamp, tel.StatusLabel())
	for i, a := range r.Anomalies {
		switch a.Type {
		case intergas.AnomalyTempOutOfRange:
			fmt.Printf("  Issue %d: \033[1;31m%s\033[0m\n", i+1, a.Message)
			if value, ok := a.Details["value"].(float64); ok {
				fmt.Printf("    %v=%.2f °C (valid: %s to %s °C)\n",
					a.Details["sensor"], value, intergas.MinSensorTemp, intergas.MaxSensorTemp)
			}

		case intergas.AnomalyLowWaterPressure, intergas.AnomalyAlarm, intergas.AnomalyBurnerBlock:
			fmt.Printf("  Issue %d: \033[1;31m%s\033[0m\n", i+1, a.Message)

		case intergas.AnomalyUnknownStatus:
			fmt.Printf("  Issue %d: \033[1;33m%s\033[0m\n", i+1, a.Message)
			fmt.Printf("    Display code=%d\n", tel.DisplayCode())

		default:
			fmt.Printf("  Issue %d: %s\n", i+1, a.Message)
		}
	}
	fmt.Printf("  Flow: %s °C, Return: %s °C, Pressure: %s\n\n",
		tel.FlowTemp(), tel.ReturnTemp(), intergas.FormatPressure(tel.CHPressure()))
}

// runTUIMode runs the monitor in TUI mode
func runTUIMode(ctx context.Context, poller *pcinterface.Poller, connInfo string) error {
	m := initialModel(connInfo, cfg.Poll.Interval, showAll, poller.Stats())
	p := tea.NewProgram(m, tea.WithContext(ctx))

	go func() {
		_ = poller.Run(ctx, func(r pcinterface.Reading) {
			p.Send(readingMsg(r))
		})
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// runTextMode runs the monitor in text mode
func runTextMode(ctx context.Context, poller *pcinterface.Poller, connInfo string) error {
	fmt.Printf("Intergastat - Monitor\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Poll interval: %s\n", cfg.Poll.Interval)
	fmt.Printf("Statistics interval: %d seconds\n", statsInterval)
	if showAll {
		fmt.Printf("Mode: All readings\n")
	} else {
		fmt.Printf("Mode: Problems only\n")
	}
	fmt.Printf("Press Ctrl+C to exit\n\n")

	stats := poller.Stats()
	lastStats := time.Now()

	err := poller.Run(ctx, func(r pcinterface.Reading) {
		switch {
		case !r.OK():
			printReadError(r)
		case intergas.HasWarnings(r.Anomalies):
			printAnomalies(r)
		case showAll:
			fmt.Print(intergas.FormatTelemetry(r.Telemetry, r.Timestamp))
			fmt.Println()
		}

		if time.Since(lastStats) >= time.Duration(statsInterval)*time.Second {
			lastStats = time.Now()
			stats.CalculateRates()
			fmt.Println()
			fmt.Print(stats.String())
			fmt.Println()
		}
	})

	stats.CalculateRates()
	fmt.Println()
	fmt.Print(stats.String())
	return err
}
