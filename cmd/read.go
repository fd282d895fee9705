// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Thermoquad/intergastat/pkg/intergas"
)

var (
	readFormat string
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read and display one status frame",
	Long: `Send a single status query, decode the reply and print it.

Output formats:
  table - readings, flags and status as tables (default)
  text  - plain multi-line report
  json  - one JSON object with snake_case field names
  cbor  - hex dump of the integer-keyed CBOR encoding`,
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().StringVarP(&readFormat, "format", "f", "table", "Output format (table, text, json, cbor)")
}

func runRead(cmd *cobra.Command, args []string) error {
	client, _, err := OpenClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := signalContext()
	defer cancel()

	tel, frame, err := client.Read(ctx)
	if err != nil {
		if len(frame) > 0 {
			fmt.Fprint(os.Stderr, intergas.FormatFrameHex(frame))
		}
		return fmt.Errorf("read failed: %w", err)
	}

	switch readFormat {
	case "table":
		fmt.Println(renderTelemetryTables(tel))
		for _, a := range intergas.ValidateTelemetry(tel) {
			fmt.Printf("%s %s\n", anomalyMarker(a), a.Message)
		}
	case "text":
		fmt.Print(intergas.FormatTelemetry(tel, time.Now()))
	case "json":
		out, err := json.MarshalIndent(tel, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	case "cbor":
		out, err := tel.MarshalCBOR()
		if err != nil {
			return err
		}
		fmt.Println(hex.EncodeToString(out))
	default:
		return fmt.Errorf("unknown format: %s", readFormat)
	}
	return nil
}

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	flagOnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Padding(0, 1)
	flagOffStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
)

// readingUnits maps field names to display units
var readingUnits = map[string]string{
	"flue":                 "°C",
	"flow":                 "°C",
	"return":               "°C",
	"domestic_hot_water":   "°C",
	"boiler_sensor":        "°C",
	"outdoor":              "°C",
	"ch_pressure":          "bar",
	"temperature_setpoint": "°C",
}

// readingRows returns one row per scalar reading
func readingRows(tel intergas.Telemetry) [][]string {
	rows := make([][]string, 0, 12)
	for _, f := range tel.Fields() {
		value := fmt.Sprintf("%.2f", f.Value)
		if f.Name == "ch_pressure" && tel.CHPressure().SensorAbsent() {
			value = intergas.FormatPressure(tel.CHPressure())
		} else if unit, ok := readingUnits[f.Name]; ok {
			value += " " + unit
		}
		rows = append(rows, []string{f.Name, value})
	}
	return rows
}

// flagRows returns one row per bit position with both registers side by side
func flagRows(tel intergas.Telemetry) [][]string {
	primary := tel.PrimaryFlags().Bits()
	secondary := tel.SecondaryFlags().Bits()
	rows := make([][]string, 0, 8)
	for i := 0; i < 8; i++ {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i),
			intergas.PrimaryFlagNames[i], onOff(primary[i]),
			intergas.SecondaryFlagNames[i], onOff(secondary[i]),
		})
	}
	return rows
}

func onOff(set bool) string {
	if set {
		return "on"
	}
	return "off"
}

func renderTelemetryTables(tel intergas.Telemetry) string {
	readings := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("reading", "value").
		Rows(readingRows(tel)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})

	rows := flagRows(tel)
	flags := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("bit", "primary (27)", "", "secondary (29)", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if col == 2 || col == 4 {
				if row >= 0 && row < len(rows) && rows[row][col] == "on" {
					return flagOnStyle
				}
				return flagOffStyle
			}
			return tableCellStyle
		})

	status := fmt.Sprintf("Status: %s (display code %d)", tel.StatusLabel(), tel.DisplayCode())

	var s strings.Builder
	s.WriteString(tableHeaderStyle.Render(status))
	s.WriteString("\n")
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, readings.Render(), " ", flags.Render()))
	return s.String()
}

func anomalyMarker(a intergas.ValidationError) string {
	if a.Severity == intergas.SeverityWarning {
		return "⚠"
	}
	return "ℹ"
}
