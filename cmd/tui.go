// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Thermoquad/intergastat/pkg/intergas"
	"github.com/Thermoquad/intergastat/pkg/pcinterface"
)

// Event log entry
type eventLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool // true for errors, false for informational
}

// TUI model
type model struct {
	connInfo      string
	interval      time.Duration
	showAll       bool
	stats         *intergas.Statistics
	eventLog      []eventLogEntry
	maxLogEntries int
	latest        *pcinterface.Reading
	readings      table.Model
	startTime     time.Time
	width         int
	height        int
	quitting      bool
}

// Messages
type tickMsg time.Time
type readingMsg pcinterface.Reading

// formatUptime formats a duration as a human-friendly string
func formatUptime(d time.Duration) string {
	total := int64(d / time.Second)
	if total <= 0 {
		return "0 seconds"
	}

	units := []struct {
		name    string
		seconds int64
	}{
		{"day", 86400},
		{"hour", 3600},
		{"minute", 60},
		{"second", 1},
	}

	parts := []string{}
	for _, u := range units {
		n := total / u.seconds
		total %= u.seconds
		if n == 0 {
			continue
		}
		if n == 1 {
			parts = append(parts, "1 "+u.name)
		} else {
			parts = append(parts, fmt.Sprintf("%d %ss", n, u.name))
		}
	}

	// Join with commas and "and" for last item
	if len(parts) == 1 {
		return parts[0]
	}
	if len(parts) == 2 {
		return parts[0] + " and " + parts[1]
	}
	last := parts[len(parts)-1]
	rest := strings.Join(parts[:len(parts)-1], ", ")
	return rest + ", and " + last
}

func newReadingsTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Reading", Width: 22},
			{Title: "Value", Width: 20},
		}),
		table.WithHeight(13),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	// Nothing to select, keep every row plain
	styles.Selected = lipgloss.NewStyle()
	t.SetStyles(styles)
	return t
}

func initialModel(connInfo string, interval time.Duration, showAll bool, stats *intergas.Statistics) model {
	return model{
		connInfo:      connInfo,
		interval:      interval,
		showAll:       showAll,
		stats:         stats,
		eventLog:      make([]eventLogEntry, 0),
		maxLogEntries: 100,
		readings:      newReadingsTable(),
		startTime:     time.Now(),
		width:         80,
		height:        24,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		tea.EnterAltScreen,
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.stats.CalculateRates()
		return m, tickCmd()

	case readingMsg:
		r := pcinterface.Reading(msg)
		if !r.OK() {
			m.addLogEntry(fmt.Sprintf("READ ERROR: %v", r.Err), true)
			return m, nil
		}

		m.latest = &r
		m.readings.SetRows(tableRows(readingRows(r.Telemetry)))

		for _, a := range r.Anomalies {
			if a.Severity == intergas.SeverityWarning {
				m.addLogEntry(fmt.Sprintf("%s: %s", a.Type, a.Message), true)
			}
		}
		if m.showAll {
			m.addLogEntry(fmt.Sprintf("%s (valid)", r.Telemetry.StatusLabel()), false)
		}
	}

	return m, nil
}

func tableRows(rows [][]string) []table.Row {
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = table.Row(r)
	}
	return out
}

func (m *model) addLogEntry(message string, isError bool) {
	entry := eventLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	}
	m.eventLog = append(m.eventLog, entry)

	// Keep only last N entries
	if len(m.eventLog) > m.maxLogEntries {
		m.eventLog = m.eventLog[len(m.eventLog)-m.maxLogEntries:]
	}
}

func (m model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	statsLabelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	statsValueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	// Header
	var s strings.Builder
	s.WriteString(titleStyle.Render("INTERGASTAT - BOILER MONITOR"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s | Every %s | Up %s | Press 'q' to quit",
		m.connInfo, m.interval, formatUptime(time.Since(m.startTime)))))
	s.WriteString("\n\n")

	// Statistics
	snap := m.stats.Snapshot()
	var validPercent, errorPercent float64
	totalErrors := snap.LengthErrors + snap.ReadErrors
	if snap.TotalFrames > 0 {
		validPercent = float64(snap.ValidFrames) * 100.0 / float64(snap.TotalFrames)
		errorPercent = float64(totalErrors) * 100.0 / float64(snap.TotalFrames)
	}

	statsContent := strings.Builder{}
	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s   %s %s\n",
		statsLabelStyle.Render("Polls:"), statsValueStyle.Render(fmt.Sprintf("%d", snap.TotalFrames)),
		statsLabelStyle.Render("Valid:"), statsValueStyle.Render(fmt.Sprintf("%d (%.1f%%)", snap.ValidFrames, validPercent)),
		statsLabelStyle.Render("Errors:"), errorStyle.Render(fmt.Sprintf("%d (%.1f%%)", totalErrors, errorPercent)),
	))

	if totalErrors > 0 {
		statsContent.WriteString(fmt.Sprintf("%s %s   %s %s\n",
			statsLabelStyle.Render("Length Errors:"), errorStyle.Render(fmt.Sprintf("%d", snap.LengthErrors)),
			statsLabelStyle.Render("Read Errors:"), errorStyle.Render(fmt.Sprintf("%d", snap.ReadErrors)),
		))
	}

	if snap.AnomalousFrames > 0 {
		statsContent.WriteString(fmt.Sprintf("%s %s (%s: %d, %s: %d, %s: %d, %s: %d)\n",
			statsLabelStyle.Render("Anomalous:"), warningStyle.Render(fmt.Sprintf("%d", snap.AnomalousFrames)),
			headerStyle.Render("temp range"), snap.TempOutOfRange,
			headerStyle.Render("low pressure"), snap.LowWaterPressure,
			headerStyle.Render("alarm"), snap.Alarms,
			headerStyle.Render("burner block"), snap.BurnerBlocks,
		))
	}

	statsContent.WriteString(fmt.Sprintf("%s %s   %s %s",
		statsLabelStyle.Render("Poll Rate:"), statsValueStyle.Render(fmt.Sprintf("%.1f /min", snap.FrameRate)),
		statsLabelStyle.Render("Error Rate:"), func() string {
			if snap.ErrorRate > 0 {
				return errorStyle.Render(fmt.Sprintf("%.1f /min", snap.ErrorRate))
			}
			return statsValueStyle.Render(fmt.Sprintf("%.1f /min", snap.ErrorRate))
		}(),
	))

	s.WriteString(boxStyle.Render(statsContent.String()))
	s.WriteString("\n\n")

	// Telemetry section (only shown once a reading arrived)
	if m.latest != nil {
		tel := m.latest.Telemetry
		s.WriteString(statsLabelStyle.Render("Latest Reading:"))
		s.WriteString(" ")
		s.WriteString(statsValueStyle.Render(tel.StatusLabel()))
		s.WriteString(headerStyle.Render(fmt.Sprintf(" at %s", m.latest.Timestamp.Format("15:04:05"))))
		s.WriteString("\n")

		flagContent := strings.Builder{}
		flagContent.WriteString(statsLabelStyle.Render("Active flags:"))
		flagContent.WriteString("\n")
		active := append(tel.PrimaryFlags().Active(), tel.SecondaryFlags().Active()...)
		if len(active) == 0 {
			flagContent.WriteString(headerStyle.Render("(none)"))
		}
		for _, name := range active {
			flagContent.WriteString(statsValueStyle.Render("● " + name))
			flagContent.WriteString("\n")
		}

		s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			boxStyle.Render(m.readings.View()),
			" ",
			boxStyle.Render(flagContent.String()),
		))
		s.WriteString("\n\n")
	}

	// Event log
	s.WriteString(statsLabelStyle.Render("Recent Events:"))
	s.WriteString("\n")

	// Calculate how many log entries we can show
	logHeight := m.height - 30
	if logHeight < 5 {
		logHeight = 5
	}

	logContent := strings.Builder{}
	startIdx := len(m.eventLog) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}

	if len(m.eventLog) == 0 {
		logContent.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for i := startIdx; i < len(m.eventLog); i++ {
			entry := m.eventLog[i]
			timestamp := entry.timestamp.Format("01/02/06 15:04:05.000")
			if entry.isError {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					errorStyle.Render("✗ "+entry.message),
				))
			} else {
				logContent.WriteString(fmt.Sprintf("%s %s\n",
					headerStyle.Render(timestamp),
					warningStyle.Render("ℹ "+entry.message),
				))
			}
		}
	}

	s.WriteString(boxStyle.Width(m.width - 4).Render(logContent.String()))

	return s.String()
}
