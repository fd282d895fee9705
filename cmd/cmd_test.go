// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thermoquad/intergastat/pkg/config"
	"github.com/Thermoquad/intergastat/pkg/intergas"
	"github.com/Thermoquad/intergastat/pkg/pcinterface"
)

func decodedReading(t *testing.T, withSensor bool, primary intergas.PrimaryFlags) pcinterface.Reading {
	t.Helper()
	var fields intergas.RawFields
	fields.Readings[1] = intergas.RawReading{Low: 0x10, High: 0x19}
	fields.Readings[6] = intergas.RawReading{Low: 150, High: 0}
	fields.DisplayCode = intergas.DisplayCHActive
	fields.PrimaryFlags = primary
	fields.SecondaryFlags = intergas.SecondaryFlags{PressureSensorPresent: withSensor, GasValve: true}
	frame := intergas.EncodeFrame(fields)

	tel, err := intergas.DecodeFrame(frame)
	require.NoError(t, err)
	return pcinterface.Reading{
		Telemetry: tel,
		Frame:     frame,
		Anomalies: intergas.ValidateTelemetry(tel),
		Timestamp: time.Now(),
	}
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0 seconds"},
		{time.Second, "1 second"},
		{90 * time.Second, "1 minute and 30 seconds"},
		{2*time.Hour + 1*time.Minute + 5*time.Second, "2 hours, 1 minute, and 5 seconds"},
		{26 * time.Hour, "1 day and 2 hours"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatUptime(tt.in))
	}
}

func TestReadingRows(t *testing.T) {
	rows := readingRows(decodedReading(t, true, intergas.PrimaryFlags{}).Telemetry)
	require.Len(t, rows, 12)
	assert.Equal(t, []string{"flow", "66.41 °C"}, rows[1])
	assert.Equal(t, []string{"ch_pressure", "1.50 bar"}, rows[6])
	assert.Equal(t, []string{"fan_speed_actual", "0.00"}, rows[9])
}

func TestReadingRows_NoSensor(t *testing.T) {
	rows := readingRows(decodedReading(t, false, intergas.PrimaryFlags{}).Telemetry)
	assert.Equal(t, "ch_pressure", rows[6][0])
	assert.Contains(t, rows[6][1], "-35.00")
	assert.Contains(t, rows[6][1], "no sensor")
}

func TestFlagRows(t *testing.T) {
	rows := flagRows(decodedReading(t, true, intergas.PrimaryFlags{Pump: true}).Telemetry)
	require.Len(t, rows, 8)
	assert.Equal(t, []string{"0", "general_power_switch", "off", "gas_valve", "on"}, rows[0])
	assert.Equal(t, []string{"3", "pump", "on", "ch_opentherm_disabled", "off"}, rows[3])
	assert.Equal(t, []string{"5", "alarm_status", "off", "pressure_sensor_present", "on"}, rows[5])
}

func TestRenderTelemetryTables(t *testing.T) {
	out := renderTelemetryTables(decodedReading(t, true, intergas.PrimaryFlags{}).Telemetry)
	assert.Contains(t, out, "Central heating active")
	assert.Contains(t, out, "66.41")
	assert.Contains(t, out, "pressure_sensor_present")
}

func TestModel_ReadingUpdatesView(t *testing.T) {
	m := initialModel("Simulated boiler", time.Second, false, intergas.NewStatistics())

	updated, _ := m.Update(readingMsg(decodedReading(t, true, intergas.PrimaryFlags{AlarmStatus: true})))
	m = updated.(model)

	require.NotNil(t, m.latest)
	require.Len(t, m.eventLog, 1)
	assert.True(t, m.eventLog[0].isError)
	assert.Contains(t, m.eventLog[0].message, "ALARM")

	view := m.View()
	assert.Contains(t, view, "Central heating active")
	assert.Contains(t, view, "alarm_status")
}

func TestModel_ReadErrorLogged(t *testing.T) {
	m := initialModel("Simulated boiler", time.Second, false, intergas.NewStatistics())

	updated, _ := m.Update(readingMsg(pcinterface.Reading{Err: errors.New("short read"), Timestamp: time.Now()}))
	m = updated.(model)

	assert.Nil(t, m.latest)
	require.Len(t, m.eventLog, 1)
	assert.True(t, strings.HasPrefix(m.eventLog[0].message, "READ ERROR"))
}

func TestModel_ShowAllLogsValidReadings(t *testing.T) {
	m := initialModel("Simulated boiler", time.Second, true, intergas.NewStatistics())

	updated, _ := m.Update(readingMsg(decodedReading(t, true, intergas.PrimaryFlags{})))
	m = updated.(model)

	require.Len(t, m.eventLog, 1)
	assert.False(t, m.eventLog[0].isError)
}

func TestModel_LogCapped(t *testing.T) {
	m := initialModel("Simulated boiler", time.Second, false, intergas.NewStatistics())
	for i := 0; i < m.maxLogEntries+10; i++ {
		m.addLogEntry("event", false)
	}
	assert.Len(t, m.eventLog, m.maxLogEntries)
}

func TestModel_Quit(t *testing.T) {
	m := initialModel("Simulated boiler", time.Second, false, intergas.NewStatistics())

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.True(t, updated.(model).quitting)
}

func TestOpenLink_Simulate(t *testing.T) {
	link, info, err := OpenLink(config.Config{Simulate: true})
	require.NoError(t, err)
	defer link.Close()
	assert.Equal(t, "Simulated boiler", info)

	client := pcinterface.NewClient(link, 50*time.Millisecond)
	frame, err := client.Query(t.Context())
	require.NoError(t, err)
	assert.Len(t, frame, intergas.FrameSize)
}

func TestOpenLink_NothingConfigured(t *testing.T) {
	_, _, err := OpenLink(config.Config{})
	assert.Error(t, err)
}

func TestGetPassword_FromEnv(t *testing.T) {
	t.Setenv("INTERGAS_PASSWORD", "hunter2")
	pw, err := GetPassword()
	require.NoError(t, err)
	assert.Equal(t, "hunter2", pw)
}

func TestSleepContext(t *testing.T) {
	assert.True(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	assert.False(t, sleepContext(ctx, time.Minute))
	assert.Less(t, time.Since(start), time.Second)
}
