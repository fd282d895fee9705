// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package intergas

import (
	"fmt"
	"strings"
	"time"
)

// FormatTelemetry formats a reading into a human-readable report
func FormatTelemetry(t Telemetry, timestamp time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s (code %d)\n", timestamp.Format("15:04:05.000"), t.StatusLabel(), t.DisplayCode())
	fmt.Fprintf(&b, "  Temperatures: flue=%s flow=%s return=%s dhw=%s boiler=%s outdoor=%s\n",
		formatTemp(t.FlueTemp()), formatTemp(t.FlowTemp()), formatTemp(t.ReturnTemp()),
		formatTemp(t.DHWTemp()), formatTemp(t.BoilerTemp()), formatTemp(t.OutdoorTemp()))
	fmt.Fprintf(&b, "  Setpoint: %s, CH pressure: %s\n", formatTemp(t.TempSetpoint()), FormatPressure(t.CHPressure()))
	fmt.Fprintf(&b, "  Fan: %s (setpoint %s), PWM: %s, IO current: %s\n",
		t.FanSpeed(), t.FanSpeedSetpoint(), t.FanPWM(), t.IOCurrent())
	fmt.Fprintf(&b, "  Flags (0x%02X): %s\n", t.PrimaryFlags().Byte(), formatFlagList(t.PrimaryFlags().Active()))
	fmt.Fprintf(&b, "  Flags (0x%02X): %s\n", t.SecondaryFlags().Byte(), formatFlagList(t.SecondaryFlags().Active()))

	return b.String()
}

// FormatPressure renders a pressure reading in bar
func FormatPressure(p Pressure) string {
	if p.SensorAbsent() {
		return fmt.Sprintf("%s (no sensor)", PressureSentinel)
	}
	return fmt.Sprintf("%s bar", p.Value())
}

// FormatFrameHex renders raw frame bytes as a hex dump, 16 bytes per line
func FormatFrameHex(frame []byte) string {
	var b strings.Builder
	b.WriteString("  Frame: ")
	for i, v := range frame {
		if i > 0 && i%16 == 0 {
			b.WriteString("\n         ")
		}
		fmt.Fprintf(&b, "%02X ", v)
	}
	b.WriteString("\n")
	return b.String()
}

func formatTemp(v FixedPoint) string {
	return v.String() + "°C"
}

func formatFlagList(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
