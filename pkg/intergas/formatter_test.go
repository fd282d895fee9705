// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package intergas

import (
	"strings"
	"testing"
	"time"
)

func TestFormatTelemetry(t *testing.T) {
	frame := sensorPresentFrame()
	frame[OffsetDisplayCode] = DisplayCHActive
	frame[OffsetFlowTemp] = 0x10
	frame[OffsetFlowTemp+1] = 0x08
	frame[OffsetPrimaryFlags] = 0x08

	out := FormatTelemetry(decodeOrFail(t, frame), time.Date(2025, 1, 1, 12, 30, 0, 0, time.UTC))
	for _, want := range []string{
		"[12:30:00.000] Central heating active (code 102)",
		"flow=21.36°C",
		"CH pressure: 0.00 bar",
		"pump",
		"pressure_sensor_present",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatTelemetry missing %q:\n%s", want, out)
		}
	}
}

func TestFormatPressure_Absent(t *testing.T) {
	if got := FormatPressure(AbsentPressure()); got != "-35.00 (no sensor)" {
		t.Errorf("FormatPressure(absent) = %q", got)
	}
}

func TestFormatFrameHex(t *testing.T) {
	out := FormatFrameHex(buildFrame(func(f []byte) { f[0] = 0xAB }))
	if !strings.HasPrefix(out, "  Frame: AB 00") {
		t.Errorf("unexpected hex dump: %q", out)
	}
	if strings.Count(out, "\n") != 2 {
		t.Errorf("32 bytes should span two lines: %q", out)
	}
}
