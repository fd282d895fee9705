// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package intergas

import (
	"reflect"
	"testing"
)

func TestUnpackSecondary_AllValues(t *testing.T) {
	for v := 0; v < 256; v++ {
		b := byte(v)
		bits := UnpackSecondary(b).Bits()
		for i := uint(0); i < 8; i++ {
			want := (b>>i)&1 == 1
			if bits[i] != want {
				t.Fatalf("UnpackSecondary(0x%02X) bit %d = %v, want %v", b, i, bits[i], want)
			}
		}
		if got := UnpackSecondary(b).Byte(); got != b {
			t.Fatalf("UnpackSecondary(0x%02X).Byte() = 0x%02X", b, got)
		}
	}
}

func TestUnpackPrimary_AllValues(t *testing.T) {
	for v := 0; v < 256; v++ {
		b := byte(v)
		bits := UnpackPrimary(b).Bits()
		for i := uint(0); i < 8; i++ {
			want := (b>>i)&1 == 1
			if bits[i] != want {
				t.Fatalf("UnpackPrimary(0x%02X) bit %d = %v, want %v", b, i, bits[i], want)
			}
		}
		if got := UnpackPrimary(b).Byte(); got != b {
			t.Fatalf("UnpackPrimary(0x%02X).Byte() = 0x%02X", b, got)
		}
	}
}

func TestUnpackSecondary_FieldOrder(t *testing.T) {
	tests := []struct {
		bit  uint
		want SecondaryFlags
	}{
		{0, SecondaryFlags{GasValve: true}},
		{1, SecondaryFlags{Spark: true}},
		{2, SecondaryFlags{IOSignal: true}},
		{3, SecondaryFlags{CHOpenThermDisabled: true}},
		{4, SecondaryFlags{LowWaterPressure: true}},
		{5, SecondaryFlags{PressureSensorPresent: true}},
		{6, SecondaryFlags{BurnerBlock: true}},
		{7, SecondaryFlags{GradientFlag: true}},
	}
	for _, tt := range tests {
		if got := UnpackSecondary(1 << tt.bit); got != tt.want {
			t.Errorf("UnpackSecondary(1<<%d) = %+v, want %+v", tt.bit, got, tt.want)
		}
	}
}

func TestUnpackPrimary_FieldOrder(t *testing.T) {
	tests := []struct {
		bit  uint
		want PrimaryFlags
	}{
		{0, PrimaryFlags{GeneralPowerSwitch: true}},
		{1, PrimaryFlags{TapWaterSwitch: true}},
		{2, PrimaryFlags{RoomThermostat: true}},
		{3, PrimaryFlags{Pump: true}},
		{4, PrimaryFlags{ThreeWayValve: true}},
		{5, PrimaryFlags{AlarmStatus: true}},
		{6, PrimaryFlags{CHCascadeRelay: true}},
		{7, PrimaryFlags{OpenTherm: true}},
	}
	for _, tt := range tests {
		if got := UnpackPrimary(1 << tt.bit); got != tt.want {
			t.Errorf("UnpackPrimary(1<<%d) = %+v, want %+v", tt.bit, got, tt.want)
		}
	}
}

func TestFlags_Active(t *testing.T) {
	got := UnpackSecondary(0x21).Active()
	want := []string{"gas_valve", "pressure_sensor_present"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Active() = %v, want %v", got, want)
	}

	if n := len(UnpackPrimary(0).Active()); n != 0 {
		t.Errorf("Active() of empty register has %d entries", n)
	}
	if n := len(UnpackPrimary(0xFF).Active()); n != 8 {
		t.Errorf("Active() of full register has %d entries, want 8", n)
	}
}
