// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package intergas

// PrimaryFlags is the flag register at byte 27 (bit 0 first)
type PrimaryFlags struct {
	GeneralPowerSwitch bool `json:"general_power_switch"`
	TapWaterSwitch     bool `json:"tap_water_switch"`
	RoomThermostat     bool `json:"room_thermostat"`
	Pump               bool `json:"pump"`
	ThreeWayValve      bool `json:"three_way_valve"`
	AlarmStatus        bool `json:"alarm_status"`
	CHCascadeRelay     bool `json:"ch_cascade_relay"`
	OpenTherm          bool `json:"opentherm"`
}

// SecondaryFlags is the flag register at byte 29 (bit 0 first)
type SecondaryFlags struct {
	GasValve              bool `json:"gas_valve"`
	Spark                 bool `json:"spark"`
	IOSignal              bool `json:"io_signal"`
	CHOpenThermDisabled   bool `json:"ch_opentherm_disabled"`
	LowWaterPressure      bool `json:"low_water_pressure"`
	PressureSensorPresent bool `json:"pressure_sensor_present"`
	BurnerBlock           bool `json:"burner_block"`
	GradientFlag          bool `json:"gradient_flag"`
}

// PrimaryFlagNames lists the primary register flags in bit order
var PrimaryFlagNames = [8]string{
	"general_power_switch",
	"tap_water_switch",
	"room_thermostat",
	"pump",
	"three_way_valve",
	"alarm_status",
	"ch_cascade_relay",
	"opentherm",
}

// SecondaryFlagNames lists the secondary register flags in bit order
var SecondaryFlagNames = [8]string{
	"gas_valve",
	"spark",
	"io_signal",
	"ch_opentherm_disabled",
	"low_water_pressure",
	"pressure_sensor_present",
	"burner_block",
	"gradient_flag",
}

func bit(b byte, i uint) bool {
	return (b>>i)&1 == 1
}

func packBits(bits [8]bool) byte {
	var b byte
	for i, set := range bits {
		if set {
			b |= 1 << uint(i)
		}
	}
	return b
}

func activeNames(bits [8]bool, names [8]string) []string {
	active := []string{}
	for i, set := range bits {
		if set {
			active = append(active, names[i])
		}
	}
	return active
}

// UnpackPrimary splits a primary flag register into its 8 flags
func UnpackPrimary(b byte) PrimaryFlags {
	return PrimaryFlags{
		GeneralPowerSwitch: bit(b, 0),
		TapWaterSwitch:     bit(b, 1),
		RoomThermostat:     bit(b, 2),
		Pump:               bit(b, 3),
		ThreeWayValve:      bit(b, 4),
		AlarmStatus:        bit(b, 5),
		CHCascadeRelay:     bit(b, 6),
		OpenTherm:          bit(b, 7),
	}
}

// UnpackSecondary splits a secondary flag register into its 8 flags
func UnpackSecondary(b byte) SecondaryFlags {
	return SecondaryFlags{
		GasValve:              bit(b, 0),
		Spark:                 bit(b, 1),
		IOSignal:              bit(b, 2),
		CHOpenThermDisabled:   bit(b, 3),
		LowWaterPressure:      bit(b, 4),
		PressureSensorPresent: bit(b, 5),
		BurnerBlock:           bit(b, 6),
		GradientFlag:          bit(b, 7),
	}
}

// Bits returns the flags in bit order
func (f PrimaryFlags) Bits() [8]bool {
	return [8]bool{
		f.GeneralPowerSwitch, f.TapWaterSwitch, f.RoomThermostat, f.Pump,
		f.ThreeWayValve, f.AlarmStatus, f.CHCascadeRelay, f.OpenTherm,
	}
}

// Byte packs the flags back into a register value
func (f PrimaryFlags) Byte() byte {
	return packBits(f.Bits())
}

// Active returns the names of the set flags in bit order
func (f PrimaryFlags) Active() []string {
	return activeNames(f.Bits(), PrimaryFlagNames)
}

// Bits returns the flags in bit order
func (f SecondaryFlags) Bits() [8]bool {
	return [8]bool{
		f.GasValve, f.Spark, f.IOSignal, f.CHOpenThermDisabled,
		f.LowWaterPressure, f.PressureSensorPresent, f.BurnerBlock, f.GradientFlag,
	}
}

// Byte packs the flags back into a register value
func (f SecondaryFlags) Byte() byte {
	return packBits(f.Bits())
}

// Active returns the names of the set flags in bit order
func (f SecondaryFlags) Active() []string {
	return activeNames(f.Bits(), SecondaryFlagNames)
}
