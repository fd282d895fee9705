// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package intergas

import "encoding/json"

// Pressure is the central heating pressure reading. It is either a
// measurement or marks that no pressure sensor is fitted.
type Pressure struct {
	value   FixedPoint
	present bool
}

// MeasuredPressure returns a pressure holding a sensor measurement
func MeasuredPressure(v FixedPoint) Pressure {
	return Pressure{value: v, present: true}
}

// AbsentPressure returns the pressure reported when no sensor is fitted
func AbsentPressure() Pressure {
	return Pressure{}
}

// Measured returns the measurement and true, or false if the sensor is absent
func (p Pressure) Measured() (FixedPoint, bool) {
	if !p.present {
		return 0, false
	}
	return p.value, true
}

// SensorAbsent reports whether the controller has no pressure sensor
func (p Pressure) SensorAbsent() bool {
	return !p.present
}

// Value returns the measurement, or PressureSentinel if the sensor is absent
func (p Pressure) Value() FixedPoint {
	if !p.present {
		return PressureSentinel
	}
	return p.value
}

func (p Pressure) String() string {
	if !p.present {
		return PressureSentinel.String() + " (no sensor)"
	}
	return p.value.String()
}

// Telemetry is one decoded status frame. Values are only produced by
// DecodeFrame and cannot be modified afterwards.
type Telemetry struct {
	flueTemp         FixedPoint
	flowTemp         FixedPoint
	returnTemp       FixedPoint
	dhwTemp          FixedPoint
	boilerTemp       FixedPoint
	outdoorTemp      FixedPoint
	chPressure       Pressure
	tempSetpoint     FixedPoint
	fanSpeedSetpoint FixedPoint
	fanSpeed         FixedPoint
	fanPWM           FixedPoint
	ioCurrent        FixedPoint
	primary          PrimaryFlags
	secondary        SecondaryFlags
	displayCode      uint8
	statusLabel      string
}

// FlueTemp returns the flue gas temperature
func (t Telemetry) FlueTemp() FixedPoint { return t.flueTemp }

// FlowTemp returns the flow (supply, S1) temperature
func (t Telemetry) FlowTemp() FixedPoint { return t.flowTemp }

// ReturnTemp returns the return (S2) temperature
func (t Telemetry) ReturnTemp() FixedPoint { return t.returnTemp }

// DHWTemp returns the domestic hot water (S3) temperature
func (t Telemetry) DHWTemp() FixedPoint { return t.dhwTemp }

// BoilerTemp returns the boiler sensor (S4) temperature
func (t Telemetry) BoilerTemp() FixedPoint { return t.boilerTemp }

// OutdoorTemp returns the outdoor sensor temperature
func (t Telemetry) OutdoorTemp() FixedPoint { return t.outdoorTemp }

// CHPressure returns the central heating pressure
func (t Telemetry) CHPressure() Pressure { return t.chPressure }

// TempSetpoint returns the temperature setpoint
func (t Telemetry) TempSetpoint() FixedPoint { return t.tempSetpoint }

// FanSpeedSetpoint returns the fan speed setpoint
func (t Telemetry) FanSpeedSetpoint() FixedPoint { return t.fanSpeedSetpoint }

// FanSpeed returns the actual fan speed
func (t Telemetry) FanSpeed() FixedPoint { return t.fanSpeed }

// FanPWM returns the fan PWM duty
func (t Telemetry) FanPWM() FixedPoint { return t.fanPWM }

// IOCurrent returns the ionisation current
func (t Telemetry) IOCurrent() FixedPoint { return t.ioCurrent }

// PrimaryFlags returns the byte 27 flag register
func (t Telemetry) PrimaryFlags() PrimaryFlags { return t.primary }

// SecondaryFlags returns the byte 29 flag register
func (t Telemetry) SecondaryFlags() SecondaryFlags { return t.secondary }

// DisplayCode returns the raw display code
func (t Telemetry) DisplayCode() uint8 { return t.displayCode }

// StatusLabel returns the operating-state label for the display code
func (t Telemetry) StatusLabel() string { return t.statusLabel }

// Temperatures returns the six sensor temperatures in frame order
// (flue, flow, return, domestic hot water, boiler, outdoor)
func (t Telemetry) Temperatures() [6]FixedPoint {
	return [6]FixedPoint{t.flueTemp, t.flowTemp, t.returnTemp, t.dhwTemp, t.boilerTemp, t.outdoorTemp}
}

// TemperatureNames names the entries of Temperatures
var TemperatureNames = [6]string{"flue", "flow", "return", "domestic_hot_water", "boiler_sensor", "outdoor"}

// Record is the flat, serialisable form of Telemetry used by JSON and CBOR
// consumers
type Record struct {
	Flue             float64        `json:"flue" cbor:"0,keyasint"`
	Flow             float64        `json:"flow" cbor:"1,keyasint"`
	Return           float64        `json:"return" cbor:"2,keyasint"`
	DomesticHotWater float64        `json:"domestic_hot_water" cbor:"3,keyasint"`
	BoilerSensor     float64        `json:"boiler_sensor" cbor:"4,keyasint"`
	Outdoor          float64        `json:"outdoor" cbor:"5,keyasint"`
	CHPressure       float64        `json:"ch_pressure" cbor:"6,keyasint"`
	TempSetpoint     float64        `json:"temperature_setpoint" cbor:"7,keyasint"`
	FanSpeedSetpoint float64        `json:"fan_speed_setpoint" cbor:"8,keyasint"`
	FanSpeed         float64        `json:"fan_speed_actual" cbor:"9,keyasint"`
	FanPWM           float64        `json:"fan_pwm" cbor:"10,keyasint"`
	IOCurrent        float64        `json:"io_current" cbor:"11,keyasint"`
	PrimaryFlags     PrimaryFlags   `json:"primary_flags" cbor:"12,keyasint"`
	SecondaryFlags   SecondaryFlags `json:"secondary_flags" cbor:"13,keyasint"`
	DisplayCode      uint8          `json:"display_code" cbor:"14,keyasint"`
	StatusLabel      string         `json:"status_label" cbor:"15,keyasint"`
}

// Record returns the flat form of the reading. ch_pressure carries the
// sentinel when the sensor is absent.
func (t Telemetry) Record() Record {
	return Record{
		Flue:             t.flueTemp.Float64(),
		Flow:             t.flowTemp.Float64(),
		Return:           t.returnTemp.Float64(),
		DomesticHotWater: t.dhwTemp.Float64(),
		BoilerSensor:     t.boilerTemp.Float64(),
		Outdoor:          t.outdoorTemp.Float64(),
		CHPressure:       t.chPressure.Value().Float64(),
		TempSetpoint:     t.tempSetpoint.Float64(),
		FanSpeedSetpoint: t.fanSpeedSetpoint.Float64(),
		FanSpeed:         t.fanSpeed.Float64(),
		FanPWM:           t.fanPWM.Float64(),
		IOCurrent:        t.ioCurrent.Float64(),
		PrimaryFlags:     t.primary,
		SecondaryFlags:   t.secondary,
		DisplayCode:      t.displayCode,
		StatusLabel:      t.statusLabel,
	}
}

// MarshalJSON encodes the reading with snake_case field names
func (t Telemetry) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Record())
}

// Fields returns the scalar readings keyed by their JSON name, in frame order
func (t Telemetry) Fields() []Field {
	v := t.Record()
	return []Field{
		{"flue", v.Flue},
		{"flow", v.Flow},
		{"return", v.Return},
		{"domestic_hot_water", v.DomesticHotWater},
		{"boiler_sensor", v.BoilerSensor},
		{"outdoor", v.Outdoor},
		{"ch_pressure", v.CHPressure},
		{"temperature_setpoint", v.TempSetpoint},
		{"fan_speed_setpoint", v.FanSpeedSetpoint},
		{"fan_speed_actual", v.FanSpeed},
		{"fan_pwm", v.FanPWM},
		{"io_current", v.IOCurrent},
	}
}

// Field is a named scalar reading
type Field struct {
	Name  string
	Value float64
}
