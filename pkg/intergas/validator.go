// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package intergas

import "fmt"

// AnomalyType represents different kinds of reading anomalies
type AnomalyType int

const (
	AnomalyTempOutOfRange AnomalyType = iota
	AnomalyLowWaterPressure
	AnomalyAlarm
	AnomalyBurnerBlock
	AnomalyNoPressureSensor
	AnomalyUnknownStatus
)

// Severity separates anomalies that need attention from informational ones
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "info"
}

// Plausible sensor range; anything outside is a disconnected or shorted probe
const (
	MinSensorTemp FixedPoint = -40 * fixedPointScale
	MaxSensorTemp FixedPoint = 130 * fixedPointScale
)

// ValidationError describes one anomaly found in a decoded reading.
// It never makes a reading invalid; decoding already succeeded.
type ValidationError struct {
	Type     AnomalyType
	Severity Severity
	Message  string
	Details  map[string]interface{}
}

// Error implements the error interface
func (v *ValidationError) Error() string {
	return v.Message
}

// String returns a short name for the anomaly type
func (a AnomalyType) String() string {
	switch a {
	case AnomalyTempOutOfRange:
		return "TEMP_OUT_OF_RANGE"
	case AnomalyLowWaterPressure:
		return "LOW_WATER_PRESSURE"
	case AnomalyAlarm:
		return "ALARM"
	case AnomalyBurnerBlock:
		return "BURNER_BLOCK"
	case AnomalyNoPressureSensor:
		return "NO_PRESSURE_SENSOR"
	case AnomalyUnknownStatus:
		return "UNKNOWN_STATUS"
	default:
		return "UNKNOWN"
	}
}

// ValidateTelemetry checks a reading for anomalies.
// Returns a slice of validation errors (empty if nothing stands out).
func ValidateTelemetry(t Telemetry) []ValidationError {
	errors := []ValidationError{}

	for i, temp := range t.Temperatures() {
		if temp < MinSensorTemp || temp > MaxSensorTemp {
			msg := fmt.Sprintf("%s temperature out of range (%s°C, valid: %s to %s°C)",
				TemperatureNames[i], temp, MinSensorTemp, MaxSensorTemp)
			errors = append(errors, ValidationError{
				Type:     AnomalyTempOutOfRange,
				Severity: SeverityWarning,
				Message:  msg,
				Details:  map[string]interface{}{"sensor": TemperatureNames[i], "value": temp.Float64()},
			})
		}
	}

	primary := t.PrimaryFlags()
	secondary := t.SecondaryFlags()

	if primary.AlarmStatus {
		errors = append(errors, ValidationError{
			Type:     AnomalyAlarm,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("Alarm active (display code %d)", t.DisplayCode()),
			Details:  map[string]interface{}{"display_code": t.DisplayCode()},
		})
	}

	if secondary.LowWaterPressure {
		errors = append(errors, ValidationError{
			Type:     AnomalyLowWaterPressure,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("Low water pressure (%s)", FormatPressure(t.CHPressure())),
			Details:  map[string]interface{}{"ch_pressure": t.CHPressure().Value().Float64()},
		})
	}

	if secondary.BurnerBlock {
		errors = append(errors, ValidationError{
			Type:     AnomalyBurnerBlock,
			Severity: SeverityWarning,
			Message:  "Burner blocked",
			Details:  map[string]interface{}{},
		})
	}

	if t.CHPressure().SensorAbsent() {
		errors = append(errors, ValidationError{
			Type:     AnomalyNoPressureSensor,
			Severity: SeverityInfo,
			Message:  "No pressure sensor, CH pressure reported as sentinel",
			Details:  map[string]interface{}{"ch_pressure": PressureSentinel.Float64()},
		})
	}

	if !IsKnownStatus(t.DisplayCode()) {
		errors = append(errors, ValidationError{
			Type:     AnomalyUnknownStatus,
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("Unrecognised display code %d", t.DisplayCode()),
			Details:  map[string]interface{}{"display_code": t.DisplayCode()},
		})
	}

	return errors
}

// HasWarnings reports whether any anomaly in errs needs attention
func HasWarnings(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityWarning {
			return true
		}
	}
	return false
}
