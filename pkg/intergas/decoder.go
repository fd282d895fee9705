// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package intergas

import (
	"errors"
	"fmt"
)

// ErrUnexpectedLength matches any UnexpectedLengthError via errors.Is
var ErrUnexpectedLength = errors.New("unexpected frame length")

// UnexpectedLengthError is returned when a buffer is not exactly FrameSize bytes
type UnexpectedLengthError struct {
	Expected int
	Actual   int
}

// Error implements the error interface
func (e *UnexpectedLengthError) Error() string {
	return fmt.Sprintf("unexpected frame length: expected %d bytes, got %d", e.Expected, e.Actual)
}

// Is reports whether target is ErrUnexpectedLength
func (e *UnexpectedLengthError) Is(target error) bool {
	return target == ErrUnexpectedLength
}

func readingAt(frame []byte, offset int) FixedPoint {
	return DecodeFixedPoint(frame[offset], frame[offset+1])
}

// DecodeFrame decodes a status frame.
// The buffer is only read during the call and is not retained.
func DecodeFrame(frame []byte) (Telemetry, error) {
	if len(frame) != FrameSize {
		return Telemetry{}, &UnexpectedLengthError{Expected: FrameSize, Actual: len(frame)}
	}

	t := Telemetry{
		flueTemp:         readingAt(frame, OffsetFlueTemp),
		flowTemp:         readingAt(frame, OffsetFlowTemp),
		returnTemp:       readingAt(frame, OffsetReturnTemp),
		dhwTemp:          readingAt(frame, OffsetDHWTemp),
		boilerTemp:       readingAt(frame, OffsetBoilerTemp),
		outdoorTemp:      readingAt(frame, OffsetOutdoorTemp),
		tempSetpoint:     readingAt(frame, OffsetTempSetpoint),
		fanSpeedSetpoint: readingAt(frame, OffsetFanSpeedSetpoint),
		fanSpeed:         readingAt(frame, OffsetFanSpeed),
		fanPWM:           readingAt(frame, OffsetFanPWM),
		ioCurrent:        readingAt(frame, OffsetIOCurrent),
		primary:          UnpackPrimary(frame[OffsetPrimaryFlags]),
		secondary:        UnpackSecondary(frame[OffsetSecondaryFlags]),
		displayCode:      frame[OffsetDisplayCode],
	}
	t.statusLabel = StatusLabel(t.displayCode)

	// Without a sensor the raw pressure bytes are meaningless
	if t.secondary.PressureSensorPresent {
		t.chPressure = MeasuredPressure(readingAt(frame, OffsetCHPressure))
	} else {
		t.chPressure = AbsentPressure()
	}

	return t, nil
}
