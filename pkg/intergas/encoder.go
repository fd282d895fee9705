// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package intergas

// RawReading is a reading as it appears on the wire
type RawReading struct {
	Low  byte
	High byte
}

// RawFields holds the undecoded contents of a status frame.
// Readings are in frame order: flue, flow, return, domestic hot water,
// boiler, outdoor, CH pressure, temperature setpoint, fan speed setpoint,
// fan speed, fan PWM, io current.
type RawFields struct {
	Readings       [12]RawReading
	DisplayCode    uint8
	PrimaryFlags   PrimaryFlags
	SecondaryFlags SecondaryFlags
}

// EncodeFrame builds the 32-byte frame carrying fields.
// Undecoded bytes are left zero.
func EncodeFrame(fields RawFields) []byte {
	frame := make([]byte, FrameSize)
	for i, r := range fields.Readings {
		frame[2*i] = r.Low
		frame[2*i+1] = r.High
	}
	frame[OffsetDisplayCode] = fields.DisplayCode
	frame[OffsetPrimaryFlags] = fields.PrimaryFlags.Byte()
	frame[OffsetSecondaryFlags] = fields.SecondaryFlags.Byte()
	return frame
}

// EncodeFixedPoint returns the wire bytes for v, the inverse of
// DecodeFixedPoint. ok is false when no byte pair decodes to v.
//
// Because of the 265 multiplier the positive range has gaps: only
// values of the form high*265 + low (low <= 255) are representable.
func EncodeFixedPoint(v FixedPoint) (r RawReading, ok bool) {
	h := int32(v)
	if h >= 0 {
		high := h / positiveHighMultiplier
		low := h % positiveHighMultiplier
		if high > highByteSignThreshold || low > 0xFF {
			return RawReading{}, false
		}
		return RawReading{Low: byte(low), High: byte(high)}, true
	}

	mag := -h
	low := mag % (negativeHighMultiplier * fixedPointScale)
	whole := mag / (negativeHighMultiplier * fixedPointScale)
	if low > 0xFF || whole < 1 || whole > 128 {
		return RawReading{}, false
	}
	return RawReading{Low: byte(low), High: byte(whole-1) ^ 0xFF}, true
}
