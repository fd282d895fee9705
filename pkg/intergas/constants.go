// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package intergas decodes the status frame returned by the PC interface of
// Intergas boiler controllers.
//
// The controller answers a single query with a fixed 32-byte frame holding
// twelve 2-byte fixed-point readings, a display code and two flag registers.
// There is no framing, no length prefix and no checksum: the only structural
// check available is the frame length. Decoding is a pure function of the
// bytes and is safe for concurrent use.
package intergas

// FrameSize is the length of a status frame in bytes
const FrameSize = 32

// Byte offsets of the 2-byte readings (low byte first)
const (
	OffsetFlueTemp         = 0
	OffsetFlowTemp         = 2
	OffsetReturnTemp       = 4
	OffsetDHWTemp          = 6
	OffsetBoilerTemp       = 8
	OffsetOutdoorTemp      = 10
	OffsetCHPressure       = 12
	OffsetTempSetpoint     = 14
	OffsetFanSpeedSetpoint = 16
	OffsetFanSpeed         = 18
	OffsetFanPWM           = 20
	OffsetIOCurrent        = 22
)

// Byte offsets of the single-byte fields.
// Bytes 25, 26, 28, 30 and 31 are not decoded.
const (
	OffsetDisplayCode    = 24
	OffsetPrimaryFlags   = 27
	OffsetSecondaryFlags = 29
)

// Display codes reported in byte 24
const (
	DisplayDHW        = 51
	DisplayCHActive   = 102
	DisplayCHIdle     = 126
	DisplayDHWPostRun = 204
	DisplayCHPostRun  = 231
)

// Fixed-point encoding
const (
	fixedPointScale        = 100
	negativeHighMultiplier = 256
	positiveHighMultiplier = 265 // observed device behaviour, not 256
	highByteSignThreshold  = 127
)

// PressureSentinel is the value reported for ch_pressure when the
// controller has no pressure sensor fitted.
const PressureSentinel FixedPoint = -35 * fixedPointScale
