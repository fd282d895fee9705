// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package intergas

import "testing"

// ============================================================
// Fixed-Point Decoding Tests
// ============================================================

func TestDecodeFixedPoint_PositiveBranchExhaustive(t *testing.T) {
	for high := 0; high <= 127; high++ {
		for low := 0; low <= 255; low++ {
			got := DecodeFixedPoint(byte(low), byte(high))
			want := int32(high*265 + low)
			if got.Hundredths() != want {
				t.Fatalf("DecodeFixedPoint(%d, %d) = %d hundredths, want %d", low, high, got.Hundredths(), want)
			}
		}
	}
}

func TestDecodeFixedPoint_NegativeBranchExhaustive(t *testing.T) {
	for high := 128; high <= 255; high++ {
		for low := 0; low <= 255; low++ {
			got := DecodeFixedPoint(byte(low), byte(high))
			want := -int32(((high^255)+1)*256*100) - int32(low)
			if got.Hundredths() != want {
				t.Fatalf("DecodeFixedPoint(%d, %d) = %d hundredths, want %d", low, high, got.Hundredths(), want)
			}
		}
	}
}

func TestDecodeFixedPoint_KnownValues(t *testing.T) {
	tests := []struct {
		name     string
		low      byte
		high     byte
		expected string
	}{
		{"zero", 0x00, 0x00, "0.00"},
		{"low byte only", 0x05, 0x00, "0.05"},
		{"uses 265 multiplier", 0x10, 0x08, "21.36"},
		{"largest positive", 0xFF, 0x7F, "339.10"},
		{"minus one whole step", 0x00, 0xFF, "-256.00"},
		{"negative with fraction", 0x32, 0xFF, "-256.50"},
		{"most negative", 0xFF, 0x80, "-32770.55"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeFixedPoint(tt.low, tt.high).String()
			if got != tt.expected {
				t.Errorf("DecodeFixedPoint(0x%02X, 0x%02X) = %s, want %s", tt.low, tt.high, got, tt.expected)
			}
		})
	}
}

func TestFixedPoint_Float64(t *testing.T) {
	if f := DecodeFixedPoint(0x10, 0x08).Float64(); f != 21.36 {
		t.Errorf("Float64() = %v, want 21.36", f)
	}
	if f := PressureSentinel.Float64(); f != -35 {
		t.Errorf("PressureSentinel.Float64() = %v, want -35", f)
	}
}

func TestFixedPoint_StringSmallNegative(t *testing.T) {
	if s := FixedPoint(-5).String(); s != "-0.05" {
		t.Errorf("FixedPoint(-5).String() = %q, want \"-0.05\"", s)
	}
}

func TestFixedPointFromFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want FixedPoint
	}{
		{21.36, 2136},
		{-35, -3500},
		{0, 0},
		{-0.01, -1},
	}
	for _, tt := range tests {
		if got := FixedPointFromFloat(tt.in); got != tt.want {
			t.Errorf("FixedPointFromFloat(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// ============================================================
// Fixed-Point Encoding Tests
// ============================================================

func TestEncodeFixedPoint_RoundTripAllPairs(t *testing.T) {
	for high := 0; high <= 255; high++ {
		for low := 0; low <= 255; low++ {
			v := DecodeFixedPoint(byte(low), byte(high))
			r, ok := EncodeFixedPoint(v)
			if !ok {
				t.Fatalf("EncodeFixedPoint(%s) not representable, from (%d, %d)", v, low, high)
			}
			if r.Low != byte(low) || r.High != byte(high) {
				t.Fatalf("EncodeFixedPoint(%s) = (%d, %d), want (%d, %d)", v, r.Low, r.High, low, high)
			}
		}
	}
}

func TestEncodeFixedPoint_Unrepresentable(t *testing.T) {
	tests := []struct {
		name string
		v    FixedPoint
	}{
		{"positive gap in 265 step", 260},
		{"above positive range", 127*265 + 256},
		{"small negative", -100},
		{"negative with large fraction", -25600 - 300},
		{"below negative range", -129 * 25600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := EncodeFixedPoint(tt.v); ok {
				t.Errorf("EncodeFixedPoint(%d) should not be representable", tt.v)
			}
		})
	}
}
