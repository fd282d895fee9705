// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package intergas

import (
	"fmt"
	"testing"
)

func TestStatusLabel_KnownCodes(t *testing.T) {
	tests := []struct {
		code  uint8
		label string
	}{
		{51, "Domestic hot water"},
		{102, "Central heating active"},
		{126, "Central heating idle"},
		{204, "Domestic hot water post-run"},
		{231, "Central heating post-run"},
	}
	for _, tt := range tests {
		if got := StatusLabel(tt.code); got != tt.label {
			t.Errorf("StatusLabel(%d) = %q, want %q", tt.code, got, tt.label)
		}
		if !IsKnownStatus(tt.code) {
			t.Errorf("IsKnownStatus(%d) = false", tt.code)
		}
	}
}

func TestStatusLabel_Total(t *testing.T) {
	known := map[int]bool{51: true, 102: true, 126: true, 204: true, 231: true}
	for code := 0; code < 256; code++ {
		label := StatusLabel(uint8(code))
		if label == "" {
			t.Fatalf("StatusLabel(%d) is empty", code)
		}
		if known[code] {
			continue
		}
		if want := fmt.Sprintf("Unknown (%d)", code); label != want {
			t.Errorf("StatusLabel(%d) = %q, want %q", code, label, want)
		}
		if IsKnownStatus(uint8(code)) {
			t.Errorf("IsKnownStatus(%d) = true", code)
		}
	}
}
