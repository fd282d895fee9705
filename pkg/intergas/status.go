// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package intergas

import "fmt"

var statusLabels = map[uint8]string{
	DisplayDHW:        "Domestic hot water",
	DisplayCHActive:   "Central heating active",
	DisplayCHIdle:     "Central heating idle",
	DisplayDHWPostRun: "Domestic hot water post-run",
	DisplayCHPostRun:  "Central heating post-run",
}

// StatusLabel returns the operating-state label for a display code.
// Unrecognised codes map to "Unknown (<code>)".
func StatusLabel(code uint8) string {
	if label, ok := statusLabels[code]; ok {
		return label
	}
	return fmt.Sprintf("Unknown (%d)", code)
}

// IsKnownStatus reports whether code has a dedicated label
func IsKnownStatus(code uint8) bool {
	_, ok := statusLabels[code]
	return ok
}
