// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// Intergastat - Intergas boiler PC interface monitor
//
// A CLI tool for reading, monitoring and publishing the status frames of
// Intergas boiler controllers.

package main

import (
	"os"

	"github.com/Thermoquad/intergastat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
