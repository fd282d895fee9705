// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package intergas

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Statistics tracks poll outcomes and anomaly rates. Safe for concurrent use.
type Statistics struct {
	mu sync.Mutex

	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	TotalFrames      uint64
	ValidFrames      uint64
	LengthErrors     uint64
	ReadErrors       uint64
	AnomalousFrames  uint64
	TempOutOfRange   uint64
	LowWaterPressure uint64
	Alarms           uint64
	BurnerBlocks     uint64

	// Rates (calculated)
	FrameRate float64 // frames/min
	ErrorRate float64 // errors/min
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Update records the outcome of one poll: a read or decode error, or a
// decoded reading with its validation results
func (s *Statistics) Update(err error, validationErrors []ValidationError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.TotalFrames++
	s.LastUpdateTime = time.Now()

	if err != nil {
		if errors.Is(err, ErrUnexpectedLength) {
			s.LengthErrors++
		} else {
			s.ReadErrors++
		}
		return
	}

	if !HasWarnings(validationErrors) {
		s.ValidFrames++
		return
	}

	s.AnomalousFrames++
	for _, v := range validationErrors {
		switch v.Type {
		case AnomalyTempOutOfRange:
			s.TempOutOfRange++
		case AnomalyLowWaterPressure:
			s.LowWaterPressure++
		case AnomalyAlarm:
			s.Alarms++
		case AnomalyBurnerBlock:
			s.BurnerBlocks++
		}
	}
}

// CalculateRates calculates frame and error rates
func (s *Statistics) CalculateRates() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calculateRates()
}

func (s *Statistics) calculateRates() {
	elapsed := time.Since(s.StartTime).Minutes()
	if elapsed > 0 {
		s.FrameRate = float64(s.TotalFrames) / elapsed
		s.ErrorRate = float64(s.LengthErrors+s.ReadErrors) / elapsed
	}
}

// StatisticsSnapshot is a point-in-time copy of the counters
type StatisticsSnapshot struct {
	Uptime           time.Duration `json:"uptime"`
	TotalFrames      uint64        `json:"total_frames"`
	ValidFrames      uint64        `json:"valid_frames"`
	LengthErrors     uint64        `json:"length_errors"`
	ReadErrors       uint64        `json:"read_errors"`
	AnomalousFrames  uint64        `json:"anomalous_frames"`
	TempOutOfRange   uint64        `json:"temp_out_of_range"`
	LowWaterPressure uint64        `json:"low_water_pressure"`
	Alarms           uint64        `json:"alarms"`
	BurnerBlocks     uint64        `json:"burner_blocks"`
	FrameRate        float64       `json:"frame_rate_per_min"`
	ErrorRate        float64       `json:"error_rate_per_min"`
}

// Snapshot returns a copy of the current counters with fresh rates
func (s *Statistics) Snapshot() StatisticsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calculateRates()
	return StatisticsSnapshot{
		Uptime:           time.Since(s.StartTime),
		TotalFrames:      s.TotalFrames,
		ValidFrames:      s.ValidFrames,
		LengthErrors:     s.LengthErrors,
		ReadErrors:       s.ReadErrors,
		AnomalousFrames:  s.AnomalousFrames,
		TempOutOfRange:   s.TempOutOfRange,
		LowWaterPressure: s.LowWaterPressure,
		Alarms:           s.Alarms,
		BurnerBlocks:     s.BurnerBlocks,
		FrameRate:        s.FrameRate,
		ErrorRate:        s.ErrorRate,
	}
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	snap := s.Snapshot()

	var validPercent, errorPercent, anomalousPercent float64
	if snap.TotalFrames > 0 {
		validPercent = float64(snap.ValidFrames) * 100.0 / float64(snap.TotalFrames)
		errorPercent = float64(snap.LengthErrors+snap.ReadErrors) * 100.0 / float64(snap.TotalFrames)
		anomalousPercent = float64(snap.AnomalousFrames) * 100.0 / float64(snap.TotalFrames)
	}

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", snap.Uptime.Seconds())
	result += fmt.Sprintf("Total Frames:    %8d\n", snap.TotalFrames)
	result += fmt.Sprintf("Valid Frames:    %8d (%.1f%%)\n", snap.ValidFrames, validPercent)

	if snap.LengthErrors > 0 || snap.ReadErrors > 0 {
		result += fmt.Sprintf("Failed Reads:    %8d (%.1f%%)\n", snap.LengthErrors+snap.ReadErrors, errorPercent)
		if snap.LengthErrors > 0 {
			result += fmt.Sprintf("  Short Frames:     %5d\n", snap.LengthErrors)
		}
		if snap.ReadErrors > 0 {
			result += fmt.Sprintf("  Read Errors:      %5d\n", snap.ReadErrors)
		}
	}
	if snap.AnomalousFrames > 0 {
		result += fmt.Sprintf("Anomalous:       %8d (%.1f%%)\n", snap.AnomalousFrames, anomalousPercent)
		if snap.TempOutOfRange > 0 {
			result += fmt.Sprintf("  Temp Range:       %5d\n", snap.TempOutOfRange)
		}
		if snap.LowWaterPressure > 0 {
			result += fmt.Sprintf("  Low Pressure:     %5d\n", snap.LowWaterPressure)
		}
		if snap.Alarms > 0 {
			result += fmt.Sprintf("  Alarms:           %5d\n", snap.Alarms)
		}
		if snap.BurnerBlocks > 0 {
			result += fmt.Sprintf("  Burner Blocks:    %5d\n", snap.BurnerBlocks)
		}
	}

	result += fmt.Sprintf("Frame Rate:      %8.1f frames/min\n", snap.FrameRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/min\n", snap.ErrorRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.StartTime = now
	s.LastUpdateTime = now
	s.TotalFrames = 0
	s.ValidFrames = 0
	s.LengthErrors = 0
	s.ReadErrors = 0
	s.AnomalousFrames = 0
	s.TempOutOfRange = 0
	s.LowWaterPressure = 0
	s.Alarms = 0
	s.BurnerBlocks = 0
	s.FrameRate = 0
	s.ErrorRate = 0
}
