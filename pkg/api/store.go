// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package api

import (
	"sync"
	"time"

	"github.com/Thermoquad/intergastat/pkg/intergas"
	"github.com/Thermoquad/intergastat/pkg/pcinterface"
)

// subscriberBuffer is how many readings a slow stream client may lag behind
// before readings are dropped for it
const subscriberBuffer = 4

// Snapshot is the latest successfully decoded reading
type Snapshot struct {
	Telemetry intergas.Telemetry
	Frame     []byte
	Anomalies []intergas.ValidationError
	Timestamp time.Time
}

// Store holds the latest reading and fans new readings out to subscribers
type Store struct {
	mu     sync.RWMutex
	latest *Snapshot
	stats  *intergas.Statistics
	subs   map[chan Snapshot]struct{}
}

// NewStore returns an empty store reporting the given statistics
func NewStore(stats *intergas.Statistics) *Store {
	if stats == nil {
		stats = intergas.NewStatistics()
	}
	return &Store{
		stats: stats,
		subs:  make(map[chan Snapshot]struct{}),
	}
}

// Update records a poll outcome. Failed polls leave the latest reading as is.
func (s *Store) Update(r pcinterface.Reading) {
	if !r.OK() {
		return
	}
	snap := Snapshot{
		Telemetry: r.Telemetry,
		Frame:     append([]byte(nil), r.Frame...),
		Anomalies: r.Anomalies,
		Timestamp: r.Timestamp,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = &snap
	for ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Latest returns the most recent reading, or false before the first one
func (s *Store) Latest() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return Snapshot{}, false
	}
	return *s.latest, true
}

// Statistics returns a copy of the poll counters
func (s *Store) Statistics() intergas.StatisticsSnapshot {
	return s.stats.Snapshot()
}

// Subscribe registers for new readings. The returned function unsubscribes
// and closes the channel.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, subscriberBuffer)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the number of active subscriptions
func (s *Store) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
