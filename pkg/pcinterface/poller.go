// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package pcinterface

import (
	"context"
	"errors"
	"time"

	"github.com/Thermoquad/intergastat/pkg/intergas"
	"github.com/Thermoquad/intergastat/pkg/logger"
)

// Reading is the outcome of one poll
type Reading struct {
	Telemetry intergas.Telemetry
	Frame     []byte
	Anomalies []intergas.ValidationError
	Timestamp time.Time
	Err       error
}

// OK reports whether the poll produced a decoded reading
func (r Reading) OK() bool {
	return r.Err == nil
}

// Handler receives every poll outcome, including failures
type Handler func(Reading)

// Poller queries the controller on a fixed delay
type Poller struct {
	client   *Client
	interval time.Duration
	log      *logger.Logger
	stats    *intergas.Statistics
}

// NewPoller returns a poller waiting interval between the end of one poll
// and the start of the next
func NewPoller(client *Client, interval time.Duration, log *logger.Logger) *Poller {
	if log == nil {
		log = logger.Nop()
	}
	return &Poller{
		client:   client,
		interval: interval,
		log:      log,
		stats:    intergas.NewStatistics(),
	}
}

// Stats returns the poller's running statistics
func (p *Poller) Stats() *intergas.Statistics {
	return p.stats
}

// PollOnce performs a single query, decode and validation
func (p *Poller) PollOnce(ctx context.Context) Reading {
	t, frame, err := p.client.Read(ctx)
	r := Reading{
		Frame:     frame,
		Timestamp: time.Now(),
		Err:       err,
	}

	if err != nil {
		// Shutdown is not a read error
		if errors.Is(err, context.Canceled) {
			return r
		}
		p.stats.Update(err, nil)
		p.log.Warnw("poll failed", "error", err, "bytes", len(frame))
		return r
	}

	r.Telemetry = t
	r.Anomalies = intergas.ValidateTelemetry(t)
	p.stats.Update(nil, r.Anomalies)

	p.log.Debugw("frame decoded",
		"status", t.StatusLabel(),
		"flow", t.FlowTemp().String(),
		"return", t.ReturnTemp().String(),
		"pressure", t.CHPressure().String())
	for _, a := range r.Anomalies {
		if a.Severity == intergas.SeverityWarning {
			p.log.Warnw("anomaly", "type", a.Type.String(), "message", a.Message)
		}
	}
	return r
}

// Run polls until ctx is cancelled. Failed polls are passed to handler and
// never stop the loop.
func (p *Poller) Run(ctx context.Context, handler Handler) error {
	p.log.Infow("polling started", "interval", p.interval.String())
	defer p.log.Infow("polling stopped")

	for {
		r := p.PollOnce(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if handler != nil {
			handler(r)
		}

		timer := time.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}
