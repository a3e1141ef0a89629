// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package monitor polls a humidity sensor at a fixed interval and hands every
// sample to a set of sinks.
package monitor

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/GermanBionicSystems/hih6130/hih6130"
)

// DefaultInterval is the wait between two reads.
const DefaultInterval = time.Second

// Sensor is the part of hih6130.Dev used by the monitor.
type Sensor interface {
	ReadSample() (hih6130.Sample, error)
}

// Sink receives every successful sample.
type Sink interface {
	Publish(s hih6130.Sample) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(s hih6130.Sample) error

// Publish calls f(s).
func (f SinkFunc) Publish(s hih6130.Sample) error {
	return f(s)
}

// Config controls the polling loop.
type Config struct {
	// Interval between reads. 0 means DefaultInterval.
	Interval time.Duration
	// KeepGoing logs read errors and retries on the next cycle. When false
	// the first read error stops Run and is returned.
	KeepGoing bool
	// MaxSamples stops Run after that many reads. 0 means forever.
	MaxSamples int
	// Logger defaults to the logrus standard logger.
	Logger log.FieldLogger
}

// Stats are the counters of a Monitor.
type Stats struct {
	Reads    int
	Failures int
	Last     hih6130.Sample
	LastErr  error
}

// Monitor runs the polling loop.
type Monitor struct {
	sensor Sensor
	sinks  []Sink
	cfg    Config
	log    log.FieldLogger

	mu    sync.Mutex
	stats Stats
}

// New returns a Monitor reading from sensor.
func New(sensor Sensor, cfg Config, sinks ...Sink) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = log.StandardLogger()
	}
	return &Monitor{
		sensor: sensor,
		sinks:  sinks,
		cfg:    cfg,
		log:    cfg.Logger.WithField("component", "monitor"),
	}
}

// Run reads the sensor, publishes the sample and waits for the interval,
// until ctx is done, MaxSamples is reached or a read fails without
// KeepGoing. Cancellation is not an error.
func (m *Monitor) Run(ctx context.Context) error {
	t := time.NewTimer(0)
	defer t.Stop()
	for n := 0; m.cfg.MaxSamples == 0 || n < m.cfg.MaxSamples; n++ {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}

		if _, err := m.Poll(); err != nil {
			if !m.cfg.KeepGoing {
				return err
			}
			m.log.WithError(err).
				WithField("event", "poll").
				Warn("sensor read failed, retrying next cycle")
		}
		t.Reset(m.cfg.Interval)
	}
	return nil
}

// Poll does a single read and publishes the result.
func (m *Monitor) Poll() (hih6130.Sample, error) {
	s, err := m.sensor.ReadSample()

	m.mu.Lock()
	m.stats.Reads++
	m.stats.LastErr = err
	if err != nil {
		m.stats.Failures++
	} else {
		m.stats.Last = s
	}
	m.mu.Unlock()

	if err != nil {
		return s, err
	}

	m.log.WithField("event", "sample").
		WithField("status", s.Status.String()).
		WithField("celsius", s.Celsius).
		WithField("humidity", s.Humidity).
		Debug("sample read")

	for _, sink := range m.sinks {
		if err := sink.Publish(s); err != nil {
			m.log.WithError(err).
				WithField("event", "publish").
				Error("sink failed to publish sample")
		}
	}
	return s, nil
}

// Stats returns a copy of the counters.
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}
