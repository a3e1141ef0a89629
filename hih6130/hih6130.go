// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hih6130

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/hih6130/common"
)

const (
	// DefaultAddress is the factory programmed I²C address.
	DefaultAddress uint16 = 0x27

	// DefaultSettleDelay is the wait between the measurement command and
	// the read. The sensor has no ready signal.
	DefaultSettleDelay = time.Millisecond

	cmdMeasure byte = 0x00
)

// Opts holds the configuration options for the device.
type Opts struct {
	// Addr is the I²C address. 0 means DefaultAddress.
	Addr uint16
	// SettleDelay is the time to wait after the measurement command. 0 means
	// DefaultSettleDelay.
	SettleDelay time.Duration
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	Addr:        DefaultAddress,
	SettleDelay: DefaultSettleDelay,
}

// Dev is a handle to a HIH6130 sensor.
type Dev struct {
	d    *i2c.Dev
	opts Opts

	mu       sync.Mutex
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// NewI2C returns a Dev that talks to the sensor over b. No bus traffic happens
// until the first read. opts can be nil.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if b == nil {
		return nil, errors.New("hih6130: nil bus")
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.Addr == 0 {
		o.Addr = DefaultAddress
	}
	if o.SettleDelay <= 0 {
		o.SettleDelay = DefaultSettleDelay
	}
	return &Dev{d: &i2c.Dev{Bus: b, Addr: o.Addr}, opts: o}, nil
}

// ReadSample triggers a measurement, waits for the settle delay and reads it
// back. There is no retry; a failed write is CommandFailed and a failed read
// is ReadFailed.
func (d *Dev) ReadSample() (Sample, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.d.Tx([]byte{cmdMeasure}, nil); err != nil {
		return Sample{}, common.Wrap(common.CommandFailed, "hih6130: measure", err)
	}
	time.Sleep(d.opts.SettleDelay)

	var raw [SampleSize]byte
	if err := d.d.Tx(nil, raw[:]); err != nil {
		return Sample{}, common.Wrap(common.ReadFailed, "hih6130: read", err)
	}
	return Decode(raw), nil
}

// Sense implements physic.SenseEnv.
func (d *Dev) Sense(e *physic.Env) error {
	s, err := d.ReadSample()
	if err != nil {
		return err
	}
	*e = s.Env()
	return nil
}

// SenseContinuous implements physic.SenseEnv. It reads the sensor every
// interval until Halt is called. Failed reads are skipped.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		return nil, errors.New("hih6130: SenseContinuous already running")
	}
	if floor := d.opts.SettleDelay + time.Millisecond; interval < floor {
		return nil, fmt.Errorf("hih6130: interval %s is shorter than %s", interval, floor)
	}
	d.shutdown = make(chan struct{})
	ch := make(chan physic.Env, 16)
	d.wg.Add(1)
	go d.senseLoop(interval, d.shutdown, ch)
	return ch, nil
}

func (d *Dev) senseLoop(interval time.Duration, stop <-chan struct{}, ch chan<- physic.Env) {
	defer d.wg.Done()
	defer close(ch)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			var e physic.Env
			if err := d.Sense(&e); err != nil {
				continue
			}
			select {
			case ch <- e:
			case <-stop:
				return
			}
		}
	}
}

// Halt implements conn.Resource. It stops a running SenseContinuous and
// waits for its channel to be closed.
func (d *Dev) Halt() error {
	d.mu.Lock()
	stop := d.shutdown
	d.shutdown = nil
	d.mu.Unlock()
	if stop != nil {
		close(stop)
		d.wg.Wait()
	}
	return nil
}

// Precision implements physic.SenseEnv. It is one count of each 14 bit value.
func (d *Dev) Precision(e *physic.Env) {
	k, rh := float64(physic.Kelvin), float64(physic.PercentRH)
	e.Temperature = physic.Temperature(165.0 / countMax * k)
	e.Humidity = physic.RelativeHumidity(100.0 / countMax * rh)
	e.Pressure = 0
}

func (d *Dev) String() string {
	return fmt.Sprintf("hih6130{%s}", d.d)
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
