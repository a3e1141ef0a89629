// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hih6130

import (
	"errors"
	"math"
	"testing"
	"time"

	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/hih6130/common"
)

// Playback values for a single measurement.
func pbSample(r ...byte) []i2ctest.IO {
	return []i2ctest.IO{
		{Addr: DefaultAddress, W: []byte{cmdMeasure}},
		{Addr: DefaultAddress, R: r},
	}
}

// faultBus fails writes or reads with the configured errors.
type faultBus struct {
	writeErr error
	readErr  error
	writes   int
	reads    int
}

func (f *faultBus) String() string { return "faultBus" }

func (f *faultBus) Tx(addr uint16, w, r []byte) error {
	if len(w) != 0 {
		f.writes++
		return f.writeErr
	}
	if len(r) != 0 {
		f.reads++
		return f.readErr
	}
	return nil
}

func (f *faultBus) SetSpeed(physic.Frequency) error { return nil }

func TestNewI2C(t *testing.T) {
	if _, err := NewI2C(nil, nil); err == nil {
		t.Error("NewI2C() accepted a nil bus")
	}
	d, err := NewI2C(&i2ctest.Playback{}, &Opts{})
	if err != nil {
		t.Fatal(err)
	}
	if d.opts != DefaultOpts {
		t.Errorf("zero Opts not defaulted: %#v", d.opts)
	}
	d, err = NewI2C(&i2ctest.Playback{}, &Opts{Addr: 0x28, SettleDelay: 5 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	if d.d.Addr != 0x28 || d.opts.SettleDelay != 5*time.Millisecond {
		t.Errorf("Opts not applied: %#v", d.opts)
	}
}

func TestReadSample(t *testing.T) {
	bus := i2ctest.Playback{Ops: pbSample(0x40, 0x00, 0x80, 0x00)}
	d, err := NewI2C(&bus, nil)
	if err != nil {
		t.Fatal(err)
	}
	s, err := d.ReadSample()
	if err != nil {
		t.Fatal(err)
	}
	if s.Status != StatusStaleData {
		t.Errorf("status %s expected %s", s.Status, StatusStaleData)
	}
	if s.TemperatureCount != 8192 || s.HumidityCount != 0 {
		t.Errorf("counts %d/%d expected 0/8192", s.HumidityCount, s.TemperatureCount)
	}
	if math.Abs(s.Celsius-42.505) > 0.001 {
		t.Errorf("celsius %f expected 42.505", s.Celsius)
	}
	if math.Abs(s.Fahrenheit-108.509) > 0.001 {
		t.Errorf("fahrenheit %f expected 108.509", s.Fahrenheit)
	}
	if s.Humidity != 0 {
		t.Errorf("humidity %f expected 0", s.Humidity)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestReadSampleSettleDelay(t *testing.T) {
	bus := i2ctest.Playback{Ops: pbSample(0x00, 0x00, 0x00, 0x00)}
	d, err := NewI2C(&bus, &Opts{SettleDelay: 20 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	start := time.Now()
	if _, err := d.ReadSample(); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("read returned after %s, before the settle delay", elapsed)
	}
}

func TestReadSampleCommandFailed(t *testing.T) {
	bus := &faultBus{writeErr: errors.New("remote I/O error")}
	d, err := NewI2C(bus, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.ReadSample(); !errors.Is(err, common.CommandFailed) {
		t.Errorf("expected CommandFailed, got %v", err)
	}
	if bus.reads != 0 {
		t.Error("read attempted after the command failed")
	}
}

func TestReadSampleReadFailed(t *testing.T) {
	short := common.Wrap(common.ReadFailed, "i2cdev: read", errors.New("short read: 3 of 4 bytes"))
	for _, readErr := range []error{short, errors.New("remote I/O error")} {
		bus := &faultBus{readErr: readErr}
		d, err := NewI2C(bus, nil)
		if err != nil {
			t.Fatal(err)
		}
		s, err := d.ReadSample()
		if !errors.Is(err, common.ReadFailed) {
			t.Errorf("expected ReadFailed, got %v", err)
		}
		if s != (Sample{}) {
			t.Errorf("sample returned on failure: %#v", s)
		}
		if bus.writes != 1 || bus.reads != 1 {
			t.Errorf("expected one write and one read, got %d/%d", bus.writes, bus.reads)
		}
	}
}

func TestSense(t *testing.T) {
	bus := i2ctest.Playback{Ops: pbSample(0xff, 0xff, 0xff, 0xfc)}
	d, err := NewI2C(&bus, nil)
	if err != nil {
		t.Fatal(err)
	}
	e := physic.Env{Pressure: physic.Pascal}
	if err := d.Sense(&e); err != nil {
		t.Fatal(err)
	}
	if expected := 100 * physic.PercentRH; e.Humidity != expected {
		t.Errorf("humidity %s(%d) != %s(%d)", e.Humidity, e.Humidity, expected, expected)
	}
	if diff := math.Abs(e.Temperature.Celsius() - 125); diff > 1e-6 {
		t.Errorf("temperature %s expected 125°C", e.Temperature)
	}
	if e.Pressure != 0 {
		t.Errorf("pressure %s expected 0", e.Pressure)
	}
	if err := bus.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestSenseContinuous(t *testing.T) {
	readCount := 5
	pb := make([]i2ctest.IO, 0, 2*(readCount+2))
	for range readCount + 2 {
		pb = append(pb, pbSample(0x1b, 0x2c, 0x5e, 0x00)...)
	}
	d, err := NewI2C(&i2ctest.Playback{Ops: pb, DontPanic: true}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.SenseContinuous(time.Microsecond); err == nil {
		t.Error("SenseContinuous() accepted an interval shorter than the settle delay")
	}
	ch, err := d.SenseContinuous(10 * time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.SenseContinuous(10 * time.Millisecond); err == nil {
		t.Error("expected an error for a concurrent SenseContinuous")
	}
	expected := Decode([SampleSize]byte{0x1b, 0x2c, 0x5e, 0x00}).Env()
	for range readCount {
		select {
		case e := <-ch:
			if e != expected {
				t.Errorf("got %v expected %v", e, expected)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for a reading")
		}
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	for range ch {
	}
	// A second Halt is a no-op.
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
}

func TestBasic(t *testing.T) {
	d, err := NewI2C(&i2ctest.Playback{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.String()) == 0 {
		t.Error("invalid value for String()")
	}
	e := physic.Env{}
	d.Precision(&e)
	if e.Temperature != 10071415*physic.NanoKelvin {
		t.Errorf("temperature precision %s(%d)", e.Temperature, e.Temperature)
	}
	if e.Humidity != 610*physic.TenthMicroRH {
		t.Errorf("humidity precision %s(%d)", e.Humidity, e.Humidity)
	}
	if e.Pressure != 0 {
		t.Error("this device doesn't measure pressure")
	}
}
