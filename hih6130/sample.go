// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hih6130

import (
	"fmt"

	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/hih6130/common"
)

// Status is the operating mode reported in the two high bits of every
// measurement.
type Status uint8

const (
	// StatusNormal means the measurement is fresh.
	StatusNormal Status = iota
	// StatusStaleData means the measurement was already fetched since the
	// last measurement cycle.
	StatusStaleData
	// StatusCommandMode means the device is in command mode.
	StatusCommandMode
	// StatusDiagnostic means the device detected a diagnostic condition.
	StatusDiagnostic
)

func (s Status) String() string {
	switch s {
	case StatusNormal:
		return "normal"
	case StatusStaleData:
		return "stale data"
	case StatusCommandMode:
		return "command mode"
	case StatusDiagnostic:
		return "diagnostic"
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

const (
	// SampleSize is the number of bytes returned by a measurement.
	SampleSize = 4

	// countMax is 2^14-1, the full scale of both 14 bit counts.
	countMax = 16384.0 - 1
)

// Sample is one decoded measurement.
type Sample struct {
	Status Status
	// Raw 14 bit counts as reported by the sensor.
	HumidityCount    uint16
	TemperatureCount uint16
	// Humidity is the relative humidity in percent. It is not clamped to
	// [0, 100].
	Humidity float64
	// Celsius is the temperature. Fahrenheit is derived from it.
	Celsius    float64
	Fahrenheit float64
}

// Decode converts a raw measurement into a Sample.
func Decode(raw [SampleSize]byte) Sample {
	hCount := uint16(raw[0]&0x3f)<<8 | uint16(raw[1])
	// The two low bits of the temperature are padding.
	tCount := (uint16(raw[2])<<8 | uint16(raw[3])) >> 2

	// RH% = count / (2^14-1) * 100
	humidity := float64(hCount) / countMax * 100.0
	// T = count * 165 / (2^14-1) - 40
	celsius := float64(tCount)*(165.0/countMax) - 40.0

	return Sample{
		Status:           Status(raw[0]>>6) & 0x03,
		HumidityCount:    hCount,
		TemperatureCount: tCount,
		Humidity:         humidity,
		Celsius:          celsius,
		Fahrenheit:       celsius*1.8 + 32.0,
	}
}

// DecodeBytes is Decode for a slice. b must be exactly SampleSize bytes long.
func DecodeBytes(b []byte) (Sample, error) {
	if len(b) != SampleSize {
		return Sample{}, common.Wrap(common.ReadFailed, "hih6130: decode",
			fmt.Errorf("got %d bytes, expected %d", len(b), SampleSize))
	}
	var raw [SampleSize]byte
	copy(raw[:], b)
	return Decode(raw), nil
}

// Env returns the sample in periph units. Pressure is left at 0.
func (s Sample) Env() physic.Env {
	return physic.Env{
		Temperature: physic.ZeroCelsius + physic.Temperature(s.Celsius*float64(physic.Kelvin)),
		Humidity:    physic.RelativeHumidity(s.Humidity * float64(physic.PercentRH)),
	}
}

func (s Sample) String() string {
	return fmt.Sprintf("%.2f°C %.2f°F %.2f%%rH (%s)", s.Celsius, s.Fahrenheit, s.Humidity, s.Status)
}
