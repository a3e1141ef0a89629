// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hih6130 controls a Honeywell HumidIcon HIH6130 (and the rest of the
// HIH61xx family) humidity and temperature sensor over I²C.
//
// A measurement is a single zero byte written to the sensor, a short settle
// delay, and a 4 byte read:
//
//	byte 0      byte 1      byte 2       byte 3
//	S1 S0 H13-H8 | H7-H0   | T13-T6     | T5-T0 x x
//
// S1..S0 is the status, H13..H0 the humidity count and T13..T0 the
// temperature count. The two lowest bits of byte 3 are unused.
//
// The hih6130.Dev type implements the physic.SenseEnv interface. Pressure is
// never set.
//
// # Datasheet
//
// https://sensing.honeywell.com/i2c-comms-humidicon-tn-009061-2-en-final-07jun12.pdf
package hih6130
