// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !linux

package i2cdev

import "errors"

var errUnsupported = errors.New("/dev/i2c-N devices are only available on linux")

type devfs struct{}

func (devfs) open(string) (int, error)       { return closedFD, errUnsupported }
func (devfs) bind(int, uint16) error         { return errUnsupported }
func (devfs) read(int, []byte) (int, error)  { return 0, errUnsupported }
func (devfs) write(int, []byte) (int, error) { return 0, errUnsupported }
func (devfs) close(int) error                { return errUnsupported }
