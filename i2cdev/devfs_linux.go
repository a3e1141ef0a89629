// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build linux

package i2cdev

import "golang.org/x/sys/unix"

// ioctlSlave is I2C_SLAVE from linux/i2c-dev.h.
const ioctlSlave = 0x0703

type devfs struct{}

func (devfs) open(path string) (int, error) {
	return unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
}

func (devfs) bind(fd int, addr uint16) error {
	return unix.IoctlSetInt(fd, ioctlSlave, int(addr))
}

func (devfs) read(fd int, b []byte) (int, error) {
	return unix.Read(fd, b)
}

func (devfs) write(fd int, b []byte) (int, error) {
	return unix.Write(fd, b)
}

func (devfs) close(fd int) error {
	return unix.Close(fd)
}
