// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package i2cdev opens a Linux I²C character device (/dev/i2c-N) and binds
// it to a single slave address with the I2C_SLAVE ioctl.
//
// A Session implements i2c.BusCloser so periph device drivers can use it in
// place of a bus from i2creg. Unlike a real bus, it only talks to the address
// it was bound to at Open; there is no way to rebind it.
package i2cdev

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/hih6130/common"
)

// DefaultPath is the bus device found on most Raspberry Pi style boards.
const DefaultPath = "/dev/i2c-1"

const closedFD = -1

var errClosed = errors.New("session is closed")

// ops are the platform calls used by a Session. devfs is the real
// implementation; tests swap in fakes.
type ops interface {
	open(path string) (int, error)
	bind(fd int, addr uint16) error
	read(fd int, b []byte) (int, error)
	write(fd int, b []byte) (int, error)
	close(fd int) error
}

var platform ops = devfs{}

// Session is an open bus device bound to one slave address.
//
// All transfers are serialised.
type Session struct {
	mu   sync.Mutex
	sys  ops
	path string
	addr uint16
	fd   int
}

// Open opens the bus device at path and binds it to addr. The address is not
// validated; an invalid one is rejected by the kernel with BusBindFailed.
//
// If the bind fails the device is closed before returning, so a failed Open
// never leaks a handle.
func Open(path string, addr uint16) (*Session, error) {
	return open(platform, path, addr)
}

func open(sys ops, path string, addr uint16) (*Session, error) {
	fd, err := sys.open(path)
	if err != nil {
		return nil, common.Wrap(common.BusOpenFailed, "i2cdev: open "+path, err)
	}
	if err := sys.bind(fd, addr); err != nil {
		_ = sys.close(fd)
		return nil, common.Wrap(common.BusBindFailed, fmt.Sprintf("i2cdev: bind %s to 0x%02x", path, addr), err)
	}
	return &Session{sys: sys, path: path, addr: addr, fd: fd}, nil
}

// Addr returns the slave address the session is bound to.
func (s *Session) Addr() uint16 {
	return s.addr
}

// Write sends exactly len(w) bytes to the device.
func (s *Session) Write(w []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(w)
}

// Read fills r from the device. Anything less than len(r) bytes is an error.
func (s *Session) Read(r []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(r)
}

// Tx implements i2c.Bus. It writes w then reads r as two separate
// transactions. addr must be the address the session was opened with.
func (s *Session) Tx(addr uint16, w, r []byte) error {
	if addr != s.addr {
		return common.Wrap(common.BusBindFailed, "i2cdev: tx",
			fmt.Errorf("session is bound to 0x%02x, not 0x%02x", s.addr, addr))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(w) != 0 {
		if err := s.write(w); err != nil {
			return err
		}
	}
	if len(r) != 0 {
		return s.read(r)
	}
	return nil
}

// SetSpeed implements i2c.Bus. The clock of a /dev/i2c-N bus is fixed by its
// kernel driver.
func (s *Session) SetSpeed(f physic.Frequency) error {
	return fmt.Errorf("i2cdev: can't set speed to %s; the bus clock is set by the kernel driver", f)
}

// Close releases the device. It is safe to call more than once. Errors from
// the platform close are ignored.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fd == closedFD {
		return nil
	}
	_ = s.sys.close(s.fd)
	s.fd = closedFD
	return nil
}

func (s *Session) String() string {
	return fmt.Sprintf("i2cdev(%s@0x%02x)", s.path, s.addr)
}

func (s *Session) write(w []byte) error {
	if s.fd == closedFD {
		return common.Wrap(common.WriteFailed, "i2cdev: write", errClosed)
	}
	n, err := s.sys.write(s.fd, w)
	if err != nil {
		return common.Wrap(common.WriteFailed, "i2cdev: write", err)
	}
	if n != len(w) {
		return common.Wrap(common.WriteFailed, "i2cdev: write", fmt.Errorf("short write: %d of %d bytes", n, len(w)))
	}
	return nil
}

func (s *Session) read(r []byte) error {
	if s.fd == closedFD {
		return common.Wrap(common.ReadFailed, "i2cdev: read", errClosed)
	}
	n, err := s.sys.read(s.fd, r)
	if err != nil {
		return common.Wrap(common.ReadFailed, "i2cdev: read", err)
	}
	if n != len(r) {
		return common.Wrap(common.ReadFailed, "i2cdev: read", fmt.Errorf("short read: %d of %d bytes", n, len(r)))
	}
	return nil
}

var _ i2c.BusCloser = &Session{}
