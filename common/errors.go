// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains the error taxonomy shared by the bus session and
// the sensor driver.
package common

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a bus or sensor failure. It implements error so it can
// be used as the target of errors.Is.
type ErrorKind string

func (k ErrorKind) Error() string { return string(k) }

const (
	// BusOpenFailed is returned when the bus device cannot be opened.
	BusOpenFailed ErrorKind = "bus open failed"
	// BusBindFailed is returned when the slave address cannot be bound to
	// the open handle.
	BusBindFailed ErrorKind = "bus bind failed"
	// WriteFailed is a failed or short write on the bus.
	WriteFailed ErrorKind = "write failed"
	// CommandFailed is returned when the measurement command could not be
	// sent to the sensor.
	CommandFailed ErrorKind = "command failed"
	// ReadFailed is a failed or short read on the bus.
	ReadFailed ErrorKind = "read failed"
)

// Error carries an ErrorKind together with the operation that failed and the
// underlying cause.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// Wrap returns a new *Error. op is a short "pkg: operation" prefix.
func Wrap(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the ErrorKind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == e.Kind
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	var k ErrorKind
	if errors.As(err, &k) {
		return k, true
	}
	return "", false
}
