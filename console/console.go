// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package console renders humidity samples on a terminal.
package console

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"os"
	"sync"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/GermanBionicSystems/hih6130/hih6130"
)

const reset = "\033[0m"

// Coldest and hottest temperature the sensor can report.
const (
	minCelsius = -40.0
	maxCelsius = 125.0
)

// Printer writes one line per sample.
type Printer struct {
	w       io.Writer
	color   bool
	palette *ansi256.Palette

	mu  sync.Mutex
	buf bytes.Buffer
}

// NewPrinter returns a Printer writing to w. When color is set each line
// starts with a block colored after the temperature.
func NewPrinter(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color, palette: ansi256.Default}
}

// Stdout returns a writer for os.Stdout that understands ANSI escapes on
// every platform, and whether stdout is a terminal.
func Stdout() (io.Writer, bool) {
	fd := os.Stdout.Fd()
	return colorable.NewColorableStdout(), isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Format returns the text of a sample line, without color or line feed.
func Format(s hih6130.Sample) string {
	line := fmt.Sprintf("TempC: %.2f  TempF: %.2f  Humidity: %.2f", s.Celsius, s.Fahrenheit, s.Humidity)
	if s.Status != hih6130.StatusNormal {
		line += "  Status: " + s.Status.String()
	}
	return line
}

// Publish writes the sample line.
func (p *Printer) Publish(s hih6130.Sample) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buf.Reset()
	if p.color {
		_, _ = p.buf.WriteString(p.palette.Block(TemperatureColor(s.Celsius)))
		_, _ = p.buf.WriteString(reset + " ")
	}
	_, _ = p.buf.WriteString(Format(s))
	_ = p.buf.WriteByte('\n')
	_, err := p.buf.WriteTo(p.w)
	return err
}

// TemperatureColor maps the sensor range from blue (-40°C) to red (125°C).
func TemperatureColor(celsius float64) color.NRGBA {
	f := (celsius - minCelsius) / (maxCelsius - minCelsius)
	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	return color.NRGBA{R: uint8(255 * f), G: 0x20, B: uint8(255 * (1 - f)), A: 255}
}
