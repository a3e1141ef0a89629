// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package console

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"periph.io/x/conn/v3/display"
)

// Strip is a one row display.Drawer that prints ANSI 256 color blocks. It is
// used to show the humidity gauge in front of the sample line.
//
// Every Draw rewrites the current terminal line and leaves the cursor after
// the strip.
type Strip struct {
	w       io.Writer
	palette *ansi256.Palette
	pixels  []color.NRGBA
	buf     bytes.Buffer
}

// NewStrip returns a Strip of width pixels. p can be nil.
func NewStrip(w io.Writer, width int, p *ansi256.Palette) *Strip {
	if p == nil {
		p = ansi256.Default
	}
	return &Strip{w: w, palette: p, pixels: make([]color.NRGBA, width)}
}

func (s *Strip) String() string {
	return fmt.Sprintf("console.Strip{%d}", len(s.pixels))
}

// Halt implements conn.Resource. It resets the terminal colors and ends the
// line.
func (s *Strip) Halt() error {
	_, err := io.WriteString(s.w, reset+"\n")
	return err
}

// ColorModel implements display.Drawer.
func (s *Strip) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (s *Strip) Bounds() image.Rectangle {
	return image.Rect(0, 0, len(s.pixels), 1)
}

// Draw implements display.Drawer. Only the first row of src is used.
func (s *Strip) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(s.Bounds())
	for x := r.Min.X; x < r.Max.X; x++ {
		c := color.NRGBAModel.Convert(src.At(sp.X+x-r.Min.X, sp.Y)).(color.NRGBA)
		s.pixels[x] = c
	}
	return s.refresh()
}

func (s *Strip) refresh() error {
	s.buf.Reset()
	_, _ = s.buf.WriteString("\r" + reset)
	for _, c := range s.pixels {
		_, _ = s.buf.WriteString(s.palette.Block(c))
	}
	_, _ = s.buf.WriteString(reset + " ")
	_, err := s.buf.WriteTo(s.w)
	return err
}

var _ display.Drawer = &Strip{}
