// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package frame draws humidity samples as images, for pixel displays or
// PNG snapshots.
package frame

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/hih6130/console"
	"github.com/GermanBionicSystems/hih6130/hih6130"
)

var (
	background = color.NRGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}
	foreground = color.NRGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	water      = color.NRGBA{R: 0x20, G: 0x80, B: 0xff, A: 0xff}
)

var (
	fontOnce sync.Once
	fontTTF  *truetype.Font
	fontErr  error
)

func face(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		fontTTF, fontErr = truetype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fontErr
	}
	return truetype.NewFace(fontTTF, &truetype.Options{Size: size}), nil
}

func paint(s hih6130.Sample, w, h int) (*gg.Context, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("frame: invalid size %dx%d", w, h)
	}
	f, err := face(float64(h) / 5)
	if err != nil {
		return nil, err
	}
	dc := gg.NewContext(w, h)
	dc.SetColor(background)
	dc.Clear()

	// Humidity bar along the bottom edge, temperature swatch on the left.
	bar := float64(h) / 8
	dc.SetColor(water)
	dc.DrawRectangle(0, float64(h)-bar, float64(w)*clamp(s.Humidity/100), bar)
	dc.Fill()
	dc.SetColor(console.TemperatureColor(s.Celsius))
	dc.DrawRectangle(0, 0, bar, float64(h)-bar)
	dc.Fill()

	dc.SetFontFace(f)
	dc.SetColor(foreground)
	x := float64(w) / 2
	dc.DrawStringAnchored(fmt.Sprintf("%.2f°C  %.2f°F", s.Celsius, s.Fahrenheit), x, float64(h)*0.3, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%.2f%%rH", s.Humidity), x, float64(h)*0.6, 0.5, 0.5)
	if s.Status != hih6130.StatusNormal {
		dc.DrawStringAnchored(s.Status.String(), x, float64(h)*0.8, 0.5, 0.5)
	}
	return dc, nil
}

// Render draws s on a w×h image.
func Render(s hih6130.Sample, w, h int) (image.Image, error) {
	dc, err := paint(s, w, h)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// Gauge returns a one pixel high bar of width pixels, filled proportionally
// to the relative humidity.
func Gauge(s hih6130.Sample, width int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, 1))
	filled := int(float64(width)*clamp(s.Humidity/100) + 0.5)
	for x := 0; x < width; x++ {
		if x < filled {
			img.SetNRGBA(x, 0, water)
		} else {
			img.SetNRGBA(x, 0, background)
		}
	}
	return img
}

// Show draws img over the whole drawer.
func Show(d display.Drawer, img image.Image) error {
	return d.Draw(d.Bounds(), img, img.Bounds().Min)
}

func clamp(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// DrawerSink shows every sample on a display.
//
// A one row display gets the humidity gauge, anything taller the rendered
// frame.
type DrawerSink struct {
	Drawer display.Drawer
}

// Publish implements monitor.Sink.
func (d *DrawerSink) Publish(s hih6130.Sample) error {
	b := d.Drawer.Bounds()
	if b.Dy() == 1 {
		return Show(d.Drawer, Gauge(s, b.Dx()))
	}
	img, err := Render(s, b.Dx(), b.Dy())
	if err != nil {
		return err
	}
	return Show(d.Drawer, img)
}

// PNGSink keeps a PNG snapshot of the latest sample at Path.
//
// The file is replaced atomically so readers never see a partial image.
type PNGSink struct {
	Path   string
	Width  int
	Height int
}

// Publish implements monitor.Sink.
func (p *PNGSink) Publish(s hih6130.Sample) error {
	if p.Path == "" {
		return errors.New("frame: missing PNG path")
	}
	w, h := p.Width, p.Height
	if w == 0 {
		w = 320
	}
	if h == 0 {
		h = 160
	}
	dc, err := paint(s, w, h)
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p.Path), ".hih6130-*.png")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := dc.EncodePNG(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, p.Path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
