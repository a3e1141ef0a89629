// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GermanBionicSystems/hih6130/console"
	"github.com/GermanBionicSystems/hih6130/hih6130"
)

var sample = hih6130.Decode([hih6130.SampleSize]byte{0x1c, 0xcc, 0x63, 0x30})

// memDrawer is a display.Drawer backed by an in-memory image.
type memDrawer struct {
	img   *image.NRGBA
	draws int
}

func (m *memDrawer) String() string          { return "mem" }
func (m *memDrawer) Halt() error             { return nil }
func (m *memDrawer) ColorModel() color.Model { return color.NRGBAModel }
func (m *memDrawer) Bounds() image.Rectangle { return m.img.Bounds() }
func (m *memDrawer) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	m.draws++
	draw.Draw(m.img, r, src, sp, draw.Src)
	return nil
}

func TestRender(t *testing.T) {
	img, err := Render(sample, 128, 64)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 128, 64), img.Bounds())

	// The humidity bar covers about 45% of the bottom row.
	r, g, b, _ := img.At(10, 63).RGBA()
	wr, wg, wb, _ := water.RGBA()
	assert.Equal(t, []uint32{wr, wg, wb}, []uint32{r, g, b})
	r, g, b, _ = img.At(120, 63).RGBA()
	br, bg, bb, _ := background.RGBA()
	assert.Equal(t, []uint32{br, bg, bb}, []uint32{r, g, b})
}

func TestRenderInvalidSize(t *testing.T) {
	_, err := Render(sample, 0, 10)
	assert.EqualError(t, err, "frame: invalid size 0x10")
}

func TestGauge(t *testing.T) {
	data := []struct {
		humidity float64
		filled   int
	}{
		{0, 0},
		{45, 9},
		{100, 20},
		{130, 20},
		{-5, 0},
	}
	for _, line := range data {
		img := Gauge(hih6130.Sample{Humidity: line.humidity}, 20)
		n := 0
		for x := 0; x < 20; x++ {
			if img.At(x, 0) == color.Color(water) {
				n++
			}
		}
		assert.Equal(t, line.filled, n, "%g%%rH", line.humidity)
	}
}

func TestDrawerSinkFrame(t *testing.T) {
	m := &memDrawer{img: image.NewNRGBA(image.Rect(0, 0, 64, 32))}
	s := &DrawerSink{Drawer: m}
	require.NoError(t, s.Publish(sample))
	assert.Equal(t, 1, m.draws)
	assert.Equal(t, background, m.img.NRGBAAt(63, 0))
}

func TestDrawerSinkGauge(t *testing.T) {
	var buf bytes.Buffer
	strip := console.NewStrip(&buf, 10, nil)
	s := &DrawerSink{Drawer: strip}
	require.NoError(t, s.Publish(sample))
	assert.NotZero(t, buf.Len())
}

func TestPNGSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latest.png")
	s := &PNGSink{Path: path, Width: 80, Height: 40}
	require.NoError(t, s.Publish(sample))
	require.NoError(t, s.Publish(sample))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 80, 40), img.Bounds())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files left behind")
}

func TestPNGSinkErrors(t *testing.T) {
	assert.Error(t, (&PNGSink{}).Publish(sample))
	missing := filepath.Join(t.TempDir(), "nope", "latest.png")
	assert.Error(t, (&PNGSink{Path: missing}).Publish(sample))
}
