// Package avatar renders deterministic letter avatars as PNG images.
package avatar

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// palette holds the fixed background colors. The letter's code point modulo
// the palette size selects the color, so a given letter always renders on the
// same background.
var palette = []color.NRGBA{
	{R: 0xff, G: 0xc0, B: 0xb3, A: 0xff},
	{R: 0xb3, G: 0xff, B: 0xc0, A: 0xff},
	{R: 0xb3, G: 0xcc, B: 0xff, A: 0xff},
	{R: 0xff, G: 0xb3, B: 0xf2, A: 0xff},
	{R: 0xc0, G: 0xb3, B: 0xff, A: 0xff},
}

// ink is the letter color.
var ink = color.NRGBA{R: 0x39, G: 0x3e, B: 0x41, A: 0xff}

var (
	parseOnce sync.Once
	boldFont  *opentype.Font
	parseErr  error
)

// boldFace builds a fresh face per call. Faces carry mutable rasterizer
// state and must not be shared across goroutines; the parsed font is
// read-only and cached.
func boldFace(height int) (font.Face, error) {
	parseOnce.Do(func() {
		boldFont, parseErr = opentype.Parse(gobold.TTF)
	})
	if parseErr != nil {
		return nil, fmt.Errorf("parse embedded font: %w", parseErr)
	}

	// 50pt at the original 80px canvas; scale with the requested height.
	f, err := opentype.NewFace(boldFont, &opentype.FaceOptions{
		Size:    float64(height) * 50.0 / 80.0,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return f, nil
}

// BackgroundColor returns the palette color selected by the letter.
func BackgroundColor(letter rune) color.NRGBA {
	return palette[int(letter)%len(palette)]
}

// Generate renders the letter centered on its palette background and returns
// the encoded PNG. It is deterministic: identical arguments produce
// byte-identical output. The caller must supply exactly one character;
// a zero letter or non-positive dimensions are precondition violations.
func Generate(letter rune, width, height int) ([]byte, error) {
	if letter == 0 {
		return nil, fmt.Errorf("avatar letter must be a single character")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("avatar dimensions must be positive, got %dx%d", width, height)
	}

	face, err := boldFace(height)
	if err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(BackgroundColor(letter)), image.Point{}, draw.Src)

	// Center the glyph box, not the baseline, so descenderless capitals
	// still sit in the visual middle.
	s := string(letter)
	bounds, advance := font.BoundString(face, s)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ink),
		Face: face,
	}
	d.Dot = fixed.Point26_6{
		X: (fixed.I(width) - advance) / 2,
		Y: (fixed.I(height)-(bounds.Max.Y-bounds.Min.Y))/2 - bounds.Min.Y,
	}
	d.DrawString(s)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode avatar png: %w", err)
	}
	return buf.Bytes(), nil
}
