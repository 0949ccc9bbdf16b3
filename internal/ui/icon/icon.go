// Package icon draws the radial progress indicator shown in the status bar.
package icon

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"golang.org/x/image/vector"
)

// Size is the edge length of the status-bar icon in points.
const Size = 18

const (
	baseStroke = 2.0
	baseInset  = 2.0
	// arcSegments approximates a full circle; partial arcs use a share of it.
	arcSegments = 96
)

var (
	// DarkAccent is the arc color on a dark appearance.
	DarkAccent = color.NRGBA{R: 212, G: 175, B: 55, A: 255}
	// LightAccent is the arc color on a light appearance.
	LightAccent = color.NRGBA{R: 0, G: 122, B: 255, A: 255}

	ringColor = color.NRGBA{R: 128, G: 128, B: 128, A: 77}
)

// Accent returns the arc color for a theme variant.
func Accent(variant fyne.ThemeVariant) color.Color {
	if variant == theme.VariantDark {
		return DarkAccent
	}
	return LightAccent
}

// Render draws the indicator at the status-bar size.
func Render(fraction float64, accent color.Color) *image.NRGBA {
	return RenderSize(fraction, accent, Size)
}

// RenderSize draws the indicator on a size x size transparent canvas: a faint
// background ring and an arc of fraction*360 degrees swept clockwise from
// 12 o'clock.
func RenderSize(fraction float64, accent color.Color, size int) *image.NRGBA {
	if size <= 0 {
		size = Size
	}
	fraction = clampFraction(fraction)

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	scale := float64(size) / Size
	center := float64(size) / 2
	radius := center - baseInset*scale
	halfStroke := baseStroke * scale / 2

	ring := annularSector(size, center, radius-halfStroke, radius+halfStroke, 1)
	ring.Draw(img, img.Bounds(), image.NewUniform(ringColor), image.Point{})

	if fraction > 0 {
		arc := annularSector(size, center, radius-halfStroke, radius+halfStroke, fraction)
		arc.Draw(img, img.Bounds(), image.NewUniform(accent), image.Point{})
	}

	return img
}

// PNG encodes an indicator image.
func PNG(img image.Image) ([]byte, error) {
	var buffer bytes.Buffer
	if err := png.Encode(&buffer, img); err != nil {
		return nil, fmt.Errorf("encode progress icon: %w", err)
	}
	return buffer.Bytes(), nil
}

// annularSector builds the outline of the ring band between inner and outer
// radius covering fraction of a full turn, starting at 12 o'clock.
func annularSector(size int, center, inner, outer, fraction float64) *vector.Rasterizer {
	rasterizer := vector.NewRasterizer(size, size)
	rasterizer.DrawOp = draw.Over

	sweep := fraction * 2 * math.Pi
	steps := int(math.Ceil(fraction * arcSegments))
	if steps < 1 {
		steps = 1
	}

	point := func(radius, angle float64) (float32, float32) {
		return float32(center + radius*math.Sin(angle)), float32(center - radius*math.Cos(angle))
	}

	rasterizer.MoveTo(point(outer, 0))
	for step := 1; step <= steps; step++ {
		rasterizer.LineTo(point(outer, sweep*float64(step)/float64(steps)))
	}
	for step := steps; step >= 0; step-- {
		rasterizer.LineTo(point(inner, sweep*float64(step)/float64(steps)))
	}
	rasterizer.ClosePath()
	return rasterizer
}

func clampFraction(fraction float64) float64 {
	if math.IsNaN(fraction) || fraction < 0 {
		return 0
	}
	if fraction > 1 {
		return 1
	}
	return fraction
}
