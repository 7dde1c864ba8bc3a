package core

import (
	"image"
)

// FrameBuffer is a row-major width*height buffer of colors with (0,0) at the top-left
type FrameBuffer struct {
	Width  int
	Height int
	Pixels []Color
}

// NewFrameBuffer allocates a black frame buffer
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// At returns the color at (x, y)
func (fb *FrameBuffer) At(x, y int) Color {
	return fb.Pixels[y*fb.Width+x]
}

// Set stores the color at (x, y)
func (fb *FrameBuffer) Set(x, y int, c Color) {
	fb.Pixels[y*fb.Width+x] = c
}

// Row returns the slice backing row y
func (fb *FrameBuffer) Row(y int) []Color {
	return fb.Pixels[y*fb.Width : (y+1)*fb.Width]
}

// CopyRows copies rows into the buffer starting at row y0
func (fb *FrameBuffer) CopyRows(y0 int, rows [][]Color) {
	for i, row := range rows {
		copy(fb.Row(y0+i), row)
	}
}

// Equal reports whether two buffers have identical dimensions and pixels
func (fb *FrameBuffer) Equal(other *FrameBuffer) bool {
	if other == nil || fb.Width != other.Width || fb.Height != other.Height {
		return false
	}
	for i := range fb.Pixels {
		if fb.Pixels[i] != other.Pixels[i] {
			return false
		}
	}
	return true
}

// DiffCount returns the number of pixels that differ between two buffers.
// Buffers of different sizes differ in every pixel.
func (fb *FrameBuffer) DiffCount(other *FrameBuffer) int {
	if other == nil || fb.Width != other.Width || fb.Height != other.Height {
		return len(fb.Pixels)
	}
	diff := 0
	for i := range fb.Pixels {
		if fb.Pixels[i] != other.Pixels[i] {
			diff++
		}
	}
	return diff
}

// ToRGBA converts the buffer into an opaque RGBA image
func (fb *FrameBuffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.At(x, y).RGBA())
		}
	}
	return img
}

// FrameBufferFromImage quantizes any image into a frame buffer
func FrameBufferFromImage(img image.Image) *FrameBuffer {
	bounds := img.Bounds()
	fb := NewFrameBuffer(bounds.Dx(), bounds.Dy())
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535]
			fb.Set(x, y, Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)})
		}
	}
	return fb
}

// AverageLuminance returns the mean pixel luminance in [0, 1]
func (fb *FrameBuffer) AverageLuminance() float64 {
	if len(fb.Pixels) == 0 {
		return 0
	}
	total := 0.0
	for _, c := range fb.Pixels {
		total += c.Luminance()
	}
	return total / float64(len(fb.Pixels))
}
