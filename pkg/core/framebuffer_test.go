package core

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameBuffer_RowMajorLayout(t *testing.T) {
	fb := NewFrameBuffer(3, 2)
	fb.Set(2, 1, NewColor(1, 2, 3))

	assert.Equal(t, NewColor(1, 2, 3), fb.Pixels[1*3+2])
	assert.Equal(t, NewColor(1, 2, 3), fb.Row(1)[2])
	assert.Len(t, fb.Row(0), 3)
}

func TestFrameBuffer_CopyRows(t *testing.T) {
	fb := NewFrameBuffer(2, 4)
	rows := [][]Color{
		{White, White},
		{Black, White},
	}
	fb.CopyRows(2, rows)

	assert.Equal(t, Black, fb.At(0, 1))
	assert.Equal(t, White, fb.At(0, 2))
	assert.Equal(t, Black, fb.At(0, 3))
	assert.Equal(t, White, fb.At(1, 3))
}

func TestFrameBuffer_EqualAndDiff(t *testing.T) {
	a := NewFrameBuffer(2, 2)
	b := NewFrameBuffer(2, 2)
	assert.True(t, a.Equal(b))

	b.Set(1, 1, White)
	assert.False(t, a.Equal(b))
	assert.Equal(t, 1, a.DiffCount(b))
	assert.False(t, a.Equal(NewFrameBuffer(2, 3)))
	assert.False(t, a.Equal(nil))
}

func TestFrameBuffer_DiffCountSizeMismatch(t *testing.T) {
	a := NewFrameBuffer(3, 2)

	assert.Equal(t, 6, a.DiffCount(NewFrameBuffer(2, 2)), "smaller buffer")
	assert.Equal(t, 6, a.DiffCount(NewFrameBuffer(2, 3)), "same pixel count, different shape")
	assert.Equal(t, 6, a.DiffCount(nil))
}

func TestFrameBuffer_ImageConversion(t *testing.T) {
	fb := NewFrameBuffer(2, 1)
	fb.Set(0, 0, NewColor(255, 0, 0))
	fb.Set(1, 0, NewColor(0, 128, 255))

	img := fb.ToRGBA()
	require.Equal(t, image.Rect(0, 0, 2, 1), img.Bounds())
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(0, 0))

	back := FrameBufferFromImage(img)
	assert.True(t, fb.Equal(back))
}

func TestFrameBuffer_AverageLuminance(t *testing.T) {
	fb := NewFrameBuffer(2, 1)
	fb.Set(0, 0, White)
	assert.InDelta(t, 0.5, fb.AverageLuminance(), 1e-9)
}
