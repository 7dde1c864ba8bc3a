package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorFromVec3_Clamping(t *testing.T) {
	tests := []struct {
		name     string
		input    Vec3
		expected Color
	}{
		{"in range truncates", NewVec3(12.9, 55.2, 44.999), Color{12, 55, 44}},
		{"saturates above 255", NewVec3(300, 255, 1e9), Color{255, 255, 255}},
		{"negative floors at zero", NewVec3(-1, -0.5, -1e9), Color{0, 0, 0}},
		{"NaN maps to zero", NewVec3(math.NaN(), 10, math.Inf(1)), Color{0, 10, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ColorFromVec3(tt.input))
		})
	}
}

func TestColor_Vec3RoundTrip(t *testing.T) {
	c := NewColor(75, 25, 24)
	assert.Equal(t, c, ColorFromVec3(c.Vec3()))
	assert.Equal(t, NewVec3(75, 25, 24), c.Vec3())
}

func TestColor_Luminance(t *testing.T) {
	assert.InDelta(t, 1.0, White.Luminance(), 1e-9)
	assert.InDelta(t, 0.0, Black.Luminance(), 1e-9)
	assert.InDelta(t, 0.299, NewColor(255, 0, 0).Luminance(), 1e-9)
}
