package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/torre76/screenrec/device"
)

func TestScalingFactors(t *testing.T) {
	testCases := []struct {
		name       string
		sizeMB     float64
		frameRate  float64
		resolution float64
	}{
		{name: "just over budget", sizeMB: 10, frameRate: 0.75, resolution: 0.8},
		{name: "just under twice the budget", sizeMB: 19.999999, frameRate: 0.75, resolution: 0.8},
		{name: "twice the budget", sizeMB: 20, frameRate: 0.67, resolution: 0.75},
		{name: "just under three times", sizeMB: 29.99, frameRate: 0.67, resolution: 0.75},
		{name: "three times the budget", sizeMB: 30, frameRate: 0.50, resolution: 0.5},
		{name: "far over budget", sizeMB: 250, frameRate: 0.50, resolution: 0.5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.frameRate, FrameRateFactor(tc.sizeMB))
			assert.Equal(t, tc.resolution, ResolutionFactor(tc.sizeMB))
		})
	}
}

func TestScalingIsDeterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.Equal(t, 0.75, FrameRateFactor(19.99))
		assert.Equal(t, 0.8, ResolutionFactor(19.99))
	}
}

func TestScaleFrameRate(t *testing.T) {
	testCases := []struct {
		name      string
		sizeMB    float64
		frameRate int
		expected  int
	}{
		{name: "floors three quarters", sizeMB: 15, frameRate: 30, expected: 22},
		{name: "two thirds", sizeMB: 25, frameRate: 30, expected: 20},
		{name: "half", sizeMB: 45, frameRate: 30, expected: 15},
		{name: "can reach zero", sizeMB: 45, frameRate: 1, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ScaleFrameRate(tc.sizeMB, tc.frameRate))
		})
	}
}

func TestScaleGeometry(t *testing.T) {
	g := device.Geometry{Width: 1080, Height: 1920}

	assert.Equal(t, g.Scale(0.8), ScaleGeometry(12, g))
	assert.Equal(t, g.Scale(0.75), ScaleGeometry(22, g))
	assert.Equal(t, device.Geometry{Width: 540, Height: 960}, ScaleGeometry(31, g))
}

func TestMegabytesIsDecimal(t *testing.T) {
	assert.Equal(t, 10.0, Megabytes(10_000_000))
	assert.Equal(t, 1.048576, Megabytes(1<<20))
}
