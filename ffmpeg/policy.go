package ffmpeg

import "github.com/torre76/screenrec/device"

// The further a GIF is over budget, the harder the next attempt cuts. Sizes
// are compared in decimal megabytes against multiples of the budget.

// FrameRateFactor returns the multiplier applied to the frame rate for a GIF
// of sizeMB megabytes.
func FrameRateFactor(sizeMB float64) float64 {
	switch {
	case sizeMB < 2*maxSizeMegabytes:
		return 0.75
	case sizeMB < 3*maxSizeMegabytes:
		return 0.67
	default:
		return 0.50
	}
}

// ResolutionFactor returns the multiplier applied to the output geometry for
// a GIF of sizeMB megabytes.
func ResolutionFactor(sizeMB float64) float64 {
	switch {
	case sizeMB < 2*maxSizeMegabytes:
		return 0.8
	case sizeMB < 3*maxSizeMegabytes:
		return 0.75
	default:
		return 0.5
	}
}

// ScaleFrameRate reduces frameRate for a GIF of sizeMB megabytes, rounding
// down. The result may reach zero; callers apply their own floor.
func ScaleFrameRate(sizeMB float64, frameRate int) int {
	return int(float64(frameRate) * FrameRateFactor(sizeMB))
}

// ScaleGeometry shrinks g for a GIF of sizeMB megabytes.
func ScaleGeometry(sizeMB float64, g device.Geometry) device.Geometry {
	return g.Scale(ResolutionFactor(sizeMB))
}
