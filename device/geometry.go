// Package device talks to Android devices and iOS simulators. It turns the
// loosely structured output of adb and simctl into typed values and drives
// their screen capture.
package device

import "fmt"

// Public types (alphabetical)

// Geometry is a screen or output size in pixels. Dimensions stay fractional
// after scaling; they are only truncated when rendered.
type Geometry struct {
	// Width is the horizontal size in pixels.
	Width float64

	// Height is the vertical size in pixels.
	Height float64
}

// Public functions (alphabetical)

// ExpandGeometries scales base by every fraction, preserving their order.
func ExpandGeometries(base Geometry, fractions []float64) []Geometry {
	geometries := make([]Geometry, 0, len(fractions))
	for _, fraction := range fractions {
		geometries = append(geometries, base.Scale(fraction))
	}
	return geometries
}

// Public methods (alphabetical)

// Scale returns a new Geometry with both dimensions multiplied by factor.
func (g Geometry) Scale(factor float64) Geometry {
	return Geometry{Width: g.Width * factor, Height: g.Height * factor}
}

// String renders the geometry as "<height>x<width>", truncating both.
func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d", int(g.Height), int(g.Width))
}
