package ffmpeg

import (
	"fmt"
	"strings"
)

// paletteFilter generates a palette from the scaled stream and applies it in
// a second stage. GIFs are limited to 256 colors; without a per-clip palette
// gradients band badly.
const paletteFilter = "split[s0][s1];[s0]palettegen[p];[s1][p]paletteuse"

// BuildArgs returns the complete argument vector, binary first, for encoding
// a.SourcePath into destination.
func BuildArgs(binary string, a Attempt, destination string) []string {
	return []string{
		binary,
		"-y", // overwrite a leftover file with the same timestamp
		"-i", a.SourcePath,
		"-vf", FilterGraph(a),
		"-loglevel", "error",
		destination,
	}
}

// FilterGraph builds the -vf chain for a: frame sampling, width-driven
// lanczos scaling with automatic height, then the two-stage palette.
func FilterGraph(a Attempt) string {
	return strings.Join([]string{
		fmt.Sprintf("fps=%d", a.FrameRate),
		fmt.Sprintf("scale=%d:-1:flags=lanczos", int(a.Geometry.Width)),
		paletteFilter,
	}, ",")
}
