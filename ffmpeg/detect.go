package ffmpeg

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/torre76/screenrec/command"
)

// Private constants (alphabetical)
const (
	// fallbackBinary is used when no installation was found; exec then
	// resolves it through PATH and reports the failure on first use.
	fallbackBinary = "ffmpeg"

	// unknownVersion is reported when the version banner cannot be parsed.
	unknownVersion = "unknown"
)

// Private variables (alphabetical)

// ffmpegVersionRegex extracts the numeric version (e.g. 6.1.1) from the
// banner printed by "ffmpeg -version", tolerating git "n" prefixes.
var ffmpegVersionRegex = regexp.MustCompile(`(?i)ffmpeg\s+version\s+n?(\d+\.\d+(?:\.\d+)?)`)

// Public types (alphabetical)

// FFmpegInfo describes the ffmpeg installation used for encoding.
type FFmpegInfo struct {
	// Installed reports whether an executable was found.
	Installed bool

	// Path is the executable to run.
	Path string

	// Version is the parsed version number, or "unknown".
	Version string
}

// Private functions (alphabetical)

// checkFFmpegExistence looks for the executable in PATH first and then in
// the usual installation directories of the current OS.
func checkFFmpegExistence() (string, bool) {
	if path, err := exec.LookPath("ffmpeg"); err == nil {
		return path, true
	}

	for _, path := range getCommonInstallPaths() {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// getCommonInstallPaths returns where package managers usually put ffmpeg.
func getCommonInstallPaths() []string {
	execName := "ffmpeg"
	if runtime.GOOS == "windows" {
		execName = "ffmpeg.exe"
	}

	switch runtime.GOOS {
	case "windows":
		paths := []string{
			filepath.Join("C:", "Program Files", "FFmpeg", "bin", execName),
			filepath.Join("C:", "FFmpeg", "bin", execName),
		}
		if programFiles := os.Getenv("ProgramFiles"); programFiles != "" {
			paths = append(paths, filepath.Join(programFiles, "FFmpeg", "bin", execName))
		}
		return paths
	case "darwin":
		return []string{
			filepath.Join("/opt", "homebrew", "bin", execName),
			filepath.Join("/usr", "local", "bin", execName),
			filepath.Join("/opt", "local", "bin", execName),
		}
	default:
		return []string{
			filepath.Join("/usr", "bin", execName),
			filepath.Join("/usr", "local", "bin", execName),
			filepath.Join("/opt", "ffmpeg", "bin", execName),
		}
	}
}

// parseVersion extracts the version number from "ffmpeg -version" output.
func parseVersion(output string) string {
	if matches := ffmpegVersionRegex.FindStringSubmatch(output); len(matches) >= 2 {
		return matches[1]
	}

	// Development builds print e.g. "ffmpeg version N-113178-g6f0b2e7".
	firstLine, _, _ := strings.Cut(output, "\n")
	if _, rest, found := strings.Cut(firstLine, " version "); found {
		if fields := strings.Fields(rest); len(fields) > 0 {
			return fields[0]
		}
	}
	return unknownVersion
}

// Public functions (alphabetical)

// DetectVersion asks the binary for its version banner.
func DetectVersion(ctx context.Context, runner command.Runner, binary string) (string, error) {
	out, err := runner.Run(ctx, binary, "-version")
	if err != nil {
		return unknownVersion, FormatError("error getting FFmpeg version: %w", err)
	}
	return parseVersion(out.Stdout), nil
}

// FindFFmpeg locates the ffmpeg executable. When none is found the returned
// info is not Installed and Path holds the bare command name.
func FindFFmpeg() *FFmpegInfo {
	path, found := checkFFmpegExistence()
	if !found {
		return &FFmpegInfo{Path: fallbackBinary, Version: unknownVersion}
	}
	return &FFmpegInfo{Installed: true, Path: path, Version: unknownVersion}
}
