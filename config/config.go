// Package config assembles the runtime settings of screenrec from built-in
// defaults, an optional YAML file, .env files and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/torre76/screenrec/ffmpeg"
	"gopkg.in/yaml.v3"
)

// Public constants (alphabetical)
const (
	// AndroidHomeEnv names the variable holding the Android SDK root.
	AndroidHomeEnv = "ANDROID_HOME"
)

// Private variables (alphabetical)

// defaultFractions are the relative recording sizes offered to the user.
var defaultFractions = []float64{1.0, 0.8, 0.6}

// envFiles are loaded from the working directory when present. Variables
// already set in the environment win.
var envFiles = []string{".env", ".env.local"}

// Public types (alphabetical)

// Config holds every setting the CLI needs.
type Config struct {
	// OutputDir receives recordings and GIFs. Default: ~/Desktop.
	OutputDir string `yaml:"output_dir"`

	// FrameRate is the frame rate of the first encode. Default: 30.
	FrameRate int `yaml:"frame_rate"`

	// Fractions are the relative sizes offered for the output resolution.
	// Default: 1.0, 0.8, 0.6.
	Fractions []float64 `yaml:"fractions"`

	// MaxAttempts bounds the encode retries; zero means unbounded. Default: 8.
	MaxAttempts int `yaml:"max_attempts"`

	// AndroidHome is the Android SDK root. ANDROID_HOME overrides it.
	AndroidHome string `yaml:"android_home"`
}

// ConfigurationError reports a missing or invalid setting. It is never
// retried.
type ConfigurationError struct {
	// Setting names the offending key or variable.
	Setting string

	// Reason says what is wrong with it.
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s %s", e.Setting, e.Reason)
}

// Public functions (alphabetical)

// Default returns the built-in configuration.
func Default() *Config {
	outputDir := "Desktop"
	if home, err := os.UserHomeDir(); err == nil {
		outputDir = filepath.Join(home, "Desktop")
	}
	return &Config{
		OutputDir:   outputDir,
		FrameRate:   ffmpeg.DefaultFrameRate,
		Fractions:   append([]float64(nil), defaultFractions...),
		MaxAttempts: ffmpeg.DefaultMaxAttempts,
	}
}

// IsConfigurationError reports whether err wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var e *ConfigurationError
	return errors.As(err, &e)
}

// Load builds the configuration. path may be empty, in which case only
// defaults and the environment are used; a named file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(expandHome(path))
		if err != nil {
			return nil, fmt.Errorf("reading config file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %q: %w", path, err)
		}
	}

	// A missing .env is not an error.
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			if err := godotenv.Load(file); err != nil {
				return nil, fmt.Errorf("loading %s: %w", file, err)
			}
		}
	}
	if v := os.Getenv(AndroidHomeEnv); v != "" {
		cfg.AndroidHome = v
	}

	cfg.OutputDir = expandHome(cfg.OutputDir)
	cfg.AndroidHome = expandHome(cfg.AndroidHome)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Public methods (alphabetical)

// AndroidSDK returns the Android SDK root or a ConfigurationError when it
// is not configured.
func (c *Config) AndroidSDK() (string, error) {
	if c.AndroidHome == "" {
		return "", &ConfigurationError{
			Setting: AndroidHomeEnv,
			Reason:  "is not set, please set the environment variable and try again",
		}
	}
	return c.AndroidHome, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return &ConfigurationError{Setting: "output_dir", Reason: "must not be empty"}
	}
	if c.FrameRate <= 0 {
		return &ConfigurationError{Setting: "frame_rate", Reason: fmt.Sprintf("must be positive, got %d", c.FrameRate)}
	}
	if c.MaxAttempts < 0 {
		return &ConfigurationError{Setting: "max_attempts", Reason: fmt.Sprintf("must not be negative, got %d", c.MaxAttempts)}
	}
	if len(c.Fractions) == 0 {
		return &ConfigurationError{Setting: "fractions", Reason: "must list at least one size"}
	}
	for _, f := range c.Fractions {
		if f <= 0 || f > 1 {
			return &ConfigurationError{Setting: "fractions", Reason: fmt.Sprintf("must be in (0, 1], got %g", f)}
		}
	}
	return nil
}

// Private functions (alphabetical)

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
