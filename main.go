// Package main provides the entry point for the screenrec application.
// It records the screen of an Android device or iOS simulator and converts
// the recording into a GIF small enough to be shared on GitHub.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/torre76/screenrec/command"
	"github.com/torre76/screenrec/config"
	"github.com/torre76/screenrec/device"
	"github.com/torre76/screenrec/ffmpeg"
	"github.com/torre76/screenrec/logging"
	"github.com/torre76/screenrec/prompt"
	"github.com/urfave/cli/v2"
)

// Public variables (alphabetical)

// BuildDate contains the date when the binary was built.
// This value is set during build using ldflags.
var BuildDate = "unknown"

// Commit contains the git commit hash that the binary was built from.
// This value is set during build using ldflags.
var Commit = "unknown"

// Version contains the current version of the application.
// This value can be overridden during build using ldflags:
// go build -ldflags="-X 'main.Version=v1.0.0'"
var Version = "Development Version"

// Private functions (alphabetical)

// applyFlags lets explicitly set command line flags override the loaded
// configuration.
func applyFlags(c *cli.Context, cfg *config.Config) error {
	if c.IsSet("dir") {
		cfg.OutputDir = c.String("dir")
	}
	if c.IsSet("fps") {
		cfg.FrameRate = c.Int("fps")
	}
	if c.IsSet("max-attempts") {
		cfg.MaxAttempts = c.Int("max-attempts")
	}
	return cfg.Validate()
}

// newSession wires the platform handler, the converter and the prompts for
// one recording.
func newSession(ctx context.Context, platform device.Platform, cfg *config.Config, verbose bool) (*session, error) {
	logger := logging.New(os.Stderr, verbose)
	runner := command.NewExecRunner(logging.WithComponent(logger, "command"))

	opts := device.Options{
		Logger:    logging.WithComponent(logger, "device"),
		OutputDir: cfg.OutputDir,
		Runner:    runner,
	}
	if platform == device.PlatformAndroid {
		sdk, err := cfg.AndroidSDK()
		if err != nil {
			return nil, err
		}
		opts.AndroidHome = sdk
	}

	handler, err := device.NewHandler(platform, opts)
	if err != nil {
		return nil, err
	}

	ffmpegInfo := ffmpeg.FindFFmpeg()
	if verbose && ffmpegInfo.Installed {
		version, err := ffmpeg.DetectVersion(ctx, runner, ffmpegInfo.Path)
		if err != nil {
			logger.Warn().Err(err).Msg("could not read ffmpeg version")
		}
		logger.Debug().Str("path", ffmpegInfo.Path).Str("version", version).Msg("using ffmpeg")
	}

	converter := ffmpeg.NewConverter(
		ffmpeg.NewCommandEncoder(ffmpegInfo.Path, runner),
		prompt.NewDecider(),
		cfg.OutputDir,
		logging.WithComponent(logger, "converter"),
	)
	converter.MaxAttempts = cfg.MaxAttempts
	converter.Observer = newProgressObserver(os.Stdout)

	return &session{
		handler:   handler,
		converter: converter,
		choose:    prompt.Choose,
		fractions: cfg.Fractions,
		frameRate: cfg.FrameRate,
		out:       os.Stdout,
		notify:    interruptContext,
	}, nil
}

// versionPrinter prints version and build information.
func versionPrinter(c *cli.Context) {
	summaryStyle := color.New(color.FgCyan, color.Bold)
	valueStyle := color.New(color.Bold)
	regularStyle := color.New(color.Reset)

	summaryStyle.Printf("🎬 screenrec %s\n", Version)
	regularStyle.Printf("  🛠️ Build date: ")
	valueStyle.Printf("%s\n", BuildDate)
	regularStyle.Printf("  🔍 Commit: ")
	valueStyle.Printf("%s\n", Commit)
}

// Public functions (alphabetical)

// recordCommand implements the default command: select a device and a
// resolution, record until Control-C and convert the result to a GIF.
func recordCommand(c *cli.Context) error {
	regularStyle := color.New(color.Reset)
	errorStyle := color.New(color.FgRed)

	if c.NArg() < 1 {
		errorStyle.Printf("❌ Error: missing required argument: PLATFORM\n\n")
		regularStyle.Printf("Usage: %s [options] PLATFORM\n", c.App.Name)
		regularStyle.Printf("Run '%s --help' for more information.\n", c.App.Name)
		return fmt.Errorf("missing required argument: PLATFORM")
	}

	platform, err := device.ParsePlatform(c.Args().Get(0))
	if err != nil {
		return err
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if err := applyFlags(c, cfg); err != nil {
		return err
	}

	s, err := newSession(c.Context, platform, cfg, c.Bool("verbose"))
	if err != nil {
		return err
	}
	return s.run(c.Context)
}

// newApp builds the command line application. The version flag moves to -V
// because -v belongs to --verbose.
func newApp() *cli.App {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}

	return &cli.App{
		Name:  "screenrec",
		Usage: "Record Android & iOS screens as GIFs from the command line",
		Description: "screenrec records the screen of an Android device or a booted iOS simulator " +
			"until you press Control-C, then converts the recording into a GIF below 10 MB.",
		Version:   Version,
		Action:    recordCommand,
		ArgsUsage: "PLATFORM (android or ios)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Directory where recordings and GIFs are written (default: ~/Desktop)",
			},
			&cli.IntFlag{
				Name:  "fps",
				Usage: "Frame rate of the first conversion attempt",
				Value: ffmpeg.DefaultFrameRate,
			},
			&cli.IntFlag{
				Name:  "max-attempts",
				Usage: "Maximum number of conversion attempts, 0 for no limit",
				Value: ffmpeg.DefaultMaxAttempts,
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration file",
				EnvVars: []string{"SCREENREC_CONFIG"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Print debug output",
			},
		},
	}
}

// main is the entry point of the application.
func main() {
	cli.VersionPrinter = versionPrinter

	if err := newApp().Run(os.Args); err != nil {
		errorStyle := color.New(color.FgRed)
		errorStyle.Fprintf(os.Stderr, "⚠️ Error: %v\n", err)
		os.Exit(1)
	}
}
