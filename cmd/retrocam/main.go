// RetroCam - Handheld Console Camera Simulator
// Desktop frontend

package main

import (
	"flag"
	"os"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/sirupsen/logrus"

	"retrocam/internal/camera"
	"retrocam/internal/capture"
	"retrocam/internal/config"
	"retrocam/internal/engine"
	"retrocam/internal/filter"
	"retrocam/internal/gui"
	"retrocam/internal/logging"
)

const (
	AppName    = "RetroCam"
	AppID      = "com.retrocam.desktop"
	AppVersion = "1.0.0"
)

func main() {
	// Parse command line flags; explicit flags win over the config file,
	// the file wins over defaults.
	debugMode := flag.Bool("debug", false, "Enable debug mode with verbose logging")
	configPath := flag.String("config", "", "Path to a TOML config file")
	device := flag.String("device", "", `Frame source: a camera index like "0", "bars", or an image path`)
	width := flag.Int("width", 0, "Processing width in pixels")
	height := flag.Int("height", 0, "Processing height in pixels")
	fps := flag.Int("fps", 0, "Engine ticks per second")
	scale := flag.Int("scale", 0, "Nearest-neighbor upscale factor for saved shots")
	mirror := flag.Bool("mirror", true, "Mirror the camera horizontally (selfie view)")
	perf := flag.Bool("perf", false, "Start in performance mode")
	modeName := flag.String("mode", "", "Starting filter: retro4tone, monochrome, blocked or passthrough")
	outputDir := flag.String("out", "", "Directory the photo roll is saved into")
	flag.Parse()

	// Initialize logger
	baseLogger, logger := logging.New(*debugMode, os.Stdout)
	baseLogger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": *debugMode,
	}).Info("Starting RetroCam")

	cfg, err := config.Load(*configPath)
	if err != nil {
		baseLogger.WithError(err).Fatal("Failed to load configuration")
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "device":
			cfg.Device = *device
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "fps":
			cfg.FPS = *fps
		case "scale":
			cfg.Scale = *scale
		case "mirror":
			cfg.Mirror = *mirror
		case "perf":
			cfg.Performance = *perf
		case "mode":
			cfg.Mode = *modeName
		case "out":
			cfg.OutputDir = *outputDir
		}
	})
	if err := cfg.Validate(); err != nil {
		baseLogger.WithError(err).Fatal("Invalid configuration")
	}

	startMode, err := cfg.StartMode()
	if err != nil {
		baseLogger.WithError(err).Fatal("Invalid starting filter mode")
	}
	palette, err := cfg.FilterPalette()
	if err != nil {
		baseLogger.WithError(err).Fatal("Invalid palette")
	}

	source, err := camera.Open(cfg.Device, camera.Options{
		Width:  cfg.Width,
		Height: cfg.Height,
		Mirror: cfg.Mirror,
	}, logger)
	if err != nil {
		baseLogger.WithError(err).Fatal("Failed to open frame source")
	}

	selector, err := filter.NewSelector(startMode)
	if err != nil {
		baseLogger.WithError(err).Fatal("Failed to create filter selector")
	}
	selector.SetPerformanceMode(cfg.Performance)

	loop := engine.New(
		source,
		selector,
		filter.NewTransformer(palette),
		capture.NewRoll(logger),
		engine.Options{FPS: cfg.FPS, ExportScale: cfg.Scale},
		logger,
	)

	// Create Fyne application
	myApp := app.NewWithID(AppID)
	myApp.SetIcon(theme.MediaPhotoIcon())
	myApp.Settings().SetTheme(theme.DefaultTheme())

	// Create and show main application window
	mainApp := gui.NewApplication(myApp, loop, selector, cfg, logger)
	mainApp.ShowAndRun()

	if err := source.Close(); err != nil {
		baseLogger.WithError(err).Warn("Frame source close failed")
	}
	baseLogger.Info("Application shutting down gracefully")
	os.Exit(0)
}
