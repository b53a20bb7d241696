// RetroCam - Handheld Console Camera Simulator
// Terminal frontend

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"retrocam/internal/camera"
	"retrocam/internal/capture"
	"retrocam/internal/config"
	"retrocam/internal/engine"
	"retrocam/internal/filter"
	"retrocam/internal/logging"
	"retrocam/internal/tui"
)

const (
	AppName    = "RetroCam TTY"
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
	logFile := flag.String("log", "", "Log file path (the terminal itself shows the viewfinder)")
	flag.Parse()

	// Config resolution happens before the logger because the log file
	// path is itself configurable.
	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
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
		case "log":
			cfg.LogFile = *logFile
		}
	})
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	startMode, err := cfg.StartMode()
	if err != nil {
		fatal(err)
	}
	palette, err := cfg.FilterPalette()
	if err != nil {
		fatal(err)
	}

	// The viewer owns the screen, so logs go to a file.
	baseLogger, logger, logCloser, err := logging.NewFile(cfg.LogFile, *debugMode)
	if err != nil {
		fatal(err)
	}
	defer logCloser.Close()
	baseLogger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": *debugMode,
		"log_file":   cfg.LogFile,
	}).Info("Starting RetroCam terminal viewer")

	source, err := camera.Open(cfg.Device, camera.Options{
		Width:  cfg.Width,
		Height: cfg.Height,
		Mirror: cfg.Mirror,
	}, logger)
	if err != nil {
		baseLogger.WithError(err).Error("Failed to open frame source")
		fatal(err)
	}

	selector, err := filter.NewSelector(startMode)
	if err != nil {
		baseLogger.WithError(err).Error("Failed to create filter selector")
		fatal(err)
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

	// Ctrl-C and SIGTERM stop the viewer the same way q does.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := tui.Run(ctx, loop, selector, cfg, logger)

	if err := source.Close(); err != nil {
		baseLogger.WithError(err).Warn("Frame source close failed")
	}
	if runErr != nil {
		baseLogger.WithError(runErr).Error("Viewer exited with error")
		logCloser.Close()
		fatal(runErr)
	}
	baseLogger.Info("Viewer shutting down gracefully")
}

// fatal reports a startup or shutdown error on stderr. The tcell screen
// is finalized before tui.Run returns, so the message stays visible.
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "retrocam-tty: %v\n", err)
	os.Exit(1)
}
