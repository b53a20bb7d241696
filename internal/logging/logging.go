// Process logging shared by the desktop and terminal frontends
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the process logger pair: the logrus logger owns output,
// level and formatting; the slog logger forwards into it and is what
// the internal packages receive. Debug mode selects colored text at
// debug level, normal mode structured JSON at info level.
func New(debug bool, output io.Writer) (*logrus.Logger, *slog.Logger) {
	if output == nil {
		output = os.Stdout
	}

	base := logrus.New()
	base.SetOutput(output)

	if debug {
		base.SetLevel(logrus.DebugLevel)
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	} else {
		base.SetLevel(logrus.InfoLevel)
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return base, slog.New(NewLogrusHandler(base))
}

// NewFile builds the logger pair writing JSON to a file. Used by the
// terminal frontend, which owns the screen and cannot log to stdout.
// The returned closer is the underlying file.
func NewFile(path string, debug bool) (*logrus.Logger, *slog.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("logging: open log file: %w", err)
	}

	base := logrus.New()
	base.SetOutput(f)
	if debug {
		base.SetLevel(logrus.DebugLevel)
	} else {
		base.SetLevel(logrus.InfoLevel)
	}
	base.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return base, slog.New(NewLogrusHandler(base)), f, nil
}
