// slog.Handler forwarding records into logrus
package logging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogrusHandler adapts a logrus logger to the slog.Handler interface so
// packages written against *slog.Logger share the process formatter and
// level. Groups become dotted key prefixes.
type LogrusHandler struct {
	logger *logrus.Logger
	attrs  []slog.Attr
	groups []string
}

// NewLogrusHandler wraps the given logrus logger.
func NewLogrusHandler(logger *logrus.Logger) *LogrusHandler {
	return &LogrusHandler{logger: logger}
}

// Enabled defers to the logrus level.
func (h *LogrusHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.logger.IsLevelEnabled(logrusLevel(level))
}

// Handle converts the record's attributes to logrus fields and logs it.
func (h *LogrusHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make(logrus.Fields, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		fields[a.Key] = a.Value.Resolve().Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		fields[h.qualify(a.Key)] = a.Value.Resolve().Any()
		return true
	})

	h.logger.WithFields(fields).Log(logrusLevel(r.Level), r.Message)
	return nil
}

// WithAttrs returns a handler carrying the extra attributes, qualified
// by the open groups.
func (h *LogrusHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := h.clone()
	for _, a := range attrs {
		nh.attrs = append(nh.attrs, slog.Attr{Key: h.qualify(a.Key), Value: a.Value})
	}
	return nh
}

// WithGroup returns a handler prefixing subsequent keys with name.
func (h *LogrusHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := h.clone()
	nh.groups = append(nh.groups, name)
	return nh
}

func (h *LogrusHandler) clone() *LogrusHandler {
	return &LogrusHandler{
		logger: h.logger,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}

func (h *LogrusHandler) qualify(key string) string {
	if len(h.groups) == 0 {
		return key
	}
	return strings.Join(h.groups, ".") + "." + key
}

// logrusLevel maps slog levels onto the four logrus levels in use.
func logrusLevel(l slog.Level) logrus.Level {
	switch {
	case l < slog.LevelInfo:
		return logrus.DebugLevel
	case l < slog.LevelWarn:
		return logrus.InfoLevel
	case l < slog.LevelError:
		return logrus.WarnLevel
	default:
		return logrus.ErrorLevel
	}
}
