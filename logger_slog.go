package relink

import (
	"fmt"
	"log/slog"
)

// slogLogger adapts a *slog.Logger to the Logger interface.
type slogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps a structured logger so it can be used with WithLogger.
// Passing nil wraps slog.Default().
func NewSlogLogger(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogLogger{logger: logger}
}

func (l *slogLogger) WithField(key string, value any) Logger {
	return &slogLogger{logger: l.logger.With(key, value)}
}

func (l *slogLogger) Debug(args ...any) {
	l.logger.Debug(fmt.Sprint(args...))
}

func (l *slogLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *slogLogger) Debugln(args ...any) {
	l.logger.Debug(fmt.Sprintln(args...))
}

func (l *slogLogger) Info(args ...any) {
	l.logger.Info(fmt.Sprint(args...))
}

func (l *slogLogger) Infof(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *slogLogger) Infoln(args ...any) {
	l.logger.Info(fmt.Sprintln(args...))
}

func (l *slogLogger) Warn(args ...any) {
	l.logger.Warn(fmt.Sprint(args...))
}

func (l *slogLogger) Warnf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *slogLogger) Warnln(args ...any) {
	l.logger.Warn(fmt.Sprintln(args...))
}

func (l *slogLogger) Error(args ...any) {
	l.logger.Error(fmt.Sprint(args...))
}

func (l *slogLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *slogLogger) Errorln(args ...any) {
	l.logger.Error(fmt.Sprintln(args...))
}
