// Package driverlog wraps go.uber.org/zap for the core's anomaly-only
// logging: NACKs, ACK-timeout resends and retry give-ups worth an operator's
// attention. The decoder path itself never logs, framing resyncs included,
// matching the forever-online, fatal-free philosophy the rest of the core
// follows.
package driverlog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a console-encoded *zap.Logger at the given level ("debug",
// "info", "warn", "error"). An unrecognised level falls back to info.
func New(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.Lock(zapcore.AddSync(os.Stdout)), lvl)
	return zap.New(core)
}

// Nop returns a logger that discards everything, the default a Session uses
// when the caller supplies none.
func Nop() *zap.Logger {
	return zap.NewNop()
}

// OrNop returns l unchanged if non-nil, otherwise a Nop logger — the single
// place the "nil means silent" convention is implemented, so callers never
// have to nil-check before logging.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return Nop()
	}
	return l
}
