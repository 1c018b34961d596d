package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop()

// Init builds the process-wide logger. format "console" gives human-readable
// colored output for local runs; anything else emits JSON lines. Call once
// from main before any goroutines start logging.
func Init(level, format string) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if strings.EqualFold(strings.TrimSpace(format), "console") {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(os.Stdout), parseLevel(level))
	logger = zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel))
}

// L returns the process logger. Before Init it is a no-op logger, so
// packages (and tests) may log unconditionally.
func L() *zap.Logger {
	return logger
}

// Sync flushes buffered entries. Call on shutdown; the error is ignored
// because stdout sync is not meaningful on all platforms.
func Sync() {
	_ = logger.Sync()
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
