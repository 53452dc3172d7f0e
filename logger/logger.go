// Package logger exposes the package-level loggers shared by the layout engine
// and its tools.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// ProgressLogger logs the main steps of a layout pass.
	ProgressLogger *zap.SugaredLogger

	// WarningLogger emits a warning for each non fatal problem, like clamped
	// style values, unknown fixture properties or inconsistent geometry queries.
	WarningLogger *zap.SugaredLogger

	mu sync.Mutex
)

func init() {
	Configure("warn", zapcore.Lock(os.Stdout))
}

// Configure rebuilds both loggers, writing to [out] with the given minimum level
// ("debug", "info", "warn", "error"). An unknown level falls back to "info".
func Configure(level string, out zapcore.WriteSyncer) {
	lvl := zap.NewAtomicLevel()
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl.SetLevel(zap.InfoLevel)
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), out, lvl)
	UseCore(core)
}

// UseCore installs [core] as the backend of both loggers and
// returns a function restoring the previous ones.
func UseCore(core zapcore.Core) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	oldProgress, oldWarning := ProgressLogger, WarningLogger
	base := zap.New(core)
	ProgressLogger = base.Named("layout.progress").Sugar()
	WarningLogger = base.Named("layout.warning").Sugar()
	return func() {
		mu.Lock()
		defer mu.Unlock()
		ProgressLogger, WarningLogger = oldProgress, oldWarning
	}
}
