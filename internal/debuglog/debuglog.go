// ABOUTME: File-backed debug logger so terminal output stays clean
// ABOUTME: Thin facade over a zap logger writing to the config directory

package debuglog

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.Mutex
	logger = zap.NewNop().Sugar()
	closer func()
)

// Init routes debug logging to debug.log under configDir. An empty dir
// disables logging; so does any setup failure.
func Init(configDir string) error {
	mu.Lock()
	defer mu.Unlock()

	if configDir == "" {
		return nil
	}
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(configDir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(f),
		zapcore.DebugLevel,
	)
	zl := zap.New(core)
	logger = zl.Sugar()
	closer = func() {
		_ = zl.Sync()
		f.Close()
	}
	return nil
}

// Close flushes and releases the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if closer != nil {
		closer()
		closer = nil
	}
	logger = zap.NewNop().Sugar()
}

// Log writes a formatted debug line.
func Log(format string, args ...any) {
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Debugf(format, args...)
}

// Error logs an error with context, ignoring nil errors.
func Error(context string, err error) {
	if err == nil {
		return
	}
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Errorw(context, "error", err)
}

// Warn writes a formatted warning line.
func Warn(format string, args ...any) {
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Warnf(format, args...)
}
