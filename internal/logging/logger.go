// Package logging builds the diagnostic logger. The terminal belongs to the UI,
// so log output goes to a size-rotated file instead of stderr.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSizeMB  = 5
	maxBackups = 3
)

// New returns a zap logger writing to path. When debug is true it uses the
// development encoder at debug level; otherwise JSON at info level.
func New(path string, debug bool) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	})
	return zap.New(newCore(sink, debug)), nil
}

func newCore(sink zapcore.WriteSyncer, debug bool) zapcore.Core {
	if debug {
		enc := zap.NewDevelopmentEncoderConfig()
		return zapcore.NewCore(zapcore.NewConsoleEncoder(enc), sink, zapcore.DebugLevel)
	}
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewCore(zapcore.NewJSONEncoder(enc), sink, zapcore.InfoLevel)
}
