// Package logger configures the process-wide zap logger.
//
// The server logs to stderr in console format; when a log file is
// configured, output also goes to a size-rotated file so long-running
// instances don't fill the disk.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds a SugaredLogger. filePath may be empty, in which case only
// stderr is used. debug lowers the level threshold to Debug.
func New(filePath string, debug bool) *zap.SugaredLogger {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoder := zapcore.NewConsoleEncoder(encCfg)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level),
	}

	if filePath != "" {
		// 10MB per file, a few backups, no compression. Matches what
		// we run in small deployments.
		lj := &lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(lj), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Sugar()
}

// Nop returns a logger that discards everything. Used by tests and as a
// default when callers pass nil.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
