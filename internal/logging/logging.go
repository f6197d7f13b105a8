// Package logging builds the structured logger the rest of the core
// receives. Output goes to stderr and, when a file path is configured,
// to a size-rotated session log as well.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logging configuration
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // "json" or "console"
	FilePath   string // empty disables the file sink
	MaxSizeMB  int    // per rotated file
	MaxBackups int
	MaxAgeDays int
}

// NewLogger creates a zap logger from the config. Unknown levels fall
// back to Info rather than failing: a bad log setting must never keep
// the editor from opening a project.
func NewLogger(cfg Config) *zap.Logger {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level),
	}

	if cfg.FilePath != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    orDefault(cfg.MaxSizeMB, 10),
			MaxBackups: orDefault(cfg.MaxBackups, 5),
			MaxAge:     orDefault(cfg.MaxAgeDays, 30),
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotated), level))
	}

	return zap.New(zapcore.NewTee(cores...))
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
