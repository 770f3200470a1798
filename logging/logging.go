// Package logging builds the zap logger the binaries share. Log files
// rotate via lumberjack; a console core mirrors warnings and above so a
// terminal session is not silent.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a sugared logger writing to filePath with rotation. When
// debug is set the file core logs at debug level and the console mirrors
// everything instead of only warnings.
func New(filePath string, debug bool) *zap.SugaredLogger {
	lj := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   false,
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stack",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}
	encoder := zapcore.NewConsoleEncoder(encCfg)

	fileLevel := zapcore.InfoLevel
	consoleLevel := zapcore.WarnLevel
	if debug {
		fileLevel = zapcore.DebugLevel
		consoleLevel = zapcore.DebugLevel
	}

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.AddSync(lj), fileLevel),
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), consoleLevel),
	)

	return zap.New(core, zap.AddCaller()).Sugar()
}
