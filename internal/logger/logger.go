package logger

import (
	"fmt"
	"os"

	"github.com/getsentry/raven-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level string
	// Format is either "console" or "json"
	Format string
	// File enables an additional JSON output with rotation. Empty value disables it
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
}

func New(cfg Config, sentry *raven.Client) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "", "console":
		consoleConfig := encoderConfig
		consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(consoleConfig)
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}

	if cfg.File != "" {
		writer := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(writer), level))
	}

	var options []zap.Option
	if sentry != nil {
		options = append(options, zap.Hooks(SentryHook(sentry)))
	}

	return zap.New(zapcore.NewTee(cores...), options...), nil
}

// SentryHook forwards entries of the error level and above into Sentry
func SentryHook(client *raven.Client) func(zapcore.Entry) error {
	return func(entry zapcore.Entry) error {
		if entry.Level < zapcore.ErrorLevel {
			return nil
		}

		tags := map[string]string{
			"level": entry.Level.String(),
		}
		if entry.LoggerName != "" {
			tags["logger"] = entry.LoggerName
		}

		client.CaptureMessage(entry.Message, tags)

		return nil
	}
}
