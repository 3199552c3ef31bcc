package logger

import (
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	formatJSON    = "json"
	formatConsole = "console"
)

func safeLevel(lvl string) zap.AtomicLevel {
	switch strings.ToLower(lvl) {
	case "debug":
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		return zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		return zap.NewAtomicLevelAt(zap.ErrorLevel)
	case "fatal":
		return zap.NewAtomicLevelAt(zap.FatalLevel)
	default:
		return zap.NewAtomicLevelAt(zap.InfoLevel)
	}
}

// NewLogger builds a logger from the logger.* keys. Logs go to stderr so
// that command output on stdout stays clean.
func NewLogger(v *viper.Viper) (*zap.Logger, error) {
	c := zap.NewProductionConfig()

	c.OutputPaths = []string{"stderr"}
	c.ErrorOutputPaths = []string{"stderr"}
	c.Sampling = nil

	c.Level = safeLevel(v.GetString("logger.level"))

	switch f := v.GetString("logger.format"); strings.ToLower(f) {
	case formatJSON:
		c.Encoding = formatJSON
	default:
		c.Encoding = formatConsole
		c.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return c.Build(zap.AddStacktrace(zap.NewAtomicLevelAt(zap.FatalLevel)))
}
