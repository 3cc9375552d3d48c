// Package logging builds the zap logger used by the CLI.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/papapumpkin/degreeplan/internal/config"
)

// New builds a logger writing to stderr. The json format uses zap's
// production settings, anything else its development console settings. An
// unparsable level falls back to info.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.Encoding = "console"
	}
	zapCfg.Level = zap.NewAtomicLevelAt(Level(cfg.Level))
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapCfg.Build()
}

// Level parses s, returning info for an empty or unknown level.
func Level(s string) zapcore.Level {
	var l zapcore.Level
	if s == "" || l.UnmarshalText([]byte(s)) != nil {
		return zapcore.InfoLevel
	}
	return l
}
