package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Init builds the process logger for env and installs it as the zap global,
// so packages log through zap.S(). Production logs JSON at info level,
// everything else logs colored console output at debug level.
func Init(env string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(env) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(l)
	return l, nil
}
