package log

import (
	"go.uber.org/zap"
)

var defaultLogger = zap.NewNop()

// Get returns the package-wide logger. It is a no-op logger until
// the embedding application installs one with Set.
func Get() *zap.Logger {
	return defaultLogger
}

func Set(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaultLogger = logger
}

func SetDevelopment() {
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zap.DebugLevel),
		Development:      true,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	defaultLogger = logger
}

func Flush() {
	_ = defaultLogger.Sync()
}
