package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It is a no-op until Init is called so
// packages and tests can log unconditionally.
var Log = zap.NewNop()

// Init builds the global logger. SKYCYCLE_ENV=production switches to JSON
// output at info level, anything else gets the colored development console.
func Init() {
	var cfg zap.Config
	if os.Getenv("SKYCYCLE_ENV") == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if lvl := os.Getenv("SKYCYCLE_LOG_LEVEL"); lvl != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(lvl)); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(level)
		}
	}

	l, err := cfg.Build()
	if err != nil {
		// Fall back to the nop logger rather than crash the frame loop
		return
	}
	Log = l
}

// Sync flushes buffered entries, call before exit
func Sync() {
	_ = Log.Sync()
}
