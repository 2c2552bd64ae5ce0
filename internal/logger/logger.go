package logger

import (
	"go.uber.org/zap"
)

// New builds the application logger. Debug mode switches to the development
// preset with human-readable output.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	// The CLI reserves stdout for results; logs go to stderr.
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
