package logger

import (
	"go.uber.org/zap"
)

// New builds the process logger. The returned logger is injected into
// components rather than held as package-global state.
func New(debug bool) (*zap.Logger, error) {
	var config zap.Config

	if debug {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}

	return config.Build()
}
