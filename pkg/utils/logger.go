package utils

import "go.uber.org/zap"

// NewLogger returns the process logger. Debug mode uses the development
// config (human-readable console output at debug level) for local runs;
// otherwise production config (JSON at info level) for deployed servers.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
