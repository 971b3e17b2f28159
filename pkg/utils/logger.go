package utils

import "go.uber.org/zap"

// NewLogger builds the process logger: a human-readable development logger at
// debug level when debug is set, JSON at info level otherwise.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
