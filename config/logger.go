package config

import "go.uber.org/zap"

// NewLogger returns a console logger in development and a JSON logger elsewhere.
func NewLogger(cfg Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
