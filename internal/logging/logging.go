// Package logging constructs the shared zap logger every other package
// takes as a constructor argument rather than reaching for a global.
package logging

import "go.uber.org/zap"

// New builds a production zap logger. Callers that want development-mode
// formatting (human-readable, stack traces on Warn+) should use NewDevelopment
// instead; the package tests use Nop.
func New() (*zap.Logger, error) {
	return zap.NewProduction()
}

// NewDevelopment builds a development-mode zap logger.
func NewDevelopment() (*zap.Logger, error) {
	return zap.NewDevelopment()
}

// Nop returns a logger that discards everything, used where a caller has
// not configured one but a component requires a non-nil *zap.Logger.
func Nop() *zap.Logger {
	return zap.NewNop()
}
