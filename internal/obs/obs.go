// Package obs wires structured logging into the reasoner. The core never
// picks a sink for the caller: by default it stays silent (a nop logger),
// and callers that want diagnostics inject a *zap.Logger the way
// codenerd's internal/logging package constructs one logger at the entry
// point and threads it downstream.
package obs

import "go.uber.org/zap"

// NewNop returns a logger that discards everything, the default for a
// freshly constructed Reasoner.
func NewNop() *zap.Logger { return zap.NewNop() }

// NewDevelopment returns a human-readable logger suitable for local
// debugging and for cmd/owl2go-bench.
func NewDevelopment() *zap.Logger {
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
