// Package scripting evaluates JavaScript programs that build document
// specifications, so callers can ship templating logic as data instead of
// compiling it in.
package scripting

import (
	"context"

	"docforge/docspec"
)

// Engine evaluates scripts against a deadline.
type Engine interface {
	// Execute runs a script and returns the exported value of its final
	// expression. Cancellation of ctx interrupts a running script.
	Execute(ctx context.Context, script string) (interface{}, error)

	// EvaluateSpec runs a script whose final expression is a document
	// specification object and decodes it.
	EvaluateSpec(ctx context.Context, script string) (*docspec.Spec, error)
}
