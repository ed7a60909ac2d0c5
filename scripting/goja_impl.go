package scripting

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dop251/goja"

	"docforge/docspec"
)

type GojaEngine struct {
	vm *goja.Runtime
}

func NewEngine() *GojaEngine {
	return &GojaEngine{vm: goja.New()}
}

func (e *GojaEngine) Execute(ctx context.Context, script string) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	defer e.vm.ClearInterrupt()

	go func() {
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := e.vm.RunString(script)
	if err != nil {
		if interruptedErr, ok := err.(*goja.InterruptedError); ok {
			if cause := interruptedErr.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, fmt.Errorf("scripting: %w", err)
	}
	return val.Export(), nil
}

// EvaluateSpec expects the script's final expression to be the
// specification object. The exported value round-trips through JSON so the
// script side stays plain objects and arrays.
func (e *GojaEngine) EvaluateSpec(ctx context.Context, script string) (*docspec.Spec, error) {
	val, err := e.Execute(ctx, script)
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, fmt.Errorf("scripting: script produced no specification")
	}
	data, err := json.Marshal(val)
	if err != nil {
		return nil, fmt.Errorf("scripting: encoding script result: %w", err)
	}
	spec, err := docspec.Parse(data)
	if err != nil {
		return nil, err
	}
	return spec, nil
}
