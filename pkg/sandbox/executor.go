package sandbox

import (
	"context"
	"fmt"
	"time"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"go.uber.org/zap"

	"github.com/wilco-ai/wilco-engine/pkg/logging"
	"github.com/wilco-ai/wilco-engine/pkg/tabular"
)

// missingResultMessage is the contract violation message for snippets
// that never bind the designated output variable.
const missingResultMessage = "No 'result' variable in generated code"

// Executor runs snippets in a fresh interpreter per execution. The
// interpreter sees exactly the loaded frames and the approved helpers;
// there is no filesystem, network or exec surface. A wall-clock budget
// bounds each run.
type Executor struct {
	timeout time.Duration
	logger  *zap.Logger
}

// NewExecutor creates a sandbox executor with the given execution budget.
func NewExecutor(timeout time.Duration, logger *zap.Logger) *Executor {
	return &Executor{
		timeout: timeout,
		logger:  logger.Named("sandbox"),
	}
}

// Execute runs the snippet against the given frames and captures its
// result and title bindings. Snippet failures of any kind come back as
// *ExecutionError; they never panic through to the caller.
func (e *Executor) Execute(ctx context.Context, snippet string, frames []*tabular.Frame) (*Execution, error) {
	if err := validateImports(snippet); err != nil {
		return nil, err
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("failed to load interpreter stdlib: %w", err)
	}
	if err := i.Use(buildExports(frames)); err != nil {
		return nil, fmt.Errorf("failed to bind frames: %w", err)
	}
	if _, err := i.Eval(`import . "analytics"`); err != nil {
		return nil, fmt.Errorf("failed to import bindings: %w", err)
	}

	execCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				errCh <- &ExecutionError{Message: fmt.Sprintf("panic: %v", r)}
			}
		}()
		_, err := i.Eval(snippet)
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if err != nil {
			if execErr, ok := err.(*ExecutionError); ok {
				return nil, execErr
			}
			e.logger.Debug("Snippet evaluation failed",
				zap.String("snippet", logging.TruncateSnippet(snippet)),
				zap.Error(err))
			return nil, &ExecutionError{Message: err.Error()}
		}
	case <-execCtx.Done():
		e.logger.Warn("Snippet execution exceeded budget",
			zap.Duration("timeout", e.timeout))
		return nil, &ExecutionError{Message: fmt.Sprintf("execution exceeded the %s budget", e.timeout)}
	}
	duration := time.Since(start)

	resultVal, err := i.Eval("result")
	if err != nil {
		return nil, &ExecutionError{Message: missingResultMessage}
	}

	title := ""
	if titleVal, err := i.Eval("title"); err == nil {
		if s, ok := titleVal.Interface().(string); ok {
			title = s
		}
	}

	exec := &Execution{
		Title:    title,
		Outcome:  classify(resultVal.Interface()),
		Duration: duration,
	}
	e.logger.Debug("Snippet executed",
		zap.Duration("duration", duration),
		zap.String("outcome", fmt.Sprintf("%T", exec.Outcome)))
	return exec, nil
}

// classify maps the raw captured value onto the tagged outcome variants.
// A one-element list holding a single frame is unwrapped to the frame, a
// common generation artifact.
func classify(v any) Outcome {
	switch x := v.(type) {
	case *tabular.Frame:
		return Table{Frame: x}
	case []any:
		if len(x) == 1 {
			if f, ok := x[0].(*tabular.Frame); ok {
				return Table{Frame: f}
			}
		}
		return Mapping{Value: x}
	case []map[string]any:
		return Mapping{Value: x}
	case map[string]any:
		return Mapping{Value: x}
	case map[string]float64:
		return Mapping{Value: x}
	case map[string]string:
		return Mapping{Value: x}
	case error:
		return Failure{Message: x.Error()}
	default:
		return Scalar{Value: x}
	}
}
