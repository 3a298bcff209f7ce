package tools

import (
	"context"

	"hermes/pkg/errors"
)

// Tool is one invocable pipeline capability. Tools take a single
// canonical typed payload (see catalog.go) and hand back whatever the
// underlying agent stage produces; there is no string/map coercion
// between stages.
type Tool interface {
	// Name returns the unique tool identifier
	Name() string

	// Description summarizes the tool for planner discovery
	Description() string

	// Execute runs the tool against its typed arguments
	Execute(ctx context.Context, args interface{}) (interface{}, error)
}

// HandlerFunc adapts a pipeline stage into a tool body
type HandlerFunc func(ctx context.Context, args interface{}) (interface{}, error)

// FunctionTool wraps a handler function as a Tool
type FunctionTool struct {
	name        string
	description string
	handler     HandlerFunc
}

var _ Tool = (*FunctionTool)(nil)

// New creates a function-backed tool
func New(name, description string, handler HandlerFunc) Tool {
	return &FunctionTool{
		name:        name,
		description: description,
		handler:     handler,
	}
}

// Name returns the tool identifier
func (t *FunctionTool) Name() string { return t.name }

// Description returns the discovery summary
func (t *FunctionTool) Description() string { return t.description }

// Execute invokes the wrapped handler
func (t *FunctionTool) Execute(ctx context.Context, args interface{}) (interface{}, error) {
	if t.handler == nil {
		return nil, errors.Wrapf(errors.ErrInternal, "tool %s has no handler", t.name)
	}

	return t.handler(ctx, args)
}
