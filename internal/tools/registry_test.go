package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/pkg/errors"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry()

	tool := New("echo", "returns its arguments", func(ctx context.Context, args interface{}) (interface{}, error) {
		return args, nil
	})
	registry.Register("echo", tool)

	got, ok := registry.Get("echo")
	require.True(t, ok)
	assert.Equal(t, "echo", got.Name())
	assert.Equal(t, "returns its arguments", got.Description())

	out, err := got.Execute(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestRegistryGetMissing(t *testing.T) {
	registry := NewRegistry()

	_, ok := registry.Get("nope")
	assert.False(t, ok)
}

func TestRegistryListIsSorted(t *testing.T) {
	registry := NewRegistry()
	registry.Register("b", New("b", "", nil))
	registry.Register("a", New("a", "", nil))
	registry.Register("c", New("c", "", nil))

	assert.Equal(t, []string{"a", "b", "c"}, registry.List())
}

func TestFunctionToolNilHandler(t *testing.T) {
	tool := New("broken", "", nil)

	_, err := tool.Execute(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInternal))
	assert.Contains(t, err.Error(), "broken")
}
