package tools

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTool() Tool {
	return New("echo", "Echo text back", echoType, func(_ context.Context, a echoArgs) (Envelope, error) {
		return OK(a.Text), nil
	})
}

func pingTool() Tool {
	return NewNoArgs("ping", "Reply with pong", func(context.Context) (Envelope, error) {
		return OK("pong"), nil
	})
}

func TestNewRegistry_PreservesOrder(t *testing.T) {
	r, err := NewRegistry(pingTool(), echoTool())
	require.NoError(t, err)

	assert.Equal(t, []string{"ping", "echo"}, r.Names())
	assert.Equal(t, 2, r.Len())

	infos := r.Infos()
	require.Len(t, infos, 2)
	assert.Equal(t, "ping", infos[0].Name)
	assert.Equal(t, "echo", infos[1].Name)
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(echoTool(), pingTool(), echoTool())
	assert.ErrorIs(t, err, ErrDuplicateTool)
}

func TestNewRegistry_RejectsBadNames(t *testing.T) {
	handler := func(context.Context) (Envelope, error) { return Empty(), nil }

	tests := []struct {
		name string
		want error
	}{
		{"", ErrEmptyName},
		{"has/slash", ErrInvalidName},
		{"has space", ErrInvalidName},
		{"has?query", ErrInvalidName},
		{"has%20", ErrInvalidName},
		{".", ErrInvalidName},
		{"..", ErrInvalidName},
		{".hidden", ErrInvalidName},
		{ListRoute, ErrReservedName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(NewNoArgs(tt.name, "", handler))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewRegistry_AcceptsPathSegmentNames(t *testing.T) {
	handler := func(context.Context) (Envelope, error) { return Empty(), nil }

	for _, name := range []string{"read-file", "v2.search", "1leading_digit", "_private", "UPPER"} {
		t.Run(name, func(t *testing.T) {
			r, err := NewRegistry(NewNoArgs(name, "", handler))
			require.NoError(t, err)
			_, ok := r.Lookup(name)
			assert.True(t, ok)
		})
	}
}

func TestNewRegistry_RejectsMissingHandler(t *testing.T) {
	_, err := NewRegistry(New[echoArgs]("echo", "", echoType, nil))
	assert.ErrorIs(t, err, ErrNoHandler)
}

func TestMustRegistry_Panics(t *testing.T) {
	assert.Panics(t, func() { MustRegistry(echoTool(), echoTool()) })
}

func TestRegistry_LookupIsExactAndCaseSensitive(t *testing.T) {
	r := MustRegistry(echoTool())

	_, ok := r.Lookup("echo")
	assert.True(t, ok)

	for _, name := range []string{"Echo", "ECHO", "echo ", " echo", "ech", ""} {
		_, ok := r.Lookup(name)
		assert.False(t, ok, "lookup %q", name)
	}
}

func TestRegistry_ListReturnsCopy(t *testing.T) {
	r := MustRegistry(echoTool(), pingTool())

	list := r.List()
	list[0] = Tool{}

	assert.Equal(t, []string{"echo", "ping"}, r.Names())
}

func TestTool_BindAndCall(t *testing.T) {
	call, err := echoTool().Bind([]byte(`{"text":"hi"}`))
	require.NoError(t, err)

	env, err := call(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hi", env.StatusText())
}

func TestTool_BindDecodeFailureSkipsHandler(t *testing.T) {
	invoked := false
	tool := New("echo", "", echoType, func(_ context.Context, _ echoArgs) (Envelope, error) {
		invoked = true
		return Empty(), nil
	})

	call, err := tool.Bind([]byte(`{}`))
	assert.Nil(t, call)

	var de *DecodeError
	assert.True(t, errors.As(err, &de))
	assert.False(t, invoked)
}

func TestTool_ZeroValueHasNoHandler(t *testing.T) {
	_, err := Tool{}.Bind(nil)
	assert.ErrorIs(t, err, ErrNoHandler)
}

func TestRegistry_ConcurrentReads(t *testing.T) {
	r := MustRegistry(echoTool(), pingTool())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, ok := r.Lookup("echo"); !ok {
					t.Error("expected echo to resolve")
					return
				}
				_ = r.Infos()
			}
		}()
	}
	wg.Wait()
}
