package tools

import "context"

// Handler is the typed body of a tool. It may return an error or panic;
// both are turned into an error envelope by the dispatcher.
type Handler[A any] func(ctx context.Context, args A) (Envelope, error)

// Call is a decoded invocation ready to run.
type Call func(ctx context.Context) (Envelope, error)

// Tool is a named operation with a declared argument type. The concrete Go
// argument type is captured by the bind closure, so callers only deal with
// raw bytes in and an Envelope out.
type Tool struct {
	name        string
	description string
	args        ArgsType
	bind        func(raw []byte) (Call, error)
}

// New builds a Tool whose arguments decode into A.
func New[A any](name, description string, args ArgsType, handler Handler[A]) Tool {
	t := Tool{name: name, description: description, args: args}
	if handler == nil {
		return t
	}
	t.bind = func(raw []byte) (Call, error) {
		decoded, err := Decode[A](raw, args)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (Envelope, error) {
			return handler(ctx, decoded)
		}, nil
	}
	return t
}

// NewNoArgs builds a Tool that accepts no arguments. Any JSON object body
// is accepted and ignored.
func NewNoArgs(name, description string, handler func(ctx context.Context) (Envelope, error)) Tool {
	if handler == nil {
		return New[struct{}](name, description, NoArgs, nil)
	}
	return New[struct{}](name, description, NoArgs, func(ctx context.Context, _ struct{}) (Envelope, error) {
		return handler(ctx)
	})
}

func (t Tool) Name() string        { return t.name }
func (t Tool) Description() string { return t.description }
func (t Tool) Args() ArgsType      { return t.args }

// Bind decodes raw against the tool's argument type. A decode failure is a
// *DecodeError and the handler is not reachable.
func (t Tool) Bind(raw []byte) (Call, error) {
	if t.bind == nil {
		return nil, ErrNoHandler
	}
	return t.bind(raw)
}

// Info returns the discovery entry for the tool.
func (t Tool) Info() ToolInfo {
	return ToolInfo{
		Name:        t.name,
		Description: t.description,
		InputSchema: DeriveSchema(t.args),
	}
}
