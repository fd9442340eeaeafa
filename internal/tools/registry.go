package tools

import (
	"fmt"
	"regexp"
)

// ListRoute is the route key reserved for tool discovery.
const ListRoute = "list_tools"

// validName accepts names usable verbatim as one URL path segment.
var validName = regexp.MustCompile(`^[a-zA-Z0-9_-][a-zA-Z0-9_.-]*$`)

// Registry is the ordered, immutable set of tools. It is safe for
// concurrent reads because nothing mutates it after NewRegistry returns.
type Registry struct {
	tools []Tool
	index map[string]int
}

// NewRegistry validates and indexes tools in the given order. A duplicate
// or malformed name is a wiring error.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{
		tools: make([]Tool, 0, len(tools)),
		index: make(map[string]int, len(tools)),
	}
	for _, t := range tools {
		if err := validateTool(t); err != nil {
			return nil, err
		}
		if _, exists := r.index[t.name]; exists {
			return nil, fmt.Errorf("%w: %q is already registered", ErrDuplicateTool, t.name)
		}
		r.index[t.name] = len(r.tools)
		r.tools = append(r.tools, t)
	}
	return r, nil
}

// MustRegistry is NewRegistry that panics on error.
func MustRegistry(tools ...Tool) *Registry {
	r, err := NewRegistry(tools...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the tool registered under name. Matching is exact and
// case-sensitive.
func (r *Registry) Lookup(name string) (Tool, bool) {
	i, ok := r.index[name]
	if !ok {
		return Tool{}, false
	}
	return r.tools[i], true
}

// List returns the tools in registration order.
func (r *Registry) List() []Tool {
	out := make([]Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.name
	}
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.tools)
}

// Infos derives the discovery entries for every tool in registration order.
func (r *Registry) Infos() []ToolInfo {
	infos := make([]ToolInfo, len(r.tools))
	for i, t := range r.tools {
		infos[i] = t.Info()
	}
	return infos
}

func validateTool(t Tool) error {
	if t.name == "" {
		return ErrEmptyName
	}
	if !validName.MatchString(t.name) {
		return fmt.Errorf("%w: %q may contain only letters, digits, '_', '-' and '.', and may not start with '.'", ErrInvalidName, t.name)
	}
	if t.name == ListRoute {
		return fmt.Errorf("%w: %q", ErrReservedName, t.name)
	}
	if t.bind == nil {
		return fmt.Errorf("%w: %q", ErrNoHandler, t.name)
	}
	return nil
}
