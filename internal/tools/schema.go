package tools

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Property is the schema of a single argument.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// InputSchema is the JSON Schema object advertised for a tool. Properties
// serialize in field declaration order.
type InputSchema struct {
	Type       string                                   `json:"type"`
	Properties *orderedmap.OrderedMap[string, Property] `json:"properties"`
	Required   []string                                 `json:"required"`
}

// DeriveSchema builds the input schema for an argument type. It only reads
// the descriptor.
func DeriveSchema(t ArgsType) InputSchema {
	props := orderedmap.New[string, Property]()
	required := make([]string, 0, len(t.fields))

	for _, f := range t.fields {
		if f.Name == "" {
			continue
		}
		props.Set(f.Name, Property{Type: f.Kind.String(), Description: f.Description})
		if !f.Nullable {
			required = append(required, f.Name)
		}
	}

	return InputSchema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

// PropertyNames returns the schema's property names in order.
func (s InputSchema) PropertyNames() []string {
	if s.Properties == nil {
		return nil
	}
	names := make([]string, 0, s.Properties.Len())
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}
