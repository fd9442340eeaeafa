// Package tools holds the tool abstraction: argument type descriptors, the
// schema deriver, the argument codec and the immutable registry.
package tools

// Kind is the wire kind of a single argument field.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBoolean
	KindArray
	KindObject
)

// String returns the JSON Schema type name for the kind.
// Unknown kinds map to "object".
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindArray:
		return "array"
	default:
		return "object"
	}
}

// Field describes one named argument.
type Field struct {
	Name        string
	Kind        Kind
	Nullable    bool
	Description string
}

// Optional returns a copy of the field marked nullable.
func (f Field) Optional() Field {
	f.Nullable = true
	return f
}

// Describe returns a copy of the field with a description attached.
func (f Field) Describe(text string) Field {
	f.Description = text
	return f
}

// ArgsType is the declared argument shape of a tool. Fields keep their
// declaration order.
type ArgsType struct {
	fields []Field
}

// NoArgs is the zero-field marker for tools that accept no arguments.
var NoArgs = ArgsType{}

// Args builds an ArgsType from fields in declaration order.
func Args(fields ...Field) ArgsType {
	out := make([]Field, len(fields))
	copy(out, fields)
	return ArgsType{fields: out}
}

// Fields returns a copy of the declared fields.
func (t ArgsType) Fields() []Field {
	out := make([]Field, len(t.fields))
	copy(out, t.fields)
	return out
}

// IsEmpty reports whether the type declares no fields.
func (t ArgsType) IsEmpty() bool { return len(t.fields) == 0 }

// Required returns the names of non-nullable fields in declaration order.
func (t ArgsType) Required() []string {
	names := make([]string, 0, len(t.fields))
	for _, f := range t.fields {
		if f.Name == "" || f.Nullable {
			continue
		}
		names = append(names, f.Name)
	}
	return names
}

func String(name string) Field  { return Field{Name: name, Kind: KindString} }
func Number(name string) Field  { return Field{Name: name, Kind: KindNumber} }
func Boolean(name string) Field { return Field{Name: name, Kind: KindBoolean} }
func Array(name string) Field   { return Field{Name: name, Kind: KindArray} }
func Object(name string) Field  { return Field{Name: name, Kind: KindObject} }
