package tools

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Decode turns a raw request body into an A. An empty body yields the zero
// value of A without parsing. Otherwise the body must be a JSON object whose
// fields satisfy t: non-nullable fields present and non-null, present fields
// of the declared kind. Keys not declared in t, including case variants of
// declared names, never reach A.
func Decode[A any](raw []byte, t ArgsType) (A, error) {
	var args A
	if len(bytes.TrimSpace(raw)) == 0 {
		return args, nil
	}

	if !gjson.ValidBytes(raw) {
		return args, &DecodeError{Reason: "malformed JSON body"}
	}
	body := gjson.ParseBytes(raw)
	if !body.IsObject() {
		return args, &DecodeError{Reason: fmt.Sprintf("expected a JSON object, got %s", jsonKind(body))}
	}

	present := make(map[string]gjson.Result)
	body.ForEach(func(key, value gjson.Result) bool {
		present[key.String()] = value
		return true
	})

	var declared bytes.Buffer
	declared.WriteByte('{')
	for _, f := range t.fields {
		if f.Name == "" {
			continue
		}
		value, ok := present[f.Name]
		if !ok || value.Type == gjson.Null {
			if f.Nullable {
				continue
			}
			return args, &DecodeError{Field: f.Name, Reason: "required field is missing"}
		}
		if !matchesKind(value, f.Kind) {
			return args, &DecodeError{
				Field:  f.Name,
				Reason: fmt.Sprintf("expected %s, got %s", f.Kind, jsonKind(value)),
			}
		}
		if declared.Len() > 1 {
			declared.WriteByte(',')
		}
		key, _ := json.Marshal(f.Name)
		declared.Write(key)
		declared.WriteByte(':')
		declared.WriteString(value.Raw)
	}
	declared.WriteByte('}')

	// Only checked fields are unmarshalled; encoding/json would otherwise
	// match other keys to struct fields case-insensitively.
	if err := json.Unmarshal(declared.Bytes(), &args); err != nil {
		return args, &DecodeError{Reason: err.Error(), Err: err}
	}
	return args, nil
}

// Encode renders an Envelope or a tool list as indented JSON.
func Encode(v any) ([]byte, error) {
	switch e := v.(type) {
	case Envelope:
		if !e.Valid() {
			return nil, ErrConflictingEnvelope
		}
	case *Envelope:
		if e != nil && !e.Valid() {
			return nil, ErrConflictingEnvelope
		}
	case []ToolInfo:
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func matchesKind(v gjson.Result, k Kind) bool {
	switch k {
	case KindString:
		return v.Type == gjson.String
	case KindNumber:
		return v.Type == gjson.Number
	case KindBoolean:
		return v.Type == gjson.True || v.Type == gjson.False
	case KindArray:
		return v.IsArray()
	default:
		return v.IsObject()
	}
}

func jsonKind(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return "null"
	case gjson.True, gjson.False:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	default:
		if v.IsArray() {
			return "array"
		}
		return "object"
	}
}
