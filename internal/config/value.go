package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Value is a configuration string that is either a literal or computed late.
// Late values (environment lookups and Go callbacks) are evaluated when the
// configuration is resolved, never when it is declared.
type Value struct {
	literal  string
	env      string
	fallback string
	deferred func() (string, error)
	set      bool
}

// Literal returns a Value holding s.
func Literal(s string) Value {
	return Value{literal: s, set: true}
}

// Env returns a Value read from the environment variable name at resolution
// time, falling back to fallback when the variable is unset or empty.
func Env(name, fallback string) Value {
	return Value{env: name, fallback: fallback, set: true}
}

// Deferred returns a Value computed by fn at resolution time.
func Deferred(fn func() (string, error)) Value {
	return Value{deferred: fn, set: true}
}

// IsZero reports whether the value was never set.
func (v Value) IsZero() bool { return !v.set }

// IsLiteral reports whether the value is known without evaluation.
func (v Value) IsLiteral() bool { return v.set && v.env == "" && v.deferred == nil }

// Eval computes the value. Each call re-evaluates; the resolver calls it once.
func (v Value) Eval() (string, error) {
	switch {
	case v.deferred != nil:
		return v.deferred()
	case v.env != "":
		if s := os.Getenv(v.env); s != "" {
			return s, nil
		}
		return v.fallback, nil
	default:
		return v.literal, nil
	}
}

// String describes the value without evaluating it.
func (v Value) String() string {
	switch {
	case v.deferred != nil:
		return "<deferred>"
	case v.env != "":
		return fmt.Sprintf("${%s:-%s}", v.env, v.fallback)
	default:
		return v.literal
	}
}

func (v *Value) fromRaw(raw any) error {
	switch t := raw.(type) {
	case nil:
		*v = Value{}
	case string:
		*v = Literal(t)
	case int, int64, float64, bool:
		*v = Literal(fmt.Sprint(t))
	case map[string]any:
		name, ok := t["env"].(string)
		if !ok || name == "" {
			return fmt.Errorf("value mapping requires an \"env\" key")
		}
		fallback, _ := t["default"].(string)
		*v = Env(name, fallback)
	default:
		return fmt.Errorf("unsupported value type %T", raw)
	}
	return nil
}

// UnmarshalYAML accepts a scalar or an {env, default} mapping.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return v.fromRaw(raw)
}

// UnmarshalTOML accepts a scalar or an {env, default} table.
func (v *Value) UnmarshalTOML(data any) error {
	return v.fromRaw(data)
}

// ValueList is a list of Values; a single scalar decodes as a one-element list.
type ValueList []Value

func (l *ValueList) fromRaw(raw any) error {
	items, ok := raw.([]any)
	if !ok {
		items = []any{raw}
	}
	out := make(ValueList, 0, len(items))
	for i, item := range items {
		var v Value
		if err := v.fromRaw(item); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, v)
	}
	*l = out
	return nil
}

func (l *ValueList) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return l.fromRaw(raw)
}

func (l *ValueList) UnmarshalTOML(data any) error {
	return l.fromRaw(data)
}

// StringList is a path list that may be written as a single string.
// Len is kept so callers can reject multi-entry values instead of collapsing them.
type StringList []string

func (l *StringList) fromRaw(raw any) error {
	switch t := raw.(type) {
	case nil:
		*l = nil
	case string:
		*l = StringList{t}
	case []any:
		out := make(StringList, 0, len(t))
		for i, item := range t {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("item %d: expected string, got %T", i, item)
			}
			out = append(out, s)
		}
		*l = out
	default:
		return fmt.Errorf("expected string or list, got %T", raw)
	}
	return nil
}

func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	return l.fromRaw(raw)
}

func (l *StringList) UnmarshalTOML(data any) error {
	return l.fromRaw(data)
}
