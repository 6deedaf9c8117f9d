package config

import (
	"fmt"
	"strconv"
)

// ValidateMode controls how strictly raw input is checked during resource
// construction. The mode is passed explicitly down the construction call
// chain; there is no package-level state.
type ValidateMode int

const (
	// Strict is used for user-supplied input. Allowed-value sets are
	// enforced and duplicate resource names within a kind are rejected.
	Strict ValidateMode = iota

	// Lenient is used when reconstructing resources from remote API
	// payloads. The remote system may legitimately return values the
	// local schema no longer lists as a choice (e.g. a deprecated enum
	// value); such payloads must still round-trip without failing.
	Lenient
)

// FieldType enumerates the value types a field descriptor can declare.
type FieldType int

const (
	// TypeString is a plain string value.
	TypeString FieldType = iota

	// TypeInt is an integer value.
	TypeInt

	// TypeBool is a boolean value.
	TypeBool

	// TypeIntStr is an integer coded as a decimal string on the wire
	// (e.g. a priority of "100").
	TypeIntStr

	// TypeList is a list of strings.
	TypeList
)

// FieldSpec describes one field of a resource kind: whether it is required,
// how its raw value is coerced, its default, and its allowed values. Every
// field access during construction goes through a descriptor; unknown raw
// fields are rejected implicitly by never being read.
type FieldSpec struct {
	// Name is the wire name of the field.
	Name string

	// Required marks fields that must resolve to a non-nil value.
	Required bool

	// Type selects the coercion applied to the raw value.
	Type FieldType

	// Default is used when the raw value is absent or null. A nil
	// Default means the field has no default.
	Default any

	// Choices restricts the value to a fixed set. A nil slice means the
	// field is unconstrained. Choices are only enforced in Strict mode.
	Choices []string

	// AllowNil marks nil as an explicit member of the choice set.
	AllowNil bool

	// ExcludeEmptyStr rewrites a resolved empty string to nil, letting
	// explicitly cleared fields fall back to absence semantics.
	ExcludeEmptyStr bool
}

// ValidationError reports invalid raw input for one field of one resource
// kind. It is raised synchronously during configuration construction, before
// any remote call is made.
type ValidationError struct {
	// Kind is the resource kind whose construction failed.
	Kind Kind

	// Field is the offending field name.
	Field string

	// Message is the human-readable failure reason.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: field %q %s", e.Kind, e.Field, e.Message)
}

// newValidationError creates a validation error for one field.
func newValidationError(kind Kind, field, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

// fieldReader resolves raw field values against a schema table. It records
// the first error encountered so constructors can read every declared field
// in a fixed order and check for failure once.
type fieldReader struct {
	kind   Kind
	schema []FieldSpec
	raw    map[string]any
	mode   ValidateMode
	err    error
}

func newFieldReader(kind Kind, schema []FieldSpec, raw map[string]any, mode ValidateMode) *fieldReader {
	return &fieldReader{kind: kind, schema: schema, raw: raw, mode: mode}
}

func (r *fieldReader) fail(field, format string, args ...any) {
	if r.err == nil {
		r.err = newValidationError(r.kind, field, format, args...)
	}
}

// spec looks up the descriptor for a field name. Reading a field the schema
// does not declare is a programming error, not an input error.
func (r *fieldReader) spec(name string) FieldSpec {
	for _, s := range r.schema {
		if s.Name == name {
			return s
		}
	}
	panic(fmt.Sprintf("config: kind %q has no field %q in its schema", r.kind, name))
}

// resolve applies the descriptor contract: raw lookup, defaulting, required
// check, choice check, coercion, empty-string exclusion. A raw null is
// treated the same as an absent key and falls back to the default.
func (r *fieldReader) resolve(spec FieldSpec) any {
	value, ok := r.raw[spec.Name]
	if !ok || value == nil {
		value = spec.Default
	}

	if value == nil && spec.Required {
		r.fail(spec.Name, "is required but not set")
		return nil
	}

	if r.mode == Strict && spec.Choices != nil {
		if !choiceAllowed(value, spec) {
			r.fail(spec.Name, "must be one of %v", spec.Choices)
			return nil
		}
	}

	value = r.coerce(spec, value)

	if spec.ExcludeEmptyStr && value == "" {
		return nil
	}
	return value
}

func choiceAllowed(value any, spec FieldSpec) bool {
	if value == nil {
		return spec.AllowNil
	}
	s, ok := value.(string)
	if !ok {
		return false
	}
	for _, c := range spec.Choices {
		if s == c {
			return true
		}
	}
	return false
}

func (r *fieldReader) coerce(spec FieldSpec, value any) any {
	if value == nil {
		return nil
	}
	switch spec.Type {
	case TypeString:
		s, err := toString(value)
		if err != nil {
			r.fail(spec.Name, "with value '%v' is not a string", value)
			return nil
		}
		return s
	case TypeInt:
		n, err := toInt(value)
		if err != nil {
			r.fail(spec.Name, "with value '%v' couldn't be converted to integer", value)
			return nil
		}
		return n
	case TypeIntStr:
		n, err := toInt(value)
		if err != nil {
			r.fail(spec.Name, "with value '%v' couldn't be converted to integer", value)
			return nil
		}
		return strconv.Itoa(n)
	case TypeBool:
		b, err := toBool(value)
		if err != nil {
			r.fail(spec.Name, "with value '%v' couldn't be converted to boolean", value)
			return nil
		}
		return b
	case TypeList:
		l, err := toStringList(value)
		if err != nil {
			r.fail(spec.Name, "with value '%v' is not a list", value)
			return nil
		}
		return l
	}
	return value
}

// str reads a field whose resolved value is guaranteed non-nil by the schema
// (required, or carrying a non-nil default).
func (r *fieldReader) str(name string) string {
	v := r.resolve(r.spec(name))
	s, _ := v.(string)
	return s
}

// strp reads a nullable string field.
func (r *fieldReader) strp(name string) *string {
	v := r.resolve(r.spec(name))
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

// intval reads an integer field with a non-nil default.
func (r *fieldReader) intval(name string) int {
	v := r.resolve(r.spec(name))
	n, _ := v.(int)
	return n
}

// intp reads a nullable integer field.
func (r *fieldReader) intp(name string) *int {
	v := r.resolve(r.spec(name))
	if n, ok := v.(int); ok {
		return &n
	}
	return nil
}

// boolean reads a boolean field with a non-nil default.
func (r *fieldReader) boolean(name string) bool {
	v := r.resolve(r.spec(name))
	b, _ := v.(bool)
	return b
}

// intstr reads an integer-coded-as-string field.
func (r *fieldReader) intstr(name string) string {
	v := r.resolve(r.spec(name))
	s, _ := v.(string)
	return s
}

// list reads a list-of-strings field. A nil result means the field was
// absent.
func (r *fieldReader) list(name string) []string {
	v := r.resolve(r.spec(name))
	l, _ := v.([]string)
	return l
}

// toInt converts raw YAML/JSON scalar representations to an int. JSON
// decoding yields float64 for all numbers, YAML yields int; both must parse.
func toInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, err
		}
		return n, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("cannot convert %T to integer", value)
}

// toString accepts strings and numeric scalars; numbers are rendered in
// their decimal form so a YAML `status: 302` and a remote `"status": "302"`
// meet in the middle.
func toString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("cannot convert %T to string", value)
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case float64:
		return v != 0, nil
	}
	return false, fmt.Errorf("cannot convert %T to boolean", value)
}

func toStringList(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, err := toString(item)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("value of type %T is not a list", value)
}
