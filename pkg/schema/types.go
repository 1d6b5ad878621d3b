package schema

import (
	"fmt"
	"reflect"
	"regexp"
)

// Type defines the contract for field validation.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "[string]").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// IntType validates integer values.
type IntType struct{}

func (t *IntType) Name() string { return "int" }

func (t *IntType) Validate(value any) error {
	switch value.(type) {
	case int, int8, int16, int32, int64:
		return nil
	default:
		return fmt.Errorf("expected int, got %T", value)
	}
}

// BoolType validates boolean values.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Validate(value any) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

// SliceType validates sequences of a specific element type.
type SliceType struct {
	elemType Type
}

func (t *SliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *SliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected list, got %T", value)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := t.elemType.Validate(rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// PatternType validates strings against a regular expression.
type PatternType struct {
	name string
	re   *regexp.Regexp
}

func (t *PatternType) Name() string { return t.name }

func (t *PatternType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	if !t.re.MatchString(s) {
		return fmt.Errorf("%q is not a valid %s", s, t.name)
	}
	return nil
}

// OptionalType marks a field that may be absent. Present values are
// validated with the wrapped type.
type OptionalType struct {
	Type
}

func (t *OptionalType) Name() string { return t.Type.Name() + "?" }

// String creates a string type validator.
func String() Type { return &StringType{} }

// Int creates an integer type validator.
func Int() Type { return &IntType{} }

// Bool creates a boolean type validator.
func Bool() Type { return &BoolType{} }

// Slice creates a sequence validator for elements of the given type.
func Slice(elemType Type) Type {
	return &SliceType{elemType: elemType}
}

// Pattern creates a string validator matching expr. It panics if expr does
// not compile.
func Pattern(name, expr string) Type {
	return &PatternType{name: name, re: regexp.MustCompile(expr)}
}

// Optional allows the field to be absent.
func Optional(t Type) Type {
	return &OptionalType{Type: t}
}
